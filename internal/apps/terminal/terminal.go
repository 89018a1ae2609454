package terminal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/domain/ai"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/shared/paths"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"go.uber.org/zap"
)

// MaxHistory bounds the scrollback kept per session
const MaxHistory = 500

// Banner lines shown when a session starts
var Banner = []string{
	"Welcome to Ubuntu Web 24.04 LTS",
	`Type "help" for a list of commands.`,
}

// ErrBusy is returned while a slow command is still running
var ErrBusy = errors.New("terminal is busy")

// FS is the subset of the file system service the shell needs
type FS interface {
	GetChildren(parentID string) []types.Node
	GetNode(nodeID string) (types.Node, bool)
	CreateNode(name string, typ types.NodeType, parentID string, content string) (types.Node, error)
	DeleteNode(nodeID string) bool
	ResolvePath(fromID, expr string) (string, error)
	PathString(nodeID string) (string, bool)
}

// Runner executes slow work away from the caller. Work hands state changes
// to apply, which runs them only while the owning window still exists and
// reports false once it is gone.
type Runner interface {
	Go(work func(ctx context.Context, apply func(func()) bool))
}

// Result describes what one command line did
type Result struct {
	Lines   []string `json:"lines"`
	Cleared bool     `json:"cleared,omitempty"`
	Pending bool     `json:"pending,omitempty"`
	Reboot  bool     `json:"reboot,omitempty"`
	Prompt  string   `json:"prompt"`
}

// View is the full visible state of a session
type View struct {
	Prompt string   `json:"prompt"`
	Lines  []string `json:"lines"`
	Busy   bool     `json:"busy"`
	Cwd    string   `json:"cwd"`
}

// Option configures a Session
type Option func(*Session)

// WithSudoDelay sets how long sudo pretends to check the password
func WithSudoDelay(d time.Duration) Option {
	return func(s *Session) { s.sudoDelay = d }
}

// WithClock overrides the time source used for uptime
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithMetrics counts executed commands
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l.Named("terminal") }
}

// Session is one terminal window's shell state
type Session struct {
	mu sync.Mutex

	fs     FS
	ai     ai.Service
	runner Runner

	cwd   string   // Protected by mu
	lines []string // Protected by mu
	busy  bool     // Protected by mu

	started   time.Time
	sudoDelay time.Duration
	now       func() time.Time
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// New creates a session rooted at the user's home folder
func New(fs FS, assistant ai.Service, runner Runner, opts ...Option) *Session {
	s := &Session{
		fs:        fs,
		ai:        assistant,
		runner:    runner,
		cwd:       paths.UserID,
		lines:     slices.Clone(Banner),
		sudoDelay: time.Second,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	return s
}

// Prompt returns the prompt for the current folder
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt()
}

func (s *Session) prompt() string {
	abs, ok := s.fs.PathString(s.cwd)
	if !ok {
		abs = paths.Root
	}
	return fmt.Sprintf("%s@web:%s$", paths.UserName, paths.Display(abs))
}

// View returns a copy of the session state
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Prompt: s.prompt(),
		Lines:  slices.Clone(s.lines),
		Busy:   s.busy,
		Cwd:    s.cwd,
	}
}

// Execute runs one command line. Blank input is ignored.
func (s *Session) Execute(input string) (Result, error) {
	trimmed := strings.TrimSpace(input)

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return Result{}, ErrBusy
	}
	if trimmed == "" {
		res := Result{Prompt: s.prompt()}
		s.mu.Unlock()
		return res, nil
	}

	out := &output{}
	out.add(s.prompt() + " " + trimmed)

	fields := strings.Fields(trimmed)
	name := strings.ToLower(fields[0])
	task := s.dispatch(name, fields[1:], out)

	if out.cleared {
		s.lines = nil
	} else {
		s.append(out.lines...)
	}
	if task != nil {
		s.busy = task.blocking
	}
	res := Result{
		Lines:   out.lines,
		Cleared: out.cleared,
		Pending: task != nil && task.blocking,
		Reboot:  out.reboot,
		Prompt:  s.prompt(),
	}
	if out.cleared {
		res.Lines = nil
	}
	s.mu.Unlock()

	s.count(name)
	if task != nil {
		s.runner.Go(task.work)
	}
	return res, nil
}

// append adds lines and trims the scrollback. Caller holds mu.
func (s *Session) append(lines ...string) {
	s.lines = append(s.lines, lines...)
	if over := len(s.lines) - MaxHistory; over > 0 {
		s.lines = slices.Delete(s.lines, 0, over)
	}
}

// deliver applies the output of deferred work
func (s *Session) deliver(release bool, lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(lines...)
	if release {
		s.busy = false
	}
}

func (s *Session) count(name string) {
	if s.metrics == nil {
		return
	}
	if _, ok := commands[name]; !ok {
		name = "unknown"
	}
	s.metrics.RecordCommand(name)
}

type output struct {
	lines   []string
	cleared bool
	reboot  bool
}

func (o *output) add(lines ...string) {
	o.lines = append(o.lines, lines...)
}

// task is deferred work started after the command returns
type task struct {
	blocking bool
	work     func(ctx context.Context, apply func(func()) bool)
}
