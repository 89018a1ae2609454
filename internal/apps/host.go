package apps

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/apps/chat"
	"github.com/GriffinCanCode/webdesk/internal/apps/editor"
	"github.com/GriffinCanCode/webdesk/internal/apps/files"
	"github.com/GriffinCanCode/webdesk/internal/apps/terminal"
	"github.com/GriffinCanCode/webdesk/internal/domain/ai"
	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"go.uber.org/zap"
)

var (
	// ErrNoWindow means the instance id names no open window
	ErrNoWindow = errors.New("window not found")
	// ErrWrongApp means the window exists but runs a different app
	ErrWrongApp = errors.New("window does not host this app")
)

// Windows is what the host needs from the window manager
type Windows interface {
	Get(instanceID string) (types.WindowInstance, bool)
	Exists(instanceID string) bool
	Windows() []types.WindowInstance
	OnChange(l window.Listener)
	files.Opener
}

// FS is the file system surface shared by every app
type FS interface {
	terminal.FS
	UpdateContent(nodeID, content string) bool
}

// UpdateListener is told when an app changed state on its own, outside any
// request (stream chunk, poll refresh, delayed output).
type UpdateListener func(instanceID string)

// Option configures a Host
type Option func(*Host)

// WithPollInterval sets the Files refresh period
func WithPollInterval(d time.Duration) Option {
	return func(h *Host) { h.pollInterval = d }
}

// WithTaskTimeout bounds each piece of background work
func WithTaskTimeout(d time.Duration) Option {
	return func(h *Host) { h.taskTimeout = d }
}

// WithSudoDelay is passed to terminal sessions
func WithSudoDelay(d time.Duration) Option {
	return func(h *Host) { h.sudoDelay = d }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) { h.logger = l.Named("apps") }
}

// WithMetrics is passed to sessions that record metrics
func WithMetrics(m *monitoring.Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// Host owns the per-window state of the interactive apps. Sessions are
// created when their window appears and reclaimed when it closes.
type Host struct {
	mu        sync.Mutex
	sessions  map[string]*entry // Protected by mu
	listeners []UpdateListener  // Protected by mu

	windows Windows
	fs      FS
	ai      ai.Service

	pollInterval time.Duration
	taskTimeout  time.Duration
	sudoDelay    time.Duration
	logger       *zap.Logger
	metrics      *monitoring.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type entry struct {
	id      string
	kind    types.AppKind
	session any
	fileID  string // last editor file requested through window data
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a host and subscribes it to window changes
func New(windows Windows, fs FS, assistant ai.Service, opts ...Option) *Host {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Host{
		sessions:     make(map[string]*entry),
		windows:      windows,
		fs:           fs,
		ai:           assistant,
		pollInterval: files.DefaultPollInterval,
		taskTimeout:  2 * time.Minute,
		sudoDelay:    time.Second,
		logger:       zap.NewNop(),
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(h)
	}

	windows.OnChange(h.sync)
	h.sync(windows.Windows())
	return h
}

// OnUpdate registers a listener for background state changes
func (h *Host) OnUpdate(l UpdateListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// Close stops all background work and waits for it to finish
func (h *Host) Close() {
	h.cancel()
	h.wg.Wait()
}

// Len returns the number of live sessions
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// sync reconciles sessions with the window list
func (h *Host) sync(windows []types.WindowInstance) {
	live := make(map[string]types.WindowInstance, len(windows))
	for _, w := range windows {
		live[w.InstanceID] = w
	}

	var reopen []func()

	h.mu.Lock()
	for id, e := range h.sessions {
		if _, ok := live[id]; !ok {
			e.cancel()
			delete(h.sessions, id)
			h.logger.Debug("session reclaimed", zap.String("instance_id", id), zap.String("app", e.kind.String()))
		}
	}
	for _, w := range windows {
		e, ok := h.sessions[w.InstanceID]
		if !ok {
			h.attach(w)
			continue
		}
		if ed, isEditor := e.session.(*editor.Editor); isEditor {
			if fileID := editor.FileFromData(w.Data); fileID != "" && fileID != e.fileID {
				e.fileID = fileID
				reopen = append(reopen, func() { _ = ed.Open(fileID) })
			}
		}
	}
	h.mu.Unlock()

	for _, fn := range reopen {
		fn()
	}
}

// attach creates the session for w, if its app has one. Caller holds mu.
func (h *Host) attach(w types.WindowInstance) *entry {
	ctx, cancel := context.WithCancel(h.ctx)
	e := &entry{id: w.InstanceID, kind: w.AppID, ctx: ctx, cancel: cancel}
	run := &runner{host: h, entry: e}

	switch w.AppID {
	case types.AppTerminal:
		e.session = terminal.New(h.fs, h.ai, run,
			terminal.WithSudoDelay(h.sudoDelay),
			terminal.WithMetrics(h.metrics),
			terminal.WithLogger(h.logger),
		)
	case types.AppFiles:
		b := files.New(h.fs, h.windows)
		e.session = b
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			b.Poll(ctx, h.pollInterval, func() { h.notify(e.id) })
		}()
	case types.AppVSCode:
		e.fileID = editor.FileFromData(w.Data)
		e.session = editor.New(h.fs, e.fileID)
	case types.AppAIChat:
		e.session = chat.New(h.ai, run)
	default:
		cancel()
		return nil
	}

	h.sessions[w.InstanceID] = e
	h.logger.Debug("session attached", zap.String("instance_id", w.InstanceID), zap.String("app", w.AppID.String()))
	return e
}

// lookup returns the session for instanceID, attaching one if the window
// exists but has not been seen yet.
func (h *Host) lookup(instanceID string) (*entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e, ok := h.sessions[instanceID]; ok {
		return e, nil
	}
	w, ok := h.windows.Get(instanceID)
	if !ok {
		return nil, ErrNoWindow
	}
	e := h.attach(w)
	if e == nil {
		return nil, ErrWrongApp
	}
	return e, nil
}

func sessionOf[T any](h *Host, instanceID string) (T, error) {
	var zero T
	e, err := h.lookup(instanceID)
	if err != nil {
		return zero, err
	}
	s, ok := e.session.(T)
	if !ok {
		return zero, ErrWrongApp
	}
	return s, nil
}

// Terminal returns the shell of a terminal window
func (h *Host) Terminal(instanceID string) (*terminal.Session, error) {
	return sessionOf[*terminal.Session](h, instanceID)
}

// Files returns the browser of a files window
func (h *Host) Files(instanceID string) (*files.Browser, error) {
	return sessionOf[*files.Browser](h, instanceID)
}

// Editor returns the editor of a code window
func (h *Host) Editor(instanceID string) (*editor.Editor, error) {
	return sessionOf[*editor.Editor](h, instanceID)
}

// Chat returns the conversation of an assistant window
func (h *Host) Chat(instanceID string) (*chat.Session, error) {
	return sessionOf[*chat.Session](h, instanceID)
}

// View returns the visible state of whatever app the window hosts
func (h *Host) View(instanceID string) (any, error) {
	e, err := h.lookup(instanceID)
	if err != nil {
		return nil, err
	}
	switch s := e.session.(type) {
	case *terminal.Session:
		return s.View(), nil
	case *files.Browser:
		return s.View(), nil
	case *editor.Editor:
		return s.View(), nil
	case *chat.Session:
		return s.View(), nil
	}
	return nil, ErrWrongApp
}

func (h *Host) notify(instanceID string) {
	h.mu.Lock()
	listeners := slices.Clone(h.listeners)
	h.mu.Unlock()

	for _, l := range listeners {
		l(instanceID)
	}
}

// runner runs background work for one session. Results land only while the
// window is still open and the session has not been reclaimed.
type runner struct {
	host  *Host
	entry *entry
}

func (r *runner) Go(work func(ctx context.Context, apply func(func()) bool)) {
	h, e := r.host, r.entry
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(e.ctx, h.taskTimeout)
		defer cancel()

		work(ctx, func(fn func()) bool {
			if e.ctx.Err() != nil || !h.windows.Exists(e.id) {
				h.logger.Debug("discarding result for closed window", zap.String("instance_id", e.id))
				return false
			}
			fn()
			h.notify(e.id)
			return true
		})
	}()
}
