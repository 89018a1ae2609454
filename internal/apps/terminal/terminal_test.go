package terminal

import (
	"context"
	"fmt"
	"iter"
	"testing"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/domain/vfs"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyNow(fn func()) bool {
	fn()
	return true
}

type syncRunner struct{}

func (syncRunner) Go(work func(ctx context.Context, apply func(func()) bool)) {
	work(context.Background(), applyNow)
}

// heldRunner keeps work until the test releases it
type heldRunner struct {
	pending []func(ctx context.Context, apply func(func()) bool)
}

func (r *heldRunner) Go(work func(ctx context.Context, apply func(func()) bool)) {
	r.pending = append(r.pending, work)
}

func (r *heldRunner) release() {
	for _, work := range r.pending {
		work(context.Background(), applyNow)
	}
	r.pending = nil
}

type cannedAI struct {
	reply   string
	prompts []string
}

func (c *cannedAI) Generate(_ context.Context, prompt string) string {
	c.prompts = append(c.prompts, prompt)
	return c.reply
}

func (c *cannedAI) GenerateStream(_ context.Context, prompt string) iter.Seq[string] {
	return func(yield func(string) bool) { yield(c.reply) }
}

func newSession(t *testing.T, opts ...Option) (*Session, *vfs.Service) {
	t.Helper()
	fs, err := vfs.New(vfs.NewMemoryStore())
	require.NoError(t, err)
	opts = append([]Option{WithSudoDelay(0)}, opts...)
	return New(fs, &cannedAI{reply: "42"}, syncRunner{}, opts...), fs
}

func run(t *testing.T, s *Session, line string) Result {
	t.Helper()
	res, err := s.Execute(line)
	require.NoError(t, err)
	return res
}

func last(s *Session) string {
	lines := s.View().Lines
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func TestNewSession(t *testing.T) {
	s, _ := newSession(t)

	view := s.View()
	assert.Equal(t, "ubuntu@web:~$", view.Prompt)
	assert.Equal(t, Banner, view.Lines)
	assert.False(t, view.Busy)
	assert.Equal(t, "user", view.Cwd)
}

func TestBlankInputIsIgnored(t *testing.T) {
	s, _ := newSession(t)

	res := run(t, s, "   ")
	assert.Empty(t, res.Lines)
	assert.Len(t, s.View().Lines, len(Banner))
}

func TestSimpleCommands(t *testing.T) {
	s, _ := newSession(t)

	res := run(t, s, "echo hello   world")
	assert.Equal(t, []string{"ubuntu@web:~$ echo hello   world", "hello world"}, res.Lines)

	assert.Equal(t, []string{"ubuntu@web:~$ whoami", "root"}, run(t, s, "whoami").Lines)
	assert.Equal(t, "Command not found: frobnicate", run(t, s, "FROBNICATE").Lines[1])
	assert.Equal(t, "Available commands:", run(t, s, "help").Lines[1])
}

func TestNavigation(t *testing.T) {
	s, _ := newSession(t)

	run(t, s, "cd Documents")
	assert.Equal(t, "ubuntu@web:~/Documents$", s.Prompt())
	assert.Equal(t, "/home/ubuntu/Documents", run(t, s, "pwd").Lines[1])

	run(t, s, "cd ..")
	assert.Equal(t, "ubuntu@web:~$", s.Prompt())

	run(t, s, "cd /")
	assert.Equal(t, "ubuntu@web:/$", s.Prompt())

	run(t, s, "cd")
	assert.Equal(t, "ubuntu@web:~$", s.Prompt())

	assert.Equal(t, "cd: welcome.txt: Not a directory", run(t, s, "cd welcome.txt").Lines[1])
	assert.Equal(t, "cd: nowhere: No such file or directory", run(t, s, "cd nowhere").Lines[1])
	assert.Equal(t, "ubuntu@web:~$", s.Prompt())
}

func TestLs(t *testing.T) {
	s, _ := newSession(t)

	assert.Equal(t, "Documents  Downloads  Music  Pictures  welcome.txt", run(t, s, "ls").Lines[1])
	assert.Equal(t, "gemini_plans.txt  hello.py", run(t, s, "ls Documents").Lines[1])
	assert.Equal(t, "welcome.txt", run(t, s, "ls welcome.txt").Lines[1])
	assert.Equal(t, "ls: cannot access 'nope': No such file or directory", run(t, s, "ls nope").Lines[1])
	assert.Len(t, run(t, s, "ls Music").Lines, 1)
}

func TestLsGlob(t *testing.T) {
	s, _ := newSession(t)

	assert.Equal(t, "welcome.txt", run(t, s, "ls *.txt").Lines[1])
	assert.Equal(t, "Documents/hello.py", run(t, s, "ls **/*.py").Lines[1])
	assert.Equal(t, "ls: cannot access '*.zip': No such file or directory", run(t, s, "ls *.zip").Lines[1])
}

func TestCreateReadRemove(t *testing.T) {
	s, fs := newSession(t)

	assert.Len(t, run(t, s, "mkdir projects").Lines, 1)
	assert.Len(t, run(t, s, "touch projects/notes.txt").Lines, 1)
	assert.Len(t, run(t, s, "touch projects/notes.txt").Lines, 1, "touching an existing file is silent")

	id, err := fs.ResolvePath("user", "projects/notes.txt")
	require.NoError(t, err)
	node, _ := fs.GetNode(id)
	assert.Equal(t, "", node.ContentString())

	assert.Len(t, run(t, s, "cat projects/notes.txt").Lines, 1)
	assert.Equal(t, []string{
		"ubuntu@web:~$ cat welcome.txt",
		"Welcome to Ubuntu Web OS!",
		"",
		"This is a fully functional simulation running in your browser.",
		"You can create files, folders, and even use a terminal.",
	}, run(t, s, "cat welcome.txt").Lines)
	assert.Equal(t, "cat: Music: Is a directory", run(t, s, "cat Music").Lines[1])

	assert.Equal(t, "rm: cannot remove 'projects': Is a directory", run(t, s, "rm projects").Lines[1])
	assert.Len(t, run(t, s, "rm -r projects").Lines, 1)
	_, err = fs.ResolvePath("user", "projects")
	assert.ErrorIs(t, err, vfs.ErrNotFound)
}

func TestCreateErrors(t *testing.T) {
	s, _ := newSession(t)

	assert.Equal(t, "mkdir: missing operand", run(t, s, "mkdir").Lines[1])
	assert.Equal(t, "mkdir: cannot create directory 'welcome.txt/x': Not a directory",
		run(t, s, "mkdir welcome.txt/x").Lines[1])
	assert.Equal(t, "touch: cannot touch 'missing/a.txt': No such file or directory",
		run(t, s, "touch missing/a.txt").Lines[1])
	assert.Equal(t, "rm: cannot remove '/': Operation not permitted", run(t, s, "rm -r /").Lines[1])
}

func TestRemovingCurrentFolderFallsBackHome(t *testing.T) {
	s, _ := newSession(t)

	run(t, s, "cd Documents")
	run(t, s, "rm -r ~/Documents")
	assert.Equal(t, "ubuntu@web:~$", s.Prompt())
}

func TestFind(t *testing.T) {
	s, _ := newSession(t)

	assert.Equal(t, []string{"ubuntu@web:~$ find *.py", "./Documents/hello.py"}, run(t, s, "find *.py").Lines)
	assert.Equal(t, []string{
		"ubuntu@web:~$ find Documents/*",
		"./Documents/gemini_plans.txt",
		"./Documents/hello.py",
	}, run(t, s, "find Documents/*").Lines)

	all := run(t, s, "find").Lines
	assert.Len(t, all, 1+7)
}

func TestClear(t *testing.T) {
	s, _ := newSession(t)
	run(t, s, "echo a")

	res := run(t, s, "clear")
	assert.True(t, res.Cleared)
	assert.Empty(t, res.Lines)
	assert.Empty(t, s.View().Lines)
}

func TestHistoryIsBounded(t *testing.T) {
	s, _ := newSession(t)

	for i := range 400 {
		run(t, s, fmt.Sprintf("echo %d", i))
	}

	lines := s.View().Lines
	assert.Len(t, lines, MaxHistory)
	assert.Equal(t, "399", lines[len(lines)-1])
}

func TestAI(t *testing.T) {
	fs, err := vfs.New(vfs.NewMemoryStore())
	require.NoError(t, err)
	assistant := &cannedAI{reply: "Paris"}
	s := New(fs, assistant, syncRunner{})

	res := run(t, s, "ai capital of France?")
	assert.Equal(t, []string{"ubuntu@web:~$ ai capital of France?", "Thinking..."}, res.Lines)
	assert.True(t, res.Pending)
	assert.Equal(t, "Gemini: Paris", last(s))
	assert.Equal(t, []string{"capital of France?"}, assistant.prompts)
	assert.False(t, s.View().Busy)

	assert.Equal(t, "Usage: ai <your question>", run(t, s, "ai").Lines[1])
}

func TestBusyWhileThinking(t *testing.T) {
	fs, err := vfs.New(vfs.NewMemoryStore())
	require.NoError(t, err)
	runner := &heldRunner{}
	s := New(fs, &cannedAI{reply: "ok"}, runner)

	run(t, s, "ai hello")
	assert.True(t, s.View().Busy)

	_, err = s.Execute("echo hi")
	assert.ErrorIs(t, err, ErrBusy)

	runner.release()
	assert.False(t, s.View().Busy)
	assert.Equal(t, "Gemini: ok", last(s))
	run(t, s, "echo hi")
}

func TestSudo(t *testing.T) {
	s, _ := newSession(t)

	res := run(t, s, "sudo rm -rf /")
	assert.Equal(t, "[sudo] password for ubuntu: ", res.Lines[1])
	assert.False(t, res.Pending)
	assert.Equal(t, "Sorry, try again.", last(s))
}

func TestSudoCancelled(t *testing.T) {
	fs, err := vfs.New(vfs.NewMemoryStore())
	require.NoError(t, err)
	runner := &heldRunner{}
	s := New(fs, &cannedAI{}, runner, WithSudoDelay(time.Hour))

	run(t, s, "sudo ls")
	require.Len(t, runner.pending, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	applied := false
	runner.pending[0](ctx, func(func()) bool { applied = true; return true })
	assert.False(t, applied)
}

func TestReboot(t *testing.T) {
	s, _ := newSession(t)

	res := run(t, s, "reboot")
	assert.True(t, res.Reboot)
	assert.Equal(t, "Rebooting system...", res.Lines[1])
}

func TestNeofetchUptime(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newSession(t, WithClock(func() time.Time { return now }))

	now = now.Add(5*time.Minute + 30*time.Second)
	res := run(t, s, "neofetch")
	assert.Contains(t, res.Lines[6], "Uptime: 5 mins")
}

func TestCommandMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics()
	s, _ := newSession(t, WithMetrics(metrics))

	run(t, s, "ls")
	run(t, s, "ls")
	run(t, s, "bogus")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Commands.WithLabelValues("ls")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues("unknown")))
}

func TestCommands(t *testing.T) {
	assert.Contains(t, Commands(), "neofetch")
	assert.Len(t, Commands(), 16)
}
