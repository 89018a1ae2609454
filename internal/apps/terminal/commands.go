package terminal

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/domain/vfs"
	"github.com/GriffinCanCode/webdesk/internal/shared/paths"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/bmatcuk/doublestar/v4"
)

type handler func(s *Session, args []string, out *output) *task

var commands map[string]handler

func init() {
	commands = map[string]handler{
		"help":     (*Session).help,
		"clear":    (*Session).clear,
		"echo":     (*Session).echo,
		"whoami":   (*Session).whoami,
		"pwd":      (*Session).pwd,
		"ls":       (*Session).ls,
		"cd":       (*Session).cd,
		"mkdir":    (*Session).mkdir,
		"touch":    (*Session).touch,
		"cat":      (*Session).cat,
		"rm":       (*Session).rm,
		"find":     (*Session).find,
		"neofetch": (*Session).neofetch,
		"sudo":     (*Session).sudo,
		"reboot":   (*Session).reboot,
		"ai":       (*Session).ask,
	}
}

// Commands lists the command names the shell understands
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Session) dispatch(name string, args []string, out *output) *task {
	h, ok := commands[name]
	if !ok {
		out.add("Command not found: " + name)
		return nil
	}
	return h(s, args, out)
}

var helpText = []string{
	"Available commands:",
	"  help      - Show this help message",
	"  clear     - Clear the terminal screen",
	"  echo      - Display a line of text",
	"  whoami    - Display current user",
	"  pwd       - Print the current folder",
	"  ls [p]    - List directory contents (p = path or glob)",
	"  cd [p]    - Change the current folder",
	"  mkdir d   - Create a folder",
	"  touch f   - Create an empty file",
	"  cat f     - Print a file",
	"  rm [-r] p - Remove a file or folder",
	"  find [g]  - Search below the current folder (g = glob)",
	"  neofetch  - Display system info",
	"  ai [p]    - Ask Gemini AI a question (p = prompt)",
	"  reboot    - Restart the system (simulation)",
}

func (s *Session) help(_ []string, out *output) *task {
	out.add(helpText...)
	return nil
}

func (s *Session) clear(_ []string, out *output) *task {
	out.cleared = true
	return nil
}

func (s *Session) echo(args []string, out *output) *task {
	out.add(strings.Join(args, " "))
	return nil
}

func (s *Session) whoami(_ []string, out *output) *task {
	out.add("root")
	return nil
}

func (s *Session) pwd(_ []string, out *output) *task {
	abs, _ := s.fs.PathString(s.cwd)
	out.add(abs)
	return nil
}

func (s *Session) ls(args []string, out *output) *task {
	if len(args) == 0 {
		s.listFolder(s.cwd, out)
		return nil
	}

	for _, arg := range args {
		if hasMeta(arg) {
			s.listGlob(arg, out)
			continue
		}
		nodeID, err := s.fs.ResolvePath(s.cwd, arg)
		if err != nil {
			out.add(fmt.Sprintf("ls: cannot access '%s': No such file or directory", arg))
			continue
		}
		node, _ := s.fs.GetNode(nodeID)
		if !node.IsFolder() {
			out.add(node.Name)
			continue
		}
		s.listFolder(nodeID, out)
	}
	return nil
}

func (s *Session) listFolder(folderID string, out *output) {
	children := s.fs.GetChildren(folderID)
	if len(children) == 0 {
		return
	}
	names := make([]string, 0, len(children))
	for _, child := range children {
		names = append(names, child.Name)
	}
	slices.Sort(names)
	out.add(strings.Join(names, "  "))
}

func (s *Session) listGlob(pattern string, out *output) {
	var matches []string
	for _, e := range s.walk(s.cwd) {
		if ok, _ := doublestar.Match(pattern, e.rel); ok {
			matches = append(matches, e.rel)
		}
	}
	if len(matches) == 0 {
		out.add(fmt.Sprintf("ls: cannot access '%s': No such file or directory", pattern))
		return
	}
	out.add(strings.Join(matches, "  "))
}

func (s *Session) cd(args []string, out *output) *task {
	target := paths.Home
	if len(args) > 0 {
		target = args[0]
	}

	nodeID, err := s.fs.ResolvePath(s.cwd, target)
	if err != nil {
		out.add(fmt.Sprintf("cd: %s: No such file or directory", target))
		return nil
	}
	node, _ := s.fs.GetNode(nodeID)
	if !node.IsFolder() {
		out.add(fmt.Sprintf("cd: %s: Not a directory", target))
		return nil
	}
	s.cwd = nodeID
	return nil
}

func (s *Session) mkdir(args []string, out *output) *task {
	if len(args) == 0 {
		out.add("mkdir: missing operand")
		return nil
	}
	for _, arg := range args {
		if err := s.create(arg, types.NodeFolder); err != nil {
			out.add(fmt.Sprintf("mkdir: cannot create directory '%s': %s", arg, describe(err)))
		}
	}
	return nil
}

func (s *Session) touch(args []string, out *output) *task {
	if len(args) == 0 {
		out.add("touch: missing file operand")
		return nil
	}
	for _, arg := range args {
		if _, err := s.fs.ResolvePath(s.cwd, arg); err == nil {
			continue
		}
		if err := s.create(arg, types.NodeFile); err != nil {
			out.add(fmt.Sprintf("touch: cannot touch '%s': %s", arg, describe(err)))
		}
	}
	return nil
}

// create makes a node named by the last segment of expr inside the folder
// the rest of expr resolves to.
func (s *Session) create(expr string, typ types.NodeType) error {
	dir, name := splitLast(expr)
	parentID := s.cwd
	if dir != "" {
		id, err := s.fs.ResolvePath(s.cwd, dir)
		if err != nil {
			return err
		}
		parentID = id
	}
	_, err := s.fs.CreateNode(name, typ, parentID, "")
	return err
}

func (s *Session) cat(args []string, out *output) *task {
	if len(args) == 0 {
		out.add("cat: missing file operand")
		return nil
	}
	for _, arg := range args {
		nodeID, err := s.fs.ResolvePath(s.cwd, arg)
		if err != nil {
			out.add(fmt.Sprintf("cat: %s: No such file or directory", arg))
			continue
		}
		node, _ := s.fs.GetNode(nodeID)
		if node.IsFolder() {
			out.add(fmt.Sprintf("cat: %s: Is a directory", arg))
			continue
		}
		if content := node.ContentString(); content != "" {
			out.add(strings.Split(content, "\n")...)
		}
	}
	return nil
}

func (s *Session) rm(args []string, out *output) *task {
	recursive := false
	var targets []string
	for _, arg := range args {
		switch arg {
		case "-r", "-rf", "-fr", "-R":
			recursive = true
		default:
			targets = append(targets, arg)
		}
	}
	if len(targets) == 0 {
		out.add("rm: missing operand")
		return nil
	}

	for _, arg := range targets {
		nodeID, err := s.fs.ResolvePath(s.cwd, arg)
		if err != nil {
			out.add(fmt.Sprintf("rm: cannot remove '%s': No such file or directory", arg))
			continue
		}
		node, _ := s.fs.GetNode(nodeID)
		if node.IsFolder() && !recursive {
			out.add(fmt.Sprintf("rm: cannot remove '%s': Is a directory", arg))
			continue
		}
		if !s.fs.DeleteNode(nodeID) {
			out.add(fmt.Sprintf("rm: cannot remove '%s': Operation not permitted", arg))
		}
	}

	// the folder we were in may be gone
	if _, ok := s.fs.GetNode(s.cwd); !ok {
		s.cwd = paths.UserID
		if _, ok := s.fs.GetNode(s.cwd); !ok {
			s.cwd = paths.RootID
		}
	}
	return nil
}

func (s *Session) find(args []string, out *output) *task {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	for _, e := range s.walk(s.cwd) {
		if pattern != "" && !matches(pattern, e) {
			continue
		}
		out.add("./" + e.rel)
	}
	return nil
}

// matches tests a find pattern. Patterns without a separator match the base
// name at any depth.
func matches(pattern string, e entry) bool {
	subject := e.rel
	if !strings.Contains(pattern, paths.Separator) {
		subject = e.node.Name
	}
	ok, _ := doublestar.Match(pattern, subject)
	return ok
}

func (s *Session) neofetch(_ []string, out *output) *task {
	uptime := int(s.now().Sub(s.started) / time.Minute)
	out.add(
		`       _               ubuntu@web-os`,
		`      | |              -------------`,
		`  ___ | |__   ___      OS: Ubuntu Web 24.04 LTS x86_64`,
		` / _ \| '_ \ / _ \     Host: Browser Virtual Machine`,
		`| (_) | |_) | (_) |    Kernel: 5.15.0-generic`,
		fmt.Sprintf(` \___/|_.__/ \___/     Uptime: %d mins`, uptime),
		`                       Shell: bash 5.1.16`,
		`                       Theme: Yaru-dark [GTK2/3]`,
		`                       CPU: Gemini Virtual Core (1) @ 3.5GHz`,
		`                       Memory: 128MB / 4096MB`,
	)
	return nil
}

func (s *Session) sudo(_ []string, out *output) *task {
	out.add("[sudo] password for " + paths.UserName + ": ")
	delay := s.sudoDelay
	return &task{
		work: func(ctx context.Context, apply func(func()) bool) {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			apply(func() { s.deliver(false, "Sorry, try again.") })
		},
	}
}

func (s *Session) reboot(_ []string, out *output) *task {
	out.add("Rebooting system...")
	out.reboot = true
	return nil
}

func (s *Session) ask(args []string, out *output) *task {
	prompt := strings.Join(args, " ")
	if prompt == "" {
		out.add("Usage: ai <your question>")
		return nil
	}

	out.add("Thinking...")
	return &task{
		blocking: true,
		work: func(ctx context.Context, apply func(func()) bool) {
			reply := s.ai.Generate(ctx, prompt)
			apply(func() { s.deliver(true, "Gemini: "+reply) })
		},
	}
}

type entry struct {
	rel  string
	node types.Node
}

// walk lists every node below folderID depth first, siblings by name
func (s *Session) walk(folderID string) []entry {
	var out []entry
	var visit func(id, prefix string)
	visit = func(id, prefix string) {
		children := s.fs.GetChildren(id)
		slices.SortStableFunc(children, func(a, b types.Node) int {
			return strings.Compare(a.Name, b.Name)
		})
		for _, child := range children {
			rel := path.Join(prefix, child.Name)
			out = append(out, entry{rel: rel, node: child})
			if child.IsFolder() {
				visit(child.ID, rel)
			}
		}
	}
	visit(folderID, "")
	return out
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func splitLast(expr string) (dir, name string) {
	expr = strings.TrimRight(expr, paths.Separator)
	i := strings.LastIndex(expr, paths.Separator)
	if i < 0 {
		return "", expr
	}
	dir = expr[:i]
	if dir == "" {
		dir = paths.Root
	}
	return dir, expr[i+1:]
}

func describe(err error) string {
	switch {
	case errors.Is(err, vfs.ErrInvalidTraversal):
		return "Not a directory"
	case errors.Is(err, vfs.ErrNotFound):
		return "No such file or directory"
	case errors.Is(err, vfs.ErrNotFolder):
		return "Not a directory"
	case errors.Is(err, vfs.ErrConflict):
		return "File exists"
	case errors.Is(err, vfs.ErrInvalidName):
		return "Invalid argument"
	default:
		return err.Error()
	}
}
