// Package editor implements the code editor window: an explorer over the
// home folder, open tabs, and a single dirty buffer saved back to the file
// system.
package editor

import (
	"errors"
	"slices"
	"sync"

	"github.com/GriffinCanCode/webdesk/internal/shared/paths"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
)

// DataFileKey is the window data key naming the file to open
const DataFileKey = "initialFileId"

var (
	ErrNotFile  = errors.New("not a file")
	ErrNoActive = errors.New("no file is open")
	ErrGone     = errors.New("file no longer exists")
)

// FS is the subset of the file system service the editor needs
type FS interface {
	GetChildren(parentID string) []types.Node
	GetNode(nodeID string) (types.Node, bool)
	UpdateContent(nodeID, content string) bool
}

// Tab is an open file
type Tab struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry is one row of the explorer
type Entry struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Type  types.NodeType `json:"type"`
	Depth int            `json:"depth"`
}

// View is the visible editor state
type View struct {
	Explorer []Entry `json:"explorer"`
	Tabs     []Tab   `json:"tabs"`
	ActiveID string  `json:"activeId,omitempty"`
	Content  string  `json:"content"`
	Dirty    bool    `json:"dirty"`
}

// Editor is one editor window
type Editor struct {
	mu      sync.Mutex
	fs      FS
	tabs    []Tab  // Protected by mu
	active  string // Protected by mu
	content string // Protected by mu
	dirty   bool   // Protected by mu
}

// New creates an editor, opening initialFileID when it names a file
func New(fs FS, initialFileID string) *Editor {
	e := &Editor{fs: fs}
	if initialFileID != "" {
		_ = e.Open(initialFileID)
	}
	return e
}

// FileFromData extracts the file to open from window data
func FileFromData(data map[string]any) string {
	id, _ := data[DataFileKey].(string)
	return id
}

// Open makes fileID the active tab and loads its content. Unsaved edits to
// the previous buffer are dropped.
func (e *Editor) Open(fileID string) error {
	node, ok := e.fs.GetNode(fileID)
	if !ok {
		return ErrGone
	}
	if node.IsFolder() {
		return ErrNotFile
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !slices.ContainsFunc(e.tabs, func(t Tab) bool { return t.ID == fileID }) {
		e.tabs = append(e.tabs, Tab{ID: node.ID, Name: node.Name})
	}
	e.active = node.ID
	e.content = node.ContentString()
	e.dirty = false
	return nil
}

// CloseTab closes fileID. Closing the active tab activates the last
// remaining one.
func (e *Editor) CloseTab(fileID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tabs = slices.DeleteFunc(e.tabs, func(t Tab) bool { return t.ID == fileID })
	if e.active != fileID {
		return
	}

	e.active, e.content, e.dirty = "", "", false
	if n := len(e.tabs); n > 0 {
		e.active = e.tabs[n-1].ID
		if node, ok := e.fs.GetNode(e.active); ok {
			e.content = node.ContentString()
		}
	}
}

// Edit replaces the buffer and marks it dirty
func (e *Editor) Edit(content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == "" {
		return ErrNoActive
	}
	e.content = content
	e.dirty = true
	return nil
}

// Save writes the buffer to the active file
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == "" {
		return ErrNoActive
	}
	if !e.fs.UpdateContent(e.active, e.content) {
		return ErrGone
	}
	e.dirty = false
	return nil
}

// View returns the editor state with a fresh explorer listing
func (e *Editor) View() View {
	explorer := e.explorer()

	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		Explorer: explorer,
		Tabs:     slices.Clone(e.tabs),
		ActiveID: e.active,
		Content:  e.content,
		Dirty:    e.dirty,
	}
}

// explorer lists everything under the home folder depth first
func (e *Editor) explorer() []Entry {
	var out []Entry
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		for _, child := range e.fs.GetChildren(id) {
			out = append(out, Entry{ID: child.ID, Name: child.Name, Type: child.Type, Depth: depth})
			if child.IsFolder() {
				visit(child.ID, depth+1)
			}
		}
	}
	visit(paths.UserID, 0)
	return out
}
