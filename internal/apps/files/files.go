package files

import (
	"context"
	"errors"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/apps/editor"
	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/shared/paths"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultPollInterval is how often an open browser re-reads its folder
const DefaultPollInterval = 2 * time.Second

var (
	ErrNotFolder  = errors.New("not a folder")
	ErrNotFound   = errors.New("no such item")
	ErrNoSelected = errors.New("nothing selected")
)

// FS is the subset of the file system service the browser needs
type FS interface {
	GetChildren(parentID string) []types.Node
	GetNode(nodeID string) (types.Node, bool)
	CreateNode(name string, typ types.NodeType, parentID string, content string) (types.Node, error)
	DeleteNode(nodeID string) bool
}

// Opener launches the viewer for a file
type Opener interface {
	OpenApp(kind types.AppKind, data map[string]any, opts ...window.OpenOption) (string, error)
}

// Crumb is one segment of the breadcrumb bar
type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Place is a sidebar shortcut
type Place struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Places are the fixed sidebar shortcuts
var Places = []Place{
	{ID: paths.UserID, Label: "Home"},
	{ID: "docs", Label: "Documents"},
	{ID: "downloads", Label: "Downloads"},
	{ID: "pics", Label: "Pictures"},
}

// View is the visible browser state
type View struct {
	Current     string       `json:"current"`
	Items       []types.Node `json:"items"`
	Breadcrumbs []Crumb      `json:"breadcrumbs"`
	Places      []Place      `json:"places"`
	Selected    string       `json:"selected,omitempty"`
	CanGoBack   bool         `json:"canGoBack"`
}

// Browser is one Files window
type Browser struct {
	mu       sync.Mutex
	fs       FS
	opener   Opener
	current  string       // Protected by mu
	history  []string     // Protected by mu
	index    int          // Protected by mu
	selected string       // Protected by mu
	items    []types.Node // Protected by mu
}

// New opens a browser on the user's home folder
func New(fs FS, opener Opener) *Browser {
	b := &Browser{
		fs:      fs,
		opener:  opener,
		current: paths.UserID,
		history: []string{paths.UserID},
	}
	b.items = b.list(b.current)
	return b
}

// list returns folders first, then files, each by name
func (b *Browser) list(folderID string) []types.Node {
	items := b.fs.GetChildren(folderID)
	slices.SortStableFunc(items, func(x, y types.Node) int {
		if x.IsFolder() != y.IsFolder() {
			if x.IsFolder() {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	})
	return items
}

// Navigate enters folderID, dropping any forward history
func (b *Browser) Navigate(folderID string) error {
	node, ok := b.fs.GetNode(folderID)
	if !ok {
		return ErrNotFound
	}
	if !node.IsFolder() {
		return ErrNotFolder
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history[:b.index+1], folderID)
	b.index = len(b.history) - 1
	b.enter(folderID)
	return nil
}

// Back returns to the previous folder. It reports false at the start of
// history.
func (b *Browser) Back() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.index == 0 {
		return false
	}
	b.index--
	b.enter(b.history[b.index])
	return true
}

// enter switches folders. Caller holds mu.
func (b *Browser) enter(folderID string) {
	b.current = folderID
	b.selected = ""
	b.items = b.list(folderID)
}

// Select marks an item for deletion
func (b *Browser) Select(nodeID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = nodeID
}

// Refresh re-reads the current folder and reports whether it changed. A
// folder deleted from elsewhere sends the browser home.
func (b *Browser) Refresh() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.fs.GetNode(b.current); !ok {
		b.history = []string{paths.UserID}
		b.index = 0
		b.enter(paths.UserID)
		return true
	}

	items := b.list(b.current)
	if slices.EqualFunc(items, b.items, sameNode) {
		return false
	}
	b.items = items
	return true
}

func sameNode(x, y types.Node) bool {
	return x.ID == y.ID && x.Name == y.Name && x.ContentString() == y.ContentString()
}

// Poll refreshes every interval until ctx is done, calling onChange after
// each refresh that found a difference.
func (b *Browser) Poll(ctx context.Context, interval time.Duration, onChange func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.Refresh() && onChange != nil {
				onChange()
			}
		}
	}
}

// CreateFolder makes a folder in the current folder
func (b *Browser) CreateFolder(name string) (types.Node, error) {
	return b.create(name, types.NodeFolder)
}

// CreateFile makes an empty file in the current folder
func (b *Browser) CreateFile(name string) (types.Node, error) {
	return b.create(name, types.NodeFile)
}

func (b *Browser) create(name string, typ types.NodeType) (types.Node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	node, err := b.fs.CreateNode(name, typ, b.current, "")
	if err != nil {
		return types.Node{}, err
	}
	b.items = b.list(b.current)
	return node, nil
}

// DeleteSelected removes the selected item
func (b *Browser) DeleteSelected() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selected == "" {
		return ErrNoSelected
	}
	if !b.fs.DeleteNode(b.selected) {
		return ErrNotFound
	}
	b.selected = ""
	b.items = b.list(b.current)
	return nil
}

// Open activates an item: folders are entered, images go to the browser
// and everything else to the editor. It returns the window that was
// opened, empty for folders.
func (b *Browser) Open(nodeID string) (string, error) {
	node, ok := b.fs.GetNode(nodeID)
	if !ok {
		return "", ErrNotFound
	}
	if node.IsFolder() {
		return "", b.Navigate(nodeID)
	}
	if IsImage(node) {
		return b.opener.OpenApp(types.AppBrowser, nil)
	}
	return b.opener.OpenApp(types.AppVSCode, map[string]any{editor.DataFileKey: node.ID})
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// IsImage reports whether a file should open in the image viewer, judged
// by extension and then by sniffing its content.
func IsImage(node types.Node) bool {
	if slices.Contains(imageExts, strings.ToLower(path.Ext(node.Name))) {
		return true
	}
	content := node.ContentString()
	if content == "" {
		return false
	}
	return strings.HasPrefix(mimetype.Detect([]byte(content)).String(), "image/")
}

// View returns a copy of the browser state
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return View{
		Current:     b.current,
		Items:       slices.Clone(b.items),
		Breadcrumbs: b.breadcrumbs(),
		Places:      Places,
		Selected:    b.selected,
		CanGoBack:   b.index > 0,
	}
}

// breadcrumbs walks from the current folder to the root. Caller holds mu.
func (b *Browser) breadcrumbs() []Crumb {
	var crumbs []Crumb
	node, ok := b.fs.GetNode(b.current)
	for steps := 0; ok && steps < 256; steps++ {
		name := node.Name
		if name == paths.UserName {
			name = "Home"
		}
		crumbs = append(crumbs, Crumb{ID: node.ID, Name: name})
		if node.ParentID == nil {
			break
		}
		node, ok = b.fs.GetNode(*node.ParentID)
	}
	slices.Reverse(crumbs)
	return crumbs
}
