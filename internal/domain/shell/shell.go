package shell

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
)

// MaxDots is the most instance indicators a dock entry shows.
const MaxDots = 3

var (
	ErrUnknownAction = errors.New("unknown menu action")
	ErrDisabled      = errors.New("menu item is disabled")
)

// Wallpapers cycled by Change Background.
var Wallpapers = []string{
	"https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?q=80&w=2564&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05?q=80&w=2574&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1518770660439-4636190af475?q=80&w=2670&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1451187580459-43490279c0fa?q=80&w=2672&auto=format&fit=crop",
}

// Catalog lists the apps pinned to the dock.
type Catalog interface {
	Docked() []types.AppConfig
}

// Windows is what the shell needs from the window manager.
type Windows interface {
	OpenApp(kind types.AppKind, data map[string]any, opts ...window.OpenOption) (string, error)
	Windows() []types.WindowInstance
}

// DockEntry is one dock button.
type DockEntry struct {
	App       types.AppKind `json:"app"`
	Title     string        `json:"title"`
	Icon      string        `json:"icon"`
	Instances int           `json:"instances"`
	Dots      int           `json:"dots"`
	Active    bool          `json:"active"`
}

// MenuItem is one entry of the desktop context menu. Dividers have no action.
type MenuItem struct {
	Action   string `json:"action,omitempty"`
	Label    string `json:"label,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Shortcut string `json:"shortcut,omitempty"`
	Divider  bool   `json:"divider,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Menu actions
const (
	ActionNewFolder        = "new_folder"
	ActionOpenTerminal     = "open_terminal"
	ActionChangeBackground = "change_background"
	ActionDisplaySettings  = "display_settings"
	ActionSettings         = "settings"
)

// DesktopIcon is a launcher drawn on the desktop.
type DesktopIcon struct {
	Label string        `json:"label"`
	Icon  string        `json:"icon"`
	App   types.AppKind `json:"app"`
}

// Desktop describes the background and icons.
type Desktop struct {
	Wallpaper string        `json:"wallpaper"`
	Icons     []DesktopIcon `json:"icons"`
}

// Shell derives the dock and desktop from window state and routes their
// clicks to the window manager.
type Shell struct {
	mu        sync.Mutex
	wallpaper int // Protected by mu

	windows Windows
	catalog Catalog
}

// New creates a shell.
func New(windows Windows, catalog Catalog) *Shell {
	return &Shell{windows: windows, catalog: catalog}
}

// Dock returns the dock entries in catalog order.
func (s *Shell) Dock() []DockEntry {
	return BuildDock(s.catalog.Docked(), s.windows.Windows())
}

// BuildDock computes dock entries from a window snapshot.
func BuildDock(apps []types.AppConfig, windows []types.WindowInstance) []DockEntry {
	counts := make(map[types.AppKind]int, len(apps))
	for _, w := range windows {
		counts[w.AppID]++
	}
	active, hasActive := window.Active(windows)

	out := make([]DockEntry, 0, len(apps))
	for _, app := range apps {
		n := counts[app.Kind]
		out = append(out, DockEntry{
			App:       app.Kind,
			Title:     app.Title,
			Icon:      app.Icon,
			Instances: n,
			Dots:      min(n, MaxDots),
			Active:    hasActive && active.AppID == app.Kind,
		})
	}
	return out
}

// ClickDock opens or focuses the app.
func (s *Shell) ClickDock(kind types.AppKind) (string, error) {
	return s.windows.OpenApp(kind, nil)
}

// ContextMenu returns the desktop context menu.
func (s *Shell) ContextMenu() []MenuItem {
	return []MenuItem{
		{Action: ActionNewFolder, Label: "New Folder", Icon: "FolderPlus"},
		{Action: ActionOpenTerminal, Label: "Open Terminal", Icon: "Terminal", Shortcut: "Ctrl+Alt+T"},
		{Divider: true},
		{Action: ActionChangeBackground, Label: "Change Background", Icon: "Image"},
		{Action: ActionDisplaySettings, Label: "Display Settings", Icon: "Monitor", Disabled: true},
		{Action: ActionSettings, Label: "Settings", Icon: "Settings"},
	}
}

// Outcome reports what a menu action did.
type Outcome struct {
	InstanceID string `json:"instance_id,omitempty"`
	Wallpaper  string `json:"wallpaper,omitempty"`
}

// Invoke runs a context menu action.
func (s *Shell) Invoke(action string) (Outcome, error) {
	switch action {
	case ActionNewFolder:
		return s.open(types.AppFiles)
	case ActionOpenTerminal:
		return s.open(types.AppTerminal)
	case ActionSettings:
		return s.open(types.AppSettings)
	case ActionChangeBackground:
		return Outcome{Wallpaper: s.NextWallpaper()}, nil
	case ActionDisplaySettings:
		return Outcome{}, ErrDisabled
	default:
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// Shortcut runs a keyboard shortcut. It reports false for unbound keys.
func (s *Shell) Shortcut(keys string) (Outcome, bool, error) {
	for _, item := range s.ContextMenu() {
		if item.Shortcut != "" && item.Shortcut == keys {
			out, err := s.Invoke(item.Action)
			return out, true, err
		}
	}
	return Outcome{}, false, nil
}

func (s *Shell) open(kind types.AppKind) (Outcome, error) {
	id, err := s.windows.OpenApp(kind, nil)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{InstanceID: id}, nil
}

// NextWallpaper advances to the next wallpaper and returns it.
func (s *Shell) NextWallpaper() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallpaper = (s.wallpaper + 1) % len(Wallpapers)
	return Wallpapers[s.wallpaper]
}

// Desktop returns the current wallpaper and the desktop icons.
func (s *Shell) Desktop() Desktop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Desktop{
		Wallpaper: Wallpapers[s.wallpaper],
		Icons: []DesktopIcon{
			{Label: "Home", Icon: "Folder", App: types.AppFiles},
			{Label: "Trash", Icon: "Trash", App: types.AppTrash},
		},
	}
}

// OpenIcon launches the app behind a desktop icon.
func (s *Shell) OpenIcon(label string) (Outcome, error) {
	for _, icon := range s.Desktop().Icons {
		if icon.Label == label {
			return s.open(icon.App)
		}
	}
	return Outcome{}, fmt.Errorf("%w: icon %s", ErrUnknownAction, label)
}
