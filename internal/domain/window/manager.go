package window

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/shared/id"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"go.uber.org/zap"
)

// ErrUnknownApp is returned by OpenApp for kinds missing from the catalog.
var ErrUnknownApp = errors.New("unknown app")

// Catalog resolves app kinds to their defaults.
type Catalog interface {
	Lookup(kind types.AppKind) (types.AppConfig, bool)
}

// Layout describes the screen the windows live on.
type Layout struct {
	Viewport    types.WindowSize
	TopBar      int
	DockWidth   int
	CascadeStep int
	ZBase       int
}

// DefaultLayout matches a 1440x900 desktop with the left dock.
func DefaultLayout() Layout {
	return Layout{
		Viewport:    types.WindowSize{Width: 1440, Height: 900},
		TopBar:      28,
		DockWidth:   70,
		CascadeStep: 20,
		ZBase:       10,
	}
}

// WorkArea is the rectangle a maximized window covers.
func (l Layout) WorkArea() types.Rect {
	return types.Rect{
		X:      l.DockWidth,
		Y:      l.TopBar,
		Width:  l.Viewport.Width - l.DockWidth,
		Height: l.Viewport.Height - l.TopBar,
	}
}

// Listener receives a snapshot after every applied mutation.
type Listener func(windows []types.WindowInstance)

// Manager owns window lifecycle and z-order.
type Manager struct {
	mu        sync.Mutex
	registry  *Registry // Protected by mu
	nextZ     int       // Protected by mu
	catalog   Catalog
	layout    Layout
	newID     func() string
	listeners []Listener
	pending   [][]types.WindowInstance // Protected by mu
	notifying bool                     // Protected by mu
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewManager creates a window manager over the given catalog.
func NewManager(catalog Catalog, layout Layout) *Manager {
	return &Manager{
		registry: NewRegistry(),
		nextZ:    layout.ZBase,
		catalog:  catalog,
		layout:   layout,
		newID:    func() string { return id.NewWindowID().String() },
		logger:   zap.NewNop(),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithLogger sets the logger
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	m.logger = logger.Named("window")
	return m
}

// WithIDSource replaces the instance id generator.
func (m *Manager) WithIDSource(next func() string) *Manager {
	m.newID = next
	return m
}

// OnChange registers a listener. Listeners run outside the manager lock, in
// registration order, and see snapshots in the order the mutations were
// applied. While one goroutine is delivering, a concurrent or nested
// mutation queues its snapshot for that goroutine and returns.
func (m *Manager) OnChange(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Layout returns the screen layout.
func (m *Manager) Layout() Layout {
	return m.layout
}

// OpenOption customizes a newly created window.
type OpenOption func(*openSettings)

type openSettings struct {
	title string
	icon  string
}

// WithTitle overrides the catalog title.
func WithTitle(title string) OpenOption {
	return func(s *openSettings) { s.title = title }
}

// WithIcon overrides the catalog icon tag.
func WithIcon(icon string) OpenOption {
	return func(s *openSettings) { s.icon = icon }
}

// OpenApp opens a window for kind and returns its instance id. Kinds that do
// not allow multiple instances reuse their first live window: a minimized one
// is restored to the front, otherwise it is focused. In both cases data
// replaces the stored payload only when non-nil. Options apply to new windows.
func (m *Manager) OpenApp(kind types.AppKind, data map[string]any, opts ...OpenOption) (string, error) {
	app, ok := m.catalog.Lookup(kind)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownApp, kind)
	}

	m.mu.Lock()
	var instanceID string
	reused := false

	if existing, ok := m.registry.first(kind); ok && !app.AllowMultipleInstances {
		instanceID = existing.InstanceID
		reused = true

		z := m.takeZ()
		patch := Patch{ZIndex: &z, Data: data}
		if existing.IsMinimized {
			restored := false
			patch.IsMinimized = &restored
		}
		m.registry.Update(instanceID, patch)
	} else {
		settings := openSettings{title: app.Title, icon: app.Icon}
		for _, opt := range opts {
			opt(&settings)
		}

		instanceID = m.newID()
		cascade := m.registry.Len() * m.layout.CascadeStep
		w := types.WindowInstance{
			InstanceID: instanceID,
			AppID:      kind,
			Title:      settings.title,
			Icon:       settings.icon,
			ZIndex:     m.takeZ(),
			Position: types.WindowPosition{
				X: m.layout.Viewport.Width/2 - app.DefaultSize.Width/2 + cascade,
				Y: m.layout.Viewport.Height/2 - app.DefaultSize.Height/2 + cascade,
			},
			Size: app.DefaultSize,
			Data: data,
		}
		if err := m.registry.Insert(w); err != nil {
			m.mu.Unlock()
			panic(fmt.Sprintf("window id generator collision on %s: %v", instanceID, err))
		}
	}
	m.pending = append(m.pending, m.registry.Snapshot())
	m.mu.Unlock()

	if m.metrics != nil && !reused {
		m.metrics.IncWindowsOpened(kind.String())
	}
	m.logger.Debug("open app",
		zap.String("app", kind.String()),
		zap.String("instance_id", instanceID),
		zap.Bool("reused", reused),
	)
	m.notify()
	return instanceID, nil
}

// CloseWindow removes the window.
func (m *Manager) CloseWindow(instanceID string) bool {
	return m.mutate("close", instanceID, func() {
		m.registry.Remove(instanceID)
	})
}

// MinimizeWindow hides the window without touching z-order.
func (m *Manager) MinimizeWindow(instanceID string) bool {
	minimized := true
	return m.mutate("minimize", instanceID, func() {
		m.registry.Update(instanceID, Patch{IsMinimized: &minimized})
	})
}

// MaximizeWindow toggles maximization and brings the window to the front.
// Stored position and size are kept for restore.
func (m *Manager) MaximizeWindow(instanceID string) bool {
	return m.mutate("maximize", instanceID, func() {
		w := m.registry.byID[instanceID]
		maximized := !w.IsMaximized
		z := m.takeZ()
		m.registry.Update(instanceID, Patch{IsMaximized: &maximized, ZIndex: &z})
	})
}

// FocusWindow brings the window to the front.
func (m *Manager) FocusWindow(instanceID string) bool {
	return m.mutate("focus", instanceID, func() {
		z := m.takeZ()
		m.registry.Update(instanceID, Patch{ZIndex: &z})
	})
}

// MoveWindow overwrites the stored position. No clamping happens here.
func (m *Manager) MoveWindow(instanceID string, x, y int) bool {
	pos := types.WindowPosition{X: x, Y: y}
	return m.mutate("move", instanceID, func() {
		m.registry.Update(instanceID, Patch{Position: &pos})
	})
}

// ResizeWindow overwrites the stored size. Callers enforce minimum bounds;
// the manager accepts whatever it is given.
func (m *Manager) ResizeWindow(instanceID string, width, height int) bool {
	size := types.WindowSize{Width: width, Height: height}
	return m.mutate("resize", instanceID, func() {
		m.registry.Update(instanceID, Patch{Size: &size})
	})
}

// SetData replaces the payload of a window.
func (m *Manager) SetData(instanceID string, data map[string]any) bool {
	return m.mutate("set_data", instanceID, func() {
		w := m.registry.byID[instanceID]
		w.Data = data
	})
}

// mutate runs fn under the lock when the window exists, then notifies.
func (m *Manager) mutate(op, instanceID string, fn func()) bool {
	m.mu.Lock()
	if _, ok := m.registry.byID[instanceID]; !ok {
		m.mu.Unlock()
		if m.metrics != nil {
			m.metrics.RecordWindowOp(op, false)
		}
		return false
	}
	fn()
	m.pending = append(m.pending, m.registry.Snapshot())
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordWindowOp(op, true)
	}
	m.notify()
	return true
}

func (m *Manager) takeZ() int {
	z := m.nextZ
	m.nextZ++
	return z
}

// notify drains queued snapshots to the listeners. Only one goroutine
// drains at a time, so deliveries never overtake each other.
func (m *Manager) notify() {
	m.mu.Lock()
	if m.notifying {
		m.mu.Unlock()
		return
	}
	m.notifying = true
	m.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			m.mu.Lock()
			m.notifying = false
			m.mu.Unlock()
			panic(r)
		}
	}()

	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.notifying = false
			m.mu.Unlock()
			return
		}
		snapshot := m.pending[0]
		m.pending = m.pending[1:]
		listeners := slices.Clone(m.listeners)
		m.mu.Unlock()

		if m.metrics != nil {
			m.metrics.SetWindowsOpen(len(snapshot))
		}
		for _, l := range listeners {
			l(snapshot)
		}
	}
}

// Get returns a copy of the window.
func (m *Manager) Get(instanceID string) (types.WindowInstance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Get(instanceID)
}

// Exists reports whether the window is still open.
func (m *Manager) Exists(instanceID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.registry.byID[instanceID]
	return ok
}

// Windows returns all windows in insertion order.
func (m *Manager) Windows() []types.WindowInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Snapshot()
}

// Frame returns the on-screen rectangle of the window: the work area when
// maximized, the stored geometry otherwise.
func (m *Manager) Frame(instanceID string) (types.Rect, bool) {
	w, ok := m.Get(instanceID)
	if !ok {
		return types.Rect{}, false
	}
	return FrameOf(w, m.layout), true
}

// FrameOf computes the effective rectangle of w under layout.
func FrameOf(w types.WindowInstance, layout Layout) types.Rect {
	if w.IsMaximized {
		return layout.WorkArea()
	}
	return types.Rect{X: w.Position.X, Y: w.Position.Y, Width: w.Size.Width, Height: w.Size.Height}
}

// ActiveWindow returns the front-most window that is not minimized.
func (m *Manager) ActiveWindow() (types.WindowInstance, bool) {
	return Active(m.Windows())
}

// Active is the active-window rule applied to a snapshot.
func Active(windows []types.WindowInstance) (types.WindowInstance, bool) {
	var best *types.WindowInstance
	for i := range windows {
		w := &windows[i]
		if w.IsMinimized {
			continue
		}
		if best == nil || w.ZIndex > best.ZIndex {
			best = w
		}
	}
	if best == nil {
		return types.WindowInstance{}, false
	}
	return *best, true
}

// Stats returns window manager statistics.
func (m *Manager) Stats() types.WindowStats {
	m.mu.Lock()
	windows := m.registry.Snapshot()
	nextZ := m.nextZ
	m.mu.Unlock()

	stats := types.WindowStats{
		TotalWindows: len(windows),
		NextZ:        nextZ,
	}
	for _, w := range windows {
		if w.IsMinimized {
			stats.MinimizedWindows++
		}
		if w.IsMaximized {
			stats.MaximizedWindows++
		}
	}
	if w, ok := Active(windows); ok {
		activeID := w.InstanceID
		stats.ActiveWindowID = &activeID
	}
	return stats
}
