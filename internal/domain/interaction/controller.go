package interaction

import (
	"sync"

	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"go.uber.org/zap"
)

// Windows is the slice of the window manager the controller drives.
type Windows interface {
	Get(instanceID string) (types.WindowInstance, bool)
	Windows() []types.WindowInstance
	Layout() window.Layout
	FocusWindow(instanceID string) bool
	MoveWindow(instanceID string, x, y int) bool
	ResizeWindow(instanceID string, width, height int) bool
	MaximizeWindow(instanceID string) bool
	MinimizeWindow(instanceID string) bool
	CloseWindow(instanceID string) bool
}

// Kind is a pointer event type.
type Kind string

const (
	PointerDown  Kind = "down"
	PointerMove  Kind = "move"
	PointerUp    Kind = "up"
	PointerLeave Kind = "leave"
	DoubleClick  Kind = "dblclick"
)

// Event is one pointer event in screen coordinates. An empty InstanceID
// targets the front-most window under the point. Seq, when non-zero, must
// increase per pointer; events at or below the last applied Seq are dropped.
type Event struct {
	Kind       Kind
	PointerID  int
	InstanceID string
	X, Y       int
	Seq        uint64
}

// State is the gesture a pointer is performing.
type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
	StateResizing State = "resizing"
	StatePressing State = "pressing"
)

// Result reports how an event was handled.
type Result struct {
	State      State  `json:"state"`
	InstanceID string `json:"instance_id,omitempty"`
	Region     string `json:"region,omitempty"`
	Applied    bool   `json:"applied"`
	Stale      bool   `json:"stale,omitempty"`
}

type gesture struct {
	state      State
	instanceID string

	// drag
	offsetX, offsetY int

	// resize, anchored at the press point
	startX, startY int
	startW, startH int

	// pressing
	control Control
}

// Controller turns pointer events into window manager calls. Each pointer has
// its own gesture, so several windows can be dragged at once. A window is
// moved or resized by at most one pointer at a time.
type Controller struct {
	mu       sync.Mutex
	windows  Windows
	geometry Geometry
	clamp    *types.Rect
	gestures map[int]*gesture // Protected by mu
	lastSeq  map[int]uint64   // Protected by mu
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithGeometry overrides the window chrome measurements.
func WithGeometry(g Geometry) Option {
	return func(c *Controller) { c.geometry = g }
}

// WithClamp keeps dragged windows' title bars inside bounds.
func WithClamp(bounds types.Rect) Option {
	return func(c *Controller) { c.clamp = &bounds }
}

// WithMetrics records completed gestures.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l.Named("interaction") }
}

// NewController creates a controller over the window manager.
func NewController(windows Windows, opts ...Option) *Controller {
	c := &Controller{
		windows:  windows,
		geometry: DefaultGeometry(),
		gestures: make(map[int]*gesture),
		lastSeq:  make(map[int]uint64),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geometry returns the chrome measurements in use.
func (c *Controller) Geometry() Geometry {
	return c.geometry
}

// Handle applies one event.
func (c *Controller) Handle(ev Event) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.Seq != 0 {
		if ev.Seq <= c.lastSeq[ev.PointerID] {
			return Result{State: c.stateOf(ev.PointerID), Stale: true}
		}
		c.lastSeq[ev.PointerID] = ev.Seq
	}

	switch ev.Kind {
	case PointerDown:
		return c.down(ev)
	case PointerMove:
		return c.move(ev)
	case PointerUp:
		return c.up(ev)
	case DoubleClick:
		return c.doubleClick(ev)
	default:
		// leave and lost capture keep the gesture alive until up
		return Result{State: c.stateOf(ev.PointerID)}
	}
}

// State returns the gesture state of a pointer.
func (c *Controller) State(pointerID int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateOf(pointerID)
}

// Forget drops all tracking for a pointer, e.g. when its client disconnects.
func (c *Controller) Forget(pointerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.gestures, pointerID)
	delete(c.lastSeq, pointerID)
}

func (c *Controller) stateOf(pointerID int) State {
	if g, ok := c.gestures[pointerID]; ok {
		return g.state
	}
	return StateIdle
}

// target finds the window an event addresses and what part of it is hit.
func (c *Controller) target(ev Event) (types.WindowInstance, Hit, bool) {
	layout := c.windows.Layout()

	if ev.InstanceID != "" {
		w, ok := c.windows.Get(ev.InstanceID)
		if !ok || w.IsMinimized {
			return types.WindowInstance{}, Hit{}, false
		}
		hit := c.geometry.HitTest(window.FrameOf(w, layout), w.IsMaximized, ev.X, ev.Y)
		return w, hit, true
	}

	var best *types.WindowInstance
	var bestHit Hit
	windows := c.windows.Windows()
	for i := range windows {
		w := &windows[i]
		if w.IsMinimized {
			continue
		}
		hit := c.geometry.HitTest(window.FrameOf(*w, layout), w.IsMaximized, ev.X, ev.Y)
		if hit.Region == RegionNone {
			continue
		}
		if best == nil || w.ZIndex > best.ZIndex {
			best, bestHit = w, hit
		}
	}
	if best == nil {
		return types.WindowInstance{}, Hit{}, false
	}
	return *best, bestHit, true
}

func (c *Controller) down(ev Event) Result {
	w, hit, ok := c.target(ev)
	if !ok || hit.Region == RegionNone {
		return Result{State: c.stateOf(ev.PointerID)}
	}

	// a new press replaces whatever the pointer was doing
	delete(c.gestures, ev.PointerID)
	c.windows.FocusWindow(w.InstanceID)

	res := Result{InstanceID: w.InstanceID, Region: hit.Region.String(), Applied: true}

	switch {
	case hit.Region == RegionTitleBar && !w.IsMaximized:
		c.release(w.InstanceID)
		c.gestures[ev.PointerID] = &gesture{
			state:      StateDragging,
			instanceID: w.InstanceID,
			offsetX:    ev.X - w.Position.X,
			offsetY:    ev.Y - w.Position.Y,
		}
	case hit.Region == RegionResize && !w.IsMaximized:
		c.release(w.InstanceID)
		c.gestures[ev.PointerID] = &gesture{
			state:      StateResizing,
			instanceID: w.InstanceID,
			startX:     ev.X,
			startY:     ev.Y,
			startW:     w.Size.Width,
			startH:     w.Size.Height,
		}
	case hit.Region == RegionControl:
		c.gestures[ev.PointerID] = &gesture{
			state:      StatePressing,
			instanceID: w.InstanceID,
			control:    hit.Control,
		}
	}

	res.State = c.stateOf(ev.PointerID)
	return res
}

// release ends any drag or resize another pointer holds on instanceID, so
// the newest press owns the window's geometry.
func (c *Controller) release(instanceID string) {
	for pid, g := range c.gestures {
		if g.instanceID == instanceID && (g.state == StateDragging || g.state == StateResizing) {
			delete(c.gestures, pid)
			c.logger.Debug("gesture taken over", zap.Int("pointer_id", pid), zap.String("instance_id", instanceID))
		}
	}
}

func (c *Controller) move(ev Event) Result {
	g, ok := c.gestures[ev.PointerID]
	if !ok {
		return Result{State: StateIdle}
	}

	w, alive := c.windows.Get(g.instanceID)
	if !alive {
		delete(c.gestures, ev.PointerID)
		return Result{State: StateIdle, InstanceID: g.instanceID}
	}
	// maximized mid-gesture: the stored geometry belongs to the restore
	if w.IsMaximized && g.state != StatePressing {
		delete(c.gestures, ev.PointerID)
		return Result{State: StateIdle, InstanceID: g.instanceID}
	}

	res := Result{State: g.state, InstanceID: g.instanceID}
	switch g.state {
	case StateDragging:
		x, y := c.clampPosition(ev.X-g.offsetX, ev.Y-g.offsetY, w.Size)
		res.Applied = c.windows.MoveWindow(g.instanceID, x, y)
	case StateResizing:
		width := max(c.geometry.MinWidth, g.startW+(ev.X-g.startX))
		height := max(c.geometry.MinHeight, g.startH+(ev.Y-g.startY))
		res.Applied = c.windows.ResizeWindow(g.instanceID, width, height)
	}
	return res
}

func (c *Controller) up(ev Event) Result {
	g, ok := c.gestures[ev.PointerID]
	if !ok {
		return Result{State: StateIdle}
	}
	delete(c.gestures, ev.PointerID)

	res := Result{State: StateIdle, InstanceID: g.instanceID}
	if _, alive := c.windows.Get(g.instanceID); !alive {
		return res
	}

	switch g.state {
	case StateDragging:
		c.record("drag")
	case StateResizing:
		c.record("resize")
	case StatePressing:
		// a button fires only if released over itself
		w, hit, ok := c.target(Event{InstanceID: g.instanceID, X: ev.X, Y: ev.Y})
		if ok && hit.Region == RegionControl && hit.Control == g.control {
			res.Applied = c.press(w.InstanceID, g.control)
			res.Region = RegionControl.String()
		}
	}
	return res
}

func (c *Controller) press(instanceID string, ctl Control) bool {
	c.record(ctl.String())
	switch ctl {
	case ControlClose:
		return c.windows.CloseWindow(instanceID)
	case ControlMinimize:
		return c.windows.MinimizeWindow(instanceID)
	case ControlMaximize:
		return c.windows.MaximizeWindow(instanceID)
	}
	return false
}

func (c *Controller) doubleClick(ev Event) Result {
	res := Result{State: c.stateOf(ev.PointerID)}

	w, hit, ok := c.target(ev)
	if !ok || hit.Region != RegionTitleBar {
		return res
	}

	res.InstanceID = w.InstanceID
	res.Region = hit.Region.String()
	res.Applied = c.windows.MaximizeWindow(w.InstanceID)
	if res.Applied {
		c.record("maximize")
	}
	return res
}

// clampPosition keeps at least part of the title bar inside the clamp bounds.
func (c *Controller) clampPosition(x, y int, size types.WindowSize) (int, int) {
	if c.clamp == nil {
		return x, y
	}
	b := *c.clamp
	grip := c.geometry.TitleBarHeight

	x = min(max(x, b.X-size.Width+grip), b.X+b.Width-grip)
	y = min(max(y, b.Y), b.Y+b.Height-c.geometry.TitleBarHeight)
	return x, y
}

func (c *Controller) record(kind string) {
	if c.metrics != nil {
		c.metrics.RecordGesture(kind)
	}
	c.logger.Debug("gesture completed", zap.String("kind", kind))
}
