package types

// WindowPosition represents window position on screen
type WindowPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WindowSize represents window dimensions
type WindowSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect is an absolute screen rectangle
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// WindowInstance is one open window hosting an application.
// Position and Size hold the restored geometry and are left untouched while
// the window is maximized.
type WindowInstance struct {
	InstanceID  string         `json:"instance_id"`
	AppID       AppKind        `json:"app_id"`
	Title       string         `json:"title"`
	Icon        string         `json:"icon"`
	IsMinimized bool           `json:"is_minimized"`
	IsMaximized bool           `json:"is_maximized"`
	ZIndex      int            `json:"z_index"`
	Position    WindowPosition `json:"position"`
	Size        WindowSize     `json:"size"`
	Data        map[string]any `json:"data,omitempty"`
}

// Clone returns a copy that shares no mutable state with w
func (w WindowInstance) Clone() WindowInstance {
	if w.Data != nil {
		data := make(map[string]any, len(w.Data))
		for k, v := range w.Data {
			data[k] = v
		}
		w.Data = data
	}
	return w
}

// WindowStats contains window manager statistics
type WindowStats struct {
	TotalWindows     int     `json:"total_windows"`
	MinimizedWindows int     `json:"minimized_windows"`
	MaximizedWindows int     `json:"maximized_windows"`
	ActiveWindowID   *string `json:"active_window_id,omitempty"`
	NextZ            int     `json:"next_z"`
}
