package interaction

import "github.com/GriffinCanCode/webdesk/internal/shared/types"

// Region is the part of a window under the pointer.
type Region int

const (
	RegionNone Region = iota
	RegionContent
	RegionTitleBar
	RegionControl
	RegionResize
)

func (r Region) String() string {
	switch r {
	case RegionContent:
		return "content"
	case RegionTitleBar:
		return "titlebar"
	case RegionControl:
		return "control"
	case RegionResize:
		return "resize"
	default:
		return "none"
	}
}

// Control is a title bar button.
type Control int

const (
	ControlNone Control = iota
	ControlClose
	ControlMinimize
	ControlMaximize
)

func (c Control) String() string {
	switch c {
	case ControlClose:
		return "close"
	case ControlMinimize:
		return "minimize"
	case ControlMaximize:
		return "maximize"
	default:
		return "none"
	}
}

// Geometry holds the fixed window chrome measurements, in pixels.
type Geometry struct {
	TitleBarHeight int
	ControlInset   int // left padding before the first button
	ControlSize    int
	ControlGap     int
	HandleSize     int
	MinWidth       int
	MinHeight      int
}

// DefaultGeometry matches the desktop chrome: a 40px title bar with three
// 20px buttons on the left and a 20px resize grip in the bottom-right corner.
func DefaultGeometry() Geometry {
	return Geometry{
		TitleBarHeight: 40,
		ControlInset:   12,
		ControlSize:    20,
		ControlGap:     8,
		HandleSize:     20,
		MinWidth:       320,
		MinHeight:      200,
	}
}

// Hit describes what a point lands on.
type Hit struct {
	Region  Region
	Control Control
}

// HitTest classifies (x, y) against a window frame. Maximized windows have no
// resize grip.
func (g Geometry) HitTest(frame types.Rect, maximized bool, x, y int) Hit {
	if !frame.Contains(x, y) {
		return Hit{Region: RegionNone}
	}

	lx, ly := x-frame.X, y-frame.Y

	if !maximized &&
		lx >= frame.Width-g.HandleSize && ly >= frame.Height-g.HandleSize {
		return Hit{Region: RegionResize}
	}

	if ly < g.TitleBarHeight {
		if c := g.control(lx, ly); c != ControlNone {
			return Hit{Region: RegionControl, Control: c}
		}
		return Hit{Region: RegionTitleBar}
	}

	return Hit{Region: RegionContent}
}

// control returns the button under a title-bar-local point.
func (g Geometry) control(lx, ly int) Control {
	top := (g.TitleBarHeight - g.ControlSize) / 2
	if ly < top || ly >= top+g.ControlSize {
		return ControlNone
	}

	buttons := []Control{ControlClose, ControlMinimize, ControlMaximize}
	left := g.ControlInset
	for _, c := range buttons {
		if lx >= left && lx < left+g.ControlSize {
			return c
		}
		left += g.ControlSize + g.ControlGap
	}
	return ControlNone
}
