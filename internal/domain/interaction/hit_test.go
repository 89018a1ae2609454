package interaction

import (
	"testing"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/stretchr/testify/assert"
)

func TestHitTest(t *testing.T) {
	g := DefaultGeometry()
	frame := types.Rect{X: 100, Y: 100, Width: 600, Height: 400}

	tests := []struct {
		name      string
		x, y      int
		maximized bool
		want      Hit
	}{
		{"outside", 50, 50, false, Hit{Region: RegionNone}},
		{"right edge is exclusive", 700, 200, false, Hit{Region: RegionNone}},
		{"title bar", 400, 120, false, Hit{Region: RegionTitleBar}},
		{"close button", 115, 115, false, Hit{Region: RegionControl, Control: ControlClose}},
		{"minimize button", 145, 115, false, Hit{Region: RegionControl, Control: ControlMinimize}},
		{"maximize button", 175, 120, false, Hit{Region: RegionControl, Control: ControlMaximize}},
		{"gap between buttons", 134, 115, false, Hit{Region: RegionTitleBar}},
		{"above buttons", 115, 105, false, Hit{Region: RegionTitleBar}},
		{"content", 400, 300, false, Hit{Region: RegionContent}},
		{"grip", 690, 490, false, Hit{Region: RegionResize}},
		{"grip hidden when maximized", 690, 490, true, Hit{Region: RegionContent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.HitTest(frame, tt.maximized, tt.x, tt.y))
		})
	}
}

func TestRegionAndControlNames(t *testing.T) {
	assert.Equal(t, "titlebar", RegionTitleBar.String())
	assert.Equal(t, "none", RegionNone.String())
	assert.Equal(t, "maximize", ControlMaximize.String())
	assert.Equal(t, "none", ControlNone.String())
}
