package interaction

import (
	"testing"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/stretchr/testify/assert"
)

func TestEventFrom(t *testing.T) {
	ev, ok := EventFrom(types.PointerRequest{Kind: "move", PointerID: 2, InstanceID: "win_a", X: 5, Y: 6, Seq: 9})
	assert.True(t, ok)
	assert.Equal(t, Event{Kind: PointerMove, PointerID: 2, InstanceID: "win_a", X: 5, Y: 6, Seq: 9}, ev)

	for _, kind := range []string{"", "hover", "DOWN"} {
		_, ok := EventFrom(types.PointerRequest{Kind: kind})
		assert.False(t, ok, kind)
	}
}
