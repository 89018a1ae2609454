package interaction

import "github.com/GriffinCanCode/webdesk/internal/shared/types"

// EventFrom converts a wire pointer event. It reports false for unknown kinds.
func EventFrom(req types.PointerRequest) (Event, bool) {
	kind := Kind(req.Kind)
	switch kind {
	case PointerDown, PointerMove, PointerUp, PointerLeave, DoubleClick:
	default:
		return Event{}, false
	}
	return Event{
		Kind:       kind,
		PointerID:  req.PointerID,
		InstanceID: req.InstanceID,
		X:          req.X,
		Y:          req.Y,
		Seq:        req.Seq,
	}, true
}
