package window

import (
	"errors"
	"slices"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
)

// ErrDuplicateInstance is returned by Insert when the instance id is taken.
var ErrDuplicateInstance = errors.New("duplicate window instance")

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	IsMinimized *bool
	IsMaximized *bool
	ZIndex      *int
	Position    *types.WindowPosition
	Size        *types.WindowSize
	Data        map[string]any
}

func (p Patch) apply(w *types.WindowInstance) {
	if p.IsMinimized != nil {
		w.IsMinimized = *p.IsMinimized
	}
	if p.IsMaximized != nil {
		w.IsMaximized = *p.IsMaximized
	}
	if p.ZIndex != nil {
		w.ZIndex = *p.ZIndex
	}
	if p.Position != nil {
		w.Position = *p.Position
	}
	if p.Size != nil {
		w.Size = *p.Size
	}
	if p.Data != nil {
		w.Data = p.Data
	}
}

// Registry is the keyed collection of live windows in insertion order.
// It is not safe for concurrent use; Manager serializes access.
type Registry struct {
	order []string
	byID  map[string]*types.WindowInstance
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*types.WindowInstance)}
}

// Insert appends a window.
func (r *Registry) Insert(w types.WindowInstance) error {
	if _, ok := r.byID[w.InstanceID]; ok {
		return ErrDuplicateInstance
	}
	w = w.Clone()
	r.byID[w.InstanceID] = &w
	r.order = append(r.order, w.InstanceID)
	return nil
}

// Remove deletes a window. Missing ids are ignored.
func (r *Registry) Remove(id string) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
}

// Update applies p to the window and reports whether it exists.
func (r *Registry) Update(id string, p Patch) bool {
	w, ok := r.byID[id]
	if !ok {
		return false
	}
	p.apply(w)
	return true
}

// Get returns a copy of the window.
func (r *Registry) Get(id string) (types.WindowInstance, bool) {
	w, ok := r.byID[id]
	if !ok {
		return types.WindowInstance{}, false
	}
	return w.Clone(), true
}

// Len returns the number of live windows.
func (r *Registry) Len() int {
	return len(r.order)
}

// Snapshot returns copies of all windows in insertion order, not z-order.
func (r *Registry) Snapshot() []types.WindowInstance {
	out := make([]types.WindowInstance, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// first returns the earliest inserted window of the given kind.
func (r *Registry) first(kind types.AppKind) (*types.WindowInstance, bool) {
	for _, id := range r.order {
		if w := r.byID[id]; w.AppID == kind {
			return w, true
		}
	}
	return nil, false
}
