package window

import (
	"testing"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Insert(types.WindowInstance{InstanceID: id}))
	}

	var ids []string
	for _, w := range r.Snapshot() {
		ids = append(ids, w.InstanceID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, 3, r.Len())
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Insert(types.WindowInstance{InstanceID: "a"}))
	assert.ErrorIs(t, r.Insert(types.WindowInstance{InstanceID: "a"}), ErrDuplicateInstance)
}

func TestRegistryRemoveMissingIsNoop(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Insert(types.WindowInstance{InstanceID: "a"}))
	r.Remove("zzz")
	r.Remove("a")
	r.Remove("a")
	assert.Equal(t, 0, r.Len())
}

func TestRegistryPatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Insert(types.WindowInstance{
		InstanceID: "a",
		Position:   types.WindowPosition{X: 1, Y: 2},
		Size:       types.WindowSize{Width: 3, Height: 4},
	}))

	z := 42
	assert.True(t, r.Update("a", Patch{ZIndex: &z}))
	assert.False(t, r.Update("missing", Patch{ZIndex: &z}))

	w, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, w.ZIndex)
	assert.Equal(t, types.WindowPosition{X: 1, Y: 2}, w.Position)
	assert.Equal(t, types.WindowSize{Width: 3, Height: 4}, w.Size)
}

func TestRegistrySnapshotIsDetached(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Insert(types.WindowInstance{InstanceID: "a", Data: map[string]any{"k": "v"}}))

	snap := r.Snapshot()
	snap[0].Data["k"] = "changed"
	snap[0].ZIndex = 99

	w, _ := r.Get("a")
	assert.Equal(t, "v", w.Data["k"])
	assert.Equal(t, 0, w.ZIndex)
}
