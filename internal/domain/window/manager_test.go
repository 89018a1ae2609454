package window

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/GriffinCanCode/webdesk/internal/domain/catalog"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(catalog.Default(), DefaultLayout())
}

func TestOpenMultiInstanceKind(t *testing.T) {
	m := newTestManager()

	a, err := m.OpenApp(types.AppTerminal, nil)
	require.NoError(t, err)
	b, err := m.OpenApp(types.AppTerminal, nil)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, m.Windows(), 2)
}

func TestOpenSingleInstanceKindReuses(t *testing.T) {
	m := newTestManager()

	a, err := m.OpenApp(types.AppCalculator, nil)
	require.NoError(t, err)
	first, _ := m.Get(a)

	b, err := m.OpenApp(types.AppCalculator, nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, m.Windows(), 1)

	second, _ := m.Get(a)
	assert.Equal(t, first.ZIndex+1, second.ZIndex, "reuse focuses exactly once")
}

func TestOpenAtMostOnePerSingleKind(t *testing.T) {
	m := newTestManager()
	kinds := []types.AppKind{types.AppBrowser, types.AppVSCode, types.AppBrowser, types.AppTerminal, types.AppVSCode, types.AppBrowser}

	for i, k := range kinds {
		_, err := m.OpenApp(k, nil)
		require.NoError(t, err)
		if i == 2 {
			w, _ := m.ActiveWindow()
			m.MinimizeWindow(w.InstanceID)
		}
	}

	counts := map[types.AppKind]int{}
	for _, w := range m.Windows() {
		counts[w.AppID]++
	}
	assert.Equal(t, 1, counts[types.AppBrowser])
	assert.Equal(t, 1, counts[types.AppVSCode])
	assert.Equal(t, 1, counts[types.AppTerminal])
}

func TestOpenRestoresMinimized(t *testing.T) {
	m := newTestManager()

	id, _ := m.OpenApp(types.AppVSCode, map[string]any{"initialFileId": "a"})
	before, _ := m.Get(id)
	require.True(t, m.MinimizeWindow(id))

	again, err := m.OpenApp(types.AppVSCode, nil)
	require.NoError(t, err)
	require.Equal(t, id, again)

	w, _ := m.Get(id)
	assert.False(t, w.IsMinimized)
	assert.Greater(t, w.ZIndex, before.ZIndex)
	assert.Equal(t, "a", w.Data["initialFileId"], "nil data keeps the old payload")

	m.MinimizeWindow(id)
	_, _ = m.OpenApp(types.AppVSCode, map[string]any{"initialFileId": "b"})
	w, _ = m.Get(id)
	assert.Equal(t, "b", w.Data["initialFileId"])
}

func TestOpenFocusedOverwritesData(t *testing.T) {
	m := newTestManager()

	id, _ := m.OpenApp(types.AppVSCode, map[string]any{"initialFileId": "a"})
	_, _ = m.OpenApp(types.AppVSCode, map[string]any{"initialFileId": "b"})

	w, _ := m.Get(id)
	assert.Equal(t, "b", w.Data["initialFileId"])
}

func TestOpenUnknownApp(t *testing.T) {
	m := newTestManager()
	_, err := m.OpenApp("solitaire", nil)
	assert.ErrorIs(t, err, ErrUnknownApp)
	assert.Empty(t, m.Windows())
}

func TestOpenPositionCascades(t *testing.T) {
	m := newTestManager()

	a, _ := m.OpenApp(types.AppTerminal, nil)
	b, _ := m.OpenApp(types.AppTerminal, nil)

	wa, _ := m.Get(a)
	wb, _ := m.Get(b)

	// 1440/2 - 600/2, 900/2 - 400/2
	assert.Equal(t, types.WindowPosition{X: 420, Y: 250}, wa.Position)
	assert.Equal(t, types.WindowPosition{X: 440, Y: 270}, wb.Position)
	assert.Equal(t, types.WindowSize{Width: 600, Height: 400}, wa.Size)
	assert.Equal(t, "Terminal", wa.Title)
	assert.Equal(t, "Terminal", wa.Icon)
	assert.Equal(t, 10, wa.ZIndex)
	assert.Equal(t, 11, wb.ZIndex)
}

func TestOpenOptions(t *testing.T) {
	m := newTestManager()
	id, _ := m.OpenApp(types.AppFiles, nil, WithTitle("Pictures"), WithIcon("Image"))

	w, _ := m.Get(id)
	assert.Equal(t, "Pictures", w.Title)
	assert.Equal(t, "Image", w.Icon)
}

func TestFocusOrdering(t *testing.T) {
	m := newTestManager()
	i, _ := m.OpenApp(types.AppTerminal, nil)
	j, _ := m.OpenApp(types.AppTerminal, nil)

	require.True(t, m.FocusWindow(i))
	require.True(t, m.FocusWindow(j))

	wi, _ := m.Get(i)
	wj, _ := m.Get(j)
	assert.Greater(t, wj.ZIndex, wi.ZIndex)

	active, ok := m.ActiveWindow()
	require.True(t, ok)
	assert.Equal(t, j, active.InstanceID)
}

func TestActiveSkipsMinimized(t *testing.T) {
	m := newTestManager()
	i, _ := m.OpenApp(types.AppTerminal, nil)
	j, _ := m.OpenApp(types.AppTerminal, nil)

	m.MinimizeWindow(j)
	active, ok := m.ActiveWindow()
	require.True(t, ok)
	assert.Equal(t, i, active.InstanceID)

	m.MinimizeWindow(i)
	_, ok = m.ActiveWindow()
	assert.False(t, ok)
	assert.Nil(t, m.Stats().ActiveWindowID)
}

func TestMinimizeKeepsZ(t *testing.T) {
	m := newTestManager()
	id, _ := m.OpenApp(types.AppTerminal, nil)
	before, _ := m.Get(id)

	m.MinimizeWindow(id)
	m.MinimizeWindow(id)

	after, _ := m.Get(id)
	assert.True(t, after.IsMinimized)
	assert.Equal(t, before.ZIndex, after.ZIndex)
}

func TestMaximizeIsInvolution(t *testing.T) {
	m := newTestManager()
	id, _ := m.OpenApp(types.AppFiles, nil)
	m.MoveWindow(id, 33, 44)
	m.ResizeWindow(id, 555, 333)
	before, _ := m.Get(id)

	require.True(t, m.MaximizeWindow(id))
	mid, _ := m.Get(id)
	assert.True(t, mid.IsMaximized)
	assert.Greater(t, mid.ZIndex, before.ZIndex)

	frame, ok := m.Frame(id)
	require.True(t, ok)
	assert.Equal(t, DefaultLayout().WorkArea(), frame)

	require.True(t, m.MaximizeWindow(id))
	after, _ := m.Get(id)
	assert.False(t, after.IsMaximized)
	assert.Greater(t, after.ZIndex, mid.ZIndex)
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Size, after.Size)

	frame, _ = m.Frame(id)
	assert.Equal(t, types.Rect{X: 33, Y: 44, Width: 555, Height: 333}, frame)
}

func TestResizeTrustsCaller(t *testing.T) {
	m := newTestManager()
	id, _ := m.OpenApp(types.AppTerminal, nil)

	require.True(t, m.ResizeWindow(id, 10, 10))
	w, _ := m.Get(id)
	assert.Equal(t, types.WindowSize{Width: 10, Height: 10}, w.Size)
}

func TestClosedWindowOpsAreNoops(t *testing.T) {
	m := newTestManager()
	id, _ := m.OpenApp(types.AppTerminal, nil)
	other, _ := m.OpenApp(types.AppTerminal, nil)

	require.True(t, m.CloseWindow(id))
	before := m.Windows()
	statsBefore := m.Stats()

	ops := map[string]func() bool{
		"close":    func() bool { return m.CloseWindow(id) },
		"minimize": func() bool { return m.MinimizeWindow(id) },
		"maximize": func() bool { return m.MaximizeWindow(id) },
		"focus":    func() bool { return m.FocusWindow(id) },
		"move":     func() bool { return m.MoveWindow(id, 1, 1) },
		"resize":   func() bool { return m.ResizeWindow(id, 400, 400) },
		"set data": func() bool { return m.SetData(id, map[string]any{}) },
	}
	for name, op := range ops {
		if op() {
			t.Errorf("%s on closed window reported success", name)
		}
	}

	assert.Equal(t, before, m.Windows())
	assert.Equal(t, statsBefore.NextZ, m.Stats().NextZ)
	assert.False(t, m.Exists(id))
	assert.True(t, m.Exists(other))
	_, ok := m.Frame(id)
	assert.False(t, ok)
}

func TestDuplicateIDPanics(t *testing.T) {
	m := newTestManager().WithIDSource(func() string { return "win_fixed" })
	_, err := m.OpenApp(types.AppTerminal, nil)
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = m.OpenApp(types.AppTerminal, nil) })

	// lock must be released after the panic
	assert.True(t, m.Exists("win_fixed"))
}

func TestOnChangeReceivesSnapshot(t *testing.T) {
	m := newTestManager()

	var seen [][]types.WindowInstance
	m.OnChange(func(ws []types.WindowInstance) {
		// listeners may call back into the manager
		_ = m.Stats()
		seen = append(seen, ws)
	})

	id, _ := m.OpenApp(types.AppTerminal, nil)
	m.FocusWindow(id)
	m.FocusWindow("missing")
	m.CloseWindow(id)

	require.Len(t, seen, 3)
	assert.Len(t, seen[0], 1)
	assert.Empty(t, seen[2])
}

func TestListenersSeeMutationOrder(t *testing.T) {
	m := newTestManager()
	a, _ := m.OpenApp(types.AppTerminal, nil)
	b, _ := m.OpenApp(types.AppTerminal, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	var seen [][]types.WindowInstance
	m.OnChange(func(ws []types.WindowInstance) {
		once.Do(func() {
			close(entered)
			<-release
		})
		mu.Lock()
		seen = append(seen, ws)
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.MoveWindow(a, 5, 5)
	}()

	<-entered
	require.True(t, m.CloseWindow(b), "close does not wait for the blocked listener")
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 2)
	assert.Len(t, seen[1], 1, "the last snapshot delivered matches the registry")
	assert.Len(t, m.Windows(), 1)
}

func TestNestedMutationIsDeliveredAfter(t *testing.T) {
	m := newTestManager()
	id, _ := m.OpenApp(types.AppTerminal, nil)

	var sizes []int
	m.OnChange(func(ws []types.WindowInstance) {
		sizes = append(sizes, len(ws))
		if len(ws) == 1 && len(sizes) == 1 {
			m.CloseWindow(id)
		}
	})
	m.OnChange(func(ws []types.WindowInstance) {
		sizes = append(sizes, len(ws))
	})

	m.FocusWindow(id)
	assert.Equal(t, []int{1, 1, 0, 0}, sizes)
}

func TestStats(t *testing.T) {
	m := newTestManager()
	a, _ := m.OpenApp(types.AppTerminal, nil)
	b, _ := m.OpenApp(types.AppFiles, nil)
	m.MinimizeWindow(a)
	m.MaximizeWindow(b)

	stats := m.Stats()
	assert.Equal(t, 2, stats.TotalWindows)
	assert.Equal(t, 1, stats.MinimizedWindows)
	assert.Equal(t, 1, stats.MaximizedWindows)
	require.NotNil(t, stats.ActiveWindowID)
	assert.Equal(t, b, *stats.ActiveWindowID)
	assert.Equal(t, 13, stats.NextZ)
}

func TestMetricsWiring(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m := newTestManager().WithMetrics(metrics)

	id, _ := m.OpenApp(types.AppTerminal, nil)
	m.FocusWindow(id)
	m.FocusWindow("missing")

	assert.Equal(t, int64(1), metrics.Snapshot().OpenWindows)
}

func TestConcurrentOperations(t *testing.T) {
	m := newTestManager()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := m.OpenApp(types.AppTerminal, nil)
			if err != nil {
				t.Error(err)
				return
			}
			m.FocusWindow(id)
			m.MoveWindow(id, i, i)
			if i%2 == 0 {
				m.CloseWindow(id)
			}
		}(i)
	}
	wg.Wait()

	windows := m.Windows()
	assert.Len(t, windows, 10)

	seen := map[int]bool{}
	for _, w := range windows {
		assert.False(t, seen[w.ZIndex], fmt.Sprintf("z %d reused", w.ZIndex))
		seen[w.ZIndex] = true
	}
}

func TestErrUnknownAppWraps(t *testing.T) {
	m := newTestManager()
	_, err := m.OpenApp("nope", nil)
	assert.True(t, errors.Is(err, ErrUnknownApp))
	assert.Contains(t, err.Error(), "nope")
}
