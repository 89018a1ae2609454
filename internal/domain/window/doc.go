// Package window implements the window registry and the window manager.
//
// The registry is a plain keyed collection of window instances kept in
// insertion order. The manager is the only mutator: it opens, closes,
// focuses, minimizes, maximizes, moves and resizes windows, assigning every
// z-index from one strictly increasing counter.
//
// Rules:
//   - A kind without allow_multiple_instances has at most one live window;
//     opening it again restores or focuses that window.
//   - The active window is the non-minimized window with the highest z-index.
//   - Maximize toggles a flag and raises the window; stored geometry is kept
//     so restoring returns the exact prior frame.
//   - Operations on unknown ids return false and change nothing.
//   - ResizeWindow trusts its caller to enforce minimum sizes.
//
// Example Usage:
//
//	mgr := window.NewManager(catalog.Default(), window.DefaultLayout())
//	mgr.OnChange(func(ws []types.WindowInstance) { hub.Broadcast(ws) })
//	id, _ := mgr.OpenApp(types.AppTerminal, nil)
//	mgr.MoveWindow(id, 120, 80)
package window
