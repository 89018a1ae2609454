// Package shell models the desktop surfaces around the windows: the dock,
// the desktop context menu, keyboard shortcuts, wallpaper and desktop icons.
// It reads window state and calls the window manager; it owns nothing but
// the wallpaper index.
package shell
