// Package server assembles the desktop service: configuration, logging,
// metrics, the window manager, the file system, the app host, and the
// HTTP and WebSocket transport.
package server
