// Package main is the entry point for the webdesk backend.
//
// The server owns the state of a browser-hosted desktop: windows and their
// z-order, pointer-driven drag and resize, a persisted virtual file system,
// and the terminal, files, editor and assistant apps that run on top of it.
// The browser only renders what the REST and WebSocket APIs report.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -vfs /var/lib/webdesk/fs.json.zst
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
