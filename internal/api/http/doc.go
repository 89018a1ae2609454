// Package http provides the REST API of the desktop service.
//
// Endpoints:
//   - Health: / and /health, /metrics/summary
//   - Windows: /catalog, /windows, /windows/:id and its focus, minimize,
//     maximize, position and size actions
//   - Input: /pointer, /shortcut
//   - Shell: /dock, /desktop, /desktop/menu
//   - File system: /fs/nodes, /fs/resolve
//   - Apps: /apps/:id/view plus the terminal, files, editor and chat actions
//   - Renderer logs: /logs
//
// Errors are JSON objects with a single "error" field. Unknown windows and
// nodes answer 404, busy apps 409, everything else the caller got wrong 400.
//
// Example Usage:
//
//	handlers := http.NewHandlers(http.Deps{Windows: manager, FS: fs, ...})
//	handlers.Register(router)
package http
