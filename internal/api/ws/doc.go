// Package ws provides the /stream WebSocket of the desktop service.
//
// Every connection receives a window snapshot on connect and after each
// window manager change, plus app_update frames when an app's state changes
// in the background (streamed chat replies, terminal assistant answers).
//
// Message Types (Client → Server):
//   - pointer: Raw pointer event for the interaction controller
//   - chat: Prompt for the assistant window named by instance_id
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Greeting
//   - snapshot: All windows and the active id
//   - pointer_result: How a pointer event was handled
//   - app_update: Current view of one app window
//   - pong, error
//
// Example Usage:
//
//	hub := ws.NewHub(manager, controller, host, ws.WithLogger(logger))
//	router.GET("/stream", hub.HandleConnection)
package ws
