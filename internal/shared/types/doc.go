// Package types provides shared data structures for the webdesk backend.
//
// Core Types:
//   - WindowInstance: One open window and its geometry
//   - AppKind, AppConfig: Application templates from the catalog
//   - Node, NodeType: Virtual file system entries
//
// Request Types:
//   - OpenAppRequest, MoveRequest, ResizeRequest: Window operations
//   - PointerRequest: Raw pointer events for the interaction layer
//   - CreateNodeRequest, UpdateContentRequest: VFS operations
//   - CommandRequest, ChatRequest: Application input
//   - WSMessage: WebSocket communication
//
// Example Usage:
//
//	win := types.WindowInstance{
//	    InstanceID: string(id.NewWindowID()),
//	    AppID:      types.AppTerminal,
//	    Title:      "Terminal",
//	}
package types
