package types

// OpenAppRequest opens or reuses a window for an application
type OpenAppRequest struct {
	AppID AppKind        `json:"app_id" binding:"required"`
	Data  map[string]any `json:"data,omitempty"`
	Title *string        `json:"title,omitempty"`
}

// MoveRequest overwrites a window position
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ResizeRequest overwrites a window size
type ResizeRequest struct {
	Width  int `json:"width" binding:"required"`
	Height int `json:"height" binding:"required"`
}

// PointerRequest carries a raw pointer event from the renderer
type PointerRequest struct {
	Kind       string `json:"kind" binding:"required"` // down, move, up, leave, dblclick
	PointerID  int    `json:"pointer_id"`
	InstanceID string `json:"instance_id,omitempty"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Seq        uint64 `json:"seq,omitempty"`
}

// CreateNodeRequest creates a file or folder
type CreateNodeRequest struct {
	Name     string   `json:"name" binding:"required"`
	Type     NodeType `json:"type" binding:"required"`
	ParentID string   `json:"parentId" binding:"required"`
	Content  *string  `json:"content,omitempty"`
}

// UpdateContentRequest overwrites file content
type UpdateContentRequest struct {
	Content string `json:"content"`
}

// CommandRequest runs one terminal command line
type CommandRequest struct {
	Line string `json:"line"`
}

// ChatRequest represents a chat message request
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type       string          `json:"type"`
	Message    string          `json:"message,omitempty"`
	InstanceID string          `json:"instance_id,omitempty"`
	Pointer    *PointerRequest `json:"pointer,omitempty"`
}

// NodeRefRequest names one node for an app action
type NodeRefRequest struct {
	ID string `json:"id" binding:"required"`
}

// NewItemRequest creates a file or folder in the Files app's current folder
type NewItemRequest struct {
	Name string   `json:"name" binding:"required"`
	Type NodeType `json:"type" binding:"required"`
}

// ShortcutRequest carries a key chord such as "Ctrl+Alt+T"
type ShortcutRequest struct {
	Keys string `json:"keys" binding:"required"`
}
