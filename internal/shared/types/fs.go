package types

// NodeType distinguishes files from folders
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// Valid reports whether t is one of the known node types
func (t NodeType) Valid() bool {
	return t == NodeFile || t == NodeFolder
}

// Node is a single file or folder in the virtual file system
type Node struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      NodeType `json:"type"`
	ParentID  *string  `json:"parentId"`
	Content   *string  `json:"content,omitempty"`
	CreatedAt int64    `json:"createdAt"`
}

// IsFolder reports whether the node can hold children
func (n Node) IsFolder() bool {
	return n.Type == NodeFolder
}

// ContentString returns the file content, empty for folders
func (n Node) ContentString() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// Clone returns a copy whose pointer fields are not shared with n
func (n Node) Clone() Node {
	if n.ParentID != nil {
		p := *n.ParentID
		n.ParentID = &p
	}
	if n.Content != nil {
		c := *n.Content
		n.Content = &c
	}
	return n
}
