package vfs

import (
	"fmt"
	"slices"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
)

// Tree is an immutable snapshot of the node set. Every transform returns a
// new Tree and leaves the receiver untouched, so a Tree can be shared freely.
type Tree struct {
	nodes []types.Node
	index map[string]int
	root  string
}

// NewTree validates nodes and builds a tree. The node order is kept.
func NewTree(nodes []types.Node) (Tree, error) {
	t := Tree{
		nodes: make([]types.Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return Tree{}, fmt.Errorf("%w: node without id", ErrCorrupt)
		}
		if !n.Type.Valid() {
			return Tree{}, fmt.Errorf("%w: %s has type %q", ErrCorrupt, n.ID, n.Type)
		}
		if _, dup := t.index[n.ID]; dup {
			return Tree{}, fmt.Errorf("%w: duplicate id %s", ErrCorrupt, n.ID)
		}
		if n.ParentID == nil {
			if t.root != "" {
				return Tree{}, fmt.Errorf("%w: second root %s", ErrCorrupt, n.ID)
			}
			if !n.IsFolder() {
				return Tree{}, fmt.Errorf("%w: root %s is a file", ErrCorrupt, n.ID)
			}
			t.root = n.ID
		}
		t.index[n.ID] = len(t.nodes)
		t.nodes = append(t.nodes, n.Clone())
	}

	if t.root == "" {
		return Tree{}, fmt.Errorf("%w: no root", ErrCorrupt)
	}

	// every node must reach the root through existing folders
	reached := map[string]bool{t.root: true}
	for _, n := range t.nodes {
		var chain []string
		cur := n
		for !reached[cur.ID] {
			if slices.Contains(chain, cur.ID) {
				return Tree{}, fmt.Errorf("%w: cycle through %s", ErrCorrupt, cur.ID)
			}
			chain = append(chain, cur.ID)

			parent, ok := t.Get(*cur.ParentID)
			if !ok {
				return Tree{}, fmt.Errorf("%w: %s has missing parent %s", ErrCorrupt, cur.ID, *cur.ParentID)
			}
			if !parent.IsFolder() {
				return Tree{}, fmt.Errorf("%w: %s is inside file %s", ErrCorrupt, cur.ID, parent.ID)
			}
			cur = parent
		}
		for _, id := range chain {
			reached[id] = true
		}
	}

	return t, nil
}

// RootID returns the id of the node without a parent.
func (t Tree) RootID() string {
	return t.root
}

// Len returns the number of nodes.
func (t Tree) Len() int {
	return len(t.nodes)
}

// Get returns a copy of the node.
func (t Tree) Get(id string) (types.Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return types.Node{}, false
	}
	return t.nodes[i].Clone(), true
}

// Nodes returns copies of all nodes in insertion order.
func (t Tree) Nodes() []types.Node {
	out := make([]types.Node, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Children returns the direct children of parentID in insertion order.
func (t Tree) Children(parentID string) []types.Node {
	var out []types.Node
	for _, n := range t.nodes {
		if n.ParentID != nil && *n.ParentID == parentID {
			out = append(out, n.Clone())
		}
	}
	return out
}

// child returns the first child of parentID with the given name.
func (t Tree) child(parentID, name string) (types.Node, bool) {
	for _, n := range t.nodes {
		if n.ParentID != nil && *n.ParentID == parentID && n.Name == name {
			return n, true
		}
	}
	return types.Node{}, false
}

// Insert returns a tree with n appended. The caller has validated n.
func (t Tree) Insert(n types.Node) Tree {
	next := t.copy(len(t.nodes) + 1)
	next.index[n.ID] = len(next.nodes)
	next.nodes = append(next.nodes, n.Clone())
	return next
}

// Remove returns a tree without id and all its descendants, plus the removed
// ids in breadth-first order. A missing id yields the receiver and nil.
func (t Tree) Remove(id string) (Tree, []string) {
	if _, ok := t.index[id]; !ok {
		return t, nil
	}

	doomed := []string{id}
	set := map[string]bool{id: true}
	for i := 0; i < len(doomed); i++ {
		for _, n := range t.nodes {
			if n.ParentID != nil && *n.ParentID == doomed[i] && !set[n.ID] {
				set[n.ID] = true
				doomed = append(doomed, n.ID)
			}
		}
	}

	next := Tree{
		nodes: make([]types.Node, 0, len(t.nodes)-len(doomed)),
		index: make(map[string]int, len(t.nodes)-len(doomed)),
		root:  t.root,
	}
	for _, n := range t.nodes {
		if set[n.ID] {
			continue
		}
		next.index[n.ID] = len(next.nodes)
		next.nodes = append(next.nodes, n)
	}
	if set[t.root] {
		next.root = ""
	}
	return next, doomed
}

// SetContent returns a tree with the file's content replaced. It reports
// false, and returns the receiver, for missing ids and folders.
func (t Tree) SetContent(id, content string) (Tree, bool) {
	i, ok := t.index[id]
	if !ok || t.nodes[i].IsFolder() {
		return t, false
	}
	next := t.copy(len(t.nodes))
	c := content
	next.nodes[i].Content = &c
	return next, true
}

// copy duplicates the backing storage. Node values are shared but never
// mutated in place except by the transform that made the copy.
func (t Tree) copy(capacity int) Tree {
	next := Tree{
		nodes: make([]types.Node, len(t.nodes), capacity),
		index: make(map[string]int, capacity),
		root:  t.root,
	}
	copy(next.nodes, t.nodes)
	for k, v := range t.index {
		next.index[k] = v
	}
	return next
}
