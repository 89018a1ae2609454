package vfs

import (
	"fmt"

	"github.com/GriffinCanCode/webdesk/internal/shared/paths"
)

// Resolve evaluates a path expression against the tree and returns the id it
// names. "/" anchors at the root and "~" at the home folder; anything else is
// relative to fromID. Segments apply left to right. The last segment may name
// a file; any earlier one may not.
func (t Tree) Resolve(fromID, expr string) (string, error) {
	anchor, segments := paths.Split(expr)

	var cur string
	switch anchor {
	case paths.AnchorRoot:
		cur = t.root
	case paths.AnchorHome:
		cur = paths.UserID
	default:
		cur = fromID
	}

	node, ok := t.Get(cur)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, cur)
	}

	for _, seg := range segments {
		if !node.IsFolder() {
			return "", fmt.Errorf("%w: %s is a file", ErrInvalidTraversal, node.Name)
		}

		if seg == paths.Parent {
			if node.ParentID == nil {
				return "", fmt.Errorf("%w: above root", ErrInvalidTraversal)
			}
			node, _ = t.Get(*node.ParentID)
			continue
		}

		next, ok := t.child(node.ID, seg)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNotFound, seg)
		}
		node = next
	}

	return node.ID, nil
}

// PathOf returns the absolute path of id, "/" for the root.
func (t Tree) PathOf(id string) (string, bool) {
	node, ok := t.Get(id)
	if !ok {
		return "", false
	}

	var names []string
	for steps := 0; node.ParentID != nil; steps++ {
		if steps > len(t.nodes) {
			return "", false
		}
		names = append(names, node.Name)
		node, ok = t.Get(*node.ParentID)
		if !ok {
			return "", false
		}
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return paths.Join(names), true
}
