package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing node or path segment.
	ErrNotFound = errors.New("node not found")
	// ErrInvalidTraversal reports a path that descends into a file or climbs
	// above the root. It matches ErrNotFound under errors.Is.
	ErrInvalidTraversal = fmt.Errorf("invalid traversal: %w", ErrNotFound)
	// ErrNotFolder reports a parent that cannot hold children.
	ErrNotFolder = errors.New("parent is not a folder")
	// ErrConflict reports a sibling with the same name when unique names are enforced.
	ErrConflict = errors.New("name already exists in folder")
	// ErrInvalidName reports a name that could never be addressed by path.
	ErrInvalidName = errors.New("invalid node name")
	// ErrInvalidType reports a node type other than file or folder.
	ErrInvalidType = errors.New("invalid node type")
	// ErrCorrupt reports a node set that does not form a single rooted tree.
	ErrCorrupt = errors.New("corrupt node set")
	// ErrNoSnapshot is returned by a Store that has nothing saved yet.
	ErrNoSnapshot = errors.New("no persisted snapshot")
)
