/*
Package vfs implements the virtual file system behind the Files, Terminal
and Code apps.

# Model

Nodes are files or folders linked by parent id into a single rooted tree.
A Tree value is an immutable snapshot; Insert, Remove and SetContent return
a new Tree. The Service holds the current Tree, serializes all operations
and persists after every mutation.

# Paths

	/            the root
	~            the user's home folder (id "user", named "ubuntu")
	.  ..        current and parent folder
	a/b/c        names resolved left to right

Resolving a missing segment returns ErrNotFound. Walking through a file or
above the root returns ErrInvalidTraversal, which also matches ErrNotFound.
A file may be the last segment.

# Persistence

The whole node set is written as one ordered JSON array
({id, name, type, parentId, content?, createdAt}). FileStore writes it
atomically and compresses it with zstd when the path ends in ".zst". When a
save fails the service logs it and stops persisting for the rest of the
process; the in-memory tree always reflects the last mutation.

# Seeding

When nothing is stored yet the tree comes from the embedded seed.toml, a
TOML file named in config, or a host directory imported with ImportDir.
*/
package vfs
