// Package paths defines the well-known layout of the virtual file system and
// the path expression syntax shared by the VFS, the terminal and the Files app.
package paths

import "strings"

// Well-known node ids present in every seed tree
const (
	RootID = "root"
	HomeID = "home"
	UserID = "user"
)

// Path syntax
const (
	Separator = "/"
	Root      = "/"
	Home      = "~"
	Current   = "."
	Parent    = ".."
)

// UserName is the display name of the home folder and the shell user
const UserName = "ubuntu"

// Anchor describes where a path expression starts
type Anchor int

const (
	// AnchorRelative resolves from the caller's current folder
	AnchorRelative Anchor = iota
	// AnchorRoot resolves from the tree root
	AnchorRoot
	// AnchorHome resolves from the user's home folder
	AnchorHome
)

// Split breaks a path expression into its anchor and the remaining segments.
// Empty and "." segments are dropped; ".." is kept for the resolver.
func Split(expr string) (Anchor, []string) {
	anchor := AnchorRelative
	rest := expr

	switch {
	case rest == Home || strings.HasPrefix(rest, Home+Separator):
		anchor = AnchorHome
		rest = strings.TrimPrefix(rest, Home)
	case strings.HasPrefix(rest, Root):
		anchor = AnchorRoot
	}

	var segments []string
	for _, part := range strings.Split(rest, Separator) {
		if part == "" || part == Current {
			continue
		}
		segments = append(segments, part)
	}
	return anchor, segments
}

// Join builds an absolute path from root-to-leaf names
func Join(names []string) string {
	if len(names) == 0 {
		return Root
	}
	return Root + strings.Join(names, Separator)
}

// ValidName reports whether name can be used for a node.
// Names may not contain the separator and may not be "." or "..".
func ValidName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if name == Current || name == Parent || name == Home {
		return false
	}
	return !strings.Contains(name, Separator)
}

// Display shortens an absolute path under the home folder to "~" form
func Display(abs string) string {
	home := Join([]string{"home", UserName})
	if abs == home {
		return Home
	}
	if strings.HasPrefix(abs, home+Separator) {
		return Home + strings.TrimPrefix(abs, home)
	}
	return abs
}
