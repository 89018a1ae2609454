package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tree := seedTree(t)

	tests := []struct {
		name string
		from string
		expr string
		want string
		err  error
	}{
		{"root", "docs", "/", "root", nil},
		{"home", "root", "~", "user", nil},
		{"empty stays put", "docs", "", "docs", nil},
		{"dot", "docs", ".", "docs", nil},
		{"parent", "docs", "..", "user", nil},
		{"relative", "user", "Documents", "docs", nil},
		{"nested", "root", "home/ubuntu/Documents", "docs", nil},
		{"absolute", "music", "/home/ubuntu/Pictures", "pics", nil},
		{"home relative", "root", "~/Documents/hello.py", "script", nil},
		{"trailing slash", "user", "Documents/", "docs", nil},
		{"up and down", "docs", "../Music/./", "music", nil},
		{"file as last segment", "user", "welcome.txt", "welcome", nil},
		{"missing", "user", "Videos", "", ErrNotFound},
		{"through file", "user", "welcome.txt/x", "", ErrInvalidTraversal},
		{"file then parent", "user", "welcome.txt/..", "", ErrInvalidTraversal},
		{"above root", "root", "..", "", ErrInvalidTraversal},
		{"above root absolute", "docs", "/../home", "", ErrInvalidTraversal},
		{"unknown start", "nope", "Documents", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tree.Resolve(tt.from, tt.expr)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.ErrorIs(t, err, ErrNotFound, "every resolve failure is a not-found")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathOf(t *testing.T) {
	tree := seedTree(t)

	p, ok := tree.PathOf("root")
	require.True(t, ok)
	assert.Equal(t, "/", p)

	p, _ = tree.PathOf("script")
	assert.Equal(t, "/home/ubuntu/Documents/hello.py", p)

	_, ok = tree.PathOf("missing")
	assert.False(t, ok)
}

func TestResolveRoundTrip(t *testing.T) {
	tree := seedTree(t)
	for _, n := range tree.Nodes() {
		if n.ID == tree.RootID() {
			continue
		}
		p, ok := tree.PathOf(n.ID)
		require.True(t, ok)

		got, err := tree.Resolve(tree.RootID(), p)
		require.NoError(t, err, p)
		assert.Equal(t, n.ID, got, p)
	}
}
