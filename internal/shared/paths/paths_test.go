package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		expr     string
		anchor   Anchor
		segments []string
	}{
		{"/", AnchorRoot, nil},
		{"~", AnchorHome, nil},
		{"~/Documents", AnchorHome, []string{"Documents"}},
		{"/home/ubuntu", AnchorRoot, []string{"home", "ubuntu"}},
		{"Documents/./notes.txt", AnchorRelative, []string{"Documents", "notes.txt"}},
		{"../..//x", AnchorRelative, []string{"..", "..", "x"}},
		{"~user", AnchorRelative, []string{"~user"}},
		{"", AnchorRelative, nil},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			anchor, segments := Split(tt.expr)
			assert.Equal(t, tt.anchor, anchor)
			assert.Equal(t, tt.segments, segments)
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/", Join(nil))
	assert.Equal(t, "/home/ubuntu/a.txt", Join([]string{"home", "ubuntu", "a.txt"}))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("notes.txt"))
	assert.True(t, ValidName("My Folder"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("   "))
	assert.False(t, ValidName(".."))
	assert.False(t, ValidName("a/b"))
	assert.False(t, ValidName("~"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "~", Display("/home/ubuntu"))
	assert.Equal(t, "~/Documents", Display("/home/ubuntu/Documents"))
	assert.Equal(t, "/home", Display("/home"))
	assert.Equal(t, "/home/ubuntuX", Display("/home/ubuntuX"))
}
