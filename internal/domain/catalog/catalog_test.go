package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	term, ok := c.Lookup(types.AppTerminal)
	require.True(t, ok)
	assert.Equal(t, "Terminal", term.Title)
	assert.Equal(t, types.WindowSize{Width: 600, Height: 400}, term.DefaultSize)
	assert.True(t, term.AllowMultipleInstances)

	calc, ok := c.Lookup(types.AppCalculator)
	require.True(t, ok)
	assert.False(t, calc.AllowMultipleInstances)

	files, _ := c.Lookup(types.AppFiles)
	assert.True(t, files.AllowMultipleInstances)

	chat, _ := c.Lookup(types.AppAIChat)
	assert.Equal(t, "Gemini Assistant", chat.Title)
	assert.Equal(t, "MessageSquare", chat.Icon)
}

func TestDockedExcludesTrash(t *testing.T) {
	c := Default()
	docked := c.Docked()

	require.Len(t, docked, 8)
	assert.Equal(t, types.AppTerminal, docked[0].Kind)
	for _, app := range docked {
		assert.NotEqual(t, types.AppTrash, app.Kind)
	}
	assert.Len(t, c.All(), 9)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "apps: []", ErrEmpty},
		{"missing title", "apps:\n  - id: x\n    default_size: {width: 1, height: 1}", ErrInvalidApp},
		{"missing size", "apps:\n  - id: x\n    title: X", ErrInvalidApp},
		{"duplicate", "apps:\n  - {id: x, title: X, default_size: {width: 1, height: 1}}\n  - {id: x, title: Y, default_size: {width: 1, height: 1}}", ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.yaml")
	doc := "apps:\n  - {id: terminal, title: Shell, icon: Terminal, default_size: {width: 640, height: 480}, dock: true}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	app, ok := c.Lookup(types.AppTerminal)
	require.True(t, ok)
	assert.Equal(t, "Shell", app.Title)

	_, ok = c.Lookup(types.AppBrowser)
	assert.False(t, ok)
}

func TestLoadEmptyPathUsesBuiltin(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.All(), 9)
}
