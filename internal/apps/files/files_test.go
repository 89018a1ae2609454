package files

import (
	"context"
	"testing"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/domain/vfs"
	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOpener struct {
	mock.Mock
}

func (m *mockOpener) OpenApp(kind types.AppKind, data map[string]any, opts ...window.OpenOption) (string, error) {
	args := m.Called(kind, data)
	return args.String(0), args.Error(1)
}

func newBrowser(t *testing.T) (*Browser, *vfs.Service, *mockOpener) {
	t.Helper()
	fs, err := vfs.New(vfs.NewMemoryStore())
	require.NoError(t, err)
	opener := &mockOpener{}
	return New(fs, opener), fs, opener
}

func names(items []types.Node) []string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.Name
	}
	return out
}

func TestStartsAtHome(t *testing.T) {
	b, _, _ := newBrowser(t)

	view := b.View()
	assert.Equal(t, "user", view.Current)
	assert.Equal(t, []string{"Documents", "Downloads", "Music", "Pictures", "welcome.txt"}, names(view.Items))
	assert.Equal(t, []Crumb{{"root", "root"}, {"home", "home"}, {"user", "Home"}}, view.Breadcrumbs)
	assert.False(t, view.CanGoBack)
	assert.Equal(t, Places, view.Places)
}

func TestFoldersSortFirst(t *testing.T) {
	b, fs, _ := newBrowser(t)
	_, err := fs.CreateNode("aaa.txt", types.NodeFile, "user", "")
	require.NoError(t, err)
	_, err = fs.CreateNode("zed", types.NodeFolder, "user", "")
	require.NoError(t, err)

	require.True(t, b.Refresh())
	assert.Equal(t, []string{"Documents", "Downloads", "Music", "Pictures", "zed", "aaa.txt", "welcome.txt"}, names(b.View().Items))
}

func TestNavigateAndBack(t *testing.T) {
	b, _, _ := newBrowser(t)

	require.NoError(t, b.Navigate("docs"))
	assert.Equal(t, []string{"gemini_plans.txt", "hello.py"}, names(b.View().Items))
	assert.True(t, b.View().CanGoBack)

	require.NoError(t, b.Navigate("home"))
	require.True(t, b.Back())
	assert.Equal(t, "docs", b.View().Current)
	require.True(t, b.Back())
	assert.Equal(t, "user", b.View().Current)
	assert.False(t, b.Back())

	// navigating after going back drops the forward entries
	require.NoError(t, b.Navigate("pics"))
	require.True(t, b.Back())
	assert.Equal(t, "user", b.View().Current)
	assert.False(t, b.Back())
}

func TestNavigateErrors(t *testing.T) {
	b, _, _ := newBrowser(t)
	assert.ErrorIs(t, b.Navigate("welcome"), ErrNotFolder)
	assert.ErrorIs(t, b.Navigate("missing"), ErrNotFound)
	assert.Equal(t, "user", b.View().Current)
}

func TestCreateAndDelete(t *testing.T) {
	b, fs, _ := newBrowser(t)

	folder, err := b.CreateFolder("Projects")
	require.NoError(t, err)
	_, err = b.CreateFile("todo.txt")
	require.NoError(t, err)
	assert.Contains(t, names(b.View().Items), "Projects")
	assert.Contains(t, names(b.View().Items), "todo.txt")

	_, err = b.CreateFile("bad/name")
	assert.ErrorIs(t, err, vfs.ErrInvalidName)

	assert.ErrorIs(t, b.DeleteSelected(), ErrNoSelected)
	b.Select(folder.ID)
	require.NoError(t, b.DeleteSelected())
	_, ok := fs.GetNode(folder.ID)
	assert.False(t, ok)
	assert.NotContains(t, names(b.View().Items), "Projects")
	assert.Empty(t, b.View().Selected)
}

func TestOpen(t *testing.T) {
	b, fs, opener := newBrowser(t)
	img, err := fs.CreateNode("logo.png", types.NodeFile, "user", "")
	require.NoError(t, err)

	opener.On("OpenApp", types.AppVSCode, map[string]any{"initialFileId": "welcome"}).Return("win_1", nil).Once()
	opener.On("OpenApp", types.AppBrowser, map[string]any(nil)).Return("win_2", nil).Once()

	id, err := b.Open("welcome")
	require.NoError(t, err)
	assert.Equal(t, "win_1", id)

	id, err = b.Open(img.ID)
	require.NoError(t, err)
	assert.Equal(t, "win_2", id)

	id, err = b.Open("docs")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, "docs", b.View().Current)

	_, err = b.Open("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	opener.AssertExpectations(t)
}

func TestIsImage(t *testing.T) {
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	assert.True(t, IsImage(types.Node{Name: "a.JPG"}))
	assert.True(t, IsImage(types.Node{Name: "blob", Content: &png}))
	text := "hello"
	assert.False(t, IsImage(types.Node{Name: "notes.txt", Content: &text}))
	assert.False(t, IsImage(types.Node{Name: "empty"}))
}

func TestRefreshAfterFolderDeleted(t *testing.T) {
	b, fs, _ := newBrowser(t)
	require.NoError(t, b.Navigate("docs"))
	require.True(t, fs.DeleteNode("docs"))

	assert.True(t, b.Refresh())
	view := b.View()
	assert.Equal(t, "user", view.Current)
	assert.False(t, view.CanGoBack)
}

func TestRefreshUnchanged(t *testing.T) {
	b, _, _ := newBrowser(t)
	assert.False(t, b.Refresh())
}

func TestPollPicksUpChanges(t *testing.T) {
	b, fs, _ := newBrowser(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	go b.Poll(ctx, 5*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	_, err := fs.CreateNode("new.txt", types.NodeFile, "user", "")
	require.NoError(t, err)

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("poll never noticed the new file")
	}
	assert.Contains(t, names(b.View().Items), "new.txt")
}
