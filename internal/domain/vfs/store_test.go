package vfs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFormat(t *testing.T) {
	nodes := DefaultSeed(time.UnixMilli(42))[:3]
	data, err := Encode(nodes)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id":"root","name":"root","type":"folder","parentId":null,"createdAt":42},
		{"id":"home","name":"home","type":"folder","parentId":"root","createdAt":42},
		{"id":"user","name":"ubuntu","type":"folder","parentId":"home","createdAt":42}
	]`, string(data))

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, name := range []string{"fs.json", "fs.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			store := NewFileStore(path)

			_, err := store.Load()
			assert.ErrorIs(t, err, ErrNoSnapshot)

			nodes := DefaultSeed(time.UnixMilli(7))
			require.NoError(t, store.Save(nodes))

			got, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, nodes, got)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp files are renamed away")
		})
	}
}

func TestFileStoreCompresses(t *testing.T) {
	dir := t.TempDir()
	plain := NewFileStore(filepath.Join(dir, "a.json"))
	packed := NewFileStore(filepath.Join(dir, "a.json.zst"))

	nodes := DefaultSeed(time.UnixMilli(7))
	require.NoError(t, plain.Save(nodes))
	require.NoError(t, packed.Save(nodes))

	raw, _ := os.ReadFile(plain.Path())
	zst, _ := os.ReadFile(packed.Path())
	assert.Equal(t, byte('['), raw[0])
	assert.NotEqual(t, byte('['), zst[0])
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}

func TestServiceOverFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fs.json")
	svc, err := New(NewFileStore(path))
	require.NoError(t, err)

	n, err := svc.CreateNode("todo.txt", "file", "user", "milk")
	require.NoError(t, err)

	again, err := New(NewFileStore(path))
	require.NoError(t, err)
	got, ok := again.GetNode(n.ID)
	require.True(t, ok)
	assert.Equal(t, "milk", got.ContentString())
	assert.False(t, again.Degraded())
}

func TestServiceDegradesOnUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	svc, err := New(NewFileStore(filepath.Join(dir, "sub", "fs.json")))
	require.NoError(t, err)
	require.False(t, svc.Degraded())

	// a regular file where the directory should go makes MkdirAll fail
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub"), nil, 0o644))

	_, err = svc.CreateNode("a", "folder", "user", "")
	require.NoError(t, err)
	assert.True(t, svc.Degraded())
}
