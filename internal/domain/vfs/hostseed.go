package vfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/shared/id"
	"github.com/GriffinCanCode/webdesk/internal/shared/paths"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImportedFileSize caps the content read from a host file. Larger files
// are imported with empty content.
const MaxImportedFileSize = 256 << 10

type hostEntry struct {
	rel   string
	isDir bool
	data  []byte
}

// ImportDir builds a seed tree from a host directory. The usual root, home
// and user folders are created and the directory's contents are mounted under
// the user folder. Symlinks are not followed. Only text files keep their
// content; binary files are imported empty.
func ImportDir(ctx context.Context, dir string, now time.Time) ([]types.Node, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("import %s: not a directory", dir)
	}

	var (
		mu      sync.Mutex
		entries []hostEntry
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || p == dir {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if !paths.ValidName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}

		e := hostEntry{rel: filepath.ToSlash(rel), isDir: d.IsDir()}
		if !e.isDir {
			e.data = readText(p)
		}

		mu.Lock()
		entries = append(entries, e)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	// parents before children, siblings by name
	sort.Slice(entries, func(i, j int) bool {
		di, dj := strings.Count(entries[i].rel, "/"), strings.Count(entries[j].rel, "/")
		if di != dj {
			return di < dj
		}
		return entries[i].rel < entries[j].rel
	})

	nodes := skeleton(now)
	stamp := now.UnixMilli()
	ids := map[string]string{"": paths.UserID}

	for _, e := range entries {
		parentRel := ""
		if i := strings.LastIndex(e.rel, "/"); i >= 0 {
			parentRel = e.rel[:i]
		}
		parentID, ok := ids[parentRel]
		if !ok {
			continue
		}

		n := types.Node{
			ID:        id.NewNodeID().String(),
			Name:      filepath.Base(e.rel),
			Type:      types.NodeFolder,
			ParentID:  &parentID,
			CreatedAt: stamp,
		}
		if e.isDir {
			ids[e.rel] = n.ID
		} else {
			content := string(e.data)
			n.Type = types.NodeFile
			n.Content = &content
		}
		nodes = append(nodes, n)
	}

	return nodes, nil
}

// skeleton returns root, home and the user folder.
func skeleton(now time.Time) []types.Node {
	stamp := now.UnixMilli()
	root, home := paths.RootID, paths.HomeID
	return []types.Node{
		{ID: paths.RootID, Name: "root", Type: types.NodeFolder, CreatedAt: stamp},
		{ID: paths.HomeID, Name: "home", Type: types.NodeFolder, ParentID: &root, CreatedAt: stamp},
		{ID: paths.UserID, Name: paths.UserName, Type: types.NodeFolder, ParentID: &home, CreatedAt: stamp},
	}
}

// readText returns the file's bytes when it is small text, nil otherwise.
func readText(p string) []byte {
	info, err := os.Stat(p)
	if err != nil || info.Size() > MaxImportedFileSize {
		return nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil
	}
	if !IsText(mimetype.Detect(data)) {
		return nil
	}
	return data
}

// IsText reports whether a detected type is textual.
func IsText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
