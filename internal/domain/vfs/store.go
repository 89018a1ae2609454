package vfs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
)

// Store persists the whole node set as one blob.
type Store interface {
	// Load returns the saved nodes, or ErrNoSnapshot when nothing was saved.
	Load() ([]types.Node, error)
	// Save replaces the saved nodes.
	Save(nodes []types.Node) error
}

// Encode serializes nodes as an ordered JSON array.
func Encode(nodes []types.Node) ([]byte, error) {
	if nodes == nil {
		nodes = []types.Node{}
	}
	data, err := sonic.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("encode nodes: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of nodes.
func Decode(data []byte) ([]types.Node, error) {
	var nodes []types.Node
	if err := sonic.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}
	return nodes, nil
}

// FileStore keeps the blob in a single file. Paths ending in ".zst" are
// zstd-compressed. Writes go to a temp file that is renamed into place.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at path. The directory is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the blob location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) compressed() bool {
	return strings.HasSuffix(s.path, ".zst")
}

// Load reads the blob.
func (s *FileStore) Load() ([]types.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if s.compressed() {
		dec, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("open zstd: %w", err)
		}
		defer dec.Close()
		if raw, err = io.ReadAll(dec); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", s.path, err)
		}
	}

	return Decode(raw)
}

// Save writes the blob atomically.
func (s *FileStore) Save(nodes []types.Node) error {
	data, err := Encode(nodes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.compressed() {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("open zstd: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		_ = enc.Close()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// MemoryStore keeps the encoded blob in memory. It is useful in tests and
// when no path is configured.
type MemoryStore struct {
	mu    sync.Mutex
	blob  []byte
	saves int
	fail  error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the last saved blob.
func (s *MemoryStore) Load() ([]types.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return nil, ErrNoSnapshot
	}
	return Decode(s.blob)
}

// Save encodes nodes, or returns the injected failure.
func (s *MemoryStore) Save(nodes []types.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	data, err := Encode(nodes)
	if err != nil {
		return err
	}
	s.blob = data
	s.saves++
	return nil
}

// FailWith makes every later Save return err. Nil clears the failure.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Saves returns the number of successful saves.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Blob returns a copy of the saved bytes.
func (s *MemoryStore) Blob() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.blob)
}
