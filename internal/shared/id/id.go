// Package id provides centralized ID generation for the backend.
//
// All identifiers are prefixed ULIDs:
//   - Lexicographic sortability: creation order is recoverable from the id
//   - Prefixed types: win_*, node_*, req_*, conn_* make logs readable
//   - Type safety: separate string types prevent mixing window and node ids
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Type-Safe ID Wrappers
// ============================================================================

// WindowID identifies a window instance
type WindowID string

// NodeID identifies a virtual file system node
type NodeID string

// RequestID identifies an API request
type RequestID string

// ConnID identifies a WebSocket connection
type ConnID string

// ============================================================================
// ID Prefixes
// ============================================================================

const (
	WindowPrefix  = "win"
	NodePrefix    = "node"
	RequestPrefix = "req"
	ConnPrefix    = "conn"
)

// ============================================================================
// ULID Generator
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewWindowID generates a new window instance ID
func (g *Generator) NewWindowID() WindowID {
	return WindowID(g.GenerateWithPrefix(WindowPrefix))
}

// NewNodeID generates a new VFS node ID
func (g *Generator) NewNodeID() NodeID {
	return NodeID(g.GenerateWithPrefix(NodePrefix))
}

// ============================================================================
// Typed ID Generators (default generator)
// ============================================================================

// NewWindowID generates a new window instance ID
func NewWindowID() WindowID {
	return Default().NewWindowID()
}

// NewNodeID generates a new VFS node ID
func NewNodeID() NodeID {
	return Default().NewNodeID()
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewConnID generates a new WebSocket connection ID
func NewConnID() ConnID {
	return ConnID(Default().GenerateWithPrefix(ConnPrefix))
}

func (id WindowID) String() string  { return string(id) }
func (id NodeID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }
func (id ConnID) String() string    { return string(id) }

// ============================================================================
// Validation
// ============================================================================

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// HasPrefix checks that id is "<prefix>_<ulid>"
func HasPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	return ok && IsValid(rest)
}

// Timestamp extracts the timestamp from a (possibly prefixed) ULID
func Timestamp(id string) (time.Time, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
