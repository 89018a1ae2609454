package vfs

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/pelletier/go-toml/v2"
)

//go:embed seed.toml
var defaultSeed []byte

type seedDocument struct {
	Nodes []seedNode `toml:"nodes"`
}

type seedNode struct {
	ID      string  `toml:"id"`
	Name    string  `toml:"name"`
	Type    string  `toml:"type"`
	Parent  string  `toml:"parent"`
	Content *string `toml:"content"`
}

// DefaultSeed returns the built-in starting tree stamped with now.
func DefaultSeed(now time.Time) []types.Node {
	nodes, err := ParseSeed(defaultSeed, now)
	if err != nil {
		panic(fmt.Sprintf("builtin seed: %v", err))
	}
	return nodes
}

// LoadSeed reads a TOML seed document from path.
func LoadSeed(path string, now time.Time) ([]types.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data, now)
}

// ParseSeed decodes a TOML seed document. Every node gets createdAt = now and
// files without content get an empty one. The result is validated as a tree.
func ParseSeed(data []byte, now time.Time) ([]types.Node, error) {
	var doc seedDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	stamp := now.UnixMilli()
	nodes := make([]types.Node, 0, len(doc.Nodes))
	for _, sn := range doc.Nodes {
		n := types.Node{
			ID:        sn.ID,
			Name:      sn.Name,
			Type:      types.NodeType(sn.Type),
			CreatedAt: stamp,
		}
		if sn.Parent != "" {
			parent := sn.Parent
			n.ParentID = &parent
		}
		if n.Type == types.NodeFile {
			content := ""
			if sn.Content != nil {
				content = *sn.Content
			}
			n.Content = &content
		}
		nodes = append(nodes, n)
	}

	if _, err := NewTree(nodes); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return nodes, nil
}
