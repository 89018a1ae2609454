package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/goccy/go-yaml"
)

//go:embed catalog.yaml
var builtin []byte

var (
	ErrEmpty       = errors.New("catalog has no apps")
	ErrDuplicateID = errors.New("duplicate app id")
	ErrInvalidApp  = errors.New("invalid app entry")
)

// document is the on-disk layout.
type document struct {
	Apps []types.AppConfig `yaml:"apps"`
}

// Catalog is the read-only application config table.
type Catalog struct {
	order []types.AppKind
	byID  map[types.AppKind]types.AppConfig
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("builtin catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Apps) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalog{
		order: make([]types.AppKind, 0, len(doc.Apps)),
		byID:  make(map[types.AppKind]types.AppConfig, len(doc.Apps)),
	}
	for i, app := range doc.Apps {
		if err := validate(app); err != nil {
			return nil, fmt.Errorf("app %d: %w", i, err)
		}
		if _, dup := c.byID[app.Kind]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, app.Kind)
		}
		c.order = append(c.order, app.Kind)
		c.byID[app.Kind] = app
	}
	return c, nil
}

func validate(app types.AppConfig) error {
	switch {
	case app.Kind == "":
		return fmt.Errorf("%w: missing id", ErrInvalidApp)
	case app.Title == "":
		return fmt.Errorf("%w: %s has no title", ErrInvalidApp, app.Kind)
	case app.DefaultSize.Width <= 0 || app.DefaultSize.Height <= 0:
		return fmt.Errorf("%w: %s has no default size", ErrInvalidApp, app.Kind)
	}
	return nil
}

// Lookup returns the config for kind.
func (c *Catalog) Lookup(kind types.AppKind) (types.AppConfig, bool) {
	app, ok := c.byID[kind]
	return app, ok
}

// All returns every app in document order.
func (c *Catalog) All() []types.AppConfig {
	out := make([]types.AppConfig, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byID[k])
	}
	return out
}

// Docked returns the apps shown in the dock, in document order.
func (c *Catalog) Docked() []types.AppConfig {
	out := make([]types.AppConfig, 0, len(c.order))
	for _, k := range c.order {
		if app := c.byID[k]; app.Dock {
			out = append(out, app)
		}
	}
	return out
}
