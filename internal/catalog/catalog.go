// Package catalog holds the wheel definitions rollocd serves.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/rolloc"
)

//go:embed wheels.yaml
var defaultWheels []byte

// ErrNotFound is returned for an unknown wheel id.
var ErrNotFound = errors.New("wheel not found")

// Definition is one named wheel.
type Definition struct {
	ID      string         `yaml:"id"`
	Title   string         `yaml:"title,omitempty"`
	Options rolloc.Options `yaml:"wheel"`
}

type file struct {
	Wheels []Definition `yaml:"wheels"`
}

// Catalog is an ordered, read-only set of definitions.
type Catalog struct {
	defs []Definition
	byID map[string]int
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultWheels))
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog. Unknown keys, duplicate or empty ids and wheels
// that do not resolve to a valid configuration are errors.
func Parse(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, rolloc.ErrConfiguration) {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return nil, fmt.Errorf("decode catalog: %w: %v", rolloc.ErrConfiguration, err)
	}
	if len(f.Wheels) == 0 {
		return nil, fmt.Errorf("%w: catalog has no wheels", rolloc.ErrConfiguration)
	}

	c := &Catalog{byID: make(map[string]int, len(f.Wheels))}
	for i, d := range f.Wheels {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: wheels[%d]: missing id", rolloc.ErrConfiguration, i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate wheel id %q", rolloc.ErrConfiguration, d.ID)
		}
		if _, err := d.Options.Resolve(); err != nil {
			return nil, fmt.Errorf("wheel %q: %w", d.ID, err)
		}
		c.byID[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// IDs returns the wheel ids in file order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.defs))
	for i, d := range c.defs {
		ids[i] = d.ID
	}
	return ids
}

// Definitions returns all definitions in file order.
func (c *Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Get returns the definition with the given id.
func (c *Catalog) Get(id string) (Definition, error) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.defs[i], nil
}
