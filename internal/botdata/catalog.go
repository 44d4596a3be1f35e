// Package botdata answers which bot types and difficulty presets the host
// can spawn.
package botdata

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed bots.yaml
var defaultCatalog []byte

// Catalog is a case-insensitive bot type → difficulty lookup.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	types map[string]map[string]struct{}
}

type catalogFile struct {
	Types map[string][]string `yaml:"types"`
}

// Default returns the bundled catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("bundled bot catalog: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path returns the bundled catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bot catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("bot catalog %s: %w", path, err)
	}

	slog.Info("bot catalog loaded", "path", path, "types", c.Len())
	return c, nil
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing bot catalog: %w", err)
	}
	if len(f.Types) == 0 {
		return nil, fmt.Errorf("bot catalog has no types")
	}
	return New(f.Types), nil
}

// New builds a catalog from type → difficulties.
func New(types map[string][]string) *Catalog {
	c := &Catalog{types: make(map[string]map[string]struct{}, len(types))}
	for name, diffs := range types {
		set := make(map[string]struct{}, len(diffs))
		for _, d := range diffs {
			set[strings.ToLower(d)] = struct{}{}
		}
		c.types[strings.ToLower(name)] = set
	}
	return c
}

// Exists reports whether the host knows botType.
func (c *Catalog) Exists(botType string) bool {
	_, ok := c.types[strings.ToLower(botType)]
	return ok
}

// HasDifficulty reports whether botType ships the difficulty preset.
func (c *Catalog) HasDifficulty(botType, difficulty string) bool {
	diffs, ok := c.types[strings.ToLower(botType)]
	if !ok {
		return false
	}
	_, ok = diffs[strings.ToLower(difficulty)]
	return ok
}

// Len returns the number of known types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Types returns the known types, lower-cased and sorted.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.types))
	for name := range c.types {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
