package pattern

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/spawnpattern/internal/rng"
)

// ErrPatternNotFound is returned when no file exists for a pattern name.
var ErrPatternNotFound = errors.New("spawn pattern not found")

// patternExts are tried in order; JSON documents are valid YAML.
var patternExts = []string{".yaml", ".yml", ".json"}

// MapEntry is one configured map, in document order.
type MapEntry struct {
	Name    string
	Pattern MapPattern
}

// Document is a parsed spawn pattern.
type Document struct {
	Name       string
	Population Population
	Maps       []MapEntry
}

// MapNames returns the configured map ids in document order.
func (d *Document) MapNames() []string {
	names := make([]string, len(d.Maps))
	for i, m := range d.Maps {
		names[i] = m.Name
	}
	return names
}

// Map returns the pattern of one map.
func (d *Document) Map(name string) (MapPattern, bool) {
	for _, m := range d.Maps {
		if m.Name == name {
			return m.Pattern, true
		}
	}
	return MapPattern{}, false
}

// Parse decodes a spawns document. Reserved keys become population settings,
// non-mapping values are ignored, every other key is a map entry.
func Parse(name string, data []byte) (*Document, error) {
	var root struct {
		Spawns yaml.Node `yaml:"spawns"`
	}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing pattern %s: %w", name, err)
	}
	if root.Spawns.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("pattern %s: missing \"spawns\" mapping", name)
	}

	doc := &Document{Name: name}
	reserved := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	content := root.Spawns.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, value := content[i].Value, content[i+1]

		if IsReservedKey(key) {
			reserved.Content = append(reserved.Content, content[i], value)
			continue
		}
		if value.Kind != yaml.MappingNode {
			slog.Debug("pattern key is not a map entry, skipping", "pattern", name, "key", key)
			continue
		}

		cfg := DefaultMapPattern()
		if err := value.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("pattern %s: map %s: %w", name, key, err)
		}
		doc.Maps = append(doc.Maps, MapEntry{Name: key, Pattern: cfg})
	}

	if err := reserved.Decode(&doc.Population); err != nil {
		return nil, fmt.Errorf("pattern %s: population settings: %w", name, err)
	}

	return doc, nil
}

// Load reads and parses the pattern called name from dir.
func Load(dir, name string) (*Document, error) {
	for _, ext := range patternExts {
		path := filepath.Join(dir, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading pattern %s: %w", path, err)
		}
		return Parse(name, data)
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrPatternNotFound, name, dir)
}

// Select picks the pattern name for a pass: a weighted draw from random
// when useRandom is set and the table has positive weight, else fallback.
// Table keys are sorted so a seeded source always draws the same pattern.
func Select(fallback string, useRandom bool, random map[string]int, src rng.Source) string {
	if !useRandom || len(random) == 0 {
		return fallback
	}

	keys := make([]string, 0, len(random))
	for k := range random {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pool := FromMap(random, keys).Expand(WithChance)
	if len(pool) == 0 {
		return fallback
	}
	return pool[src.Int(0, len(pool)-1)]
}
