package pattern

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Weight is one key of a weighted pool.
type Weight struct {
	Key   string
	Value int
}

// Weights is a weighted pool (zone or difficulty → weight).
// Order is the declaration order in the pattern document, so sampling
// from an expanded pool is reproducible for a given RNG stream.
type Weights []Weight

// UnmarshalYAML walks the mapping node directly; decoding into a Go map
// would lose the declaration order.
func (w *Weights) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: weights must be a mapping, got %s", node.Line, node.ShortTag())
	}

	out := make(Weights, 0, len(node.Content)/2)
	index := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value

		var value int
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: weight of %q: %w", node.Content[i+1].Line, key, err)
		}

		// later duplicates override the value but keep the first position
		if at, ok := index[key]; ok {
			out[at].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, Weight{Key: key, Value: value})
	}

	*w = out
	return nil
}

// MarshalYAML keeps the declaration order on the way out.
func (w Weights) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range w {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(e.Value)},
		)
	}
	return node, nil
}

// Has reports whether key is declared with a positive weight.
func (w Weights) Has(key string) bool {
	for _, e := range w {
		if e.Key == key {
			return e.Value > 0
		}
	}
	return false
}

// Keys returns the declared keys in order, including non-positive ones.
func (w Weights) Keys() []string {
	keys := make([]string, len(w))
	for i, e := range w {
		keys[i] = e.Key
	}
	return keys
}

// FromMap builds Weights from a plain map in the given key order.
// Keys missing from m are skipped.
func FromMap(m map[string]int, order []string) Weights {
	out := make(Weights, 0, len(order))
	for _, k := range order {
		if v, ok := m[k]; ok {
			out = append(out, Weight{Key: k, Value: v})
		}
	}
	return out
}
