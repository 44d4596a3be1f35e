package pattern

// ExpandMode selects how Expand turns weights into a sampling pool.
type ExpandMode uint8

const (
	// WithChance repeats each key weight times, so uniform index sampling
	// is proportional to weight.
	WithChance ExpandMode = iota
	// WithoutChance includes each positive-weight key exactly once.
	WithoutChance
)

// Expand flattens the weights into a sampling pool in declaration order.
// Non-positive weights contribute nothing in either mode.
func (w Weights) Expand(mode ExpandMode) []string {
	var out []string
	for _, e := range w {
		if e.Value <= 0 {
			continue
		}
		if mode == WithoutChance {
			out = append(out, e.Key)
			continue
		}
		for range e.Value {
			out = append(out, e.Key)
		}
	}
	return out
}
