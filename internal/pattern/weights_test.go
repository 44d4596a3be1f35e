package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWeights_Expand(t *testing.T) {
	tests := []struct {
		name string
		w    Weights
		mode ExpandMode
		want []string
	}{
		{
			name: "with chance repeats by weight",
			w:    Weights{{"A", 2}, {"B", 1}},
			mode: WithChance,
			want: []string{"A", "A", "B"},
		},
		{
			name: "without chance lists positive keys once",
			w:    Weights{{"A", 2}, {"B", 0}, {"C", 3}},
			mode: WithoutChance,
			want: []string{"A", "C"},
		},
		{
			name: "negative weights are ignored",
			w:    Weights{{"A", -1}, {"B", 1}},
			mode: WithChance,
			want: []string{"B"},
		},
		{
			name: "empty",
			w:    nil,
			mode: WithChance,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.w.Expand(tt.mode))
		})
	}
}

func TestWeights_YAMLOrder(t *testing.T) {
	var w Weights
	require.NoError(t, yaml.Unmarshal([]byte("{zeta: 1, alpha: 2, mid: 3, alpha: 5}"), &w))

	assert.Equal(t, Weights{{"zeta", 1}, {"alpha", 5}, {"mid", 3}}, w)

	out, err := yaml.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, "zeta: 1\nalpha: 5\nmid: 3\n", string(out))
}

func TestWeights_Has(t *testing.T) {
	w := Weights{{"A", 1}, {"B", 0}}

	assert.True(t, w.Has("A"))
	assert.False(t, w.Has("B"))
	assert.False(t, w.Has("C"))
}

func TestFromMap(t *testing.T) {
	w := FromMap(map[string]int{"x": 1, "y": 2}, []string{"y", "missing", "x"})
	assert.Equal(t, Weights{{"y", 2}, {"x", 1}}, w)
}

func TestParsePlacement(t *testing.T) {
	for in, want := range map[string]Placement{"": PlacementRandom, "Random": PlacementRandom, "together": PlacementTogether, " evenly ": PlacementEvenly} {
		got, err := ParsePlacement(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePlacement("nearby")
	assert.Error(t, err)
}

func TestParseVisibility(t *testing.T) {
	for in, want := range map[string]Visibility{"": VisibilitySecret, "disable": VisibilityDisable, "ALL": VisibilityAll} {
		got, err := ParseVisibility(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseVisibility("verbose")
	assert.Error(t, err)
}
