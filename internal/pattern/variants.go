package pattern

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placement is the zone selection strategy of a category or of the boss pass.
type Placement uint8

const (
	// PlacementRandom samples from the full pool on every wave.
	PlacementRandom Placement = iota
	// PlacementTogether samples once and holds the zone for the whole category.
	PlacementTogether
	// PlacementEvenly cycles through every zone before repeating any.
	PlacementEvenly
)

// ParsePlacement parses a placement name. Empty means random.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return PlacementRandom, nil
	case "together":
		return PlacementTogether, nil
	case "evenly":
		return PlacementEvenly, nil
	default:
		return PlacementRandom, fmt.Errorf("unknown spawn location type %q (want random, together or evenly)", s)
	}
}

func (p Placement) String() string {
	switch p {
	case PlacementTogether:
		return "together"
	case PlacementEvenly:
		return "evenly"
	default:
		return "random"
	}
}

func (p *Placement) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	v, err := ParsePlacement(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*p = v
	return nil
}

func (p Placement) MarshalYAML() (any, error) {
	return p.String(), nil
}

// Visibility controls how much of the generated schedule is reported.
type Visibility uint8

const (
	// VisibilityDisable reports nothing but defects and overruns.
	VisibilityDisable Visibility = iota
	// VisibilitySecret reports category headers and slot ranges only.
	VisibilitySecret
	// VisibilityAll reports every event with its time and zone.
	VisibilityAll
)

// ParseVisibility parses a visibility level. Empty means secret.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disable":
		return VisibilityDisable, nil
	case "", "secret":
		return VisibilitySecret, nil
	case "all":
		return VisibilityAll, nil
	default:
		return VisibilitySecret, fmt.Errorf("unknown show_generated_bots %q (want disable, secret or all)", s)
	}
}

func (v Visibility) String() string {
	switch v {
	case VisibilityDisable:
		return "disable"
	case VisibilityAll:
		return "all"
	default:
		return "secret"
	}
}

func (v *Visibility) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	parsed, err := ParseVisibility(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}

func (v Visibility) MarshalYAML() (any, error) {
	return v.String(), nil
}
