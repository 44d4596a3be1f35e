package wavegen

import (
	"slices"

	"github.com/udisondev/spawnpattern/internal/pattern"
	"github.com/udisondev/spawnpattern/internal/rng"
)

// placer picks spawn zones for a sequence of events under one placement
// mode. Picks become binding only through commit, so a pick whose event is
// skipped leaves no trace.
type placer struct {
	mode pattern.Placement
	held string
	hold bool
	used []string
}

func newPlacer(mode pattern.Placement) *placer {
	return &placer{mode: mode}
}

// next picks a zone from a non-empty pool.
func (p *placer) next(pool []string, src rng.Source) string {
	switch p.mode {
	case pattern.PlacementTogether:
		if p.hold {
			return p.held
		}
	case pattern.PlacementEvenly:
		free := make([]string, 0, len(pool))
		for _, z := range pool {
			if !slices.Contains(p.used, z) {
				free = append(free, z)
			}
		}
		if len(free) == 0 {
			p.used = p.used[:0]
			free = pool
		}
		return free[src.Int(0, len(free)-1)]
	}
	return pool[src.Int(0, len(pool)-1)]
}

// commit records that an event spawned at zone.
func (p *placer) commit(zone string) {
	switch p.mode {
	case pattern.PlacementTogether:
		if !p.hold {
			p.held, p.hold = zone, true
		}
	case pattern.PlacementEvenly:
		if !slices.Contains(p.used, zone) {
			p.used = append(p.used, zone)
		}
	}
}
