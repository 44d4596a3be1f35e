package wavegen

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/spawnpattern/internal/pattern"
)

// reporter writes the per-map diagnostics at the visibility level of the
// pattern. Defects and budget overruns are logged at every level.
type reporter struct {
	log *slog.Logger
	vis pattern.Visibility
}

func (r reporter) header(category string) {
	if r.vis == pattern.VisibilityDisable {
		return
	}
	r.log.Info("generating spawns", "category", category)
	if category == CategoryBoss && r.vis == pattern.VisibilitySecret {
		r.log.Info("boss spawns are secret")
	}
}

// waveLine reports one emitted wave. Secret visibility hides the rolled
// size, time and zone and shows the configured slot range instead.
func (r reporter) waveLine(category string, n int, ev waveReport) {
	switch r.vis {
	case pattern.VisibilityAll:
		r.log.Info("wave generated",
			"category", category,
			"n", n,
			"slots", ev.slots,
			"bot", ev.label,
			"time", formatSpawnTime(ev.time),
			"zone", ev.zone,
		)
	case pattern.VisibilitySecret:
		r.log.Info("wave generated",
			"category", category,
			"n", n,
			"slots", slotRange(ev.slotMin, ev.slotMax),
			"bot", ev.label,
		)
	}
}

type waveReport struct {
	label            string
	slots            int
	slotMin, slotMax int
	time             int
	zone             string
}

// bossLine reports one emitted boss sub-wave. mark is the boss counter, ">"
// for follow-up sub-waves or "*" for bosses outside the cap.
func (r reporter) bossLine(mark, name string, random bool, spawnTime, escorts int, zone string) {
	if r.vis != pattern.VisibilityAll {
		return
	}
	if random {
		name = "(random) " + name
	}
	r.log.Info("boss generated",
		"n", mark,
		"boss", name,
		"time", formatSpawnTime(spawnTime),
		"escorts", escorts,
		"zone", zone,
	)
}

func (r reporter) noBosses() {
	if r.vis == pattern.VisibilityAll {
		r.log.Info("no bosses generated")
	}
}

func (r reporter) triggeredLine(n int, botType string, size, spawnTime int, randomTime bool, zone, trigger string) {
	if r.vis != pattern.VisibilityAll {
		return
	}
	r.log.Info("triggered wave generated",
		"n", n,
		"bot", botType,
		"size", size,
		"time", formatSpawnTime(spawnTime),
		"random_time", randomTime,
		"zone", zone,
		"trigger", trigger,
	)
}

// keepsDefault notes native content that survives next to generated spawns.
func (r reporter) keepsDefault(category string) {
	r.log.Info("default spawns kept", "category", category)
}

func (r reporter) cutoff(category string, detail bool, limitName string, limit, spawnTime, wave, waves int, extra ...any) {
	r.log.Warn("spawn time beyond limit, skipping rest of generation",
		"category", category,
		"limit", limitName,
		"limit_seconds", limit,
	)
	if !detail {
		return
	}
	args := []any{
		"category", category,
		"spawn_time", spawnTime,
		"wave", wave,
		"waves", waves,
	}
	r.log.Warn("spawn time limit details", append(args, extra...)...)
}

func (r reporter) errorf(category, msg string, args ...any) {
	r.log.Error(msg, append([]any{"category", category}, args...)...)
}

func (r reporter) summary(s Stats, withDefaultWaves bool) {
	r.log.Info("bots generated",
		"waves", s.Waves,
		"bosses", s.Bosses,
		"triggered", s.Triggered,
		"default_waves", withDefaultWaves,
	)
}

func formatSpawnTime(t int) string {
	if t < 1 {
		return "instant"
	}
	return fmt.Sprintf("%ds", t)
}

func slotRange(lo, hi int) string {
	if lo == hi {
		return fmt.Sprint(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// pmcFaction labels PMC groups by the USEC chance.
func pmcFaction(usecChance int) string {
	switch {
	case usecChance < 1:
		return "BEAR"
	case usecChance > 99:
		return "USEC"
	default:
		return fmt.Sprintf("USEC %d%%", usecChance)
	}
}
