package wavegen

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/spawnpattern/internal/botdata"
	"github.com/udisondev/spawnpattern/internal/config"
	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/pattern"
)

// scriptedSource returns queued values for real ranges and min otherwise.
// Shuffle keeps the order.
type scriptedSource struct {
	ints []int
}

func (s *scriptedSource) Int(min, max int) int {
	if max <= min || len(s.ints) == 0 {
		return min
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedSource) Shuffle(int, func(i, j int)) {}

type countingObserver struct {
	emitted map[string]int
	cutoffs map[string]int
	defects map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		emitted: make(map[string]int),
		cutoffs: make(map[string]int),
		defects: make(map[string]int),
	}
}

func (o *countingObserver) EventEmitted(_, category string) { o.emitted[category]++ }
func (o *countingObserver) BudgetCutoff(_, category string) { o.cutoffs[category]++ }
func (o *countingObserver) Defect(_, category string)       { o.defects[category]++ }

func testCatalog() *botdata.Catalog {
	return botdata.New(map[string][]string{
		"assault":         {"easy", "normal", "hard"},
		"marksman":        {"normal", "hard"},
		"assaultGroup":    {"normal", "hard"},
		"pmcBot":          {"normal"},
		"exUsec":          {"normal"},
		"bossKilla":       {"normal", "hard"},
		"bossTagilla":     {"normal"},
		"bossKojaniy":     {"normal"},
		"followerKojaniy": {"normal"},
		"followerBully":   {"normal"},
		"sectantPriest":   {"normal"},
		"sectantWarrior":  {"normal"},
	})
}

func allToggles() config.Toggles {
	return config.Toggles{
		UsePatternSpawns: config.PatternSpawns{Bosses: true, Waves: true, TriggeredWaves: true},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(src *scriptedSource, obs Observer) *Engine {
	return New(testCatalog(), src, WithLogger(quietLogger()), WithObserver(obs))
}

func newTestRecord(escapeMinutes int) *mapstate.Record {
	return mapstate.NewRecord(mapstate.Base{Id: "bigmap", EscapeTimeLimit: escapeMinutes})
}

// parseMap decodes a single map entry named bigmap from YAML.
func parseMap(t *testing.T, body string) pattern.MapPattern {
	t.Helper()
	doc, err := pattern.Parse("test", []byte("spawns:\n  bigmap:\n"+body))
	require.NoError(t, err)
	p, ok := doc.Map("bigmap")
	require.True(t, ok)
	return p
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

type waveView struct {
	Number int
	Time   int
	Zone   string
}

func waveViews(rec *mapstate.Record) []waveView {
	out := make([]waveView, 0, len(rec.Waves))
	for _, w := range rec.Waves {
		out = append(out, waveView{Number: w.Number, Time: w.TimeMin, Zone: w.SpawnPoints})
	}
	return out
}
