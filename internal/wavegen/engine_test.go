package wavegen

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spawnpattern/internal/config"
	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/pattern"
)

func scavOnly(cat pattern.WaveCategory) pattern.MapPattern {
	p := pattern.DefaultMapPattern()
	p.WaveSettings.Scav = &cat
	return p
}

func TestGenerate_ScavScenario(t *testing.T) {
	p := scavOnly(pattern.WaveCategory{
		WaveTotal:                3,
		SlotMin:                  1,
		SlotMax:                  1,
		SpawnLocations:           pattern.Weights{{Key: "ZoneA", Value: 1}},
		Difficulty:               pattern.Weights{{Key: "normal", Value: 1}},
		InstaSpawnWaves:          1,
		SpawnTimeDelayForEachMin: 30,
		SpawnTimeDelayForEachMax: 30,
	})

	rec := newTestRecord(40)
	newTestEngine(&scriptedSource{}, nopObserver{}).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	assert.Equal(t, []waveView{
		{Number: 0, Time: -1, Zone: "ZoneA"},
		{Number: 1, Time: 30, Zone: "ZoneA"},
		{Number: 2, Time: 60, Zone: "ZoneA"},
	}, waveViews(rec))

	for _, w := range rec.Waves {
		assert.Equal(t, w.TimeMin, w.TimeMax)
		assert.Equal(t, 1, w.SlotsMin)
		assert.Equal(t, "assault", w.WildSpawnType)
		assert.Equal(t, "normal", w.BotPreset)
		assert.Equal(t, "Savage", w.BotSide)
	}
}

func TestGenerate_TimeBudget(t *testing.T) {
	cat := pattern.WaveCategory{
		WaveTotal:                20,
		SlotMin:                  1,
		SlotMax:                  1,
		SpawnLocations:           pattern.Weights{{Key: "ZoneA", Value: 1}},
		Difficulty:               pattern.Weights{{Key: "normal", Value: 1}},
		InstaSpawnWaves:          1,
		SpawnTimeDelayForEachMin: 100,
		SpawnTimeDelayForEachMax: 100,
	}

	tests := []struct {
		name          string
		escapeMinutes int
		maxSpawnTime  *int
		wantTimes     []int
	}{
		{"escape limit", 10, nil, []int{-1, 100, 200, 300, 400, 500}},
		{"max spawn time", 40, intPtr(250), []int{-1, 100, 200}},
		{"tighter of both", 5, intPtr(1000), []int{-1, 100, 200}},
		{"zero max spawn time keeps instant waves only", 40, intPtr(0), []int{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scavOnly(cat)
			p.MaxSpawnTime = tt.maxSpawnTime
			p.MaxSpawnTimeLimitWarning = true
			obs := newCountingObserver()

			rec := newTestRecord(tt.escapeMinutes)
			newTestEngine(&scriptedSource{}, obs).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

			var times []int
			for _, w := range rec.Waves {
				times = append(times, w.TimeMin)
			}
			assert.Equal(t, tt.wantTimes, times)
			assert.Equal(t, 1, obs.cutoffs[CategoryScav])
		})
	}
}

func TestGenerate_PerZoneRetry(t *testing.T) {
	p := scavOnly(pattern.WaveCategory{
		WaveTotal:                           6,
		SlotMin:                             1,
		SlotMax:                             1,
		SpawnLocations:                      pattern.Weights{{Key: "A", Value: 1}, {Key: "B", Value: 1}},
		Difficulty:                          pattern.Weights{{Key: "normal", Value: 1}},
		SpawnTimeDelayForEachMin:            100,
		SpawnTimeDelayForEachMax:            300,
		SpawnTimeDelayAccumulateForEachZone: true,
	})
	p.MaxSpawnTime = intPtr(500)

	// zone index, delay per wave
	src := &scriptedSource{ints: []int{0, 300, 1, 100, 0, 300, 1, 300, 0, 100, 1, 100}}
	obs := newCountingObserver()
	rec := mapstate.NewRecord(mapstate.Base{})
	newTestEngine(src, obs).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	assert.Equal(t, []waveView{
		{Number: 1, Time: 300, Zone: "A"},
		{Number: 2, Time: 100, Zone: "B"},
		{Number: 3, Time: 400, Zone: "B"},
	}, waveViews(rec))
	assert.Equal(t, 1, obs.cutoffs[CategoryScav])
	assert.Empty(t, src.ints)
}

func TestGenerate_PerZoneRetryUntilEveryZoneStarted(t *testing.T) {
	p := scavOnly(pattern.WaveCategory{
		WaveTotal:                           4,
		SlotMin:                             1,
		SlotMax:                             1,
		SpawnLocations:                      pattern.Weights{{Key: "A", Value: 1}, {Key: "B", Value: 1}},
		Difficulty:                          pattern.Weights{{Key: "normal", Value: 1}},
		SpawnTimeDelayForEachMin:            300,
		SpawnTimeDelayForEachMax:            300,
		SpawnTimeDelayAccumulateForEachZone: true,
	})
	p.MaxSpawnTime = intPtr(500)

	src := &scriptedSource{ints: []int{0, 0, 0, 1}}
	obs := newCountingObserver()
	rec := mapstate.NewRecord(mapstate.Base{})
	newTestEngine(src, obs).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	assert.Equal(t, []waveView{
		{Number: 1, Time: 300, Zone: "A"},
		{Number: 2, Time: 300, Zone: "B"},
	}, waveViews(rec))
	assert.Zero(t, obs.cutoffs[CategoryScav])
}

func TestGenerate_TogetherPerZoneLogsRetries(t *testing.T) {
	p := scavOnly(pattern.WaveCategory{
		WaveTotal:                           3,
		SlotMin:                             1,
		SlotMax:                             1,
		SpawnLocations:                      pattern.Weights{{Key: "A", Value: 1}, {Key: "B", Value: 1}},
		Difficulty:                          pattern.Weights{{Key: "normal", Value: 1}},
		SpawnLocationType:                   pattern.PlacementTogether,
		SpawnTimeDelayForEachMin:            100,
		SpawnTimeDelayForEachMax:            100,
		SpawnTimeDelayAccumulateForEachZone: true,
	})
	p.MaxSpawnTime = intPtr(150)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := newCountingObserver()
	rec := newTestRecord(40)

	// held zone A never frees a second clock
	New(testCatalog(), &scriptedSource{ints: []int{0}}, WithLogger(log), WithObserver(obs)).
		Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	require.Len(t, rec.Waves, 1)
	assert.Equal(t, "A", rec.Waves[0].SpawnPoints)
	assert.Equal(t, 100, rec.Waves[0].TimeMin)
	assert.Zero(t, obs.cutoffs[CategoryScav])
	assert.Equal(t, 2, strings.Count(buf.String(), "zone out of time, retrying wave at another zone"))
}

func TestGenerate_SkipsEmptySlotsAndBadDifficulty(t *testing.T) {
	p := scavOnly(pattern.WaveCategory{
		WaveTotal:      4,
		SlotMin:        0,
		SlotMax:        2,
		SpawnLocations: pattern.Weights{{Key: "A", Value: 1}},
		Difficulty:     pattern.Weights{{Key: "normal", Value: 1}, {Key: "legendary", Value: 1}},
	})

	// slots, difficulty index per wave
	src := &scriptedSource{ints: []int{0, 2, 1, 2, 0, 1, 0}}
	obs := newCountingObserver()
	rec := mapstate.NewRecord(mapstate.Base{})
	newTestEngine(src, obs).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	require.Len(t, rec.Waves, 2)
	assert.Equal(t, 1, obs.defects[CategoryScav])
	for _, w := range rec.Waves {
		assert.Equal(t, "normal", w.BotPreset)
	}
}

func TestGenerate_Placement(t *testing.T) {
	zones := pattern.Weights{{Key: "A", Value: 3}, {Key: "B", Value: 1}, {Key: "C", Value: 1}}

	tests := []struct {
		name  string
		mode  pattern.Placement
		draws []int
		want  []string
	}{
		{"together holds the first zone", pattern.PlacementTogether, []int{3}, []string{"B", "B", "B", "B"}},
		{"evenly visits every zone before repeating", pattern.PlacementEvenly, []int{0, 0, 2}, []string{"A", "B", "C", "C"}},
		{"random samples the weighted pool", pattern.PlacementRandom, []int{0, 1, 3, 4}, []string{"A", "A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scavOnly(pattern.WaveCategory{
				WaveTotal:         4,
				SlotMin:           1,
				SlotMax:           1,
				SpawnLocations:    zones,
				Difficulty:        pattern.Weights{{Key: "normal", Value: 1}},
				SpawnLocationType: tt.mode,
				InstaSpawnWaves:   4,
			})

			rec := mapstate.NewRecord(mapstate.Base{})
			newTestEngine(&scriptedSource{ints: tt.draws}, nopObserver{}).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

			var got []string
			for _, w := range rec.Waves {
				got = append(got, w.SpawnPoints)
			}
			// instant waves are prepended, so the list is in reverse emission order
			for i, j := 0, len(got)-1; i < j; i, j = i+1, j-1 {
				got[i], got[j] = got[j], got[i]
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_WaveNumberingIsMapWide(t *testing.T) {
	cat := pattern.WaveCategory{
		WaveTotal:                3,
		SlotMin:                  1,
		SlotMax:                  1,
		SpawnLocations:           pattern.Weights{{Key: "A", Value: 1}},
		Difficulty:               pattern.Weights{{Key: "normal", Value: 1}},
		InstaSpawnWaves:          1,
		SpawnTimeDelayForEachMin: 10,
		SpawnTimeDelayForEachMax: 10,
	}
	p := pattern.DefaultMapPattern()
	pmc, scav, sniper := cat, cat, cat
	p.WaveSettings.PMC = &pmc
	p.WaveSettings.Scav = &scav
	p.WaveSettings.Sniper = &sniper

	rec := newTestRecord(40)
	newTestEngine(&scriptedSource{}, nopObserver{}).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	var numbers []int
	instant := 0
	for _, w := range rec.Waves {
		if w.Number == 0 {
			instant++
			assert.Equal(t, -1, w.TimeMin)
			continue
		}
		numbers = append(numbers, w.Number)
	}
	assert.Equal(t, 3, instant)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, numbers)

	types := map[string]int{}
	for _, w := range rec.Waves {
		types[w.WildSpawnType]++
	}
	assert.Equal(t, map[string]int{"assaultGroup": 3, "assault": 3, "marksman": 3}, types)
}

func TestGenerate_PMCBorrowsScavZones(t *testing.T) {
	p := parseMap(t, `
    wave_settings:
      pmc_waves:
        wave_total: 2
        slot_min: 1
        slot_max: 1
        spawn_locations: {ZoneP: 1, ZoneShared: 1}
        difficulty: {normal: 1}
        insta_spawn_waves: 2
        spawn_scav_raider_location_chance: 50
      scav_waves:
        wave_total: 0
        spawn_locations: {ZoneShared: 2, ZoneS: 1}
`)

	// wave 1: borrow roll 10 -> anywhere pool [ZoneS]; wave 2: roll 90 -> own pool index 0
	src := &scriptedSource{ints: []int{10, 90, 0}}
	rec := mapstate.NewRecord(mapstate.Base{})
	newTestEngine(src, nopObserver{}).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	require.Len(t, rec.Waves, 2)
	assert.Equal(t, "ZoneP", rec.Waves[0].SpawnPoints)
	assert.Equal(t, "ZoneS", rec.Waves[1].SpawnPoints)
}

func TestGenerate_RaiderRoles(t *testing.T) {
	base := `
    wave_settings:
      raider_waves:
        wave_total: 1
        slot_min: 1
        slot_max: 1
        spawn_locations: {ZoneR: 1}
        difficulty: {normal: 1}
        insta_spawn_waves: 1
`
	tests := []struct {
		name  string
		extra string
		draws []int
		want  string
	}{
		{"default role", "", nil, "pmcBot"},
		{"configured default", "        raider_default_role: exUsec\n", nil, "exUsec"},
		{"high role roll fails", "        raider_high_role: true\n        raider_high_role_chance: 30\n        raider_high_role_list: exUsec\n", []int{30}, "pmcBot"},
		{"high role single", "        raider_high_role: true\n        raider_high_role_chance: 30\n        raider_high_role_list: exUsec\n", []int{29}, "exUsec"},
		{"high role list skips unknown", "        raider_high_role: true\n        raider_high_role_chance: 100\n        raider_high_role_list: \"nobody1, exUsec\"\n", []int{0}, "exUsec"},
		{"too short list falls back", "        raider_high_role: true\n        raider_high_role_chance: 100\n        raider_high_role_list: abc\n", []int{0}, "pmcBot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseMap(t, base+tt.extra)
			rec := mapstate.NewRecord(mapstate.Base{})
			newTestEngine(&scriptedSource{ints: tt.draws}, nopObserver{}).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

			require.Len(t, rec.Waves, 1)
			assert.Equal(t, tt.want, rec.Waves[0].WildSpawnType)
		})
	}
}

func TestGenerate_StaticFields(t *testing.T) {
	p := scavOnly(pattern.WaveCategory{WaveTotal: 1, SlotMin: 1, SlotMax: 1,
		SpawnLocations: pattern.Weights{{Key: "A", Value: 1}}, Difficulty: pattern.Weights{{Key: "normal", Value: 1}}})
	p.ScavMapOpenZones = " ZoneA , ZoneB,ZoneC "
	p.MapRules = "Rules"
	p.MaxBotPerZone = 5

	rec := mapstate.NewRecord(mapstate.Base{DisabledForScav: true, OpenZones: "native"})
	newTestEngine(&scriptedSource{}, nopObserver{}).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: allToggles()})

	assert.False(t, rec.DisabledForScav)
	assert.Equal(t, "ZoneA,ZoneB,ZoneC", rec.OpenZones)
	assert.Equal(t, "Rules", rec.Rules)
	assert.Equal(t, 5, rec.MaxBotPerZone)
}

func TestGenerate_SingleZoneMapForcesTogether(t *testing.T) {
	cat := pattern.WaveCategory{
		WaveTotal:                           3,
		SlotMin:                             1,
		SlotMax:                             1,
		SpawnLocations:                      pattern.Weights{{Key: "A", Value: 1}, {Key: "B", Value: 1}},
		Difficulty:                          pattern.Weights{{Key: "normal", Value: 1}},
		SpawnLocationType:                   pattern.PlacementRandom,
		InstaSpawnWaves:                     3,
		SpawnTimeDelayAccumulateForEachZone: true,
	}
	p := scavOnly(cat)

	rec := mapstate.NewRecord(mapstate.Base{})
	newTestEngine(&scriptedSource{ints: []int{1, 0, 0}}, nopObserver{}).Generate(rec, Pass{Map: "factory4_day", Pattern: p, Toggles: allToggles()})

	for _, w := range rec.Waves {
		assert.Equal(t, "B", w.SpawnPoints)
	}
	// the caller's pattern is untouched
	assert.Equal(t, pattern.PlacementRandom, p.WaveSettings.Scav.SpawnLocationType)
	assert.True(t, p.WaveSettings.Scav.SpawnTimeDelayAccumulateForEachZone)
}

func TestGenerate_TogglesOff(t *testing.T) {
	p := parseMap(t, fullPattern)

	rec := newTestRecord(40)
	New(testCatalog(), &scriptedSource{}, WithLogger(quietLogger())).Generate(rec, Pass{Map: "bigmap", Pattern: p, Toggles: config.Toggles{}})

	assert.Empty(t, rec.Waves)
	assert.Empty(t, rec.BossLocationSpawn)
}
