package wavegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spawnpattern/internal/config"
	"github.com/udisondev/spawnpattern/internal/mapstate"
)

const triggeredPattern = `
    wave_settings:
      triggered_waves:
        - raider_type: pmcBot
          difficulty: normal
          slot_min: 3
          slot_max: 3
          chance: 100
          time: -5
          spawn_location: ZoneT
          trigger_id: t1
          trigger_name: onDoor
          supports:
            - BossEscortType: followerBully
              BossEscortDifficult: [normal]
              BossEscortAmount_min: 1
              BossEscortAmount_max: 2
        - raider_type: pmcBot
          difficulty: normal
          slot_min: 0
          slot_max: 0
          chance: 100
        - raider_type: ghost
          difficulty: normal
          slot_min: 1
          slot_max: 1
          chance: 100
        - raider_type: pmcBot
          difficulty: hard
          slot_min: 1
          slot_max: 1
          chance: 100
        - raider_type: pmcBot
          difficulty: normal
          slot_min: 2
          slot_max: 2
          chance: 100
          time: 5000
        - raider_type: exUsec
          difficulty: normal
          slot_min: 1
          slot_max: 1
          chance: 30
          time: 100
        - raider_type: exUsec
          difficulty: normal
          slot_min: 2
          slot_max: 2
          chance: 30
          time: 100
          spawn_location: ZoneU
          trigger_id: t2
          trigger_name: onLever
          random_time_spawn: true
`

func TestGenerateTriggered(t *testing.T) {
	// one chance roll per entry with a positive escort count
	src := &scriptedSource{ints: []int{0, 0, 0, 0, 50, 10}}
	obs := newCountingObserver()
	rec := newTestRecord(40)

	_, stats := newTestEngine(src, obs).GenerateStats(rec, Pass{Map: "bigmap", Pattern: parseMap(t, triggeredPattern), Toggles: allToggles()})

	require.Len(t, rec.BossLocationSpawn, 2)
	assert.Equal(t, mapstate.BossEvent{
		BossName:            "pmcBot",
		BossChance:          100,
		BossZone:            "ZoneT",
		BossDifficult:       "normal",
		BossEscortType:      "pmcBot",
		BossEscortDifficult: "normal",
		BossEscortAmount:    2,
		Time:                -1,
		TriggerId:           "t1",
		TriggerName:         "onDoor",
		Supports: []mapstate.Support{
			{
				BossEscortType:      "followerBully",
				BossEscortDifficult: []string{"normal"},
				BossEscortAmountMin: intPtr(1),
				BossEscortAmountMax: intPtr(2),
			},
		},
	}, rec.BossLocationSpawn[0])

	second := rec.BossLocationSpawn[1]
	assert.Equal(t, "exUsec", second.BossName)
	assert.Equal(t, 1, second.BossEscortAmount)
	assert.Equal(t, 100, second.Time)
	assert.True(t, second.RandomTimeSpawn)
	assert.Nil(t, second.Supports)
	assert.True(t, second.Triggered())

	assert.Equal(t, 2, obs.defects[CategoryTriggered])
	assert.Equal(t, 1, obs.cutoffs[CategoryTriggered])
	assert.Equal(t, Stats{Triggered: 2}, stats)
	assert.Empty(t, src.ints)
}

func TestGenerateTriggered_Disabled(t *testing.T) {
	toggles := allToggles()
	toggles.UsePatternSpawns.TriggeredWaves = false

	rec := newTestRecord(40)
	rec.BossLocationSpawn = []mapstate.BossEvent{{BossName: "native", TriggerName: "onNative"}}
	toggles.UseDefaultSpawns = config.DefaultSpawns{TriggeredWaves: true}

	newTestEngine(&scriptedSource{}, nopObserver{}).Generate(rec, Pass{Map: "bigmap", Pattern: parseMap(t, triggeredPattern), Toggles: toggles})

	require.Len(t, rec.BossLocationSpawn, 1)
	assert.Equal(t, "native", rec.BossLocationSpawn[0].BossName)
}
