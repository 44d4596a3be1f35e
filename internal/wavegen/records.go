package wavegen

import "github.com/udisondev/spawnpattern/internal/mapstate"

// BossSpawn carries the resolved fields of one boss-shaped event.
type BossSpawn struct {
	Name             string
	Chance           int
	Zone             string
	Difficulty       string
	EscortType       string
	EscortDifficulty string
	EscortAmount     int
	Time             int
	TriggerID        string
	TriggerName      string
	Supports         []mapstate.Support
	RandomTimeSpawn  bool
}

func (b BossSpawn) event() mapstate.BossEvent {
	return mapstate.BossEvent{
		BossName:            b.Name,
		BossChance:          b.Chance,
		BossZone:            b.Zone,
		BossDifficult:       b.Difficulty,
		BossEscortType:      b.EscortType,
		BossEscortDifficult: b.EscortDifficulty,
		BossEscortAmount:    b.EscortAmount,
		Time:                b.Time,
		RandomTimeSpawn:     b.RandomTimeSpawn,
	}
}

// AddBossEventSimple appends a boss without a support roster. Trigger
// linkage and supports of b are ignored.
func AddBossEventSimple(rec *mapstate.Record, b BossSpawn) *mapstate.Record {
	rec.BossLocationSpawn = append(rec.BossLocationSpawn, b.event())
	return rec
}

// AddBossEventWithSupports appends a boss with its trigger linkage and
// support roster.
func AddBossEventWithSupports(rec *mapstate.Record, b BossSpawn) *mapstate.Record {
	ev := b.event()
	ev.TriggerId = b.TriggerID
	ev.TriggerName = b.TriggerName
	ev.Supports = b.Supports
	rec.BossLocationSpawn = append(rec.BossLocationSpawn, ev)
	return rec
}

// AddTriggeredEvent appends a trigger-gated wave. It has the same shape as
// a boss with supports.
func AddTriggeredEvent(rec *mapstate.Record, b BossSpawn) *mapstate.Record {
	return AddBossEventWithSupports(rec, b)
}

// AddWaveEvent appends a group wave. Instant waves (number 0) go to the
// front of the list, numbered waves to the back.
//
// Equal slot bounds are lowered before emission: the host spawns one bot
// more than asked for fixed-size groups above one.
func AddWaveEvent(rec *mapstate.Record, number, spawnTime, slotMin, slotMax int, zone, difficulty, botType string) *mapstate.Record {
	if slotMin == slotMax {
		switch {
		case slotMin == 2:
			slotMax = 1
		case slotMin > 2:
			slotMax--
			slotMin = slotMax
		}
	}

	ev := mapstate.WaveEvent{
		Number:        number,
		TimeMin:       spawnTime,
		TimeMax:       spawnTime,
		SlotsMin:      slotMin,
		SlotsMax:      slotMax,
		SpawnPoints:   zone,
		BotSide:       mapstate.SideSavage,
		BotPreset:     difficulty,
		WildSpawnType: botType,
	}

	if number > 0 {
		rec.Waves = append(rec.Waves, ev)
	} else {
		rec.Waves = append([]mapstate.WaveEvent{ev}, rec.Waves...)
	}
	return rec
}
