package mapstate

import "github.com/udisondev/spawnpattern/internal/config"

// Reset restores the native waves and bosses of rec and drops the parts the
// configuration does not keep. It must run before every generation pass.
func Reset(rec *Record, keep config.DefaultSpawns) {
	// a record without a snapshot has no native content to restore
	native := rec.native.Clone()

	rec.Waves = []WaveEvent{}
	if keep.Waves && native.Waves != nil {
		rec.Waves = native.Waves
	}

	if !keep.Bosses && !keep.TriggeredWaves {
		rec.BossLocationSpawn = []BossEvent{}
		return
	}

	bosses := make([]BossEvent, 0, len(native.Bosses))
	for _, b := range native.Bosses {
		if b.Triggered() && !keep.TriggeredWaves {
			continue
		}
		if !b.Triggered() && !keep.Bosses {
			continue
		}
		bosses = append(bosses, b)
	}
	rec.BossLocationSpawn = bosses
}
