package wavegen

import (
	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/pattern"
)

// generateTriggered passes the authored triggered waves through. They never
// claim zones and never count toward max_boss.
func (r *run) generateTriggered() {
	nativeTriggered := false
	if r.toggles.UseDefaultSpawns.TriggeredWaves {
		for _, b := range r.rec.BossLocationSpawn {
			if b.Triggered() {
				nativeTriggered = true
				break
			}
		}
	}
	showAll := r.report.vis == pattern.VisibilityAll

	waves := r.cfg.WaveSettings.Triggered
	if len(waves) == 0 || !r.toggles.UsePatternSpawns.TriggeredWaves {
		if showAll && nativeTriggered {
			r.report.header(CategoryTriggered)
			r.report.keepsDefault(CategoryTriggered)
		}
		return
	}
	if showAll {
		r.report.header(CategoryTriggered)
	}

	n := 0
	for _, w := range waves {
		// the spawned entity itself is one of the slots
		escorts := r.src.Int(w.SlotMin, w.SlotMax) - 1
		if escorts < 0 {
			continue
		}
		spawnTime := max(w.Time, -1)

		if !r.roll(w.Chance) {
			continue
		}
		if !r.catalog.Exists(w.RaiderType) {
			r.defect(CategoryTriggered, "triggered wave has bad type settings, skipping", "bot", w.RaiderType)
			continue
		}
		if !r.catalog.HasDifficulty(w.RaiderType, w.Difficulty) {
			r.defect(CategoryTriggered, "triggered wave type doesn't have difficulty, skipping",
				"bot", w.RaiderType, "difficulty", w.Difficulty)
			continue
		}
		if limitName, limit, over := r.budget.exceeded(spawnTime); over {
			r.report.cutoff(CategoryTriggered, r.cfg.MaxSpawnTimeLimitWarning, limitName, limit, spawnTime, n, len(waves),
				"trigger", w.TriggerID)
			r.obs.BudgetCutoff(r.mapName, CategoryTriggered)
			continue
		}

		AddTriggeredEvent(r.rec, BossSpawn{
			Name:             w.RaiderType,
			Chance:           100,
			Zone:             w.SpawnLocation,
			Difficulty:       w.Difficulty,
			EscortType:       w.RaiderType,
			EscortDifficulty: w.Difficulty,
			EscortAmount:     escorts,
			Time:             spawnTime,
			TriggerID:        w.TriggerID,
			TriggerName:      w.TriggerName,
			Supports:         triggeredSupports(w.Supports),
			RandomTimeSpawn:  w.RandomTimeSpawn,
		})
		n++
		r.stats.Triggered++
		r.emitted(CategoryTriggered)
		r.report.triggeredLine(n, w.RaiderType, escorts+1, spawnTime, w.RandomTimeSpawn, w.SpawnLocation, w.TriggerID)
	}

	if showAll && nativeTriggered {
		r.report.keepsDefault(CategoryTriggered)
	}
}

// triggeredSupports copies authored support groups into event form as
// written; amount ranges are not drawn here.
func triggeredSupports(in []pattern.SupportSettings) []mapstate.Support {
	if len(in) == 0 {
		return nil
	}
	out := make([]mapstate.Support, 0, len(in))
	for _, s := range in {
		sup := mapstate.Support{
			BossEscortType:      s.BossEscortType,
			BossEscortDifficult: append([]string(nil), s.BossEscortDifficult...),
			BossEscortAmountMin: copyInt(s.BossEscortAmountMin),
			BossEscortAmountMax: copyInt(s.BossEscortAmountMax),
		}
		if s.BossEscortAmount != nil {
			sup.BossEscortAmount = *s.BossEscortAmount
		}
		out = append(out, sup)
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
