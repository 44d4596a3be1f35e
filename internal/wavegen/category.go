package wavegen

import (
	"slices"
	"strings"

	"github.com/udisondev/spawnpattern/internal/pattern"
)

// categoryLabels are the names shown in diagnostics.
var categoryLabels = map[string]string{
	CategoryPMC:    "PMC",
	CategoryScav:   "Scav",
	CategorySniper: "Sniper Scav",
}

// generateCategory emits the waves of a PMC, scav, sniper or raider category.
func (r *run) generateCategory(category string, cfg *pattern.WaveCategory) {
	if !hasWaves(cfg) {
		return
	}
	r.report.header(category)

	mode := pattern.WithChance
	if cfg.SpawnLocationType == pattern.PlacementEvenly {
		mode = pattern.WithoutChance
	}
	pool := r.claims.filter(cfg.SpawnLocations.Expand(mode))
	if len(pool) == 0 {
		r.defect(category, "no spawn locations to use, skipping category",
			"allow_other_bot_spawn_with_boss", r.cfg.AllowOtherBotSpawnWithBoss)
		return
	}
	r.shuffle(pool)

	var anywhere []string
	if category == CategoryPMC && cfg.SpawnScavRaiderLocationChance > 0 {
		anywhere = r.anywherePool(pool)
	}

	difficulties := cfg.Difficulty.Expand(pattern.WithChance)
	if len(difficulties) == 0 {
		r.defect(category, "no difficulty configured, skipping category")
		return
	}

	zones := distinct(pool, anywhere)
	clk := newClock(cfg.SpawnTimeDelayAccumulateForEachZone)
	place := newPlacer(cfg.SpawnLocationType)
	spawned := 0

	wave := 0
	for ; wave < cfg.WaveTotal; wave++ {
		slots := r.src.Int(cfg.SlotMin, cfg.SlotMax)
		if slots < 1 {
			continue
		}

		botType, label := r.categoryBot(category, cfg)

		var zone string
		if len(anywhere) == 0 || r.src.Int(0, 99) > cfg.SpawnScavRaiderLocationChance {
			zone = place.next(pool, r.src)
		} else {
			zone = r.sample(anywhere)
		}

		start, delay := 0, -1
		if spawned >= cfg.InstaSpawnWaves {
			start = cfg.SpawnTimeDelayAfterInstaWave
			delay = r.src.Int(cfg.SpawnTimeDelayForEachMin, cfg.SpawnTimeDelayForEachMax)
		}
		spawnTime := clk.advance(zone, start, delay)

		if limitName, limit, over := r.budget.exceeded(spawnTime); over {
			if clk.perZone {
				// other zones may still have time left
				if clk.tracked() < zones {
					r.report.log.Debug("zone out of time, retrying wave at another zone",
						"category", category, "zone", zone, "wave", wave, "time", spawnTime,
						"used_clocks", clk.tracked(), "zones", zones)
					continue
				}
				if clk.anyRoom(r.budget, cfg.SpawnTimeDelayForEachMin) {
					clk.exhaust(zone, r.budget.exhausted())
					continue
				}
			}
			r.report.cutoff(category, r.cfg.MaxSpawnTimeLimitWarning, limitName, limit, spawnTime, wave, cfg.WaveTotal,
				"bot", botType, "used_clocks", clk.tracked(), "zones", zones)
			r.obs.BudgetCutoff(r.mapName, category)
			break
		}
		spawnTime = max(spawnTime, -1)

		difficulty := strings.ToLower(r.sample(difficulties))
		if !r.catalog.HasDifficulty(botType, difficulty) {
			r.defect(category, "bot type doesn't have difficulty, skipping wave", "bot", botType, "difficulty", difficulty)
			continue
		}

		number := 0
		if spawnTime != -1 {
			r.waveNumber++
			number = r.waveNumber
		}
		AddWaveEvent(r.rec, number, spawnTime, slots, slots, zone, difficulty, botType)
		spawned++
		place.commit(zone)
		r.stats.Waves++
		r.emitted(category)

		r.report.waveLine(category, spawned, waveReport{
			label:   label,
			slots:   slots,
			slotMin: cfg.SlotMin,
			slotMax: cfg.SlotMax,
			time:    spawnTime,
			zone:    zone,
		})
	}

	// instant waves do not count as scheduled waves
	scheduled := wave - min(spawned, cfg.InstaSpawnWaves)
	r.report.log.Debug("category done", "category", category, "spawned", spawned, "scheduled", scheduled)
}

// categoryBot returns the bot type of the next wave and its diagnostics label.
func (r *run) categoryBot(category string, cfg *pattern.WaveCategory) (botType, label string) {
	switch category {
	case CategoryPMC:
		return botTypePMC, categoryLabels[category] + " [" + pmcFaction(r.usecChance) + "]"
	case CategoryScav:
		return botTypeScav, categoryLabels[category]
	case CategorySniper:
		return botTypeSniper, categoryLabels[category]
	}
	role := r.raiderRole(cfg)
	return role, role
}

// raiderRole returns the default raider role, or a high role when the
// high-role roll succeeds and the list resolves.
func (r *run) raiderRole(cfg *pattern.WaveCategory) string {
	role := cfg.RaiderDefaultRole
	if role == "" {
		role = defaultRaiderRole
	}
	if !cfg.RaiderHighRole || !r.roll(cfg.RaiderHighRoleChance) {
		return role
	}

	list := strings.TrimSpace(cfg.RaiderHighRoleList)
	// shortest real bot type name is six characters
	if len(list) < 6 {
		r.defect(CategoryRaider, "raider has no high role list, using default role", "list", list, "role", role)
		return role
	}
	if !strings.Contains(list, ",") {
		return list
	}

	high, ok := r.resolveType(CategoryRaider, list, "raider_high_role_list")
	if !ok {
		r.defect(CategoryRaider, "raider has bad high role list, using default role", "list", list, "role", role)
		return role
	}
	return high
}

// anywherePool is the scav and raider zones PMC groups may borrow, minus
// zones the PMC pool already has.
func (r *run) anywherePool(own []string) []string {
	var out []string
	for _, src := range []*pattern.WaveCategory{r.cfg.WaveSettings.Scav, r.cfg.WaveSettings.Raider} {
		if src == nil {
			continue
		}
		for _, z := range r.claims.filter(src.SpawnLocations.Expand(pattern.WithChance)) {
			if !slices.Contains(own, z) {
				out = append(out, z)
			}
		}
	}
	r.shuffle(out)
	return out
}

// distinct counts the different zones across pools.
func distinct(pools ...[]string) int {
	seen := make(map[string]struct{})
	for _, p := range pools {
		for _, z := range p {
			seen[z] = struct{}{}
		}
	}
	return len(seen)
}
