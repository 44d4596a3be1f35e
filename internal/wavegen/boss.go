package wavegen

import (
	"slices"
	"strconv"
	"strings"

	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/pattern"
)

type bossOutcome uint8

const (
	// bossKept stays in the queue for the next round.
	bossKept bossOutcome = iota
	// bossDropped is removed for a configuration problem.
	bossDropped
	// bossSpawned emitted at least one event.
	bossSpawned
)

// bossPass is the state shared by all candidates of one boss pass.
type bossPass struct {
	spawned map[string]bool
	placer  *placer
	counted int
	events  int
}

// escort is the resolved single-escort composition of a boss.
type escort struct {
	typ        string
	difficulty string
	amountMin  int
	amountMax  int
}

var placeholderEscort = escort{typ: placeholderEscortType, difficulty: placeholderEscortDifficulty}

// generateBosses runs the boss candidates as a worklist. Each round visits
// every queued candidate once; a round that removes nobody spends one try.
func (r *run) generateBosses() {
	if !r.toggles.UsePatternSpawns.Bosses {
		return
	}
	if !r.cfg.HasBoss {
		if r.report.vis != pattern.VisibilityDisable && len(r.rec.BossLocationSpawn) > 0 {
			r.report.header(CategoryBoss)
			r.report.keepsDefault(CategoryBoss)
		}
		return
	}
	if len(r.cfg.BossSettings) == 0 || r.cfg.MaxBoss <= 0 {
		r.defect(CategoryBoss, "map has has_boss set but no boss settings or max_boss is zero",
			"max_boss", r.cfg.MaxBoss)
		return
	}
	r.report.header(CategoryBoss)

	queue := r.bossQueue()
	st := &bossPass{
		spawned: make(map[string]bool),
		placer:  newPlacer(r.cfg.BossesSpawnLocationType),
	}
	tries := max(r.cfg.BossSpawnTryingLoop, 1)

	for len(queue) > 0 && tries > 0 && st.counted < r.cfg.MaxBoss {
		next := make([]pattern.BossSettings, 0, len(queue))
		removed := false

		for i, cand := range queue {
			if st.counted >= r.cfg.MaxBoss {
				next = append(next, queue[i:]...)
				break
			}

			outcome, name := r.attemptBoss(cand, st)
			switch {
			case outcome == bossDropped:
				removed = true
			case outcome == bossSpawned && !r.cfg.AllowSameBossSpawn:
				st.spawned[name] = true
				removed = true
			default:
				next = append(next, cand)
			}
		}
		queue = next

		if len(queue) == 0 && !r.cfg.AllowSameBossSpawn && st.counted < r.cfg.MaxBoss {
			r.defect(CategoryBoss, "not enough boss settings to reach max_boss, enable allow_same_boss_spawn to repeat bosses",
				"max_boss", r.cfg.MaxBoss, "spawned", st.counted)
		}
		if !removed {
			tries--
		}
	}

	switch {
	case st.events == 0 && len(r.rec.BossLocationSpawn) == 0:
		r.report.noBosses()
	case r.toggles.UseDefaultSpawns.Bosses && r.report.vis != pattern.VisibilityDisable:
		r.report.keepsDefault(CategoryBoss)
	}
}

// bossQueue returns the shuffled candidate list. Without duplicates,
// single-name candidates go first so random lists pick from what is left.
func (r *run) bossQueue() []pattern.BossSettings {
	queue := slices.Clone(r.cfg.BossSettings)
	if len(queue) < 2 {
		return queue
	}
	r.src.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })

	if !r.cfg.AllowSameBossSpawn {
		slices.SortStableFunc(queue, func(a, b pattern.BossSettings) int {
			return boolRank(strings.Contains(a.Name, ",")) - boolRank(strings.Contains(b.Name, ","))
		})
	}
	return queue
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// attemptBoss resolves one candidate and, when its chance roll succeeds,
// emits its sub-waves.
func (r *run) attemptBoss(b pattern.BossSettings, st *bossPass) (bossOutcome, string) {
	owner := b.Name

	names := splitList(b.Name)
	if len(names) == 0 {
		r.defect(CategoryBoss, "boss has no type, skipping")
		return bossDropped, ""
	}
	names = r.knownTypes(CategoryBoss, names, owner)
	if len(names) == 0 {
		r.defect(CategoryBoss, "boss has bad type settings, skipping", "boss", owner)
		return bossDropped, ""
	}
	if !r.cfg.AllowSameBossSpawn {
		names = slices.DeleteFunc(names, func(n string) bool { return st.spawned[n] })
		if len(names) == 0 {
			// every candidate already spawned
			return bossDropped, ""
		}
	}
	name, random := r.pick(names)

	difficulty, ok := r.resolveDifficulty(CategoryBoss, name, b.Difficulty, owner)
	if !ok {
		r.defect(CategoryBoss, "boss doesn't have difficulty, skipping", "boss", name, "difficulty", b.Difficulty)
		return bossDropped, name
	}

	esc, ok := r.resolveEscort(b, owner)
	if !ok {
		return bossDropped, name
	}

	ritualOwn := name == ritualBoss && r.cfg.CultistsSpawnAtOwnLocations
	own, pool := r.bossPool(b, ritualOwn)
	if len(pool) == 0 {
		r.defect(CategoryBoss, "boss has no spawn locations to use, skipping", "boss", owner)
		return bossDropped, name
	}

	if !r.roll(b.Chance) {
		return bossKept, name
	}

	waves, ok := r.bossWaves(b, owner)
	if !ok {
		return bossDropped, name
	}

	supports, supportSum := r.resolveSupports(b, owner)

	ev := BossSpawn{
		Name:             name,
		Chance:           100,
		Difficulty:       difficulty,
		EscortType:       esc.typ,
		EscortDifficulty: esc.difficulty,
		TriggerID:        b.TriggerID,
		TriggerName:      b.TriggerName,
		Supports:         supports,
		RandomTimeSpawn:  b.RandomTimeSpawn,
	}
	countsForCap := name != ritualBoss || r.cfg.CultistsSpawnCountForMaxBoss

	emitted := false
	total := 0
	for i := range waves.total {
		ev.Time = -1
		if i > 0 {
			d := r.src.Int(waves.delayMin, waves.delayMax)
			ev.Time = total + delayStep(d)
			total += max(d, 0)
		}
		if limitName, limit, over := r.budget.exceeded(ev.Time); over {
			r.report.cutoff(CategoryBoss, r.cfg.MaxSpawnTimeLimitWarning, limitName, limit, ev.Time, i, waves.total, "boss", name)
			r.obs.BudgetCutoff(r.mapName, CategoryBoss)
			break
		}
		ev.Time = max(ev.Time, -1)

		if len(supports) > 0 {
			ev.EscortAmount = supportSum
		} else {
			ev.EscortAmount = max(r.src.Int(esc.amountMin, esc.amountMax), 0)
		}

		if i == 0 || !waves.sameLocation {
			if ritualOwn {
				ev.Zone = r.sample(pool)
			} else {
				ev.Zone = st.placer.next(pool, r.src)
			}
		}

		if len(supports) > 0 {
			AddBossEventWithSupports(r.rec, ev)
		} else {
			AddBossEventSimple(r.rec, ev)
		}
		emitted = true
		st.events++
		r.stats.Bosses++
		r.emitted(CategoryBoss)

		mark := ">"
		if i == 0 {
			if countsForCap {
				st.counted++
				mark = strconv.Itoa(st.counted)
			} else {
				mark = "*"
			}
		}
		r.report.bossLine(mark, name, random, ev.Time, ev.EscortAmount, ev.Zone)

		if !r.cfg.AllowOtherBotSpawnWithBoss && slices.Contains(own, ev.Zone) {
			r.claims.add(ev.Zone)
		}
		if !ritualOwn {
			st.placer.commit(ev.Zone)
		}
	}

	if !emitted {
		return bossKept, name
	}
	return bossSpawned, name
}

// bossWaveSettings are the validated sub-wave settings of a boss.
type bossWaveSettings struct {
	total        int
	delayMin     int
	delayMax     int
	sameLocation bool
}

func (r *run) bossWaves(b pattern.BossSettings, owner string) (bossWaveSettings, bool) {
	var ws bossWaveSettings
	ok := true

	switch {
	case b.WaveTotal == nil:
		r.defect(CategoryBoss, "boss has no wave_total, skipping", "boss", owner)
		ok = false
	case *b.WaveTotal < 1:
		ok = false
	default:
		ws.total = *b.WaveTotal
	}

	if b.WaveSpawnTimeForEachMin == nil {
		r.defect(CategoryBoss, "boss has no wave_spawn_time_for_each_min, skipping", "boss", owner)
		ok = false
	} else {
		ws.delayMin = max(*b.WaveSpawnTimeForEachMin, -1)
	}

	if b.WaveSpawnTimeForEachMax == nil {
		r.defect(CategoryBoss, "boss has no wave_spawn_time_for_each_max, skipping", "boss", owner)
		ok = false
	} else {
		ws.delayMax = max(*b.WaveSpawnTimeForEachMax, -1)
	}

	if b.WaveSpawnAllSameLocation == nil {
		r.defect(CategoryBoss, "boss has no wave_spawn_all_same_location, using false", "boss", owner)
	} else {
		ws.sameLocation = *b.WaveSpawnAllSameLocation
	}

	return ws, ok
}

// resolveEscort resolves the single escort of a boss without supports.
// Bosses with supports, and bosses with no escort at all, get the
// placeholder escort with zero amount.
func (r *run) resolveEscort(b pattern.BossSettings, owner string) (escort, bool) {
	if len(b.Supports) > 0 {
		return placeholderEscort, true
	}

	typ := strings.TrimSpace(b.EscortType)
	diff := strings.TrimSpace(b.EscortDifficulty)

	switch {
	case typ == "" && diff == "" && b.EscortAmountMax <= 0:
		return placeholderEscort, true
	case typ == "":
		r.defect(CategoryBoss, "boss escort has no type, skipping", "boss", owner)
		return escort{}, false
	case diff == "":
		r.defect(CategoryBoss, "boss escort has no difficulty, skipping", "boss", owner, "escort", typ)
		return escort{}, false
	}

	esc := escort{
		amountMin: max(b.EscortAmountMin, 0),
		amountMax: max(b.EscortAmountMax, 0),
	}

	var ok bool
	if esc.typ, ok = r.resolveType(CategoryBoss, typ, owner); !ok {
		r.defect(CategoryBoss, "boss escort has bad type settings, skipping", "boss", owner, "escort", typ)
		return escort{}, false
	}
	if esc.difficulty, ok = r.resolveDifficulty(CategoryBoss, esc.typ, diff, owner); !ok {
		r.defect(CategoryBoss, "boss escort doesn't have difficulty, skipping", "boss", owner, "escort", esc.typ, "difficulty", diff)
		return escort{}, false
	}
	return esc, true
}

// resolveSupports resolves every support group of a boss and draws its
// size. Invalid groups are dropped one by one.
func (r *run) resolveSupports(b pattern.BossSettings, owner string) ([]mapstate.Support, int) {
	var (
		out []mapstate.Support
		sum int
	)
	for i, s := range b.Supports {
		index := i + 1

		lo, hi, ok := s.AmountRange()
		if !ok {
			r.defect(CategoryBoss, "supporter has no amount settings, skipping", "boss", owner, "index", index)
			continue
		}
		typ := strings.TrimSpace(s.BossEscortType)
		if typ == "" {
			r.defect(CategoryBoss, "supporter has no escort type, skipping", "boss", owner, "index", index)
			continue
		}
		if len(s.BossEscortDifficult) == 0 || strings.TrimSpace(s.BossEscortDifficult[0]) == "" {
			r.defect(CategoryBoss, "supporter has no difficulty, skipping", "boss", owner, "index", index)
			continue
		}
		if hi < 1 {
			continue
		}
		amount := r.src.Int(lo, hi)

		if typ, ok = r.resolveType(CategoryBoss, typ, owner); !ok {
			r.defect(CategoryBoss, "supporter has bad escort type, skipping", "boss", owner, "index", index, "escort", s.BossEscortType)
			continue
		}
		diff, ok := r.resolveDifficulty(CategoryBoss, typ, s.BossEscortDifficult[0], owner)
		if !ok {
			r.defect(CategoryBoss, "supporter doesn't have difficulty, skipping", "boss", owner, "index", index, "difficulty", s.BossEscortDifficult[0])
			continue
		}

		difficulties := slices.Clone(s.BossEscortDifficult)
		difficulties[0] = diff
		out = append(out, mapstate.Support{
			BossEscortType:      typ,
			BossEscortDifficult: difficulties,
			BossEscortAmount:    amount,
		})
		sum += amount
	}
	return out, sum
}

// bossPool returns the boss's own zones and the zones it may spawn at,
// which can borrow from the scav and raider pools.
func (r *run) bossPool(b pattern.BossSettings, ritualOwn bool) (own, pool []string) {
	evenly := r.cfg.BossesSpawnLocationType == pattern.PlacementEvenly

	mode := pattern.WithChance
	if evenly && !ritualOwn {
		mode = pattern.WithoutChance
	}
	own = b.Locations.Expand(mode)
	pool = slices.Clone(own)

	if ritualOwn && len(b.Locations) > 0 {
		return own, pool
	}
	if r.cfg.BossesAlsoUseScavsSpawnLocations {
		pool = r.borrowZones(pool, r.cfg.WaveSettings.Scav, CategoryScav, evenly)
	}
	if r.cfg.BossesAlsoUseRaidersSpawnLocations {
		pool = r.borrowZones(pool, r.cfg.WaveSettings.Raider, CategoryRaider, evenly)
	}
	return own, pool
}

// borrowZones adds the zones of another category to a boss pool. Under
// evenly placement the zones are merged without duplicates; otherwise they
// only stand in for an empty pool.
func (r *run) borrowZones(pool []string, from *pattern.WaveCategory, category string, evenly bool) []string {
	if from == nil || len(from.SpawnLocations) == 0 {
		r.defect(CategoryBoss, "map has no spawn locations to lend to bosses", "from", category)
		return pool
	}
	borrowed := r.claims.filter(from.SpawnLocations.Expand(pattern.WithChance))

	if evenly {
		for _, z := range borrowed {
			if !slices.Contains(pool, z) {
				pool = append(pool, z)
			}
		}
	}
	if len(pool) == 0 {
		pool = slices.Clone(borrowed)
	}
	return pool
}
