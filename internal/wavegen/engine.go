// Package wavegen generates the spawn schedule of a map from its pattern:
// boss encounters, grouped waves and trigger-gated waves.
//
// A pass runs single-threaded and performs no I/O. Configuration defects
// are logged and skipped; nothing is returned as an error.
package wavegen

import (
	"log/slog"
	"strings"

	"github.com/udisondev/spawnpattern/internal/config"
	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/pattern"
	"github.com/udisondev/spawnpattern/internal/rng"
)

// Categories, in generation order.
const (
	CategoryBoss      = "boss"
	CategoryPMC       = "pmc"
	CategoryScav      = "scav"
	CategorySniper    = "sniper"
	CategoryRaider    = "raider"
	CategoryTriggered = "triggered"
)

const (
	botTypePMC    = "assaultGroup"
	botTypeScav   = "assault"
	botTypeSniper = "marksman"

	defaultRaiderRole = "pmcBot"

	// ritualBoss may use its own zones and stay out of the max_boss count.
	ritualBoss = "sectantPriest"

	// The host rejects bosses without an escort type, so escort-less
	// bosses carry a zero-sized placeholder escort.
	placeholderEscortType       = "followerBully"
	placeholderEscortDifficulty = "normal"
)

// singleZoneMaps have one spawn area; spreading and exclusivity make no
// sense there.
var singleZoneMaps = map[string]bool{
	"factory4_day":   true,
	"factory4_night": true,
}

// BotCatalog answers which bot types and difficulty presets the host knows.
type BotCatalog interface {
	Exists(botType string) bool
	HasDifficulty(botType, difficulty string) bool
}

// Observer receives generation events, e.g. for metrics.
type Observer interface {
	EventEmitted(mapName, category string)
	BudgetCutoff(mapName, category string)
	Defect(mapName, category string)
}

type nopObserver struct{}

func (nopObserver) EventEmitted(string, string) {}
func (nopObserver) BudgetCutoff(string, string) {}
func (nopObserver) Defect(string, string)       {}

// Engine generates spawn schedules.
type Engine struct {
	catalog BotCatalog
	src     rng.Source
	log     *slog.Logger
	obs     Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithObserver sets the observer notified about emitted events.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.obs = o }
}

// New creates an Engine drawing randomness from src.
func New(catalog BotCatalog, src rng.Source, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		src:     src,
		log:     slog.Default(),
		obs:     nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pass is the input of one map generation.
type Pass struct {
	Map     string
	Pattern pattern.MapPattern
	Toggles config.Toggles
	// UsecChance labels PMC groups in diagnostics only.
	UsecChance int
}

// Stats counts what one Generate call emitted.
type Stats struct {
	Bosses    int
	Waves     int
	Triggered int
}

// run is the state of one Generate call.
type run struct {
	*Engine

	rec     *mapstate.Record
	mapName string
	cfg     pattern.MapPattern
	toggles config.Toggles

	budget     budget
	claims     claims
	waveNumber int
	report     reporter
	usecChance int
	stats      Stats
}

// Generate appends the schedule of pass.Map to rec and returns rec.
// The caller runs mapstate.Reset first; the pattern is never modified.
func (e *Engine) Generate(rec *mapstate.Record, pass Pass) *mapstate.Record {
	out, _ := e.generate(rec, pass)
	return out
}

// GenerateStats is Generate that also reports the emitted counts.
func (e *Engine) GenerateStats(rec *mapstate.Record, pass Pass) (*mapstate.Record, Stats) {
	return e.generate(rec, pass)
}

func (e *Engine) generate(rec *mapstate.Record, pass Pass) (*mapstate.Record, Stats) {
	log := e.log.With("map", pass.Map)
	r := &run{
		Engine:     e,
		rec:        rec,
		mapName:    pass.Map,
		cfg:        pass.Pattern,
		toggles:    pass.Toggles,
		claims:     claims{},
		usecChance: pass.UsecChance,
	}
	r.prepare()
	r.budget = newBudget(rec.EscapeTimeLimitSeconds(), r.cfg.MaxSpawnTime)
	r.report = reporter{log: log, vis: r.cfg.ShowGeneratedBots}

	r.generateBosses()

	if r.toggles.UsePatternSpawns.Waves {
		ws := r.cfg.WaveSettings
		r.generateCategory(CategoryPMC, ws.PMC)
		r.generateCategory(CategoryScav, ws.Scav)
		r.generateCategory(CategorySniper, ws.Sniper)
		r.generateCategory(CategoryRaider, ws.Raider)
	}

	r.generateTriggered()

	r.report.summary(r.stats, r.toggles.UseDefaultSpawns.Waves)
	return rec, r.stats
}

// prepare applies map-level overrides to the local pattern copy and sets
// the static record fields.
func (r *run) prepare() {
	ws := &r.cfg.WaveSettings

	if singleZoneMaps[r.mapName] {
		r.cfg.BossesSpawnLocationType = pattern.PlacementTogether
		ws.PMC = singleZone(ws.PMC)
		ws.Scav = singleZone(ws.Scav)
		ws.Sniper = singleZone(ws.Sniper)
		ws.Raider = singleZone(ws.Raider)
		r.cfg.AllowOtherBotSpawnWithBoss = true
	}

	if r.rec.DisabledForScav && (hasWaves(ws.Scav) || hasWaves(ws.Sniper)) {
		r.rec.DisabledForScav = false
	}

	if zones := normalizeZones(r.cfg.ScavMapOpenZones); zones != "" {
		r.rec.OpenZones = zones
	}
	if r.cfg.MapRules != "" {
		r.rec.Rules = r.cfg.MapRules
	}
	if r.cfg.MaxBotPerZone > 0 {
		r.rec.MaxBotPerZone = r.cfg.MaxBotPerZone
	}
}

// singleZone returns a copy of c with together placement and a shared clock.
func singleZone(c *pattern.WaveCategory) *pattern.WaveCategory {
	if c == nil {
		return nil
	}
	cp := *c
	cp.SpawnLocationType = pattern.PlacementTogether
	cp.SpawnTimeDelayAccumulateForEachZone = false
	return &cp
}

func hasWaves(c *pattern.WaveCategory) bool {
	return c != nil && c.WaveTotal > 0
}

// normalizeZones trims every entry of a comma-separated zone list.
func normalizeZones(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}

// defect logs a configuration problem of the current map.
func (r *run) defect(category, msg string, args ...any) {
	r.report.errorf(category, msg, args...)
	r.obs.Defect(r.mapName, category)
}

func (r *run) emitted(category string) {
	r.obs.EventEmitted(r.mapName, category)
}

// shuffle permutes zones in place when there is more than one.
func (r *run) shuffle(zones []string) {
	if len(zones) > 1 {
		r.src.Shuffle(len(zones), func(i, j int) { zones[i], zones[j] = zones[j], zones[i] })
	}
}

// sample draws one element of a non-empty pool.
func (r *run) sample(pool []string) string {
	return pool[r.src.Int(0, len(pool)-1)]
}

// roll reports whether a percentage chance succeeds.
func (r *run) roll(chance int) bool {
	return r.src.Int(0, 99) < chance
}
