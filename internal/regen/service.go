// Package regen runs regeneration passes: it picks a pattern, resets every
// configured map to its native content and regenerates its schedule.
package regen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/udisondev/spawnpattern/internal/config"
	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/pattern"
	"github.com/udisondev/spawnpattern/internal/rng"
	"github.com/udisondev/spawnpattern/internal/wavegen"
)

// ErrDisabled is returned by Regenerate when the generator is switched off.
var ErrDisabled = errors.New("spawn pattern generator is disabled")

// patternStream names the RNG stream used for pattern selection.
const patternStream = "pattern selection"

// Metrics receives per-event and per-pass measurements.
type Metrics interface {
	wavegen.Observer
	PassDone(took time.Duration, maps int, err error)
}

// MapResult is the outcome of one regenerated map.
type MapResult struct {
	Map string
	// Record is the live record; the next pass resets it.
	Record *mapstate.Record
	Stats  wavegen.Stats
	Digest []byte
	// Changed is false when the schedule equals the one of the previous pass.
	Changed bool
}

// Result is the outcome of one regeneration pass.
type Result struct {
	PassID     uuid.UUID
	Pattern    string
	Population pattern.Population
	Maps       []MapResult
	Skipped    []string
	Took       time.Duration
}

// Service serializes regeneration passes and collapses concurrent triggers
// into one pass.
type Service struct {
	cfg     config.Spawner
	store   mapstate.Store
	catalog wavegen.BotCatalog
	passes  mapstate.PassRecorder
	metrics Metrics
	log     *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	records map[string]*mapstate.Record
	digests map[string][]byte
}

// Option configures a Service.
type Option func(*Service)

// WithPassRecorder persists a log of every pass.
func WithPassRecorder(r mapstate.PassRecorder) Option {
	return func(s *Service) { s.passes = r }
}

// WithMetrics reports generation metrics.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service.
func NewService(cfg config.Spawner, store mapstate.Store, catalog wavegen.BotCatalog, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		store:   store,
		catalog: catalog,
		log:     slog.Default(),
		now:     time.Now,
		records: make(map[string]*mapstate.Record),
		digests: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Regenerate runs one pass over every map of the selected pattern. Callers
// arriving while a pass runs share its result.
//
// The pass itself is detached from ctx: a caller that gives up stops
// waiting, but the pass still completes and is recorded for everyone
// sharing it.
func (s *Service) Regenerate(ctx context.Context) (*Result, error) {
	if !s.cfg.Enabled {
		return nil, ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := s.group.DoChan("regenerate", func() (any, error) {
		return s.run(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		s.log.Debug("regeneration caller gone, pass continues", "error", ctx.Err())
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			s.log.Debug("regeneration request joined a running pass")
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Result), nil
	}
}

func (s *Service) run(ctx context.Context) (res *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := s.now()
	res = &Result{PassID: uuid.New()}
	log := s.log.With("pass", res.PassID)

	defer func() {
		res.Took = s.now().Sub(started)
		if s.metrics != nil {
			s.metrics.PassDone(res.Took, len(res.Maps), err)
		}
	}()

	res.Pattern = pattern.Select(s.cfg.DefaultPattern, s.cfg.UseRandomPatterns, s.cfg.RandomPatterns,
		rng.ForMap(s.cfg.Seed, patternStream))
	doc, err := pattern.Load(s.cfg.PatternDir, res.Pattern)
	if err != nil {
		return res, fmt.Errorf("loading pattern: %w", err)
	}
	res.Population = doc.Population
	log.Info("spawn pattern selected", "pattern", res.Pattern, "maps", len(doc.Maps))

	names, err := s.store.ListMaps(ctx)
	if err != nil {
		return res, fmt.Errorf("listing host maps: %w", err)
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	var opts []wavegen.Option
	if s.metrics != nil {
		opts = append(opts, wavegen.WithObserver(s.metrics))
	}
	toggles := s.cfg.Toggles()

	for _, entry := range doc.Maps {
		mr, ok := s.regenerateMap(ctx, log, entry, known, toggles, doc.Population, opts)
		if !ok {
			res.Skipped = append(res.Skipped, entry.Name)
			continue
		}
		res.Maps = append(res.Maps, mr)
	}

	if s.passes != nil {
		if err := s.passes.RecordPass(ctx, passLog(res, s.cfg.Seed, started, s.now().Sub(started))); err != nil {
			log.Error("recording generation pass", "error", err)
		}
	}

	log.Info("regeneration done", "pattern", res.Pattern, "maps", len(res.Maps), "skipped", len(res.Skipped))
	return res, nil
}

// regenerateMap resets and regenerates one map. Problems are logged and
// reported as a skip so the remaining maps still run.
func (s *Service) regenerateMap(
	ctx context.Context,
	log *slog.Logger,
	entry pattern.MapEntry,
	known map[string]bool,
	toggles config.Toggles,
	pop pattern.Population,
	opts []wavegen.Option,
) (MapResult, bool) {
	name := entry.Name
	log = log.With("map", name)

	if !known[name] {
		log.Error("pattern map is unknown to the host, skipping")
		return MapResult{}, false
	}
	rec, err := s.record(ctx, name)
	if err != nil {
		log.Error("loading map", "error", err)
		return MapResult{}, false
	}
	if rec.Locked {
		log.Error("map is locked, skipping")
		return MapResult{}, false
	}

	mapstate.Reset(rec, toggles.UseDefaultSpawns)

	engine := wavegen.New(s.catalog, rng.ForMap(s.cfg.Seed, name), append([]wavegen.Option{wavegen.WithLogger(log)}, opts...)...)
	_, stats := engine.GenerateStats(rec, wavegen.Pass{
		Map:        name,
		Pattern:    entry.Pattern,
		Toggles:    toggles,
		UsecChance: pop.UsecChance(),
	})

	digest, err := mapstate.Digest(rec.Base)
	if err != nil {
		log.Error("hashing schedule", "error", err)
		return MapResult{}, false
	}

	if err := s.store.SaveMap(ctx, name, rec); err != nil {
		log.Error("saving map", "error", err)
		return MapResult{}, false
	}

	changed := !bytes.Equal(s.digests[name], digest)
	s.digests[name] = digest
	if !changed {
		log.Debug("schedule unchanged since previous pass")
	}

	return MapResult{Map: name, Record: rec, Stats: stats, Digest: digest, Changed: changed}, true
}

// record returns the cached record of a map, loading it on first use. The
// cached record keeps its native snapshot for the lifetime of the service.
func (s *Service) record(ctx context.Context, name string) (*mapstate.Record, error) {
	if rec, ok := s.records[name]; ok {
		return rec, nil
	}
	rec, err := s.store.LoadMap(ctx, name)
	if err != nil {
		return nil, err
	}
	s.records[name] = rec
	return rec, nil
}

func passLog(res *Result, seed uint64, started time.Time, took time.Duration) mapstate.PassLog {
	pl := mapstate.PassLog{
		ID:        res.PassID,
		Pattern:   res.Pattern,
		Seed:      seed,
		StartedAt: started,
		Duration:  took,
		Maps:      make([]mapstate.MapDigest, 0, len(res.Maps)),
	}
	for _, m := range res.Maps {
		pl.Maps = append(pl.Maps, mapstate.MapDigest{
			Map:       m.Map,
			Digest:    m.Digest,
			Bosses:    m.Stats.Bosses,
			Waves:     m.Stats.Waves,
			Triggered: m.Stats.Triggered,
		})
	}
	return pl
}
