package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-json-experiment/json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/spawnpattern/internal/mapstate"
)

// MapStateRepository stores map records in PostgreSQL. The native snapshot
// is written once, when a map is first seeded, and never overwritten.
type MapStateRepository struct {
	pool *pgxpool.Pool
}

var _ mapstate.Store = (*MapStateRepository)(nil)

// NewMapStateRepository creates a new map state repository.
func NewMapStateRepository(pool *pgxpool.Pool) *MapStateRepository {
	return &MapStateRepository{pool: pool}
}

// ListMaps returns every stored map id, sorted.
func (r *MapStateRepository) ListMaps(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM map_states ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing maps: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning map names: %w", err)
	}
	return names, nil
}

// LoadMap loads the current record of a map together with its native snapshot.
func (r *MapStateRepository) LoadMap(ctx context.Context, name string) (*mapstate.Record, error) {
	var baseJSON, nativeJSON []byte
	err := r.pool.QueryRow(ctx,
		`SELECT base, native FROM map_states WHERE name = $1`, name,
	).Scan(&baseJSON, &nativeJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", mapstate.ErrMapNotFound, name)
		}
		return nil, fmt.Errorf("loading map %s: %w", name, err)
	}

	var base mapstate.Base
	if err := json.Unmarshal(baseJSON, &base); err != nil {
		return nil, fmt.Errorf("decoding map %s: %w", name, err)
	}
	var native mapstate.Native
	if err := json.Unmarshal(nativeJSON, &native); err != nil {
		return nil, fmt.Errorf("decoding native content of map %s: %w", name, err)
	}
	return mapstate.RestoreRecord(base, native), nil
}

// SaveMap writes the current record of a map. The first save of a map also
// stores its native snapshot.
func (r *MapStateRepository) SaveMap(ctx context.Context, name string, rec *mapstate.Record) error {
	baseJSON, err := mapstate.EncodeBase(rec.Base)
	if err != nil {
		return fmt.Errorf("encoding map %s: %w", name, err)
	}
	nativeJSON, err := encodeNative(rec.Native())
	if err != nil {
		return fmt.Errorf("encoding native content of map %s: %w", name, err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO map_states (name, base, native)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET base = EXCLUDED.base, updated_at = now()`,
		name, baseJSON, nativeJSON,
	)
	if err != nil {
		return fmt.Errorf("saving map %s: %w", name, err)
	}

	slog.Debug("map state saved", "map", name, "waves", len(rec.Waves), "bosses", len(rec.BossLocationSpawn))
	return nil
}

// Seed inserts maps that are not stored yet, e.g. from the native files.
// Stored maps are left untouched. Returns the number of inserted maps.
func (r *MapStateRepository) Seed(ctx context.Context, from mapstate.Store) (int, error) {
	names, err := from.ListMaps(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing maps to seed: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	inserted := 0
	for _, name := range names {
		rec, err := from.LoadMap(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("seeding map %s: %w", name, err)
		}
		baseJSON, err := mapstate.EncodeBase(rec.Base)
		if err != nil {
			return 0, fmt.Errorf("encoding map %s: %w", name, err)
		}
		nativeJSON, err := encodeNative(rec.Native())
		if err != nil {
			return 0, fmt.Errorf("encoding native content of map %s: %w", name, err)
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO map_states (name, base, native)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO NOTHING`,
			name, baseJSON, nativeJSON,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting map %s: %w", name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}

	slog.Info("map states seeded", "maps", len(names), "inserted", inserted)
	return inserted, nil
}

func encodeNative(n mapstate.Native) ([]byte, error) {
	return json.Marshal(n, json.FormatNilSliceAsNull(false))
}
