package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/spawnpattern/internal/mapstate"
)

// PassRepository records regeneration passes and their per-map digests.
type PassRepository struct {
	pool *pgxpool.Pool
}

var _ mapstate.PassRecorder = (*PassRepository)(nil)

// NewPassRepository creates a new pass repository.
func NewPassRepository(pool *pgxpool.Pool) *PassRepository {
	return &PassRepository{pool: pool}
}

// RecordPass stores a pass and its map digests in a single transaction.
func (r *PassRepository) RecordPass(ctx context.Context, pass mapstate.PassLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for pass %s: %w", pass.ID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "pass", pass.ID, "error", err)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO generation_passes (id, pattern, seed, started_at, duration_us)
		 VALUES ($1, $2, $3, $4, $5)`,
		pass.ID, pass.Pattern, int64(pass.Seed), pass.StartedAt, pass.Duration.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting pass %s: %w", pass.ID, err)
	}

	batch := &pgx.Batch{}
	for _, m := range pass.Maps {
		batch.Queue(
			`INSERT INTO generation_pass_maps (pass_id, map, digest, bosses, waves, triggered)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			pass.ID, m.Map, m.Digest, m.Bosses, m.Waves, m.Triggered,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting map digests of pass %s: %w", pass.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for pass %s: %w", pass.ID, err)
	}
	return nil
}

// LastPass returns the most recent pass. The boolean is false when no pass
// has been recorded.
func (r *PassRepository) LastPass(ctx context.Context) (mapstate.PassLog, bool, error) {
	var (
		pass       mapstate.PassLog
		seed       int64
		durationUS int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, pattern, seed, started_at, duration_us
		 FROM generation_passes ORDER BY started_at DESC LIMIT 1`,
	).Scan(&pass.ID, &pass.Pattern, &seed, &pass.StartedAt, &durationUS)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mapstate.PassLog{}, false, nil
		}
		return mapstate.PassLog{}, false, fmt.Errorf("querying last pass: %w", err)
	}
	pass.Seed = uint64(seed)
	pass.Duration = time.Duration(durationUS) * time.Microsecond

	rows, err := r.pool.Query(ctx,
		`SELECT map, digest, bosses, waves, triggered
		 FROM generation_pass_maps WHERE pass_id = $1 ORDER BY map`, pass.ID,
	)
	if err != nil {
		return mapstate.PassLog{}, false, fmt.Errorf("querying maps of pass %s: %w", pass.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m mapstate.MapDigest
		if err := rows.Scan(&m.Map, &m.Digest, &m.Bosses, &m.Waves, &m.Triggered); err != nil {
			return mapstate.PassLog{}, false, fmt.Errorf("scanning map of pass %s: %w", pass.ID, err)
		}
		pass.Maps = append(pass.Maps, m)
	}
	if err := rows.Err(); err != nil {
		return mapstate.PassLog{}, false, fmt.Errorf("iterating maps of pass %s: %w", pass.ID, err)
	}
	return pass, true, nil
}
