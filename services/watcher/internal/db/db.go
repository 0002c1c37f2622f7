package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/icewatch/great-lakes-ice-watch/services/watcher/internal/archive"
)

// LatestObservation returns the newest archived observation time. ok is
// false when the archive is empty.
func LatestObservation(ctx context.Context, pool *pgxpool.Pool) (latest time.Time, ok bool, err error) {
	var stamp *time.Time
	err = pool.QueryRow(ctx, `SELECT MAX(obs_time) FROM icewatch.observations`).Scan(&stamp)
	if err != nil {
		return time.Time{}, false, err
	}
	if stamp == nil {
		return time.Time{}, false, nil
	}
	return stamp.UTC(), true, nil
}

// UpsertObservations writes observation rows, refreshing lake values for
// time stamps that are already archived.
func UpsertObservations(ctx context.Context, pool *pgxpool.Pool, rows []archive.ObservationRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO icewatch.observations (obs_time, superior, michigan, huron, erie, ontario, gl_total, ingested_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
ON CONFLICT (obs_time) DO UPDATE
SET superior = EXCLUDED.superior,
    michigan = EXCLUDED.michigan,
    huron = EXCLUDED.huron,
    erie = EXCLUDED.erie,
    ontario = EXCLUDED.ontario,
    gl_total = EXCLUDED.gl_total,
    updated_at = NOW()`

	for _, row := range rows {
		batch.Queue(query, row.ObsTime, row.Superior, row.Michigan, row.Huron, row.Erie, row.Ontario, row.GLTotal)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range rows {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}
