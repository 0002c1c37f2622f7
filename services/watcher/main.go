package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/icewatch/great-lakes-ice-watch/internal/noaa"
	"github.com/icewatch/great-lakes-ice-watch/services/watcher/internal/archive"
	"github.com/icewatch/great-lakes-ice-watch/services/watcher/internal/config"
	"github.com/icewatch/great-lakes-ice-watch/services/watcher/internal/db"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("watcher failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Room for both endpoint candidates plus database work.
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout+30*time.Second)
	defer cancel()

	ice := noaa.NewService(cfg.BaseEndpoint, noaa.NewClient(cfg.RequestTimeout))

	history, err := ice.History(ctx, cfg.WindowDays)
	if err != nil {
		return err
	}
	log.Printf("fetched %d observations (window=%dd)", len(history.Rows), history.Days)

	candidates := archive.BuildRows(history.Rows)

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	pending := candidates
	lastArchived, ok, err := db.LatestObservation(ctx, pool)
	if err != nil {
		return err
	}
	if ok {
		pending = archive.FilterNew(candidates, lastArchived)
	}

	if len(pending) == 0 {
		log.Printf("no new observations to archive (last=%s)", lastArchived.Format(time.RFC3339))
		return nil
	}

	log.Printf("prepared %d observations (dry-run=%v)", len(pending), cfg.DryRun)

	if cfg.DryRun {
		for _, row := range pending {
			log.Printf("dry-run: would archive obs_time=%s gl_total=%s",
				row.ObsTime.Format(time.RFC3339), archive.ValueString(row.GLTotal))
		}
		return nil
	}

	if err := db.UpsertObservations(ctx, pool, pending); err != nil {
		return err
	}
	log.Printf("archived %d observations", len(pending))

	publishUpdate(ctx, cfg.RedisURL, pending)
	return nil
}

// publishUpdate notifies subscribers that fresh observations landed. The
// channel is optional; failures are logged, never fatal.
func publishUpdate(ctx context.Context, redisURL string, rows []archive.ObservationRow) {
	if redisURL == "" {
		return
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, skipping publish: %v", err)
		return
	}
	client := redis.NewClient(opts)
	defer client.Close()

	newest := rows[len(rows)-1]
	payload, err := json.Marshal(map[string]any{
		"archived": len(rows),
		"obs_time": newest.ObsTime.Format(time.RFC3339),
		"gl_total": newest.GLTotal,
	})
	if err != nil {
		log.Printf("encode publish payload: %v", err)
		return
	}

	if err := client.Publish(ctx, "icewatch:observations", payload).Err(); err != nil {
		log.Printf("redis publish failed: %v", err)
		return
	}
	log.Printf("published update to icewatch:observations")
}
