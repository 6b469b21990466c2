package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
)

const (
	DownloadBatchSize    = 100
	DownloadBatchTimeout = 2 * time.Second
	DownloadPollTimeout  = 1 * time.Second
)

// DownloadWorker drains queued download events and folds them into
// batched counter updates so the public download endpoints never write to
// PostgreSQL directly.
type DownloadWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewDownloadWorker creates a new DownloadWorker.
func NewDownloadWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *DownloadWorker {
	return &DownloadWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "download_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled. The remaining batch
// is flushed on shutdown.
func (w *DownloadWorker) Start(ctx context.Context) {
	w.log.Info().Msg("DownloadWorker started")

	batch := make([]model.DownloadEvent, 0, DownloadBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= DownloadBatchSize || time.Since(lastFlush) >= DownloadBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, DownloadPollTimeout, config.WorkerKey.DownloadCountsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev model.DownloadEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, ev)
		}
	}
}

func (w *DownloadWorker) flushSafe(ctx context.Context, batch []model.DownloadEvent) {
	if len(batch) == 0 {
		return
	}

	// Many events for the same item collapse into one increment row.
	ebooks := make(map[uuid.UUID]int64)
	papers := make(map[uuid.UUID]int64)
	for _, ev := range batch {
		switch ev.Kind {
		case model.DownloadKindEbook:
			ebooks[ev.ID]++
		case model.DownloadKindPaper:
			papers[ev.ID]++
		default:
			w.log.Warn().Str("kind", string(ev.Kind)).Msg("Unknown download kind, dropping")
		}
	}

	if err := w.bulkIncrement(ctx, "ebooks", ebooks); err != nil {
		w.log.Warn().Err(err).Msg("bulk ebook update failed, using fallback")
		w.fallback(ctx, model.DownloadKindEbook, "ebooks", ebooks)
	}
	if err := w.bulkIncrement(ctx, "papers", papers); err != nil {
		w.log.Warn().Err(err).Msg("bulk paper update failed, using fallback")
		w.fallback(ctx, model.DownloadKindPaper, "papers", papers)
	}
}

func (w *DownloadWorker) bulkIncrement(ctx context.Context, table string, counts map[uuid.UUID]int64) error {
	if len(counts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(counts))
	deltas := make([]int64, 0, len(counts))
	for id, n := range counts {
		ids = append(ids, id)
		deltas = append(deltas, n)
	}

	query := `
		UPDATE ` + table + ` AS d
		SET download_count = d.download_count + t.delta
		FROM (
			SELECT u.id, u.delta
			FROM UNNEST($1::uuid[], $2::bigint[]) AS u (id, delta)
		) AS t
		WHERE d.id = t.id
	`

	_, err := w.pool.Exec(ctx, query, ids, deltas)
	return err
}

// fallback applies increments one at a time and requeues what still fails.
func (w *DownloadWorker) fallback(ctx context.Context, kind model.DownloadKind, table string, counts map[uuid.UUID]int64) {
	for id, n := range counts {
		_, err := w.pool.Exec(ctx,
			`UPDATE `+table+` SET download_count = download_count + $1 WHERE id = $2`, n, id)
		if err == nil {
			continue
		}
		w.log.Error().Err(err).Str("id", id.String()).Msg("single increment failed — requeueing")
		for i := int64(0); i < n; i++ {
			raw, _ := json.Marshal(model.DownloadEvent{Kind: kind, ID: id})
			w.rdb.RPush(ctx, config.WorkerKey.DownloadCountsQueue, raw)
		}
	}
}
