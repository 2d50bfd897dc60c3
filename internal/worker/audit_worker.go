package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/model"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// AuditStore persists request events. Satisfied by repository.AuditRepository.
type AuditStore interface {
	InsertBatch(ctx context.Context, events []model.RequestEvent) error
	Insert(ctx context.Context, e model.RequestEvent) error
}

// AuditWorker drains the request audit queue into Postgres in batches.
type AuditWorker struct {
	store AuditStore
	rdb   *redis.Client
	log   zerolog.Logger

	batchSize    int
	batchTimeout time.Duration
	retryDelay   time.Duration
}

func NewAuditWorker(store AuditStore, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		store:        store,
		rdb:          rdb,
		log:          log.With().Str("component", "audit_worker").Logger(),
		batchSize:    BatchSize,
		batchTimeout: BatchTimeout,
		retryDelay:   2 * time.Second,
	}
}

// Start blocks until ctx is cancelled, then flushes what is buffered.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	buffer := make([]model.RequestEvent, 0, w.batchSize)
	lastFlushTime := time.Now()

	for {
		// A cancelled ctx would fail the flush, so shutdown drains with its own.
		if ctx.Err() != nil {
			w.shutdown(buffer)
			return
		}

		if len(buffer) > 0 && (len(buffer) >= w.batchSize || time.Since(lastFlushTime) >= w.batchTimeout) {
			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlushTime = time.Now()
		}

		// BLPop returns immediately when the queue has data.
		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.RequestAuditQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				w.shutdown(buffer)
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			sleepCtx(ctx, 3*time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var evt model.RequestEvent
		if err := json.Unmarshal([]byte(result[1]), &evt); err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed audit event")
			continue
		}
		buffer = append(buffer, evt)
	}
}

// flushSafe tries a bulk insert, then row by row, then requeues.
func (w *AuditWorker) flushSafe(ctx context.Context, batch []model.RequestEvent) {
	err := w.store.InsertBatch(ctx, batch)
	if err == nil {
		return
	}
	w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")

	var failed []model.RequestEvent
	for _, e := range batch {
		if err := w.store.Insert(ctx, e); err != nil {
			w.log.Error().Err(err).Int("request_id", e.RequestID).Msg("Insert failed, requeueing")
			failed = append(failed, e)
		}
	}
	if len(failed) > 0 {
		w.requeue(ctx, failed)
	}
}

func (w *AuditWorker) requeue(ctx context.Context, items []model.RequestEvent) {
	pipe := w.rdb.Pipeline()
	for _, e := range items {
		data, _ := json.Marshal(e)
		pipe.RPush(ctx, config.WorkerKey.RequestAuditQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("Failed to requeue audit events, data lost")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed audit events")
	sleepCtx(ctx, w.retryDelay)
}

func (w *AuditWorker) shutdown(buffer []model.RequestEvent) {
	w.log.Info().Int("buffered", len(buffer)).Msg("AuditWorker stopping, flushing remaining buffer")
	if len(buffer) == 0 {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	w.flushSafe(shutdownCtx, buffer)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
