package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditStore struct {
	mu        sync.Mutex
	saved     []model.RequestEvent
	batchErr  error
	rejectIDs map[int]bool
}

// Both inserts fail on a done ctx, as pgx does.
func (s *fakeAuditStore) InsertBatch(ctx context.Context, events []model.RequestEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.batchErr != nil {
		return s.batchErr
	}
	s.saved = append(s.saved, events...)
	return nil
}

func (s *fakeAuditStore) Insert(ctx context.Context, e model.RequestEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.rejectIDs[e.RequestID] {
		return errors.New("insert rejected")
	}
	s.saved = append(s.saved, e)
	return nil
}

func (s *fakeAuditStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func newTestWorker(t *testing.T, store AuditStore) (*AuditWorker, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	w := NewAuditWorker(store, rdb, zerolog.New(io.Discard))
	w.retryDelay = 0
	return w, rdb
}

func enqueue(t *testing.T, rdb *redis.Client, events ...model.RequestEvent) {
	t.Helper()
	for _, e := range events {
		data, err := json.Marshal(e)
		require.NoError(t, err)
		require.NoError(t, rdb.RPush(context.Background(), config.WorkerKey.RequestAuditQueue, data).Err())
	}
}

func event(id int) model.RequestEvent {
	return model.RequestEvent{
		RequestID: id,
		AccountID: 7,
		From:      model.RequestPending,
		To:        model.RequestApproved,
		ChangedBy: "admin",
		ChangedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func runWorker(w *AuditWorker) (context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return cancel, done
}

func TestAuditWorkerFlushesFullBatch(t *testing.T) {
	store := &fakeAuditStore{}
	w, rdb := newTestWorker(t, store)
	w.batchSize = 2
	w.batchTimeout = time.Hour

	enqueue(t, rdb, event(1), event(2))
	cancel, done := runWorker(w)
	defer func() { cancel(); <-done }()

	assert.Eventually(t, func() bool { return store.count() == 2 }, 3*time.Second, 10*time.Millisecond)
}

func TestAuditWorkerFlushesBufferOnShutdown(t *testing.T) {
	store := &fakeAuditStore{}
	w, rdb := newTestWorker(t, store)
	w.batchTimeout = time.Hour

	enqueue(t, rdb, event(1))
	cancel, done := runWorker(w)

	assert.Eventually(t, func() bool {
		n, _ := rdb.LLen(context.Background(), config.WorkerKey.RequestAuditQueue).Result()
		return n == 0
	}, 3*time.Second, 10*time.Millisecond)
	assert.Zero(t, store.count(), "nothing flushed before the batch fills")

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, 1, store.count())
}

func TestAuditWorkerDueBatchSurvivesCancellation(t *testing.T) {
	store := &fakeAuditStore{}
	w, rdb := newTestWorker(t, store)
	w.batchTimeout = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// The malformed payload is logged right after event 1 is buffered; by the
	// time the loop comes back around the batch is due and ctx is done.
	w.log = w.log.Hook(zerolog.HookFunc(func(_ *zerolog.Event, _ zerolog.Level, msg string) {
		if msg == "Discarding malformed audit event" {
			time.Sleep(2 * w.batchTimeout)
			cancel()
		}
	}))

	enqueue(t, rdb, event(1))
	require.NoError(t, rdb.RPush(ctx, config.WorkerKey.RequestAuditQueue, "not json").Err())

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	require.Equal(t, 1, store.count())
	assert.Equal(t, 1, store.saved[0].RequestID)
}

func TestAuditWorkerDropsMalformedPayload(t *testing.T) {
	store := &fakeAuditStore{}
	w, rdb := newTestWorker(t, store)
	w.batchSize = 1

	require.NoError(t, rdb.RPush(context.Background(), config.WorkerKey.RequestAuditQueue, "not json").Err())
	enqueue(t, rdb, event(5))
	cancel, done := runWorker(w)
	defer func() { cancel(); <-done }()

	assert.Eventually(t, func() bool { return store.count() == 1 }, 3*time.Second, 10*time.Millisecond)
	store.mu.Lock()
	assert.Equal(t, 5, store.saved[0].RequestID)
	store.mu.Unlock()
}

func TestAuditWorkerRequeuesRowsThatFail(t *testing.T) {
	store := &fakeAuditStore{batchErr: errors.New("copy failed"), rejectIDs: map[int]bool{2: true}}
	w, rdb := newTestWorker(t, store)
	ctx := context.Background()

	w.flushSafe(ctx, []model.RequestEvent{event(1), event(2), event(3)})

	assert.Equal(t, 2, store.count(), "rows 1 and 3 recovered one by one")

	queued, err := rdb.LRange(ctx, config.WorkerKey.RequestAuditQueue, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, queued, 1)

	var back model.RequestEvent
	require.NoError(t, json.Unmarshal([]byte(queued[0]), &back))
	assert.Equal(t, 2, back.RequestID)
}
