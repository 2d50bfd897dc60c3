package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRequestEventBusRoundTrip(t *testing.T) {
	bus := NewRequestEventBus(newTestRedis(t), nopLog)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	sent := model.RequestEvent{
		RequestID: 3,
		AccountID: 7,
		From:      model.RequestPending,
		To:        model.RequestApproved,
		ChangedBy: "admin",
		ChangedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, bus.PublishRequestEvent(ctx, sent))
	queued, err := bus.rdb.LLen(ctx, config.WorkerKey.RequestAuditQueue).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), queued, "event queued for audit")

	select {
	case got := <-events:
		assert.Equal(t, sent.RequestID, got.RequestID)
		assert.Equal(t, sent.To, got.To)
		assert.True(t, sent.ChangedAt.Equal(got.ChangedAt))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel closes after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

func TestRequestEventVisibility(t *testing.T) {
	evt := model.RequestEvent{RequestID: 1, AccountID: 7}

	assert.True(t, VisibleTo(adminClaims(1, "admin"), evt))
	assert.True(t, VisibleTo(studentClaims(7, "owner"), evt))
	assert.False(t, VisibleTo(studentClaims(8, "other"), evt))
}
