package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millesime/barrels/internal/storage"
)

func TestCheckExpiry(t *testing.T) {
	ctx := context.Background()
	var now atomic.Pointer[time.Time]
	now.Store(&testNow)

	var expired atomic.Int32
	m := newTestManager(t, newFakeAPI(t), storage.NewMemory(),
		WithClock(func() time.Time { return *now.Load() }),
		WithExpiryHook(func() { expired.Add(1) }),
	)

	assert.False(t, m.CheckExpiry(ctx), "anonymous session is left alone")

	login(t, m)
	assert.False(t, m.CheckExpiry(ctx), "valid token is left alone")
	assert.True(t, m.Authenticated())

	later := testNow.Add(2 * time.Hour)
	now.Store(&later)
	assert.True(t, m.CheckExpiry(ctx))
	assert.False(t, m.Authenticated())
	assert.Equal(t, int32(1), expired.Load())
}

func TestStart_LogsOutExpiredSession(t *testing.T) {
	later := testNow.Add(2 * time.Hour)
	expired := make(chan struct{}, 1)
	store := storage.NewMemory()
	m := newTestManager(t, newFakeAPI(t), store,
		WithClock(func() time.Time { return later }),
		WithCheckInterval(10*time.Millisecond),
		WithExpiryHook(func() { expired <- struct{}{} }),
	)
	login(t, m)
	require.True(t, m.Authenticated())

	m.Start(context.Background())

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("expired session was not logged out")
	}
	assert.False(t, m.Authenticated())
	_, err := store.Get(context.Background(), KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStart_Idempotent(t *testing.T) {
	m := newTestManager(t, newFakeAPI(t), storage.NewMemory(), WithCheckInterval(10*time.Millisecond))

	m.Start(context.Background())
	first := m.watcher
	m.Start(context.Background())
	assert.Same(t, first, m.watcher)
}

func TestClose(t *testing.T) {
	m := newTestManager(t, newFakeAPI(t), storage.NewMemory(), WithCheckInterval(10*time.Millisecond))

	// Close without Start is fine.
	m.Close()
	m.Close()

	m.Start(context.Background())
	assert.Nil(t, m.watcher, "Start after Close does nothing")
}

func TestClose_StopsWatcher(t *testing.T) {
	m := newTestManager(t, newFakeAPI(t), storage.NewMemory(), WithCheckInterval(10*time.Millisecond))
	m.Start(context.Background())
	w := m.watcher

	m.Close()

	select {
	case <-w.done:
	default:
		t.Fatal("watcher still running after Close")
	}
	m.Close()
}
