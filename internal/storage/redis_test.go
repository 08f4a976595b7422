package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() }) //nolint:errcheck
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestRedis(t)
	runStoreContract(t, NewRedisStoreFromClient(client))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStoreFromClient(client, WithPrefix("device-42:"))

	require.NoError(t, store.Set(context.Background(), "auth_token", "tok"))

	got, err := mr.Get("device-42:auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStoreFromClient(client, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart_items", "[]"))
	assert.Equal(t, time.Minute, mr.TTL("millesime:cart_items"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "cart_items")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Ping(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStoreFromClient(client)

	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
