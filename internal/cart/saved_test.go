package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millesime/barrels/internal/storage"
)

func TestSaveForLater_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	m := newTestManager(t, store)
	require.NoError(t, m.Add(ctx, margaux(), 2))
	require.NoError(t, m.Add(ctx, rioja(), 1))
	original := m.Items()

	require.NoError(t, m.SaveForLater(ctx))
	assert.Empty(t, m.Items())
	assert.Empty(t, persistedItems(t, store))
	assert.True(t, m.HasSaved(ctx))

	require.True(t, m.RestoreSaved(ctx))
	assert.Equal(t, original, m.Items())
	assert.Equal(t, original, persistedItems(t, store))
	assert.False(t, m.HasSaved(ctx), "restore clears the saved slot")
}

func TestRestoreSaved_Nothing(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, storage.NewMemory())
	require.NoError(t, m.Add(ctx, margaux(), 1))

	assert.False(t, m.RestoreSaved(ctx))
	assert.Equal(t, 1, m.Len())
}

func TestRestoreSaved_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	m := newTestManager(t, store)
	require.NoError(t, m.Add(ctx, margaux(), 3))
	before := m.Items()
	require.NoError(t, store.Set(ctx, KeySaved, "not json"))

	assert.False(t, m.RestoreSaved(ctx))
	assert.Equal(t, before, m.Items())
}

// brokenSlotStore refuses writes to the saved slot.
type brokenSlotStore struct {
	*storage.Memory
}

func (s brokenSlotStore) Set(ctx context.Context, key, value string) error {
	if key == KeySaved {
		return errors.New("disk full")
	}
	return s.Memory.Set(ctx, key, value)
}

func TestSaveForLater_WriteFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, brokenSlotStore{storage.NewMemory()})
	require.NoError(t, m.Add(ctx, margaux(), 1))

	require.Error(t, m.SaveForLater(ctx))
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.HasSaved(ctx))
}

func TestSaveForLater_NoStoreKeepsCart(t *testing.T) {
	ctx := context.Background()
	m := NewManager()
	require.NoError(t, m.Add(ctx, margaux(), 2))
	before := m.Items()

	require.NoError(t, m.SaveForLater(ctx))
	assert.Equal(t, before, m.Items())
	assert.False(t, m.HasSaved(ctx))
	assert.False(t, m.RestoreSaved(ctx))
	assert.Equal(t, before, m.Items())
}
