package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract verifies that a Store implementation honours the
// interface contract.
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cart_items", `[{"id":"a"}]`))

		got, err := store.Get(ctx, "cart_items")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"a"}]`, got)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "auth_token", "first"))
		require.NoError(t, store.Set(ctx, "auth_token", "second"))

		got, err := store.Get(ctx, "auth_token")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "user_data", "{}"))
		require.NoError(t, store.Delete(ctx, "user_data"))

		_, err := store.Get(ctx, "user_data")
		assert.ErrorIs(t, err, ErrNotFound, "Get after Delete should return ErrNotFound")
	})

	t.Run("Delete missing", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-set"))
	})

	t.Run("Empty value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cart_saved", ""))
		got, err := store.Get(ctx, "cart_saved")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})
}

func TestMemory_Contract(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var s Store = Nop{}

	assert.NoError(t, s.Set(ctx, "k", "v"))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestOrNop(t *testing.T) {
	assert.IsType(t, Nop{}, OrNop(nil))

	m := NewMemory()
	assert.Same(t, m, OrNop(m))
}
