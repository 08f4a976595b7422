package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/millesime/barrels/internal/storage"
)

// SaveForLater parks the whole cart in the saved slot and empties it. If the
// slot cannot be written, or there is no store behind the manager, the cart
// is left as it was.
func (m *Manager) SaveForLater(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store.(storage.Nop); ok {
		return nil
	}
	data, err := encodeItems(m.items)
	if err != nil {
		return fmt.Errorf("cart.SaveForLater: %w", err)
	}
	if err := m.store.Set(ctx, KeySaved, data); err != nil {
		return fmt.Errorf("cart.SaveForLater: %w", err)
	}
	m.items = nil
	m.persist(ctx)
	return nil
}

// RestoreSaved replaces the cart with the saved slot and clears the slot.
// It reports whether anything was restored. Unreadable slot data is logged
// and the cart is left unchanged.
func (m *Manager) RestoreSaved(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Get(ctx, KeySaved)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("read saved cart failed", "error", err)
		}
		return false
	}
	items, err := decodeItems(raw)
	if err != nil {
		m.logger.Warn("ignoring corrupt saved cart", "error", err)
		return false
	}

	m.items = items
	if err := m.store.Delete(ctx, KeySaved); err != nil {
		m.logger.Warn("delete saved cart failed", "error", err)
	}
	m.persist(ctx)
	return true
}

// HasSaved reports whether a saved cart is waiting.
func (m *Manager) HasSaved(ctx context.Context) bool {
	_, err := m.store.Get(ctx, KeySaved)
	return err == nil
}
