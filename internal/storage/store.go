// Package storage provides the device-local key-value store that session
// and cart state are persisted to. Values are opaque strings, typically JSON.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key-value store scoped to the client device.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Nop is a Store with nothing behind it. Reads report ErrNotFound and
// writes succeed without effect.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, error) { return "", ErrNotFound }
func (Nop) Set(context.Context, string, string) error { return nil }
func (Nop) Delete(context.Context, string) error { return nil }

// OrNop returns s, or Nop when s is nil.
func OrNop(s Store) Store {
	if s == nil {
		return Nop{}
	}
	return s
}
