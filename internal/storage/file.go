package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key inside a directory.
type FileStore struct {
	BasePath string
}

// NewFileStore creates a FileStore rooted at basePath.
// If basePath is empty, it defaults to ~/.millesime.
func NewFileStore(basePath string) (*FileStore, error) {
	if basePath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		basePath = dir
	}
	return &FileStore{BasePath: basePath}, nil
}

// DefaultDir returns ~/.millesime.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".millesime"), nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(f.BasePath, key), nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	p, err := f.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.BasePath, 0700); err != nil {
		return fmt.Errorf("create %s: %w", f.BasePath, err)
	}
	// Write to a sibling temp file and rename so readers never see a torn value.
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
