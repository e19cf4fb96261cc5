// Package store implements the device-local credential store as one file per
// key under a state directory, mirroring the mobile app's async key-value
// storage.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

// FileStore persists each key as <dir>/<key>. Values are opaque strings.
// All operations honour context cancellation before touching the disk; the
// writes themselves are small enough that cancellation mid-write is not a
// concern.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the state directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("state directory path is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the stored value for key, or ports.ErrKeyNotFound if the key
// has never been set or was removed.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.keyPath(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("read key %q: %w", key, err)
	}
	return string(b), nil
}

// Set durably writes value under key. On return the value is readable by
// subsequent Get calls.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove key %q: %w", key, err)
	}
	return nil
}

// keyPath rejects keys that would escape the state directory.
func (s *FileStore) keyPath(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

var _ ports.CredentialStore = (*FileStore)(nil)
