package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestFileStore_SetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, ports.KeyAuthToken, "tok123"))

	got, err := s.Get(ctx, ports.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok123", got)
}

func TestFileStore_GetMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), ports.KeyUser)
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestFileStore_Overwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, ports.KeyUserType, "customer"))
	require.NoError(t, s.Set(ctx, ports.KeyUserType, "courier"))

	got, err := s.Get(ctx, ports.KeyUserType)
	require.NoError(t, err)
	assert.Equal(t, "courier", got)
}

func TestFileStore_RemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, ports.KeyAuthToken, "tok"))
	require.NoError(t, s.Remove(ctx, ports.KeyAuthToken))
	require.NoError(t, s.Remove(ctx, ports.KeyAuthToken))

	_, err := s.Get(ctx, ports.KeyAuthToken)
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestFileStore_RejectsPathEscapingKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../outside", "a/b", ".hidden"} {
		if err := s.Set(ctx, key, "v"); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := ports.KeyAuthToken
			_ = s.Set(ctx, key, fmt.Sprintf("tok-%d", i))
			_, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, ports.KeyAuthToken)
	require.NoError(t, err)
	assert.Contains(t, got, "tok-")
}

func TestFileStore_ContextCancelled(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, ports.KeyUser, "{}"); err == nil {
		t.Fatal("expected context error")
	}
}
