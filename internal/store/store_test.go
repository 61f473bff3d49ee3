package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BumpStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bump.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestLastBumpAbsent(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LastBump(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should have no bump record")
}

func TestSetAndGetLastBump(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, s.SetLastBump(ctx, want))

	got, ok, err := s.LastBump(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestSetLastBumpOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	second := first.Add(time.Hour)

	require.NoError(t, s.SetLastBump(ctx, first))
	require.NoError(t, s.SetLastBump(ctx, second))

	got, ok, err := s.LastBump(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(second), "last write wins: got %v, want %v", got, second)
}

func TestReopenKeepsRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bump.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	want := time.Now().Truncate(time.Second)
	require.NoError(t, s.SetLastBump(ctx, want))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.LastBump(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(want))
}
