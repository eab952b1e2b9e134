package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (s *countingSyncer) SyncAll(ctx context.Context) (*SyncResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &SyncResult{}, nil
}

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(ctx context.Context) error {
	r.calls.Add(1)
	return nil
}

// TestRefresher_RunsPeriodically tests the initial refresh and ticks.
// Follows AAA pattern.
func TestRefresher_RunsPeriodically(t *testing.T) {
	// Arrange
	syncer := &countingSyncer{}
	reloader := &countingReloader{}
	r := NewRefresher(syncer, reloader, 20*time.Millisecond, testLogger())
	r.initialDelay = time.Millisecond

	// Act
	r.Start()
	r.Start() // second start is a no-op

	// Assert
	require.Eventually(t, func() bool { return reloader.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	r.Stop()
	r.Stop()
	stopped := syncer.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, syncer.calls.Load(), "no refresh after Stop")
}

func TestRefresher_SyncErrorSkipsReload(t *testing.T) {
	syncer := &countingSyncer{err: errors.New("interrupted")}
	reloader := &countingReloader{}
	r := NewRefresher(syncer, reloader, time.Hour, testLogger())
	r.initialDelay = time.Millisecond

	r.Start()
	require.Eventually(t, func() bool { return syncer.calls.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
	r.Stop()

	assert.Equal(t, int32(0), reloader.calls.Load())
}

func TestRefresher_StopBeforeFirstRefresh(t *testing.T) {
	syncer := &countingSyncer{}
	r := NewRefresher(syncer, &countingReloader{}, time.Hour, testLogger())
	r.initialDelay = time.Hour

	r.Start()
	r.Stop()

	assert.Equal(t, int32(0), syncer.calls.Load())
}

// TestWatcher_DebouncesWrites tests that a burst of writes triggers one change.
func TestWatcher_DebouncesWrites(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.db")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0644))

	var changes atomic.Int32
	w, err := NewWatcher(path, 100*time.Millisecond, func(ctx context.Context) { changes.Add(1) }, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// Act
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
	}

	// Assert
	require.Eventually(t, func() bool { return changes.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.db")

	var changes atomic.Int32
	w, err := NewWatcher(path, 50*time.Millisecond, func(ctx context.Context) { changes.Add(1) }, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), changes.Load())
}

func TestWatcher_SQLiteCompanionFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.db")

	var changes atomic.Int32
	w, err := NewWatcher(path, 50*time.Millisecond, func(ctx context.Context) { changes.Add(1) }, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path+"-wal", []byte("x"), 0644))

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}
