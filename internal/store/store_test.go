package store

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
	"go.uber.org/goleak"

	"github.com/r381893/hot-work-form/internal/model"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (failingBackend) Put(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func sample(id, name string, updated time.Time) model.FormRecord {
	rec := model.FormRecord{ID: id, CreatedAt: updated, UpdatedAt: updated}
	rec.Before.WorkName = name
	rec.Before.WorkTime = model.WorkTime{Start: "08:00", End: "10:00"}
	return rec
}

func TestLoadAllEmpty(t *testing.T) {
	s := New(NewMemory(), "", nil)
	recs := s.LoadAll(context.Background())
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestLoadAllFailsOpen(t *testing.T) {
	ctx := context.Background()

	mem := NewMemory()
	require.NoError(t, mem.Put(ctx, DefaultKey, []byte("{not json")))
	assert.Empty(t, New(mem, "", nil).LoadAll(ctx))

	assert.Empty(t, New(failingBackend{}, "", nil).LoadAll(ctx))
}

func TestLoadAllFillsMissingIDs(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Put(ctx, DefaultKey, []byte(`{"abc":{"before":{"workName":"Tank Weld","workTime":"08:00-10:00"}}}`)))

	recs := New(mem, "", nil).LoadAll(ctx)
	require.Contains(t, recs, "abc")
	assert.Equal(t, "abc", recs["abc"].ID)
	assert.Equal(t, "10:00", recs["abc"].Before.WorkTime.End)
}

func TestSaveAllSingleWrite(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := New(mem, "", nil)

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveAll(ctx, map[string]model.FormRecord{
		"a": sample("a", "one", now),
		"b": sample("b", "two", now),
	}))
	assert.Equal(t, 1, mem.Puts())

	recs := s.LoadAll(ctx)
	assert.Len(t, recs, 2)
	assert.Equal(t, "two", recs["b"].Before.WorkName)
	assert.True(t, now.Equal(recs["a"].UpdatedAt))
}

func TestSaveAllPropagatesBackendError(t *testing.T) {
	err := New(failingBackend{}, "", nil).SaveAll(context.Background(), nil)
	assert.ErrorContains(t, err, "disk on fire")
}

func TestDeleteLeavesOthersUntouched(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), "", nil)
	now := time.Now().UTC()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, sample(id, "name-"+id, now)))
	}
	before := s.LoadAll(ctx)

	require.NoError(t, s.Delete(ctx, "b"))
	after := s.LoadAll(ctx)

	assert.NotContains(t, after, "b")
	assert.Len(t, after, 2)
	assert.Equal(t, before["a"], after["a"])
	assert.Equal(t, before["c"], after["c"])

	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestPutRequiresID(t *testing.T) {
	s := New(NewMemory(), "", nil)
	assert.Error(t, s.Put(context.Background(), model.FormRecord{}))
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "application.db")

	b, err := OpenSQLite(path)
	require.NoError(t, err)

	_, ok, err := b.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)

	s := New(b, "", nil)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put(ctx, sample("a", "Tank Weld", now)))
	require.NoError(t, s.Put(ctx, sample("b", "Pipe Cut", now)))
	require.NoError(t, b.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	recs := New(reopened, "", nil).LoadAll(ctx)
	require.Len(t, recs, 2)
	assert.Equal(t, "Tank Weld", recs["a"].Before.WorkName)

	require.NoError(t, reopened.Put(ctx, DefaultKey, []byte("garbage")))
	assert.Empty(t, New(reopened, "", nil).LoadAll(ctx))
}

func TestWatchReportsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "application.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func() { calls.Add(1) })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("y"), 0644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0644))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
