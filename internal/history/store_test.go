package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGet_RoundTripsRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Unix(1700000000, 0),
		Duration:  1250 * time.Millisecond,
		Locales:   3,
		Warnings:  1,
		Hash:      "abc123",
		Trigger:   "manual",
	}
	require.NoError(t, store.Record(ctx, run))

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, run, got)
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Run{
			ID:        uuid.NewString(),
			StartedAt: time.Unix(int64(1700000000+i), 0),
			Duration:  time.Second,
			Locales:   1,
			Hash:      "h",
			Trigger:   "schedule",
		}))
	}

	runs, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	require.True(t, runs[1].StartedAt.After(runs[2].StartedAt))
}

func TestRecent_DefaultLimitWhenNonPositive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Run{ID: uuid.NewString(), StartedAt: time.Now(), Hash: "h", Trigger: "manual"}))

	runs, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestGet_UnknownIDErrors(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
}
