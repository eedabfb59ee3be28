package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/recall/internal/spacedrep"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCollection(t *testing.T, s *Store, name string) *Collection {
	t.Helper()
	c := &Collection{Name: name}
	require.NoError(t, s.CollectionRepo().Create(context.Background(), c))
	return c
}

func seedItem(t *testing.T, s *Store, collectionID, prompt string, created time.Time) *Item {
	t.Helper()
	it := &Item{CollectionID: collectionID, Prompt: prompt, Answer: prompt + "!", CreatedAt: created}
	require.NoError(t, s.ItemRepo().Create(context.Background(), it))
	return it
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	require.NotNil(t, s.DB())
	require.NoError(t, s.DB().Ping())
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestFileDatabaseUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recall.db")
	require.NoError(t, EnsureDir(path))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "x", "custom.db")
	t.Setenv("RECALL_DB", want)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.DirExists(t, filepath.Dir(want))
}

func TestDefaultDBPathFromXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECALL_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "recall", "recall.db"), got)
}

func TestSequenceCounterMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		require.NoError(t, err)
		if i > 0 {
			assert.Equal(t, prev+1, seq)
		}
		prev = seq
	}
}

func TestCollectionCRUD(t *testing.T) {
	s := openTestStore(t)
	repo := s.CollectionRepo()
	ctx := context.Background()

	c := seedCollection(t, s, "spanish")
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "spanish", got.Name)

	byName, err := repo.GetByName(ctx, "spanish")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byName.ID)

	seedCollection(t, s, "algebra")
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "algebra", all[0].Name)

	err = repo.Create(ctx, &Collection{Name: "spanish"})
	assert.Error(t, err, "duplicate names must be rejected")

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionDeleteCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCollection(t, s, "geo")
	it := seedItem(t, s, c.ID, "capital of peru", time.Now())

	require.NoError(t, s.EventRepo().AppendAttempt(ctx, AttemptData{
		CollectionID: c.ID, ItemID: it.ID, Correct: true, Quality: 4,
	}))

	require.NoError(t, s.CollectionRepo().Delete(ctx, c.ID))

	_, err := s.ItemRepo().Get(ctx, it.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	attempts, err := s.EventRepo().AttemptsForCollection(ctx, c.ID, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, attempts)

	assert.ErrorIs(t, s.CollectionRepo().Delete(ctx, c.ID), ErrNotFound)
}

func TestItemCreateDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCollection(t, s, "c")

	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	it := seedItem(t, s, c.ID, "hola", created)

	got, err := s.ItemRepo().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "hola", got.Prompt)
	assert.Equal(t, "hola!", got.Answer)
	assert.Equal(t, spacedrep.DefaultEaseFactor, got.EaseFactor)
	assert.Equal(t, 0, got.IntervalDays)
	assert.Equal(t, 0, got.Repetitions)
	assert.True(t, got.NextReviewAt.Equal(created), "new item is due at creation, got %v", got.NextReviewAt)
}

func TestItemValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCollection(t, s, "c")

	tests := []struct {
		name string
		item Item
	}{
		{"no collection", Item{Prompt: "p", Answer: "a"}},
		{"no prompt", Item{CollectionID: c.ID, Prompt: "  ", Answer: "a"}},
		{"no answer", Item{CollectionID: c.ID, Prompt: "p"}},
		{"low ease", Item{
			CollectionID: c.ID, Prompt: "p", Answer: "a",
			Item: spacedrep.Item{EaseFactor: 1.0, NextReviewAt: time.Now()},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := tt.item
			assert.ErrorIs(t, s.ItemRepo().Create(ctx, &it), ErrInvalidItem)
		})
	}
}

func TestListItemsCreationOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCollection(t, s, "c")
	other := seedCollection(t, s, "other")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedItem(t, s, c.ID, "b", base.Add(time.Minute))
	seedItem(t, s, c.ID, "a", base)
	seedItem(t, s, other.ID, "z", base)

	items, err := s.ItemRepo().ListItems(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Prompt)
	assert.Equal(t, "b", items[1].Prompt)
}

func TestSaveScheduleReplacesFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCollection(t, s, "c")
	it := seedItem(t, s, c.ID, "q", time.Now())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := spacedrep.ComputeNextSchedule(it.Item, 5, now)
	require.NoError(t, s.ItemRepo().SaveSchedule(ctx, next))

	got, err := s.ItemRepo().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Repetitions)
	assert.Equal(t, 1, got.IntervalDays)
	assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
	assert.True(t, got.NextReviewAt.Equal(now.Add(spacedrep.Day)))
	assert.Equal(t, "q", got.Prompt, "content untouched")

	missing := spacedrep.NewItem("nope", now)
	assert.ErrorIs(t, s.ItemRepo().SaveSchedule(ctx, missing), ErrNotFound)
}

func TestResetSchedules(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCollection(t, s, "c")
	it := seedItem(t, s, c.ID, "q", time.Now())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.ItemRepo().SaveSchedule(ctx, spacedrep.ComputeNextSchedule(it.Item, 5, now)))

	n, err := s.ItemRepo().ResetSchedules(ctx, c.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.ItemRepo().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Repetitions)
	assert.Equal(t, spacedrep.DefaultEaseFactor, got.EaseFactor)
	assert.True(t, got.NextReviewAt.Equal(now))
}

func TestAttemptsAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCollection(t, s, "c")
	a := seedItem(t, s, c.ID, "a", time.Now())
	b := seedItem(t, s, c.ID, "b", time.Now())
	events := s.EventRepo()

	for i, data := range []AttemptData{
		{SessionID: "s1", CollectionID: c.ID, ItemID: a.ID, Correct: true, TimeSpent: 1500 * time.Millisecond, Quality: 4},
		{SessionID: "s1", CollectionID: c.ID, ItemID: b.ID, Correct: false, TimeSpent: 3 * time.Second, Quality: 1},
		{CollectionID: c.ID, ItemID: a.ID, Correct: false, TimeSpent: time.Second, Quality: 2},
	} {
		require.NoError(t, events.AppendAttempt(ctx, data), "attempt %d", i)
	}

	forA, err := events.AttemptsForItem(ctx, a.ID, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, forA, 2)
	assert.True(t, forA[0].Correct)
	assert.Equal(t, 1500*time.Millisecond, forA[0].TimeSpent)
	assert.Equal(t, "s1", forA[0].SessionID)
	assert.Less(t, forA[0].Sequence, forA[1].Sequence)
	assert.Equal(t, 2, forA[1].Quality)

	all, err := events.AttemptsForCollection(ctx, c.ID, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := events.AttemptsForCollection(ctx, c.ID, QueryOpts{Limit: 1, After: all[0].Sequence})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, b.ID, limited[0].ItemID)

	assert.Error(t, events.AppendAttempt(ctx, AttemptData{CollectionID: c.ID}))
}

func TestSessionResultsOnlyEndEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	require.NoError(t, events.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", CollectionID: "c", Action: SessionActionStart, Target: 10,
	}))
	require.NoError(t, events.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", CollectionID: "c", Action: SessionActionEnd, Target: 10,
		Presented: 10, Correct: 7, Incorrect: 3, Duration: 95 * time.Second,
	}))
	require.NoError(t, events.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s2", CollectionID: "c", Action: SessionActionStart, Target: 5,
	}))

	got, err := events.SessionResults(ctx, "c", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SessionID)
	assert.Equal(t, 7, got[0].Correct)
	assert.Equal(t, 3, got[0].Incorrect)
	assert.False(t, got[0].Underflow)
	assert.Equal(t, 95*time.Second, got[0].Duration)

	err = events.AppendSessionEvent(ctx, SessionEventData{SessionID: "s3", Action: "pause"})
	assert.Error(t, err)
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, snap, "expected nil snapshot when none exist")

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		CollectionID: "c",
		Sequence:     42,
		Timestamp:    now,
		Data: SnapshotData{Version: 1, Stats: &StatsSnapshotData{
			TotalItems: 3, Correct: 4, Incorrect: 1, Accuracy: 80,
		}},
	})
	require.NoError(t, err)

	snap, err = repo.Latest(ctx, "c")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(42), snap.Sequence)
	assert.True(t, snap.Timestamp.Equal(now))
	assert.Equal(t, 1, snap.Data.Version)
	require.NotNil(t, snap.Data.Stats)
	assert.Equal(t, 80.0, snap.Data.Stats.Accuracy)

	other, err := repo.Latest(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, other, "snapshots are scoped per collection")
}

func TestSnapshotSaveAssignsSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap := &Snapshot{CollectionID: "c", Data: SnapshotData{Version: 1}}
	require.NoError(t, s.SnapshotRepo().Save(ctx, snap))
	assert.Positive(t, snap.Sequence)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		err := repo.Save(ctx, &Snapshot{
			CollectionID: "c",
			Sequence:     int64(i + 1),
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
			Data:         SnapshotData{Version: 1},
		})
		require.NoError(t, err, "save snapshot %d", i)
	}
	require.NoError(t, repo.Save(ctx, &Snapshot{CollectionID: "keep-me", Sequence: 99, Timestamp: base}))

	require.NoError(t, repo.Prune(ctx, "c", 2))

	snaps, err := repo.List(ctx, "c", 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, int64(5), snaps[0].Sequence)
	assert.Equal(t, int64(4), snaps[1].Sequence)

	untouched, err := repo.List(ctx, "keep-me", 0)
	require.NoError(t, err)
	assert.Len(t, untouched, 1)

	// Pruning with fewer than keep is a no-op.
	require.NoError(t, repo.Prune(ctx, "c", 10))
	snaps, err = repo.List(ctx, "c", 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}
