package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	category := fixtureCategory(t)
	require.NoError(t, store.CreateCategory(ctx, category))

	t.Run("Error: tracker under unknown category", func(t *testing.T) {
		orphan := fixtureTracker(t, "missing", "Run")
		assert.ErrorIs(t, store.CreateTracker(ctx, orphan), domain.ErrCategoryNotFound)
	})

	tracker := fixtureTracker(t, category.ID, "Run")
	require.NoError(t, store.CreateTracker(ctx, tracker))

	record := domain.NewTrackerRecord(tracker.ID, time.Date(2006, 1, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, store.CreateRecord(ctx, record))
	require.NoError(t, store.CreateRecord(ctx, record), "duplicate record is a no-op")

	snapshot, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Categories, 1)
	assert.Len(t, snapshot.Trackers, 1)
	assert.Len(t, snapshot.Records, 1)

	require.NoError(t, store.DeleteTracker(ctx, tracker.ID))

	snapshot, err = store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Trackers)
	assert.Empty(t, snapshot.Records, "records cascade with their tracker")
}

func TestMemoryStore_FetchAllReturnsClones(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	category := fixtureCategory(t)
	require.NoError(t, store.CreateCategory(ctx, category))

	snapshot, err := store.FetchAll(ctx)
	require.NoError(t, err)
	snapshot.Categories[0].Label = "Mutated"

	fresh, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Home", fresh.Categories[0].Label)
}

func TestMemoryStore_ReentrantNotification(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	category := fixtureCategory(t)
	require.NoError(t, store.CreateCategory(ctx, category))
	tracker := fixtureTracker(t, category.ID, "Run")

	added := false
	store.Subscribe(func() {
		if added {
			return
		}
		added = true
		// Subscribers may write back into the store from their handler.
		require.NoError(t, store.CreateTracker(ctx, tracker))
	})

	require.NoError(t, store.CreateCategory(ctx, fixtureCategory(t)))

	snapshot, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Trackers, 1)
}

func TestMemoryStore_ForcedError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("boom")
	store.ForcedError = boom

	assert.ErrorIs(t, store.CreateCategory(ctx, fixtureCategory(t)), boom)
	_, err := store.FetchAll(ctx)
	assert.ErrorIs(t, err, boom)

	store.ForcedError = nil
	snapshot, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Categories, "failed writes leave nothing behind")
}
