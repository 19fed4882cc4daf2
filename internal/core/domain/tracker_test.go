package domain_test

import (
	"testing"
	"time"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	t.Run("Success: valid tracker gets identity and trimmed label", func(t *testing.T) {
		tracker, err := domain.NewTracker(
			"  Water plants  ", "🙂", "#FD4C49",
			domain.EveryDay(), false, "cat-1",
		)

		require.NoError(t, err)
		assert.NotEmpty(t, tracker.ID)
		assert.Equal(t, "Water plants", tracker.Label)
		assert.Equal(t, "cat-1", tracker.CategoryID)
		assert.False(t, tracker.Pinned)
		assert.Len(t, tracker.Schedule, 7)
		assert.WithinDuration(t, time.Now().UTC(), tracker.CreatedAt, 2*time.Second)
	})

	t.Run("Success: empty schedule denotes an event", func(t *testing.T) {
		tracker, err := domain.NewTracker("Concert", "🎸", "#007BFA", nil, false, "cat-1")

		require.NoError(t, err)
		assert.True(t, tracker.Schedule.IsEvent())
	})

	tests := []struct {
		name    string
		label   string
		emoji   string
		color   domain.Color
		days    domain.Schedule
		wantErr error
	}{
		{"empty label", "   ", "🙂", "#FD4C49", nil, domain.ErrTrackerLabelEmpty},
		{"empty emoji", "Run", "", "#FD4C49", nil, domain.ErrTrackerEmojiEmpty},
		{"emoji outside the list", "Run", "🚀", "#FD4C49", nil, domain.ErrInvalidEmoji},
		{"color outside the palette", "Run", "🙂", "#123456", nil, domain.ErrInvalidColor},
		{"weekday out of range", "Run", "🙂", "#FD4C49", domain.Schedule{8}, domain.ErrInvalidWeekday},
	}

	for _, tt := range tests {
		t.Run("Error: "+tt.name, func(t *testing.T) {
			_, err := domain.NewTracker(tt.label, tt.emoji, tt.color, tt.days, false, "cat-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTracker_Update(t *testing.T) {
	tracker, err := domain.NewTracker("Run", "🙂", "#FD4C49", domain.EveryDay(), false, "cat-1")
	require.NoError(t, err)

	t.Run("replaces mutable fields only", func(t *testing.T) {
		id, createdAt := tracker.ID, tracker.CreatedAt

		err := tracker.Update("Swim", "🏓", "#33CF69", domain.Schedule{domain.Monday}, true)

		require.NoError(t, err)
		assert.Equal(t, id, tracker.ID)
		assert.Equal(t, createdAt, tracker.CreatedAt)
		assert.Equal(t, "Swim", tracker.Label)
		assert.Equal(t, domain.Color("#33CF69"), tracker.Color)
		assert.True(t, tracker.Pinned)
	})

	t.Run("rejects invalid input without partial change", func(t *testing.T) {
		before := *tracker

		err := tracker.Update("", "🙂", "#FD4C49", nil, false)

		assert.ErrorIs(t, err, domain.ErrTrackerLabelEmpty)
		assert.Equal(t, before, *tracker)
	})
}

func TestNewTrackerCategory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		category, err := domain.NewTrackerCategory("Home")

		require.NoError(t, err)
		assert.NotEmpty(t, category.ID)
		assert.Equal(t, "Home", category.Label)
		assert.Empty(t, category.Trackers)
	})

	t.Run("Error: blank label", func(t *testing.T) {
		_, err := domain.NewTrackerCategory("  ")
		assert.ErrorIs(t, err, domain.ErrCategoryLabelEmpty)
	})
}
