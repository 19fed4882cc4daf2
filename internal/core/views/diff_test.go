package views_test

import (
	"testing"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"
	"github.com/AndreiChenchik/trackerkit/internal/core/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(id string, itemIDs ...string) views.Section {
	s := views.Section{ID: id, Label: id}
	for _, itemID := range itemIDs {
		s.Items = append(s.Items, views.Item{ID: itemID, Fingerprint: itemID})
	}
	return s
}

func TestDiff_Empty(t *testing.T) {
	assert.True(t, views.Diff(nil, nil).Empty())

	same := views.Snapshot{section("a", "1", "2")}
	assert.True(t, views.Diff(same, same).Empty())
}

func TestDiff_SectionInsertRemove(t *testing.T) {
	old := views.Snapshot{section("a", "1"), section("b", "2")}
	now := views.Snapshot{section("b", "2"), section("c", "3")}

	changes := views.Diff(old, now)

	assert.Equal(t, []int{0}, changes.SectionsRemoved)
	assert.Equal(t, []int{1}, changes.SectionsInserted)
	assert.Empty(t, changes.SectionsMoved)

	// Items of a removed section are removed, items of an inserted one
	// inserted.
	assert.Equal(t, []views.IndexPath{{Section: 0, Item: 0}}, changes.ItemsRemoved)
	assert.Equal(t, []views.IndexPath{{Section: 1, Item: 0}}, changes.ItemsInserted)
}

func TestDiff_EverythingDisappears(t *testing.T) {
	old := views.Snapshot{section("a", "1", "2"), section("b", "3")}

	changes := views.Diff(old, nil)

	assert.Equal(t, []int{0, 1}, changes.SectionsRemoved)
	assert.Len(t, changes.ItemsRemoved, 3)
	assert.Empty(t, changes.ItemsInserted)
}

func TestDiff_SectionMove(t *testing.T) {
	old := views.Snapshot{section("a", "1"), section("b", "2"), section("c", "3")}
	now := views.Snapshot{section("c", "3"), section("a", "1"), section("b", "2")}

	changes := views.Diff(old, now)

	require.Len(t, changes.SectionsMoved, 1)
	assert.Equal(t, views.SectionMove{From: 2, To: 0}, changes.SectionsMoved[0])
	assert.Empty(t, changes.ItemsMoved)
}

func TestDiff_ItemMoveWithinSection(t *testing.T) {
	old := views.Snapshot{section("a", "1", "2", "3")}
	now := views.Snapshot{section("a", "3", "1", "2")}

	changes := views.Diff(old, now)

	require.Len(t, changes.ItemsMoved, 1)
	assert.Equal(t, views.ItemMove{
		From: views.IndexPath{Section: 0, Item: 2},
		To:   views.IndexPath{Section: 0, Item: 0},
	}, changes.ItemsMoved[0])
	assert.Empty(t, changes.ItemsInserted)
	assert.Empty(t, changes.ItemsRemoved)
}

func TestDiff_ItemMoveAcrossSections(t *testing.T) {
	// A tracker getting pinned leaves its home section for the pinned one.
	old := views.Snapshot{section("home", "1", "2")}
	now := views.Snapshot{section("pinned", "1"), section("home", "2")}

	changes := views.Diff(old, now)

	assert.Equal(t, []int{0}, changes.SectionsInserted)
	require.Len(t, changes.ItemsMoved, 1)
	assert.Equal(t, views.ItemMove{
		From: views.IndexPath{Section: 0, Item: 0},
		To:   views.IndexPath{Section: 0, Item: 0},
	}, changes.ItemsMoved[0])
}

func TestDiff_FingerprintChangeIsUpdateNotReplace(t *testing.T) {
	old := views.Snapshot{section("a", "1", "2")}
	now := views.Snapshot{section("a", "1", "2")}
	now[0].Items[1].Fingerprint = "2-completed"

	changes := views.Diff(old, now)

	assert.Empty(t, changes.ItemsInserted)
	assert.Empty(t, changes.ItemsRemoved)
	assert.Empty(t, changes.ItemsMoved)
	assert.Equal(t, []views.IndexPath{{Section: 0, Item: 1}}, changes.ItemsUpdated)
}

func TestNewSnapshot(t *testing.T) {
	completed := domain.Tracker{ID: "t1", Label: "Run", Completed: true}
	pending := domain.Tracker{ID: "t1", Label: "Run", Completed: false}

	withRecord := views.NewSnapshot([]domain.FilteredCategory{
		{ID: "c1", Label: "Home", Trackers: []domain.Tracker{completed}},
	})
	withoutRecord := views.NewSnapshot([]domain.FilteredCategory{
		{ID: "c1", Label: "Home", Trackers: []domain.Tracker{pending}},
	})

	require.Len(t, withRecord, 1)
	assert.Equal(t, "c1", withRecord[0].ID)
	require.Len(t, withRecord[0].Items, 1)

	// Same identity, different fingerprint: completion toggles show as
	// in-place updates downstream.
	assert.Equal(t, withRecord[0].Items[0].ID, withoutRecord[0].Items[0].ID)
	assert.NotEqual(t, withRecord[0].Items[0].Fingerprint, withoutRecord[0].Items[0].Fingerprint)

	assert.Empty(t, views.NewSnapshot(nil))
}
