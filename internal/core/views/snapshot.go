package views

import (
	"fmt"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"
)

// Item is one cell of the list view, identified by tracker id. The
// fingerprint covers every display-relevant field, so a changed
// fingerprint at a stable position means "reconfigure in place" rather
// than "replace".
type Item struct {
	ID          string
	Fingerprint string
}

// Section is one header-plus-cells group, identified by category id.
type Section struct {
	ID    string
	Label string
	Items []Item
}

// Snapshot is the ordered (section, items) state of the list at one point
// in time. An empty snapshot is valid.
type Snapshot []Section

// NewSnapshot projects a filtered query result into diffable form.
func NewSnapshot(categories []domain.FilteredCategory) Snapshot {
	snapshot := make(Snapshot, 0, len(categories))
	for _, category := range categories {
		section := Section{
			ID:    category.ID,
			Label: category.Label,
			Items: make([]Item, 0, len(category.Trackers)),
		}
		for _, tracker := range category.Trackers {
			section.Items = append(section.Items, Item{
				ID:          tracker.ID,
				Fingerprint: fingerprint(tracker),
			})
		}
		snapshot = append(snapshot, section)
	}
	return snapshot
}

func fingerprint(t domain.Tracker) string {
	return fmt.Sprintf("%s|%s|%s|%v|%v|%v|%d",
		t.Label, t.Emoji, t.Color, t.Schedule, t.Pinned, t.Completed, t.CompletedCount)
}
