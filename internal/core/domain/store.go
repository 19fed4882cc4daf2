package domain

import "context"

// Snapshot is the full persisted state, as returned by Store.FetchAll.
// Categories and trackers come back in insertion order.
type Snapshot struct {
	Categories []*TrackerCategory
	Trackers   []*Tracker
	Records    []*TrackerRecord
}

// Store is the persistence boundary: an opaque CRUD store with change
// notifications. The repository treats it as authoritative and rebuilds its
// cache from FetchAll on every notification instead of trusting
// incremental deltas.
type Store interface {
	// CreateCategory persists a new category.
	CreateCategory(ctx context.Context, category *TrackerCategory) error

	// UpdateCategory replaces a stored category's mutable fields.
	// Returns ErrCategoryNotFound for an unknown id.
	UpdateCategory(ctx context.Context, category *TrackerCategory) error

	// DeleteCategory removes a category. Trackers are not cascaded; the
	// caller is responsible for reassigning or removing them first.
	DeleteCategory(ctx context.Context, id string) error

	// CreateTracker persists a new tracker under its category.
	// Returns ErrCategoryNotFound when the category does not exist.
	CreateTracker(ctx context.Context, tracker *Tracker) error

	// UpdateTracker replaces a stored tracker's mutable fields, including
	// its category assignment. Returns ErrTrackerNotFound for an unknown id.
	UpdateTracker(ctx context.Context, tracker *Tracker) error

	// DeleteTracker removes a tracker and cascades deletion of its
	// records. Deleting an absent id is a no-op.
	DeleteTracker(ctx context.Context, id string) error

	// CreateRecord persists a completion record. Creating a duplicate
	// (same tracker and day) is an idempotent no-op.
	CreateRecord(ctx context.Context, record *TrackerRecord) error

	// DeleteRecord removes the record for (trackerID, day), if any.
	DeleteRecord(ctx context.Context, trackerID, day string) error

	// FetchAll returns the complete persisted state.
	FetchAll(ctx context.Context) (*Snapshot, error)

	// Subscribe registers a callback fired after every successful mutation
	// by any writer, the repository's own writes included. It returns a
	// function that removes the subscription.
	Subscribe(fn func()) (unsubscribe func())
}
