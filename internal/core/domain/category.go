package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCategoryLabelEmpty = errors.New("category label cannot be empty")
	ErrCategoryNotFound   = errors.New("category not found")
)

// Reserved identity of the synthetic pseudo-category that surfaces pinned
// trackers at the top of the filtered view. It is display-only: pinned
// trackers keep their real CategoryID and it never reaches the store.
const (
	PinnedCategoryID    = "pinned"
	PinnedCategoryLabel = "Pinned"
)

// TrackerCategory is a user-defined grouping of trackers.
//
// Trackers is materialized by the repository from the tracker collection in
// insertion order; it is not a stored column. Categories are never
// auto-deleted, an empty category survives until the user removes it.
type TrackerCategory struct {
	ID    string `json:"id" db:"id"`
	Label string `json:"label" db:"label"`

	Trackers []Tracker `json:"trackers,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewTrackerCategory validates the label and mints an identity. Label
// uniqueness is a UI convention, not enforced here.
func NewTrackerCategory(label string) (*TrackerCategory, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return nil, ErrCategoryLabelEmpty
	}

	return &TrackerCategory{
		ID:        uuid.New().String(),
		Label:     trimmed,
		CreatedAt: time.Now().UTC(),
	}, nil
}
