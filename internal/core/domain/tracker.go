package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTrackerLabelEmpty = errors.New("tracker label cannot be empty")
	ErrTrackerEmojiEmpty = errors.New("tracker emoji cannot be empty")
	ErrInvalidEmoji      = errors.New("emoji is not part of the tracker emoji list")
	ErrInvalidColor      = errors.New("color is not part of the tracker palette")
	ErrTrackerNotFound   = errors.New("tracker not found")
)

// Color is a palette entry in #RRGGBB form.
type Color string

// Palette is the fixed selection palette; tracker colors must be members.
var Palette = []Color{
	"#FD4C49", "#FF881E", "#007BFA", "#6E44FE", "#33CF69", "#E66DD4",
	"#F9D4D4", "#34A7FE", "#46E69D", "#35347C", "#FF674D", "#FF99CC",
	"#F6C48B", "#7994F5", "#832CF1", "#AD56DA", "#8D72E3", "#2FD058",
}

// Emojis is the fixed selection list; tracker emojis must be members.
var Emojis = []string{
	"🙂", "😻", "🌺", "🐶", "❤️", "😱", "😇", "😡", "🥶",
	"🤔", "🙌", "🍔", "🥦", "🏓", "🥇", "🎸", "🏝", "😪",
}

// Tracker is a user-defined recurring habit or one-off event.
//
// CompletedCount and Completed are derived for a queried date by the
// filtered view; they are never persisted.
type Tracker struct {
	ID         string   `json:"id" db:"id"`
	Label      string   `json:"label" db:"label"`
	Emoji      string   `json:"emoji" db:"emoji"`
	Color      Color    `json:"color" db:"color"`
	Schedule   Schedule `json:"schedule,omitempty"`
	Pinned     bool     `json:"pinned" db:"pinned"`
	CategoryID string   `json:"category_id" db:"category_id"`

	CompletedCount int  `json:"completed_count"`
	Completed      bool `json:"completed"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func validTrackerColor(color Color) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}

func validTrackerEmoji(emoji string) bool {
	for _, e := range Emojis {
		if e == emoji {
			return true
		}
	}
	return false
}

func validateTracker(label, emoji string, color Color) (string, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", ErrTrackerLabelEmpty
	}

	if strings.TrimSpace(emoji) == "" {
		return "", ErrTrackerEmojiEmpty
	}
	if !validTrackerEmoji(emoji) {
		return "", ErrInvalidEmoji
	}

	if !validTrackerColor(color) {
		return "", ErrInvalidColor
	}

	return trimmed, nil
}

func NewTracker(label, emoji string, color Color, schedule Schedule, pinned bool, categoryID string) (*Tracker, error) {
	trimmed, err := validateTracker(label, emoji, color)
	if err != nil {
		return nil, err
	}

	normalized, err := NewSchedule(schedule...)
	if err != nil {
		return nil, err
	}

	return &Tracker{
		ID:         uuid.New().String(),
		Label:      trimmed,
		Emoji:      emoji,
		Color:      color,
		Schedule:   normalized,
		Pinned:     pinned,
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Update replaces the mutable fields. Identity, category and creation time
// are untouched; category reassignment is a service-level concern.
func (t *Tracker) Update(label, emoji string, color Color, schedule Schedule, pinned bool) error {
	trimmed, err := validateTracker(label, emoji, color)
	if err != nil {
		return err
	}

	normalized, err := NewSchedule(schedule...)
	if err != nil {
		return err
	}

	t.Label = trimmed
	t.Emoji = emoji
	t.Color = color
	t.Schedule = normalized
	t.Pinned = pinned

	return nil
}
