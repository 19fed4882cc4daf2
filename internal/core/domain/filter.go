package domain

// FilterMode selects which trackers the filtered view surfaces for a
// given date.
type FilterMode int

const (
	// FilterAll includes every tracker, subject only to the search text.
	FilterAll FilterMode = iota
	// FilterToday includes trackers scheduled for the selected weekday;
	// events (empty schedule) pass for any date.
	FilterToday
	// FilterDone includes trackers completed on the selected day.
	FilterDone
	// FilterNotDone includes trackers scheduled for the selected weekday
	// that are not completed on it.
	FilterNotDone
)

func (m FilterMode) String() string {
	switch m {
	case FilterAll:
		return "all"
	case FilterToday:
		return "today"
	case FilterDone:
		return "done"
	case FilterNotDone:
		return "notDone"
	default:
		return "unknown"
	}
}

// FilteredCategory is one section of the filtered view: a category (real
// or the pinned pseudo-category) with its surviving trackers, annotated
// with completion state for the queried date.
type FilteredCategory struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Trackers []Tracker `json:"trackers"`
}
