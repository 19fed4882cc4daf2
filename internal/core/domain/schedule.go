package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidWeekday = errors.New("invalid weekday (must be 1-7, Sunday=1)")
)

// Weekday numbers days Sunday=1 through Saturday=7. The numbering is part
// of the persistence format and must stay stable across versions.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayOf returns the Weekday of t in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday()) + 1
}

// Schedule is the set of weekdays a habit-type tracker recurs on.
// An empty schedule denotes a one-off "event" tracker.
type Schedule []Weekday

// NewSchedule dedupes and sorts days into a normalized set.
func NewSchedule(days ...Weekday) (Schedule, error) {
	if len(days) == 0 {
		return nil, nil
	}

	seen := make(map[Weekday]bool, len(days))
	var unique Schedule
	for _, d := range days {
		if d < Sunday || d > Saturday {
			return nil, ErrInvalidWeekday
		}
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique, nil
}

// EveryDay is the full-week schedule.
func EveryDay() Schedule {
	return Schedule{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// IsEvent reports whether the schedule denotes a non-recurring tracker.
func (s Schedule) IsEvent() bool {
	return len(s) == 0
}

func (s Schedule) Contains(day Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}
