package services

import (
	"sort"
	"time"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"
)

// Statistics derives the aggregate counters from the full record set.
// Returns nil while no records exist.
func (s *TrackerService) Statistics() *domain.Statistics {
	totalRecords := 0
	activeDays := make(map[string]bool)
	for _, days := range s.records {
		for day := range days {
			totalRecords++
			activeDays[day] = true
		}
	}
	if totalRecords == 0 {
		return nil
	}

	return &domain.Statistics{
		BestPeriod:        s.bestPeriod(),
		IdealDays:         s.idealDays(activeDays),
		CompletedTrackers: len(s.records),
		AverageValue:      float64(totalRecords) / float64(len(activeDays)),
	}
}

// bestPeriod is the longest run of consecutive completed days of any
// single tracker.
func (s *TrackerService) bestPeriod() int {
	best := 0
	for _, days := range s.records {
		dates := make([]time.Time, 0, len(days))
		for day := range days {
			date, err := domain.ParseDayKey(day)
			if err != nil {
				continue
			}
			dates = append(dates, date)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		run := 0
		for i, date := range dates {
			if i > 0 && dates[i-1].AddDate(0, 0, 1).Equal(date) {
				run++
			} else {
				run = 1
			}
			if run > best {
				best = run
			}
		}
	}
	return best
}

// idealDays counts active days on which every scheduled tracker was
// completed. Days with no scheduled trackers do not count as ideal.
func (s *TrackerService) idealDays(activeDays map[string]bool) int {
	ideal := 0
	for day := range activeDays {
		date, err := domain.ParseDayKey(day)
		if err != nil {
			continue
		}
		weekday := domain.WeekdayOf(date)

		scheduled := 0
		completed := 0
		for _, category := range s.categories {
			for _, tracker := range category.Trackers {
				if tracker.Schedule.IsEvent() || !tracker.Schedule.Contains(weekday) {
					continue
				}
				scheduled++
				if s.records[tracker.ID][day] {
					completed++
				}
			}
		}

		if scheduled > 0 && scheduled == completed {
			ideal++
		}
	}
	return ideal
}
