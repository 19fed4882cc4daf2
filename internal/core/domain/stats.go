package domain

// Statistics are aggregate counts derived on demand from the full record
// set. Nothing here is persisted.
type Statistics struct {
	// BestPeriod is the longest run of consecutive completed days of any
	// single tracker.
	BestPeriod int `json:"best_period"`
	// IdealDays counts days on which every tracker scheduled for that
	// weekday was completed.
	IdealDays int `json:"ideal_days"`
	// CompletedTrackers counts distinct trackers with at least one record.
	CompletedTrackers int `json:"completed_trackers"`
	// AverageValue is the mean number of completions per active day, an
	// active day being one with at least one record.
	AverageValue float64 `json:"average_value"`
}
