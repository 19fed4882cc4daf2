package domain

import "time"

const dayLayout = "2006-01-02"

// DayKey truncates t to its calendar day in t's own location. It is the
// record identity component and the SQLite storage form of the date.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDayKey is the inverse of DayKey. The returned time is midnight UTC.
func ParseDayKey(key string) (time.Time, error) {
	return time.Parse(dayLayout, key)
}

// TrackerRecord is proof that a tracker was completed on a calendar day.
// Identity is the (TrackerID, Day) pair; records are immutable, deletion is
// the only mutation.
type TrackerRecord struct {
	TrackerID string    `json:"tracker_id" db:"tracker_id"`
	Day       string    `json:"day" db:"day"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewTrackerRecord(trackerID string, date time.Time) *TrackerRecord {
	return &TrackerRecord{
		TrackerID: trackerID,
		Day:       DayKey(date),
		CreatedAt: time.Now().UTC(),
	}
}
