package schedule

import "time"

// RoundHour rounds t to the nearest hour, half-up at 30 minutes.
func RoundHour(t time.Time) time.Time {
	h := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	if t.Minute() >= 30 {
		return h.Add(time.Hour)
	}
	return h
}
