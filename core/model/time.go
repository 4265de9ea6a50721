package model

import "time"

// TimeLayout is the timestamp format used by every JPI record.
const TimeLayout = "2006-01-02T15:04:05"

// ParseTimestamp parses a JPI timestamp as a UTC wall-clock value.
func ParseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// Midnight returns t with its clock reset to 00:00:00.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
