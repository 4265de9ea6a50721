package schedule

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jpi-tools/schedule-export/core/model"
)

// ErrWorkWindowOrder is wrapped by the ParseError returned for inverted or
// overlapping work windows.
var ErrWorkWindowOrder = errors.New("work windows must not be inverted or overlap")

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

type workWindow struct {
	start, end time.Duration // offsets from midnight
	raw        string
}

// OffTimes returns the off-duty intervals of the exception day: the complement
// of its work windows within [D, D+24h), in ascending order.
func OffTimes(exc model.CalendarException) ([]Interval, error) {
	date, err := model.ParseTimestamp("CalendarException.Date", exc.Date)
	if err != nil {
		return nil, err
	}
	day := model.Midnight(date)
	windows, err := parseWorkTime(exc.WorkTime)
	if err != nil {
		return nil, err
	}

	var out []Interval
	open := day
	for _, w := range windows {
		out = append(out, Interval{Start: open, End: day.Add(w.start)})
		open = day.Add(w.end)
	}
	out = append(out, Interval{Start: open, End: day.AddDate(0, 0, 1)})
	return out, nil
}

func parseWorkTime(s string) ([]workWindow, error) {
	var windows []workWindow
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		from, to, ok := strings.Cut(tok, "-")
		if !ok {
			return nil, &model.ParseError{Field: "WorkTime", Value: tok, Err: fmt.Errorf("expected HH:MM-HH:MM")}
		}
		start, err := parseClock(from)
		if err != nil {
			return nil, &model.ParseError{Field: "WorkTime", Value: tok, Err: err}
		}
		end, err := parseClock(to)
		if err != nil {
			return nil, &model.ParseError{Field: "WorkTime", Value: tok, Err: err}
		}
		if end < start {
			return nil, &model.ParseError{Field: "WorkTime", Value: tok, Err: ErrWorkWindowOrder}
		}
		windows = append(windows, workWindow{start: start, end: end, raw: tok})
	}
	slices.SortStableFunc(windows, func(a, b workWindow) int { return cmp.Compare(a.start, b.start) })
	for i := 1; i < len(windows); i++ {
		if windows[i].start < windows[i-1].end {
			return nil, &model.ParseError{Field: "WorkTime", Value: windows[i].raw, Err: ErrWorkWindowOrder}
		}
	}
	return windows, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
