package schedule

import (
	"iter"
	"time"

	"github.com/jpi-tools/schedule-export/core/model"
)

// Timeline is the half-open hourly range [Start, End) covered by the grid.
// Both bounds are midnight aligned.
type Timeline struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Slot is one hour of the timeline and the grid row it occupies.
type Slot struct {
	Row  int
	Time time.Time
}

// NewTimeline derives the timeline from the planning settings: it starts at
// midnight DaysBeforePlanningStart days before the planning start and ends at
// the midnight following the planning horizon.
func NewTimeline(s model.Settings) (Timeline, error) {
	if err := s.Validate(); err != nil {
		return Timeline{}, err
	}
	start, err := model.ParseTimestamp("PlanningStart", s.PlanningStart)
	if err != nil {
		return Timeline{}, err
	}
	tl := Timeline{
		Start: model.Midnight(start.AddDate(0, 0, -*s.DaysBeforePlanningStart)),
		End:   model.Midnight(start.AddDate(0, 0, 7*(*s.PlanningHorizon)+1)),
	}
	if !tl.Start.Before(tl.End) {
		return Timeline{}, &model.ShapeError{Record: "settings", Field: "PlanningHorizon", Reason: "timeline is empty"}
	}
	return tl, nil
}

// Len returns the number of hourly slots.
func (tl Timeline) Len() int {
	return int(tl.End.Sub(tl.Start) / time.Hour)
}

// Slots yields every hour in [Start, End) in ascending order. The sequence can
// be ranged over any number of times.
func (tl Timeline) Slots() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		row := FirstSlotRow
		for t := tl.Start; t.Before(tl.End); t = t.Add(time.Hour) {
			if !yield(Slot{Row: row, Time: t}) {
				return
			}
			row++
		}
	}
}

// Row returns the grid row of the slot starting at t.
func (tl Timeline) Row(t time.Time) (int, bool) {
	if t.Before(tl.Start) || !t.Before(tl.End) {
		return 0, false
	}
	d := t.Sub(tl.Start)
	if d%time.Hour != 0 {
		return 0, false
	}
	return FirstSlotRow + int(d/time.Hour), true
}

// CoversDate reports whether the calendar day of d lies between the start and
// end dates of the timeline, both inclusive.
func (tl Timeline) CoversDate(d time.Time) bool {
	day := model.Midnight(d)
	return !day.Before(model.Midnight(tl.Start)) && !day.After(model.Midnight(tl.End))
}
