package schedule

import (
	"strings"

	"github.com/jpi-tools/schedule-export/core/model"
)

// DayStartHour is the hour at which a new working day begins on the grid.
const DayStartHour = 7

// FillerLabel marks the cells of a task after its informational rows.
const FillerLabel = "---"

// DefaultSetupMarkers identify changeover tasks by name.
var DefaultSetupMarkers = []string{"SETUP", "SET UP"}

// SpanCell describes one slot occupied by a task on its machine.
type SpanCell struct {
	// Position is the 1-based index of the slot within the task span.
	Position int
	Slot     Slot
	Job      model.Job
	Task     model.Task
	Setup    bool
}

// LabelRule produces the label of a span cell when it applies.
type LabelRule struct {
	Name    string
	Applies func(SpanCell) bool
	Label   func(SpanCell) string
}

// DefaultRules returns the label rules in precedence order. The last rule
// always applies.
func DefaultRules() []LabelRule {
	return []LabelRule{
		{
			Name:    "task",
			Applies: func(c SpanCell) bool { return c.Position == 1 },
			Label:   func(c SpanCell) string { return "Task: " + c.Task.DisplayName() },
		},
		{
			Name:    "resin",
			Applies: func(c SpanCell) bool { return c.Position == 2 },
			Label:   func(c SpanCell) string { return "Resin: " + orNA(c.Task.CustomFieldValue1) },
		},
		{
			Name:    "lines",
			Applies: func(c SpanCell) bool { return c.Position == 3 && c.Setup },
			Label:   func(c SpanCell) string { return "Lines: " + orNA(c.Job.CustomFieldValue1) },
		},
		{
			Name:    "continue",
			Applies: func(c SpanCell) bool { return c.Slot.Time.Hour() == DayStartHour },
			Label:   func(c SpanCell) string { return "Continue: " + c.Task.DisplayName() },
		},
		{
			Name:    "filler",
			Applies: func(SpanCell) bool { return true },
			Label:   func(SpanCell) string { return FillerLabel },
		},
	}
}

// Label evaluates rules top to bottom and returns the label of the first one
// that applies.
func Label(rules []LabelRule, c SpanCell) string {
	for _, r := range rules {
		if r.Applies(c) {
			return r.Label(c)
		}
	}
	return FillerLabel
}

// IsSetup reports whether the upper-cased task name contains one of markers.
func IsSetup(name string, markers []string) bool {
	upper := strings.ToUpper(name)
	for _, m := range markers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
