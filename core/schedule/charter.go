package schedule

import (
	"github.com/jpi-tools/schedule-export/core/model"
)

// Outcome tells what charting one assignment did.
type Outcome int

const (
	// Charted means the task span was written to a machine column.
	Charted Outcome = iota
	// NotMachine means the assigned resource is not a tracked machine.
	NotMachine
	// EmptySpan means the rounded start is not before the rounded end.
	EmptySpan
)

func (o Outcome) String() string {
	switch o {
	case Charted:
		return "charted"
	case NotMachine:
		return "not_machine"
	case EmptySpan:
		return "empty_span"
	default:
		return "unknown"
	}
}

// ChartResult reports the effect of one Chart call.
type ChartResult struct {
	Outcome Outcome
	Column  int
	Cells   int
	Span    Interval
}

// Charter writes task labels onto the grid.
type Charter struct {
	Rules        []LabelRule
	SetupMarkers []string
}

// NewCharter returns a Charter using DefaultRules and DefaultSetupMarkers.
func NewCharter() *Charter {
	return &Charter{Rules: DefaultRules(), SetupMarkers: DefaultSetupMarkers}
}

// Chart labels every grid cell of res's column whose slot lies in the task
// span [RoundHour(Start), RoundHour(End)). Setup task cells are bold.
// Assignments to resources that are not machines are skipped without error.
func (c *Charter) Chart(g *Grid, tl Timeline, cols Columns, job model.Job, task model.Task, res model.AssignedResource) (ChartResult, error) {
	col, ok := cols.Resolve(res)
	if !ok {
		return ChartResult{Outcome: NotMachine}, nil
	}
	start, err := model.ParseTimestamp("Task.Start", task.Start)
	if err != nil {
		return ChartResult{}, err
	}
	end, err := model.ParseTimestamp("Task.End", task.End)
	if err != nil {
		return ChartResult{}, err
	}
	span := Interval{Start: RoundHour(start), End: RoundHour(end)}
	out := ChartResult{Outcome: Charted, Column: col, Span: span}
	if !span.Start.Before(span.End) {
		out.Outcome = EmptySpan
		return out, nil
	}

	setup := IsSetup(task.Name, c.SetupMarkers)
	pos := 0
	for slot := range tl.Slots() {
		if !span.Contains(slot.Time) {
			continue
		}
		pos++
		label := Label(c.Rules, SpanCell{Position: pos, Slot: slot, Job: job, Task: task, Setup: setup})
		g.SetLabel(slot.Row, col, label, setup)
		out.Cells++
	}
	return out, nil
}
