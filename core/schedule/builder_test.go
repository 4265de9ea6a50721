package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpi-tools/schedule-export/core/model"
	"github.com/jpi-tools/schedule-export/infra/logger"
)

func testInput() Input {
	machines := []model.ResourceGroup{{Guid: "machines"}}
	return Input{
		Settings: settings("2024-03-05T06:00:00", 1, 0),
		Jobs: []model.Job{
			{Name: "J1", CustomFieldValue1: "L4", ExecuteStatus: "Started", Tasks: []model.Task{
				{Name: "Setup mould", Start: "2024-03-04T06:00:00", End: "2024-03-04T10:00:00", TaskStatus: "Started",
					AssignedResources: []model.AssignedResource{{Guid: "m1", Name: "Press 1"}, {Guid: "op1", Name: "Ann"}, {Guid: "op2", Name: "Bob"}}},
				{Name: "Mould", CustomFieldValue1: "PP", Start: "2024-03-04T10:00:00", End: "2024-03-05T08:00:00", TaskStatus: "Planned",
					AssignedResources: []model.AssignedResource{{Guid: "m1", Name: "Press 1"}}},
				{Name: "Old", Start: "2024-03-04T00:00:00", End: "2024-03-04T05:00:00", TaskStatus: "Completed",
					AssignedResources: []model.AssignedResource{{Guid: "m2", Name: "Press 2"}}},
			}},
			{Name: "J2", ExecuteStatus: "Completed", Tasks: []model.Task{
				{Name: "Done", Start: "2024-03-04T00:00:00", End: "2024-03-04T05:00:00", TaskStatus: "Planned",
					AssignedResources: []model.AssignedResource{{Guid: "m2", Name: "Press 2"}}},
			}},
			{Name: "J3", ExecuteStatus: "Planned", Tasks: []model.Task{
				{Name: "Backwards", Start: "2024-03-04T12:00:00", End: "2024-03-04T11:00:00", TaskStatus: "Planned",
					AssignedResources: []model.AssignedResource{{Guid: "m2", Name: "Press 2"}}},
			}},
		},
		Resources: []model.Resource{
			{Guid: "m1", Name: "Press 1", ResourceGroups: machines, CalendarExceptions: []model.CalendarException{
				{Date: "2024-03-05T00:00:00", WorkTime: "06:00-18:00"},
			}},
			{Guid: "op1", Name: "Ann", ResourceGroups: []model.ResourceGroup{{Guid: "operators"}}},
			{Guid: "m2", Name: "Press 2", ResourceGroups: machines, CalendarExceptions: []model.CalendarException{}},
		},
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(model.Filter{
		ActiveJobStatuses:  []string{"Planned", "Started"},
		ActiveTaskStatuses: []string{"Planned", "Started"},
		MachineGroup:       "machines",
	}, logger.NopLogger{})
}

func TestBuildLayout(t *testing.T) {
	g, _, err := newTestBuilder().Build(testInput())
	require.NoError(t, err)

	// two days: 2024-03-04 and 2024-03-05
	assert.Equal(t, 49, g.Rows())
	assert.Equal(t, 5, g.Cols())

	header := g.Row(HeaderRow)
	names := make([]string, len(header))
	for i, c := range header {
		names[i] = c.Label
		assert.True(t, c.Bold)
	}
	assert.Equal(t, []string{"Date", "Day", "Time", "Press 1", "Press 2"}, names)

	row7 := FirstSlotRow + 7
	assert.Equal(t, "Mar 04", g.Cell(row7, DateColumn).Label)
	assert.Equal(t, "Mon", g.Cell(row7, DayColumn).Label)
	assert.Equal(t, "07", g.Cell(row7, TimeColumn).Label)
	assert.True(t, g.DayBoundary(row7))
	assert.Empty(t, g.Cell(row7+1, DateColumn).Label)
	assert.Equal(t, "08", g.Cell(row7+1, TimeColumn).Label)
	assert.False(t, g.DayBoundary(row7+1))
	assert.Equal(t, "Tue", g.Cell(row7+24, DayColumn).Label)
}

func TestBuildCharting(t *testing.T) {
	g, rep, err := newTestBuilder().Build(testInput())
	require.NoError(t, err)

	label := func(day, hour, col int) string {
		row, ok := rep.Timeline.Row(at(day, hour, 0))
		require.True(t, ok)
		return g.Cell(row, col).Label
	}
	assert.Equal(t, "Task: Setup mould", label(4, 6, 4))
	assert.Equal(t, "Resin: N/A", label(4, 7, 4))
	assert.Equal(t, "Lines: L4", label(4, 8, 4))
	assert.Equal(t, "---", label(4, 9, 4))
	assert.Equal(t, "Task: Mould", label(4, 10, 4))
	assert.Equal(t, "Resin: PP", label(4, 11, 4))
	assert.Equal(t, "Continue: Mould", label(5, 7, 4))
	assert.Equal(t, "", label(5, 8, 4))
	assert.Empty(t, label(4, 0, 5), "inactive task must not be charted")

	assert.Equal(t, 2, rep.Jobs)
	assert.Equal(t, 3, rep.Tasks)
	assert.Equal(t, 5, rep.Assignments)
	assert.Equal(t, 2, rep.NotMachine)
	assert.Equal(t, 1, rep.EmptySpans)
	assert.Equal(t, 26, rep.ChartedCells)
	assert.Equal(t, []TaskResources{{Job: "J1", Task: "Setup mould", Resources: "Ann, Bob"}}, rep.OtherResources)
	assert.Equal(t, []MachineLoad{{Machine: "Press 1", Column: 4, Hours: 26}, {Machine: "Press 2", Column: 5, Hours: 0}}, rep.Load)
}

func TestBuildOverlay(t *testing.T) {
	g, rep, err := newTestBuilder().Build(testInput())
	require.NoError(t, err)
	assert.Equal(t, 12, rep.OffDutyCells)

	row, _ := rep.Timeline.Row(at(5, 5, 0))
	assert.Equal(t, Cell{Label: "---", OffDuty: true}, g.Cell(row, 4))
	row, _ = rep.Timeline.Row(at(5, 6, 0))
	assert.False(t, g.Cell(row, 4).OffDuty)
	row, _ = rep.Timeline.Row(at(5, 18, 0))
	assert.True(t, g.Cell(row, 4).OffDuty)
	assert.False(t, g.Cell(row, 5).OffDuty)
}

func TestBuildErrors(t *testing.T) {
	in := testInput()
	in.Jobs[0].Tasks[1].Start = "yesterday"
	_, _, err := newTestBuilder().Build(in)
	assert.ErrorIs(t, err, model.ErrParse)

	in = testInput()
	in.Resources[0].ResourceGroups = nil
	_, _, err = newTestBuilder().Build(in)
	assert.ErrorIs(t, err, model.ErrShape)

	in = testInput()
	in.Settings.PlanningHorizon = nil
	_, _, err = newTestBuilder().Build(in)
	assert.ErrorIs(t, err, model.ErrShape)

	in = testInput()
	in.Resources[0].CalendarExceptions[0].WorkTime = "18:00-06:00"
	_, _, err = newTestBuilder().Build(in)
	assert.ErrorIs(t, err, ErrWorkWindowOrder)
}

func TestBuildStages(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Input)
		want  []Stage
		fails bool
	}{
		{"complete", func(*Input) {}, []Stage{StageTimeline, StageChart}, false},
		{"bad records", func(in *Input) { in.Jobs[0].ExecuteStatus = "" }, nil, true},
		{"bad settings", func(in *Input) { in.Settings.PlanningHorizon = nil }, []Stage{StageTimeline}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput()
			tt.edit(&in)
			b := newTestBuilder()
			var got []Stage
			b.OnStage = func(st Stage) { got = append(got, st) }
			_, _, err := b.Build(in)
			assert.Equal(t, tt.fails, err != nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUtilization(t *testing.T) {
	rep := Report{
		Timeline: Timeline{Start: at(4, 0, 0), End: at(5, 0, 0)},
		Load:     []MachineLoad{{Hours: 6}, {Hours: 12}, {Hours: 18}},
	}
	st := Utilization(rep)
	assert.InDelta(t, 12, st.MeanHours, 1e-9)
	assert.InDelta(t, 6, st.StdDevHours, 1e-9)
	assert.InDelta(t, 18, st.MaxHours, 1e-9)
	assert.InDelta(t, 0.5, st.Utilization, 1e-9)

	single := Utilization(Report{Timeline: rep.Timeline, Load: []MachineLoad{{Hours: 4}}})
	assert.Zero(t, single.StdDevHours)
	assert.Equal(t, LoadStats{}, Utilization(Report{}))
}
