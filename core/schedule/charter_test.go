package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpi-tools/schedule-export/core/model"
)

type chartFixture struct {
	tl   Timeline
	cols Columns
	grid *Grid
}

func newChartFixture() chartFixture {
	tl := Timeline{Start: at(4, 0, 0), End: at(6, 0, 0)}
	cols := NewColumns([]model.Resource{{Guid: "m1", Name: "Press 1"}, {Guid: "m2", Name: "Press 2"}})
	return chartFixture{tl: tl, cols: cols, grid: NewGrid(HeaderRow+tl.Len(), TimeColumn+cols.Len())}
}

func (f chartFixture) labels(col int, from, to int) []string {
	var out []string
	for h := from; h < to; h++ {
		row, _ := f.tl.Row(at(4, 0, 0).Add(hours(h)))
		out = append(out, f.grid.Cell(row, col).Label)
	}
	return out
}

func task(name, start, end string) model.Task {
	return model.Task{Name: name, TaskNo: "T-100", Start: start, End: end}
}

var press1 = model.AssignedResource{Guid: "m1", Name: "Press 1"}

func TestChartThreeSlots(t *testing.T) {
	f := newChartFixture()
	res, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("Mix", "2024-03-04T10:00:00", "2024-03-04T13:00:00"), press1)
	require.NoError(t, err)
	assert.Equal(t, Charted, res.Outcome)
	assert.Equal(t, 4, res.Column)
	assert.Equal(t, 3, res.Cells)
	assert.Equal(t, []string{"", "Task: Mix", "Resin: N/A", "---", ""}, f.labels(4, 9, 14))
	row, _ := f.tl.Row(at(4, 10, 0))
	assert.False(t, f.grid.Cell(row, 4).Bold)
	assert.Empty(t, f.grid.Cell(row, 5).Label)
}

func TestChartContinueAtDayStart(t *testing.T) {
	f := newChartFixture()
	tk := task("Mix", "2024-03-04T05:00:00", "2024-03-04T09:00:00")
	tk.CustomFieldValue1 = "PP-H"
	_, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, tk, press1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Task: Mix", "Resin: PP-H", "Continue: Mix", "---"}, f.labels(4, 5, 9))
}

func TestChartSetupTask(t *testing.T) {
	f := newChartFixture()
	job := model.Job{CustomFieldValue1: "L1, L2"}
	_, err := NewCharter().Chart(f.grid, f.tl, f.cols, job, task("Setup A", "2024-03-04T05:00:00", "2024-03-04T09:00:00"), press1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Task: Setup A", "Resin: N/A", "Lines: L1, L2", "---"}, f.labels(4, 5, 9))
	for h := 5; h < 9; h++ {
		row, _ := f.tl.Row(at(4, h, 0))
		assert.True(t, f.grid.Cell(row, 4).Bold, "hour %d", h)
	}
}

func TestChartSetupWithoutJobLines(t *testing.T) {
	f := newChartFixture()
	_, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("mould set up", "2024-03-04T12:00:00", "2024-03-04T16:00:00"), press1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Task: mould set up", "Resin: N/A", "Lines: N/A", "---"}, f.labels(4, 12, 16))
}

func TestChartRoundsSpan(t *testing.T) {
	f := newChartFixture()
	res, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("", "2024-03-04T09:40:00", "2024-03-04T12:29:00"), press1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Cells)
	assert.Equal(t, Interval{Start: at(4, 10, 0), End: at(4, 12, 0)}, res.Span)
	assert.Equal(t, []string{"", "Task: T-100", "Resin: N/A", ""}, f.labels(4, 9, 13))
}

func TestChartClipsToTimeline(t *testing.T) {
	f := newChartFixture()
	res, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("Mix", "2024-03-03T20:00:00", "2024-03-04T02:00:00"), press1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Cells)
	assert.Equal(t, []string{"Task: Mix", "Resin: N/A", ""}, f.labels(4, 0, 3))
}

func TestChartNotMachine(t *testing.T) {
	f := newChartFixture()
	res, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("Mix", "bad", "bad"), model.AssignedResource{Guid: "op", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, NotMachine, res.Outcome)
	assert.Zero(t, res.Cells)
}

func TestChartEmptySpan(t *testing.T) {
	f := newChartFixture()
	res, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("Mix", "2024-03-04T10:20:00", "2024-03-04T10:10:00"), press1)
	require.NoError(t, err)
	assert.Equal(t, EmptySpan, res.Outcome)
	assert.Zero(t, res.Cells)
}

func TestChartParseErrors(t *testing.T) {
	f := newChartFixture()
	_, err := NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("Mix", "2024-03-04 10:00", "2024-03-04T12:00:00"), press1)
	assert.ErrorIs(t, err, model.ErrParse)
	_, err = NewCharter().Chart(f.grid, f.tl, f.cols, model.Job{}, task("Mix", "2024-03-04T10:00:00", ""), press1)
	assert.ErrorIs(t, err, model.ErrParse)
}

func TestLabelRulesOrder(t *testing.T) {
	rules := DefaultRules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"task", "resin", "lines", "continue", "filler"}, names)

	c := SpanCell{Position: 3, Slot: Slot{Time: at(4, 7, 0)}, Task: model.Task{Name: "Mix"}}
	assert.Equal(t, "Continue: Mix", Label(rules, c))
	c.Setup = true
	assert.Equal(t, "Lines: N/A", Label(rules, c))
	c.Position = 1
	assert.Equal(t, "Task: Mix", Label(rules, c))
	assert.Equal(t, FillerLabel, Label(nil, c))
}

func TestIsSetup(t *testing.T) {
	assert.True(t, IsSetup("Setup A", DefaultSetupMarkers))
	assert.True(t, IsSetup("tool set up", DefaultSetupMarkers))
	assert.False(t, IsSetup("Settle", DefaultSetupMarkers))
	assert.False(t, IsSetup("", DefaultSetupMarkers))
}
