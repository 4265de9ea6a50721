package schedule

import (
	"fmt"
	"strings"

	"github.com/jpi-tools/schedule-export/core/logger"
	"github.com/jpi-tools/schedule-export/core/model"
)

// Input gathers the records fetched from JPI for one export.
type Input struct {
	Settings  model.Settings
	Jobs      []model.Job
	Resources []model.Resource
}

// TaskResources lists the non-machine resources booked on a task.
type TaskResources struct {
	Job       string `json:"job"`
	Task      string `json:"task"`
	Resources string `json:"resources"`
}

// MachineLoad is the number of labelled hours on a machine column.
type MachineLoad struct {
	Machine string `json:"machine"`
	Column  int    `json:"column"`
	Hours   int    `json:"hours"`
}

// Report summarises a grid build.
type Report struct {
	Timeline       Timeline        `json:"timeline"`
	Machines       int             `json:"machines"`
	Jobs           int             `json:"jobs"`
	Tasks          int             `json:"tasks"`
	Assignments    int             `json:"assignments"`
	ChartedCells   int             `json:"charted_cells"`
	NotMachine     int             `json:"not_machine"`
	EmptySpans     int             `json:"empty_spans"`
	OffDutyCells   int             `json:"off_duty_cells"`
	OtherResources []TaskResources `json:"other_resources,omitempty"`
	Load           []MachineLoad   `json:"load"`
}

// Stage is a step of Build announced through Builder.OnStage.
type Stage int

const (
	// StageTimeline starts once the records are filtered.
	StageTimeline Stage = iota
	// StageChart starts once the grid is laid out.
	StageChart
)

// Builder turns JPI records into a schedule grid.
type Builder struct {
	Filter  model.Filter
	Charter *Charter
	// OnStage, when set, is called as Build enters each stage.
	OnStage func(Stage)
	log     logger.Logger
}

// NewBuilder returns a Builder using the default label rules.
func NewBuilder(f model.Filter, log logger.Logger) *Builder {
	return &Builder{Filter: f, Charter: NewCharter(), log: log}
}

// Build filters the records, lays out the grid, charts every task assignment
// and paints calendar exceptions. Any shape or parse error aborts the build.
func (b *Builder) Build(in Input) (*Grid, Report, error) {
	jobs, err := b.Filter.ActiveJobs(in.Jobs)
	if err != nil {
		return nil, Report{}, fmt.Errorf("filter jobs: %w", err)
	}
	machines, err := b.Filter.Machines(in.Resources)
	if err != nil {
		return nil, Report{}, fmt.Errorf("filter machines: %w", err)
	}
	b.enter(StageTimeline)
	tl, err := NewTimeline(in.Settings)
	if err != nil {
		return nil, Report{}, fmt.Errorf("timeline: %w", err)
	}
	cols := NewColumns(machines)
	g := NewGrid(HeaderRow+tl.Len(), TimeColumn+cols.Len())
	writeHeaders(g, tl, cols)

	b.enter(StageChart)
	rep := Report{Timeline: tl, Machines: cols.Len(), Jobs: len(jobs)}
	for _, job := range jobs {
		for _, task := range job.Tasks {
			rep.Tasks++
			if err := b.chartTask(g, tl, cols, job, task, &rep); err != nil {
				return nil, Report{}, err
			}
		}
	}

	rep.OffDutyCells, err = Overlay(g, tl, cols)
	if err != nil {
		return nil, Report{}, fmt.Errorf("calendar exceptions: %w", err)
	}
	rep.Load = machineLoad(g, cols)
	return g, rep, nil
}

func (b *Builder) enter(st Stage) {
	if b.OnStage != nil {
		b.OnStage(st)
	}
}

func (b *Builder) chartTask(g *Grid, tl Timeline, cols Columns, job model.Job, task model.Task, rep *Report) error {
	var others []string
	for _, res := range task.AssignedResources {
		rep.Assignments++
		out, err := b.Charter.Chart(g, tl, cols, job, task, res)
		if err != nil {
			return fmt.Errorf("job %s task %s: %w", job.Name, task.DisplayName(), err)
		}
		switch out.Outcome {
		case NotMachine:
			rep.NotMachine++
			others = append(others, res.Name)
			b.log.Debugf("task %s: resource %s is not a machine", task.DisplayName(), res.Name)
		case EmptySpan:
			rep.EmptySpans++
			b.log.Warnf("task %s on %s has an empty span %s - %s", task.DisplayName(), res.Name, task.Start, task.End)
		default:
			rep.ChartedCells += out.Cells
		}
	}
	if len(others) > 0 {
		rep.OtherResources = append(rep.OtherResources, TaskResources{
			Job:       job.Name,
			Task:      task.DisplayName(),
			Resources: strings.Join(others, ", "),
		})
	}
	return nil
}

func writeHeaders(g *Grid, tl Timeline, cols Columns) {
	g.SetLabel(HeaderRow, DateColumn, "Date", true)
	g.SetLabel(HeaderRow, DayColumn, "Day", true)
	g.SetLabel(HeaderRow, TimeColumn, "Time", true)
	for col, m := range cols.All() {
		g.SetLabel(HeaderRow, col, m.Name, true)
	}
	for slot := range tl.Slots() {
		if slot.Time.Hour() == DayStartHour {
			g.SetLabel(slot.Row, DateColumn, slot.Time.Format("Jan 02"), true)
			g.SetLabel(slot.Row, DayColumn, slot.Time.Format("Mon"), true)
			g.setDayBoundary(slot.Row)
		}
		g.SetLabel(slot.Row, TimeColumn, slot.Time.Format("15"), true)
	}
}

func machineLoad(g *Grid, cols Columns) []MachineLoad {
	load := make([]MachineLoad, 0, cols.Len())
	for col, m := range cols.All() {
		ml := MachineLoad{Machine: m.Name, Column: col}
		for r := FirstSlotRow; r <= g.Rows(); r++ {
			if g.Cell(r, col).Label != "" {
				ml.Hours++
			}
		}
		load = append(load, ml)
	}
	return load
}
