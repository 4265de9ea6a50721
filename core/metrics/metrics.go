package metrics

import (
	"time"

	"github.com/jpi-tools/schedule-export/core/schedule"
)

// ExportEvent describes one run of the schedule export.
type ExportEvent struct {
	RunID    string
	Time     time.Time
	Duration time.Duration
	Success  bool
	Error    string
	Format   string
	Path     string

	Machines     int
	Jobs         int
	Tasks        int
	Assignments  int
	ChartedCells int
	NotMachine   int
	EmptySpans   int
	OffDutyCells int
	// MachineHours maps machine names to their labelled hours.
	MachineHours map[string]int
	Load         schedule.LoadStats
}

// NewExportEvent fills the counters of an event from a build report.
func NewExportEvent(runID string, rep schedule.Report) ExportEvent {
	ev := ExportEvent{
		RunID:        runID,
		Machines:     rep.Machines,
		Jobs:         rep.Jobs,
		Tasks:        rep.Tasks,
		Assignments:  rep.Assignments,
		ChartedCells: rep.ChartedCells,
		NotMachine:   rep.NotMachine,
		EmptySpans:   rep.EmptySpans,
		OffDutyCells: rep.OffDutyCells,
		MachineHours: make(map[string]int, len(rep.Load)),
		Load:         schedule.Utilization(rep),
	}
	for _, l := range rep.Load {
		ev.MachineHours[l.Machine] = l.Hours
	}
	return ev
}

// MetricsSink records export runs for observability purposes.
type MetricsSink interface {
	RecordExport(ev ExportEvent) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordExport(ExportEvent) error { return nil }

// MultiSink fans export events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordExport forwards the event to every sink and returns the first error.
// A failing sink does not prevent the others from receiving the event.
func (m *MultiSink) RecordExport(ev ExportEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordExport(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every sink implementing Closer and returns the first error.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
