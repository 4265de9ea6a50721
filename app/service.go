package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jpi-tools/schedule-export/config"
	coremetrics "github.com/jpi-tools/schedule-export/core/metrics"
	"github.com/jpi-tools/schedule-export/core/model"
	"github.com/jpi-tools/schedule-export/core/schedule"
	"github.com/jpi-tools/schedule-export/infra/jpi"
	"github.com/jpi-tools/schedule-export/infra/logger"
	_ "github.com/jpi-tools/schedule-export/infra/metrics" // registers the built-in sinks
	"github.com/jpi-tools/schedule-export/infra/mqtt"
	"github.com/jpi-tools/schedule-export/pkg/export"
)

// Source provides the JPI records needed for an export.
type Source interface {
	FetchSettings(ctx context.Context) (model.Settings, error)
	FetchJobs(ctx context.Context) ([]model.Job, error)
	FetchResources(ctx context.Context) ([]model.Resource, error)
}

// Result summarises a successful export.
type Result struct {
	RunID    string
	Path     string
	Format   string
	Report   schedule.Report
	Load     schedule.LoadStats
	Duration time.Duration
}

// Service runs schedule exports.
type Service struct {
	cfg     *config.Config
	src     Source
	builder *schedule.Builder
	sink    coremetrics.MetricsSink
	out     io.Writer
	log     logger.Logger
	now     func() time.Time
}

// New creates a Service from the configuration. Progress lines are written
// to out.
func New(cfg *config.Config, out io.Writer) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Console)
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.MQTT.Broker != "" {
		n, err := mqtt.NewNotifier(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		sink = coremetrics.NewMultiSink(sink, n)
	}
	return NewWithSource(cfg, jpi.NewClient(cfg.JPI), sink, out), nil
}

// NewWithSource creates a Service reading from src and recording runs in sink.
func NewWithSource(cfg *config.Config, src Source, sink coremetrics.MetricsSink, out io.Writer) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if out == nil {
		out = io.Discard
	}
	s := &Service{
		cfg:     cfg,
		src:     src,
		builder: schedule.NewBuilder(cfg.JPI.Filter(), logger.New("builder")),
		sink:    sink,
		out:     out,
		log:     logger.New("service"),
		now:     time.Now,
	}
	s.builder.OnStage = s.stage
	return s
}

func (s *Service) progress(msg string) {
	fmt.Fprintf(s.out, "- %s\n", msg)
}

func (s *Service) stage(st schedule.Stage) {
	switch st {
	case schedule.StageTimeline:
		s.progress("Calculating schedule timeline.")
	case schedule.StageChart:
		s.progress("Charting the machine schedule.")
	}
}

// Fetch reads settings, jobs and resources from JPI, in that order.
func (s *Service) Fetch(ctx context.Context) (schedule.Input, error) {
	var in schedule.Input
	var err error
	s.progress("Fetching system settings from JPI.")
	if in.Settings, err = s.src.FetchSettings(ctx); err != nil {
		return in, fmt.Errorf("fetch settings: %w", err)
	}
	s.progress("Fetching jobs details from JPI.")
	if in.Jobs, err = s.src.FetchJobs(ctx); err != nil {
		return in, fmt.Errorf("fetch jobs: %w", err)
	}
	s.progress("Fetching machine details from JPI.")
	if in.Resources, err = s.src.FetchResources(ctx); err != nil {
		return in, fmt.Errorf("fetch resources: %w", err)
	}
	return in, nil
}

// Run performs one export: fetch, build, render and save. Every run, failed
// or not, is reported to the metrics sinks; sink errors are only logged.
func (s *Service) Run(ctx context.Context) (res Result, err error) {
	start := s.now()
	res = Result{RunID: uuid.NewString(), Path: s.cfg.Export.Path, Format: s.cfg.Export.Format}
	var rep schedule.Report
	defer func() {
		res.Duration = s.now().Sub(start)
		s.record(res, rep, err, start)
	}()

	in, err := s.Fetch(ctx)
	if err != nil {
		return res, err
	}
	g, rep, err := s.builder.Build(in)
	if err != nil {
		return res, fmt.Errorf("build schedule: %w", err)
	}
	res.Report = rep
	res.Load = schedule.Utilization(rep)
	s.log.Infof("run %s: %d machines, %d jobs, %d charted cells, %d off-duty cells",
		res.RunID, rep.Machines, rep.Jobs, rep.ChartedCells, rep.OffDutyCells)

	s.progress(fmt.Sprintf("Creating the %s file.", formatName(res.Format)))
	var buf bytes.Buffer
	if err = render(&buf, res.Format, s.cfg.Export.Sheet, g, rep); err != nil {
		return res, fmt.Errorf("render %s: %w", res.Format, err)
	}
	s.progress(fmt.Sprintf("Saving the %s file.", formatName(res.Format)))
	if err = save(res.Path, buf.Bytes()); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) record(res Result, rep schedule.Report, runErr error, start time.Time) {
	ev := coremetrics.NewExportEvent(res.RunID, rep)
	ev.Time = start
	ev.Duration = res.Duration
	ev.Success = runErr == nil
	ev.Format = res.Format
	ev.Path = res.Path
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	if err := s.sink.RecordExport(ev); err != nil {
		s.log.Errorf("record export %s: %v", res.RunID, err)
	}
}

// Timeline fetches the settings and returns the timeline they describe.
func (s *Service) Timeline(ctx context.Context) (schedule.Timeline, error) {
	st, err := s.src.FetchSettings(ctx)
	if err != nil {
		return schedule.Timeline{}, fmt.Errorf("fetch settings: %w", err)
	}
	return schedule.NewTimeline(st)
}

// Machines fetches the resources and returns the tracked machines with the
// grid column each one occupies.
func (s *Service) Machines(ctx context.Context) (schedule.Columns, error) {
	res, err := s.src.FetchResources(ctx)
	if err != nil {
		return schedule.Columns{}, fmt.Errorf("fetch resources: %w", err)
	}
	machines, err := s.builder.Filter.Machines(res)
	if err != nil {
		return schedule.Columns{}, err
	}
	return schedule.NewColumns(machines), nil
}

// Close releases the metrics sinks.
func (s *Service) Close() error {
	if c, ok := s.sink.(coremetrics.Closer); ok {
		return c.Close()
	}
	return nil
}

func render(w io.Writer, format, sheet string, g *schedule.Grid, rep schedule.Report) error {
	switch format {
	case config.FormatCSV:
		return export.WriteCSV(w, g)
	case config.FormatJSON:
		return export.WriteJSON(w, g, rep)
	case config.FormatXLSX:
		return export.WriteXLSX(w, g, sheet)
	}
	return fmt.Errorf("unknown format %s", format)
}

// save writes data to path, creating missing parent directories.
func save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func formatName(format string) string {
	switch format {
	case config.FormatXLSX:
		return "Excel"
	case config.FormatCSV:
		return "CSV"
	case config.FormatJSON:
		return "JSON"
	}
	return format
}
