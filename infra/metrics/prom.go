package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/jpi-tools/schedule-export/core/metrics"
)

// DefaultPushJob is the Pushgateway job name used when none is configured.
const DefaultPushJob = "jpi_export"

// PromConfig configures the Prometheus sink.
type PromConfig struct {
	// PushURL is the Pushgateway base URL. Metrics are only registered
	// locally when empty.
	PushURL string `json:"push_url"`
	Job     string `json:"job"`
	// Instance adds an instance grouping label to pushed metrics.
	Instance string `json:"instance"`
}

// PromSink records export runs in Prometheus metrics. A short-lived CLI
// cannot be scraped, so the collectors are pushed to a Pushgateway after
// each run when a push URL is configured.
type PromSink struct {
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	records     *prometheus.GaugeVec
	cells       *prometheus.GaugeVec
	hours       *prometheus.GaugeVec
	utilization prometheus.Gauge
	lastSuccess prometheus.Gauge

	pusher *push.Pusher
}

// NewPromSink registers export metrics on a dedicated registry.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.NewRegistry())
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg PromConfig, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jpi_export_runs_total",
		Help: "Total number of schedule export runs",
	}, []string{"status"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "jpi_export_duration_seconds",
		Help:    "Duration of a schedule export run",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.records, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jpi_export_records",
		Help: "Records used by the last export",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if s.cells, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jpi_export_cells",
		Help: "Grid cells written by the last export",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if s.hours, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jpi_export_machine_hours",
		Help: "Labelled hours per machine in the last export",
	}, []string{"machine"})); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jpi_export_utilization_ratio",
		Help: "Mean share of timeline hours carrying a task",
	})); err != nil {
		return nil, err
	}
	if s.lastSuccess, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jpi_export_last_success_timestamp_seconds",
		Help: "Unix time of the last successful export",
	})); err != nil {
		return nil, err
	}

	if cfg.PushURL != "" {
		job := cfg.Job
		if job == "" {
			job = DefaultPushJob
		}
		s.pusher = push.New(cfg.PushURL, job).
			Collector(s.runs).
			Collector(s.duration).
			Collector(s.records).
			Collector(s.cells).
			Collector(s.hours).
			Collector(s.utilization).
			Collector(s.lastSuccess)
		if cfg.Instance != "" {
			s.pusher = s.pusher.Grouping("instance", cfg.Instance)
		}
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// RecordExport updates the metrics for one run and pushes them when a
// Pushgateway is configured.
func (s *PromSink) RecordExport(ev coremetrics.ExportEvent) error {
	status := "success"
	if !ev.Success {
		status = "failure"
	}
	s.runs.WithLabelValues(status).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	if ev.Success {
		s.lastSuccess.Set(float64(ev.Time.Unix()))
		s.records.WithLabelValues("machines").Set(float64(ev.Machines))
		s.records.WithLabelValues("jobs").Set(float64(ev.Jobs))
		s.records.WithLabelValues("tasks").Set(float64(ev.Tasks))
		s.records.WithLabelValues("assignments").Set(float64(ev.Assignments))
		s.cells.WithLabelValues("charted").Set(float64(ev.ChartedCells))
		s.cells.WithLabelValues("off_duty").Set(float64(ev.OffDutyCells))
		s.hours.Reset()
		for m, h := range ev.MachineHours {
			s.hours.WithLabelValues(m).Set(float64(h))
		}
		s.utilization.Set(ev.Load.Utilization)
	}
	if s.pusher == nil {
		return nil
	}
	if err := s.pusher.Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
