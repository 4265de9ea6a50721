package metrics

import (
	"context"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/jpi-tools/schedule-export/core/metrics"
	"github.com/jpi-tools/schedule-export/infra/logger"
)

// InfluxConfig configures the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes export runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordExport writes one schedule_export point and a machine_load point
// per machine.
func (s *InfluxSink) RecordExport(ev coremetrics.ExportEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, exportPoints(ev)...)
}

func exportPoints(ev coremetrics.ExportEvent) []*write.Point {
	p := write.NewPointWithMeasurement("schedule_export").
		AddTag("run_id", ev.RunID).
		AddTag("success", strconv.FormatBool(ev.Success)).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		AddField("machines", ev.Machines).
		AddField("jobs", ev.Jobs).
		AddField("tasks", ev.Tasks).
		AddField("assignments", ev.Assignments).
		AddField("charted_cells", ev.ChartedCells).
		AddField("not_machine", ev.NotMachine).
		AddField("empty_spans", ev.EmptySpans).
		AddField("off_duty_cells", ev.OffDutyCells).
		AddField("mean_hours", round3(ev.Load.MeanHours)).
		AddField("utilization", round3(ev.Load.Utilization)).
		SetTime(ev.Time)
	if ev.Format != "" {
		p.AddTag("format", ev.Format)
	}
	if ev.Error != "" {
		p.AddField("error", ev.Error)
	}
	points := []*write.Point{p}

	machines := make([]string, 0, len(ev.MachineHours))
	for m := range ev.MachineHours {
		machines = append(machines, m)
	}
	slices.Sort(machines)
	for _, m := range machines {
		points = append(points, write.NewPointWithMeasurement("machine_load").
			AddTag("run_id", ev.RunID).
			AddTag("machine", m).
			AddField("hours", ev.MachineHours[m]).
			SetTime(ev.Time))
	}
	return points
}

// Close releases the client resources.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
