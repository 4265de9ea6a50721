package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpi-tools/schedule-export/config"
	coremetrics "github.com/jpi-tools/schedule-export/core/metrics"
	"github.com/jpi-tools/schedule-export/core/model"
	"github.com/jpi-tools/schedule-export/infra/jpi"
	"github.com/jpi-tools/schedule-export/pkg/export"
)

type recordSink struct {
	events []coremetrics.ExportEvent
}

func (r *recordSink) RecordExport(ev coremetrics.ExportEvent) error {
	r.events = append(r.events, ev)
	return errors.New("sink down")
}

func intPtr(v int) *int { return &v }

func fixtures() jpi.Fixtures {
	return jpi.Fixtures{
		Settings: model.Settings{
			PlanningStart:           "2024-03-04T09:00:00",
			DaysBeforePlanningStart: intPtr(1),
			PlanningHorizon:         intPtr(0),
		},
		Jobs: []model.Job{
			{
				Guid:              "j1",
				Name:              "Job 1",
				CustomFieldValue1: "L1, L2",
				ExecuteStatus:     "Started",
				Tasks: []model.Task{
					{
						Guid:              "t1",
						Name:              "SETUP Press 1",
						Start:             "2024-03-04T06:00:00",
						End:               "2024-03-04T10:00:00",
						TaskStatus:        "Planned",
						AssignedResources: []model.AssignedResource{{Guid: "m1", Name: "Press 1"}, {Guid: "op1", Name: "Ann"}},
					},
					{
						Guid:              "t2",
						Name:              "Done",
						Start:             "2024-03-04T10:00:00",
						End:               "2024-03-04T12:00:00",
						TaskStatus:        "Completed",
						AssignedResources: []model.AssignedResource{{Guid: "m1", Name: "Press 1"}},
					},
				},
			},
			{Guid: "j2", Name: "Closed", ExecuteStatus: "Completed"},
		},
		Resources: []model.Resource{
			{
				Guid:               "m1",
				Name:               "Press 1",
				ResourceGroups:     []model.ResourceGroup{{Guid: "machines"}},
				CalendarExceptions: []model.CalendarException{{Date: "2024-03-03T00:00:00", WorkTime: "08:00-16:00"}},
			},
			{
				Guid:               "m2",
				Name:               "Press 2",
				ResourceGroups:     []model.ResourceGroup{{Guid: "machines"}},
				CalendarExceptions: []model.CalendarException{},
			},
			{Guid: "op1", Name: "Ann", ResourceGroups: []model.ResourceGroup{{Guid: "people"}}},
		},
	}
}

func testConfig(t *testing.T, srv *jpi.ServerMock, path string) *config.Config {
	t.Helper()
	open := false
	cfg := &config.Config{
		JPI:    config.JPIConfig{BaseURL: srv.URL, APIKey: "key", MaxRetries: -1, MachineGroup: "machines"},
		Export: config.ExportConfig{Path: path, Open: &open},
	}
	cfg.JPI.SetDefaults()
	cfg.Export.SetDefaults()
	cfg.Logging.SetDefaults()
	return cfg
}

func TestRunWritesJSON(t *testing.T) {
	srv := jpi.NewServerMock("key", fixtures())
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "out", "plan.json")
	cfg := testConfig(t, srv, path)
	sink := &recordSink{}
	var out bytes.Buffer
	svc := NewWithSource(cfg, jpi.NewClient(cfg.JPI), sink, &out)

	res, err := svc.Run(context.Background())
	require.NoError(t, err, "sink errors must not fail the run")
	assert.Equal(t, config.FormatJSON, res.Format)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Report.Machines)
	assert.Equal(t, 1, res.Report.Jobs)
	assert.Equal(t, 1, res.Report.Tasks)
	assert.Equal(t, 1, res.Report.NotMachine)

	assert.Equal(t, []string{
		"- Fetching system settings from JPI.",
		"- Fetching jobs details from JPI.",
		"- Fetching machine details from JPI.",
		"- Calculating schedule timeline.",
		"- Charting the machine schedule.",
		"- Creating the JSON file.",
		"- Saving the JSON file.",
	}, strings.Split(strings.TrimSpace(out.String()), "\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []string{"Press 1", "Press 2"}, doc.Machines)
	// timeline starts 2024-03-03 00:00, so 06:00 on the 4th is row 30
	assert.Equal(t, "Task: SETUP Press 1", doc.Rows[30].Cells[0].Label)
	assert.True(t, doc.Rows[30].Cells[0].Bold)
	assert.Equal(t, "Resin: N/A", doc.Rows[31].Cells[0].Label)
	assert.Equal(t, "Lines: L1, L2", doc.Rows[32].Cells[0].Label)
	assert.Equal(t, "---", doc.Rows[33].Cells[0].Label)
	assert.Empty(t, doc.Rows[34].Cells[0].Label)
	assert.True(t, doc.Rows[0].Cells[0].OffDuty)
	assert.False(t, doc.Rows[0].Cells[1].OffDuty)

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.True(t, ev.Success)
	assert.Equal(t, res.RunID, ev.RunID)
	assert.Equal(t, 4, ev.MachineHours["Press 1"])
}

func TestRunFormats(t *testing.T) {
	for _, name := range []string{"plan.xlsx", "plan.csv"} {
		t.Run(name, func(t *testing.T) {
			srv := jpi.NewServerMock("key", fixtures())
			defer srv.Close()
			path := filepath.Join(t.TempDir(), name)
			cfg := testConfig(t, srv, path)
			svc := NewWithSource(cfg, jpi.NewClient(cfg.JPI), nil, nil)

			_, err := svc.Run(context.Background())
			require.NoError(t, err)
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestRunReportsFailures(t *testing.T) {
	srv := jpi.NewServerMock("key", fixtures())
	defer srv.Close()
	srv.FailNext("jobs", http.StatusInternalServerError)
	cfg := testConfig(t, srv, filepath.Join(t.TempDir(), "plan.xlsx"))
	sink := &recordSink{}
	svc := NewWithSource(cfg, jpi.NewClient(cfg.JPI), sink, nil)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, jpi.ErrJPI)
	require.Len(t, sink.events, 1)
	assert.False(t, sink.events[0].Success)
	assert.NotEmpty(t, sink.events[0].Error)
	assert.GreaterOrEqual(t, sink.events[0].Duration, time.Duration(0))
}

func TestRunInvalidData(t *testing.T) {
	srv := jpi.NewServerMock("key", fixtures())
	defer srv.Close()
	srv.SetRaw("resources", `[{"Guid":"m1","Name":"Press 1","ResourceGroups":[{"Guid":"machines"}],"CalendarExceptions":[{"Date":"yesterday","WorkTime":""}]}]`)
	cfg := testConfig(t, srv, filepath.Join(t.TempDir(), "plan.xlsx"))
	svc := NewWithSource(cfg, jpi.NewClient(cfg.JPI), nil, nil)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, model.ErrParse)
}

func TestRunMissingFieldStopsBeforeTimeline(t *testing.T) {
	srv := jpi.NewServerMock("key", fixtures())
	defer srv.Close()
	srv.SetRaw("jobs", `[{"Name":"J1","Tasks":[]}]`)
	cfg := testConfig(t, srv, filepath.Join(t.TempDir(), "plan.xlsx"))
	var out bytes.Buffer
	svc := NewWithSource(cfg, jpi.NewClient(cfg.JPI), nil, &out)

	_, err := svc.Run(context.Background())
	var se *model.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ExecuteStatus", se.Field)
	assert.Equal(t, []string{
		"- Fetching system settings from JPI.",
		"- Fetching jobs details from JPI.",
		"- Fetching machine details from JPI.",
	}, strings.Split(strings.TrimSpace(out.String()), "\n"))
}

func TestTimelineAndMachines(t *testing.T) {
	srv := jpi.NewServerMock("key", fixtures())
	defer srv.Close()
	cfg := testConfig(t, srv, "plan.xlsx")
	svc := NewWithSource(cfg, jpi.NewClient(cfg.JPI), nil, nil)

	tl, err := svc.Timeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), tl.Start)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), tl.End)
	assert.Equal(t, 48, tl.Len())

	cols, err := svc.Machines(context.Background())
	require.NoError(t, err)
	var names []string
	for col, m := range cols.All() {
		names = append(names, export.ColumnName(col)+" "+m.Name)
	}
	assert.Equal(t, []string{"D Press 1", "E Press 2"}, names)
	assert.Equal(t, 0, srv.Hits("jobs"))
}
