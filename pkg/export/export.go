package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/jpi-tools/schedule-export/core/schedule"
)

// Row is one timeline hour of the JSON document.
type Row struct {
	Date  string          `json:"date,omitempty"`
	Day   string          `json:"day,omitempty"`
	Hour  string          `json:"hour"`
	Cells []schedule.Cell `json:"cells"`
}

// Document is the JSON rendering of a schedule.
type Document struct {
	Machines []string        `json:"machines"`
	Rows     []Row           `json:"rows"`
	Report   schedule.Report `json:"report"`
}

// NewDocument converts a grid and its report into a Document.
func NewDocument(g *schedule.Grid, rep schedule.Report) Document {
	header := g.Row(schedule.HeaderRow)
	doc := Document{Report: rep}
	for _, c := range header[schedule.FirstMachineColumn-1:] {
		doc.Machines = append(doc.Machines, c.Label)
	}
	for r := schedule.FirstSlotRow; r <= g.Rows(); r++ {
		cells := g.Row(r)
		doc.Rows = append(doc.Rows, Row{
			Date:  cells[schedule.DateColumn-1].Label,
			Day:   cells[schedule.DayColumn-1].Label,
			Hour:  cells[schedule.TimeColumn-1].Label,
			Cells: cells[schedule.FirstMachineColumn-1:],
		})
	}
	return doc
}

// WriteJSON writes the schedule and its report to w in JSON format.
func WriteJSON(w io.Writer, g *schedule.Grid, rep schedule.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(g, rep))
}

// WriteCSV writes the grid labels to w, one line per row. Emphasis and
// off-duty shading have no CSV form and are dropped.
func WriteCSV(w io.Writer, g *schedule.Grid) error {
	cw := csv.NewWriter(w)
	rec := make([]string, g.Cols())
	for r := 1; r <= g.Rows(); r++ {
		for i, c := range g.Row(r) {
			rec[i] = c.Label
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
