package schedule

import "fmt"

// Cell is the content of one grid position.
type Cell struct {
	Label   string `json:"label,omitempty"`
	Bold    bool   `json:"bold,omitempty"`
	OffDuty bool   `json:"off_duty,omitempty"`
}

// Grid is a dense rows x cols table of cells addressed from (1, 1).
type Grid struct {
	rows, cols int
	cells      []Cell
	dayStart   []bool
}

// NewGrid allocates an empty grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:     rows,
		cols:     cols,
		cells:    make([]Cell, rows*cols),
		dayStart: make([]bool, rows),
	}
}

// Rows returns the number of rows, header included.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) index(row, col int) int {
	if row < 1 || row > g.rows || col < 1 || col > g.cols {
		panic(fmt.Sprintf("schedule: cell (%d, %d) outside %dx%d grid", row, col, g.rows, g.cols))
	}
	return (row-1)*g.cols + col - 1
}

// Cell returns the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell { return g.cells[g.index(row, col)] }

// Row returns a copy of the cells of row r.
func (g *Grid) Row(r int) []Cell {
	i := g.index(r, 1)
	out := make([]Cell, g.cols)
	copy(out, g.cells[i:i+g.cols])
	return out
}

// SetLabel writes the label of a cell and emphasises it when bold is set.
// Emphasis and the off-duty flag are never cleared.
func (g *Grid) SetLabel(row, col int, label string, bold bool) {
	c := &g.cells[g.index(row, col)]
	c.Label = label
	c.Bold = c.Bold || bold
}

// MarkOffDuty flags a cell as off-duty without touching its label.
func (g *Grid) MarkOffDuty(row, col int) {
	g.cells[g.index(row, col)].OffDuty = true
}

// DayBoundary reports whether row r opens a new working day.
func (g *Grid) DayBoundary(r int) bool { return g.dayStart[r-1] }

func (g *Grid) setDayBoundary(r int) { g.dayStart[r-1] = true }
