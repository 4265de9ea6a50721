package schedule

import (
	"iter"

	"github.com/jpi-tools/schedule-export/core/model"
)

// Fixed grid coordinates. Rows and columns are 1-based.
const (
	HeaderRow    = 1
	FirstSlotRow = 2

	DateColumn         = 1
	DayColumn          = 2
	TimeColumn         = 3
	FirstMachineColumn = 4
)

// Columns maps tracked machines to grid columns in input order.
type Columns struct {
	machines []model.Resource
	byGuid   map[string]int
}

// NewColumns assigns column FirstMachineColumn+i to the i-th machine. When two
// machines share a GUID the first one keeps it.
func NewColumns(machines []model.Resource) Columns {
	c := Columns{machines: machines, byGuid: make(map[string]int, len(machines))}
	for i, m := range machines {
		if _, dup := c.byGuid[m.Guid]; !dup {
			c.byGuid[m.Guid] = FirstMachineColumn + i
		}
	}
	return c
}

// Len returns the number of machine columns.
func (c Columns) Len() int { return len(c.machines) }

// All yields (column, machine) pairs in column order.
func (c Columns) All() iter.Seq2[int, model.Resource] {
	return func(yield func(int, model.Resource) bool) {
		for i, m := range c.machines {
			if !yield(FirstMachineColumn+i, m) {
				return
			}
		}
	}
}

// Resolve returns the column of the machine referenced by res. ok is false
// when res is not a tracked machine.
func (c Columns) Resolve(res model.AssignedResource) (col int, ok bool) {
	col, ok = c.byGuid[res.Guid]
	return col, ok
}

// IsMachine reports whether res references a tracked machine.
func (c Columns) IsMachine(res model.AssignedResource) bool {
	_, ok := c.byGuid[res.Guid]
	return ok
}
