package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jpi-tools/schedule-export/core/schedule"
)

// OffDutyColor fills the cells of machines that are not working.
const OffDutyColor = "BFB1D1"

// DefaultSheet names the worksheet when none is given.
const DefaultSheet = "Schedule"

const borderMedium = 2

// styleKey identifies one combination of cell formatting.
type styleKey struct {
	bold, bottom, top, fill bool
}

type styler struct {
	f     *excelize.File
	cache map[styleKey]int
}

func (s *styler) id(k styleKey) (int, error) {
	if id, ok := s.cache[k]; ok {
		return id, nil
	}
	st := &excelize.Style{}
	if k.bold {
		st.Font = &excelize.Font{Bold: true}
	}
	if k.bottom {
		st.Border = append(st.Border, excelize.Border{Type: "bottom", Color: "000000", Style: borderMedium})
	}
	if k.top {
		st.Border = append(st.Border, excelize.Border{Type: "top", Color: "000000", Style: borderMedium})
	}
	if k.fill {
		st.Fill = excelize.Fill{Type: "pattern", Color: []string{OffDutyColor}, Pattern: 1}
	}
	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	s.cache[k] = id
	return id, nil
}

// ColumnName returns the spreadsheet letters of a 1-based column.
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Sprint(col)
	}
	return name
}

// WriteXLSX renders the grid as a workbook with a single sheet. The header
// row is bold with a medium bottom border, rows opening a working day get a
// medium top border, off-duty cells are filled, panes are frozen below the
// header and right of the time column, and every column is as wide as its
// longest text plus two.
func WriteXLSX(w io.Writer, g *schedule.Grid, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	st := &styler{f: f, cache: make(map[styleKey]int)}
	widths := make([]int, g.Cols())
	for r := 1; r <= g.Rows(); r++ {
		for i, c := range g.Row(r) {
			col := i + 1
			cell, err := excelize.CoordinatesToCellName(col, r)
			if err != nil {
				return err
			}
			if c.Label != "" {
				if err := f.SetCellStr(sheet, cell, c.Label); err != nil {
					return fmt.Errorf("write %s: %w", cell, err)
				}
				widths[i] = max(widths[i], utf8.RuneCountInString(c.Label))
			}
			k := styleKey{
				bold:   c.Bold,
				bottom: r == schedule.HeaderRow,
				top:    r > schedule.HeaderRow && g.DayBoundary(r),
				fill:   c.OffDuty,
			}
			if k == (styleKey{}) {
				continue
			}
			id, err := st.id(k)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
				return fmt.Errorf("style %s: %w", cell, err)
			}
		}
	}

	for i, wd := range widths {
		name := ColumnName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(wd+2)); err != nil {
			return fmt.Errorf("width %s: %w", name, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      schedule.FirstMachineColumn - 1,
		YSplit:      schedule.HeaderRow,
		TopLeftCell: "D2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}
	return f.Write(w)
}
