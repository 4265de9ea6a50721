package schedule

import (
	"fmt"

	"github.com/jpi-tools/schedule-export/core/model"
)

// Overlay marks as off-duty every cell of a machine column whose slot falls in
// one of the machine's calendar exception off-times. Exceptions dated outside
// the timeline are ignored. Labels are left untouched. It returns the number
// of cells newly marked.
func Overlay(g *Grid, tl Timeline, cols Columns) (int, error) {
	marked := 0
	for col, m := range cols.All() {
		for i, exc := range m.CalendarExceptions {
			n, err := overlayException(g, tl, col, exc)
			if err != nil {
				return marked, fmt.Errorf("machine %s exception %d: %w", m.Name, i, err)
			}
			marked += n
		}
	}
	return marked, nil
}

func overlayException(g *Grid, tl Timeline, col int, exc model.CalendarException) (int, error) {
	date, err := model.ParseTimestamp("CalendarException.Date", exc.Date)
	if err != nil {
		return 0, err
	}
	if !tl.CoversDate(date) {
		return 0, nil
	}
	offs, err := OffTimes(exc)
	if err != nil {
		return 0, err
	}
	rounded := make([]Interval, len(offs))
	for i, iv := range offs {
		rounded[i] = Interval{Start: RoundHour(iv.Start), End: RoundHour(iv.End)}
	}
	marked := 0
	for slot := range tl.Slots() {
		for _, iv := range rounded {
			if !iv.Contains(slot.Time) {
				continue
			}
			if !g.Cell(slot.Row, col).OffDuty {
				marked++
			}
			g.MarkOffDuty(slot.Row, col)
			break
		}
	}
	return marked, nil
}
