package schedule

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LoadStats summarises how evenly work is spread across machines.
type LoadStats struct {
	MeanHours   float64 `json:"mean_hours"`
	StdDevHours float64 `json:"stddev_hours"`
	MaxHours    float64 `json:"max_hours"`
	// Utilization is the mean share of timeline hours carrying a task, in [0, 1].
	Utilization float64 `json:"utilization"`
}

// Utilization computes load statistics over the machine columns of a report.
func Utilization(rep Report) LoadStats {
	if len(rep.Load) == 0 {
		return LoadStats{}
	}
	hours := make([]float64, len(rep.Load))
	for i, l := range rep.Load {
		hours[i] = float64(l.Hours)
	}
	mean, std := stat.MeanStdDev(hours, nil)
	if len(hours) == 1 {
		std = 0
	}
	st := LoadStats{MeanHours: mean, StdDevHours: std, MaxHours: floats.Max(hours)}
	if n := rep.Timeline.Len(); n > 0 {
		st.Utilization = mean / float64(n)
	}
	return st
}
