package engine

import (
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

// ColumnStats is the descriptive summary of one numeric column. Every
// field is individually guarded: a single-row column reports std 0, and an
// all-null column reports zeros across the board rather than NaN.
type ColumnStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Describe computes descriptive statistics per column. With no columns
// given it covers every numeric column of the table.
func Describe(t *dataset.Table, columns []string) map[string]ColumnStats {
	if len(columns) == 0 {
		columns = t.NumericColumns()
	}

	summary := make(map[string]ColumnStats, len(columns))
	for _, column := range columns {
		if !t.HasColumn(column) {
			continue
		}
		values := make([]float64, 0, t.Len())
		for i := 0; i < t.Len(); i++ {
			if v, ok := t.NumberAt(i, column); ok {
				values = append(values, v)
			}
		}
		stats := ColumnStats{Count: len(values)}
		if len(values) > 0 {
			stats.Mean = Round2(mean(values))
			stats.Median = Round2(median(values))
			stats.Std = Round2(sampleStd(values))
			stats.Min = Round2(minOf(values))
			stats.Max = Round2(maxOf(values))
			stats.Q25 = Round2(quantile(values, 0.25))
			stats.Q75 = Round2(quantile(values, 0.75))
		}
		summary[column] = stats
	}
	return summary
}
