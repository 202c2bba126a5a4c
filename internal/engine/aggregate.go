package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

// AggFunc names a reduction over a numeric column. Null cells are excluded
// from every reduction; they are never coerced to zero.
type AggFunc string

const (
	AggSum    AggFunc = "sum"
	AggMean   AggFunc = "mean"
	AggMedian AggFunc = "median"
	AggCount  AggFunc = "count"
	AggMin    AggFunc = "min"
	AggMax    AggFunc = "max"
	AggStd    AggFunc = "std"
)

// GroupReduce groups a table by one or more columns and reduces a value
// column with fn. Groups appear in first-occurrence order. The result table
// has the group columns plus one column named after the value column.
// Unknown value columns produce an empty table.
func GroupReduce(t *dataset.Table, groupBy []string, valueColumn string, fn AggFunc) *dataset.Table {
	if !t.HasColumn(valueColumn) {
		return dataset.NewTable(append(append([]string{}, groupBy...), valueColumn))
	}

	keys, groups := groupRows(t, groupBy)
	out := dataset.NewTable(append(append([]string{}, groupBy...), valueColumn))
	for _, key := range keys {
		rows := groups[key]
		cells := make([]dataset.Value, 0, len(groupBy)+1)
		for _, col := range groupBy {
			v, _ := t.Value(rows[0], col)
			cells = append(cells, v)
		}
		cells = append(cells, numberCell(reduceRows(t, rows, valueColumn, fn)))
		out.AppendRow(cells)
	}
	return out
}

// Pivot cross-tabulates: one row per distinct index value, one column per
// distinct columns value, cells reduced with fn. A cell with no matching
// rows is 0, not null — count-like semantics, fixed by policy.
func Pivot(t *dataset.Table, index, columns, values string, fn AggFunc) *dataset.Table {
	if !t.HasColumn(index) || !t.HasColumn(columns) || !t.HasColumn(values) {
		return dataset.NewTable([]string{index})
	}

	idxKeys, idxGroups := groupRows(t, []string{index})
	colKeys, _ := groupRows(t, []string{columns})

	out := dataset.NewTable(append([]string{index}, colKeys...))
	for _, ik := range idxKeys {
		rows := idxGroups[ik]
		cells := make([]dataset.Value, 0, len(colKeys)+1)
		v, _ := t.Value(rows[0], index)
		cells = append(cells, v)
		for _, ck := range colKeys {
			var cellRows []int
			for _, r := range rows {
				if keyOf(t, r, []string{columns}) == ck {
					cellRows = append(cellRows, r)
				}
			}
			n := reduceRows(t, cellRows, values, fn)
			if !n.Valid {
				n = ValidNumber(0)
			}
			cells = append(cells, dataset.Number(n.Value))
		}
		out.AppendRow(cells)
	}
	return out
}

// AggregateScalar reduces a whole column to one number. Empty tables and
// all-null columns yield 0 for sum and count, and the unavailable sentinel
// for mean, median, std, min and max. It never returns NaN.
func AggregateScalar(t *dataset.Table, column string, fn AggFunc) Number {
	if !t.HasColumn(column) {
		return emptyReduction(fn)
	}
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	return reduceRows(t, rows, column, fn)
}

// Aggregate applies several reductions at once, optionally grouped. The
// ungrouped form yields a single row with one "column_fn" column per
// requested reduction; the grouped form adds the group columns. Grouping
// with no reductions counts rows per group.
func Aggregate(t *dataset.Table, groupBy []string, aggregations map[string][]AggFunc) *dataset.Table {
	if len(groupBy) == 0 {
		var columns []string
		var cells []dataset.Value
		for _, col := range sortedKeys(aggregations) {
			if !t.HasColumn(col) {
				continue
			}
			for _, fn := range aggregations[col] {
				columns = append(columns, fmt.Sprintf("%s_%s", col, fn))
				cells = append(cells, numberCell(AggregateScalar(t, col, fn)))
			}
		}
		if len(columns) == 0 {
			out := dataset.NewTable([]string{"count"})
			out.AppendRow([]dataset.Value{dataset.Number(float64(t.Len()))})
			return out
		}
		out := dataset.NewTable(columns)
		out.AppendRow(cells)
		return out
	}

	keys, groups := groupRows(t, groupBy)
	columns := append([]string{}, groupBy...)
	if len(aggregations) == 0 {
		columns = append(columns, "count")
	} else {
		for _, col := range sortedKeys(aggregations) {
			if !t.HasColumn(col) {
				continue
			}
			for _, fn := range aggregations[col] {
				columns = append(columns, fmt.Sprintf("%s_%s", col, fn))
			}
		}
	}

	out := dataset.NewTable(columns)
	for _, key := range keys {
		rows := groups[key]
		cells := make([]dataset.Value, 0, len(columns))
		for _, col := range groupBy {
			v, _ := t.Value(rows[0], col)
			cells = append(cells, v)
		}
		if len(aggregations) == 0 {
			cells = append(cells, dataset.Number(float64(len(rows))))
		} else {
			for _, col := range sortedKeys(aggregations) {
				if !t.HasColumn(col) {
					continue
				}
				for _, fn := range aggregations[col] {
					cells = append(cells, numberCell(reduceRows(t, rows, col, fn)))
				}
			}
		}
		out.AppendRow(cells)
	}
	return out
}

// groupRows buckets row indices by the concatenation of the group column
// values, keeping first-occurrence order of keys.
func groupRows(t *dataset.Table, groupBy []string) ([]string, map[string][]int) {
	keys := make([]string, 0)
	groups := make(map[string][]int)
	for row := 0; row < t.Len(); row++ {
		key := keyOf(t, row, groupBy)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}
	return keys, groups
}

func keyOf(t *dataset.Table, row int, groupBy []string) string {
	if len(groupBy) == 1 {
		return exportString(t, row, groupBy[0])
	}
	key := ""
	for i, col := range groupBy {
		if i > 0 {
			key += "\x1f"
		}
		key += exportString(t, row, col)
	}
	return key
}

func exportString(t *dataset.Table, row int, column string) string {
	v, ok := t.Value(row, column)
	if !ok || !v.Valid {
		return ""
	}
	switch v.Kind {
	case dataset.KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case dataset.KindTime:
		return v.Time.Format("2006-01-02")
	default:
		return v.Str
	}
}

// reduceRows reduces the non-null numeric cells of column across rows.
func reduceRows(t *dataset.Table, rows []int, column string, fn AggFunc) Number {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := t.NumberAt(r, column); ok {
			values = append(values, v)
		}
	}
	return reduce(values, fn)
}

func reduce(values []float64, fn AggFunc) Number {
	if len(values) == 0 {
		return emptyReduction(fn)
	}
	switch fn {
	case AggSum:
		return ValidNumber(sum(values))
	case AggMean:
		return ValidNumber(mean(values))
	case AggMedian:
		return ValidNumber(median(values))
	case AggCount:
		return ValidNumber(float64(len(values)))
	case AggMin:
		return ValidNumber(minOf(values))
	case AggMax:
		return ValidNumber(maxOf(values))
	case AggStd:
		return ValidNumber(sampleStd(values))
	default:
		return ValidNumber(sum(values))
	}
}

func emptyReduction(fn AggFunc) Number {
	switch fn {
	case AggSum, AggCount:
		return ValidNumber(0)
	default:
		return Unavailable()
	}
}

func numberCell(n Number) dataset.Value {
	if !n.Valid {
		return dataset.Null(dataset.KindNumber)
	}
	return dataset.Number(n.Value)
}

func sortedKeys(m map[string][]AggFunc) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// sampleStd is the n-1 standard deviation. A single value has no spread to
// estimate; report 0 rather than letting NaN escape.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// populationStd is the n-denominator deviation, used by the workload
// balance score.
func populationStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// quantile computes the q-th quantile with linear interpolation between
// closest ranks.
func quantile(values []float64, q float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
