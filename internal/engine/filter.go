package engine

import (
	"strconv"
	"time"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

// Comparison is an operator predicate for Filter: keep rows where
// `row[column] <op> Value` holds. Op is one of > < >= <= != ==.
type Comparison struct {
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// Filter returns a derived table keeping rows that satisfy every
// predicate. Predicate values are interpreted per column:
//
//   - scalar: equality
//   - list: membership (OR within the column, AND across columns)
//   - Comparison (or its JSON map form): operator comparison
//
// Predicates on columns the table does not have are silently ignored, so an
// inexact tool call degrades to a broader result instead of failing. Row
// order and the full column set are preserved.
func Filter(t *dataset.Table, predicates map[string]any) *dataset.Table {
	keep := make([]int, 0, t.Len())
	for row := 0; row < t.Len(); row++ {
		if rowMatches(t, row, predicates) {
			keep = append(keep, row)
		}
	}
	return t.Select(keep)
}

func rowMatches(t *dataset.Table, row int, predicates map[string]any) bool {
	for column, pred := range predicates {
		if !t.HasColumn(column) {
			continue
		}
		cell, _ := t.Value(row, column)
		if !cellMatches(cell, pred) {
			return false
		}
	}
	return true
}

func cellMatches(cell dataset.Value, pred any) bool {
	switch p := pred.(type) {
	case []any:
		for _, candidate := range p {
			if compare(cell, "==", candidate) {
				return true
			}
		}
		return false
	case []string:
		for _, candidate := range p {
			if compare(cell, "==", candidate) {
				return true
			}
		}
		return false
	case Comparison:
		return compare(cell, p.Operator, p.Value)
	case *Comparison:
		return compare(cell, p.Operator, p.Value)
	case map[string]any:
		// JSON form of a Comparison.
		op, _ := p["operator"].(string)
		if op == "" {
			op = "=="
		}
		return compare(cell, op, p["value"])
	default:
		return compare(cell, "==", pred)
	}
}

// compare applies an operator between a cell and a predicate value. Null
// cells compare the way pandas treats NaN: unequal to everything, ordered
// against nothing.
func compare(cell dataset.Value, op string, want any) bool {
	if !cell.Valid {
		return op == "!="
	}
	switch cell.Kind {
	case dataset.KindNumber:
		w, ok := toFloat(want)
		if !ok {
			return op == "!="
		}
		return compareFloats(cell.Num, op, w)
	case dataset.KindTime:
		w, ok := toTime(want)
		if !ok {
			return op == "!="
		}
		return compareTimes(cell.Time, op, w)
	default:
		w, ok := want.(string)
		if !ok {
			return op == "!="
		}
		return compareStrings(cell.Str, op, w)
	}
}

func compareFloats(a float64, op string, b float64) bool {
	switch op {
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	case "!=":
		return a != b
	default:
		return a == b
	}
}

func compareStrings(a, op, b string) bool {
	switch op {
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	case "!=":
		return a != b
	default:
		return a == b
	}
}

func compareTimes(a time.Time, op string, b time.Time) bool {
	switch op {
	case ">":
		return a.After(b)
	case "<":
		return a.Before(b)
	case ">=":
		return !a.Before(b)
	case "<=":
		return !a.After(b)
	case "!=":
		return !a.Equal(b)
	default:
		return a.Equal(b)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
