package dataset

import (
	"time"
)

// Canonical column names as they appear in the sprint export. Optional
// columns may be absent from a loaded table; consumers must check with
// HasColumn before relying on them.
const (
	ColTicketID          = "Ticket_ID"
	ColTitle             = "Title"
	ColSprintID          = "Sprint_ID"
	ColType              = "Type"
	ColStatus            = "Status"
	ColState             = "State"
	ColPriority          = "Priority"
	ColSeverity          = "Severity"
	ColAssignee          = "Assignee"
	ColAssigneeRole      = "Assignee_Role"
	ColAreaModule        = "Area_Module"
	ColStoryPoints       = "Story_Points"
	ColCreatedDate       = "Created_Date"
	ColStartedDate       = "Started_Date"
	ColCompletedDate     = "Completed_Date"
	ColCycleTimeDays     = "Cycle_Time_Days"
	ColDevTimeHours      = "Dev_Time_Hours"
	ColQATimeHours       = "QA_Time_Hours"
	ColEstimatedHours    = "Estimated_Hours"
	ColTeamCapacityHours = "Team_Capacity_Hours"
	ColCarriedOverFrom   = "Carried_Over_From"
	ColSprintStart       = "Sprint_Start"
	ColSprintEnd         = "Sprint_End"
)

// Kind describes the coerced type of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

// Value is a single nullable cell. Unparseable dates and numbers load as
// invalid values rather than failing the row.
type Value struct {
	Kind  Kind
	Str   string
	Num   float64
	Time  time.Time
	Valid bool
}

// String builds a valid string cell.
func String(s string) Value { return Value{Kind: KindString, Str: s, Valid: true} }

// Number builds a valid numeric cell.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f, Valid: true} }

// Time builds a valid time cell.
func Time(t time.Time) Value { return Value{Kind: KindTime, Time: t, Valid: true} }

// Null builds an invalid cell of the given kind.
func Null(kind Kind) Value { return Value{Kind: kind} }

// Table is an immutable header plus rows. Derived tables produced by the
// engine share the backing row slices of their parent; nothing may write a
// cell after load.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &Table{columns: columns, index: index}
}

// AppendRow adds a row. Short rows are padded with string nulls so every
// row has one cell per column.
func (t *Table) AppendRow(cells []Value) {
	if len(cells) < len(t.columns) {
		padded := make([]Value, len(t.columns))
		copy(padded, cells)
		cells = padded
	}
	t.rows = append(t.rows, cells[:len(t.columns)])
}

// Columns returns the column names in order.
func (t *Table) Columns() []string { return t.columns }

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Value returns the cell at (row, column). The second return is false when
// the column does not exist.
func (t *Table) Value(row int, column string) (Value, bool) {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return Value{}, false
	}
	return t.rows[row][i], true
}

// NumberAt returns the numeric cell value; false when the column is
// missing or the cell is null.
func (t *Table) NumberAt(row int, column string) (float64, bool) {
	v, ok := t.Value(row, column)
	if !ok || !v.Valid || v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// StringAt returns the string cell value, or "" when missing or null.
func (t *Table) StringAt(row int, column string) string {
	v, ok := t.Value(row, column)
	if !ok || !v.Valid || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// TimeAt returns the time cell value; false when missing or null.
func (t *Table) TimeAt(row int, column string) (time.Time, bool) {
	v, ok := t.Value(row, column)
	if !ok || !v.Valid || v.Kind != KindTime {
		return time.Time{}, false
	}
	return v.Time, true
}

// Select returns a derived table holding the given rows of t, in the given
// order, sharing the backing row slices. Original column set and order are
// preserved.
func (t *Table) Select(rows []int) *Table {
	out := NewTable(t.columns)
	out.rows = make([][]Value, 0, len(rows))
	for _, r := range rows {
		if r >= 0 && r < len(t.rows) {
			out.rows = append(out.rows, t.rows[r])
		}
	}
	return out
}

// NumericColumns returns the columns whose cells are numeric.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.columns {
		if t.columnKind(c) == KindNumber {
			out = append(out, c)
		}
	}
	return out
}

// columnKind infers a column's kind from its first non-null cell, falling
// back to the first cell's declared kind.
func (t *Table) columnKind(column string) Kind {
	i, ok := t.index[column]
	if !ok {
		return KindString
	}
	for _, row := range t.rows {
		if row[i].Valid {
			return row[i].Kind
		}
	}
	if len(t.rows) > 0 {
		return t.rows[0][i].Kind
	}
	return KindString
}

// RowMap converts a row into a JSON-friendly map: numbers as float64,
// dates as ISO-8601 strings, nulls as nil.
func (t *Table) RowMap(row int) map[string]any {
	out := make(map[string]any, len(t.columns))
	for _, c := range t.columns {
		v, _ := t.Value(row, c)
		out[c] = v.Export()
	}
	return out
}

// Rows converts the whole table into JSON-friendly maps.
func (t *Table) Rows() []map[string]any {
	out := make([]map[string]any, t.Len())
	for i := range t.rows {
		out[i] = t.RowMap(i)
	}
	return out
}

// Export returns the JSON representation of a cell: nil for nulls, float64
// for numbers, ISO-8601 date strings for times.
func (v Value) Export() any {
	if !v.Valid {
		return nil
	}
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindTime:
		return v.Time.Format("2006-01-02")
	default:
		return v.Str
	}
}
