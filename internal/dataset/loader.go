package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrDataLoad indicates the source could not be parsed into tabular form.
// Fatal at startup; per-cell coercion failures never produce it.
var ErrDataLoad = errors.New("dataset: source is not tabular")

// dateColumns and numericColumns drive type coercion at load time. Columns
// not listed here stay strings.
var dateColumns = map[string]bool{
	ColCreatedDate:   true,
	ColStartedDate:   true,
	ColCompletedDate: true,
	ColSprintStart:   true,
	ColSprintEnd:     true,
}

var numericColumns = map[string]bool{
	ColStoryPoints:       true,
	ColCycleTimeDays:     true,
	ColDevTimeHours:      true,
	ColQATimeHours:       true,
	ColEstimatedHours:    true,
	ColTeamCapacityHours: true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// LoadCSV parses a sprint export into a typed table. Date-like and
// numeric-like columns are coerced; unparseable cells become nulls, never
// errors. Missing optional columns are tolerated — downstream metrics that
// need them report themselves unavailable.
func LoadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	if !contains(columns, ColSprintID) {
		return nil, fmt.Errorf("%w: missing column %s", ErrDataLoad, ColSprintID)
	}

	table := NewTable(columns)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
		}
		cells := make([]Value, len(columns))
		for i := range columns {
			raw := ""
			if i < len(record) {
				raw = strings.TrimSpace(record[i])
			}
			cells[i] = coerce(columns[i], raw)
		}
		table.AppendRow(cells)
	}
	return table, nil
}

// LoadCSVFile loads a table from a CSV file on disk.
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer f.Close()
	return LoadCSV(f)
}

func coerce(column, raw string) Value {
	switch {
	case dateColumns[column]:
		if raw == "" {
			return Null(KindTime)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return Time(t)
			}
		}
		return Null(KindTime)
	case numericColumns[column]:
		if raw == "" {
			return Null(KindNumber)
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Number(f)
		}
		return Null(KindNumber)
	default:
		if raw == "" {
			return Null(KindString)
		}
		return String(raw)
	}
}

func contains(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}
