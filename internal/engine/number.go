package engine

import (
	"encoding/json"
	"math"
)

// Number is a nullable numeric result. Invalid marks the "unavailable"
// sentinel — a metric that could not be computed, as opposed to one that
// computed zero — and marshals as JSON null.
type Number struct {
	Value float64
	Valid bool
}

// Valid builds a defined Number.
func ValidNumber(v float64) Number { return Number{Value: v, Valid: true} }

// Unavailable is the sentinel for metrics that cannot be computed.
func Unavailable() Number { return Number{} }

// MarshalJSON emits null for unavailable values and a plain number
// otherwise. NaN and infinities are treated as unavailable so they never
// cross a JSON boundary.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = ValidNumber(v)
	return nil
}

// round2 rounds to 2 decimal places. Applied only where a value leaves the
// engine, never between chained aggregation steps.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal place, used for user-facing percentages and
// score-like values.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
