package engine

import "fmt"

// UnknownOperationError reports an operation name outside the catalogue.
// Always surfaced to the caller, never mapped to a default.
type UnknownOperationError struct {
	Op string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %s", e.Op)
}

// UnknownMetricError reports a metric name outside the catalogue.
type UnknownMetricError struct {
	Name string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric: %s", e.Name)
}

// EmptySprintError reports a metric that requires a populated sprint being
// asked about one with no rows. Only sprint_health raises it; other metrics
// resolve empty partitions by policy.
type EmptySprintError struct {
	SprintID string
}

func (e *EmptySprintError) Error() string {
	return fmt.Sprintf("sprint %s has no tickets", e.SprintID)
}
