package engine

import (
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

// Operation enumerates the analytical operations the engine accepts.
// Callers pick from this closed set; there is no default and no fuzzy
// matching of operation names.
type Operation string

const (
	OpFilter             Operation = "filter"
	OpAggregate          Operation = "aggregate"
	OpGroupBy            Operation = "group_by"
	OpCalculateMetric    Operation = "calculate_metric"
	OpComparePartitions  Operation = "compare_partitions"
	OpTrend              Operation = "trend"
	OpTeamComparison     Operation = "team_comparison"
	OpTimeSeries         Operation = "time_series"
	OpPivot              Operation = "pivot"
	OpStatisticalSummary Operation = "statistical_summary"
)

// Request is one analytical call. Only the fields relevant to the chosen
// operation are read.
type Request struct {
	Op Operation `json:"operation"`

	// filter
	Predicates map[string]any `json:"predicates,omitempty"`

	// aggregate / group_by
	GroupBy      []string             `json:"group_by,omitempty"`
	Aggregations map[string][]AggFunc `json:"aggregations,omitempty"`
	ValueColumn  string               `json:"value_column,omitempty"`
	Agg          AggFunc              `json:"aggregation,omitempty"`

	// calculate_metric
	Metric string       `json:"metric,omitempty"`
	Params MetricParams `json:"params,omitempty"`

	// compare_partitions / trend / team_comparison
	PartitionIDs []string `json:"partition_ids,omitempty"`
	Metrics      []string `json:"metrics,omitempty"`
	TrendGroupBy string   `json:"trend_group_by,omitempty"`

	// pivot
	Index   string `json:"index,omitempty"`
	Columns string `json:"columns,omitempty"`
	Values  string `json:"values,omitempty"`

	// time_series
	DateColumn string `json:"date_column,omitempty"`

	// statistical_summary
	StatColumns []string `json:"stat_columns,omitempty"`
}

// Evaluate runs one request against a table snapshot. It is a pure
// function of (table, request): identical inputs give identical outputs,
// and nothing retains a reference to "the current table" — the caller
// passes the snapshot it wants analyzed. Structural problems (unknown
// operation or metric) come back as errors; data-shape edge cases are
// resolved by the component policies and never raise.
func Evaluate(t *dataset.Table, req Request) (any, error) {
	switch req.Op {
	case OpFilter:
		return Filter(t, req.Predicates), nil
	case OpAggregate:
		return Aggregate(t, req.GroupBy, req.Aggregations), nil
	case OpGroupBy:
		return GroupReduce(t, req.GroupBy, req.ValueColumn, defaultAgg(req.Agg)), nil
	case OpCalculateMetric:
		return CalculateMetric(t, req.Metric, req.Params)
	case OpComparePartitions:
		return Compare(t, req.PartitionIDs, req.Metrics), nil
	case OpTrend:
		groupBy := req.TrendGroupBy
		if groupBy == "" {
			groupBy = dataset.ColSprintID
		}
		return Trend(t, req.Metric, groupBy), nil
	case OpTeamComparison:
		return TeamComparison(t, req.Metric), nil
	case OpTimeSeries:
		return TimeSeries(t, req.DateColumn, req.ValueColumn, defaultAgg(req.Agg)), nil
	case OpPivot:
		return Pivot(t, req.Index, req.Columns, req.Values, defaultAgg(req.Agg)), nil
	case OpStatisticalSummary:
		return Describe(t, req.StatColumns), nil
	default:
		return nil, &UnknownOperationError{Op: string(req.Op)}
	}
}

func defaultAgg(fn AggFunc) AggFunc {
	if fn == "" {
		return AggSum
	}
	return fn
}
