package engine

import (
	"sort"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/domain"
)

// Comparison metric names accepted by Compare, Trend and TeamComparison.
const (
	CompareVelocity       = "velocity"
	CompareCompletionRate = "completion_rate"
	CompareBugCount       = "bug_count"
	CompareTeamSize       = "team_size"
	CompareAvgCycleTime   = "avg_cycle_time"
	CompareTicketCount    = "ticket_count"
)

// compareColumns maps a metric name to its output column.
var compareColumns = map[string]string{
	CompareVelocity:       "Velocity",
	CompareCompletionRate: "Completion_Rate",
	CompareBugCount:       "Bugs",
	CompareTeamSize:       "Team_Size",
	CompareAvgCycleTime:   "Avg_Cycle_Time",
}

// Compare evaluates the requested metrics once per partition, producing one
// row per sprint id with one column per metric. Ids matching no rows are
// silently skipped, so the result may have fewer rows than ids requested.
func Compare(t *dataset.Table, sprintIDs []string, metrics []string) *dataset.Table {
	columns := []string{dataset.ColSprintID}
	for _, m := range metrics {
		if col, ok := compareColumns[m]; ok {
			columns = append(columns, col)
		}
	}
	out := dataset.NewTable(columns)

	for _, sprintID := range sprintIDs {
		scoped := bySprint(t, sprintID)
		if scoped.Len() == 0 {
			continue
		}
		cells := []dataset.Value{dataset.String(sprintID)}
		for _, m := range metrics {
			if _, ok := compareColumns[m]; !ok {
				continue
			}
			cells = append(cells, dataset.Number(partitionMetric(scoped, m)))
		}
		out.AppendRow(cells)
	}
	return out
}

// Trend evaluates one metric per distinct group value, returning a
// (group, value) series in grouping iteration order. Callers needing
// chronological order sort by the group key themselves.
func Trend(t *dataset.Table, metric, groupBy string) *dataset.Table {
	out := dataset.NewTable([]string{groupBy, "value"})
	if !t.HasColumn(groupBy) {
		return out
	}
	for _, group := range distinctStrings(t, groupBy) {
		scoped := Filter(t, map[string]any{groupBy: group})
		out.AppendRow([]dataset.Value{
			dataset.String(group),
			dataset.Number(partitionMetric(scoped, metric)),
		})
	}
	return out
}

// TeamComparison evaluates one metric per assignee, sorted descending by
// value.
func TeamComparison(t *dataset.Table, metric string) *dataset.Table {
	type entry struct {
		assignee string
		value    float64
	}
	var entries []entry
	for _, assignee := range distinctStrings(t, dataset.ColAssignee) {
		scoped := Filter(t, map[string]any{dataset.ColAssignee: assignee})
		value := 0.0
		switch metric {
		case CompareCompletionRate:
			// Per-member completion is by tickets, not points.
			value = Round2(percentage(float64(doneRows(scoped).Len()), float64(scoped.Len())))
		case CompareTicketCount:
			value = float64(scoped.Len())
		default:
			value = partitionMetric(scoped, metric)
		}
		entries = append(entries, entry{assignee: assignee, value: value})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].value > entries[b].value
	})

	out := dataset.NewTable([]string{dataset.ColAssignee, "value"})
	for _, e := range entries {
		out.AppendRow([]dataset.Value{dataset.String(e.assignee), dataset.Number(e.value)})
	}
	return out
}

// TimeSeries aggregates a value column per calendar day of a date column.
// Rows with a null date are dropped.
func TimeSeries(t *dataset.Table, dateColumn, valueColumn string, fn AggFunc) *dataset.Table {
	out := dataset.NewTable([]string{"date", valueColumn})
	if !t.HasColumn(dateColumn) || !t.HasColumn(valueColumn) {
		return out
	}

	order := make([]string, 0)
	byDay := make(map[string][]float64)
	for i := 0; i < t.Len(); i++ {
		when, ok := t.TimeAt(i, dateColumn)
		if !ok {
			continue
		}
		day := when.Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		if v, ok := t.NumberAt(i, valueColumn); ok {
			byDay[day] = append(byDay[day], v)
		} else if byDay[day] == nil {
			byDay[day] = []float64{}
		}
	}
	sort.Strings(order)

	for _, day := range order {
		out.AppendRow([]dataset.Value{
			dataset.String(day),
			numberCell(reduce(byDay[day], fn)),
		})
	}
	return out
}

// partitionMetric computes one comparison metric over an already-filtered
// partition.
func partitionMetric(scoped *dataset.Table, metric string) float64 {
	switch metric {
	case CompareVelocity:
		return AggregateScalar(doneRows(scoped), dataset.ColStoryPoints, AggSum).Value
	case CompareCompletionRate:
		total := AggregateScalar(scoped, dataset.ColStoryPoints, AggSum).Value
		completed := AggregateScalar(doneRows(scoped), dataset.ColStoryPoints, AggSum).Value
		return Round2(percentage(completed, total))
	case CompareBugCount:
		return float64(Filter(scoped, map[string]any{dataset.ColType: string(domain.TypeBug)}).Len())
	case CompareTeamSize:
		return float64(len(distinctStrings(scoped, dataset.ColAssignee)))
	case CompareAvgCycleTime:
		avg := AggregateScalar(doneRows(scoped), dataset.ColCycleTimeDays, AggMean)
		if !avg.Valid {
			return 0
		}
		return Round2(avg.Value)
	default:
		return 0
	}
}
