// Package charts builds render-ready chart descriptions from engine
// results. It never produces image bytes; a frontend or chart renderer
// consumes these structures.
package charts

import (
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/engine"
)

// ChartType enumerates supported renderings.
type ChartType string

const (
	TypePie ChartType = "pie"
	TypeBar ChartType = "bar"
)

// Chart describes one chart for the frontend.
type Chart struct {
	Type       ChartType `json:"chart_type"`
	Title      string    `json:"title"`
	XAxis      string    `json:"x_axis,omitempty"`
	YAxis      string    `json:"y_axis,omitempty"`
	ShowLegend bool      `json:"show_legend"`
	Series     []Series  `json:"series"`
}

// Series is one labeled data series.
type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`
}

var statusColors = map[string]string{
	"Done":        "#10b981",
	"In Progress": "#f59e0b",
	"In Testing":  "#3b82f6",
	"To Do":       "#6b7280",
}

// StatusPie is the status distribution pie chart. Returns nil when the
// table is empty or has no status column.
func StatusPie(t *dataset.Table) *Chart {
	labels, values := countSeries(t, dataset.ColStatus)
	if len(labels) == 0 {
		return nil
	}
	return &Chart{
		Type:       TypePie,
		Title:      "Ticket Status Distribution",
		ShowLegend: true,
		Series:     []Series{{Name: "Status", Labels: labels, Values: values}},
	}
}

// SprintVelocityBar is a stacked bar of story points per sprint split by
// status, built from a pivot so sprints with no rows in a status show 0.
func SprintVelocityBar(t *dataset.Table) *Chart {
	if t.Len() == 0 || !t.HasColumn(dataset.ColSprintID) || !t.HasColumn(dataset.ColStoryPoints) {
		return nil
	}
	pivot := engine.Pivot(t, dataset.ColSprintID, dataset.ColStatus, dataset.ColStoryPoints, engine.AggSum)

	sprints := make([]string, 0, pivot.Len())
	for i := 0; i < pivot.Len(); i++ {
		sprints = append(sprints, pivot.StringAt(i, dataset.ColSprintID))
	}

	chart := &Chart{
		Type:       TypeBar,
		Title:      "Sprint Velocity - Story Points by Status",
		XAxis:      "Sprint",
		YAxis:      "Story Points",
		ShowLegend: true,
	}
	for _, column := range pivot.Columns() {
		if column == dataset.ColSprintID {
			continue
		}
		values := make([]float64, 0, pivot.Len())
		for i := 0; i < pivot.Len(); i++ {
			v, _ := pivot.NumberAt(i, column)
			values = append(values, v)
		}
		chart.Series = append(chart.Series, Series{
			Name:   column,
			Labels: sprints,
			Values: values,
			Color:  statusColors[column],
		})
	}
	return chart
}

// TeamPerformanceBar is story points per assignee split by status.
func TeamPerformanceBar(t *dataset.Table) *Chart {
	if t.Len() == 0 || !t.HasColumn(dataset.ColAssignee) || !t.HasColumn(dataset.ColStoryPoints) {
		return nil
	}
	pivot := engine.Pivot(t, dataset.ColAssignee, dataset.ColStatus, dataset.ColStoryPoints, engine.AggSum)

	assignees := make([]string, 0, pivot.Len())
	for i := 0; i < pivot.Len(); i++ {
		assignees = append(assignees, pivot.StringAt(i, dataset.ColAssignee))
	}

	chart := &Chart{
		Type:       TypeBar,
		Title:      "Team Performance - Story Points by Member",
		XAxis:      "Assignee",
		YAxis:      "Story Points",
		ShowLegend: true,
	}
	for _, column := range pivot.Columns() {
		if column == dataset.ColAssignee {
			continue
		}
		values := make([]float64, 0, pivot.Len())
		for i := 0; i < pivot.Len(); i++ {
			v, _ := pivot.NumberAt(i, column)
			values = append(values, v)
		}
		chart.Series = append(chart.Series, Series{
			Name:   column,
			Labels: assignees,
			Values: values,
			Color:  statusColors[column],
		})
	}
	return chart
}

// PriorityBar is the ticket count per priority.
func PriorityBar(t *dataset.Table) *Chart {
	labels, values := countSeries(t, dataset.ColPriority)
	if len(labels) == 0 {
		return nil
	}
	series := Series{Name: "Priority", Labels: labels, Values: values}
	return &Chart{
		Type:   TypeBar,
		Title:  "Priority Distribution",
		XAxis:  "Priority",
		YAxis:  "Tickets",
		Series: []Series{series},
	}
}

// BugSeverityBar is the bug count per severity, falling back to priority
// when the export carries no severity column.
func BugSeverityBar(t *dataset.Table) *Chart {
	bugs := engine.Filter(t, map[string]any{dataset.ColType: "Bug"})
	labels, values := countSeries(bugs, dataset.ColSeverity)
	if len(labels) == 0 {
		// Fall back to priority when the export has no severity column.
		labels, values = countSeries(bugs, dataset.ColPriority)
	}
	if len(labels) == 0 {
		return nil
	}
	return &Chart{
		Type:   TypeBar,
		Title:  "Bug Distribution by Severity",
		XAxis:  "Severity",
		YAxis:  "Bugs",
		Series: []Series{{Name: "Bugs", Labels: labels, Values: values}},
	}
}

// countSeries tallies a string column into parallel label/value slices in
// first-occurrence order.
func countSeries(t *dataset.Table, column string) ([]string, []float64) {
	if t.Len() == 0 || !t.HasColumn(column) {
		return nil, nil
	}
	order := make([]string, 0)
	counts := make(map[string]float64)
	for i := 0; i < t.Len(); i++ {
		s := t.StringAt(i, column)
		if s == "" {
			continue
		}
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}
	values := make([]float64, len(order))
	for i, label := range order {
		values[i] = counts[label]
	}
	return order, values
}
