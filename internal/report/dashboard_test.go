package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

func reportFixture() *dataset.Table {
	t := dataset.NewTable([]string{
		dataset.ColTicketID, dataset.ColTitle, dataset.ColSprintID, dataset.ColType,
		dataset.ColStatus, dataset.ColState, dataset.ColPriority, dataset.ColSeverity,
		dataset.ColAssignee, dataset.ColAreaModule, dataset.ColStoryPoints,
		dataset.ColCycleTimeDays, dataset.ColDevTimeHours, dataset.ColQATimeHours,
		dataset.ColCarriedOverFrom,
	})
	rows := [][]dataset.Value{
		{dataset.String("T-1"), dataset.String("Login flow"), dataset.String("SPR-001"), dataset.String("Story"),
			dataset.String("Done"), dataset.Null(dataset.KindString), dataset.String("Medium"), dataset.Null(dataset.KindString),
			dataset.String("Alice"), dataset.String("Auth"), dataset.Number(5),
			dataset.Number(2), dataset.Number(20), dataset.Number(10),
			dataset.Null(dataset.KindString)},
		{dataset.String("T-2"), dataset.String("Search API"), dataset.String("SPR-001"), dataset.String("Story"),
			dataset.String("Done"), dataset.Null(dataset.KindString), dataset.String("Medium"), dataset.Null(dataset.KindString),
			dataset.String("Bob"), dataset.String("Search"), dataset.Number(3),
			dataset.Number(4), dataset.Number(10), dataset.Number(10),
			dataset.Null(dataset.KindString)},
		{dataset.String("T-3"), dataset.String("Index cleanup"), dataset.String("SPR-001"), dataset.String("Task"),
			dataset.String("To Do"), dataset.String("Spillover"), dataset.String("Low"), dataset.Null(dataset.KindString),
			dataset.String("Alice"), dataset.String("Auth"), dataset.Number(2),
			dataset.Null(dataset.KindNumber), dataset.Null(dataset.KindNumber), dataset.Null(dataset.KindNumber),
			dataset.String("SPR-000")},
		{dataset.String("T-4"), dataset.String("Profile page"), dataset.String("SPR-002"), dataset.String("Story"),
			dataset.String("Done"), dataset.Null(dataset.KindString), dataset.String("Medium"), dataset.Null(dataset.KindString),
			dataset.String("Alice"), dataset.String("Auth"), dataset.Number(8),
			dataset.Number(3), dataset.Number(25), dataset.Number(5),
			dataset.Null(dataset.KindString)},
		{dataset.String("T-5"), dataset.String("Search crash"), dataset.String("SPR-002"), dataset.String("Bug"),
			dataset.String("In Progress"), dataset.String("Blocked"), dataset.String("Critical"), dataset.String("Major"),
			dataset.String("Bob"), dataset.String("Search"), dataset.Number(3),
			dataset.Null(dataset.KindNumber), dataset.Number(8), dataset.Number(2),
			dataset.Null(dataset.KindString)},
		{dataset.String("T-6"), dataset.String("Login typo"), dataset.String("SPR-002"), dataset.String("Bug"),
			dataset.String("Done"), dataset.Null(dataset.KindString), dataset.String("High"), dataset.String("Minor"),
			dataset.String("Carol"), dataset.String("Auth"), dataset.Number(2),
			dataset.Number(5), dataset.Number(6), dataset.Number(4),
			dataset.Null(dataset.KindString)},
	}
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t
}

func TestKPIs(t *testing.T) {
	got := KPIs(reportFixture())

	assert.Equal(t, KPI{Value: 9, Indicator: "red", Label: "Sprint Velocity (Avg Points)"}, got.SprintVelocity)
	assert.Equal(t, KPI{Value: 78.3, Indicator: "green", Label: "Delivery %"}, got.DeliveryPercentage)
	assert.Equal(t, KPI{Value: 2, Indicator: "green", Label: "Total Bugs"}, got.BugCount)
	assert.Equal(t, KPI{Value: 16.7, Indicator: "red", Label: "Spillover %"}, got.SpilloverPercentage)
	assert.Equal(t, KPI{Value: 3.5, Indicator: "red", Label: "Avg Cycle Time (Days)"}, got.AvgCycleTime)

	require.Len(t, got.SprintDetails, 2)
	first := got.SprintDetails[0]
	assert.Equal(t, "SPR-001", first.SprintID)
	assert.InDelta(t, 8, first.Velocity, 1e-9)
	assert.InDelta(t, 10, first.PlannedPoints, 1e-9)
	assert.InDelta(t, 80, first.DeliveryPct, 1e-9)
	assert.Equal(t, 0, first.Bugs)
	assert.InDelta(t, 100.0/3, first.SpilloverPct, 1e-9)
	assert.InDelta(t, 3, first.AvgCycleTime, 1e-9)
}

func TestStateDist(t *testing.T) {
	got := StateDist(reportFixture())

	assert.Equal(t, []string{"Blocked", "Spillover"}, got.States)
	assert.Equal(t, []int{1, 1}, got.Counts)
	assert.Equal(t, []float64{50, 50}, got.Percentages)
	assert.Equal(t, 2, got.Total)
}

func TestVelocitySeries(t *testing.T) {
	got := Velocity(reportFixture())

	assert.Equal(t, []string{"SPR-001", "SPR-002"}, got.Sprints)
	assert.Equal(t, []float64{10, 13}, got.Planned)
	assert.Equal(t, []float64{8, 10}, got.Completed)
}

func TestBugsBreakdown(t *testing.T) {
	got := Bugs(reportFixture())

	assert.Equal(t, 2, got.TotalBugs)
	assert.Equal(t, []string{"Major", "Minor"}, got.Severity.Labels)
	assert.Equal(t, []string{"Auth", "Search"}, got.ByArea.Labels)
}

func TestWorkloadOrdering(t *testing.T) {
	got := Workload(reportFixture())

	require.Len(t, got.Assignees, 3)
	assert.Equal(t, "Alice", got.Assignees[0].Assignee)
	assert.InDelta(t, 45, got.Assignees[0].DevHours, 1e-9)
	assert.InDelta(t, 15, got.Assignees[0].QAHours, 1e-9)
	assert.InDelta(t, 60, got.Assignees[0].Percentage, 1e-9)
	assert.Equal(t, "Bob", got.Assignees[1].Assignee)
	assert.Equal(t, "Carol", got.Assignees[2].Assignee)

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, got.Heatmap.Assignees)
	assert.Equal(t, []string{"Auth", "Search"}, got.Heatmap.Areas)
	assert.Equal(t, [][]float64{{3, 0}, {0, 2}, {1, 0}}, got.Heatmap.Values)
}

func TestSpilloverOverview(t *testing.T) {
	got := Spillover(reportFixture())

	assert.Equal(t, 1, got.TotalSpilled)
	assert.InDelta(t, 2, got.TotalPointsSpilled, 1e-9)
	require.Len(t, got.Table, 1)
	assert.Equal(t, "T-3", got.Table[0].TicketID)
	assert.Equal(t, "SPR-000", got.Table[0].CarriedOverFrom)
	assert.Equal(t, []string{"Auth"}, got.Areas)
	assert.Equal(t, []float64{2}, got.AreaStoryPoints)
}
