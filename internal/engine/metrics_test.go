package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

func metricNumber(t *testing.T, table *dataset.Table, name string, p MetricParams) float64 {
	t.Helper()
	got, err := CalculateMetric(table, name, p)
	require.NoError(t, err)
	n, ok := got.(Number)
	require.True(t, ok, "metric %s should yield a Number", name)
	require.True(t, n.Valid)
	return n.Value
}

func TestCompletionRate(t *testing.T) {
	table := sprintFixture()

	byPoints := metricNumber(t, table, MetricCompletionRate, MetricParams{SprintID: "SPR-001", By: "points"})
	assert.InDelta(t, 80.0, byPoints, 1e-9)

	byTickets := metricNumber(t, table, MetricCompletionRate, MetricParams{SprintID: "SPR-001"})
	assert.InDelta(t, 66.67, byTickets, 1e-9)

	// Unknown sprint filters to nothing; the rate policy reads that as 0%.
	empty := metricNumber(t, table, MetricCompletionRate, MetricParams{SprintID: "SPR-999"})
	assert.Zero(t, empty)
}

func TestCompletionRateStaysInBounds(t *testing.T) {
	table := sprintFixture()

	for _, p := range []MetricParams{
		{}, {By: "points"}, {SprintID: "SPR-001"}, {SprintID: "SPR-002", By: "points"},
	} {
		rate := metricNumber(t, table, MetricCompletionRate, p)
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 100.0)
	}
}

func TestVelocity(t *testing.T) {
	table := sprintFixture()

	assert.InDelta(t, 8, metricNumber(t, table, MetricVelocity, MetricParams{SprintID: "SPR-001"}), 1e-9)
	assert.InDelta(t, 10, metricNumber(t, table, MetricVelocity, MetricParams{SprintID: "SPR-002"}), 1e-9)
	assert.InDelta(t, 18, metricNumber(t, table, MetricVelocity, MetricParams{}), 1e-9)
}

func TestVelocityGrowsWithCompletedWork(t *testing.T) {
	table := sprintFixture()
	before := metricNumber(t, table, MetricVelocity, MetricParams{SprintID: "SPR-001"})

	table.AppendRow([]dataset.Value{
		dataset.String("T-7"), dataset.String("SPR-001"), dataset.String("Story"), dataset.String("Done"),
		dataset.Null(dataset.KindString), dataset.String("Low"), dataset.Null(dataset.KindString), dataset.String("Carol"),
		dataset.Number(1), dataset.Number(1),
		dataset.Number(4), dataset.Number(1), dataset.Number(100),
		day("2024-01-12"), day("2024-01-01"), day("2024-01-14"),
	})

	after := metricNumber(t, table, MetricVelocity, MetricParams{SprintID: "SPR-001"})
	assert.Greater(t, after, before)
}

func TestCapacityUtilization(t *testing.T) {
	table := sprintFixture()

	// SPR-001 logged 30 dev and 20 QA hours against a 100 hour capacity.
	got := metricNumber(t, table, MetricCapacityUtilization, MetricParams{SprintID: "SPR-001"})
	assert.InDelta(t, 50.0, got, 1e-9)

	missing, err := CalculateMetric(table, MetricCapacityUtilization, MetricParams{SprintID: "SPR-999"})
	require.NoError(t, err)
	assert.False(t, missing.(Number).Valid)
}

func TestCycleTimeAvg(t *testing.T) {
	table := sprintFixture()

	done := metricNumber(t, table, MetricCycleTimeAvg, MetricParams{})
	assert.InDelta(t, 3.5, done, 1e-9)

	bugs := metricNumber(t, table, MetricCycleTimeAvg, MetricParams{TicketType: "Bug"})
	assert.InDelta(t, 5, bugs, 1e-9)

	// No rows with the requested status reads as 0 days.
	none := metricNumber(t, table, MetricCycleTimeAvg, MetricParams{Status: "Cancelled"})
	assert.Zero(t, none)
}

func TestBugResolutionRate(t *testing.T) {
	table := sprintFixture()
	assert.InDelta(t, 50.0, metricNumber(t, table, MetricBugResolutionRate, MetricParams{}), 1e-9)
}

func TestTeamProductivity(t *testing.T) {
	table := sprintFixture()

	got, err := CalculateMetric(table, MetricTeamProductivity, MetricParams{SprintID: "SPR-001"})
	require.NoError(t, err)
	report := got.(TeamProductivity)

	require.Len(t, report.TeamMembers, 2)
	alice := report.TeamMembers[0]
	assert.Equal(t, "Alice", alice.Assignee)
	assert.InDelta(t, 5, alice.CompletedPoints, 1e-9)
	assert.Equal(t, 2, alice.TotalTickets)
	assert.Equal(t, 1, alice.CompletedTickets)
	assert.InDelta(t, 50.0, alice.CompletionRate, 1e-9)

	assert.InDelta(t, 8, report.TotalTeamPoints, 1e-9)
	assert.InDelta(t, 4, report.AvgPointsPerPerson, 1e-9)
}

func TestSprintHealth(t *testing.T) {
	table := sprintFixture()

	got, err := CalculateMetric(table, MetricSprintHealth, MetricParams{SprintID: "SPR-001"})
	require.NoError(t, err)
	health := got.(SprintHealth)

	assert.Equal(t, "SPR-001", health.SprintID)
	assert.InDelta(t, 80.0, health.CompletionRatePoints, 1e-9)
	assert.InDelta(t, 66.67, health.CompletionRateTickets, 1e-9)
	assert.InDelta(t, 8, health.Velocity, 1e-9)
	assert.Zero(t, health.WorkInProgressPoints)
	assert.InDelta(t, 2, health.TodoPoints, 1e-9)
	assert.Zero(t, health.BugsCount)
	assert.Zero(t, health.CriticalBugs)
	assert.Zero(t, health.HighPriorityIncomplete)
	// One of three tickets sits in To Do, just past the 30% threshold.
	assert.InDelta(t, 98.33, health.HealthScore, 1e-9)
}

func TestSprintHealthUnknownSprint(t *testing.T) {
	table := sprintFixture()

	_, err := CalculateMetric(table, MetricSprintHealth, MetricParams{SprintID: "SPR-999"})
	var empty *EmptySprintError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "SPR-999", empty.SprintID)
}

func TestHealthScoreBounds(t *testing.T) {
	perfect := mkTable(
		[]string{dataset.ColSprintID, dataset.ColType, dataset.ColStatus, dataset.ColPriority, dataset.ColStoryPoints},
		[]dataset.Value{dataset.String("SPR-001"), dataset.String("Story"), dataset.String("Done"), dataset.String("Medium"), dataset.Number(5)},
		[]dataset.Value{dataset.String("SPR-001"), dataset.String("Story"), dataset.String("Done"), dataset.String("Medium"), dataset.Number(3)},
	)
	got, err := CalculateMetric(perfect, MetricSprintHealth, MetricParams{SprintID: "SPR-001"})
	require.NoError(t, err)
	assert.InDelta(t, 100, got.(SprintHealth).HealthScore, 1e-9)

	// Stack enough critical bugs to push raw score below zero.
	rows := [][]dataset.Value{}
	for i := 0; i < 12; i++ {
		rows = append(rows, []dataset.Value{
			dataset.String("SPR-001"), dataset.String("Bug"), dataset.String("To Do"), dataset.String("Critical"), dataset.Number(3),
		})
	}
	disaster := mkTable(
		[]string{dataset.ColSprintID, dataset.ColType, dataset.ColStatus, dataset.ColPriority, dataset.ColStoryPoints},
		rows...,
	)
	got, err = CalculateMetric(disaster, MetricSprintHealth, MetricParams{SprintID: "SPR-001"})
	require.NoError(t, err)
	assert.Zero(t, got.(SprintHealth).HealthScore)
}

func TestWorkDistribution(t *testing.T) {
	table := sprintFixture()

	got, err := CalculateMetric(table, MetricWorkDistribution, MetricParams{SprintID: "SPR-001"})
	require.NoError(t, err)
	dist := got.(WorkDistribution)

	require.Len(t, dist.Distribution, 2)
	assert.InDelta(t, 7, dist.Distribution["Alice"].StoryPoints, 1e-9)
	assert.InDelta(t, 70.0, dist.Distribution["Alice"].Percentage, 1e-9)
	assert.InDelta(t, 3, dist.Distribution["Bob"].StoryPoints, 1e-9)

	assert.InDelta(t, 5, dist.MeanPointsPerPerson, 1e-9)
	assert.InDelta(t, 2, dist.StdDeviation, 1e-9)
	assert.InDelta(t, 60.0, dist.BalanceScore, 1e-9)
}

func TestWorkDistributionEvenLoad(t *testing.T) {
	table := mkTable(
		[]string{dataset.ColSprintID, dataset.ColAssignee, dataset.ColStoryPoints},
		[]dataset.Value{dataset.String("SPR-001"), dataset.String("Alice"), dataset.Number(5)},
		[]dataset.Value{dataset.String("SPR-001"), dataset.String("Bob"), dataset.Number(5)},
	)

	got, err := CalculateMetric(table, MetricWorkDistribution, MetricParams{SprintID: "SPR-001"})
	require.NoError(t, err)
	dist := got.(WorkDistribution)

	assert.Zero(t, dist.StdDeviation)
	assert.InDelta(t, 100, dist.BalanceScore, 1e-9)
}

func TestQualityMetrics(t *testing.T) {
	table := sprintFixture()

	got, err := CalculateMetric(table, MetricQualityMetrics, MetricParams{SprintID: "SPR-002"})
	require.NoError(t, err)
	quality := got.(QualityMetrics)

	assert.Equal(t, 2, quality.TotalBugs)
	assert.InDelta(t, 200.0, quality.BugToStoryRatio, 1e-9)
	assert.InDelta(t, 50.0, quality.BugResolutionRate, 1e-9)
	assert.Equal(t, map[string]int{"Major": 1, "Minor": 1}, quality.SeverityDistribution)
	assert.InDelta(t, 5, quality.AvgBugFixTimeDays, 1e-9)
}

func TestBurndown(t *testing.T) {
	table := sprintFixture()

	got, err := CalculateMetric(table, MetricBurndown, MetricParams{SprintID: "SPR-001"})
	require.NoError(t, err)
	series := got.([]BurndownPoint)

	require.Len(t, series, 2)
	assert.Equal(t, BurndownPoint{Date: "2024-01-05", RemainingPoints: 5, CompletedPoints: 5}, series[0])
	assert.Equal(t, BurndownPoint{Date: "2024-01-10", RemainingPoints: 2, CompletedPoints: 8}, series[1])
}

func TestUnknownMetricRejected(t *testing.T) {
	table := sprintFixture()

	_, err := CalculateMetric(table, "made_up", MetricParams{})
	var unknown *UnknownMetricError
	assert.True(t, errors.As(err, &unknown))
}
