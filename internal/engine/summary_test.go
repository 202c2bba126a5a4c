package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	table := sprintFixture()

	got := Summarize(table)
	assert.Equal(t, 6, got.TotalTickets)
	assert.Equal(t, []string{"SPR-001", "SPR-002"}, got.Sprints)
	assert.Equal(t, map[string]int{"Story": 3, "Task": 1, "Bug": 2}, got.TicketTypes)
	assert.Equal(t, map[string]int{"Done": 4, "To Do": 1, "In Progress": 1}, got.StatusDistribution)
	assert.InDelta(t, 23, got.TotalStoryPoints, 1e-9)
}

func TestSummarizeSprint(t *testing.T) {
	table := sprintFixture()

	got := SummarizeSprint(table, "SPR-001")
	assert.Equal(t, "SPR-001", got.SprintID)
	assert.Equal(t, 3, got.TotalTickets)
	assert.Equal(t, map[string]int{"Done": 2, "To Do": 1}, got.StatusBreakdown)
	assert.InDelta(t, 10, got.TotalStoryPoints, 1e-9)
	assert.InDelta(t, 8, got.CompletedStoryPoints, 1e-9)
	assert.Zero(t, got.InProgressTickets)
	assert.Equal(t, []string{"Alice", "Bob"}, got.TeamMembers)
	assert.Zero(t, got.HighPriorityTickets)
}

func TestSummarizeSprintAll(t *testing.T) {
	table := sprintFixture()

	got := SummarizeSprint(table, "")
	assert.Equal(t, "All Sprints", got.SprintID)
	assert.Equal(t, 6, got.TotalTickets)
	assert.Equal(t, 1, got.InProgressTickets)
	assert.Equal(t, 1, got.HighPriorityTickets)
}

func TestTeamPerformanceSortedByCompletedPoints(t *testing.T) {
	table := sprintFixture()

	got := TeamPerformance(table)
	require.Len(t, got, 3)

	assert.Equal(t, "Alice", got[0].Assignee)
	assert.Equal(t, 3, got[0].TotalTickets)
	assert.Equal(t, 2, got[0].CompletedTickets)
	assert.InDelta(t, 13, got[0].CompletedStoryPoints, 1e-9)

	assert.Equal(t, "Bob", got[1].Assignee)
	assert.Equal(t, 1, got[1].InProgressTickets)
	assert.Equal(t, "Carol", got[2].Assignee)
}

func TestAnalyzeBugs(t *testing.T) {
	table := sprintFixture()

	got := AnalyzeBugs(table)
	assert.Equal(t, 2, got.TotalBugs)
	assert.Equal(t, 1, got.OpenBugs)
	assert.Equal(t, 1, got.ClosedBugs)
	assert.Equal(t, 1, got.CriticalBugs)
	assert.Equal(t, 1, got.HighPriorityBugs)
	assert.Equal(t, map[string]int{"SPR-002": 2}, got.BugsBySprint)
	assert.Equal(t, map[string]int{"Bob": 1, "Carol": 1}, got.BugsByAssignee)
}

func TestSpilloverRate(t *testing.T) {
	table := sprintFixture()
	assert.InDelta(t, 100.0/6, SpilloverRate(table), 1e-9)
}
