package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

func TestFilterEquality(t *testing.T) {
	table := sprintFixture()

	got := Filter(table, map[string]any{dataset.ColSprintID: "SPR-001"})
	assert.Equal(t, 3, got.Len())
	for i := 0; i < got.Len(); i++ {
		assert.Equal(t, "SPR-001", got.StringAt(i, dataset.ColSprintID))
	}
}

func TestFilterListMembership(t *testing.T) {
	table := sprintFixture()

	got := Filter(table, map[string]any{dataset.ColStatus: []string{"Done", "In Progress"}})
	assert.Equal(t, 5, got.Len())
}

func TestFilterAcrossColumnsIsConjunction(t *testing.T) {
	table := sprintFixture()

	got := Filter(table, map[string]any{
		dataset.ColSprintID: "SPR-002",
		dataset.ColType:     "Bug",
	})
	assert.Equal(t, 2, got.Len())
}

func TestFilterComparisonOperator(t *testing.T) {
	table := sprintFixture()

	got := Filter(table, map[string]any{
		dataset.ColStoryPoints: Comparison{Operator: ">=", Value: 5},
	})
	assert.Equal(t, 2, got.Len())

	// The JSON map form behaves the same.
	got = Filter(table, map[string]any{
		dataset.ColStoryPoints: map[string]any{"operator": ">=", "value": float64(5)},
	})
	assert.Equal(t, 2, got.Len())
}

func TestFilterNullCells(t *testing.T) {
	table := sprintFixture()

	// T-3 and T-5 have null cycle time: equality and ordering never match
	// a null, only "!=" does.
	eq := Filter(table, map[string]any{dataset.ColCycleTimeDays: 2})
	assert.Equal(t, 1, eq.Len())

	gt := Filter(table, map[string]any{
		dataset.ColCycleTimeDays: Comparison{Operator: ">", Value: -1},
	})
	assert.Equal(t, 4, gt.Len())

	ne := Filter(table, map[string]any{
		dataset.ColCycleTimeDays: Comparison{Operator: "!=", Value: 2},
	})
	assert.Equal(t, 5, ne.Len())
}

func TestFilterUnknownColumnIgnored(t *testing.T) {
	table := sprintFixture()

	got := Filter(table, map[string]any{"No_Such_Column": "x"})
	assert.Equal(t, table.Len(), got.Len())
}

func TestFilterPreservesSourceTable(t *testing.T) {
	table := sprintFixture()
	before := table.Len()

	_ = Filter(table, map[string]any{dataset.ColStatus: "Done"})
	assert.Equal(t, before, table.Len())
}
