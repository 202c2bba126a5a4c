package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

func TestEvaluateIsDeterministic(t *testing.T) {
	table := sprintFixture()
	req := Request{
		Op:          OpGroupBy,
		GroupBy:     []string{dataset.ColSprintID},
		ValueColumn: dataset.ColStoryPoints,
		Agg:         AggSum,
	}

	first, err := Evaluate(table, req)
	require.NoError(t, err)
	second, err := Evaluate(table, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluateUnknownOperation(t *testing.T) {
	table := sprintFixture()

	_, err := Evaluate(table, Request{Op: "explode"})
	var unknown *UnknownOperationError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "explode", unknown.Op)
}

func TestEvaluateTrendDefaultsToSprintGrouping(t *testing.T) {
	table := sprintFixture()

	got, err := Evaluate(table, Request{Op: OpTrend, Metric: CompareVelocity})
	require.NoError(t, err)
	trend := got.(*dataset.Table)
	assert.Equal(t, []string{dataset.ColSprintID, "value"}, trend.Columns())
	assert.Equal(t, 2, trend.Len())
}

func TestEvaluateGroupByDefaultsToSum(t *testing.T) {
	table := sprintFixture()

	got, err := Evaluate(table, Request{
		Op:          OpGroupBy,
		GroupBy:     []string{dataset.ColSprintID},
		ValueColumn: dataset.ColStoryPoints,
	})
	require.NoError(t, err)
	grouped := got.(*dataset.Table)
	points, _ := grouped.NumberAt(0, dataset.ColStoryPoints)
	assert.InDelta(t, 10, points, 1e-9)
}

func TestEvaluateRequestFromJSON(t *testing.T) {
	table := sprintFixture()

	var req Request
	body := `{
		"operation": "calculate_metric",
		"metric": "velocity",
		"params": {"sprint_id": "SPR-001"}
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	got, err := Evaluate(table, req)
	require.NoError(t, err)
	assert.InDelta(t, 8, got.(Number).Value, 1e-9)
}
