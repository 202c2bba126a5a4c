package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

func TestGroupReduceFirstOccurrenceOrder(t *testing.T) {
	table := sprintFixture()

	got := GroupReduce(table, []string{dataset.ColSprintID}, dataset.ColStoryPoints, AggSum)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, "SPR-001", got.StringAt(0, dataset.ColSprintID))
	assert.Equal(t, "SPR-002", got.StringAt(1, dataset.ColSprintID))

	points, ok := got.NumberAt(0, dataset.ColStoryPoints)
	assert.True(t, ok)
	assert.InDelta(t, 10, points, 1e-9)
	points, _ = got.NumberAt(1, dataset.ColStoryPoints)
	assert.InDelta(t, 13, points, 1e-9)
}

func TestPivotZeroFill(t *testing.T) {
	table := sprintFixture()

	// SPR-001 has no "In Progress" rows; its cell must be 0, not null.
	got := Pivot(table, dataset.ColSprintID, dataset.ColStatus, dataset.ColStoryPoints, AggSum)
	assert.True(t, got.HasColumn("In Progress"))

	v, ok := got.NumberAt(0, "In Progress")
	assert.True(t, ok)
	assert.Zero(t, v)

	done, _ := got.NumberAt(0, "Done")
	assert.InDelta(t, 8, done, 1e-9)
}

func TestAggregateScalarEmptyTable(t *testing.T) {
	empty := mkTable([]string{dataset.ColStoryPoints})

	sum := AggregateScalar(empty, dataset.ColStoryPoints, AggSum)
	assert.True(t, sum.Valid)
	assert.Zero(t, sum.Value)

	count := AggregateScalar(empty, dataset.ColStoryPoints, AggCount)
	assert.True(t, count.Valid)
	assert.Zero(t, count.Value)

	for _, fn := range []AggFunc{AggMean, AggMedian, AggStd, AggMin, AggMax} {
		assert.False(t, AggregateScalar(empty, dataset.ColStoryPoints, fn).Valid, string(fn))
	}
}

func TestAggregateScalarSkipsNulls(t *testing.T) {
	table := mkTable([]string{dataset.ColStoryPoints},
		[]dataset.Value{dataset.Number(4)},
		[]dataset.Value{dataset.Null(dataset.KindNumber)},
		[]dataset.Value{dataset.Number(6)},
	)

	mean := AggregateScalar(table, dataset.ColStoryPoints, AggMean)
	assert.True(t, mean.Valid)
	assert.InDelta(t, 5, mean.Value, 1e-9)

	count := AggregateScalar(table, dataset.ColStoryPoints, AggCount)
	assert.InDelta(t, 2, count.Value, 1e-9)
}

func TestAggregateScalarSingleValueStd(t *testing.T) {
	table := mkTable([]string{dataset.ColStoryPoints},
		[]dataset.Value{dataset.Number(7)},
	)

	std := AggregateScalar(table, dataset.ColStoryPoints, AggStd)
	assert.True(t, std.Valid)
	assert.Zero(t, std.Value)
}

func TestAggregateUngroupedColumnNames(t *testing.T) {
	table := sprintFixture()

	got := Aggregate(table, nil, map[string][]AggFunc{
		dataset.ColStoryPoints: {AggSum, AggMean},
	})
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"Story_Points_sum", "Story_Points_mean"}, got.Columns())

	total, _ := got.NumberAt(0, "Story_Points_sum")
	assert.InDelta(t, 23, total, 1e-9)
}

func TestAggregateGroupedWithoutReductionsCounts(t *testing.T) {
	table := sprintFixture()

	got := Aggregate(table, []string{dataset.ColSprintID}, nil)
	assert.Equal(t, []string{dataset.ColSprintID, "count"}, got.Columns())

	n, _ := got.NumberAt(0, "count")
	assert.InDelta(t, 3, n, 1e-9)
}

func TestMedianEvenCount(t *testing.T) {
	table := mkTable([]string{dataset.ColStoryPoints},
		[]dataset.Value{dataset.Number(1)},
		[]dataset.Value{dataset.Number(2)},
		[]dataset.Value{dataset.Number(3)},
		[]dataset.Value{dataset.Number(10)},
	)

	med := AggregateScalar(table, dataset.ColStoryPoints, AggMedian)
	assert.InDelta(t, 2.5, med.Value, 1e-9)
}
