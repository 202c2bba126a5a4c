package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Ticket_ID,Sprint_ID,Status,Story_Points,Completed_Date
T-1,SPR-001,Done,5,2024-01-05
T-2,SPR-001,Done,not-a-number,05/01/2024
T-3,SPR-001,To Do,,
T-4,SPR-002,Done,3
`

func TestLoadCSVCoercion(t *testing.T) {
	table, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())

	points, ok := table.NumberAt(0, ColStoryPoints)
	assert.True(t, ok)
	assert.InDelta(t, 5, points, 1e-9)

	when, ok := table.TimeAt(0, ColCompletedDate)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-05", when.Format("2006-01-02"))

	// Alternate date layout.
	when, ok = table.TimeAt(1, ColCompletedDate)
	assert.True(t, ok)
	assert.Equal(t, "2024-05-01", when.Format("2006-01-02"))
}

func TestLoadCSVUnparseableCellsBecomeNulls(t *testing.T) {
	table, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	_, ok := table.NumberAt(1, ColStoryPoints)
	assert.False(t, ok)
	_, ok = table.NumberAt(2, ColStoryPoints)
	assert.False(t, ok)
	_, ok = table.TimeAt(2, ColCompletedDate)
	assert.False(t, ok)
}

func TestLoadCSVShortRowsPadded(t *testing.T) {
	table, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// T-4 is missing its completion date field entirely.
	points, ok := table.NumberAt(3, ColStoryPoints)
	assert.True(t, ok)
	assert.InDelta(t, 3, points, 1e-9)
	_, ok = table.TimeAt(3, ColCompletedDate)
	assert.False(t, ok)
}

func TestLoadCSVRequiresSprintColumn(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("Ticket_ID,Status\nT-1,Done\n"))
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestLoadCSVEmptyInput(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrDataLoad)
}
