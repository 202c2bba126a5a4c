package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTable(sprint string) *Table {
	t := NewTable([]string{ColSprintID})
	t.AppendRow([]Value{String(sprint)})
	return t
}

func TestStoreReplaceInstallsNewSnapshot(t *testing.T) {
	store := NewStore(smallTable("SPR-001"))

	before := store.Snapshot()
	require.NotNil(t, before)
	assert.Equal(t, "SPR-001", before.Table.StringAt(0, ColSprintID))

	after := store.Replace(smallTable("SPR-002"))
	assert.NotEqual(t, before.ID, after.ID)
	assert.Same(t, after, store.Snapshot())

	// A snapshot captured before the swap keeps serving the old table.
	assert.Equal(t, "SPR-001", before.Table.StringAt(0, ColSprintID))
}
