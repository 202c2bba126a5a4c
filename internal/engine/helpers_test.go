package engine

import (
	"time"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
)

func mkTable(columns []string, rows ...[]dataset.Value) *dataset.Table {
	t := dataset.NewTable(columns)
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t
}

func day(s string) dataset.Value {
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return dataset.Time(parsed)
}

// sprintFixture is the canonical small dataset used across tests:
// SPR-001 carries [5, 3, 2] story points with statuses [Done, Done, To Do],
// SPR-002 carries a mixed story/bug load.
func sprintFixture() *dataset.Table {
	cols := []string{
		dataset.ColTicketID, dataset.ColSprintID, dataset.ColType, dataset.ColStatus,
		dataset.ColState, dataset.ColPriority, dataset.ColSeverity, dataset.ColAssignee,
		dataset.ColStoryPoints, dataset.ColCycleTimeDays,
		dataset.ColDevTimeHours, dataset.ColQATimeHours, dataset.ColTeamCapacityHours,
		dataset.ColCompletedDate, dataset.ColSprintStart, dataset.ColSprintEnd,
	}
	return mkTable(cols,
		[]dataset.Value{
			dataset.String("T-1"), dataset.String("SPR-001"), dataset.String("Story"), dataset.String("Done"),
			dataset.Null(dataset.KindString), dataset.String("Medium"), dataset.Null(dataset.KindString), dataset.String("Alice"),
			dataset.Number(5), dataset.Number(2),
			dataset.Number(20), dataset.Number(10), dataset.Number(100),
			day("2024-01-05"), day("2024-01-01"), day("2024-01-14"),
		},
		[]dataset.Value{
			dataset.String("T-2"), dataset.String("SPR-001"), dataset.String("Story"), dataset.String("Done"),
			dataset.Null(dataset.KindString), dataset.String("Medium"), dataset.Null(dataset.KindString), dataset.String("Bob"),
			dataset.Number(3), dataset.Number(4),
			dataset.Number(10), dataset.Number(10), dataset.Number(100),
			day("2024-01-10"), day("2024-01-01"), day("2024-01-14"),
		},
		[]dataset.Value{
			dataset.String("T-3"), dataset.String("SPR-001"), dataset.String("Task"), dataset.String("To Do"),
			dataset.String("Spillover"), dataset.String("Low"), dataset.Null(dataset.KindString), dataset.String("Alice"),
			dataset.Number(2), dataset.Null(dataset.KindNumber),
			dataset.Null(dataset.KindNumber), dataset.Null(dataset.KindNumber), dataset.Number(100),
			dataset.Null(dataset.KindTime), day("2024-01-01"), day("2024-01-14"),
		},
		[]dataset.Value{
			dataset.String("T-4"), dataset.String("SPR-002"), dataset.String("Story"), dataset.String("Done"),
			dataset.Null(dataset.KindString), dataset.String("Medium"), dataset.Null(dataset.KindString), dataset.String("Alice"),
			dataset.Number(8), dataset.Number(3),
			dataset.Number(25), dataset.Number(5), dataset.Number(80),
			day("2024-01-20"), day("2024-01-15"), day("2024-01-28"),
		},
		[]dataset.Value{
			dataset.String("T-5"), dataset.String("SPR-002"), dataset.String("Bug"), dataset.String("In Progress"),
			dataset.String("Blocked"), dataset.String("Critical"), dataset.String("Major"), dataset.String("Bob"),
			dataset.Number(3), dataset.Null(dataset.KindNumber),
			dataset.Number(8), dataset.Number(2), dataset.Number(80),
			dataset.Null(dataset.KindTime), day("2024-01-15"), day("2024-01-28"),
		},
		[]dataset.Value{
			dataset.String("T-6"), dataset.String("SPR-002"), dataset.String("Bug"), dataset.String("Done"),
			dataset.Null(dataset.KindString), dataset.String("High"), dataset.String("Minor"), dataset.String("Carol"),
			dataset.Number(2), dataset.Number(5),
			dataset.Number(6), dataset.Number(4), dataset.Number(80),
			day("2024-01-22"), day("2024-01-15"), day("2024-01-28"),
		},
	)
}
