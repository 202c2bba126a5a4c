package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadPostgres loads the same table shape as LoadCSV from a tickets table.
// Nullable columns scan into pointers and become null cells, mirroring the
// CSV coercion policy.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: postgres pool not configured", ErrDataLoad)
	}

	const query = `
        SELECT ticket_id, title, sprint_id, type, status, state, priority, severity,
               assignee, assignee_role, area_module, story_points,
               created_date, started_date, completed_date, cycle_time_days,
               dev_time_hours, qa_time_hours, estimated_hours, team_capacity_hours,
               sprint_start, sprint_end
        FROM tickets
        ORDER BY ticket_id`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer rows.Close()

	table := NewTable([]string{
		ColTicketID, ColTitle, ColSprintID, ColType, ColStatus, ColState,
		ColPriority, ColSeverity, ColAssignee, ColAssigneeRole, ColAreaModule,
		ColStoryPoints, ColCreatedDate, ColStartedDate, ColCompletedDate,
		ColCycleTimeDays, ColDevTimeHours, ColQATimeHours, ColEstimatedHours,
		ColTeamCapacityHours, ColSprintStart, ColSprintEnd,
	})

	for rows.Next() {
		var (
			ticketID, sprintID                              string
			title, typ, status, state, priority, severity   *string
			assignee, assigneeRole, areaModule              *string
			storyPoints, cycleTime, devHours, qaHours       *float64
			estimatedHours, capacityHours                   *float64
			createdAt, startedAt, completedAt, start, end   *time.Time
		)
		if err := rows.Scan(
			&ticketID, &title, &sprintID, &typ, &status, &state, &priority,
			&severity, &assignee, &assigneeRole, &areaModule, &storyPoints,
			&createdAt, &startedAt, &completedAt, &cycleTime, &devHours,
			&qaHours, &estimatedHours, &capacityHours, &start, &end,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
		}
		table.AppendRow([]Value{
			String(ticketID), strCell(title), String(sprintID), strCell(typ),
			strCell(status), strCell(state), strCell(priority), strCell(severity),
			strCell(assignee), strCell(assigneeRole), strCell(areaModule),
			numCell(storyPoints), timeCell(createdAt), timeCell(startedAt),
			timeCell(completedAt), numCell(cycleTime), numCell(devHours),
			numCell(qaHours), numCell(estimatedHours), numCell(capacityHours),
			timeCell(start), timeCell(end),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	return table, nil
}

func strCell(s *string) Value {
	if s == nil {
		return Null(KindString)
	}
	return String(*s)
}

func numCell(f *float64) Value {
	if f == nil {
		return Null(KindNumber)
	}
	return Number(*f)
}

func timeCell(t *time.Time) Value {
	if t == nil {
		return Null(KindTime)
	}
	return Time(*t)
}
