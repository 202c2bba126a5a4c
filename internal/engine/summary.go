package engine

import (
	"sort"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/domain"
)

// DataSummary is a whole-dataset overview used as narration context.
type DataSummary struct {
	TotalTickets       int               `json:"total_tickets"`
	Columns            []string          `json:"columns"`
	Sprints            []string          `json:"sprints"`
	TicketTypes        map[string]int    `json:"ticket_types"`
	StatusDistribution map[string]int    `json:"status_distribution"`
	TotalStoryPoints   float64           `json:"total_story_points"`
	DateRange          map[string]string `json:"date_range"`
}

// SprintSummary is a one-sprint (or all-sprints) overview.
type SprintSummary struct {
	SprintID             string         `json:"sprint_id"`
	TotalTickets         int            `json:"total_tickets"`
	StatusBreakdown      map[string]int `json:"status_breakdown"`
	TypeBreakdown        map[string]int `json:"type_breakdown"`
	TotalStoryPoints     float64        `json:"total_story_points"`
	CompletedStoryPoints float64        `json:"completed_story_points"`
	InProgressTickets    int            `json:"in_progress_tickets"`
	TeamMembers          []string       `json:"team_members"`
	HighPriorityTickets  int            `json:"high_priority_tickets"`
}

// MemberPerformance is one assignee's row of a team performance listing.
type MemberPerformance struct {
	Assignee             string  `json:"assignee"`
	Role                 string  `json:"role,omitempty"`
	TotalTickets         int     `json:"total_tickets"`
	CompletedTickets     int     `json:"completed_tickets"`
	InProgressTickets    int     `json:"in_progress_tickets"`
	TotalStoryPoints     float64 `json:"total_story_points"`
	CompletedStoryPoints float64 `json:"completed_story_points"`
}

// BugAnalysis is the bug-focused overview.
type BugAnalysis struct {
	TotalBugs        int            `json:"total_bugs"`
	OpenBugs         int            `json:"open_bugs"`
	ClosedBugs       int            `json:"closed_bugs"`
	CriticalBugs     int            `json:"critical_bugs"`
	HighPriorityBugs int            `json:"high_priority_bugs"`
	BugsBySprint     map[string]int `json:"bugs_by_sprint"`
	BugsByAssignee   map[string]int `json:"bugs_by_assignee"`
}

// Summarize builds the dataset overview.
func Summarize(t *dataset.Table) DataSummary {
	summary := DataSummary{
		TotalTickets:       t.Len(),
		Columns:            t.Columns(),
		Sprints:            distinctStrings(t, dataset.ColSprintID),
		TicketTypes:        valueCounts(t, dataset.ColType),
		StatusDistribution: valueCounts(t, dataset.ColStatus),
		TotalStoryPoints:   AggregateScalar(t, dataset.ColStoryPoints, AggSum).Value,
		DateRange:          map[string]string{},
	}
	if first, last, ok := dateRange(t, dataset.ColCreatedDate); ok {
		summary.DateRange["start"] = first
		summary.DateRange["end"] = last
	}
	return summary
}

// SummarizeSprint builds the per-sprint overview. An empty sprintID covers
// the whole dataset.
func SummarizeSprint(t *dataset.Table, sprintID string) SprintSummary {
	scoped := bySprint(t, sprintID)
	label := sprintID
	if label == "" {
		label = "All Sprints"
	}
	return SprintSummary{
		SprintID:             label,
		TotalTickets:         scoped.Len(),
		StatusBreakdown:      valueCounts(scoped, dataset.ColStatus),
		TypeBreakdown:        valueCounts(scoped, dataset.ColType),
		TotalStoryPoints:     AggregateScalar(scoped, dataset.ColStoryPoints, AggSum).Value,
		CompletedStoryPoints: AggregateScalar(doneRows(scoped), dataset.ColStoryPoints, AggSum).Value,
		InProgressTickets:    Filter(scoped, map[string]any{dataset.ColStatus: string(domain.StatusInProgress)}).Len(),
		TeamMembers:          distinctStrings(scoped, dataset.ColAssignee),
		HighPriorityTickets:  Filter(scoped, map[string]any{dataset.ColPriority: string(domain.PriorityHigh)}).Len(),
	}
}

// TeamPerformance lists per-assignee delivery stats sorted by completed
// story points, best first.
func TeamPerformance(t *dataset.Table) []MemberPerformance {
	var out []MemberPerformance
	for _, assignee := range distinctStrings(t, dataset.ColAssignee) {
		mine := Filter(t, map[string]any{dataset.ColAssignee: assignee})
		done := doneRows(mine)
		out = append(out, MemberPerformance{
			Assignee:             assignee,
			Role:                 mine.StringAt(0, dataset.ColAssigneeRole),
			TotalTickets:         mine.Len(),
			CompletedTickets:     done.Len(),
			InProgressTickets:    Filter(mine, map[string]any{dataset.ColStatus: string(domain.StatusInProgress)}).Len(),
			TotalStoryPoints:     AggregateScalar(mine, dataset.ColStoryPoints, AggSum).Value,
			CompletedStoryPoints: AggregateScalar(done, dataset.ColStoryPoints, AggSum).Value,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CompletedStoryPoints > out[b].CompletedStoryPoints
	})
	return out
}

// AnalyzeBugs builds the bug-focused overview.
func AnalyzeBugs(t *dataset.Table) BugAnalysis {
	bugs := Filter(t, map[string]any{dataset.ColType: string(domain.TypeBug)})
	open := Filter(bugs, map[string]any{dataset.ColStatus: []string{
		string(domain.StatusToDo),
		string(domain.StatusInProgress),
		string(domain.StatusInTesting),
	}})
	return BugAnalysis{
		TotalBugs:        bugs.Len(),
		OpenBugs:         open.Len(),
		ClosedBugs:       doneRows(bugs).Len(),
		CriticalBugs:     Filter(bugs, map[string]any{dataset.ColPriority: string(domain.PriorityCritical)}).Len(),
		HighPriorityBugs: Filter(bugs, map[string]any{dataset.ColPriority: string(domain.PriorityHigh)}).Len(),
		BugsBySprint:     valueCounts(bugs, dataset.ColSprintID),
		BugsByAssignee:   valueCounts(bugs, dataset.ColAssignee),
	}
}

// SpilloverRate is the percentage of rows carried over from a prior
// sprint, per the workflow State column.
func SpilloverRate(t *dataset.Table) float64 {
	spillover := Filter(t, map[string]any{dataset.ColState: string(domain.StateSpillover)})
	return percentage(float64(spillover.Len()), float64(t.Len()))
}

// valueCounts tallies distinct non-null values of a string column.
func valueCounts(t *dataset.Table, column string) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		if s := t.StringAt(i, column); s != "" {
			counts[s]++
		}
	}
	return counts
}

func dateRange(t *dataset.Table, column string) (string, string, bool) {
	var first, last string
	found := false
	for i := 0; i < t.Len(); i++ {
		when, ok := t.TimeAt(i, column)
		if !ok {
			continue
		}
		day := when.Format("2006-01-02")
		if !found || day < first {
			first = day
		}
		if !found || day > last {
			last = day
		}
		found = true
	}
	return first, last, found
}
