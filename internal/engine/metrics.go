package engine

import (
	"sort"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/domain"
)

// MetricParams carries the optional parameters of a metric request. Zero
// values mean "not specified".
type MetricParams struct {
	SprintID   string `json:"sprint_id,omitempty"`
	By         string `json:"by,omitempty"` // "tickets" (default) or "points"
	Status     string `json:"status,omitempty"`
	TicketType string `json:"ticket_type,omitempty"`
}

// Metric names accepted by CalculateMetric.
const (
	MetricCompletionRate      = "completion_rate"
	MetricVelocity            = "velocity"
	MetricCapacityUtilization = "capacity_utilization"
	MetricCycleTimeAvg        = "cycle_time_avg"
	MetricBugResolutionRate   = "bug_resolution_rate"
	MetricTeamProductivity    = "team_productivity"
	MetricSprintHealth        = "sprint_health"
	MetricWorkDistribution    = "work_distribution"
	MetricQualityMetrics      = "quality_metrics"
	MetricBurndown            = "burndown_data"
)

// TeamMemberStats is one assignee's slice of a team productivity report.
type TeamMemberStats struct {
	Assignee         string  `json:"assignee"`
	CompletedPoints  float64 `json:"completed_points"`
	TotalTickets     int     `json:"total_tickets"`
	CompletedTickets int     `json:"completed_tickets"`
	CompletionRate   float64 `json:"completion_rate"`
}

// TeamProductivity aggregates per-assignee completion stats.
type TeamProductivity struct {
	TeamMembers        []TeamMemberStats `json:"team_members"`
	TotalTeamPoints    float64           `json:"total_team_points"`
	AvgPointsPerPerson float64           `json:"avg_points_per_person"`
}

// SprintHealth is the composite per-sprint health record.
type SprintHealth struct {
	SprintID               string  `json:"sprint_id"`
	CompletionRatePoints   float64 `json:"completion_rate_points"`
	CompletionRateTickets  float64 `json:"completion_rate_tickets"`
	Velocity               float64 `json:"velocity"`
	WorkInProgressPoints   float64 `json:"work_in_progress_points"`
	TodoPoints             float64 `json:"todo_points"`
	BugsCount              int     `json:"bugs_count"`
	CriticalBugs           int     `json:"critical_bugs"`
	HighPriorityIncomplete int     `json:"high_priority_incomplete"`
	HealthScore            float64 `json:"health_score"`
}

// AssigneeShare is one assignee's share of the sprint workload.
type AssigneeShare struct {
	StoryPoints float64 `json:"story_points"`
	Percentage  float64 `json:"percentage"`
}

// WorkDistribution reports workload spread and its evenness score.
type WorkDistribution struct {
	Distribution        map[string]AssigneeShare `json:"distribution"`
	BalanceScore        float64                  `json:"balance_score"`
	StdDeviation        float64                  `json:"std_deviation"`
	MeanPointsPerPerson float64                  `json:"mean_points_per_person"`
}

// QualityMetrics groups bug-centric quality indicators.
type QualityMetrics struct {
	TotalBugs            int            `json:"total_bugs"`
	BugToStoryRatio      float64        `json:"bug_to_story_ratio"`
	BugResolutionRate    float64        `json:"bug_resolution_rate"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
	AvgBugFixTimeDays    float64        `json:"avg_bug_fix_time_days"`
}

// BurndownPoint is one step of the burndown series: after the item
// completing on Date, RemainingPoints story points were left.
type BurndownPoint struct {
	Date            string  `json:"date"`
	RemainingPoints float64 `json:"remaining_points"`
	CompletedPoints float64 `json:"completed_points"`
}

// CalculateMetric evaluates a named metric over the table. Unknown names
// are rejected with UnknownMetricError. The returned value is either a
// Number or one of the structured records above; numbers leaving here are
// rounded to 2 decimal places.
func CalculateMetric(t *dataset.Table, name string, p MetricParams) (any, error) {
	switch name {
	case MetricCompletionRate:
		return completionRate(t, p), nil
	case MetricVelocity:
		return velocity(t, p.SprintID), nil
	case MetricCapacityUtilization:
		return capacityUtilization(t, p.SprintID), nil
	case MetricCycleTimeAvg:
		return cycleTimeAvg(t, p), nil
	case MetricBugResolutionRate:
		return bugResolutionRate(t), nil
	case MetricTeamProductivity:
		return teamProductivity(t, p.SprintID), nil
	case MetricSprintHealth:
		return sprintHealth(t, p.SprintID)
	case MetricWorkDistribution:
		return workDistribution(t, p.SprintID), nil
	case MetricQualityMetrics:
		return qualityMetrics(t, p.SprintID), nil
	case MetricBurndown:
		return burndown(t, p.SprintID), nil
	default:
		return nil, &UnknownMetricError{Name: name}
	}
}

// bySprint narrows to one sprint when requested.
func bySprint(t *dataset.Table, sprintID string) *dataset.Table {
	if sprintID == "" {
		return t
	}
	return Filter(t, map[string]any{dataset.ColSprintID: sprintID})
}

func doneRows(t *dataset.Table) *dataset.Table {
	return Filter(t, map[string]any{dataset.ColStatus: string(domain.StatusDone)})
}

// percentage applies the shared rate policy: completed/total*100 when
// total is positive, else 0. An empty partition reports 0%, not N/A.
func percentage(completed, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return completed / total * 100
}

func completionRate(t *dataset.Table, p MetricParams) Number {
	scoped := bySprint(t, p.SprintID)
	done := doneRows(scoped)

	var completed, total float64
	if p.By == "points" {
		total = AggregateScalar(scoped, dataset.ColStoryPoints, AggSum).Value
		completed = AggregateScalar(done, dataset.ColStoryPoints, AggSum).Value
	} else {
		total = float64(scoped.Len())
		completed = float64(done.Len())
	}
	return ValidNumber(Round2(percentage(completed, total)))
}

func velocity(t *dataset.Table, sprintID string) Number {
	done := doneRows(bySprint(t, sprintID))
	points := AggregateScalar(done, dataset.ColStoryPoints, AggSum)
	return ValidNumber(Round2(points.Value))
}

func capacityUtilization(t *dataset.Table, sprintID string) Number {
	scoped := bySprint(t, sprintID)
	if !scoped.HasColumn(dataset.ColTeamCapacityHours) || scoped.Len() == 0 {
		return Unavailable()
	}
	// Capacity is a sprint-level figure repeated per row; read the first.
	capacity, ok := scoped.NumberAt(0, dataset.ColTeamCapacityHours)
	if !ok || capacity == 0 {
		return Unavailable()
	}
	actual := AggregateScalar(scoped, dataset.ColDevTimeHours, AggSum).Value +
		AggregateScalar(scoped, dataset.ColQATimeHours, AggSum).Value
	return ValidNumber(Round2(actual / capacity * 100))
}

func cycleTimeAvg(t *dataset.Table, p MetricParams) Number {
	status := p.Status
	if status == "" {
		status = string(domain.StatusDone)
	}
	predicates := map[string]any{dataset.ColStatus: status}
	if p.TicketType != "" {
		predicates[dataset.ColType] = p.TicketType
	}
	scoped := Filter(t, predicates)
	avg := AggregateScalar(scoped, dataset.ColCycleTimeDays, AggMean)
	if !avg.Valid {
		// No matching rows reads as 0 days by policy, not as unavailable.
		return ValidNumber(0)
	}
	return ValidNumber(Round2(avg.Value))
}

func bugResolutionRate(t *dataset.Table) Number {
	bugs := Filter(t, map[string]any{dataset.ColType: string(domain.TypeBug)})
	done := doneRows(bugs)
	return ValidNumber(Round2(percentage(float64(done.Len()), float64(bugs.Len()))))
}

func teamProductivity(t *dataset.Table, sprintID string) TeamProductivity {
	scoped := bySprint(t, sprintID)

	var members []TeamMemberStats
	for _, assignee := range distinctStrings(scoped, dataset.ColAssignee) {
		mine := Filter(scoped, map[string]any{dataset.ColAssignee: assignee})
		done := doneRows(mine)
		completedPoints := AggregateScalar(done, dataset.ColStoryPoints, AggSum).Value
		members = append(members, TeamMemberStats{
			Assignee:         assignee,
			CompletedPoints:  completedPoints,
			TotalTickets:     mine.Len(),
			CompletedTickets: done.Len(),
			CompletionRate:   Round2(percentage(float64(done.Len()), float64(mine.Len()))),
		})
	}

	var totalPoints float64
	for _, m := range members {
		totalPoints += m.CompletedPoints
	}
	result := TeamProductivity{
		TeamMembers:     members,
		TotalTeamPoints: totalPoints,
	}
	if len(members) > 0 {
		result.AvgPointsPerPerson = Round2(totalPoints / float64(len(members)))
	}
	return result
}

func sprintHealth(t *dataset.Table, sprintID string) (SprintHealth, error) {
	scoped := bySprint(t, sprintID)
	if scoped.Len() == 0 {
		return SprintHealth{}, &EmptySprintError{SprintID: sprintID}
	}

	done := doneRows(scoped)
	totalPoints := AggregateScalar(scoped, dataset.ColStoryPoints, AggSum).Value
	completedPoints := AggregateScalar(done, dataset.ColStoryPoints, AggSum).Value
	inProgressPoints := AggregateScalar(
		Filter(scoped, map[string]any{dataset.ColStatus: string(domain.StatusInProgress)}),
		dataset.ColStoryPoints, AggSum).Value
	todoPoints := AggregateScalar(
		Filter(scoped, map[string]any{dataset.ColStatus: string(domain.StatusToDo)}),
		dataset.ColStoryPoints, AggSum).Value

	bugs := Filter(scoped, map[string]any{dataset.ColType: string(domain.TypeBug)})
	criticalBugs := Filter(bugs, map[string]any{dataset.ColPriority: string(domain.PriorityCritical)})
	highIncomplete := Filter(scoped, map[string]any{
		dataset.ColPriority: string(domain.PriorityHigh),
		dataset.ColStatus:   Comparison{Operator: "!=", Value: string(domain.StatusDone)},
	})

	return SprintHealth{
		SprintID:               sprintID,
		CompletionRatePoints:   Round2(percentage(completedPoints, totalPoints)),
		CompletionRateTickets:  Round2(percentage(float64(done.Len()), float64(scoped.Len()))),
		Velocity:               completedPoints,
		WorkInProgressPoints:   inProgressPoints,
		TodoPoints:             todoPoints,
		BugsCount:              bugs.Len(),
		CriticalBugs:           criticalBugs.Len(),
		HighPriorityIncomplete: highIncomplete.Len(),
		HealthScore:            healthScore(scoped),
	}, nil
}

// healthScore is the fixed 0-100 linear scoring rule. All terms are
// non-negative deductions from 100, so subtraction order cannot change the
// outcome; the final value is clamped to [0, 100].
func healthScore(t *dataset.Table) float64 {
	score := 100.0

	totalPoints := AggregateScalar(t, dataset.ColStoryPoints, AggSum).Value
	completedPoints := AggregateScalar(doneRows(t), dataset.ColStoryPoints, AggSum).Value
	completionRate := percentage(completedPoints, totalPoints)
	if completionRate < 70 {
		score -= (70 - completionRate) * 0.5
	}

	criticalBugs := Filter(t, map[string]any{
		dataset.ColType:     string(domain.TypeBug),
		dataset.ColPriority: string(domain.PriorityCritical),
	})
	score -= float64(criticalBugs.Len()) * 10

	highIncomplete := Filter(t, map[string]any{
		dataset.ColPriority: string(domain.PriorityHigh),
		dataset.ColStatus:   Comparison{Operator: "!=", Value: string(domain.StatusDone)},
	})
	score -= float64(highIncomplete.Len()) * 5

	todo := Filter(t, map[string]any{dataset.ColStatus: string(domain.StatusToDo)})
	todoRatio := percentage(float64(todo.Len()), float64(t.Len()))
	if todoRatio > 30 {
		score -= (todoRatio - 30) * 0.5
	}

	return clamp(Round2(score), 0, 100)
}

func workDistribution(t *dataset.Table, sprintID string) WorkDistribution {
	scoped := bySprint(t, sprintID)
	perAssignee := GroupReduce(scoped, []string{dataset.ColAssignee}, dataset.ColStoryPoints, AggSum)

	totals := make([]float64, 0, perAssignee.Len())
	names := make([]string, 0, perAssignee.Len())
	var totalPoints float64
	for i := 0; i < perAssignee.Len(); i++ {
		points, _ := perAssignee.NumberAt(i, dataset.ColStoryPoints)
		names = append(names, perAssignee.StringAt(i, dataset.ColAssignee))
		totals = append(totals, points)
		totalPoints += points
	}

	distribution := make(map[string]AssigneeShare, len(names))
	for i, name := range names {
		distribution[name] = AssigneeShare{
			StoryPoints: totals[i],
			Percentage:  Round2(percentage(totals[i], totalPoints)),
		}
	}

	// Evenness: the closer each assignee's total is to the mean, the higher
	// the score. Population std matches the original scoring.
	stdDev := populationStd(totals)
	meanPoints := mean(totals)
	deduction := 0.0
	if meanPoints > 0 {
		deduction = minFloat(100, stdDev/meanPoints*100)
	}

	return WorkDistribution{
		Distribution:        distribution,
		BalanceScore:        Round2(100 - deduction),
		StdDeviation:        Round2(stdDev),
		MeanPointsPerPerson: Round2(meanPoints),
	}
}

func qualityMetrics(t *dataset.Table, sprintID string) QualityMetrics {
	scoped := bySprint(t, sprintID)
	bugs := Filter(scoped, map[string]any{dataset.ColType: string(domain.TypeBug)})
	stories := Filter(scoped, map[string]any{dataset.ColType: string(domain.TypeStory)})
	closedBugs := doneRows(bugs)

	severity := make(map[string]int)
	if bugs.HasColumn(dataset.ColSeverity) {
		for i := 0; i < bugs.Len(); i++ {
			if s := bugs.StringAt(i, dataset.ColSeverity); s != "" {
				severity[s]++
			}
		}
	}

	avgFix := AggregateScalar(closedBugs, dataset.ColCycleTimeDays, AggMean)
	avgFixDays := 0.0
	if avgFix.Valid {
		avgFixDays = Round2(avgFix.Value)
	}

	return QualityMetrics{
		TotalBugs:            bugs.Len(),
		BugToStoryRatio:      Round2(percentage(float64(bugs.Len()), float64(stories.Len()))),
		BugResolutionRate:    Round2(percentage(float64(closedBugs.Len()), float64(bugs.Len()))),
		SeverityDistribution: severity,
		AvgBugFixTimeDays:    avgFixDays,
	}
}

// burndown walks completed items in completion-date order, starting from
// the sprint's total story points. Sprints without start/end dates yield an
// empty series.
func burndown(t *dataset.Table, sprintID string) []BurndownPoint {
	scoped := bySprint(t, sprintID)
	if scoped.Len() == 0 || !scoped.HasColumn(dataset.ColCompletedDate) {
		return []BurndownPoint{}
	}
	if _, ok := scoped.TimeAt(0, dataset.ColSprintStart); !ok {
		return []BurndownPoint{}
	}
	if _, ok := scoped.TimeAt(0, dataset.ColSprintEnd); !ok {
		return []BurndownPoint{}
	}

	totalPoints := AggregateScalar(scoped, dataset.ColStoryPoints, AggSum).Value

	done := doneRows(scoped)
	type completion struct {
		row  int
		when int64
	}
	var completions []completion
	for i := 0; i < done.Len(); i++ {
		if when, ok := done.TimeAt(i, dataset.ColCompletedDate); ok {
			completions = append(completions, completion{row: i, when: when.Unix()})
		}
	}
	sort.SliceStable(completions, func(a, b int) bool {
		return completions[a].when < completions[b].when
	})

	series := make([]BurndownPoint, 0, len(completions))
	remaining := totalPoints
	for _, c := range completions {
		points, _ := done.NumberAt(c.row, dataset.ColStoryPoints)
		remaining -= points
		when, _ := done.TimeAt(c.row, dataset.ColCompletedDate)
		series = append(series, BurndownPoint{
			Date:            when.Format("2006-01-02"),
			RemainingPoints: remaining,
			CompletedPoints: totalPoints - remaining,
		})
	}
	return series
}

// distinctStrings lists distinct non-null values of a string column in
// first-occurrence order.
func distinctStrings(t *dataset.Table, column string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < t.Len(); i++ {
		s := t.StringAt(i, column)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
