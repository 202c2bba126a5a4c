package report

import (
	"fmt"
	"sort"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/domain"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/engine"
)

// SprintReport is the structured per-sprint report. Sections mirror what
// a delivery lead walks through in a sprint review.
type SprintReport struct {
	SprintID    string   `json:"sprint_id"`
	PeriodStart string   `json:"period_start,omitempty"`
	PeriodEnd   string   `json:"period_end,omitempty"`
	TeamMembers []string `json:"team_members"`

	Summary   engine.SprintSummary  `json:"summary"`
	Health    engine.SprintHealth   `json:"health"`
	States    StateDistribution     `json:"state_distribution"`
	Modules   CountBreakdown        `json:"module_distribution"`
	Bugs      BugsBreakdown         `json:"bugs"`
	CycleTime engine.ColumnStats    `json:"cycle_time"`
	Workload  WorkloadDistribution  `json:"workload"`
	Spillover SpilloverOverview     `json:"spillover"`
	Quality   engine.QualityMetrics `json:"quality"`
	Forecast  SprintForecast        `json:"forecast"`
}

// SprintForecast recommends the next sprint commitment from observed
// velocity with a 10% buffer against overcommitment.
type SprintForecast struct {
	CompletedVelocity float64  `json:"completed_velocity"`
	TeamSize          int      `json:"team_size"`
	CommitmentLow     float64  `json:"commitment_low"`
	CommitmentHigh    float64  `json:"commitment_high"`
	Risks             []string `json:"risks"`
	ModuleHotspots    []string `json:"module_hotspots"`
	TestFocusArea     string   `json:"test_focus_area,omitempty"`
}

// ForSprint assembles the full report for one sprint. An unknown or empty
// sprint ID yields an error rather than a zeroed report.
func ForSprint(t *dataset.Table, sprintID string) (*SprintReport, error) {
	rows := engine.Filter(t, map[string]any{dataset.ColSprintID: sprintID})
	if rows.Len() == 0 {
		return nil, &engine.EmptySprintError{SprintID: sprintID}
	}

	health, err := engine.CalculateMetric(t, engine.MetricSprintHealth, engine.MetricParams{SprintID: sprintID})
	if err != nil {
		return nil, err
	}
	quality, err := engine.CalculateMetric(t, engine.MetricQualityMetrics, engine.MetricParams{SprintID: sprintID})
	if err != nil {
		return nil, err
	}

	r := &SprintReport{
		SprintID:    sprintID,
		TeamMembers: distinct(rows, dataset.ColAssignee),
		Summary:     engine.SummarizeSprint(t, sprintID),
		Health:      health.(engine.SprintHealth),
		States:      StateDist(rows),
		Bugs:        Bugs(rows),
		Workload:    Workload(rows),
		Spillover:   Spillover(rows),
		Quality:     quality.(engine.QualityMetrics),
		Forecast:    forecast(rows),
	}

	if start, ok := rows.TimeAt(0, dataset.ColSprintStart); ok {
		r.PeriodStart = start.Format("2006-01-02")
	}
	if end, ok := rows.TimeAt(0, dataset.ColSprintEnd); ok {
		r.PeriodEnd = end.Format("2006-01-02")
	}

	modules, counts := countsDesc(rows, dataset.ColAreaModule)
	r.Modules = CountBreakdown{Labels: modules, Values: counts}

	if stats, ok := engine.Describe(rows, []string{dataset.ColCycleTimeDays})[dataset.ColCycleTimeDays]; ok {
		r.CycleTime = stats
	}

	return r, nil
}

func forecast(rows *dataset.Table) SprintForecast {
	done := engine.Filter(rows, map[string]any{dataset.ColStatus: string(domain.StatusDone)})
	velocity := engine.AggregateScalar(done, dataset.ColStoryPoints, engine.AggSum).Value

	f := SprintForecast{
		CompletedVelocity: velocity,
		TeamSize:          len(distinct(rows, dataset.ColAssignee)),
		CommitmentLow:     engine.Round1(velocity * 0.9),
		CommitmentHigh:    velocity,
	}

	f.Risks = append(f.Risks, "Team availability changes (vacation, holidays)")
	spilled := engine.Filter(rows, map[string]any{dataset.ColState: string(domain.StateSpillover)}).Len()
	if spilled > 0 {
		f.Risks = append(f.Risks, fmt.Sprintf("Carrying over %d spillover items will reduce new feature capacity", spilled))
	} else {
		f.Risks = append(f.Risks, "External dependencies that could cause delays")
	}
	f.Risks = append(f.Risks, "Technical debt accumulation affecting velocity")

	modules, _ := countsDescByPoints(rows)
	if len(modules) > 3 {
		modules = modules[:3]
	}
	f.ModuleHotspots = modules

	bugs := engine.Filter(rows, map[string]any{dataset.ColType: string(domain.TypeBug)})
	if areas, _ := countsDesc(bugs, dataset.ColAreaModule); len(areas) > 0 {
		f.TestFocusArea = areas[0]
	}
	return f
}

// countsDescByPoints ranks modules by total story points instead of
// ticket count.
func countsDescByPoints(t *dataset.Table) ([]string, []float64) {
	grouped := engine.GroupReduce(t, []string{dataset.ColAreaModule}, dataset.ColStoryPoints, engine.AggSum)

	type pair struct {
		module string
		points float64
	}
	pairs := make([]pair, 0, grouped.Len())
	for i := 0; i < grouped.Len(); i++ {
		points, _ := grouped.NumberAt(i, dataset.ColStoryPoints)
		pairs = append(pairs, pair{module: grouped.StringAt(i, dataset.ColAreaModule), points: points})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].points > pairs[j].points })

	modules := make([]string, len(pairs))
	points := make([]float64, len(pairs))
	for i, p := range pairs {
		modules[i] = p.module
		points[i] = p.points
	}
	return modules, points
}
