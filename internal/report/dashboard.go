// Package report assembles dashboard payloads and per-sprint reports on
// top of the analytics engine. Everything here is derived data; no state
// is kept between calls.
package report

import (
	"sort"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/domain"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/engine"
)

// KPI is one dashboard tile: a value with a traffic light indicator.
type KPI struct {
	Value     float64 `json:"value"`
	Indicator string  `json:"indicator"`
	Label     string  `json:"label"`
}

// SprintKPIDetail holds per-sprint numbers behind the aggregate tiles.
type SprintKPIDetail struct {
	SprintID      string  `json:"sprint_id"`
	Velocity      float64 `json:"velocity"`
	PlannedPoints float64 `json:"planned_points"`
	DeliveryPct   float64 `json:"delivery_pct"`
	Bugs          int     `json:"bugs"`
	SpilloverPct  float64 `json:"spillover_pct"`
	AvgCycleTime  float64 `json:"avg_cycle_time"`
}

// KPISet is the dashboard headline block.
type KPISet struct {
	SprintVelocity      KPI               `json:"sprint_velocity"`
	DeliveryPercentage  KPI               `json:"delivery_percentage"`
	BugCount            KPI               `json:"bug_count"`
	SpilloverPercentage KPI               `json:"spillover_percentage"`
	AvgCycleTime        KPI               `json:"avg_cycle_time"`
	SprintDetails       []SprintKPIDetail `json:"sprint_details"`
}

// StateDistribution is the workflow state bar chart payload.
type StateDistribution struct {
	States      []string  `json:"states"`
	Counts      []int     `json:"counts"`
	Percentages []float64 `json:"percentages"`
	Total       int       `json:"total"`
}

// VelocitySeries is planned vs completed points per sprint.
type VelocitySeries struct {
	Sprints   []string  `json:"sprints"`
	Planned   []float64 `json:"planned"`
	Completed []float64 `json:"completed"`
}

// CountBreakdown pairs labels with counts, largest first.
type CountBreakdown struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// BugsBreakdown covers severity and module slices of the bug population.
type BugsBreakdown struct {
	Severity  CountBreakdown `json:"severity"`
	ByArea    CountBreakdown `json:"by_area"`
	TotalBugs int            `json:"total_bugs"`
}

// AssigneeHours is one row of the workload stacked bar.
type AssigneeHours struct {
	Assignee   string  `json:"assignee"`
	DevHours   float64 `json:"dev_hours"`
	QAHours    float64 `json:"qa_hours"`
	TotalHours float64 `json:"total_hours"`
	Percentage float64 `json:"percentage"`
}

// WorkloadDistribution is hours per assignee plus an assignee by module
// ticket count matrix.
type WorkloadDistribution struct {
	Assignees []AssigneeHours `json:"assignees"`
	Heatmap   Heatmap         `json:"heatmap"`
}

// Heatmap is a dense assignee by area count matrix.
type Heatmap struct {
	Assignees []string    `json:"assignees"`
	Areas     []string    `json:"areas"`
	Values    [][]float64 `json:"values"`
}

// SpilledItem is one row of the spillover table.
type SpilledItem struct {
	TicketID        string  `json:"ticket_id"`
	Title           string  `json:"title"`
	Area            string  `json:"area"`
	StoryPoints     float64 `json:"story_points"`
	Assignee        string  `json:"assignee"`
	CarriedOverFrom string  `json:"carried_over_from"`
}

// SpilloverOverview lists spilled items and their story point weight by area.
type SpilloverOverview struct {
	Table              []SpilledItem `json:"table"`
	Areas              []string      `json:"areas"`
	AreaStoryPoints    []float64     `json:"area_story_points"`
	TotalSpilled       int           `json:"total_spilled"`
	TotalPointsSpilled float64       `json:"total_points_spilled"`
}

// KPIs computes the dashboard headline tiles across every sprint in the
// table. Aggregate percentages are rounded to one decimal place.
func KPIs(t *dataset.Table) KPISet {
	sprints := distinct(t, dataset.ColSprintID)

	details := make([]SprintKPIDetail, 0, len(sprints))
	var totalCompleted, totalPlanned float64
	for _, sprint := range sprints {
		rows := engine.Filter(t, map[string]any{dataset.ColSprintID: sprint})
		planned := engine.AggregateScalar(rows, dataset.ColStoryPoints, engine.AggSum).Value
		done := engine.Filter(rows, map[string]any{dataset.ColStatus: string(domain.StatusDone)})
		completed := engine.AggregateScalar(done, dataset.ColStoryPoints, engine.AggSum).Value

		bugs := engine.Filter(rows, map[string]any{dataset.ColType: string(domain.TypeBug)}).Len()
		spilled := engine.Filter(rows, map[string]any{dataset.ColState: string(domain.StateSpillover)}).Len()

		cycle := engine.AggregateScalar(done, dataset.ColCycleTimeDays, engine.AggMean)

		details = append(details, SprintKPIDetail{
			SprintID:      sprint,
			Velocity:      completed,
			PlannedPoints: planned,
			DeliveryPct:   pct(completed, planned),
			Bugs:          bugs,
			SpilloverPct:  pct(float64(spilled), float64(rows.Len())),
			AvgCycleTime:  cycle.Value,
		})
		totalCompleted += completed
		totalPlanned += planned
	}

	var avgVelocity float64
	if len(details) > 0 {
		avgVelocity = totalCompleted / float64(len(details))
	}
	overallDelivery := pct(totalCompleted, totalPlanned)

	totalBugs := engine.Filter(t, map[string]any{dataset.ColType: string(domain.TypeBug)}).Len()
	spilledAll := engine.Filter(t, map[string]any{dataset.ColState: string(domain.StateSpillover)}).Len()
	overallSpillover := pct(float64(spilledAll), float64(t.Len()))

	allDone := engine.Filter(t, map[string]any{dataset.ColStatus: string(domain.StatusDone)})
	overallCycle := engine.AggregateScalar(allDone, dataset.ColCycleTimeDays, engine.AggMean)

	return KPISet{
		SprintVelocity: KPI{
			Value:     engine.Round1(avgVelocity),
			Indicator: indicator(avgVelocity >= 15),
			Label:     "Sprint Velocity (Avg Points)",
		},
		DeliveryPercentage: KPI{
			Value:     engine.Round1(overallDelivery),
			Indicator: indicator(overallDelivery >= 70),
			Label:     "Delivery %",
		},
		BugCount: KPI{
			Value:     float64(totalBugs),
			Indicator: indicator(totalBugs <= 5),
			Label:     "Total Bugs",
		},
		SpilloverPercentage: KPI{
			Value:     engine.Round1(overallSpillover),
			Indicator: indicator(overallSpillover <= 15),
			Label:     "Spillover %",
		},
		AvgCycleTime: KPI{
			Value:     engine.Round1(overallCycle.Value),
			Indicator: indicator(overallCycle.Value <= 3),
			Label:     "Avg Cycle Time (Days)",
		},
		SprintDetails: details,
	}
}

// StateDist counts tickets per workflow state, largest state first.
func StateDist(t *dataset.Table) StateDistribution {
	labels, counts := countsDesc(t, dataset.ColState)
	total := 0
	for _, c := range counts {
		total += c
	}
	percentages := make([]float64, len(counts))
	for i, c := range counts {
		percentages[i] = engine.Round1(pct(float64(c), float64(total)))
	}
	return StateDistribution{States: labels, Counts: counts, Percentages: percentages, Total: total}
}

// Velocity builds the planned vs completed series sorted by sprint ID.
func Velocity(t *dataset.Table) VelocitySeries {
	sprints := distinct(t, dataset.ColSprintID)
	sort.Strings(sprints)

	series := VelocitySeries{Sprints: sprints}
	for _, sprint := range sprints {
		rows := engine.Filter(t, map[string]any{dataset.ColSprintID: sprint})
		done := engine.Filter(rows, map[string]any{dataset.ColStatus: string(domain.StatusDone)})
		series.Planned = append(series.Planned, engine.AggregateScalar(rows, dataset.ColStoryPoints, engine.AggSum).Value)
		series.Completed = append(series.Completed, engine.AggregateScalar(done, dataset.ColStoryPoints, engine.AggSum).Value)
	}
	return series
}

// Bugs breaks down the bug population by severity and module.
func Bugs(t *dataset.Table) BugsBreakdown {
	bugs := engine.Filter(t, map[string]any{dataset.ColType: string(domain.TypeBug)})
	sevLabels, sevCounts := countsDesc(bugs, dataset.ColSeverity)
	areaLabels, areaCounts := countsDesc(bugs, dataset.ColAreaModule)
	return BugsBreakdown{
		Severity:  CountBreakdown{Labels: sevLabels, Values: sevCounts},
		ByArea:    CountBreakdown{Labels: areaLabels, Values: areaCounts},
		TotalBugs: bugs.Len(),
	}
}

// Workload sums dev and QA hours per assignee, heaviest first, and builds
// the assignee by module count matrix.
func Workload(t *dataset.Table) WorkloadDistribution {
	type acc struct {
		dev, qa float64
	}
	byAssignee := map[string]*acc{}
	var order []string
	for i := 0; i < t.Len(); i++ {
		name := t.StringAt(i, dataset.ColAssignee)
		a, ok := byAssignee[name]
		if !ok {
			a = &acc{}
			byAssignee[name] = a
			order = append(order, name)
		}
		if v, ok := t.NumberAt(i, dataset.ColDevTimeHours); ok {
			a.dev += v
		}
		if v, ok := t.NumberAt(i, dataset.ColQATimeHours); ok {
			a.qa += v
		}
	}

	var grandTotal float64
	rows := make([]AssigneeHours, 0, len(order))
	for _, name := range order {
		a := byAssignee[name]
		rows = append(rows, AssigneeHours{
			Assignee:   name,
			DevHours:   a.dev,
			QAHours:    a.qa,
			TotalHours: a.dev + a.qa,
		})
		grandTotal += a.dev + a.qa
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalHours > rows[j].TotalHours })
	for i := range rows {
		rows[i].Percentage = engine.Round1(pct(rows[i].TotalHours, grandTotal))
	}

	return WorkloadDistribution{Assignees: rows, Heatmap: heatmap(t)}
}

// Spillover gathers every spilled item with story points rolled up by area.
func Spillover(t *dataset.Table) SpilloverOverview {
	spilled := engine.Filter(t, map[string]any{dataset.ColState: string(domain.StateSpillover)})

	out := SpilloverOverview{TotalSpilled: spilled.Len()}
	areaPoints := map[string]float64{}
	for i := 0; i < spilled.Len(); i++ {
		points, _ := spilled.NumberAt(i, dataset.ColStoryPoints)
		area := spilled.StringAt(i, dataset.ColAreaModule)
		out.Table = append(out.Table, SpilledItem{
			TicketID:        spilled.StringAt(i, dataset.ColTicketID),
			Title:           spilled.StringAt(i, dataset.ColTitle),
			Area:            area,
			StoryPoints:     points,
			Assignee:        spilled.StringAt(i, dataset.ColAssignee),
			CarriedOverFrom: spilled.StringAt(i, dataset.ColCarriedOverFrom),
		})
		areaPoints[area] += points
		out.TotalPointsSpilled += points
	}

	areas := make([]string, 0, len(areaPoints))
	for area := range areaPoints {
		areas = append(areas, area)
	}
	sort.Slice(areas, func(i, j int) bool {
		if areaPoints[areas[i]] != areaPoints[areas[j]] {
			return areaPoints[areas[i]] > areaPoints[areas[j]]
		}
		return areas[i] < areas[j]
	})
	for _, area := range areas {
		out.Areas = append(out.Areas, area)
		out.AreaStoryPoints = append(out.AreaStoryPoints, areaPoints[area])
	}
	return out
}

func heatmap(t *dataset.Table) Heatmap {
	assignees := distinct(t, dataset.ColAssignee)
	areas := distinct(t, dataset.ColAreaModule)
	sort.Strings(assignees)
	sort.Strings(areas)

	areaIdx := map[string]int{}
	for i, a := range areas {
		areaIdx[a] = i
	}
	assigneeIdx := map[string]int{}
	for i, a := range assignees {
		assigneeIdx[a] = i
	}

	values := make([][]float64, len(assignees))
	for i := range values {
		values[i] = make([]float64, len(areas))
	}
	for i := 0; i < t.Len(); i++ {
		ai, ok1 := assigneeIdx[t.StringAt(i, dataset.ColAssignee)]
		ci, ok2 := areaIdx[t.StringAt(i, dataset.ColAreaModule)]
		if ok1 && ok2 {
			values[ai][ci]++
		}
	}
	return Heatmap{Assignees: assignees, Areas: areas, Values: values}
}

// countsDesc tallies a string column and orders labels by descending
// count, ties broken alphabetically.
func countsDesc(t *dataset.Table, column string) ([]string, []int) {
	counts := map[string]int{}
	for i := 0; i < t.Len(); i++ {
		if s := t.StringAt(i, column); s != "" {
			counts[s]++
		}
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	values := make([]int, len(labels))
	for i, label := range labels {
		values[i] = counts[label]
	}
	return labels, values
}

func distinct(t *dataset.Table, column string) []string {
	seen := map[string]bool{}
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

func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func indicator(healthy bool) string {
	if healthy {
		return "green"
	}
	return "red"
}
