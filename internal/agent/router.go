package agent

import (
	"regexp"
	"strings"
)

// ContextKind names the analysis slice a question should be answered from.
type ContextKind string

const (
	ContextBugs   ContextKind = "bugs"
	ContextTeam   ContextKind = "team"
	ContextSprint ContextKind = "sprint"
	ContextData   ContextKind = "data"
)

// ChartKind names a chart the agent can attach to an answer.
type ChartKind string

const (
	ChartVelocity ChartKind = "velocity"
	ChartTeam     ChartKind = "team"
	ChartStatus   ChartKind = "status"
	ChartPriority ChartKind = "priority"
	ChartBugs     ChartKind = "bugs"
)

// Route is the outcome of keyword classification for one question.
type Route struct {
	Context  ContextKind
	SprintID string
	Charts   []ChartKind
}

var sprintIDPattern = regexp.MustCompile(`spr-\d+`)

var chartWords = []string{"chart", "graph", "visualize", "visualization", "plot", "show me"}

// Classify inspects a question and decides which data slice to load and
// which charts, if any, to render alongside the answer. Matching is keyword
// based and case insensitive.
func Classify(question string) Route {
	q := strings.ToLower(question)

	r := Route{Context: ContextData}
	switch {
	case strings.Contains(q, "bug"):
		r.Context = ContextBugs
	case strings.Contains(q, "team") || strings.Contains(q, "performance") || strings.Contains(q, "member"):
		r.Context = ContextTeam
	case strings.Contains(q, "spr-") || strings.Contains(q, "sprint"):
		r.Context = ContextSprint
		if m := sprintIDPattern.FindString(q); m != "" {
			r.SprintID = strings.ToUpper(m)
		}
	}

	if wantsCharts(q) || strings.Contains(q, "velocity") || strings.Contains(q, "trend") {
		r.Charts = selectCharts(q)
	}
	return r
}

func wantsCharts(q string) bool {
	for _, w := range chartWords {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func selectCharts(q string) []ChartKind {
	var charts []ChartKind

	if strings.Contains(q, "velocity") {
		charts = append(charts, ChartVelocity)
	}
	if strings.Contains(q, "team") || strings.Contains(q, "performance") {
		charts = append(charts, ChartTeam)
	}
	if strings.Contains(q, "status") && strings.Contains(q, "chart") {
		charts = append(charts, ChartStatus)
	}
	if strings.Contains(q, "priority") && strings.Contains(q, "chart") {
		charts = append(charts, ChartPriority)
	}
	if strings.Contains(q, "bug") &&
		(strings.Contains(q, "chart") || strings.Contains(q, "visualize") || strings.Contains(q, "graph")) {
		charts = append(charts, ChartBugs)
	}

	// General queries still get a status overview.
	if len(charts) == 0 &&
		(strings.Contains(q, "overview") || strings.Contains(q, "summary") || strings.Contains(q, "show me")) {
		charts = append(charts, ChartStatus)
	}
	return charts
}
