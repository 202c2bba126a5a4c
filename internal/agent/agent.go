// Package agent answers natural language questions about sprint data.
// It routes each question to a data slice by keyword, renders charts when
// asked, and narrates the result through a model with a deterministic
// fallback.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/charts"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/engine"
)

// Answer is the response to one question.
type Answer struct {
	Answer     string          `json:"answer"`
	Charts     []*charts.Chart `json:"charts"`
	SnapshotID uuid.UUID       `json:"snapshot_id"`
	Cached     bool            `json:"cached,omitempty"`
}

// Agent orchestrates routing, analytics, chart rendering and narration.
// All analytics for one question run against a single snapshot captured
// at entry, so a concurrent reload cannot mix table versions mid-answer.
type Agent struct {
	store    *dataset.Store
	narrator Narrator
	fallback Narrator
	cache    *AnswerCache
	logger   *zap.Logger
}

// New builds an agent. narrator may be nil, in which case the template
// fallback handles every question.
func New(store *dataset.Store, narrator Narrator, cache *AnswerCache, logger *zap.Logger) *Agent {
	return &Agent{
		store:    store,
		narrator: narrator,
		fallback: NewTemplateNarrator(),
		cache:    cache,
		logger:   logger,
	}
}

// Ask answers a question about the current snapshot.
func (a *Agent) Ask(ctx context.Context, question string) (*Answer, error) {
	snap := a.store.Snapshot()
	if snap == nil || snap.Table == nil {
		return nil, fmt.Errorf("no dataset loaded")
	}

	if cached, ok := a.cache.Get(ctx, snap.ID, question); ok {
		cached.Cached = true
		return cached, nil
	}

	route := Classify(question)

	dataContext, err := a.buildContext(snap.Table, route)
	if err != nil {
		return nil, err
	}

	ans := &Answer{
		Charts:     a.renderCharts(snap.Table, route.Charts),
		SnapshotID: snap.ID,
	}

	ans.Answer = a.narrate(ctx, question, dataContext)
	if len(ans.Charts) > 0 {
		ans.Answer += "\n\nI've generated visual charts to help illustrate this data."
	}

	a.cache.Set(ctx, snap.ID, question, ans)
	return ans, nil
}

func (a *Agent) narrate(ctx context.Context, question, dataContext string) string {
	if a.narrator != nil {
		text, err := a.narrator.Narrate(ctx, question, dataContext)
		if err == nil {
			return text
		}
		a.logger.Warn("narration failed, using fallback", zap.Error(err))
	}
	text, _ := a.fallback.Narrate(ctx, question, dataContext)
	return text
}

// buildContext loads the data slice the route points at and encodes it as
// indented JSON for the prompt.
func (a *Agent) buildContext(t *dataset.Table, route Route) (string, error) {
	var payload any
	switch route.Context {
	case ContextBugs:
		payload = engine.AnalyzeBugs(t)
	case ContextTeam:
		payload = engine.TeamPerformance(t)
	case ContextSprint:
		payload = engine.SummarizeSprint(t, route.SprintID)
	default:
		payload = engine.Summarize(t)
	}

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode data context: %w", err)
	}
	return string(raw), nil
}

func (a *Agent) renderCharts(t *dataset.Table, kinds []ChartKind) []*charts.Chart {
	var out []*charts.Chart
	for _, kind := range kinds {
		var c *charts.Chart
		switch kind {
		case ChartVelocity:
			c = charts.SprintVelocityBar(t)
		case ChartTeam:
			c = charts.TeamPerformanceBar(t)
		case ChartStatus:
			c = charts.StatusPie(t)
		case ChartPriority:
			c = charts.PriorityBar(t)
		case ChartBugs:
			c = charts.BugSeverityBar(t)
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
