package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/api/dto"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/engine"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/observability"
	apperrors "github.com/meudayhegde/sprint-summary-chatbot/pkg/util/errorutil"
)

// QueryHandler exposes the analytics engine over HTTP. Every call runs
// against the snapshot current at request time.
type QueryHandler struct {
	store   *dataset.Store
	metrics *observability.Metrics
}

// NewQueryHandler constructs the handler.
func NewQueryHandler(store *dataset.Store, metrics *observability.Metrics) *QueryHandler {
	return &QueryHandler{store: store, metrics: metrics}
}

// Evaluate handles POST /api/v1/query.
func (h *QueryHandler) Evaluate(c *fiber.Ctx) error {
	var req engine.Request
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Op == "" {
		return apperrors.NewValidationError("operation required", nil)
	}

	snap := h.store.Snapshot()
	result, err := engine.Evaluate(snap.Table, req)
	if err != nil {
		return mapEngineError(err)
	}
	h.metrics.RecordQuery(string(req.Op))

	return c.JSON(fiber.Map{
		"data":        exportResult(result),
		"snapshot_id": snap.ID.String(),
	})
}

// Metric handles GET /api/v1/metrics/:name.
func (h *QueryHandler) Metric(c *fiber.Ctx) error {
	params := engine.MetricParams{
		SprintID:   c.Query("sprint_id"),
		By:         c.Query("by"),
		Status:     c.Query("status"),
		TicketType: c.Query("ticket_type"),
	}

	snap := h.store.Snapshot()
	result, err := engine.CalculateMetric(snap.Table, c.Params("name"), params)
	if err != nil {
		return mapEngineError(err)
	}
	h.metrics.RecordQuery(string(engine.OpCalculateMetric))

	return c.JSON(fiber.Map{
		"data":        fiber.Map{"metric": c.Params("name"), "value": result},
		"snapshot_id": snap.ID.String(),
	})
}

// Summary handles GET /api/v1/summary.
func (h *QueryHandler) Summary(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": engine.Summarize(snap.Table), "snapshot_id": snap.ID.String()})
}

// SprintSummary handles GET /api/v1/summary/sprints/:id.
func (h *QueryHandler) SprintSummary(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": engine.SummarizeSprint(snap.Table, c.Params("id")), "snapshot_id": snap.ID.String()})
}

// Team handles GET /api/v1/team.
func (h *QueryHandler) Team(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": engine.TeamPerformance(snap.Table), "snapshot_id": snap.ID.String()})
}

// BugAnalysis handles GET /api/v1/bugs.
func (h *QueryHandler) BugAnalysis(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": engine.AnalyzeBugs(snap.Table), "snapshot_id": snap.ID.String()})
}

// exportResult renders a table as columns plus row maps; every other
// engine result is JSON-encodable as is.
func exportResult(result any) any {
	if t, ok := result.(*dataset.Table); ok {
		return dto.TableResponse{Columns: t.Columns(), Rows: t.Rows(), Count: t.Len()}
	}
	return result
}

func mapEngineError(err error) error {
	var unknownOp *engine.UnknownOperationError
	if errors.As(err, &unknownOp) {
		return apperrors.NewBadQuery(unknownOp.Error(), nil)
	}
	var unknownMetric *engine.UnknownMetricError
	if errors.As(err, &unknownMetric) {
		return apperrors.NewBadQuery(unknownMetric.Error(), nil)
	}
	var emptySprint *engine.EmptySprintError
	if errors.As(err, &emptySprint) {
		return apperrors.NewNotFound("sprint", map[string]any{"sprint_id": emptySprint.SprintID})
	}
	return apperrors.MapError(err)
}
