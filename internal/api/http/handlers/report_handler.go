package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/charts"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/engine"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/report"
	apperrors "github.com/meudayhegde/sprint-summary-chatbot/pkg/util/errorutil"
)

// ReportHandler serves per-sprint reports and standalone charts.
type ReportHandler struct {
	store *dataset.Store
}

// NewReportHandler constructs the handler.
func NewReportHandler(store *dataset.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// Sprints handles GET /api/v1/reports/sprints, listing sprint summaries.
func (h *ReportHandler) Sprints(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	summary := engine.Summarize(snap.Table)

	list := make([]engine.SprintSummary, 0, len(summary.Sprints))
	for _, sprintID := range summary.Sprints {
		list = append(list, engine.SummarizeSprint(snap.Table, sprintID))
	}
	return c.JSON(fiber.Map{"data": list, "snapshot_id": snap.ID.String()})
}

// Sprint handles GET /api/v1/reports/sprints/:id.
func (h *ReportHandler) Sprint(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	r, err := report.ForSprint(snap.Table, c.Params("id"))
	if err != nil {
		return mapEngineError(err)
	}
	return c.JSON(fiber.Map{"data": r, "snapshot_id": snap.ID.String()})
}

// Chart handles GET /api/v1/charts/:kind.
func (h *ReportHandler) Chart(c *fiber.Ctx) error {
	snap := h.store.Snapshot()

	var chart *charts.Chart
	switch c.Params("kind") {
	case "status":
		chart = charts.StatusPie(snap.Table)
	case "velocity":
		chart = charts.SprintVelocityBar(snap.Table)
	case "team":
		chart = charts.TeamPerformanceBar(snap.Table)
	case "priority":
		chart = charts.PriorityBar(snap.Table)
	case "bugs":
		chart = charts.BugSeverityBar(snap.Table)
	default:
		return apperrors.NewBadQuery("unknown chart kind", map[string]any{"kind": c.Params("kind")})
	}
	if chart == nil {
		return apperrors.NewNotFound("chart data", nil)
	}
	return c.JSON(fiber.Map{"data": chart, "snapshot_id": snap.ID.String()})
}
