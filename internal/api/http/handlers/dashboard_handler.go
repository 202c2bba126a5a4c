package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/report"
)

// DashboardHandler serves the dashboard payloads.
type DashboardHandler struct {
	store *dataset.Store
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(store *dataset.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// KPIs handles GET /api/v1/dashboard/kpis.
func (h *DashboardHandler) KPIs(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": report.KPIs(snap.Table), "snapshot_id": snap.ID.String()})
}

// States handles GET /api/v1/dashboard/states.
func (h *DashboardHandler) States(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": report.StateDist(snap.Table), "snapshot_id": snap.ID.String()})
}

// Velocity handles GET /api/v1/dashboard/velocity.
func (h *DashboardHandler) Velocity(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": report.Velocity(snap.Table), "snapshot_id": snap.ID.String()})
}

// Bugs handles GET /api/v1/dashboard/bugs.
func (h *DashboardHandler) Bugs(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": report.Bugs(snap.Table), "snapshot_id": snap.ID.String()})
}

// Workload handles GET /api/v1/dashboard/workload.
func (h *DashboardHandler) Workload(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": report.Workload(snap.Table), "snapshot_id": snap.ID.String()})
}

// Spillover handles GET /api/v1/dashboard/spillover.
func (h *DashboardHandler) Spillover(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": report.Spillover(snap.Table), "snapshot_id": snap.ID.String()})
}
