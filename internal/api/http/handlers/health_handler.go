package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/observability"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	store       *dataset.Store
	metrics     *observability.Metrics
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, store *dataset.Store, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, store: store, metrics: metrics}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness. The service is ready once a dataset snapshot
// is installed; Redis and Postgres outages degrade features but do not
// block answering from the in-memory table.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	if snap == nil || snap.Table == nil || snap.Table.Len() == 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DATASET_UNAVAILABLE",
				"message": "no dataset snapshot loaded",
			},
		})
	}
	return c.JSON(fiber.Map{
		"status": "ready",
		"snapshot": fiber.Map{
			"id":        snap.ID.String(),
			"rows":      snap.Table.Len(),
			"loaded_at": snap.LoadedAt,
		},
	})
}

// Stats reports per-operation query counters.
func (h *HealthHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{"query_counts": h.metrics.QueryCounts()},
	})
}
