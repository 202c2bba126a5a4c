package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/api/dto"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/dataset"
	apperrors "github.com/meudayhegde/sprint-summary-chatbot/pkg/util/errorutil"
)

// AdminHandler exposes snapshot inspection and manual reloads.
type AdminHandler struct {
	store    *dataset.Store
	reloader *dataset.Reloader
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(store *dataset.Store, reloader *dataset.Reloader) *AdminHandler {
	return &AdminHandler{store: store, reloader: reloader}
}

// Snapshot handles GET /api/v1/snapshot.
func (h *AdminHandler) Snapshot(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(fiber.Map{"data": dto.SnapshotResponse{
		SnapshotID: snap.ID.String(),
		Rows:       snap.Table.Len(),
		LoadedAt:   snap.LoadedAt,
	}})
}

// Reload handles POST /api/v1/snapshot/reload. A failed load keeps the
// current snapshot in place and reports the error.
func (h *AdminHandler) Reload(c *fiber.Ctx) error {
	snap, err := h.reloader.ReloadNow(c.UserContext())
	if err != nil {
		return apperrors.NewUnavailable("dataset reload failed: " + err.Error())
	}
	return c.JSON(fiber.Map{"data": dto.SnapshotResponse{
		SnapshotID: snap.ID.String(),
		Rows:       snap.Table.Len(),
		LoadedAt:   snap.LoadedAt,
	}})
}
