package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/admitflow/admitflow-backend/internal/services"
)

// AdminHandler handles operational endpoints
type AdminHandler struct {
	reconcile *services.ReconcileService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reconcile *services.ReconcileService) *AdminHandler {
	return &AdminHandler{reconcile: reconcile}
}

// Reconcile runs one sheet-to-database reconciliation pass and returns
// its summary
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	summary, err := h.reconcile.Run()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Reconciliation completed",
		"summary": summary,
	})
}
