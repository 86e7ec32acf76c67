package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ReportsHandler serves leaderboard and dashboard statistics.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs the handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Leaderboard GET /api/leaderboard.
func (h *ReportsHandler) Leaderboard(c *fiber.Ctx) error {
	standings, err := h.reports.Leaderboard(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"success": true, "departments": standings})
}

// Stats GET /api/stats.
func (h *ReportsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reports.Stats(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}
