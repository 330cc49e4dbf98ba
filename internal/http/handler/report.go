package handler

import (
	"github.com/gofiber/fiber/v2"

	"zerowaste/internal/service"
)

// ExportImpactReport godoc
// @Summary Export an impact report to object storage
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.ExportedReport
// @Failure 503 {object} errorPayload
// @Router /reports/impact [post]
func ExportImpactReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep, err := svc.ExportImpactReport(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rep)
	}
}
