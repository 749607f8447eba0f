package server

import (
	"campusboard/internal/models"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport files a report against a post or comment (protected)
func (s *Server) CreateReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		TargetType string `json:"target_type"`
		TargetID   uint   `json:"target_id"`
		Reason     string `json:"reason"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.SubmitReport(ctx, service.SubmitReportInput{
		ReporterID: userID,
		TargetType: models.ReportTargetType(req.TargetType),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports returns one page of the moderation queue (admin only).
// ?resolved=true|false filters; omitting it returns everything.
func (s *Server) GetReports(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	pagination := parsePagination(c, 20)
	in := service.ListReportsInput{
		UserID: userID,
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if raw := c.Query("resolved"); raw != "" {
		resolved := raw == "true"
		in.Resolved = &resolved
	}

	page, err := s.reportService.ListReports(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// ResolveReport marks a report as handled (admin only)
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	return s.setReportResolved(c, true)
}

// ReopenReport puts a resolved report back in the queue (admin only)
func (s *Server) ReopenReport(c *fiber.Ctx) error {
	return s.setReportResolved(c, false)
}

func (s *Server) setReportResolved(c *fiber.Ctx, resolved bool) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	report, svcErr := s.reportService.ResolveReport(ctx, userID, reportID, resolved)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(report)
}
