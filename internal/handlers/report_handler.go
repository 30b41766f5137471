package handlers

import (
	"errors"

	"github.com/AlexBKG/Umigo/internal/dto"
	"github.com/AlexBKG/Umigo/internal/middleware"
	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/AlexBKG/Umigo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	reporterID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.CreateReport(reporterID, req.Reason, req.TargetKind, req.TargetID)
	if err != nil {
		var cooldown *services.CooldownError
		switch {
		case errors.As(err, &cooldown):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   true,
				"message": cooldown.Error(),
				"cooldown": dto.CooldownResponse{
					HoursElapsed:   cooldown.HoursElapsed,
					HoursRemaining: cooldown.HoursRemaining,
				},
			})
		case errors.Is(err, services.ErrTargetNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrTargetConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// CanReport is the non-writing preflight the report form calls before
// showing the dialog.
func (h *ReportHandler) CanReport(c *fiber.Ctx) error {
	reporterID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	kind := models.TargetKind(c.Query("target_kind"))
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid target ID",
		})
	}

	ok, reason := h.reportService.CanReportTarget(reporterID, kind, targetID)
	return c.JSON(dto.CanReportResponse{CanReport: ok, Reason: reason})
}

func (h *ReportHandler) RecentCount(c *fiber.Ctx) error {
	reporterID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	kind := models.TargetKind(c.Query("target_kind", ""))
	count, err := h.reportService.RecentReportCount(reporterID, kind)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTargetKind) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to count reports",
		})
	}

	return c.JSON(fiber.Map{"count": count, "window_hours": services.CooldownHours})
}
