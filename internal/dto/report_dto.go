package dto

import (
	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/google/uuid"
)

type CreateReportRequest struct {
	TargetKind models.TargetKind `json:"target_kind"`
	TargetID   uuid.UUID         `json:"target_id"`
	Reason     string            `json:"reason"`
}

type CanReportResponse struct {
	CanReport bool   `json:"can_report"`
	Reason    string `json:"reason,omitempty"`
}

type TransitionReportRequest struct {
	Status models.ReportStatus `json:"status"`
}

type CooldownResponse struct {
	HoursElapsed   int `json:"hours_elapsed"`
	HoursRemaining int `json:"hours_remaining"`
}
