package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
)

type CreateDesignRequestRequest struct {
	ConsultationID string `json:"consultation_id" binding:"required,uuid"`
}

type AssignDesignerRequest struct {
	DesignerID string `json:"designer_id" binding:"required,uuid"`
}

type DesignArtifactRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls" binding:"required,min=1"`
}

type DesignRequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	ConsultationID  uuid.UUID  `json:"consultation_id"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	ConsultantID    *uuid.UUID `json:"consultant_id,omitempty"`
	DesignerID      *uuid.UUID `json:"designer_id,omitempty"`
	Status          string     `json:"status"`
	DesignID        *uuid.UUID `json:"design_id,omitempty"`
	ReviewerNotes   *string    `json:"reviewer_notes,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	RevisionCount   int        `json:"revision_count"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ToDesignRequestResponse(d *entity.DesignRequest) DesignRequestResponse {
	return DesignRequestResponse{
		ID:              d.ID,
		ConsultationID:  d.ConsultationID,
		CustomerID:      d.CustomerID,
		ConsultantID:    d.ConsultantID,
		DesignerID:      d.DesignerID,
		Status:          string(d.Status),
		DesignID:        d.DesignID,
		ReviewerNotes:   d.ReviewerNotes,
		RejectionReason: d.RejectionReason,
		RevisionCount:   d.RevisionCount,
		Version:         d.GetVersion(),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type PondDesignResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToPondDesignResponse(d *entity.PondDesign) PondDesignResponse {
	return PondDesignResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ImageURLs:   d.ImageURLs,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
	}
}
