package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
)

type CustomDesignDTO struct {
	PreferredStyle string `json:"preferred_style"`
	Dimensions     string `json:"dimensions"`
	Requirements   string `json:"requirements"`
	Budget         *int64 `json:"budget"`
}

type CreateConsultationRequest struct {
	DesignID     *string          `json:"design_id"`
	CustomDesign *CustomDesignDTO `json:"custom_design"`
	Notes        string           `json:"notes"`
}

func (r CreateConsultationRequest) Custom() *entity.CustomDesignSource {
	if r.CustomDesign == nil {
		return nil
	}
	return &entity.CustomDesignSource{
		PreferredStyle: r.CustomDesign.PreferredStyle,
		Dimensions:     r.CustomDesign.Dimensions,
		Requirements:   r.CustomDesign.Requirements,
		Budget:         r.CustomDesign.Budget,
	}
}

type ConsultationResponse struct {
	ID                 uuid.UUID        `json:"id"`
	CustomerID         uuid.UUID        `json:"customer_id"`
	DesignID           *uuid.UUID       `json:"design_id,omitempty"`
	CustomDesign       bool             `json:"custom_design"`
	CustomDetails      *CustomDesignDTO `json:"custom_details,omitempty"`
	Notes              string           `json:"notes"`
	Status             string           `json:"status"`
	ConsultantID       *uuid.UUID       `json:"consultant_id,omitempty"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	Version            int64            `json:"version"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func ToConsultationResponse(c *entity.ConsultationRequest) ConsultationResponse {
	resp := ConsultationResponse{
		ID:                 c.ID,
		CustomerID:         c.CustomerID,
		DesignID:           c.DesignID,
		CustomDesign:       c.CustomDesign,
		Notes:              c.Notes,
		Status:             string(c.Status),
		ConsultantID:       c.ConsultantID,
		CancellationReason: c.CancellationReason,
		Version:            c.GetVersion(),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if src, ok := c.Source().(entity.CustomDesignSource); ok {
		resp.CustomDetails = &CustomDesignDTO{
			PreferredStyle: src.PreferredStyle,
			Dimensions:     src.Dimensions,
			Requirements:   src.Requirements,
			Budget:         src.Budget,
		}
	}
	return resp
}
