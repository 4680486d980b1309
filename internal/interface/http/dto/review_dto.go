package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
)

type CreateReviewRequest struct {
	ProjectID            *string `json:"project_id"`
	MaintenanceRequestID *string `json:"maintenance_request_id"`
	Rating               int     `json:"rating" binding:"required"`
	Comment              string  `json:"comment"`
}

type ReviewResponse struct {
	ID                   uuid.UUID  `json:"id"`
	CustomerID           uuid.UUID  `json:"customer_id"`
	ProjectID            *uuid.UUID `json:"project_id,omitempty"`
	MaintenanceRequestID *uuid.UUID `json:"maintenance_request_id,omitempty"`
	Rating               int        `json:"rating"`
	Comment              string     `json:"comment"`
	ReviewDate           time.Time  `json:"review_date"`
}

func ToReviewResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:                   r.ID,
		CustomerID:           r.CustomerID,
		ProjectID:            r.ProjectID,
		MaintenanceRequestID: r.MaintenanceRequestID,
		Rating:               r.Rating,
		Comment:              r.Comment,
		ReviewDate:           r.ReviewDate,
	}
}
