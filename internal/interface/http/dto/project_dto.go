package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
)

type CreateProjectRequest struct {
	DesignRequestID *string `json:"design_request_id"`
	ConsultationID  *string `json:"consultation_id"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	TotalPrice      int64   `json:"total_price" binding:"required"`
	DepositAmount   int64   `json:"deposit_amount" binding:"required"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

type AssignConstructorRequest struct {
	ConstructorID string `json:"constructor_id" binding:"required,uuid"`
}

type UpdateTaskRequest struct {
	CompletionPercentage *int `json:"completion_percentage" binding:"required"`
}

type TaskResponse struct {
	ID                   uuid.UUID `json:"id"`
	Sequence             int       `json:"sequence"`
	Name                 string    `json:"name"`
	CompletionPercentage int       `json:"completion_percentage"`
	Status               string    `json:"status"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ProjectResponse struct {
	ID                 uuid.UUID      `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	TotalPrice         int64          `json:"total_price"`
	DepositAmount      int64          `json:"deposit_amount"`
	Currency           string         `json:"currency"`
	StartDate          *time.Time     `json:"start_date,omitempty"`
	EndDate            *time.Time     `json:"end_date,omitempty"`
	CustomerID         uuid.UUID      `json:"customer_id"`
	ConsultantID       uuid.UUID      `json:"consultant_id"`
	ConstructorID      *uuid.UUID     `json:"constructor_id,omitempty"`
	ConsultationID     uuid.UUID      `json:"consultation_id"`
	DesignRequestID    *uuid.UUID     `json:"design_request_id,omitempty"`
	DesignID           *uuid.UUID     `json:"design_id,omitempty"`
	Status             string         `json:"status"`
	PaymentStatus      string         `json:"payment_status"`
	CancellationReason *string        `json:"cancellation_reason,omitempty"`
	RequestedByID      *uuid.UUID     `json:"requested_by_id,omitempty"`
	Tasks              []TaskResponse `json:"tasks"`
	Version            int64          `json:"version"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func ToTaskResponse(t *entity.ProjectTask) TaskResponse {
	return TaskResponse{
		ID:                   t.ID,
		Sequence:             t.Sequence,
		Name:                 t.Name,
		CompletionPercentage: int(t.CompletionPercentage),
		Status:               string(t.Status),
		UpdatedAt:            t.UpdatedAt,
	}
}

func ToProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		TotalPrice:         p.Pricing.Total.Amount,
		DepositAmount:      p.Pricing.Deposit.Amount,
		Currency:           p.Pricing.Total.Currency,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		CustomerID:         p.CustomerID,
		ConsultantID:       p.ConsultantID,
		ConstructorID:      p.ConstructorID,
		ConsultationID:     p.ConsultationID,
		DesignRequestID:    p.DesignRequestID,
		DesignID:           p.DesignID,
		Status:             string(p.Status),
		PaymentStatus:      string(p.PaymentStatus),
		CancellationReason: p.CancellationReason,
		RequestedByID:      p.RequestedByID,
		Tasks: lo.Map(p.Tasks, func(t *entity.ProjectTask, _ int) TaskResponse {
			return ToTaskResponse(t)
		}),
		Version:   p.GetVersion(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
