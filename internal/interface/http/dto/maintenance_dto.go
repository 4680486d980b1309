package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
)

type CreateMaintenanceRequest struct {
	ProjectID   string `json:"project_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
}

type ConfirmMaintenanceRequest struct {
	AgreedPrice *int64 `json:"agreed_price"`
}

type AssignStaffRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
}

type ScheduleMaintenanceRequest struct {
	ScheduledDate string `json:"scheduled_date" binding:"required"`
}

type CompleteMaintenanceRequest struct {
	Notes  string   `json:"notes" binding:"required"`
	Images []string `json:"images" binding:"required,min=1"`
}

type MaintenanceResponse struct {
	ID                 uuid.UUID  `json:"id"`
	CustomerID         uuid.UUID  `json:"customer_id"`
	ProjectID          uuid.UUID  `json:"project_id"`
	ConsultantID       *uuid.UUID `json:"consultant_id,omitempty"`
	AssignedTo         *uuid.UUID `json:"assigned_to,omitempty"`
	Description        string     `json:"description"`
	RequestStatus      string     `json:"request_status"`
	MaintenanceStatus  string     `json:"maintenance_status"`
	PaymentStatus      string     `json:"payment_status"`
	AgreedPrice        *int64     `json:"agreed_price,omitempty"`
	ScheduledDate      *time.Time `json:"scheduled_date,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	CompletionDate     *time.Time `json:"completion_date,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	MaintenanceNotes   *string    `json:"maintenance_notes,omitempty"`
	MaintenanceImages  []string   `json:"maintenance_images"`
	Version            int64      `json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func ToMaintenanceResponse(m *entity.MaintenanceRequest) MaintenanceResponse {
	images := m.MaintenanceImages
	if images == nil {
		images = []string{}
	}
	return MaintenanceResponse{
		ID:                 m.ID,
		CustomerID:         m.CustomerID,
		ProjectID:          m.ProjectID,
		ConsultantID:       m.ConsultantID,
		AssignedTo:         m.AssignedTo,
		Description:        m.Description,
		RequestStatus:      string(m.RequestStatus),
		MaintenanceStatus:  string(m.MaintenanceStatus),
		PaymentStatus:      string(m.PaymentStatus),
		AgreedPrice:        m.AgreedPrice,
		ScheduledDate:      m.ScheduledDate,
		StartDate:          m.StartDate,
		CompletionDate:     m.CompletionDate,
		CancellationReason: m.CancellationReason,
		MaintenanceNotes:   m.MaintenanceNotes,
		MaintenanceImages:  images,
		Version:            m.GetVersion(),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
