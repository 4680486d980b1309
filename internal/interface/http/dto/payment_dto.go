package dto

import (
	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/usecase/payment"
)

// PaymentCallbackRequest is what the gateway posts once money has settled.
type PaymentCallbackRequest struct {
	EntityKind string `json:"entity_kind" binding:"required"`
	EntityID   string `json:"entity_id" binding:"required,uuid"`
	AmountKind string `json:"amount_kind" binding:"required"`
}

type MarkPaymentRequest struct {
	AmountKind string `json:"amount_kind" binding:"required"`
}

type PaymentResponse struct {
	EntityKind     string    `json:"entity_kind"`
	EntityID       uuid.UUID `json:"entity_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
}

func ToPaymentResponse(r *payment.Result) PaymentResponse {
	return PaymentResponse{
		EntityKind:     string(r.EntityKind),
		EntityID:       r.EntityID,
		PreviousStatus: string(r.PreviousStatus),
		Status:         string(r.Status),
	}
}
