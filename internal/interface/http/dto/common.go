package dto

import (
	"time"

	"github.com/google/uuid"
)

// ParseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func ParseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalUUID parses a UUID that may be absent.
func ParseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type DecisionRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Note     string `json:"note"`
}
