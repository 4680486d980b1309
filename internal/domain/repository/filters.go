package repository

import "github.com/google/uuid"

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Page bounds list queries. A zero Limit means DefaultLimit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type ConsultationFilter struct {
	CustomerID   *uuid.UUID
	ConsultantID *uuid.UUID
	Status       string
	Page
}

type DesignRequestFilter struct {
	CustomerID   *uuid.UUID
	DesignerID   *uuid.UUID
	ConsultantID *uuid.UUID
	Status       string
	Page
}

type ProjectFilter struct {
	CustomerID    *uuid.UUID
	ConsultantID  *uuid.UUID
	ConstructorID *uuid.UUID
	Status        string
	Page
}

type MaintenanceFilter struct {
	ProjectID     *uuid.UUID
	CustomerID    *uuid.UUID
	AssignedTo    *uuid.UUID
	RequestStatus string
	Page
}

type ReviewFilter struct {
	ProjectID            *uuid.UUID
	MaintenanceRequestID *uuid.UUID
	CustomerID           *uuid.UUID
	Page
}
