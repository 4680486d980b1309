// Package event carries workflow notifications from use cases to their
// subscribers. Use cases publish only after the entity was saved.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/valueobject"
)

type Type string

const (
	ConsultationCreated        Type = "consultation.created"
	ConsultationStatusChanged  Type = "consultation.status_changed"
	ConsultationProceedDesign  Type = "consultation.proceed_design"
	DesignRequestCreated       Type = "design_request.created"
	DesignRequestStatusChanged Type = "design_request.status_changed"
	ProjectCreated             Type = "project.created"
	ProjectStatusChanged       Type = "project.status_changed"
	ProjectConstructorAssigned Type = "project.constructor_assigned"
	ProjectTaskUpdated         Type = "project.task_updated"
	PaymentStatusChanged       Type = "payment.status_changed"
	MaintenanceCreated         Type = "maintenance.created"
	MaintenanceStatusChanged   Type = "maintenance.status_changed"
	ReviewCreated              Type = "review.created"
)

// Event describes one committed change. Status is the new status of the
// machine that moved; PreviousStatus is empty for creations.
type Event struct {
	Type           Type                   `json:"type"`
	EntityKind     valueobject.EntityKind `json:"entityKind"`
	EntityID       uuid.UUID              `json:"entityId"`
	Status         string                 `json:"status,omitempty"`
	PreviousStatus string                 `json:"previousStatus,omitempty"`
	Actor          valueobject.Actor      `json:"-"`
	Recipients     []uuid.UUID            `json:"-"`
	OccurredAt     time.Time              `json:"occurredAt"`
}

func New(t Type, kind valueobject.EntityKind, id uuid.UUID, actor valueobject.Actor) Event {
	return Event{
		Type:       t,
		EntityKind: kind,
		EntityID:   id,
		Actor:      actor,
		OccurredAt: time.Now(),
	}
}

// Moved sets the status pair of a transition.
func (e Event) Moved(from, to string) Event {
	e.PreviousStatus = from
	e.Status = to
	return e
}

// To adds recipients, skipping nil ids.
func (e Event) To(ids ...*uuid.UUID) Event {
	for _, id := range ids {
		if id != nil && *id != uuid.Nil {
			e.Recipients = append(e.Recipients, *id)
		}
	}
	return e
}

// Publisher is what use cases depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Handler reacts to an event. Returned errors are logged by the bus.
type Handler func(ctx context.Context, e Event) error

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
