package entity

import (
	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/valueobject"
)

const maxRevisions = 3

func newActor(role valueobject.Role) valueobject.Actor {
	return valueobject.NewActor(uuid.New(), role)
}

type cast struct {
	customer    valueobject.Actor
	consultant  valueobject.Actor
	designer    valueobject.Actor
	manager     valueobject.Actor
	constructor valueobject.Actor
}

func newCast() cast {
	return cast{
		customer:    newActor(valueobject.RoleCustomer),
		consultant:  newActor(valueobject.RoleConsultant),
		designer:    newActor(valueobject.RoleDesigner),
		manager:     newActor(valueobject.RoleManager),
		constructor: newActor(valueobject.RoleConstructor),
	}
}

func ptr[T any](v T) *T { return &v }

// approvedDesignRequest returns a request the customer already approved.
func (c cast) approvedDesignRequest() *DesignRequest {
	return &DesignRequest{
		ID:             uuid.New(),
		ConsultationID: uuid.New(),
		CustomerID:     c.customer.UserID,
		ConsultantID:   ptr(c.consultant.UserID),
		DesignerID:     ptr(c.designer.UserID),
		DesignID:       ptr(uuid.New()),
		Status:         valueobject.DesignApproved,
	}
}

// projectIn returns a project in status with a constructor and tasks laid out.
func (c cast) projectIn(status valueobject.ProjectStatus, taskCount int) *Project {
	p := &Project{
		ID:            uuid.New(),
		Name:          "Backyard koi pond",
		CustomerID:    c.customer.UserID,
		ConsultantID:  c.consultant.UserID,
		Status:        valueobject.ProjectApproved,
		PaymentStatus: valueobject.PaymentUnpaid,
	}
	p.Pricing, _ = valueobject.NewPricing(1_000_000, 300_000, 1000)
	if taskCount > 0 {
		names := make([]string, taskCount)
		for i := range names {
			names[i] = "step"
		}
		if err := p.AssignConstructor(c.manager, c.constructor.UserID, names); err != nil {
			panic(err)
		}
	}
	p.Status = status
	return p
}
