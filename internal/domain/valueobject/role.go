package valueobject

import (
	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleConsultant  Role = "CONSULTANT"
	RoleDesigner    Role = "DESIGNER"
	RoleManager     Role = "MANAGER"
	RoleConstructor Role = "CONSTRUCTOR"
	// RoleSystem is the actor behind payment gateway callbacks.
	RoleSystem Role = "SYSTEM"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleConsultant, RoleDesigner, RoleManager, RoleConstructor, RoleSystem:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to the company side.
func (r Role) IsStaff() bool {
	switch r {
	case RoleConsultant, RoleDesigner, RoleManager, RoleConstructor:
		return true
	}
	return false
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "unknown role")
	}
	return r, nil
}

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func NewActor(userID uuid.UUID, role Role) Actor {
	return Actor{UserID: userID, Role: role}
}

// SystemActor is used for callbacks that do not originate from a person.
func SystemActor() Actor {
	return Actor{UserID: uuid.Nil, Role: RoleSystem}
}

func (a Actor) Is(role Role) bool {
	return a.Role == role
}

type EntityKind string

const (
	EntityPondDesign      EntityKind = "pond_design"
	EntityConsultation    EntityKind = "consultation_request"
	EntityDesignRequest   EntityKind = "design_request"
	EntityProject         EntityKind = "project"
	EntityProjectTask     EntityKind = "project_task"
	EntityPayment         EntityKind = "payment"
	EntityMaintenance     EntityKind = "maintenance_request"
	EntityMaintenanceWork EntityKind = "maintenance_work"
	EntityReview          EntityKind = "review"
)

// HasPayment reports whether the kind carries a payment sub-machine.
func (k EntityKind) HasPayment() bool {
	return k == EntityProject || k == EntityMaintenance
}
