package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/authz"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/validation"
)

// MaintenanceRequest carries two independent machines: RequestStatus for the
// request itself and MaintenanceStatus for the field work, which only
// advances while the request is CONFIRMED.
type MaintenanceRequest struct {
	ID                 uuid.UUID
	CustomerID         uuid.UUID
	ProjectID          uuid.UUID
	ConsultantID       *uuid.UUID
	AssignedTo         *uuid.UUID
	Description        string
	RequestStatus      valueobject.RequestStatus
	MaintenanceStatus  valueobject.MaintenanceStatus
	PaymentStatus      valueobject.PaymentStatus
	AgreedPrice        *int64
	ScheduledDate      *time.Time
	StartDate          *time.Time
	CompletionDate     *time.Time
	CancellationReason *string
	MaintenanceNotes   *string
	MaintenanceImages  []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Versioned
}

func NewMaintenanceRequest(actor valueobject.Actor, project *Project, description string) (*MaintenanceRequest, error) {
	if err := authz.Perform(actor.Role, valueobject.EntityMaintenance, authz.ActionCreate); err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(actor.UserID) {
		return nil, apperror.Forbidden("maintenance can only be requested for your own project")
	}
	if !project.Status.AcceptsMaintenance() {
		return nil, apperror.Validation("maintenance can only be requested for a completed project")
	}
	description = strings.TrimSpace(description)
	if err := validation.ValidateRequiredText("description", description, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	now := time.Now()
	consultantID := project.ConsultantID
	return &MaintenanceRequest{
		ID:                uuid.New(),
		CustomerID:        actor.UserID,
		ProjectID:         project.ID,
		ConsultantID:      &consultantID,
		Description:       description,
		RequestStatus:     valueobject.RequestPending,
		MaintenanceStatus: valueobject.MaintenanceUnassigned,
		PaymentStatus:     valueobject.PaymentUnpaid,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (m *MaintenanceRequest) IsOwnedBy(userID uuid.UUID) bool {
	return m.CustomerID == userID
}

func (m *MaintenanceRequest) IsAssignedTo(userID uuid.UUID) bool {
	return m.AssignedTo != nil && *m.AssignedTo == userID
}

func (m *MaintenanceRequest) touch() {
	m.UpdatedAt = time.Now()
}

func (m *MaintenanceRequest) authorizeRequest(actor valueobject.Actor, target valueobject.RequestStatus) error {
	return authz.Transition(actor.Role, valueobject.EntityMaintenance, m.RequestStatus, target)
}

// authorizeWork checks the work sub-machine edge and that the request is CONFIRMED.
// A constructor may only move work assigned to them.
func (m *MaintenanceRequest) authorizeWork(actor valueobject.Actor, target valueobject.MaintenanceStatus) error {
	if err := authz.Transition(actor.Role, valueobject.EntityMaintenanceWork, m.MaintenanceStatus, target); err != nil {
		return err
	}
	if m.RequestStatus != valueobject.RequestConfirmed {
		return apperror.Precondition("maintenance work only advances while the request is confirmed")
	}
	if actor.Is(valueobject.RoleConstructor) && !m.IsAssignedTo(actor.UserID) {
		return apperror.Forbidden("maintenance is assigned to someone else")
	}
	return nil
}

func (m *MaintenanceRequest) Confirm(actor valueobject.Actor, agreedPrice *int64) error {
	if err := m.authorizeRequest(actor, valueobject.RequestConfirmed); err != nil {
		return err
	}
	if agreedPrice != nil && *agreedPrice < 0 {
		return apperror.Validation("agreed price cannot be negative")
	}

	if agreedPrice != nil {
		price := *agreedPrice
		m.AgreedPrice = &price
	}
	if actor.Is(valueobject.RoleConsultant) {
		consultantID := actor.UserID
		m.ConsultantID = &consultantID
	}
	m.RequestStatus = valueobject.RequestConfirmed
	m.touch()
	return nil
}

// Reject is the staff side of declining a pending request; the reason is optional.
func (m *MaintenanceRequest) Reject(actor valueobject.Actor, reason string) error {
	if err := m.authorizeRequest(actor, valueobject.RequestCancelled); err != nil {
		return err
	}
	if !actor.Role.IsStaff() {
		return apperror.Forbidden("only staff can reject a maintenance request")
	}
	m.close(reason)
	return nil
}

func (m *MaintenanceRequest) Cancel(actor valueobject.Actor, reason string) error {
	if err := m.authorizeRequest(actor, valueobject.RequestCancelled); err != nil {
		return err
	}
	if actor.Is(valueobject.RoleCustomer) && !m.IsOwnedBy(actor.UserID) {
		return apperror.Forbidden("only the requesting customer can cancel")
	}
	if strings.TrimSpace(reason) == "" {
		return apperror.Validation("cancellation reason is required")
	}
	m.close(reason)
	return nil
}

func (m *MaintenanceRequest) close(reason string) {
	if reason = strings.TrimSpace(reason); reason != "" {
		m.CancellationReason = &reason
	}
	m.RequestStatus = valueobject.RequestCancelled
	m.touch()
}

func (m *MaintenanceRequest) AssignStaff(actor valueobject.Actor, staffID uuid.UUID) error {
	if err := m.authorizeWork(actor, valueobject.MaintenanceAssigned); err != nil {
		return err
	}
	if staffID == uuid.Nil {
		return apperror.Validation("staff id is required")
	}
	m.AssignedTo = &staffID
	m.MaintenanceStatus = valueobject.MaintenanceAssigned
	m.touch()
	return nil
}

func (m *MaintenanceRequest) Schedule(actor valueobject.Actor, date time.Time) error {
	if err := m.authorizeWork(actor, valueobject.MaintenanceScheduled); err != nil {
		return err
	}
	if date.IsZero() {
		return apperror.Validation("scheduled date is required")
	}
	m.ScheduledDate = &date
	m.MaintenanceStatus = valueobject.MaintenanceScheduled
	m.touch()
	return nil
}

func (m *MaintenanceRequest) Start(actor valueobject.Actor) error {
	if err := m.authorizeWork(actor, valueobject.MaintenanceInProgress); err != nil {
		return err
	}
	now := time.Now()
	m.StartDate = &now
	m.MaintenanceStatus = valueobject.MaintenanceInProgress
	m.touch()
	return nil
}

// Complete finishes the work and closes the request in one step. Both
// machines must allow the move before anything changes.
func (m *MaintenanceRequest) Complete(actor valueobject.Actor, notes string, images []string) error {
	if err := m.authorizeWork(actor, valueobject.MaintenanceCompleted); err != nil {
		return err
	}
	if err := m.authorizeRequest(actor, valueobject.RequestCompleted); err != nil {
		return err
	}
	notes = strings.TrimSpace(notes)
	if err := validation.ValidateRequiredText("maintenance notes", notes, validation.MaxNotesLength); err != nil {
		return apperror.Validation(err.Error())
	}
	if err := validation.ImageRefs(images); err != nil {
		return apperror.Validation(err.Error())
	}

	now := time.Now()
	m.MaintenanceNotes = &notes
	m.MaintenanceImages = append([]string(nil), images...)
	m.CompletionDate = &now
	m.MaintenanceStatus = valueobject.MaintenanceCompleted
	m.RequestStatus = valueobject.RequestCompleted
	m.touch()
	return nil
}

// ApplyPayment advances the payment sub-machine. The deposit needs a
// confirmed request; the final payment needs the work completed.
func (m *MaintenanceRequest) ApplyPayment(actor valueobject.Actor, kind valueobject.AmountKind) error {
	target := kind.Target()
	if err := authz.Transition(actor.Role, valueobject.EntityPayment, m.PaymentStatus, target); err != nil {
		return err
	}
	switch {
	case m.RequestStatus == valueobject.RequestCancelled:
		return apperror.Precondition("maintenance request is cancelled")
	case m.RequestStatus == valueobject.RequestPending:
		return apperror.Precondition("maintenance request must be confirmed before payment")
	case target.IsFullyPaid() && m.MaintenanceStatus != valueobject.MaintenanceCompleted:
		return apperror.Precondition("maintenance must be completed before final payment")
	}
	m.PaymentStatus = target
	m.touch()
	return nil
}

func (m *MaintenanceRequest) MarkDepositPaid(actor valueobject.Actor) error {
	return m.ApplyPayment(actor, valueobject.AmountDeposit)
}

func (m *MaintenanceRequest) MarkFullyPaid(actor valueobject.Actor) error {
	return m.ApplyPayment(actor, valueobject.AmountFinal)
}

// Reviewable reports whether the customer may now leave a review.
func (m *MaintenanceRequest) Reviewable() bool {
	return m.RequestStatus == valueobject.RequestCompleted && m.PaymentStatus.IsFullyPaid()
}
