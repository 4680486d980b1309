package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/authz"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// DesignRequest tracks a custom design engagement. It references the
// consultation it came from and the design artifact a designer produced,
// but owns neither.
type DesignRequest struct {
	ID              uuid.UUID
	ConsultationID  uuid.UUID
	CustomerID      uuid.UUID
	ConsultantID    *uuid.UUID
	DesignerID      *uuid.UUID
	Status          valueobject.DesignRequestStatus
	DesignID        *uuid.UUID
	ReviewerNotes   *string
	RejectionReason *string
	RevisionCount   int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Versioned
}

// NewDesignRequest converts a consultation that reached PROCEED_DESIGN.
func NewDesignRequest(actor valueobject.Actor, consultation *ConsultationRequest) (*DesignRequest, error) {
	if err := authz.Perform(actor.Role, valueobject.EntityDesignRequest, authz.ActionCreate); err != nil {
		return nil, err
	}
	if consultation.Status != valueobject.ConsultationProceedDesign {
		return nil, apperror.Precondition("consultation has not proceeded to design")
	}

	now := time.Now()
	return &DesignRequest{
		ID:             uuid.New(),
		ConsultationID: consultation.ID,
		CustomerID:     consultation.CustomerID,
		ConsultantID:   consultation.ConsultantID,
		Status:         valueobject.DesignPendingAssignment,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (d *DesignRequest) authorize(actor valueobject.Actor, target valueobject.DesignRequestStatus) error {
	return authz.Transition(actor.Role, valueobject.EntityDesignRequest, d.Status, target)
}

func (d *DesignRequest) moveTo(target valueobject.DesignRequestStatus) error {
	if target.RequiresDesigner() && d.DesignerID == nil {
		return apperror.Precondition("a designer must be assigned first")
	}
	d.Status = target
	d.UpdatedAt = time.Now()
	return nil
}

func (d *DesignRequest) isAssignedDesigner(actor valueobject.Actor) bool {
	return d.DesignerID != nil && *d.DesignerID == actor.UserID
}

func (d *DesignRequest) Assign(actor valueobject.Actor, designerID uuid.UUID) error {
	if err := d.authorize(actor, valueobject.DesignAssigned); err != nil {
		return err
	}
	if designerID == uuid.Nil {
		return apperror.Validation("designer id is required")
	}
	d.DesignerID = &designerID
	return d.moveTo(valueobject.DesignAssigned)
}

func (d *DesignRequest) StartWork(actor valueobject.Actor) error {
	if err := d.authorize(actor, valueobject.DesignInProgress); err != nil {
		return err
	}
	if !d.isAssignedDesigner(actor) {
		return apperror.Forbidden("design request is assigned to another designer")
	}
	return d.moveTo(valueobject.DesignInProgress)
}

// CanResubmit reports whether a rejected request is still within the revision cap.
func (d *DesignRequest) CanResubmit(maxRevisions int) bool {
	return d.Status == valueobject.DesignRejected && d.RevisionCount <= maxRevisions
}

// IsAbandoned is true for a request rejected past the revision cap.
func (d *DesignRequest) IsAbandoned(maxRevisions int) bool {
	return d.Status == valueobject.DesignRejected && d.RevisionCount > maxRevisions
}

// IsClosed is true for APPROVED and for REJECTED past the revision cap.
func (d *DesignRequest) IsClosed(maxRevisions int) bool {
	return d.Status == valueobject.DesignApproved || d.IsAbandoned(maxRevisions)
}

func (d *DesignRequest) SubmitDesign(actor valueobject.Actor, designID uuid.UUID, maxRevisions int) error {
	if err := d.authorize(actor, valueobject.DesignPendingReview); err != nil {
		return err
	}
	if !d.isAssignedDesigner(actor) {
		return apperror.Forbidden("design request is assigned to another designer")
	}
	if d.Status == valueobject.DesignRejected && !d.CanResubmit(maxRevisions) {
		return apperror.Precondition("revision limit reached, the design request is closed")
	}
	if designID == uuid.Nil {
		return apperror.Validation("design artifact is required")
	}

	d.DesignID = &designID
	return d.moveTo(valueobject.DesignPendingReview)
}

func (d *DesignRequest) ConsultantReview(actor valueobject.Actor, approved bool, note string, maxRevisions int) error {
	note = strings.TrimSpace(note)

	if approved {
		if err := d.authorize(actor, valueobject.DesignPendingCustomerApproval); err != nil {
			return err
		}
		if err := d.checkConsultant(actor); err != nil {
			return err
		}
		if note != "" {
			d.ReviewerNotes = &note
		}
		return d.moveTo(valueobject.DesignPendingCustomerApproval)
	}

	target := valueobject.DesignAssigned
	if d.RevisionCount+1 > maxRevisions {
		target = valueobject.DesignRejected
	}
	if err := d.authorize(actor, target); err != nil {
		return err
	}
	if err := d.checkConsultant(actor); err != nil {
		return err
	}
	if note == "" {
		return apperror.Validation("rejection reason is required")
	}

	d.RejectionReason = &note
	d.RevisionCount++
	return d.moveTo(target)
}

func (d *DesignRequest) checkConsultant(actor valueobject.Actor) error {
	if d.ConsultantID != nil && *d.ConsultantID != actor.UserID {
		return apperror.Forbidden("design request is reviewed by another consultant")
	}
	return nil
}

func (d *DesignRequest) CustomerApproval(actor valueobject.Actor, approved bool, reason string) error {
	target := valueobject.DesignApproved
	if !approved {
		target = valueobject.DesignRejected
	}
	if err := d.authorize(actor, target); err != nil {
		return err
	}
	if d.CustomerID != actor.UserID {
		return apperror.Forbidden("only the requesting customer can approve the design")
	}

	if !approved {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return apperror.Validation("rejection reason is required")
		}
		d.RejectionReason = &reason
		d.RevisionCount++
	}
	return d.moveTo(target)
}

func (d *DesignRequest) IsApproved() bool {
	return d.Status == valueobject.DesignApproved
}
