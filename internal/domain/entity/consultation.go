package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/authz"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// ConsultationSource is what the customer is asking about: a catalog design
// or a custom design. Exactly one variant is ever attached to a request.
type ConsultationSource interface {
	consultationSource()
}

type ExistingDesignSource struct {
	DesignID uuid.UUID
}

type CustomDesignSource struct {
	PreferredStyle string
	Dimensions     string
	Requirements   string
	Budget         *int64
}

func (ExistingDesignSource) consultationSource() {}
func (CustomDesignSource) consultationSource()   {}

type ConsultationRequest struct {
	ID                 uuid.UUID
	CustomerID         uuid.UUID
	DesignID           *uuid.UUID
	CustomDesign       bool
	PreferredStyle     string
	Dimensions         string
	Requirements       string
	Budget             *int64
	Notes              string
	Status             valueobject.ConsultationStatus
	ConsultantID       *uuid.UUID
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Versioned
}

func NewConsultationRequest(actor valueobject.Actor, source ConsultationSource, notes string) (*ConsultationRequest, error) {
	if err := authz.Perform(actor.Role, valueobject.EntityConsultation, authz.ActionCreate); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &ConsultationRequest{
		ID:         uuid.New(),
		CustomerID: actor.UserID,
		Notes:      strings.TrimSpace(notes),
		Status:     valueobject.ConsultationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch src := source.(type) {
	case ExistingDesignSource:
		if src.DesignID == uuid.Nil {
			return nil, apperror.Validation("design id is required for an existing design consultation")
		}
		designID := src.DesignID
		c.DesignID = &designID
	case *ExistingDesignSource:
		if src == nil {
			return nil, apperror.Validation("a design reference or custom design details are required")
		}
		return NewConsultationRequest(actor, *src, notes)
	case CustomDesignSource:
		if src.Budget != nil && *src.Budget < 0 {
			return nil, apperror.Validation("budget cannot be negative")
		}
		c.CustomDesign = true
		c.PreferredStyle = strings.TrimSpace(src.PreferredStyle)
		c.Dimensions = strings.TrimSpace(src.Dimensions)
		c.Requirements = strings.TrimSpace(src.Requirements)
		c.Budget = src.Budget
	case *CustomDesignSource:
		if src == nil {
			return nil, apperror.Validation("a design reference or custom design details are required")
		}
		return NewConsultationRequest(actor, *src, notes)
	default:
		return nil, apperror.Validation("a design reference or custom design details are required")
	}

	return c, nil
}

// Source rebuilds the tagged variant from the stored columns.
func (c *ConsultationRequest) Source() ConsultationSource {
	if c.DesignID != nil {
		return ExistingDesignSource{DesignID: *c.DesignID}
	}
	return CustomDesignSource{
		PreferredStyle: c.PreferredStyle,
		Dimensions:     c.Dimensions,
		Requirements:   c.Requirements,
		Budget:         c.Budget,
	}
}

// Validate checks that exactly one of the design reference and the custom flag is set.
func (c *ConsultationRequest) Validate() error {
	if (c.DesignID != nil) == c.CustomDesign {
		return apperror.Validation("exactly one of design id and custom design must be set")
	}
	return nil
}

func (c *ConsultationRequest) IsCustomDesign() bool {
	return c.CustomDesign
}

func (c *ConsultationRequest) IsOwnedBy(userID uuid.UUID) bool {
	return c.CustomerID == userID
}

// Transition moves the request to target on behalf of actor. Cancellation goes through Cancel.
func (c *ConsultationRequest) Transition(actor valueobject.Actor, target valueobject.ConsultationStatus) error {
	if err := authz.Transition(actor.Role, valueobject.EntityConsultation, c.Status, target); err != nil {
		return err
	}
	if actor.Is(valueobject.RoleConsultant) && c.ConsultantID != nil && *c.ConsultantID != actor.UserID {
		return apperror.Forbidden("consultation is handled by another consultant")
	}

	switch target {
	case valueobject.ConsultationInProgress:
		consultantID := actor.UserID
		c.ConsultantID = &consultantID
	case valueobject.ConsultationProceedDesign:
		if !c.CustomDesign {
			return apperror.Precondition("only custom design consultations proceed to design")
		}
	case valueobject.ConsultationCompleted:
		if c.Status == valueobject.ConsultationInProgress && c.CustomDesign {
			return apperror.Precondition("custom design consultations complete after the design is approved")
		}
	case valueobject.ConsultationCancelled:
		return apperror.Validation("use cancel to cancel a consultation")
	}

	c.Status = target
	c.UpdatedAt = time.Now()
	return nil
}

func (c *ConsultationRequest) Cancel(actor valueobject.Actor, reason string) error {
	if err := authz.Transition(actor.Role, valueobject.EntityConsultation, c.Status, valueobject.ConsultationCancelled); err != nil {
		return err
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		c.CancellationReason = &reason
	}
	c.Status = valueobject.ConsultationCancelled
	c.UpdatedAt = time.Now()
	return nil
}
