package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/authz"
	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase"
)

type TransitionConsultationUseCase struct {
	consultations  repository.ConsultationRepository
	designRequests repository.DesignRequestRepository
	events         event.Publisher
}

func NewTransitionConsultationUseCase(
	consultations repository.ConsultationRepository,
	designRequests repository.DesignRequestRepository,
	events event.Publisher,
) *TransitionConsultationUseCase {
	return &TransitionConsultationUseCase{consultations: consultations, designRequests: designRequests, events: events}
}

func (uc *TransitionConsultationUseCase) Execute(
	ctx context.Context,
	actor valueobject.Actor,
	id uuid.UUID,
	target valueobject.ConsultationStatus,
) (*entity.ConsultationRequest, error) {
	var previous valueobject.ConsultationStatus

	c, err := usecase.Mutate(ctx, id, uc.consultations.FindByID, uc.consultations.Update,
		func(c *entity.ConsultationRequest) error {
			previous = c.Status
			if c.Status == valueobject.ConsultationProceedDesign && target == valueobject.ConsultationCompleted {
				if err := uc.requireApprovedDesign(ctx, actor, c); err != nil {
					return err
				}
			}
			return c.Transition(actor, target)
		})
	if err != nil {
		return nil, err
	}

	eventType := event.ConsultationStatusChanged
	if c.Status == valueobject.ConsultationProceedDesign {
		eventType = event.ConsultationProceedDesign
	}
	uc.events.Publish(ctx, event.New(eventType, valueobject.EntityConsultation, c.ID, actor).
		Moved(string(previous), string(c.Status)).
		To(&c.CustomerID))

	return c, nil
}

// requireApprovedDesign re-reads the design request so completion never
// relies on a stale approval.
func (uc *TransitionConsultationUseCase) requireApprovedDesign(ctx context.Context, actor valueobject.Actor, c *entity.ConsultationRequest) error {
	if err := authz.Transition(actor.Role, valueobject.EntityConsultation, c.Status, valueobject.ConsultationCompleted); err != nil {
		return err
	}
	dr, err := uc.designRequests.FindByConsultationID(ctx, c.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.Precondition("consultation has no design request yet")
		}
		return err
	}
	if !dr.IsApproved() {
		return apperror.Precondition("design request must be approved before the consultation completes")
	}
	return nil
}

type CancelConsultationUseCase struct {
	consultations  repository.ConsultationRepository
	designRequests repository.DesignRequestRepository
	events         event.Publisher
	policy         usecase.Policy
}

func NewCancelConsultationUseCase(
	consultations repository.ConsultationRepository,
	designRequests repository.DesignRequestRepository,
	events event.Publisher,
	policy usecase.Policy,
) *CancelConsultationUseCase {
	return &CancelConsultationUseCase{consultations: consultations, designRequests: designRequests, events: events, policy: policy}
}

func (uc *CancelConsultationUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID, reason string) (*entity.ConsultationRequest, error) {
	var previous valueobject.ConsultationStatus

	c, err := usecase.Mutate(ctx, id, uc.consultations.FindByID, uc.consultations.Update,
		func(c *entity.ConsultationRequest) error {
			previous = c.Status
			if c.Status == valueobject.ConsultationProceedDesign {
				if err := uc.requireAbandonedDesign(ctx, c); err != nil {
					return err
				}
			}
			return c.Cancel(actor, reason)
		})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(event.ConsultationStatusChanged, valueobject.EntityConsultation, c.ID, actor).
		Moved(string(previous), string(c.Status)).
		To(&c.CustomerID, c.ConsultantID))

	return c, nil
}

// requireAbandonedDesign allows cancelling a consultation in design only
// once its design request was rejected past the revision cap, or was never
// created.
func (uc *CancelConsultationUseCase) requireAbandonedDesign(ctx context.Context, c *entity.ConsultationRequest) error {
	dr, err := uc.designRequests.FindByConsultationID(ctx, c.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !dr.IsAbandoned(uc.policy.MaxRevisions) {
		return apperror.Precondition("design work is still open for this consultation")
	}
	return nil
}
