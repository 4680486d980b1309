package design

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// CreateDesignRequestUseCase opens the design request for a consultation
// that proceeded to design. It is idempotent per consultation.
type CreateDesignRequestUseCase struct {
	consultations  repository.ConsultationRepository
	designRequests repository.DesignRequestRepository
	events         event.Publisher
}

func NewCreateDesignRequestUseCase(
	consultations repository.ConsultationRepository,
	designRequests repository.DesignRequestRepository,
	events event.Publisher,
) *CreateDesignRequestUseCase {
	return &CreateDesignRequestUseCase{consultations: consultations, designRequests: designRequests, events: events}
}

func (uc *CreateDesignRequestUseCase) Execute(ctx context.Context, actor valueobject.Actor, consultationID uuid.UUID) (*entity.DesignRequest, error) {
	existing, err := uc.designRequests.FindByConsultationID(ctx, consultationID)
	switch {
	case err == nil:
		return existing, nil
	case !apperror.IsNotFound(err):
		return nil, err
	}

	c, err := uc.consultations.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	dr, err := entity.NewDesignRequest(actor, c)
	if err != nil {
		return nil, err
	}

	if err := uc.designRequests.Create(ctx, dr); err != nil {
		if apperror.IsConflict(err) {
			// Lost a race with another creator; hand back the winner.
			return uc.designRequests.FindByConsultationID(ctx, consultationID)
		}
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to create design request")
	}

	uc.events.Publish(ctx, event.New(event.DesignRequestCreated, valueobject.EntityDesignRequest, dr.ID, actor).
		Moved("", string(dr.Status)).
		To(&dr.CustomerID, dr.ConsultantID))

	return dr, nil
}

// OnProceedDesign is the event handler that creates the design request on
// behalf of the consultant who moved the consultation.
func (uc *CreateDesignRequestUseCase) OnProceedDesign(ctx context.Context, e event.Event) error {
	_, err := uc.Execute(ctx, e.Actor, e.EntityID)
	return err
}
