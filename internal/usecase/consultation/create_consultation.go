package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type CreateConsultationInput struct {
	Actor valueobject.Actor
	// DesignID selects the existing-design path; leave nil with Custom set for the custom path.
	DesignID *uuid.UUID
	Custom   *entity.CustomDesignSource
	Notes    string
}

type CreateConsultationUseCase struct {
	consultations repository.ConsultationRepository
	designs       repository.DesignRepository
	events        event.Publisher
}

func NewCreateConsultationUseCase(
	consultations repository.ConsultationRepository,
	designs repository.DesignRepository,
	events event.Publisher,
) *CreateConsultationUseCase {
	return &CreateConsultationUseCase{consultations: consultations, designs: designs, events: events}
}

func (uc *CreateConsultationUseCase) Execute(ctx context.Context, input CreateConsultationInput) (*entity.ConsultationRequest, error) {
	var source entity.ConsultationSource
	switch {
	case input.DesignID != nil && input.Custom != nil:
		return nil, apperror.Validation("choose either an existing design or a custom design, not both")
	case input.DesignID != nil:
		source = entity.ExistingDesignSource{DesignID: *input.DesignID}
	case input.Custom != nil:
		source = *input.Custom
	}

	c, err := entity.NewConsultationRequest(input.Actor, source, input.Notes)
	if err != nil {
		return nil, err
	}

	if c.DesignID != nil {
		design, err := uc.designs.FindByID(ctx, *c.DesignID)
		if err != nil {
			return nil, err
		}
		if design.IsDeleted() {
			return nil, apperror.ErrDesignNotFound
		}
	}

	if err := uc.consultations.Create(ctx, c); err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to create consultation request")
	}

	uc.events.Publish(ctx, event.New(event.ConsultationCreated, valueobject.EntityConsultation, c.ID, input.Actor).
		Moved("", string(c.Status)).
		To(&c.CustomerID))

	return c, nil
}
