package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase"
)

type CreateProjectInput struct {
	Actor valueobject.Actor
	// Exactly one of DesignRequestID and ConsultationID is set.
	DesignRequestID *uuid.UUID
	ConsultationID  *uuid.UUID
	Name            string
	Description     string
	TotalPrice      int64
	DepositAmount   int64
	StartDate       *time.Time
	EndDate         *time.Time
}

type CreateProjectUseCase struct {
	projects       repository.ProjectRepository
	consultations  repository.ConsultationRepository
	designRequests repository.DesignRequestRepository
	events         event.Publisher
	policy         usecase.Policy
}

func NewCreateProjectUseCase(
	projects repository.ProjectRepository,
	consultations repository.ConsultationRepository,
	designRequests repository.DesignRequestRepository,
	events event.Publisher,
	policy usecase.Policy,
) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		projects:       projects,
		consultations:  consultations,
		designRequests: designRequests,
		events:         events,
		policy:         policy,
	}
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*entity.Project, error) {
	source, err := uc.loadSource(ctx, input)
	if err != nil {
		return nil, err
	}

	p, err := entity.NewProject(input.Actor, source, entity.NewProjectParams{
		Name:          input.Name,
		Description:   input.Description,
		TotalPrice:    input.TotalPrice,
		DepositAmount: input.DepositAmount,
		MinDeposit:    uc.policy.MinDeposit,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.projects.Create(ctx, p); err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to create project")
	}

	uc.events.Publish(ctx, event.New(event.ProjectCreated, valueobject.EntityProject, p.ID, input.Actor).
		Moved("", string(p.Status)).
		To(&p.CustomerID, &p.ConsultantID))

	return p, nil
}

// loadSource reads the upstream entity fresh for this call.
func (uc *CreateProjectUseCase) loadSource(ctx context.Context, input CreateProjectInput) (entity.ProjectSource, error) {
	switch {
	case input.DesignRequestID != nil && input.ConsultationID != nil:
		return nil, apperror.Validation("reference either a design request or a consultation, not both")
	case input.DesignRequestID != nil:
		dr, err := uc.designRequests.FindByID(ctx, *input.DesignRequestID)
		if err != nil {
			return nil, err
		}
		return entity.FromDesignRequest{Request: dr}, nil
	case input.ConsultationID != nil:
		c, err := uc.consultations.FindByID(ctx, *input.ConsultationID)
		if err != nil {
			return nil, err
		}
		return entity.FromConsultation{Consultation: c}, nil
	}
	return nil, apperror.Validation("a design request or consultation is required")
}
