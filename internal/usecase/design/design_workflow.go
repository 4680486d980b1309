package design

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase"
	"github.com/koicare/pondflow/internal/validation"
)

// WorkflowUseCase drives a design request through assignment, submission
// and the two review rounds.
type WorkflowUseCase struct {
	designRequests repository.DesignRequestRepository
	events         event.Publisher
	policy         usecase.Policy
}

func NewWorkflowUseCase(
	designRequests repository.DesignRequestRepository,
	events event.Publisher,
	policy usecase.Policy,
) *WorkflowUseCase {
	return &WorkflowUseCase{designRequests: designRequests, events: events, policy: policy}
}

func (uc *WorkflowUseCase) mutate(
	ctx context.Context,
	actor valueobject.Actor,
	id uuid.UUID,
	fn func(*entity.DesignRequest) error,
) (*entity.DesignRequest, error) {
	return uc.mutateWith(ctx, actor, id, uc.designRequests.Update, fn)
}

func (uc *WorkflowUseCase) mutateWith(
	ctx context.Context,
	actor valueobject.Actor,
	id uuid.UUID,
	save func(context.Context, *entity.DesignRequest, int64) error,
	fn func(*entity.DesignRequest) error,
) (*entity.DesignRequest, error) {
	var previous valueobject.DesignRequestStatus

	dr, err := usecase.Mutate(ctx, id, uc.designRequests.FindByID, save,
		func(dr *entity.DesignRequest) error {
			previous = dr.Status
			return fn(dr)
		})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(event.DesignRequestStatusChanged, valueobject.EntityDesignRequest, dr.ID, actor).
		Moved(string(previous), string(dr.Status)).
		To(&dr.CustomerID, dr.ConsultantID, dr.DesignerID))

	return dr, nil
}

func (uc *WorkflowUseCase) Assign(ctx context.Context, actor valueobject.Actor, id, designerID uuid.UUID) (*entity.DesignRequest, error) {
	return uc.mutate(ctx, actor, id, func(dr *entity.DesignRequest) error {
		return dr.Assign(actor, designerID)
	})
}

func (uc *WorkflowUseCase) StartWork(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.DesignRequest, error) {
	return uc.mutate(ctx, actor, id, func(dr *entity.DesignRequest) error {
		return dr.StartWork(actor)
	})
}

type SubmitDesignInput struct {
	Name        string
	Description string
	ImageURLs   []string
}

// SubmitDesign stores the artifact and links it to the request in a single
// write. A lost version race leaves no orphaned artifact behind.
func (uc *WorkflowUseCase) SubmitDesign(ctx context.Context, actor valueobject.Actor, id uuid.UUID, input SubmitDesignInput) (*entity.DesignRequest, error) {
	if err := validation.ImageRefs(input.ImageURLs); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	artifact, err := entity.NewPondDesign(actor.UserID, input.Name, input.Description, input.ImageURLs)
	if err != nil {
		return nil, err
	}

	save := func(ctx context.Context, dr *entity.DesignRequest, version int64) error {
		return uc.designRequests.SubmitDesign(ctx, dr, artifact, version)
	}
	return uc.mutateWith(ctx, actor, id, save, func(dr *entity.DesignRequest) error {
		return dr.SubmitDesign(actor, artifact.ID, uc.policy.MaxRevisions)
	})
}

func (uc *WorkflowUseCase) ConsultantReview(ctx context.Context, actor valueobject.Actor, id uuid.UUID, approved bool, note string) (*entity.DesignRequest, error) {
	return uc.mutate(ctx, actor, id, func(dr *entity.DesignRequest) error {
		return dr.ConsultantReview(actor, approved, note, uc.policy.MaxRevisions)
	})
}

func (uc *WorkflowUseCase) CustomerApproval(ctx context.Context, actor valueobject.Actor, id uuid.UUID, approved bool, reason string) (*entity.DesignRequest, error) {
	return uc.mutate(ctx, actor, id, func(dr *entity.DesignRequest) error {
		return dr.CustomerApproval(actor, approved, reason)
	})
}
