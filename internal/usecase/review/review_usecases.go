package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type CreateReviewInput struct {
	Actor                valueobject.Actor
	ProjectID            *uuid.UUID
	MaintenanceRequestID *uuid.UUID
	Rating               int
	Comment              string
}

type CreateReviewUseCase struct {
	reviews     repository.ReviewRepository
	projects    repository.ProjectRepository
	maintenance repository.MaintenanceRepository
	events      event.Publisher
}

func NewCreateReviewUseCase(
	reviews repository.ReviewRepository,
	projects repository.ProjectRepository,
	maintenance repository.MaintenanceRepository,
	events event.Publisher,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{reviews: reviews, projects: projects, maintenance: maintenance, events: events}
}

func (uc *CreateReviewUseCase) Execute(ctx context.Context, input CreateReviewInput) (*entity.Review, error) {
	var target entity.ReviewTarget
	var kind valueobject.EntityKind

	switch {
	case input.ProjectID != nil && input.MaintenanceRequestID != nil:
		return nil, apperror.Validation("review either a project or a maintenance request, not both")
	case input.ProjectID != nil:
		p, err := uc.projects.FindByID(ctx, *input.ProjectID)
		if err != nil {
			return nil, err
		}
		target, kind = entity.ProjectReviewTarget{Project: p}, valueobject.EntityProject
	case input.MaintenanceRequestID != nil:
		m, err := uc.maintenance.FindByID(ctx, *input.MaintenanceRequestID)
		if err != nil {
			return nil, err
		}
		target, kind = entity.MaintenanceReviewTarget{Request: m}, valueobject.EntityMaintenance
	}

	r, err := entity.NewReview(input.Actor, target, input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}
	if err := uc.reviews.Create(ctx, r); err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to save review")
	}

	uc.events.Publish(ctx, event.New(event.ReviewCreated, kind, r.TargetID(), input.Actor))

	return r, nil
}

type ListReviewsUseCase struct {
	reviews repository.ReviewRepository
}

func NewListReviewsUseCase(reviews repository.ReviewRepository) *ListReviewsUseCase {
	return &ListReviewsUseCase{reviews: reviews}
}

func (uc *ListReviewsUseCase) Execute(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, error) {
	items, err := uc.reviews.List(ctx, filter)
	if err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to list reviews")
	}
	return items, nil
}
