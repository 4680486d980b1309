package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type QueryUseCase struct {
	projects repository.ProjectRepository
}

func NewQueryUseCase(projects repository.ProjectRepository) *QueryUseCase {
	return &QueryUseCase{projects: projects}
}

func (uc *QueryUseCase) Get(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.Project, error) {
	p, err := uc.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, p) {
		return nil, apperror.ErrForbidden
	}
	return p, nil
}

// List scopes customers and constructors to their own projects.
func (uc *QueryUseCase) List(ctx context.Context, actor valueobject.Actor, filter repository.ProjectFilter) ([]*entity.Project, error) {
	switch actor.Role {
	case valueobject.RoleCustomer:
		filter.CustomerID = &actor.UserID
	case valueobject.RoleConstructor:
		filter.ConstructorID = &actor.UserID
	}
	items, err := uc.projects.List(ctx, filter)
	if err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to list projects")
	}
	return items, nil
}

func canView(actor valueobject.Actor, p *entity.Project) bool {
	switch actor.Role {
	case valueobject.RoleCustomer:
		return p.IsOwnedBy(actor.UserID)
	case valueobject.RoleConstructor:
		return p.IsConstructor(actor.UserID)
	}
	return true
}
