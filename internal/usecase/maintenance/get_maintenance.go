package maintenance

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type QueryUseCase struct {
	maintenance repository.MaintenanceRepository
}

func NewQueryUseCase(maintenance repository.MaintenanceRepository) *QueryUseCase {
	return &QueryUseCase{maintenance: maintenance}
}

func (uc *QueryUseCase) Get(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.MaintenanceRequest, error) {
	m, err := uc.maintenance.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(valueobject.RoleCustomer) && !m.IsOwnedBy(actor.UserID) {
		return nil, apperror.ErrForbidden
	}
	return m, nil
}

func (uc *QueryUseCase) List(ctx context.Context, actor valueobject.Actor, filter repository.MaintenanceFilter) ([]*entity.MaintenanceRequest, error) {
	switch actor.Role {
	case valueobject.RoleCustomer:
		filter.CustomerID = &actor.UserID
	case valueobject.RoleConstructor:
		filter.AssignedTo = &actor.UserID
	}
	items, err := uc.maintenance.List(ctx, filter)
	if err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to list maintenance requests")
	}
	return items, nil
}
