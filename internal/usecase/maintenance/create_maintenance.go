package maintenance

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type CreateMaintenanceUseCase struct {
	maintenance repository.MaintenanceRepository
	projects    repository.ProjectRepository
	events      event.Publisher
}

func NewCreateMaintenanceUseCase(
	maintenance repository.MaintenanceRepository,
	projects repository.ProjectRepository,
	events event.Publisher,
) *CreateMaintenanceUseCase {
	return &CreateMaintenanceUseCase{maintenance: maintenance, projects: projects, events: events}
}

func (uc *CreateMaintenanceUseCase) Execute(ctx context.Context, actor valueobject.Actor, projectID uuid.UUID, description string) (*entity.MaintenanceRequest, error) {
	p, err := uc.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	m, err := entity.NewMaintenanceRequest(actor, p, description)
	if err != nil {
		return nil, err
	}
	if err := uc.maintenance.Create(ctx, m); err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to create maintenance request")
	}

	uc.events.Publish(ctx, event.New(event.MaintenanceCreated, valueobject.EntityMaintenance, m.ID, actor).
		Moved("", string(m.RequestStatus)).
		To(&m.CustomerID, m.ConsultantID))

	return m, nil
}
