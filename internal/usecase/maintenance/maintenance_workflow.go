package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/usecase"
)

// WorkflowUseCase handles both the request machine and the work machine.
type WorkflowUseCase struct {
	maintenance repository.MaintenanceRepository
	projects    repository.ProjectRepository
	events      event.Publisher
}

func NewWorkflowUseCase(
	maintenance repository.MaintenanceRepository,
	projects repository.ProjectRepository,
	events event.Publisher,
) *WorkflowUseCase {
	return &WorkflowUseCase{maintenance: maintenance, projects: projects, events: events}
}

// status renders both machines, e.g. "CONFIRMED/SCHEDULED".
func status(m *entity.MaintenanceRequest) string {
	return string(m.RequestStatus) + "/" + string(m.MaintenanceStatus)
}

func (uc *WorkflowUseCase) mutate(
	ctx context.Context,
	actor valueobject.Actor,
	id uuid.UUID,
	fn func(*entity.MaintenanceRequest) error,
) (*entity.MaintenanceRequest, error) {
	var previous string

	m, err := usecase.Mutate(ctx, id, uc.maintenance.FindByID, uc.maintenance.Update,
		func(m *entity.MaintenanceRequest) error {
			previous = status(m)
			if err := usecase.ProjectNotCancelled(ctx, uc.projects, m.ProjectID); err != nil {
				return err
			}
			return fn(m)
		})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(event.MaintenanceStatusChanged, valueobject.EntityMaintenance, m.ID, actor).
		Moved(previous, status(m)).
		To(&m.CustomerID, m.ConsultantID, m.AssignedTo))

	return m, nil
}

func (uc *WorkflowUseCase) Confirm(ctx context.Context, actor valueobject.Actor, id uuid.UUID, agreedPrice *int64) (*entity.MaintenanceRequest, error) {
	return uc.mutate(ctx, actor, id, func(m *entity.MaintenanceRequest) error {
		return m.Confirm(actor, agreedPrice)
	})
}

func (uc *WorkflowUseCase) Reject(ctx context.Context, actor valueobject.Actor, id uuid.UUID, reason string) (*entity.MaintenanceRequest, error) {
	return uc.mutate(ctx, actor, id, func(m *entity.MaintenanceRequest) error {
		return m.Reject(actor, reason)
	})
}

func (uc *WorkflowUseCase) Cancel(ctx context.Context, actor valueobject.Actor, id uuid.UUID, reason string) (*entity.MaintenanceRequest, error) {
	return uc.mutate(ctx, actor, id, func(m *entity.MaintenanceRequest) error {
		return m.Cancel(actor, reason)
	})
}

func (uc *WorkflowUseCase) AssignStaff(ctx context.Context, actor valueobject.Actor, id, staffID uuid.UUID) (*entity.MaintenanceRequest, error) {
	return uc.mutate(ctx, actor, id, func(m *entity.MaintenanceRequest) error {
		return m.AssignStaff(actor, staffID)
	})
}

func (uc *WorkflowUseCase) Schedule(ctx context.Context, actor valueobject.Actor, id uuid.UUID, date time.Time) (*entity.MaintenanceRequest, error) {
	return uc.mutate(ctx, actor, id, func(m *entity.MaintenanceRequest) error {
		return m.Schedule(actor, date)
	})
}

func (uc *WorkflowUseCase) Start(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.MaintenanceRequest, error) {
	return uc.mutate(ctx, actor, id, func(m *entity.MaintenanceRequest) error {
		return m.Start(actor)
	})
}

func (uc *WorkflowUseCase) Complete(ctx context.Context, actor valueobject.Actor, id uuid.UUID, notes string, images []string) (*entity.MaintenanceRequest, error) {
	return uc.mutate(ctx, actor, id, func(m *entity.MaintenanceRequest) error {
		return m.Complete(actor, notes, images)
	})
}
