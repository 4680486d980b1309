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

// WorkflowUseCase moves a project through construction and closing.
type WorkflowUseCase struct {
	projects repository.ProjectRepository
	events   event.Publisher
	policy   usecase.Policy
}

func NewWorkflowUseCase(projects repository.ProjectRepository, events event.Publisher, policy usecase.Policy) *WorkflowUseCase {
	return &WorkflowUseCase{projects: projects, events: events, policy: policy}
}

func recipients(p *entity.Project) []*uuid.UUID {
	return []*uuid.UUID{&p.CustomerID, &p.ConsultantID, p.ConstructorID}
}

func (uc *WorkflowUseCase) mutate(
	ctx context.Context,
	actor valueobject.Actor,
	id uuid.UUID,
	eventType event.Type,
	fn func(*entity.Project) error,
) (*entity.Project, error) {
	var previous valueobject.ProjectStatus

	p, err := usecase.Mutate(ctx, id, uc.projects.FindByID, uc.projects.Update,
		func(p *entity.Project) error {
			previous = p.Status
			return fn(p)
		})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(eventType, valueobject.EntityProject, p.ID, actor).
		Moved(string(previous), string(p.Status)).
		To(recipients(p)...))

	return p, nil
}

func (uc *WorkflowUseCase) AssignConstructor(ctx context.Context, actor valueobject.Actor, id, constructorID uuid.UUID) (*entity.Project, error) {
	return uc.mutate(ctx, actor, id, event.ProjectConstructorAssigned, func(p *entity.Project) error {
		return p.AssignConstructor(actor, constructorID, uc.policy.TaskTemplate)
	})
}

// UpdateStatus sets a lifecycle status. Cancellation needs a reason;
// technical completion and completion run their own checks.
func (uc *WorkflowUseCase) UpdateStatus(
	ctx context.Context,
	actor valueobject.Actor,
	id uuid.UUID,
	target valueobject.ProjectStatus,
	reason string,
) (*entity.Project, error) {
	return uc.mutate(ctx, actor, id, event.ProjectStatusChanged, func(p *entity.Project) error {
		return p.UpdateStatus(actor, target, reason)
	})
}

func (uc *WorkflowUseCase) Cancel(ctx context.Context, actor valueobject.Actor, id uuid.UUID, reason string) (*entity.Project, error) {
	return uc.mutate(ctx, actor, id, event.ProjectStatusChanged, func(p *entity.Project) error {
		return p.Cancel(actor, reason)
	})
}

func (uc *WorkflowUseCase) MarkTechnicallyCompleted(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.Project, error) {
	return uc.mutate(ctx, actor, id, event.ProjectStatusChanged, func(p *entity.Project) error {
		return p.MarkTechnicallyCompleted(actor)
	})
}

func (uc *WorkflowUseCase) Complete(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.Project, error) {
	return uc.mutate(ctx, actor, id, event.ProjectStatusChanged, func(p *entity.Project) error {
		return p.Complete(actor)
	})
}

type UpdateDetailsInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (uc *WorkflowUseCase) UpdateDetails(ctx context.Context, actor valueobject.Actor, id uuid.UUID, input UpdateDetailsInput) (*entity.Project, error) {
	return usecase.Mutate(ctx, id, uc.projects.FindByID, uc.projects.Update, func(p *entity.Project) error {
		return p.UpdateDetails(actor, input.Name, input.Description, input.StartDate, input.EndDate)
	})
}

// UpdateTask records task progress. The gating check and the write share the
// project's version, so a concurrent update to any task of the project
// turns this call into a CONFLICT.
func (uc *WorkflowUseCase) UpdateTask(ctx context.Context, actor valueobject.Actor, taskID uuid.UUID, percentage int) (*entity.ProjectTask, error) {
	p, err := uc.projects.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	version := p.GetVersion()

	task, err := p.SetTaskProgress(actor, taskID, percentage)
	if err != nil {
		return nil, err
	}
	if err := uc.projects.Update(ctx, p, version); err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to save task progress")
	}

	e := event.New(event.ProjectTaskUpdated, valueobject.EntityProjectTask, task.ID, actor).
		Moved("", string(task.Status)).
		To(recipients(p)...)
	uc.events.Publish(ctx, e)

	return task, nil
}
