package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase"
)

type ApplyPaymentInput struct {
	Actor      valueobject.Actor
	EntityKind valueobject.EntityKind
	EntityID   uuid.UUID
	AmountKind valueobject.AmountKind
}

// Result reports the payment status after the call.
type Result struct {
	EntityKind     valueobject.EntityKind
	EntityID       uuid.UUID
	PreviousStatus valueobject.PaymentStatus
	Status         valueobject.PaymentStatus
}

// ApplyPaymentUseCase advances the payment sub-machine of a project or a
// maintenance request. It validates the transition only; money movement
// belongs to the gateway.
type ApplyPaymentUseCase struct {
	projects    repository.ProjectRepository
	maintenance repository.MaintenanceRepository
	events      event.Publisher
}

func NewApplyPaymentUseCase(
	projects repository.ProjectRepository,
	maintenance repository.MaintenanceRepository,
	events event.Publisher,
) *ApplyPaymentUseCase {
	return &ApplyPaymentUseCase{projects: projects, maintenance: maintenance, events: events}
}

func (uc *ApplyPaymentUseCase) Execute(ctx context.Context, input ApplyPaymentInput) (*Result, error) {
	res := &Result{EntityKind: input.EntityKind, EntityID: input.EntityID}
	var to []*uuid.UUID

	switch input.EntityKind {
	case valueobject.EntityProject:
		p, err := usecase.Mutate(ctx, input.EntityID, uc.projects.FindByID, uc.projects.Update,
			func(p *entity.Project) error {
				res.PreviousStatus = p.PaymentStatus
				return p.ApplyPayment(input.Actor, input.AmountKind)
			})
		if err != nil {
			return nil, err
		}
		res.Status = p.PaymentStatus
		to = []*uuid.UUID{&p.CustomerID, &p.ConsultantID}
	case valueobject.EntityMaintenance:
		m, err := usecase.Mutate(ctx, input.EntityID, uc.maintenance.FindByID, uc.maintenance.Update,
			func(m *entity.MaintenanceRequest) error {
				res.PreviousStatus = m.PaymentStatus
				if err := usecase.ProjectNotCancelled(ctx, uc.projects, m.ProjectID); err != nil {
					return err
				}
				return m.ApplyPayment(input.Actor, input.AmountKind)
			})
		if err != nil {
			return nil, err
		}
		res.Status = m.PaymentStatus
		to = []*uuid.UUID{&m.CustomerID, m.ConsultantID}
	default:
		return nil, apperror.Newf(apperror.ErrCodeValidation, "%s has no payment status", input.EntityKind)
	}

	uc.events.Publish(ctx, event.New(event.PaymentStatusChanged, input.EntityKind, input.EntityID, input.Actor).
		Moved(string(res.PreviousStatus), string(res.Status)).
		To(to...))

	return res, nil
}

// OnPaymentConfirmed handles a verified gateway callback.
func (uc *ApplyPaymentUseCase) OnPaymentConfirmed(ctx context.Context, kind valueobject.EntityKind, id uuid.UUID, amount valueobject.AmountKind) (*Result, error) {
	return uc.Execute(ctx, ApplyPaymentInput{
		Actor:      valueobject.SystemActor(),
		EntityKind: kind,
		EntityID:   id,
		AmountKind: amount,
	})
}
