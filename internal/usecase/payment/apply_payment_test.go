package payment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/infrastructure/memstore"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase"
	"github.com/koicare/pondflow/internal/usecase/payment"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e event.Event) {
	m.Called(ctx, e)
}

func seedProject(t *testing.T, store repository.Store, status valueobject.ProjectStatus, paid valueobject.PaymentStatus) *entity.Project {
	t.Helper()
	constructorID := uuid.New()
	p := &entity.Project{
		ID:             uuid.New(),
		ConsultationID: uuid.New(),
		Name:           "Pond",
		CustomerID:     uuid.New(),
		ConsultantID:   uuid.New(),
		ConstructorID:  &constructorID,
		Status:         status,
		PaymentStatus:  paid,
	}
	require.NoError(t, store.Projects.Create(context.Background(), p))
	return p
}

func seedMaintenance(t *testing.T, store repository.Store, p *entity.Project) *entity.MaintenanceRequest {
	t.Helper()
	m := &entity.MaintenanceRequest{
		ID:                uuid.New(),
		CustomerID:        p.CustomerID,
		ProjectID:         p.ID,
		ConsultantID:      &p.ConsultantID,
		RequestStatus:     valueobject.RequestConfirmed,
		MaintenanceStatus: valueobject.MaintenanceScheduled,
		PaymentStatus:     valueobject.PaymentUnpaid,
	}
	require.NoError(t, store.Maintenance.Create(context.Background(), m))
	return m
}

func TestApplyPayment_DepositThenFinal(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	p := seedProject(t, store, valueobject.ProjectTechnicallyCompleted, valueobject.PaymentUnpaid)

	events := new(MockPublisher)
	events.On("Publish", ctx, mock.MatchedBy(func(e event.Event) bool {
		return e.Type == event.PaymentStatusChanged && e.EntityID == p.ID && len(e.Recipients) == 2
	})).Times(2)

	uc := payment.NewApplyPaymentUseCase(store.Projects, store.Maintenance, events)

	res, err := uc.OnPaymentConfirmed(ctx, valueobject.EntityProject, p.ID, valueobject.AmountDeposit)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentDepositPaid, res.Status)

	res, err = uc.OnPaymentConfirmed(ctx, valueobject.EntityProject, p.ID, valueobject.AmountFinal)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentDepositPaid, res.PreviousStatus)
	assert.Equal(t, valueobject.PaymentFullyPaid, res.Status)

	events.AssertExpectations(t)
}

func TestApplyPayment_ReplayedCallbackIsRejected(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	p := seedProject(t, store, valueobject.ProjectInProgress, valueobject.PaymentDepositPaid)

	events := new(MockPublisher)
	uc := payment.NewApplyPaymentUseCase(store.Projects, store.Maintenance, events)

	_, err := uc.OnPaymentConfirmed(ctx, valueobject.EntityProject, p.ID, valueobject.AmountDeposit)
	assert.True(t, apperror.IsPreconditionFailed(err))

	stored, err := store.Projects.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentDepositPaid, stored.PaymentStatus)
	assert.Equal(t, int64(1), stored.GetVersion())
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestApplyPayment_Errors(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	uc := payment.NewApplyPaymentUseCase(store.Projects, store.Maintenance, event.Nop{})
	p := seedProject(t, store, valueobject.ProjectInProgress, valueobject.PaymentUnpaid)

	_, err := uc.Execute(ctx, payment.ApplyPaymentInput{
		Actor:      valueobject.SystemActor(),
		EntityKind: valueobject.EntityConsultation,
		EntityID:   uuid.New(),
		AmountKind: valueobject.AmountDeposit,
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.OnPaymentConfirmed(ctx, valueobject.EntityMaintenance, uuid.New(), valueobject.AmountDeposit)
	assert.True(t, apperror.IsNotFound(err))

	_, err = uc.Execute(ctx, payment.ApplyPaymentInput{
		Actor:      valueobject.NewActor(uuid.New(), valueobject.RoleConsultant),
		EntityKind: valueobject.EntityProject,
		EntityID:   p.ID,
		AmountKind: valueobject.AmountDeposit,
	})
	assert.True(t, apperror.IsForbidden(err), "only managers and the gateway record payments")

	_, err = uc.OnPaymentConfirmed(ctx, valueobject.EntityProject, p.ID, valueobject.AmountFinal)
	assert.True(t, apperror.IsPreconditionFailed(err))
}

func TestApplyPayment_Maintenance(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	p := seedProject(t, store, valueobject.ProjectCompleted, valueobject.PaymentFullyPaid)
	m := seedMaintenance(t, store, p)
	uc := payment.NewApplyPaymentUseCase(store.Projects, store.Maintenance, event.Nop{})

	res, err := uc.OnPaymentConfirmed(ctx, valueobject.EntityMaintenance, m.ID, valueobject.AmountDeposit)
	require.NoError(t, err)
	assert.Equal(t, valueobject.EntityMaintenance, res.EntityKind)
	assert.Equal(t, valueobject.PaymentDepositPaid, res.Status)

	_, err = uc.OnPaymentConfirmed(ctx, valueobject.EntityMaintenance, m.ID, valueobject.AmountFinal)
	assert.True(t, apperror.IsPreconditionFailed(err))
}

func TestApplyPayment_MaintenanceOfCancelledProject(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	p := seedProject(t, store, valueobject.ProjectTechnicallyCompleted, valueobject.PaymentFullyPaid)
	m := seedMaintenance(t, store, p)

	manager := valueobject.NewActor(uuid.New(), valueobject.RoleManager)
	_, err := usecase.Mutate(ctx, p.ID, store.Projects.FindByID, store.Projects.Update, func(p *entity.Project) error {
		return p.Cancel(manager, "customer moved away")
	})
	require.NoError(t, err)

	events := new(MockPublisher)
	uc := payment.NewApplyPaymentUseCase(store.Projects, store.Maintenance, events)

	_, err = uc.OnPaymentConfirmed(ctx, valueobject.EntityMaintenance, m.ID, valueobject.AmountDeposit)
	assert.True(t, apperror.IsPreconditionFailed(err), "got %v", err)

	stored, err := store.Maintenance.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentUnpaid, stored.PaymentStatus)
	assert.Equal(t, m.GetVersion(), stored.GetVersion())
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
