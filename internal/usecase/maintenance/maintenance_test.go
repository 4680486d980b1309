package maintenance_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/infrastructure/memstore"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase/maintenance"
)

type capture struct {
	last event.Event
	n    int
}

func (c *capture) Publish(_ context.Context, e event.Event) {
	c.last = e
	c.n++
}

func seedFinishedProject(t *testing.T, store repository.Store, customer valueobject.Actor, status valueobject.ProjectStatus) *entity.Project {
	t.Helper()
	p := &entity.Project{
		ID:             uuid.New(),
		ConsultationID: uuid.New(),
		Name:           "Pond",
		CustomerID:     customer.UserID,
		ConsultantID:   uuid.New(),
		Status:         status,
		PaymentStatus:  valueobject.PaymentFullyPaid,
	}
	require.NoError(t, store.Projects.Create(context.Background(), p))
	return p
}

func TestCreateMaintenance(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	events := &capture{}
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	uc := maintenance.NewCreateMaintenanceUseCase(store.Maintenance, store.Projects, events)

	building := seedFinishedProject(t, store, customer, valueobject.ProjectInProgress)
	_, err := uc.Execute(ctx, customer, building.ID, "leak near the waterfall")
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, customer, uuid.New(), "leak")
	assert.True(t, apperror.IsNotFound(err))

	done := seedFinishedProject(t, store, customer, valueobject.ProjectCompleted)
	m, err := uc.Execute(ctx, customer, done.ID, "leak near the waterfall")
	require.NoError(t, err)
	assert.Equal(t, done.ConsultantID, *m.ConsultantID)
	assert.Equal(t, event.MaintenanceCreated, events.last.Type)
	assert.ElementsMatch(t, []uuid.UUID{customer.UserID, done.ConsultantID}, events.last.Recipients)
	assert.Equal(t, 1, events.n)
}

func TestMaintenanceWorkflow(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	events := &capture{}
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	manager := valueobject.NewActor(uuid.New(), valueobject.RoleManager)
	constructor := valueobject.NewActor(uuid.New(), valueobject.RoleConstructor)

	create := maintenance.NewCreateMaintenanceUseCase(store.Maintenance, store.Projects, event.Nop{})
	workflow := maintenance.NewWorkflowUseCase(store.Maintenance, store.Projects, events)
	query := maintenance.NewQueryUseCase(store.Maintenance)

	p := seedFinishedProject(t, store, customer, valueobject.ProjectMaintenance)
	m, err := create.Execute(ctx, customer, p.ID, "cloudy water")
	require.NoError(t, err)

	_, err = workflow.Schedule(ctx, manager, m.ID, time.Now())
	assert.True(t, apperror.IsPreconditionFailed(err))

	price := int64(250_000)
	_, err = workflow.Confirm(ctx, manager, m.ID, &price)
	require.NoError(t, err)
	assert.Equal(t, "PENDING/UNASSIGNED", events.last.PreviousStatus)
	assert.Equal(t, "CONFIRMED/UNASSIGNED", events.last.Status)

	_, err = workflow.Cancel(ctx, customer, m.ID, "found a cheaper guy")
	assert.True(t, apperror.IsPreconditionFailed(err))

	_, err = workflow.AssignStaff(ctx, manager, m.ID, constructor.UserID)
	require.NoError(t, err)
	assert.Contains(t, events.last.Recipients, constructor.UserID)

	items, err := query.List(ctx, constructor, repository.MaintenanceFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = query.List(ctx, valueobject.NewActor(uuid.New(), valueobject.RoleConstructor), repository.MaintenanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = query.Get(ctx, valueobject.NewActor(uuid.New(), valueobject.RoleCustomer), m.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestMaintenanceReject(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	consultant := valueobject.NewActor(uuid.New(), valueobject.RoleConsultant)

	create := maintenance.NewCreateMaintenanceUseCase(store.Maintenance, store.Projects, event.Nop{})
	workflow := maintenance.NewWorkflowUseCase(store.Maintenance, store.Projects, event.Nop{})

	p := seedFinishedProject(t, store, customer, valueobject.ProjectTechnicallyCompleted)
	m, err := create.Execute(ctx, customer, p.ID, "fish look sick")
	require.NoError(t, err)

	rejected, err := workflow.Reject(ctx, consultant, m.ID, "please call the vet")
	require.NoError(t, err)
	assert.Equal(t, valueobject.RequestCancelled, rejected.RequestStatus)

	_, err = workflow.Reject(ctx, consultant, m.ID, "")
	assert.True(t, apperror.IsPreconditionFailed(err))
}
