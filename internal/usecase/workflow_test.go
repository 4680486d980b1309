package usecase_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	vo "github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/infrastructure/memstore"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase"
	consultationuc "github.com/koicare/pondflow/internal/usecase/consultation"
	designuc "github.com/koicare/pondflow/internal/usecase/design"
	maintenanceuc "github.com/koicare/pondflow/internal/usecase/maintenance"
	paymentuc "github.com/koicare/pondflow/internal/usecase/payment"
	projectuc "github.com/koicare/pondflow/internal/usecase/project"
	reviewuc "github.com/koicare/pondflow/internal/usecase/review"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// app wires the use cases over an in-memory store the way cmd/server does.
type app struct {
	store    repository.Store
	recorder *recorder

	createConsultation *consultationuc.CreateConsultationUseCase
	moveConsultation   *consultationuc.TransitionConsultationUseCase
	cancelConsultation *consultationuc.CancelConsultationUseCase
	createDesignReq    *designuc.CreateDesignRequestUseCase
	design             *designuc.WorkflowUseCase
	createProject      *projectuc.CreateProjectUseCase
	project            *projectuc.WorkflowUseCase
	payment            *paymentuc.ApplyPaymentUseCase
	createMaintenance  *maintenanceuc.CreateMaintenanceUseCase
	maintenance        *maintenanceuc.WorkflowUseCase
	createReview       *reviewuc.CreateReviewUseCase

	customer, consultant, designer, manager, constructor vo.Actor
}

func newApp() *app {
	store := memstore.New().Store()
	log := logrus.New()
	log.SetOutput(io.Discard)
	bus := event.NewBus(log)
	policy := usecase.DefaultPolicy()

	a := &app{
		store:    store,
		recorder: &recorder{},

		createConsultation: consultationuc.NewCreateConsultationUseCase(store.Consultations, store.Designs, bus),
		moveConsultation:   consultationuc.NewTransitionConsultationUseCase(store.Consultations, store.DesignRequests, bus),
		cancelConsultation: consultationuc.NewCancelConsultationUseCase(store.Consultations, store.DesignRequests, bus, policy),
		createDesignReq:    designuc.NewCreateDesignRequestUseCase(store.Consultations, store.DesignRequests, bus),
		design:             designuc.NewWorkflowUseCase(store.DesignRequests, bus, policy),
		createProject:      projectuc.NewCreateProjectUseCase(store.Projects, store.Consultations, store.DesignRequests, bus, policy),
		project:            projectuc.NewWorkflowUseCase(store.Projects, bus, policy),
		payment:            paymentuc.NewApplyPaymentUseCase(store.Projects, store.Maintenance, bus),
		createMaintenance:  maintenanceuc.NewCreateMaintenanceUseCase(store.Maintenance, store.Projects, bus),
		maintenance:        maintenanceuc.NewWorkflowUseCase(store.Maintenance, store.Projects, bus),
		createReview:       reviewuc.NewCreateReviewUseCase(store.Reviews, store.Projects, store.Maintenance, bus),

		customer:    vo.NewActor(uuid.New(), vo.RoleCustomer),
		consultant:  vo.NewActor(uuid.New(), vo.RoleConsultant),
		designer:    vo.NewActor(uuid.New(), vo.RoleDesigner),
		manager:     vo.NewActor(uuid.New(), vo.RoleManager),
		constructor: vo.NewActor(uuid.New(), vo.RoleConstructor),
	}

	bus.Subscribe(event.ConsultationProceedDesign, a.createDesignReq.OnProceedDesign)
	bus.SubscribeAll(a.recorder.handle)
	return a
}

// approvedDesignRequest runs a custom consultation through one customer
// rejection and a resubmission until the customer approves.
func (a *app) approvedDesignRequest(t *testing.T, ctx context.Context) (*entity.ConsultationRequest, *entity.DesignRequest) {
	t.Helper()

	c, err := a.createConsultation.Execute(ctx, consultationuc.CreateConsultationInput{
		Actor:  a.customer,
		Custom: &entity.CustomDesignSource{PreferredStyle: "Japanese garden", Dimensions: "4x6m"},
	})
	require.NoError(t, err)

	_, err = a.moveConsultation.Execute(ctx, a.consultant, c.ID, vo.ConsultationInProgress)
	require.NoError(t, err)
	_, err = a.moveConsultation.Execute(ctx, a.consultant, c.ID, vo.ConsultationProceedDesign)
	require.NoError(t, err)

	dr, err := a.store.DesignRequests.FindByConsultationID(ctx, c.ID)
	require.NoError(t, err, "proceeding to design opens the design request")
	assert.Equal(t, vo.DesignPendingAssignment, dr.Status)

	_, err = a.design.Assign(ctx, a.manager, dr.ID, a.designer.UserID)
	require.NoError(t, err)
	_, err = a.design.StartWork(ctx, a.designer, dr.ID)
	require.NoError(t, err)

	submit := func(name string) {
		_, err := a.design.SubmitDesign(ctx, a.designer, dr.ID, designuc.SubmitDesignInput{
			Name:      name,
			ImageURLs: []string{"designs/" + name + ".png"},
		})
		require.NoError(t, err)
		_, err = a.design.ConsultantReview(ctx, a.consultant, dr.ID, true, "")
		require.NoError(t, err)
	}

	submit("first-draft")
	dr, err = a.design.CustomerApproval(ctx, a.customer, dr.ID, false, "needs a bridge")
	require.NoError(t, err)
	assert.Equal(t, vo.DesignRejected, dr.Status)
	assert.Equal(t, 1, dr.RevisionCount)

	submit("with-bridge")
	dr, err = a.design.CustomerApproval(ctx, a.customer, dr.ID, true, "")
	require.NoError(t, err)
	require.Equal(t, vo.DesignApproved, dr.Status)

	artifact, err := a.store.Designs.FindByID(ctx, *dr.DesignID)
	require.NoError(t, err)
	assert.Equal(t, "with-bridge", artifact.Name)

	return c, dr
}

func (a *app) projectInput(dr *entity.DesignRequest, total, deposit int64) projectuc.CreateProjectInput {
	return projectuc.CreateProjectInput{
		Actor:           a.manager,
		DesignRequestID: &dr.ID,
		Name:            "Tanaka residence pond",
		TotalPrice:      total,
		DepositAmount:   deposit,
	}
}

func TestWorkflow_DesignRevisionThenProject(t *testing.T) {
	ctx := context.Background()
	a := newApp()
	c, dr := a.approvedDesignRequest(t, ctx)

	_, err := a.createProject.Execute(ctx, a.projectInput(dr, 1_000_000, 1_200_000))
	assert.True(t, apperror.IsValidation(err), "deposit above total")

	p, err := a.createProject.Execute(ctx, a.projectInput(dr, 1_000_000, 300_000))
	require.NoError(t, err)
	assert.Equal(t, vo.ProjectPending, p.Status)
	assert.Equal(t, c.ID, p.ConsultationID)
	assert.Equal(t, dr.DesignID, p.DesignID)

	_, err = a.createProject.Execute(ctx, a.projectInput(dr, 1_000_000, 300_000))
	assert.True(t, apperror.IsConflict(err), "one project per consultation")

	done, err := a.moveConsultation.Execute(ctx, a.consultant, c.ID, vo.ConsultationCompleted)
	require.NoError(t, err)
	assert.Equal(t, vo.ConsultationCompleted, done.Status)
}

func TestWorkflow_ConsultationCannotCompleteBeforeDesignApproval(t *testing.T) {
	ctx := context.Background()
	a := newApp()

	c, err := a.createConsultation.Execute(ctx, consultationuc.CreateConsultationInput{
		Actor:  a.customer,
		Custom: &entity.CustomDesignSource{},
	})
	require.NoError(t, err)
	_, err = a.moveConsultation.Execute(ctx, a.consultant, c.ID, vo.ConsultationInProgress)
	require.NoError(t, err)
	_, err = a.moveConsultation.Execute(ctx, a.consultant, c.ID, vo.ConsultationProceedDesign)
	require.NoError(t, err)

	_, err = a.moveConsultation.Execute(ctx, a.consultant, c.ID, vo.ConsultationCompleted)
	assert.True(t, apperror.IsPreconditionFailed(err))

	stored, err := a.store.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, vo.ConsultationProceedDesign, stored.Status)
}

func TestWorkflow_ConstructionPaymentAndAftercare(t *testing.T) {
	ctx := context.Background()
	a := newApp()
	_, dr := a.approvedDesignRequest(t, ctx)

	p, err := a.createProject.Execute(ctx, a.projectInput(dr, 2_000_000, 500_000))
	require.NoError(t, err)

	_, err = a.project.UpdateStatus(ctx, a.consultant, p.ID, vo.ProjectApproved, "")
	require.NoError(t, err)
	p, err = a.project.AssignConstructor(ctx, a.manager, p.ID, a.constructor.UserID)
	require.NoError(t, err)
	require.Len(t, p.Tasks, len(usecase.DefaultTaskTemplate))

	_, err = a.project.UpdateTask(ctx, a.constructor, p.Tasks[1].ID, 25)
	assert.True(t, apperror.IsPreconditionFailed(err), "second task waits for the first")

	_, err = a.project.UpdateStatus(ctx, a.manager, p.ID, vo.ProjectPlanning, "")
	require.NoError(t, err)
	_, err = a.project.UpdateStatus(ctx, a.manager, p.ID, vo.ProjectInProgress, "")
	require.NoError(t, err)

	res, err := a.payment.OnPaymentConfirmed(ctx, vo.EntityProject, p.ID, vo.AmountDeposit)
	require.NoError(t, err)
	assert.Equal(t, vo.PaymentUnpaid, res.PreviousStatus)
	assert.Equal(t, vo.PaymentDepositPaid, res.Status)

	_, err = a.createMaintenance.Execute(ctx, a.customer, p.ID, "pump noise")
	assert.True(t, apperror.IsValidation(err), "maintenance needs a finished project")

	for _, task := range p.Tasks {
		updated, err := a.project.UpdateTask(ctx, a.constructor, task.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, vo.TaskCompleted, updated.Status)
	}

	p, err = a.project.MarkTechnicallyCompleted(ctx, a.manager, p.ID)
	require.NoError(t, err)
	assert.Equal(t, vo.ProjectTechnicallyCompleted, p.Status)

	_, err = a.project.Complete(ctx, a.manager, p.ID)
	assert.True(t, apperror.IsPreconditionFailed(err), "final payment outstanding")

	_, err = a.payment.Execute(ctx, paymentuc.ApplyPaymentInput{
		Actor:      a.manager,
		EntityKind: vo.EntityProject,
		EntityID:   p.ID,
		AmountKind: vo.AmountFinal,
	})
	require.NoError(t, err)

	p, err = a.project.Complete(ctx, a.manager, p.ID)
	require.NoError(t, err)
	assert.Equal(t, vo.ProjectCompleted, p.Status)

	review, err := a.createReview.Execute(ctx, reviewuc.CreateReviewInput{
		Actor:     a.customer,
		ProjectID: &p.ID,
		Rating:    5,
		Comment:   "The koi love it",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, *review.ProjectID)

	_, err = a.createReview.Execute(ctx, reviewuc.CreateReviewInput{Actor: a.customer, ProjectID: &p.ID, Rating: 4})
	assert.True(t, apperror.IsConflict(err))

	m, err := a.createMaintenance.Execute(ctx, a.customer, p.ID, "pump noise")
	require.NoError(t, err)
	_, err = a.maintenance.Confirm(ctx, a.consultant, m.ID, nil)
	require.NoError(t, err)
	_, err = a.payment.OnPaymentConfirmed(ctx, vo.EntityMaintenance, m.ID, vo.AmountDeposit)
	require.NoError(t, err)
	_, err = a.maintenance.AssignStaff(ctx, a.manager, m.ID, a.constructor.UserID)
	require.NoError(t, err)
	_, err = a.maintenance.Schedule(ctx, a.constructor, m.ID, p.UpdatedAt.AddDate(0, 0, 7))
	require.NoError(t, err)
	_, err = a.maintenance.Start(ctx, a.constructor, m.ID)
	require.NoError(t, err)
	m, err = a.maintenance.Complete(ctx, a.constructor, m.ID, "replaced impeller", []string{"https://cdn.example.com/after.webp"})
	require.NoError(t, err)
	assert.Equal(t, vo.RequestCompleted, m.RequestStatus)

	_, err = a.createReview.Execute(ctx, reviewuc.CreateReviewInput{Actor: a.customer, MaintenanceRequestID: &m.ID, Rating: 5})
	assert.True(t, apperror.IsPreconditionFailed(err), "maintenance review waits for full payment")

	_, err = a.payment.OnPaymentConfirmed(ctx, vo.EntityMaintenance, m.ID, vo.AmountFinal)
	require.NoError(t, err)
	_, err = a.createReview.Execute(ctx, reviewuc.CreateReviewInput{Actor: a.customer, MaintenanceRequestID: &m.ID, Rating: 5})
	require.NoError(t, err)

	assert.Contains(t, a.recorder.types(), event.ProjectTaskUpdated)
	assert.Contains(t, a.recorder.types(), event.PaymentStatusChanged)
	assert.Contains(t, a.recorder.types(), event.ReviewCreated)
}

func TestWorkflow_CancelledProjectIsFrozen(t *testing.T) {
	ctx := context.Background()
	a := newApp()
	_, dr := a.approvedDesignRequest(t, ctx)

	p, err := a.createProject.Execute(ctx, a.projectInput(dr, 1_000_000, 100_000))
	require.NoError(t, err)
	_, err = a.project.UpdateStatus(ctx, a.manager, p.ID, vo.ProjectApproved, "")
	require.NoError(t, err)
	p, err = a.project.AssignConstructor(ctx, a.manager, p.ID, a.constructor.UserID)
	require.NoError(t, err)

	before := len(a.recorder.types())
	_, err = a.project.Cancel(ctx, a.consultant, p.ID, "customer moved away")
	require.NoError(t, err)

	_, err = a.project.Cancel(ctx, a.manager, p.ID, "customer moved away")
	assert.True(t, apperror.IsPreconditionFailed(err))
	assert.Len(t, a.recorder.types(), before+1, "the second cancel publishes nothing")

	_, err = a.project.UpdateTask(ctx, a.constructor, p.Tasks[0].ID, 25)
	assert.True(t, apperror.IsPreconditionFailed(err))

	_, err = a.payment.OnPaymentConfirmed(ctx, vo.EntityProject, p.ID, vo.AmountDeposit)
	assert.True(t, apperror.IsPreconditionFailed(err))

	_, err = a.cancelConsultation.Execute(ctx, a.manager, p.ConsultationID, "closing")
	assert.True(t, apperror.IsPreconditionFailed(err), "approved design work keeps the consultation open")
}

func TestWorkflow_CancelledProjectFreezesMaintenance(t *testing.T) {
	ctx := context.Background()
	a := newApp()
	_, dr := a.approvedDesignRequest(t, ctx)

	p, err := a.createProject.Execute(ctx, a.projectInput(dr, 1_000_000, 100_000))
	require.NoError(t, err)
	_, err = a.project.UpdateStatus(ctx, a.consultant, p.ID, vo.ProjectApproved, "")
	require.NoError(t, err)
	p, err = a.project.AssignConstructor(ctx, a.manager, p.ID, a.constructor.UserID)
	require.NoError(t, err)
	_, err = a.project.UpdateStatus(ctx, a.manager, p.ID, vo.ProjectPlanning, "")
	require.NoError(t, err)
	_, err = a.project.UpdateStatus(ctx, a.manager, p.ID, vo.ProjectInProgress, "")
	require.NoError(t, err)
	for _, task := range p.Tasks {
		_, err := a.project.UpdateTask(ctx, a.constructor, task.ID, 100)
		require.NoError(t, err)
	}
	_, err = a.project.MarkTechnicallyCompleted(ctx, a.manager, p.ID)
	require.NoError(t, err)

	m, err := a.createMaintenance.Execute(ctx, a.customer, p.ID, "pump noise")
	require.NoError(t, err)

	_, err = a.project.Cancel(ctx, a.manager, p.ID, "contract dispute")
	require.NoError(t, err)

	before := len(a.recorder.types())

	_, err = a.maintenance.Confirm(ctx, a.consultant, m.ID, nil)
	assert.True(t, apperror.IsPreconditionFailed(err), "got %v", err)

	_, err = a.maintenance.AssignStaff(ctx, a.manager, m.ID, a.constructor.UserID)
	assert.True(t, apperror.IsPreconditionFailed(err), "got %v", err)

	_, err = a.payment.OnPaymentConfirmed(ctx, vo.EntityMaintenance, m.ID, vo.AmountDeposit)
	assert.True(t, apperror.IsPreconditionFailed(err), "got %v", err)

	_, err = a.createMaintenance.Execute(ctx, a.customer, p.ID, "still noisy")
	assert.Error(t, err)

	stored, err := a.store.Maintenance.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, vo.RequestPending, stored.RequestStatus)
	assert.Equal(t, vo.PaymentUnpaid, stored.PaymentStatus)
	assert.Len(t, a.recorder.types(), before, "frozen requests publish nothing")
}
