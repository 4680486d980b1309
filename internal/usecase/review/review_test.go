package review_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/infrastructure/memstore"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase/review"
)

func seedProject(t *testing.T, store repository.Store, customerID uuid.UUID, status valueobject.ProjectStatus) *entity.Project {
	t.Helper()
	p := &entity.Project{
		ID:             uuid.New(),
		ConsultationID: uuid.New(),
		Name:           "Pond",
		CustomerID:     customerID,
		ConsultantID:   uuid.New(),
		Status:         status,
		PaymentStatus:  valueobject.PaymentFullyPaid,
	}
	require.NoError(t, store.Projects.Create(context.Background(), p))
	return p
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	create := review.NewCreateReviewUseCase(store.Reviews, store.Projects, store.Maintenance, event.Nop{})
	list := review.NewListReviewsUseCase(store.Reviews)

	done := seedProject(t, store, customer.UserID, valueobject.ProjectCompleted)

	r, err := create.Execute(ctx, review.CreateReviewInput{Actor: customer, ProjectID: &done.ID, Rating: 5, Comment: "  clear water  "})
	require.NoError(t, err)
	assert.Equal(t, "clear water", r.Comment)
	assert.Equal(t, done.ID, r.TargetID())

	_, err = create.Execute(ctx, review.CreateReviewInput{Actor: customer, ProjectID: &done.ID, Rating: 1})
	assert.True(t, apperror.IsConflict(err))

	items, err := list.Execute(ctx, repository.ReviewFilter{ProjectID: &done.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Rating)
}

func TestCreateReview_Errors(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	create := review.NewCreateReviewUseCase(store.Reviews, store.Projects, store.Maintenance, event.Nop{})

	building := seedProject(t, store, customer.UserID, valueobject.ProjectTechnicallyCompleted)
	missing := uuid.New()

	tests := []struct {
		name  string
		input review.CreateReviewInput
		check func(error) bool
	}{
		{"no target", review.CreateReviewInput{Actor: customer, Rating: 4}, apperror.IsValidation},
		{"two targets", review.CreateReviewInput{Actor: customer, ProjectID: &building.ID, MaintenanceRequestID: &missing, Rating: 4}, apperror.IsValidation},
		{"unknown project", review.CreateReviewInput{Actor: customer, ProjectID: &missing, Rating: 4}, apperror.IsNotFound},
		{"unknown maintenance", review.CreateReviewInput{Actor: customer, MaintenanceRequestID: &missing, Rating: 4}, apperror.IsNotFound},
		{"not finished", review.CreateReviewInput{Actor: customer, ProjectID: &building.ID, Rating: 4}, apperror.IsPreconditionFailed},
		{"someone else's project", review.CreateReviewInput{
			Actor: valueobject.NewActor(uuid.New(), valueobject.RoleCustomer), ProjectID: &building.ID, Rating: 4,
		}, apperror.IsForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := create.Execute(ctx, tt.input)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}
