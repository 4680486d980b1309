package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/infrastructure/memstore"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/usecase"
)

func seedConsultation(t *testing.T, ctx context.Context, repo repository.ConsultationRepository) *entity.ConsultationRequest {
	t.Helper()
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	c, err := entity.NewConsultationRequest(customer, entity.CustomDesignSource{}, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))
	return c
}

func TestMutate_SavesUnderLoadedVersion(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	c := seedConsultation(t, ctx, store.Consultations)
	consultant := valueobject.NewActor(uuid.New(), valueobject.RoleConsultant)

	got, err := usecase.Mutate(ctx, c.ID, store.Consultations.FindByID, store.Consultations.Update,
		func(c *entity.ConsultationRequest) error {
			return c.Transition(consultant, valueobject.ConsultationInProgress)
		})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.GetVersion())

	stored, err := store.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ConsultationInProgress, stored.Status)
}

func TestMutate_FailedApplyLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	c := seedConsultation(t, ctx, store.Consultations)
	boom := errors.New("boom")

	_, err := usecase.Mutate(ctx, c.ID, store.Consultations.FindByID, store.Consultations.Update,
		func(c *entity.ConsultationRequest) error {
			c.Notes = "changed"
			return boom
		})
	assert.ErrorIs(t, err, boom)

	stored, err := store.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Notes)
	assert.Equal(t, int64(1), stored.GetVersion())
}

func TestMutate_ConcurrentWriterLosesWithConflict(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	c := seedConsultation(t, ctx, store.Consultations)
	consultant := valueobject.NewActor(uuid.New(), valueobject.RoleConsultant)
	manager := valueobject.NewActor(uuid.New(), valueobject.RoleManager)

	_, err := usecase.Mutate(ctx, c.ID, store.Consultations.FindByID, store.Consultations.Update,
		func(loaded *entity.ConsultationRequest) error {
			// Another request commits between our load and our save.
			_, err := usecase.Mutate(ctx, c.ID, store.Consultations.FindByID, store.Consultations.Update,
				func(other *entity.ConsultationRequest) error {
					return other.Cancel(manager, "duplicate")
				})
			require.NoError(t, err)
			return loaded.Transition(consultant, valueobject.ConsultationInProgress)
		})
	assert.True(t, apperror.IsConflict(err))

	stored, err := store.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ConsultationCancelled, stored.Status)
}

func TestMutate_NotFound(t *testing.T) {
	store := memstore.New().Store()
	_, err := usecase.Mutate(context.Background(), uuid.New(), store.Consultations.FindByID, store.Consultations.Update,
		func(*entity.ConsultationRequest) error { return nil })
	assert.True(t, apperror.IsNotFound(err))
}

func TestDefaultPolicy(t *testing.T) {
	p := usecase.DefaultPolicy()
	assert.Equal(t, 3, p.MaxRevisions)
	assert.NotEmpty(t, p.TaskTemplate)
}
