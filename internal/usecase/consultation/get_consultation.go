package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type GetConsultationUseCase struct {
	consultations repository.ConsultationRepository
}

func NewGetConsultationUseCase(consultations repository.ConsultationRepository) *GetConsultationUseCase {
	return &GetConsultationUseCase{consultations: consultations}
}

// Execute returns the request. Customers only see their own.
func (uc *GetConsultationUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.ConsultationRequest, error) {
	c, err := uc.consultations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(valueobject.RoleCustomer) && !c.IsOwnedBy(actor.UserID) {
		return nil, apperror.ErrForbidden
	}
	return c, nil
}

type ListConsultationsUseCase struct {
	consultations repository.ConsultationRepository
}

func NewListConsultationsUseCase(consultations repository.ConsultationRepository) *ListConsultationsUseCase {
	return &ListConsultationsUseCase{consultations: consultations}
}

func (uc *ListConsultationsUseCase) Execute(ctx context.Context, actor valueobject.Actor, filter repository.ConsultationFilter) ([]*entity.ConsultationRequest, error) {
	if actor.Is(valueobject.RoleCustomer) {
		filter.CustomerID = &actor.UserID
	}
	items, err := uc.consultations.List(ctx, filter)
	if err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to list consultation requests")
	}
	return items, nil
}
