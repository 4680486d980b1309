package design

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/authz"
	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/validation"
)

type QueryUseCase struct {
	designRequests repository.DesignRequestRepository
	designs        repository.DesignRepository
}

func NewQueryUseCase(designRequests repository.DesignRequestRepository, designs repository.DesignRepository) *QueryUseCase {
	return &QueryUseCase{designRequests: designRequests, designs: designs}
}

func (uc *QueryUseCase) Get(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.DesignRequest, error) {
	dr, err := uc.designRequests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(valueobject.RoleCustomer) && dr.CustomerID != actor.UserID {
		return nil, apperror.ErrForbidden
	}
	return dr, nil
}

// List scopes customers to their own requests and designers to their assignments.
func (uc *QueryUseCase) List(ctx context.Context, actor valueobject.Actor, filter repository.DesignRequestFilter) ([]*entity.DesignRequest, error) {
	switch actor.Role {
	case valueobject.RoleCustomer:
		filter.CustomerID = &actor.UserID
	case valueobject.RoleDesigner:
		filter.DesignerID = &actor.UserID
	}
	items, err := uc.designRequests.List(ctx, filter)
	if err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to list design requests")
	}
	return items, nil
}

func (uc *QueryUseCase) GetDesign(ctx context.Context, id uuid.UUID) (*entity.PondDesign, error) {
	d, err := uc.designs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.IsDeleted() {
		return nil, apperror.ErrDesignNotFound
	}
	return d, nil
}

type CreateCatalogDesignUseCase struct {
	designs repository.DesignRepository
}

func NewCreateCatalogDesignUseCase(designs repository.DesignRepository) *CreateCatalogDesignUseCase {
	return &CreateCatalogDesignUseCase{designs: designs}
}

// Execute publishes a design customers can pick for an existing-design consultation.
func (uc *CreateCatalogDesignUseCase) Execute(ctx context.Context, actor valueobject.Actor, input SubmitDesignInput) (*entity.PondDesign, error) {
	if err := authz.Perform(actor.Role, valueobject.EntityPondDesign, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := validation.ImageRefs(input.ImageURLs); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	d, err := entity.NewPondDesign(actor.UserID, input.Name, input.Description, input.ImageURLs)
	if err != nil {
		return nil, err
	}
	if err := uc.designs.Create(ctx, d); err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to store design")
	}
	return d, nil
}
