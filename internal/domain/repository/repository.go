package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/entity"
)

// Update methods take the version the caller loaded. They fail with a
// CONFLICT app error when the stored version moved on, and bump the
// entity's version on success.

type ConsultationRepository interface {
	Create(ctx context.Context, c *entity.ConsultationRequest) error
	Update(ctx context.Context, c *entity.ConsultationRequest, expectedVersion int64) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ConsultationRequest, error)
	List(ctx context.Context, filter ConsultationFilter) ([]*entity.ConsultationRequest, error)
}

type DesignRepository interface {
	Create(ctx context.Context, d *entity.PondDesign) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PondDesign, error)
}

type DesignRequestRepository interface {
	// Create fails with CONFLICT when the consultation already has a design request.
	Create(ctx context.Context, d *entity.DesignRequest) error
	Update(ctx context.Context, d *entity.DesignRequest, expectedVersion int64) error
	// SubmitDesign stores the artifact and saves d in one write. When the
	// version check fails the artifact is not stored.
	SubmitDesign(ctx context.Context, d *entity.DesignRequest, artifact *entity.PondDesign, expectedVersion int64) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DesignRequest, error)
	FindByConsultationID(ctx context.Context, consultationID uuid.UUID) (*entity.DesignRequest, error)
	List(ctx context.Context, filter DesignRequestFilter) ([]*entity.DesignRequest, error)
}

// ProjectRepository stores a project together with its tasks. Task changes
// are saved through Update under the project's version.
type ProjectRepository interface {
	// Create fails with CONFLICT when the upstream consultation or design
	// request already produced a project.
	Create(ctx context.Context, p *entity.Project) error
	Update(ctx context.Context, p *entity.Project, expectedVersion int64) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByTaskID(ctx context.Context, taskID uuid.UUID) (*entity.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*entity.Project, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *entity.MaintenanceRequest) error
	Update(ctx context.Context, m *entity.MaintenanceRequest, expectedVersion int64) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MaintenanceRequest, error)
	List(ctx context.Context, filter MaintenanceFilter) ([]*entity.MaintenanceRequest, error)
}

type ReviewRepository interface {
	// Create fails with CONFLICT when the customer already reviewed the target.
	Create(ctx context.Context, r *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*entity.Review, error)
}

// Store groups every repository of one backend.
type Store struct {
	Consultations  ConsultationRepository
	Designs        DesignRepository
	DesignRequests DesignRequestRepository
	Projects       ProjectRepository
	Maintenance    MaintenanceRepository
	Reviews        ReviewRepository
}
