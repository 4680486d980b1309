package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type ConsultationRepository struct{ db *DB }

func (r *ConsultationRepository) Create(_ context.Context, c *entity.ConsultationRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.consultations[c.ID]; ok {
		return apperror.Conflict("consultation request already exists")
	}
	c.SetVersion(1)
	r.db.consultations[c.ID] = cloneConsultation(c)
	return nil
}

func (r *ConsultationRepository) Update(_ context.Context, c *entity.ConsultationRequest, expectedVersion int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return replace(r.db.consultations, c.ID, c, expectedVersion, cloneConsultation, apperror.ErrConsultationNotFound)
}

func (r *ConsultationRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.ConsultationRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.consultations[id]
	if !ok {
		return nil, apperror.ErrConsultationNotFound
	}
	return cloneConsultation(c), nil
}

func (r *ConsultationRepository) List(_ context.Context, f repository.ConsultationFilter) ([]*entity.ConsultationRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := lo.FilterMap(lo.Values(r.db.consultations), func(c *entity.ConsultationRequest, _ int) (*entity.ConsultationRequest, bool) {
		ok := matches(f.CustomerID, c.CustomerID) &&
			matchesPtr(f.ConsultantID, c.ConsultantID) &&
			matchesStatus(f.Status, string(c.Status))
		return cloneConsultation(c), ok
	})
	return page(items, func(c *entity.ConsultationRequest) time.Time { return c.CreatedAt }, f.Page), nil
}

type DesignRepository struct{ db *DB }

func (r *DesignRepository) Create(_ context.Context, d *entity.PondDesign) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.designs[d.ID]; ok {
		return apperror.Conflict("pond design already exists")
	}
	r.db.designs[d.ID] = cloneDesign(d)
	return nil
}

func (r *DesignRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.PondDesign, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	d, ok := r.db.designs[id]
	if !ok {
		return nil, apperror.ErrDesignNotFound
	}
	return cloneDesign(d), nil
}

type DesignRequestRepository struct{ db *DB }

func (r *DesignRequestRepository) Create(_ context.Context, d *entity.DesignRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	taken := lo.ContainsBy(lo.Values(r.db.designRequests), func(x *entity.DesignRequest) bool {
		return x.ID == d.ID || x.ConsultationID == d.ConsultationID
	})
	if taken {
		return apperror.Conflict("consultation already has a design request")
	}
	d.SetVersion(1)
	r.db.designRequests[d.ID] = cloneDesignRequest(d)
	return nil
}

func (r *DesignRequestRepository) Update(_ context.Context, d *entity.DesignRequest, expectedVersion int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return replace(r.db.designRequests, d.ID, d, expectedVersion, cloneDesignRequest, apperror.ErrDesignRequestNotFound)
}

func (r *DesignRequestRepository) SubmitDesign(_ context.Context, d *entity.DesignRequest, artifact *entity.PondDesign, expectedVersion int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.designs[artifact.ID]; ok {
		return apperror.Conflict("pond design already exists")
	}
	if err := replace(r.db.designRequests, d.ID, d, expectedVersion, cloneDesignRequest, apperror.ErrDesignRequestNotFound); err != nil {
		return err
	}
	r.db.designs[artifact.ID] = cloneDesign(artifact)
	return nil
}

func (r *DesignRequestRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.DesignRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	d, ok := r.db.designRequests[id]
	if !ok {
		return nil, apperror.ErrDesignRequestNotFound
	}
	return cloneDesignRequest(d), nil
}

func (r *DesignRequestRepository) FindByConsultationID(_ context.Context, consultationID uuid.UUID) (*entity.DesignRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	d, ok := lo.Find(lo.Values(r.db.designRequests), func(x *entity.DesignRequest) bool {
		return x.ConsultationID == consultationID
	})
	if !ok {
		return nil, apperror.ErrDesignRequestNotFound
	}
	return cloneDesignRequest(d), nil
}

func (r *DesignRequestRepository) List(_ context.Context, f repository.DesignRequestFilter) ([]*entity.DesignRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := lo.FilterMap(lo.Values(r.db.designRequests), func(d *entity.DesignRequest, _ int) (*entity.DesignRequest, bool) {
		ok := matches(f.CustomerID, d.CustomerID) &&
			matchesPtr(f.DesignerID, d.DesignerID) &&
			matchesPtr(f.ConsultantID, d.ConsultantID) &&
			matchesStatus(f.Status, string(d.Status))
		return cloneDesignRequest(d), ok
	})
	return page(items, func(d *entity.DesignRequest) time.Time { return d.CreatedAt }, f.Page), nil
}

type ProjectRepository struct{ db *DB }

func (r *ProjectRepository) Create(_ context.Context, p *entity.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	taken := lo.ContainsBy(lo.Values(r.db.projects), func(x *entity.Project) bool {
		return x.ID == p.ID || x.ConsultationID == p.ConsultationID
	})
	if taken {
		return apperror.Conflict("a project already exists for this consultation")
	}
	p.SetVersion(1)
	r.db.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *ProjectRepository) Update(_ context.Context, p *entity.Project, expectedVersion int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return replace(r.db.projects, p.ID, p, expectedVersion, cloneProject, apperror.ErrProjectNotFound)
}

func (r *ProjectRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) FindByTaskID(_ context.Context, taskID uuid.UUID) (*entity.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := lo.Find(lo.Values(r.db.projects), func(x *entity.Project) bool {
		return lo.ContainsBy(x.Tasks, func(t *entity.ProjectTask) bool { return t.ID == taskID })
	})
	if !ok {
		return nil, apperror.ErrTaskNotFound
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) List(_ context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := lo.FilterMap(lo.Values(r.db.projects), func(p *entity.Project, _ int) (*entity.Project, bool) {
		ok := matches(f.CustomerID, p.CustomerID) &&
			matches(f.ConsultantID, p.ConsultantID) &&
			matchesPtr(f.ConstructorID, p.ConstructorID) &&
			matchesStatus(f.Status, string(p.Status))
		return cloneProject(p), ok
	})
	return page(items, func(p *entity.Project) time.Time { return p.CreatedAt }, f.Page), nil
}

type MaintenanceRepository struct{ db *DB }

func (r *MaintenanceRepository) Create(_ context.Context, m *entity.MaintenanceRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.maintenance[m.ID]; ok {
		return apperror.Conflict("maintenance request already exists")
	}
	m.SetVersion(1)
	r.db.maintenance[m.ID] = cloneMaintenance(m)
	return nil
}

func (r *MaintenanceRepository) Update(_ context.Context, m *entity.MaintenanceRequest, expectedVersion int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return replace(r.db.maintenance, m.ID, m, expectedVersion, cloneMaintenance, apperror.ErrMaintenanceNotFound)
}

func (r *MaintenanceRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.MaintenanceRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	m, ok := r.db.maintenance[id]
	if !ok {
		return nil, apperror.ErrMaintenanceNotFound
	}
	return cloneMaintenance(m), nil
}

func (r *MaintenanceRepository) List(_ context.Context, f repository.MaintenanceFilter) ([]*entity.MaintenanceRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := lo.FilterMap(lo.Values(r.db.maintenance), func(m *entity.MaintenanceRequest, _ int) (*entity.MaintenanceRequest, bool) {
		ok := matches(f.ProjectID, m.ProjectID) &&
			matches(f.CustomerID, m.CustomerID) &&
			matchesPtr(f.AssignedTo, m.AssignedTo) &&
			matchesStatus(f.RequestStatus, string(m.RequestStatus))
		return cloneMaintenance(m), ok
	})
	return page(items, func(m *entity.MaintenanceRequest) time.Time { return m.CreatedAt }, f.Page), nil
}

type ReviewRepository struct{ db *DB }

func (r *ReviewRepository) Create(_ context.Context, rv *entity.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	taken := lo.ContainsBy(lo.Values(r.db.reviews), func(x *entity.Review) bool {
		return x.ID == rv.ID || (x.CustomerID == rv.CustomerID && x.TargetID() == rv.TargetID())
	})
	if taken {
		return apperror.Conflict("you have already reviewed this")
	}
	r.db.reviews[rv.ID] = cloneReview(rv)
	return nil
}

func (r *ReviewRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	rv, ok := r.db.reviews[id]
	if !ok {
		return nil, apperror.ErrReviewNotFound
	}
	return cloneReview(rv), nil
}

func (r *ReviewRepository) List(_ context.Context, f repository.ReviewFilter) ([]*entity.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := lo.FilterMap(lo.Values(r.db.reviews), func(rv *entity.Review, _ int) (*entity.Review, bool) {
		ok := matchesPtr(f.ProjectID, rv.ProjectID) &&
			matchesPtr(f.MaintenanceRequestID, rv.MaintenanceRequestID) &&
			matches(f.CustomerID, rv.CustomerID)
		return cloneReview(rv), ok
	})
	return page(items, func(rv *entity.Review) time.Time { return rv.ReviewDate }, f.Page), nil
}
