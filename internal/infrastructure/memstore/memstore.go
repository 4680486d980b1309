// Package memstore is an in-process implementation of the repositories,
// used for local runs and use-case tests. Rows are copied on the way in and
// out so callers never share memory with the store.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type DB struct {
	mu             sync.RWMutex
	consultations  map[uuid.UUID]*entity.ConsultationRequest
	designs        map[uuid.UUID]*entity.PondDesign
	designRequests map[uuid.UUID]*entity.DesignRequest
	projects       map[uuid.UUID]*entity.Project
	maintenance    map[uuid.UUID]*entity.MaintenanceRequest
	reviews        map[uuid.UUID]*entity.Review
}

func New() *DB {
	return &DB{
		consultations:  make(map[uuid.UUID]*entity.ConsultationRequest),
		designs:        make(map[uuid.UUID]*entity.PondDesign),
		designRequests: make(map[uuid.UUID]*entity.DesignRequest),
		projects:       make(map[uuid.UUID]*entity.Project),
		maintenance:    make(map[uuid.UUID]*entity.MaintenanceRequest),
		reviews:        make(map[uuid.UUID]*entity.Review),
	}
}

// Store exposes the repositories backed by db.
func (db *DB) Store() repository.Store {
	return repository.Store{
		Consultations:  &ConsultationRepository{db: db},
		Designs:        &DesignRepository{db: db},
		DesignRequests: &DesignRequestRepository{db: db},
		Projects:       &ProjectRepository{db: db},
		Maintenance:    &MaintenanceRepository{db: db},
		Reviews:        &ReviewRepository{db: db},
	}
}

type versioned interface {
	GetVersion() int64
	SetVersion(int64)
}

// replace swaps the stored row for next when the stored version still
// equals expected. The caller holds the write lock.
func replace[T any, P interface {
	*T
	versioned
}](rows map[uuid.UUID]*T, id uuid.UUID, next P, expected int64, clone func(*T) *T, notFound error) error {
	cur, ok := rows[id]
	if !ok {
		return notFound
	}
	if P(cur).GetVersion() != expected {
		return apperror.ErrStaleVersion
	}
	next.SetVersion(expected + 1)
	rows[id] = clone((*T)(next))
	return nil
}

// page sorts newest first and applies the page window.
func page[T any](items []*T, createdAt func(*T) time.Time, p repository.Page) []*T {
	p = p.Normalize()
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
	return lo.Slice(items, p.Offset, p.Offset+p.Limit)
}

func matches(want *uuid.UUID, got uuid.UUID) bool {
	return want == nil || *want == got
}

func matchesPtr(want *uuid.UUID, got *uuid.UUID) bool {
	return want == nil || (got != nil && *want == *got)
}

func matchesStatus(want, got string) bool {
	return want == "" || want == got
}

func cloneConsultation(c *entity.ConsultationRequest) *entity.ConsultationRequest {
	cp := *c
	return &cp
}

func cloneDesign(d *entity.PondDesign) *entity.PondDesign {
	cp := *d
	cp.ImageURLs = append([]string(nil), d.ImageURLs...)
	return &cp
}

func cloneDesignRequest(d *entity.DesignRequest) *entity.DesignRequest {
	cp := *d
	return &cp
}

func cloneProject(p *entity.Project) *entity.Project {
	cp := *p
	cp.Tasks = lo.Map(p.Tasks, func(t *entity.ProjectTask, _ int) *entity.ProjectTask {
		task := *t
		return &task
	})
	return &cp
}

func cloneMaintenance(m *entity.MaintenanceRequest) *entity.MaintenanceRequest {
	cp := *m
	cp.MaintenanceImages = append([]string(nil), m.MaintenanceImages...)
	return &cp
}

func cloneReview(r *entity.Review) *entity.Review {
	cp := *r
	return &cp
}
