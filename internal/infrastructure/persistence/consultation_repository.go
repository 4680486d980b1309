package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type consultationRow struct {
	ID                 uuid.UUID  `db:"id"`
	CustomerID         uuid.UUID  `db:"customer_id"`
	DesignID           *uuid.UUID `db:"design_id"`
	CustomDesign       bool       `db:"custom_design"`
	PreferredStyle     string     `db:"preferred_style"`
	Dimensions         string     `db:"dimensions"`
	Requirements       string     `db:"requirements"`
	Budget             *int64     `db:"budget"`
	Notes              string     `db:"notes"`
	Status             string     `db:"status"`
	ConsultantID       *uuid.UUID `db:"consultant_id"`
	CancellationReason *string    `db:"cancellation_reason"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	Version            int64      `db:"version"`
}

func (r consultationRow) toEntity() *entity.ConsultationRequest {
	c := &entity.ConsultationRequest{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		DesignID:           r.DesignID,
		CustomDesign:       r.CustomDesign,
		PreferredStyle:     r.PreferredStyle,
		Dimensions:         r.Dimensions,
		Requirements:       r.Requirements,
		Budget:             r.Budget,
		Notes:              r.Notes,
		Status:             valueobject.ConsultationStatus(r.Status),
		ConsultantID:       r.ConsultantID,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	c.SetVersion(r.Version)
	return c
}

const consultationColumns = `id, customer_id, design_id, custom_design, preferred_style, dimensions,
	requirements, budget, notes, status, consultant_id, cancellation_reason, created_at, updated_at, version`

type ConsultationRepository struct {
	db *sqlx.DB
}

func NewConsultationRepository(db *sqlx.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

func (r *ConsultationRepository) Create(ctx context.Context, c *entity.ConsultationRequest) error {
	query := `
		INSERT INTO consultation_requests (` + consultationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.CustomerID, c.DesignID, c.CustomDesign, c.PreferredStyle, c.Dimensions,
		c.Requirements, c.Budget, c.Notes, string(c.Status), c.ConsultantID, c.CancellationReason,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "consultation request already exists", "failed to create consultation request")
	}
	c.SetVersion(1)
	return nil
}

func (r *ConsultationRepository) Update(ctx context.Context, c *entity.ConsultationRequest, expectedVersion int64) error {
	query := `
		UPDATE consultation_requests
		SET status = $3, consultant_id = $4, cancellation_reason = $5, notes = $6,
		    updated_at = $7, version = version + 1
		WHERE id = $1 AND version = $2
	`
	err := versionedUpdate(ctx, r.db, "consultation_requests", apperror.ErrConsultationNotFound, query,
		c.ID, expectedVersion, string(c.Status), c.ConsultantID, c.CancellationReason, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	c.SetVersion(expectedVersion + 1)
	return nil
}

func (r *ConsultationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ConsultationRequest, error) {
	var row consultationRow
	query := `SELECT ` + consultationColumns + ` FROM consultation_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, getErr(err, apperror.ErrConsultationNotFound, "failed to load consultation request")
	}
	return row.toEntity(), nil
}

func (r *ConsultationRepository) List(ctx context.Context, f repository.ConsultationFilter) ([]*entity.ConsultationRequest, error) {
	var w where
	if f.CustomerID != nil {
		w.add("customer_id = $%d", *f.CustomerID)
	}
	if f.ConsultantID != nil {
		w.add("consultant_id = $%d", *f.ConsultantID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}

	var rows []consultationRow
	query := `SELECT ` + consultationColumns + ` FROM consultation_requests` + w.page("created_at DESC", f.Page)
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list consultation requests")
	}

	out := make([]*entity.ConsultationRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
