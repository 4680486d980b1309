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

type designRequestRow struct {
	ID              uuid.UUID  `db:"id"`
	ConsultationID  uuid.UUID  `db:"consultation_id"`
	CustomerID      uuid.UUID  `db:"customer_id"`
	ConsultantID    *uuid.UUID `db:"consultant_id"`
	DesignerID      *uuid.UUID `db:"designer_id"`
	Status          string     `db:"status"`
	DesignID        *uuid.UUID `db:"design_id"`
	ReviewerNotes   *string    `db:"reviewer_notes"`
	RejectionReason *string    `db:"rejection_reason"`
	RevisionCount   int        `db:"revision_count"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	Version         int64      `db:"version"`
}

func (r designRequestRow) toEntity() *entity.DesignRequest {
	d := &entity.DesignRequest{
		ID:              r.ID,
		ConsultationID:  r.ConsultationID,
		CustomerID:      r.CustomerID,
		ConsultantID:    r.ConsultantID,
		DesignerID:      r.DesignerID,
		Status:          valueobject.DesignRequestStatus(r.Status),
		DesignID:        r.DesignID,
		ReviewerNotes:   r.ReviewerNotes,
		RejectionReason: r.RejectionReason,
		RevisionCount:   r.RevisionCount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	d.SetVersion(r.Version)
	return d
}

const designRequestColumns = `id, consultation_id, customer_id, consultant_id, designer_id, status, design_id,
	reviewer_notes, rejection_reason, revision_count, created_at, updated_at, version`

type DesignRequestRepository struct {
	db *sqlx.DB
}

func NewDesignRequestRepository(db *sqlx.DB) *DesignRequestRepository {
	return &DesignRequestRepository{db: db}
}

func (r *DesignRequestRepository) Create(ctx context.Context, d *entity.DesignRequest) error {
	query := `
		INSERT INTO design_requests (` + designRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.ConsultationID, d.CustomerID, d.ConsultantID, d.DesignerID, string(d.Status), d.DesignID,
		d.ReviewerNotes, d.RejectionReason, d.RevisionCount, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "consultation already has a design request", "failed to create design request")
	}
	d.SetVersion(1)
	return nil
}

func (r *DesignRequestRepository) Update(ctx context.Context, d *entity.DesignRequest, expectedVersion int64) error {
	if err := updateDesignRequest(ctx, r.db, d, expectedVersion); err != nil {
		return err
	}
	d.SetVersion(expectedVersion + 1)
	return nil
}

func (r *DesignRequestRepository) SubmitDesign(ctx context.Context, d *entity.DesignRequest, artifact *entity.PondDesign, expectedVersion int64) error {
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertDesign(ctx, tx, artifact); err != nil {
			return err
		}
		return updateDesignRequest(ctx, tx, d, expectedVersion)
	})
	if err != nil {
		return err
	}
	d.SetVersion(expectedVersion + 1)
	return nil
}

func updateDesignRequest(ctx context.Context, q execer, d *entity.DesignRequest, expectedVersion int64) error {
	query := `
		UPDATE design_requests
		SET designer_id = $3, status = $4, design_id = $5, reviewer_notes = $6, rejection_reason = $7,
		    revision_count = $8, consultant_id = $9, updated_at = $10, version = version + 1
		WHERE id = $1 AND version = $2
	`
	return versionedUpdate(ctx, q, "design_requests", apperror.ErrDesignRequestNotFound, query,
		d.ID, expectedVersion, d.DesignerID, string(d.Status), d.DesignID, d.ReviewerNotes, d.RejectionReason,
		d.RevisionCount, d.ConsultantID, d.UpdatedAt,
	)
}

func (r *DesignRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DesignRequest, error) {
	return r.findOne(ctx, "id", id)
}

func (r *DesignRequestRepository) FindByConsultationID(ctx context.Context, consultationID uuid.UUID) (*entity.DesignRequest, error) {
	return r.findOne(ctx, "consultation_id", consultationID)
}

func (r *DesignRequestRepository) findOne(ctx context.Context, column string, value uuid.UUID) (*entity.DesignRequest, error) {
	var row designRequestRow
	query := `SELECT ` + designRequestColumns + ` FROM design_requests WHERE ` + column + ` = $1`
	if err := r.db.GetContext(ctx, &row, query, value); err != nil {
		return nil, getErr(err, apperror.ErrDesignRequestNotFound, "failed to load design request")
	}
	return row.toEntity(), nil
}

func (r *DesignRequestRepository) List(ctx context.Context, f repository.DesignRequestFilter) ([]*entity.DesignRequest, error) {
	var w where
	if f.CustomerID != nil {
		w.add("customer_id = $%d", *f.CustomerID)
	}
	if f.DesignerID != nil {
		w.add("designer_id = $%d", *f.DesignerID)
	}
	if f.ConsultantID != nil {
		w.add("consultant_id = $%d", *f.ConsultantID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}

	var rows []designRequestRow
	query := `SELECT ` + designRequestColumns + ` FROM design_requests` + w.page("created_at DESC", f.Page)
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list design requests")
	}

	out := make([]*entity.DesignRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
