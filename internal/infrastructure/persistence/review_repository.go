package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type reviewRow struct {
	ID                   uuid.UUID  `db:"id"`
	CustomerID           uuid.UUID  `db:"customer_id"`
	ProjectID            *uuid.UUID `db:"project_id"`
	MaintenanceRequestID *uuid.UUID `db:"maintenance_request_id"`
	Rating               int        `db:"rating"`
	Comment              string     `db:"comment"`
	ReviewDate           time.Time  `db:"review_date"`
}

const reviewColumns = `id, customer_id, project_id, maintenance_request_id, rating, comment, review_date`

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	query := `INSERT INTO reviews (` + reviewColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		rv.ID, rv.CustomerID, rv.ProjectID, rv.MaintenanceRequestID, rv.Rating, rv.Comment, rv.ReviewDate,
	)
	return insertErr(err, "you have already reviewed this", "failed to create review")
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var row reviewRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id); err != nil {
		return nil, getErr(err, apperror.ErrReviewNotFound, "failed to load review")
	}
	return row.toEntity(), nil
}

func (r *ReviewRepository) List(ctx context.Context, f repository.ReviewFilter) ([]*entity.Review, error) {
	var w where
	if f.ProjectID != nil {
		w.add("project_id = $%d", *f.ProjectID)
	}
	if f.MaintenanceRequestID != nil {
		w.add("maintenance_request_id = $%d", *f.MaintenanceRequestID)
	}
	if f.CustomerID != nil {
		w.add("customer_id = $%d", *f.CustomerID)
	}

	var rows []reviewRow
	query := `SELECT ` + reviewColumns + ` FROM reviews` + w.page("review_date DESC", f.Page)
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list reviews")
	}

	out := make([]*entity.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r reviewRow) toEntity() *entity.Review {
	return &entity.Review{
		ID:                   r.ID,
		CustomerID:           r.CustomerID,
		ProjectID:            r.ProjectID,
		MaintenanceRequestID: r.MaintenanceRequestID,
		Rating:               r.Rating,
		Comment:              r.Comment,
		ReviewDate:           r.ReviewDate,
	}
}
