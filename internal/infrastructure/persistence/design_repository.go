package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type designRow struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	ImageURLs   pq.StringArray `db:"image_urls"`
	CreatedBy   uuid.UUID      `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}

type DesignRepository struct {
	db *sqlx.DB
}

func NewDesignRepository(db *sqlx.DB) *DesignRepository {
	return &DesignRepository{db: db}
}

func (r *DesignRepository) Create(ctx context.Context, d *entity.PondDesign) error {
	return insertDesign(ctx, r.db, d)
}

func insertDesign(ctx context.Context, q execer, d *entity.PondDesign) error {
	query := `
		INSERT INTO pond_designs (id, name, description, image_urls, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		d.ID, d.Name, d.Description, pq.Array(d.ImageURLs), d.CreatedBy, d.CreatedAt,
	)
	return insertErr(err, "pond design already exists", "failed to store pond design")
}

func (r *DesignRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PondDesign, error) {
	var row designRow
	query := `SELECT id, name, description, image_urls, created_by, created_at, deleted_at FROM pond_designs WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, getErr(err, apperror.ErrDesignNotFound, "failed to load pond design")
	}
	return &entity.PondDesign{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		ImageURLs:   []string(row.ImageURLs),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		DeletedAt:   row.DeletedAt,
	}, nil
}
