package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type maintenanceRow struct {
	ID                 uuid.UUID      `db:"id"`
	CustomerID         uuid.UUID      `db:"customer_id"`
	ProjectID          uuid.UUID      `db:"project_id"`
	ConsultantID       *uuid.UUID     `db:"consultant_id"`
	AssignedTo         *uuid.UUID     `db:"assigned_to"`
	Description        string         `db:"description"`
	RequestStatus      string         `db:"request_status"`
	MaintenanceStatus  string         `db:"maintenance_status"`
	PaymentStatus      string         `db:"payment_status"`
	AgreedPrice        *int64         `db:"agreed_price"`
	ScheduledDate      *time.Time     `db:"scheduled_date"`
	StartDate          *time.Time     `db:"start_date"`
	CompletionDate     *time.Time     `db:"completion_date"`
	CancellationReason *string        `db:"cancellation_reason"`
	MaintenanceNotes   *string        `db:"maintenance_notes"`
	MaintenanceImages  pq.StringArray `db:"maintenance_images"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
	Version            int64          `db:"version"`
}

func (r maintenanceRow) toEntity() *entity.MaintenanceRequest {
	m := &entity.MaintenanceRequest{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		ProjectID:          r.ProjectID,
		ConsultantID:       r.ConsultantID,
		AssignedTo:         r.AssignedTo,
		Description:        r.Description,
		RequestStatus:      valueobject.RequestStatus(r.RequestStatus),
		MaintenanceStatus:  valueobject.MaintenanceStatus(r.MaintenanceStatus),
		PaymentStatus:      valueobject.PaymentStatus(r.PaymentStatus),
		AgreedPrice:        r.AgreedPrice,
		ScheduledDate:      r.ScheduledDate,
		StartDate:          r.StartDate,
		CompletionDate:     r.CompletionDate,
		CancellationReason: r.CancellationReason,
		MaintenanceNotes:   r.MaintenanceNotes,
		MaintenanceImages:  []string(r.MaintenanceImages),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	m.SetVersion(r.Version)
	return m
}

const maintenanceColumns = `id, customer_id, project_id, consultant_id, assigned_to, description, request_status,
	maintenance_status, payment_status, agreed_price, scheduled_date, start_date, completion_date,
	cancellation_reason, maintenance_notes, maintenance_images, created_at, updated_at, version`

type MaintenanceRepository struct {
	db *sqlx.DB
}

func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, m *entity.MaintenanceRequest) error {
	query := `
		INSERT INTO maintenance_requests (` + maintenanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 1)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.CustomerID, m.ProjectID, m.ConsultantID, m.AssignedTo, m.Description, string(m.RequestStatus),
		string(m.MaintenanceStatus), string(m.PaymentStatus), m.AgreedPrice, m.ScheduledDate, m.StartDate,
		m.CompletionDate, m.CancellationReason, m.MaintenanceNotes, pq.Array(m.MaintenanceImages),
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return insertErr(err, "maintenance request already exists", "failed to create maintenance request")
	}
	m.SetVersion(1)
	return nil
}

func (r *MaintenanceRepository) Update(ctx context.Context, m *entity.MaintenanceRequest, expectedVersion int64) error {
	query := `
		UPDATE maintenance_requests
		SET consultant_id = $3, assigned_to = $4, request_status = $5, maintenance_status = $6,
		    payment_status = $7, agreed_price = $8, scheduled_date = $9, start_date = $10,
		    completion_date = $11, cancellation_reason = $12, maintenance_notes = $13,
		    maintenance_images = $14, updated_at = $15, version = version + 1
		WHERE id = $1 AND version = $2
	`
	err := versionedUpdate(ctx, r.db, "maintenance_requests", apperror.ErrMaintenanceNotFound, query,
		m.ID, expectedVersion, m.ConsultantID, m.AssignedTo, string(m.RequestStatus), string(m.MaintenanceStatus),
		string(m.PaymentStatus), m.AgreedPrice, m.ScheduledDate, m.StartDate, m.CompletionDate,
		m.CancellationReason, m.MaintenanceNotes, pq.Array(m.MaintenanceImages), m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	m.SetVersion(expectedVersion + 1)
	return nil
}

func (r *MaintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MaintenanceRequest, error) {
	var row maintenanceRow
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, getErr(err, apperror.ErrMaintenanceNotFound, "failed to load maintenance request")
	}
	return row.toEntity(), nil
}

func (r *MaintenanceRepository) List(ctx context.Context, f repository.MaintenanceFilter) ([]*entity.MaintenanceRequest, error) {
	var w where
	if f.ProjectID != nil {
		w.add("project_id = $%d", *f.ProjectID)
	}
	if f.CustomerID != nil {
		w.add("customer_id = $%d", *f.CustomerID)
	}
	if f.AssignedTo != nil {
		w.add("assigned_to = $%d", *f.AssignedTo)
	}
	if f.RequestStatus != "" {
		w.add("request_status = $%d", f.RequestStatus)
	}

	var rows []maintenanceRow
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests` + w.page("created_at DESC", f.Page)
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list maintenance requests")
	}

	out := make([]*entity.MaintenanceRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
