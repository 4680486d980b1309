package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

type projectRow struct {
	ID                 uuid.UUID  `db:"id"`
	Name               string     `db:"name"`
	Description        string     `db:"description"`
	TotalPrice         int64      `db:"total_price"`
	DepositAmount      int64      `db:"deposit_amount"`
	Currency           string     `db:"currency"`
	StartDate          *time.Time `db:"start_date"`
	EndDate            *time.Time `db:"end_date"`
	CustomerID         uuid.UUID  `db:"customer_id"`
	ConsultantID       uuid.UUID  `db:"consultant_id"`
	ConstructorID      *uuid.UUID `db:"constructor_id"`
	ConsultationID     uuid.UUID  `db:"consultation_id"`
	DesignRequestID    *uuid.UUID `db:"design_request_id"`
	DesignID           *uuid.UUID `db:"design_id"`
	Status             string     `db:"status"`
	PaymentStatus      string     `db:"payment_status"`
	CancellationReason *string    `db:"cancellation_reason"`
	RequestedByID      *uuid.UUID `db:"requested_by_id"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	Version            int64      `db:"version"`
}

type taskRow struct {
	ID                   uuid.UUID `db:"id"`
	ProjectID            uuid.UUID `db:"project_id"`
	Sequence             int       `db:"sequence"`
	Name                 string    `db:"name"`
	CompletionPercentage int       `db:"completion_percentage"`
	Status               string    `db:"status"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (r projectRow) toEntity(tasks []taskRow) *entity.Project {
	p := &entity.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Pricing: valueobject.Pricing{
			Total:   valueobject.Money{Amount: r.TotalPrice, Currency: r.Currency},
			Deposit: valueobject.Money{Amount: r.DepositAmount, Currency: r.Currency},
		},
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		CustomerID:         r.CustomerID,
		ConsultantID:       r.ConsultantID,
		ConstructorID:      r.ConstructorID,
		ConsultationID:     r.ConsultationID,
		DesignRequestID:    r.DesignRequestID,
		DesignID:           r.DesignID,
		Status:             valueobject.ProjectStatus(r.Status),
		PaymentStatus:      valueobject.PaymentStatus(r.PaymentStatus),
		CancellationReason: r.CancellationReason,
		RequestedByID:      r.RequestedByID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Tasks: lo.Map(tasks, func(t taskRow, _ int) *entity.ProjectTask {
			return &entity.ProjectTask{
				ID:                   t.ID,
				ProjectID:            t.ProjectID,
				Sequence:             t.Sequence,
				Name:                 t.Name,
				CompletionPercentage: valueobject.TaskProgress(t.CompletionPercentage),
				Status:               valueobject.TaskStatus(t.Status),
				CreatedAt:            t.CreatedAt,
				UpdatedAt:            t.UpdatedAt,
			}
		}),
	}
	p.SetVersion(r.Version)
	return p
}

const projectColumns = `id, name, description, total_price, deposit_amount, currency, start_date, end_date,
	customer_id, consultant_id, constructor_id, consultation_id, design_request_id, design_id, status,
	payment_status, cancellation_reason, requested_by_id, created_at, updated_at, version`

const taskColumns = `id, project_id, sequence, name, completion_percentage, status, created_at, updated_at`

// ProjectRepository stores a project and its tasks as one aggregate: both
// are written in a single transaction under the project's version.
type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, 1)
	`
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			p.ID, p.Name, p.Description, p.Pricing.Total.Amount, p.Pricing.Deposit.Amount, p.Pricing.Total.Currency,
			p.StartDate, p.EndDate, p.CustomerID, p.ConsultantID, p.ConstructorID, p.ConsultationID,
			p.DesignRequestID, p.DesignID, string(p.Status), string(p.PaymentStatus), p.CancellationReason,
			p.RequestedByID, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return insertErr(err, "a project already exists for this consultation", "failed to create project")
		}
		return upsertTasks(ctx, tx, p.Tasks)
	})
	if err != nil {
		return err
	}
	p.SetVersion(1)
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project, expectedVersion int64) error {
	query := `
		UPDATE projects
		SET name = $3, description = $4, start_date = $5, end_date = $6, constructor_id = $7,
		    status = $8, payment_status = $9, cancellation_reason = $10, requested_by_id = $11,
		    updated_at = $12, version = version + 1
		WHERE id = $1 AND version = $2
	`
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := versionedUpdate(ctx, tx, "projects", apperror.ErrProjectNotFound, query,
			p.ID, expectedVersion, p.Name, p.Description, p.StartDate, p.EndDate, p.ConstructorID,
			string(p.Status), string(p.PaymentStatus), p.CancellationReason, p.RequestedByID, p.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return upsertTasks(ctx, tx, p.Tasks)
	})
	if err != nil {
		return err
	}
	p.SetVersion(expectedVersion + 1)
	return nil
}

func upsertTasks(ctx context.Context, tx *sqlx.Tx, tasks []*entity.ProjectTask) error {
	query := `
		INSERT INTO project_tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET completion_percentage = EXCLUDED.completion_percentage,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
	`
	for _, t := range tasks {
		_, err := tx.ExecContext(ctx, query,
			t.ID, t.ProjectID, t.Sequence, t.Name, int(t.CompletionPercentage), string(t.Status), t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return insertErr(err, "task sequence already taken", "failed to store project task")
		}
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var row projectRow
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, getErr(err, apperror.ErrProjectNotFound, "failed to load project")
	}

	var tasks []taskRow
	if err := r.db.SelectContext(ctx, &tasks,
		`SELECT `+taskColumns+` FROM project_tasks WHERE project_id = $1 ORDER BY sequence`, id); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to load project tasks")
	}
	return row.toEntity(tasks), nil
}

func (r *ProjectRepository) FindByTaskID(ctx context.Context, taskID uuid.UUID) (*entity.Project, error) {
	var projectID uuid.UUID
	if err := r.db.GetContext(ctx, &projectID, `SELECT project_id FROM project_tasks WHERE id = $1`, taskID); err != nil {
		return nil, getErr(err, apperror.ErrTaskNotFound, "failed to load project task")
	}
	return r.FindByID(ctx, projectID)
}

func (r *ProjectRepository) List(ctx context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	var w where
	if f.CustomerID != nil {
		w.add("customer_id = $%d", *f.CustomerID)
	}
	if f.ConsultantID != nil {
		w.add("consultant_id = $%d", *f.ConsultantID)
	}
	if f.ConstructorID != nil {
		w.add("constructor_id = $%d", *f.ConstructorID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}

	var rows []projectRow
	query := `SELECT ` + projectColumns + ` FROM projects` + w.page("created_at DESC", f.Page)
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list projects")
	}
	if len(rows) == 0 {
		return []*entity.Project{}, nil
	}

	ids := lo.Map(rows, func(row projectRow, _ int) uuid.UUID { return row.ID })
	query, args, err := sqlx.In(`SELECT `+taskColumns+` FROM project_tasks WHERE project_id IN (?) ORDER BY sequence`, ids)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list project tasks")
	}
	var tasks []taskRow
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list project tasks")
	}
	byProject := lo.GroupBy(tasks, func(t taskRow) uuid.UUID { return t.ProjectID })

	return lo.Map(rows, func(row projectRow, _ int) *entity.Project {
		return row.toEntity(byProject[row.ID])
	}), nil
}
