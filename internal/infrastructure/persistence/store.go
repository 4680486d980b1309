package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

const uniqueViolation = "23505"

// NewStore returns PostgreSQL-backed repositories sharing one pool.
func NewStore(db *sqlx.DB) repository.Store {
	return repository.Store{
		Consultations:  NewConsultationRepository(db),
		Designs:        NewDesignRepository(db),
		DesignRequests: NewDesignRequestRepository(db),
		Projects:       NewProjectRepository(db),
		Maintenance:    NewMaintenanceRepository(db),
		Reviews:        NewReviewRepository(db),
	}
}

// WithTransaction runs fn in a transaction, rolling back on error or panic.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// insertErr maps a unique violation to CONFLICT with the given message.
func insertErr(err error, conflictMsg, failMsg string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperror.Wrap(err, apperror.ErrCodeConflict, conflictMsg)
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, failMsg)
}

func getErr(err error, notFound error, failMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, failMsg)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// versionedUpdate runs an UPDATE whose WHERE clause ends in
// "id = $1 AND version = $2". When no row matched it tells a missing row
// apart from a stale version.
func versionedUpdate(ctx context.Context, q execer, table string, notFound error, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update "+table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update "+table)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := q.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = $1)", args[0]); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update "+table)
	}
	if !exists {
		return notFound
	}
	return apperror.ErrStaleVersion
}

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends ORDER BY and LIMIT/OFFSET.
func (w *where) page(orderBy string, p repository.Page) string {
	p = p.Normalize()
	w.args = append(w.args, p.Limit, p.Offset)
	return fmt.Sprintf("%s ORDER BY %s LIMIT $%d OFFSET $%d", w.String(), orderBy, len(w.args)-1, len(w.args))
}
