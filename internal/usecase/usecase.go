// Package usecase holds what the workflow use cases share: the business
// policy values and the load, apply, save sequence every transition follows.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// Policy carries the configurable business limits.
type Policy struct {
	MaxRevisions int
	MinDeposit   int64
	TaskTemplate []string
}

var DefaultTaskTemplate = []string{
	"Site survey and excavation",
	"Liner and plumbing",
	"Filtration system",
	"Stonework and landscaping",
	"Water testing and koi introduction",
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRevisions: 3,
		MinDeposit:   1000,
		TaskTemplate: DefaultTaskTemplate,
	}
}

type versioned interface {
	GetVersion() int64
}

// Mutate loads an entity, applies fn and saves it under the version it was
// loaded with. When fn fails nothing is saved. A concurrent save between
// load and save surfaces as CONFLICT.
func Mutate[E versioned](
	ctx context.Context,
	id uuid.UUID,
	load func(context.Context, uuid.UUID) (E, error),
	save func(context.Context, E, int64) error,
	fn func(E) error,
) (E, error) {
	var zero E

	e, err := load(ctx, id)
	if err != nil {
		return zero, err
	}
	version := e.GetVersion()

	if err := fn(e); err != nil {
		return zero, err
	}
	if err := save(ctx, e, version); err != nil {
		return zero, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "failed to save changes")
	}
	return e, nil
}

// ProjectNotCancelled fails with PRECONDITION_FAILED once the project is
// cancelled. Children of a cancelled project are frozen with it.
func ProjectNotCancelled(ctx context.Context, projects repository.ProjectRepository, id uuid.UUID) error {
	p, err := projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Status == valueobject.ProjectCancelled {
		return apperror.Precondition("project is cancelled")
	}
	return nil
}
