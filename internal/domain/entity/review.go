package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/authz"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/validation"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewTarget is what a review is written about.
type ReviewTarget interface {
	reviewTarget()
}

type ProjectReviewTarget struct {
	Project *Project
}

type MaintenanceReviewTarget struct {
	Request *MaintenanceRequest
}

func (ProjectReviewTarget) reviewTarget()     {}
func (MaintenanceReviewTarget) reviewTarget() {}

// Review is write-once; there is no update path.
type Review struct {
	ID                   uuid.UUID
	CustomerID           uuid.UUID
	ProjectID            *uuid.UUID
	MaintenanceRequestID *uuid.UUID
	Rating               int
	Comment              string
	ReviewDate           time.Time
}

func NewReview(actor valueobject.Actor, target ReviewTarget, rating int, comment string) (*Review, error) {
	if err := authz.Perform(actor.Role, valueobject.EntityReview, authz.ActionCreate); err != nil {
		return nil, err
	}
	if rating < MinRating || rating > MaxRating {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "rating must be between %d and %d", MinRating, MaxRating)
	}
	comment = strings.TrimSpace(comment)
	if err := validation.ValidateOptionalText("comment", comment, validation.MaxCommentLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	r := &Review{
		ID:         uuid.New(),
		CustomerID: actor.UserID,
		Rating:     rating,
		Comment:    comment,
		ReviewDate: time.Now(),
	}

	switch t := target.(type) {
	case ProjectReviewTarget:
		if t.Project == nil {
			return nil, apperror.Validation("review target is required")
		}
		if !t.Project.IsOwnedBy(actor.UserID) {
			return nil, apperror.Forbidden("only the project's customer can review it")
		}
		if t.Project.Status != valueobject.ProjectCompleted && t.Project.Status != valueobject.ProjectMaintenance {
			return nil, apperror.Precondition("project must be completed before it can be reviewed")
		}
		id := t.Project.ID
		r.ProjectID = &id
	case MaintenanceReviewTarget:
		if t.Request == nil {
			return nil, apperror.Validation("review target is required")
		}
		if !t.Request.IsOwnedBy(actor.UserID) {
			return nil, apperror.Forbidden("only the requesting customer can review the maintenance")
		}
		if !t.Request.Reviewable() {
			return nil, apperror.Precondition("maintenance must be completed and fully paid before it can be reviewed")
		}
		id := t.Request.ID
		r.MaintenanceRequestID = &id
	default:
		return nil, apperror.Validation("review target is required")
	}

	return r, nil
}

// TargetID returns the id of the reviewed entity.
func (r *Review) TargetID() uuid.UUID {
	if r.ProjectID != nil {
		return *r.ProjectID
	}
	if r.MaintenanceRequestID != nil {
		return *r.MaintenanceRequestID
	}
	return uuid.Nil
}
