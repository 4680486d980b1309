package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/valueobject"
)

// ProjectTask is one construction step. Tasks are ordered by Sequence and
// complete strictly in that order.
type ProjectTask struct {
	ID                   uuid.UUID
	ProjectID            uuid.UUID
	Sequence             int
	Name                 string
	CompletionPercentage valueobject.TaskProgress
	Status               valueobject.TaskStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func newProjectTask(projectID uuid.UUID, sequence int, name string, now time.Time) *ProjectTask {
	return &ProjectTask{
		ID:        uuid.New(),
		ProjectID: projectID,
		Sequence:  sequence,
		Name:      name,
		Status:    valueobject.TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *ProjectTask) IsComplete() bool {
	return t.CompletionPercentage.IsComplete()
}

func (t *ProjectTask) setProgress(p valueobject.TaskProgress) {
	t.CompletionPercentage = p
	t.Status = p.Status()
	t.UpdatedAt = time.Now()
}
