package valueobject

import "github.com/koicare/pondflow/internal/pkg/apperror"

const TaskProgressStep = 25

// TaskProgress is a completion percentage restricted to 0, 25, 50, 75 or 100.
type TaskProgress int

func NewTaskProgress(percentage int) (TaskProgress, error) {
	if percentage < 0 || percentage > 100 || percentage%TaskProgressStep != 0 {
		return 0, apperror.New(apperror.ErrCodeValidation, "completion percentage must be one of 0, 25, 50, 75, 100")
	}
	return TaskProgress(percentage), nil
}

func (p TaskProgress) IsComplete() bool {
	return p == 100
}

func (p TaskProgress) Status() TaskStatus {
	switch {
	case p <= 0:
		return TaskPending
	case p >= 100:
		return TaskCompleted
	default:
		return TaskInProcess
	}
}
