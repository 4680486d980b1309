package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/authz"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// ProjectSource is the upstream a project is converted from.
type ProjectSource interface {
	projectSource()
}

// FromDesignRequest converts an approved custom design.
type FromDesignRequest struct {
	Request *DesignRequest
}

// FromConsultation converts a completed existing-design consultation.
type FromConsultation struct {
	Consultation *ConsultationRequest
}

func (FromDesignRequest) projectSource() {}
func (FromConsultation) projectSource()  {}

type NewProjectParams struct {
	Name          string
	Description   string
	TotalPrice    int64
	DepositAmount int64
	MinDeposit    int64
	StartDate     *time.Time
	EndDate       *time.Time
}

type Project struct {
	ID                 uuid.UUID
	Name               string
	Description        string
	Pricing            valueobject.Pricing
	StartDate          *time.Time
	EndDate            *time.Time
	CustomerID         uuid.UUID
	ConsultantID       uuid.UUID
	ConstructorID      *uuid.UUID
	ConsultationID     uuid.UUID
	DesignRequestID    *uuid.UUID
	DesignID           *uuid.UUID
	Status             valueobject.ProjectStatus
	PaymentStatus      valueobject.PaymentStatus
	CancellationReason *string
	RequestedByID      *uuid.UUID
	Tasks              []*ProjectTask
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Versioned
}

// NewProject re-validates the upstream entity as it is now, so a stale
// approval can never produce a project.
func NewProject(actor valueobject.Actor, source ProjectSource, params NewProjectParams) (*Project, error) {
	if err := authz.Perform(actor.Role, valueobject.EntityProject, authz.ActionCreate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperror.Validation("project name is required")
	}
	pricing, err := valueobject.NewPricing(params.TotalPrice, params.DepositAmount, params.MinDeposit)
	if err != nil {
		return nil, err
	}
	if err := checkSchedule(params.StartDate, params.EndDate); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Project{
		ID:            uuid.New(),
		Name:          name,
		Description:   strings.TrimSpace(params.Description),
		Pricing:       pricing,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		Status:        valueobject.ProjectPending,
		PaymentStatus: valueobject.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var upstreamConsultant *uuid.UUID
	switch src := source.(type) {
	case FromDesignRequest:
		if src.Request == nil {
			return nil, apperror.Validation("a design request or consultation is required")
		}
		if !src.Request.IsApproved() {
			return nil, apperror.Precondition("design request must be approved by the customer")
		}
		requestID := src.Request.ID
		p.DesignRequestID = &requestID
		p.ConsultationID = src.Request.ConsultationID
		p.CustomerID = src.Request.CustomerID
		p.DesignID = src.Request.DesignID
		upstreamConsultant = src.Request.ConsultantID
	case FromConsultation:
		c := src.Consultation
		if c == nil {
			return nil, apperror.Validation("a design request or consultation is required")
		}
		if c.IsCustomDesign() {
			return nil, apperror.Precondition("custom design consultations convert through their design request")
		}
		if c.Status != valueobject.ConsultationCompleted {
			return nil, apperror.Precondition("consultation must be completed")
		}
		p.ConsultationID = c.ID
		p.CustomerID = c.CustomerID
		p.DesignID = c.DesignID
		upstreamConsultant = c.ConsultantID
	default:
		return nil, apperror.Validation("a design request or consultation is required")
	}

	switch {
	case actor.Is(valueobject.RoleConsultant):
		p.ConsultantID = actor.UserID
	case upstreamConsultant != nil:
		p.ConsultantID = *upstreamConsultant
	default:
		p.ConsultantID = actor.UserID
	}

	return p, nil
}

func checkSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperror.Validation("end date cannot be before start date")
	}
	return nil
}

func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.CustomerID == userID
}

func (p *Project) IsConstructor(userID uuid.UUID) bool {
	return p.ConstructorID != nil && *p.ConstructorID == userID
}

func (p *Project) touch() {
	p.UpdatedAt = time.Now()
}

// UpdateDetails edits descriptive fields. Price and deposit are fixed at creation.
func (p *Project) UpdateDetails(actor valueobject.Actor, name, description string, start, end *time.Time) error {
	if err := authz.Perform(actor.Role, valueobject.EntityProject, authz.ActionUpdateDetails); err != nil {
		return err
	}
	if p.Status.IsClosed() {
		return apperror.Precondition("project is closed")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.Validation("project name is required")
	}
	if err := checkSchedule(start, end); err != nil {
		return err
	}

	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.StartDate = start
	p.EndDate = end
	p.touch()
	return nil
}

// AssignConstructor attaches the constructor and lays out the task sequence.
func (p *Project) AssignConstructor(actor valueobject.Actor, constructorID uuid.UUID, taskNames []string) error {
	if err := authz.Perform(actor.Role, valueobject.EntityProject, authz.ActionAssignConstructor); err != nil {
		return err
	}
	if p.ConstructorID != nil {
		return apperror.Precondition("a constructor is already assigned")
	}
	if p.Status != valueobject.ProjectApproved && p.Status != valueobject.ProjectPlanning {
		return apperror.Precondition("constructor can only be assigned while the project is approved or planning")
	}
	if constructorID == uuid.Nil {
		return apperror.Validation("constructor id is required")
	}
	if len(taskNames) == 0 {
		return apperror.Validation("task template is empty")
	}

	now := time.Now()
	p.ConstructorID = &constructorID
	p.Tasks = lo.Map(taskNames, func(name string, i int) *ProjectTask {
		return newProjectTask(p.ID, i, name, now)
	})
	p.touch()
	return nil
}

// UpdateStatus routes a requested target to the operation that owns it.
func (p *Project) UpdateStatus(actor valueobject.Actor, target valueobject.ProjectStatus, reason string) error {
	switch target {
	case valueobject.ProjectCancelled:
		return p.Cancel(actor, reason)
	case valueobject.ProjectTechnicallyCompleted:
		return p.MarkTechnicallyCompleted(actor)
	case valueobject.ProjectCompleted:
		return p.Complete(actor)
	}
	return p.transition(actor, target)
}

func (p *Project) transition(actor valueobject.Actor, target valueobject.ProjectStatus) error {
	if err := authz.Transition(actor.Role, valueobject.EntityProject, p.Status, target); err != nil {
		return err
	}
	if target.RequiresConstructor() && p.ConstructorID == nil {
		return apperror.Precondition("a constructor must be assigned first")
	}
	p.Status = target
	p.touch()
	return nil
}

func (p *Project) MarkTechnicallyCompleted(actor valueobject.Actor) error {
	if err := authz.Transition(actor.Role, valueobject.EntityProject, p.Status, valueobject.ProjectTechnicallyCompleted); err != nil {
		return err
	}
	if !p.AllTasksComplete() {
		return apperror.Precondition("every construction task must be at 100 percent")
	}
	return p.transition(actor, valueobject.ProjectTechnicallyCompleted)
}

func (p *Project) Complete(actor valueobject.Actor) error {
	if err := authz.Transition(actor.Role, valueobject.EntityProject, p.Status, valueobject.ProjectCompleted); err != nil {
		if apperror.IsPreconditionFailed(err) {
			return apperror.Precondition("must be technically completed and fully paid")
		}
		return err
	}
	if !p.PaymentStatus.IsFullyPaid() {
		return apperror.Precondition("must be technically completed and fully paid")
	}
	return p.transition(actor, valueobject.ProjectCompleted)
}

func (p *Project) Cancel(actor valueobject.Actor, reason string) error {
	if err := authz.Transition(actor.Role, valueobject.EntityProject, p.Status, valueobject.ProjectCancelled); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperror.Validation("cancellation reason is required")
	}

	requestedBy := actor.UserID
	p.CancellationReason = &reason
	p.RequestedByID = &requestedBy
	p.Status = valueobject.ProjectCancelled
	p.touch()
	return nil
}

// ApplyPayment advances the payment sub-machine by the settled amount kind.
func (p *Project) ApplyPayment(actor valueobject.Actor, kind valueobject.AmountKind) error {
	target := kind.Target()
	if err := authz.Transition(actor.Role, valueobject.EntityPayment, p.PaymentStatus, target); err != nil {
		return err
	}
	if p.Status == valueobject.ProjectCancelled {
		return apperror.Precondition("project is cancelled")
	}
	if target.IsFullyPaid() && !p.Status.ReachedTechnicalCompletion() {
		return apperror.Precondition("project must be technically completed before final payment")
	}
	p.PaymentStatus = target
	p.touch()
	return nil
}

func (p *Project) MarkDepositPaid(actor valueobject.Actor) error {
	return p.ApplyPayment(actor, valueobject.AmountDeposit)
}

func (p *Project) MarkFullyPaid(actor valueobject.Actor) error {
	return p.ApplyPayment(actor, valueobject.AmountFinal)
}

// SortTasks orders tasks by sequence index.
func (p *Project) SortTasks() {
	sort.Slice(p.Tasks, func(i, j int) bool { return p.Tasks[i].Sequence < p.Tasks[j].Sequence })
}

func (p *Project) Task(taskID uuid.UUID) (*ProjectTask, int, error) {
	_, idx, ok := lo.FindIndexOf(p.Tasks, func(t *ProjectTask) bool { return t.ID == taskID })
	if !ok {
		return nil, -1, apperror.ErrTaskNotFound
	}
	return p.Tasks[idx], idx, nil
}

// CompletedPrefix is the number of leading tasks, by sequence, that are at 100.
func (p *Project) CompletedPrefix() int {
	n := 0
	for _, t := range p.Tasks {
		if !t.IsComplete() {
			break
		}
		n++
	}
	return n
}

func (p *Project) AllTasksComplete() bool {
	return len(p.Tasks) > 0 && p.CompletedPrefix() == len(p.Tasks)
}

// SetTaskProgress records progress on one task. A task opens only after every
// earlier task is complete, and a complete task cannot reopen once its
// successor has started.
func (p *Project) SetTaskProgress(actor valueobject.Actor, taskID uuid.UUID, percentage int) (*ProjectTask, error) {
	if err := authz.Perform(actor.Role, valueobject.EntityProjectTask, authz.ActionUpdateTask); err != nil {
		return nil, err
	}
	if actor.Is(valueobject.RoleConstructor) && !p.IsConstructor(actor.UserID) {
		return nil, apperror.Forbidden("project is assigned to another constructor")
	}
	progress, err := valueobject.NewTaskProgress(percentage)
	if err != nil {
		return nil, err
	}
	if !p.Status.AcceptsTaskUpdates() {
		return nil, apperror.Newf(apperror.ErrCodePreconditionFailed, "tasks can only change while the project is in progress, it is %s", p.Status)
	}

	p.SortTasks()
	task, idx, err := p.Task(taskID)
	if err != nil {
		return nil, err
	}
	if idx > p.CompletedPrefix() {
		return nil, apperror.Precondition("previous task must be completed first")
	}
	if !progress.IsComplete() && idx+1 < len(p.Tasks) && p.Tasks[idx+1].CompletionPercentage > 0 {
		return nil, apperror.Precondition("next task has already started")
	}

	task.setProgress(progress)
	p.touch()
	return task, nil
}
