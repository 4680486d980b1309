package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vo "github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		role    vo.Role
		kind    vo.EntityKind
		from    string
		to      string
		allowed bool
		reason  apperror.ErrorCode
	}{
		{
			name:    "consultant picks up pending consultation",
			role:    vo.RoleConsultant,
			kind:    vo.EntityConsultation,
			from:    string(vo.ConsultationPending),
			to:      string(vo.ConsultationInProgress),
			allowed: true,
		},
		{
			name:   "customer cannot move consultation",
			role:   vo.RoleCustomer,
			kind:   vo.EntityConsultation,
			from:   string(vo.ConsultationPending),
			to:     string(vo.ConsultationInProgress),
			reason: apperror.ErrCodeForbidden,
		},
		{
			name:   "consultant skipping in progress is a precondition failure",
			role:   vo.RoleConsultant,
			kind:   vo.EntityConsultation,
			from:   string(vo.ConsultationPending),
			to:     string(vo.ConsultationCompleted),
			reason: apperror.ErrCodePreconditionFailed,
		},
		{
			name:    "manager cancels in progress consultation",
			role:    vo.RoleManager,
			kind:    vo.EntityConsultation,
			from:    string(vo.ConsultationInProgress),
			to:      string(vo.ConsultationCancelled),
			allowed: true,
		},
		{
			name:    "manager cancels consultation stuck in design",
			role:    vo.RoleManager,
			kind:    vo.EntityConsultation,
			from:    string(vo.ConsultationProceedDesign),
			to:      string(vo.ConsultationCancelled),
			allowed: true,
		},
		{
			name:   "manager cannot cancel completed consultation",
			role:   vo.RoleManager,
			kind:   vo.EntityConsultation,
			from:   string(vo.ConsultationCompleted),
			to:     string(vo.ConsultationCancelled),
			reason: apperror.ErrCodePreconditionFailed,
		},
		{
			name:    "designer resubmits a rejected design",
			role:    vo.RoleDesigner,
			kind:    vo.EntityDesignRequest,
			from:    string(vo.DesignRejected),
			to:      string(vo.DesignPendingReview),
			allowed: true,
		},
		{
			name:   "designer cannot approve",
			role:   vo.RoleDesigner,
			kind:   vo.EntityDesignRequest,
			from:   string(vo.DesignPendingCustomerApproval),
			to:     string(vo.DesignApproved),
			reason: apperror.ErrCodeForbidden,
		},
		{
			name:    "customer approves design",
			role:    vo.RoleCustomer,
			kind:    vo.EntityDesignRequest,
			from:    string(vo.DesignPendingCustomerApproval),
			to:      string(vo.DesignApproved),
			allowed: true,
		},
		{
			name:   "consultant cannot mark technically completed",
			role:   vo.RoleConsultant,
			kind:   vo.EntityProject,
			from:   string(vo.ProjectInProgress),
			to:     string(vo.ProjectTechnicallyCompleted),
			reason: apperror.ErrCodeForbidden,
		},
		{
			name:    "manager marks technically completed",
			role:    vo.RoleManager,
			kind:    vo.EntityProject,
			from:    string(vo.ProjectInProgress),
			to:      string(vo.ProjectTechnicallyCompleted),
			allowed: true,
		},
		{
			name:   "completed project cannot be cancelled",
			role:   vo.RoleManager,
			kind:   vo.EntityProject,
			from:   string(vo.ProjectCompleted),
			to:     string(vo.ProjectCancelled),
			reason: apperror.ErrCodePreconditionFailed,
		},
		{
			name:    "system records a deposit",
			role:    vo.RoleSystem,
			kind:    vo.EntityPayment,
			from:    string(vo.PaymentUnpaid),
			to:      string(vo.PaymentDepositPaid),
			allowed: true,
		},
		{
			name:   "payment cannot skip the deposit",
			role:   vo.RoleManager,
			kind:   vo.EntityPayment,
			from:   string(vo.PaymentUnpaid),
			to:     string(vo.PaymentFullyPaid),
			reason: apperror.ErrCodePreconditionFailed,
		},
		{
			name:   "payment never moves backwards",
			role:   vo.RoleSystem,
			kind:   vo.EntityPayment,
			from:   string(vo.PaymentFullyPaid),
			to:     string(vo.PaymentDepositPaid),
			reason: apperror.ErrCodePreconditionFailed,
		},
		{
			name:   "customer cannot pay through the workflow",
			role:   vo.RoleCustomer,
			kind:   vo.EntityPayment,
			from:   string(vo.PaymentUnpaid),
			to:     string(vo.PaymentDepositPaid),
			reason: apperror.ErrCodeForbidden,
		},
		{
			name:    "customer cancels pending maintenance",
			role:    vo.RoleCustomer,
			kind:    vo.EntityMaintenance,
			from:    string(vo.RequestPending),
			to:      string(vo.RequestCancelled),
			allowed: true,
		},
		{
			name:   "customer cannot cancel confirmed maintenance",
			role:   vo.RoleCustomer,
			kind:   vo.EntityMaintenance,
			from:   string(vo.RequestConfirmed),
			to:     string(vo.RequestCancelled),
			reason: apperror.ErrCodePreconditionFailed,
		},
		{
			name:    "constructor starts scheduled work",
			role:    vo.RoleConstructor,
			kind:    vo.EntityMaintenanceWork,
			from:    string(vo.MaintenanceScheduled),
			to:      string(vo.MaintenanceInProgress),
			allowed: true,
		},
		{
			name:   "unknown pair is denied",
			role:   vo.RoleDesigner,
			kind:   vo.EntityMaintenance,
			from:   string(vo.RequestPending),
			to:     string(vo.RequestConfirmed),
			reason: apperror.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanTransition(tt.role, tt.kind, tt.from, tt.to)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestTransition_ReturnsAppError(t *testing.T) {
	err := Transition(vo.RoleCustomer, vo.EntityProject, vo.ProjectPending, vo.ProjectApproved)
	assert.True(t, apperror.IsForbidden(err))

	err = Transition(vo.RoleManager, vo.EntityProject, vo.ProjectPending, vo.ProjectCompleted)
	assert.True(t, apperror.IsPreconditionFailed(err))

	assert.NoError(t, Transition(vo.RoleManager, vo.EntityProject, vo.ProjectPending, vo.ProjectApproved))
}

func TestCanPerform(t *testing.T) {
	assert.True(t, CanPerform(vo.RoleCustomer, vo.EntityConsultation, ActionCreate).Allowed)
	assert.True(t, CanPerform(vo.RoleConstructor, vo.EntityProjectTask, ActionUpdateTask).Allowed)
	assert.True(t, CanPerform(vo.RoleManager, vo.EntityProject, ActionAssignConstructor).Allowed)

	d := CanPerform(vo.RoleConsultant, vo.EntityProject, ActionAssignConstructor)
	assert.False(t, d.Allowed)
	assert.Equal(t, apperror.ErrCodeForbidden, d.Reason)

	assert.Error(t, Perform(vo.RoleDesigner, vo.EntityReview, ActionCreate))
	assert.NoError(t, Perform(vo.RoleCustomer, vo.EntityReview, ActionCreate))
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Decision{Allowed: true}.Err("ignored"))

	err := Decision{Reason: apperror.ErrCodePreconditionFailed}.Err("nope")
	assert.Equal(t, apperror.ErrCodePreconditionFailed, apperror.CodeOf(err))
}

func TestTargets(t *testing.T) {
	got := Targets(vo.RoleManager, vo.EntityProject, string(vo.ProjectInProgress))
	assert.ElementsMatch(t, []string{
		string(vo.ProjectOnHold),
		string(vo.ProjectTechnicallyCompleted),
		string(vo.ProjectCancelled),
	}, got)

	assert.Empty(t, Targets(vo.RoleCustomer, vo.EntityProject, string(vo.ProjectPending)))
}
