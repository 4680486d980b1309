package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/pkg/apperror"
)

func TestNewPricing(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		deposit int64
		wantErr bool
	}{
		{"valid", 1_000_000, 300_000, false},
		{"deposit above total", 1_000_000, 1_200_000, true},
		{"deposit equal to total", 1_000_000, 1_000_000, true},
		{"deposit below minimum", 1_000_000, 500, true},
		{"zero total", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPricing(tt.total, tt.deposit, 1000)
			if tt.wantErr {
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.total-tt.deposit, p.Remaining())
			assert.Equal(t, DefaultCurrency, p.Total.Currency)
		})
	}
}

func TestNewTaskProgress(t *testing.T) {
	for _, pct := range []int{0, 25, 50, 75, 100} {
		p, err := NewTaskProgress(pct)
		require.NoError(t, err)
		assert.Equal(t, TaskProgress(pct), p)
	}
	for _, pct := range []int{-25, 10, 101, 125} {
		_, err := NewTaskProgress(pct)
		assert.True(t, apperror.IsValidation(err), "percentage %d", pct)
	}
}

func TestTaskProgressStatus(t *testing.T) {
	assert.Equal(t, TaskPending, TaskProgress(0).Status())
	assert.Equal(t, TaskInProcess, TaskProgress(50).Status())
	assert.Equal(t, TaskCompleted, TaskProgress(100).Status())
}

func TestPaymentStatusOrder(t *testing.T) {
	assert.True(t, PaymentUnpaid.CanTransitionTo(PaymentDepositPaid))
	assert.True(t, PaymentDepositPaid.CanTransitionTo(PaymentFullyPaid))
	assert.False(t, PaymentUnpaid.CanTransitionTo(PaymentFullyPaid))
	assert.False(t, PaymentFullyPaid.CanTransitionTo(PaymentDepositPaid))
	assert.False(t, PaymentDepositPaid.CanTransitionTo(PaymentDepositPaid))
}

func TestAmountKind(t *testing.T) {
	k, err := NewAmountKind("deposit")
	require.NoError(t, err)
	assert.Equal(t, PaymentDepositPaid, k.Target())

	k, err = NewAmountKind("final")
	require.NoError(t, err)
	assert.Equal(t, PaymentFullyPaid, k.Target())

	_, err = NewAmountKind("tip")
	assert.Error(t, err)
}

func TestProjectStatusPredicates(t *testing.T) {
	assert.True(t, ProjectInProgress.AcceptsTaskUpdates())
	for _, s := range []ProjectStatus{
		ProjectPending, ProjectApproved, ProjectPlanning, ProjectOnHold,
		ProjectTechnicallyCompleted, ProjectCompleted, ProjectMaintenance, ProjectCancelled,
	} {
		assert.False(t, s.AcceptsTaskUpdates(), s)
	}

	assert.False(t, ProjectInProgress.AcceptsMaintenance())
	assert.True(t, ProjectTechnicallyCompleted.AcceptsMaintenance())
	assert.True(t, ProjectCompleted.AcceptsMaintenance())

	assert.True(t, ProjectInProgress.RequiresConstructor())
	assert.False(t, ProjectPlanning.RequiresConstructor())
}

func TestNewRole(t *testing.T) {
	r, err := NewRole("MANAGER")
	require.NoError(t, err)
	assert.True(t, r.IsStaff())

	_, err = NewRole("ADMIN")
	assert.Error(t, err)

	assert.False(t, RoleCustomer.IsStaff())
	assert.False(t, RoleSystem.IsStaff())
}
