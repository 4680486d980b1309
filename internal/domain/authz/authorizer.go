// Package authz holds the single table of who may move which entity from
// which status to which status. Every workflow operation consults it before
// mutating state; pairs that are not listed here are denied.
package authz

import (
	"fmt"

	"github.com/samber/lo"

	vo "github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// Action names an operation that does not change a lifecycle status.
type Action string

const (
	ActionCreate            Action = "create"
	ActionUpdateDetails     Action = "update_details"
	ActionAssignConstructor Action = "assign_constructor"
	ActionUpdateTask        Action = "update_task"
)

// Decision is the outcome of an authorization lookup. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  apperror.ErrorCode
}

// Err converts a denial into an application error; it returns nil when allowed.
func (d Decision) Err(message string) error {
	if d.Allowed {
		return nil
	}
	return apperror.New(d.Reason, message)
}

type key struct {
	kind vo.EntityKind
	role vo.Role
}

type edge struct {
	from string
	to   string
}

// from lists the edges leaving one status.
func from[S ~string](src S, targets ...S) []edge {
	return lo.Map(targets, func(dst S, _ int) edge {
		return edge{from: string(src), to: string(dst)}
	})
}

// into lists the edges entering one status from each of sources.
func into[S ~string](dst S, sources ...S) []edge {
	return lo.Map(sources, func(src S, _ int) edge {
		return edge{from: string(src), to: string(dst)}
	})
}

func edges(groups ...[]edge) []edge {
	return lo.Flatten(groups)
}

var projectCancellable = []vo.ProjectStatus{
	vo.ProjectPending, vo.ProjectApproved, vo.ProjectPlanning, vo.ProjectInProgress,
	vo.ProjectOnHold, vo.ProjectTechnicallyCompleted,
}

var paymentEdges = edges(
	from(vo.PaymentUnpaid, vo.PaymentDepositPaid),
	from(vo.PaymentDepositPaid, vo.PaymentFullyPaid),
)

var transitions = map[key][]edge{
	{vo.EntityConsultation, vo.RoleConsultant}: edges(
		from(vo.ConsultationPending, vo.ConsultationInProgress),
		from(vo.ConsultationInProgress, vo.ConsultationProceedDesign, vo.ConsultationCompleted),
		from(vo.ConsultationProceedDesign, vo.ConsultationCompleted),
	),
	{vo.EntityConsultation, vo.RoleManager}: edges(
		into(vo.ConsultationCancelled, vo.ConsultationPending, vo.ConsultationInProgress, vo.ConsultationProceedDesign),
	),

	{vo.EntityDesignRequest, vo.RoleManager}: edges(
		from(vo.DesignPendingAssignment, vo.DesignAssigned),
	),
	{vo.EntityDesignRequest, vo.RoleDesigner}: edges(
		from(vo.DesignAssigned, vo.DesignInProgress),
		into(vo.DesignPendingReview, vo.DesignAssigned, vo.DesignInProgress, vo.DesignRejected),
	),
	{vo.EntityDesignRequest, vo.RoleConsultant}: edges(
		from(vo.DesignPendingReview, vo.DesignPendingCustomerApproval, vo.DesignAssigned, vo.DesignRejected),
	),
	{vo.EntityDesignRequest, vo.RoleCustomer}: edges(
		from(vo.DesignPendingCustomerApproval, vo.DesignApproved, vo.DesignRejected),
	),

	{vo.EntityProject, vo.RoleConsultant}: edges(
		from(vo.ProjectPending, vo.ProjectApproved),
		from(vo.ProjectInProgress, vo.ProjectOnHold),
		from(vo.ProjectOnHold, vo.ProjectInProgress),
		into(vo.ProjectCancelled, projectCancellable...),
	),
	{vo.EntityProject, vo.RoleManager}: edges(
		from(vo.ProjectPending, vo.ProjectApproved),
		from(vo.ProjectApproved, vo.ProjectPlanning),
		from(vo.ProjectPlanning, vo.ProjectInProgress),
		from(vo.ProjectInProgress, vo.ProjectOnHold, vo.ProjectTechnicallyCompleted),
		from(vo.ProjectOnHold, vo.ProjectInProgress),
		from(vo.ProjectTechnicallyCompleted, vo.ProjectCompleted),
		from(vo.ProjectCompleted, vo.ProjectMaintenance),
		into(vo.ProjectCancelled, projectCancellable...),
	),

	{vo.EntityPayment, vo.RoleManager}: paymentEdges,
	{vo.EntityPayment, vo.RoleSystem}:  paymentEdges,

	{vo.EntityMaintenance, vo.RoleCustomer}: edges(
		from(vo.RequestPending, vo.RequestCancelled),
	),
	{vo.EntityMaintenance, vo.RoleConsultant}: edges(
		from(vo.RequestPending, vo.RequestConfirmed, vo.RequestCancelled),
	),
	{vo.EntityMaintenance, vo.RoleManager}: edges(
		from(vo.RequestPending, vo.RequestConfirmed, vo.RequestCancelled),
		from(vo.RequestConfirmed, vo.RequestCompleted),
	),
	{vo.EntityMaintenance, vo.RoleConstructor}: edges(
		from(vo.RequestConfirmed, vo.RequestCompleted),
	),

	{vo.EntityMaintenanceWork, vo.RoleConsultant}: edges(
		from(vo.MaintenanceUnassigned, vo.MaintenanceAssigned),
		from(vo.MaintenanceAssigned, vo.MaintenanceScheduled),
	),
	{vo.EntityMaintenanceWork, vo.RoleManager}: edges(
		from(vo.MaintenanceUnassigned, vo.MaintenanceAssigned),
		from(vo.MaintenanceAssigned, vo.MaintenanceScheduled),
		from(vo.MaintenanceScheduled, vo.MaintenanceInProgress),
		from(vo.MaintenanceInProgress, vo.MaintenanceCompleted),
	),
	{vo.EntityMaintenanceWork, vo.RoleConstructor}: edges(
		from(vo.MaintenanceAssigned, vo.MaintenanceScheduled),
		from(vo.MaintenanceScheduled, vo.MaintenanceInProgress),
		from(vo.MaintenanceInProgress, vo.MaintenanceCompleted),
	),
}

var actions = map[key][]Action{
	{vo.EntityPondDesign, vo.RoleDesigner}:      {ActionCreate},
	{vo.EntityPondDesign, vo.RoleManager}:       {ActionCreate},
	{vo.EntityConsultation, vo.RoleCustomer}:    {ActionCreate},
	{vo.EntityDesignRequest, vo.RoleConsultant}: {ActionCreate},
	{vo.EntityDesignRequest, vo.RoleManager}:    {ActionCreate},
	{vo.EntityProject, vo.RoleConsultant}:       {ActionCreate, ActionUpdateDetails},
	{vo.EntityProject, vo.RoleManager}:          {ActionCreate, ActionUpdateDetails, ActionAssignConstructor},
	{vo.EntityProjectTask, vo.RoleConstructor}:  {ActionUpdateTask},
	{vo.EntityProjectTask, vo.RoleManager}:      {ActionUpdateTask},
	{vo.EntityMaintenance, vo.RoleCustomer}:     {ActionCreate},
	{vo.EntityReview, vo.RoleCustomer}:          {ActionCreate},
}

// CanTransition looks up whether role may move an entity of kind from one status to another.
// A denial carries FORBIDDEN when the role can never reach the target, and
// PRECONDITION_FAILED when it could reach the target but not from the current status.
func CanTransition(role vo.Role, kind vo.EntityKind, fromStatus, toStatus string) Decision {
	table, ok := transitions[key{kind: kind, role: role}]
	if !ok {
		return Decision{Reason: apperror.ErrCodeForbidden}
	}
	if lo.Contains(table, edge{from: fromStatus, to: toStatus}) {
		return Decision{Allowed: true}
	}
	if lo.ContainsBy(table, func(e edge) bool { return e.to == toStatus }) {
		return Decision{Reason: apperror.ErrCodePreconditionFailed}
	}
	return Decision{Reason: apperror.ErrCodeForbidden}
}

// CanPerform looks up whether role may run a non-status action on kind.
func CanPerform(role vo.Role, kind vo.EntityKind, action Action) Decision {
	if lo.Contains(actions[key{kind: kind, role: role}], action) {
		return Decision{Allowed: true}
	}
	return Decision{Reason: apperror.ErrCodeForbidden}
}

// Transition is the typed form of CanTransition that returns an error ready for callers.
func Transition[S ~string](role vo.Role, kind vo.EntityKind, fromStatus, toStatus S) error {
	d := CanTransition(role, kind, string(fromStatus), string(toStatus))
	if d.Allowed {
		return nil
	}
	if d.Reason == apperror.ErrCodePreconditionFailed {
		return d.Err(fmt.Sprintf("%s cannot move from %s to %s", kind, fromStatus, toStatus))
	}
	return d.Err(fmt.Sprintf("role %s may not set %s status %s", role, kind, toStatus))
}

// Perform is the typed form of CanPerform.
func Perform(role vo.Role, kind vo.EntityKind, action Action) error {
	return CanPerform(role, kind, action).Err(fmt.Sprintf("role %s may not %s %s", role, action, kind))
}

// Targets lists the statuses role may move kind to from the given status.
func Targets(role vo.Role, kind vo.EntityKind, fromStatus string) []string {
	table := transitions[key{kind: kind, role: role}]
	return lo.FilterMap(table, func(e edge, _ int) (string, bool) {
		return e.to, e.from == fromStatus
	})
}
