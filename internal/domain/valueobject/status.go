package valueobject

import "github.com/koicare/pondflow/internal/pkg/apperror"

type ConsultationStatus string

const (
	ConsultationPending       ConsultationStatus = "PENDING"
	ConsultationInProgress    ConsultationStatus = "IN_PROGRESS"
	ConsultationProceedDesign ConsultationStatus = "PROCEED_DESIGN"
	ConsultationCompleted     ConsultationStatus = "COMPLETED"
	ConsultationCancelled     ConsultationStatus = "CANCELLED"
)

func (s ConsultationStatus) IsValid() bool {
	switch s {
	case ConsultationPending, ConsultationInProgress, ConsultationProceedDesign, ConsultationCompleted, ConsultationCancelled:
		return true
	}
	return false
}

func (s ConsultationStatus) IsTerminal() bool {
	return s == ConsultationCompleted || s == ConsultationCancelled
}

func NewConsultationStatus(status string) (ConsultationStatus, error) {
	s := ConsultationStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid consultation status")
	}
	return s, nil
}

type DesignRequestStatus string

const (
	DesignPendingAssignment       DesignRequestStatus = "PENDING_ASSIGNMENT"
	DesignAssigned                DesignRequestStatus = "ASSIGNED"
	DesignInProgress              DesignRequestStatus = "IN_PROGRESS"
	DesignPendingReview           DesignRequestStatus = "PENDING_REVIEW"
	DesignPendingCustomerApproval DesignRequestStatus = "PENDING_CUSTOMER_APPROVAL"
	DesignApproved                DesignRequestStatus = "APPROVED"
	DesignRejected                DesignRequestStatus = "REJECTED"
)

func (s DesignRequestStatus) IsValid() bool {
	switch s {
	case DesignPendingAssignment, DesignAssigned, DesignInProgress, DesignPendingReview,
		DesignPendingCustomerApproval, DesignApproved, DesignRejected:
		return true
	}
	return false
}

// RequiresDesigner reports whether a designer must already be assigned in this status.
func (s DesignRequestStatus) RequiresDesigner() bool {
	return s != DesignPendingAssignment
}

func NewDesignRequestStatus(status string) (DesignRequestStatus, error) {
	s := DesignRequestStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid design request status")
	}
	return s, nil
}

type ProjectStatus string

const (
	ProjectPending              ProjectStatus = "PENDING"
	ProjectApproved             ProjectStatus = "APPROVED"
	ProjectPlanning             ProjectStatus = "PLANNING"
	ProjectInProgress           ProjectStatus = "IN_PROGRESS"
	ProjectOnHold               ProjectStatus = "ON_HOLD"
	ProjectTechnicallyCompleted ProjectStatus = "TECHNICALLY_COMPLETED"
	ProjectCompleted            ProjectStatus = "COMPLETED"
	ProjectCancelled            ProjectStatus = "CANCELLED"
	ProjectMaintenance          ProjectStatus = "MAINTENANCE"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPending, ProjectApproved, ProjectPlanning, ProjectInProgress, ProjectOnHold,
		ProjectTechnicallyCompleted, ProjectCompleted, ProjectCancelled, ProjectMaintenance:
		return true
	}
	return false
}

// IsClosed is true once the project can no longer be cancelled or built on.
func (s ProjectStatus) IsClosed() bool {
	switch s {
	case ProjectCompleted, ProjectCancelled, ProjectMaintenance:
		return true
	}
	return false
}

// ReachedTechnicalCompletion is true for TECHNICALLY_COMPLETED and every later status.
func (s ProjectStatus) ReachedTechnicalCompletion() bool {
	switch s {
	case ProjectTechnicallyCompleted, ProjectCompleted, ProjectMaintenance:
		return true
	}
	return false
}

// RequiresConstructor reports whether a constructor must be assigned before entering s.
func (s ProjectStatus) RequiresConstructor() bool {
	switch s {
	case ProjectInProgress, ProjectOnHold, ProjectTechnicallyCompleted, ProjectCompleted, ProjectMaintenance:
		return true
	}
	return false
}

// AcceptsTaskUpdates reports whether construction tasks may change. Progress
// is recorded only while construction is running.
func (s ProjectStatus) AcceptsTaskUpdates() bool {
	return s == ProjectInProgress
}

// AcceptsMaintenance reports whether maintenance may be requested for the project.
func (s ProjectStatus) AcceptsMaintenance() bool {
	return s.ReachedTechnicalCompletion()
}

func NewProjectStatus(status string) (ProjectStatus, error) {
	s := ProjectStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid project status")
	}
	return s, nil
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestCompleted RequestStatus = "COMPLETED"
	RequestCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestConfirmed, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted || s == RequestCancelled
}

func NewRequestStatus(status string) (RequestStatus, error) {
	s := RequestStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid maintenance request status")
	}
	return s, nil
}

type MaintenanceStatus string

const (
	MaintenanceUnassigned MaintenanceStatus = "UNASSIGNED"
	MaintenanceAssigned   MaintenanceStatus = "ASSIGNED"
	MaintenanceScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
)

func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceUnassigned, MaintenanceAssigned, MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted:
		return true
	}
	return false
}

func NewMaintenanceStatus(status string) (MaintenanceStatus, error) {
	s := MaintenanceStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "invalid maintenance status")
	}
	return s, nil
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskInProcess TaskStatus = "IN_PROCESS"
	TaskCompleted TaskStatus = "COMPLETED"
)
