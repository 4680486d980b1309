package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/interface/http/dto"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/usecase/maintenance"
)

type MaintenanceHandler struct {
	createUC   *maintenance.CreateMaintenanceUseCase
	workflowUC *maintenance.WorkflowUseCase
	queryUC    *maintenance.QueryUseCase
}

func NewMaintenanceHandler(
	createUC *maintenance.CreateMaintenanceUseCase,
	workflowUC *maintenance.WorkflowUseCase,
	queryUC *maintenance.QueryUseCase,
) *MaintenanceHandler {
	return &MaintenanceHandler{createUC: createUC, workflowUC: workflowUC, queryUC: queryUC}
}

func (h *MaintenanceHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateMaintenanceRequest
	if !bind(c, &req) {
		return
	}

	m, err := h.createUC.Execute(c.Request.Context(), a, uuid.MustParse(req.ProjectID), req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToMaintenanceResponse(m))
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	h.respond(c)(h.queryUC.Get(c.Request.Context(), a, id))
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := queryUUID(c, "project_id")
	if !ok {
		return
	}
	assignedTo, ok := queryUUID(c, "assigned_to")
	if !ok {
		return
	}
	filter := repository.MaintenanceFilter{
		ProjectID:     projectID,
		AssignedTo:    assignedTo,
		RequestStatus: c.Query("request_status"),
		Page:          pageFrom(c),
	}

	items, err := h.queryUC.List(c.Request.Context(), a, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, lo.Map(items, func(item *entity.MaintenanceRequest, _ int) dto.MaintenanceResponse {
		return dto.ToMaintenanceResponse(item)
	}), len(items), filter.Limit, filter.Offset)
}

func (h *MaintenanceHandler) Confirm(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ConfirmMaintenanceRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.Confirm(c.Request.Context(), a, id, req.AgreedPrice))
}

func (h *MaintenanceHandler) Reject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.Reject(c.Request.Context(), a, id, req.Reason))
}

func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.Cancel(c.Request.Context(), a, id, req.Reason))
}

func (h *MaintenanceHandler) AssignStaff(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignStaffRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.AssignStaff(c.Request.Context(), a, id, uuid.MustParse(req.StaffID)))
}

func (h *MaintenanceHandler) Schedule(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ScheduleMaintenanceRequest
	if !bind(c, &req) {
		return
	}
	date, err := dto.ParseDate(&req.ScheduledDate)
	if err != nil || date == nil {
		response.BadRequest(c, "invalid scheduled_date")
		return
	}

	h.respond(c)(h.workflowUC.Schedule(c.Request.Context(), a, id, *date))
}

func (h *MaintenanceHandler) Start(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	h.respond(c)(h.workflowUC.Start(c.Request.Context(), a, id))
}

func (h *MaintenanceHandler) Complete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteMaintenanceRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.Complete(c.Request.Context(), a, id, req.Notes, req.Images))
}

func (h *MaintenanceHandler) respond(c *gin.Context) func(*entity.MaintenanceRequest, error) {
	return func(m *entity.MaintenanceRequest, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.ToMaintenanceResponse(m))
	}
}
