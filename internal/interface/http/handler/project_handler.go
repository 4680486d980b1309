package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/interface/http/dto"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/usecase/project"
)

type ProjectHandler struct {
	createUC   *project.CreateProjectUseCase
	workflowUC *project.WorkflowUseCase
	queryUC    *project.QueryUseCase
}

func NewProjectHandler(
	createUC *project.CreateProjectUseCase,
	workflowUC *project.WorkflowUseCase,
	queryUC *project.QueryUseCase,
) *ProjectHandler {
	return &ProjectHandler{createUC: createUC, workflowUC: workflowUC, queryUC: queryUC}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if !bind(c, &req) {
		return
	}
	designRequestID, err := dto.ParseOptionalUUID(req.DesignRequestID)
	if err != nil {
		response.BadRequest(c, "invalid design_request_id")
		return
	}
	consultationID, err := dto.ParseOptionalUUID(req.ConsultationID)
	if err != nil {
		response.BadRequest(c, "invalid consultation_id")
		return
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "invalid start_date")
		return
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		response.BadRequest(c, "invalid end_date")
		return
	}

	p, err := h.createUC.Execute(c.Request.Context(), project.CreateProjectInput{
		Actor:           a,
		DesignRequestID: designRequestID,
		ConsultationID:  consultationID,
		Name:            req.Name,
		Description:     req.Description,
		TotalPrice:      req.TotalPrice,
		DepositAmount:   req.DepositAmount,
		StartDate:       start,
		EndDate:         end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToProjectResponse(p))
}

func (h *ProjectHandler) Get(c *gin.Context) {
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

func (h *ProjectHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	constructorID, ok := queryUUID(c, "constructor_id")
	if !ok {
		return
	}
	filter := repository.ProjectFilter{
		ConstructorID: constructorID,
		Status:        c.Query("status"),
		Page:          pageFrom(c),
	}

	items, err := h.queryUC.List(c.Request.Context(), a, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, lo.Map(items, func(item *entity.Project, _ int) dto.ProjectResponse {
		return dto.ToProjectResponse(item)
	}), len(items), filter.Limit, filter.Offset)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if !bind(c, &req) {
		return
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "invalid start_date")
		return
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		response.BadRequest(c, "invalid end_date")
		return
	}

	h.respond(c)(h.workflowUC.UpdateDetails(c.Request.Context(), a, id, project.UpdateDetailsInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	}))
}

func (h *ProjectHandler) AssignConstructor(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignConstructorRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.AssignConstructor(c.Request.Context(), a, id, uuid.MustParse(req.ConstructorID)))
}

func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.UpdateStatus(c.Request.Context(), a, id, valueobject.ProjectStatus(req.Status), req.Reason))
}

func (h *ProjectHandler) Cancel(c *gin.Context) {
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

func (h *ProjectHandler) Complete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	h.respond(c)(h.workflowUC.Complete(c.Request.Context(), a, id))
}

func (h *ProjectHandler) MarkTechnicallyCompleted(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	h.respond(c)(h.workflowUC.MarkTechnicallyCompleted(c.Request.Context(), a, id))
}

// UpdateTask handles PUT /tasks/:taskId.
func (h *ProjectHandler) UpdateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bind(c, &req) {
		return
	}

	task, err := h.workflowUC.UpdateTask(c.Request.Context(), a, taskID, *req.CompletionPercentage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToTaskResponse(task))
}

func (h *ProjectHandler) respond(c *gin.Context) func(*entity.Project, error) {
	return func(p *entity.Project, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.ToProjectResponse(p))
	}
}
