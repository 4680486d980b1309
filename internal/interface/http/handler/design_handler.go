package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/interface/http/dto"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/usecase/design"
)

type DesignHandler struct {
	createRequestUC *design.CreateDesignRequestUseCase
	workflowUC      *design.WorkflowUseCase
	queryUC         *design.QueryUseCase
	catalogUC       *design.CreateCatalogDesignUseCase
}

func NewDesignHandler(
	createRequestUC *design.CreateDesignRequestUseCase,
	workflowUC *design.WorkflowUseCase,
	queryUC *design.QueryUseCase,
	catalogUC *design.CreateCatalogDesignUseCase,
) *DesignHandler {
	return &DesignHandler{
		createRequestUC: createRequestUC,
		workflowUC:      workflowUC,
		queryUC:         queryUC,
		catalogUC:       catalogUC,
	}
}

func (h *DesignHandler) CreateRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateDesignRequestRequest
	if !bind(c, &req) {
		return
	}

	dr, err := h.createRequestUC.Execute(c.Request.Context(), a, uuid.MustParse(req.ConsultationID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToDesignRequestResponse(dr))
}

func (h *DesignHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	dr, err := h.queryUC.Get(c.Request.Context(), a, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDesignRequestResponse(dr))
}

func (h *DesignHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	designerID, ok := queryUUID(c, "designer_id")
	if !ok {
		return
	}
	filter := repository.DesignRequestFilter{
		DesignerID: designerID,
		Status:     c.Query("status"),
		Page:       pageFrom(c),
	}

	items, err := h.queryUC.List(c.Request.Context(), a, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, lo.Map(items, func(item *entity.DesignRequest, _ int) dto.DesignRequestResponse {
		return dto.ToDesignRequestResponse(item)
	}), len(items), filter.Limit, filter.Offset)
}

func (h *DesignHandler) Assign(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignDesignerRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.Assign(c.Request.Context(), a, id, uuid.MustParse(req.DesignerID)))
}

func (h *DesignHandler) StartWork(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	h.respond(c)(h.workflowUC.StartWork(c.Request.Context(), a, id))
}

func (h *DesignHandler) Submit(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DesignArtifactRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.SubmitDesign(c.Request.Context(), a, id, design.SubmitDesignInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	}))
}

func (h *DesignHandler) ConsultantReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DecisionRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.ConsultantReview(c.Request.Context(), a, id, *req.Approved, req.Note))
}

func (h *DesignHandler) CustomerApproval(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DecisionRequest
	if !bind(c, &req) {
		return
	}

	h.respond(c)(h.workflowUC.CustomerApproval(c.Request.Context(), a, id, *req.Approved, req.Note))
}

func (h *DesignHandler) respond(c *gin.Context) func(*entity.DesignRequest, error) {
	return func(dr *entity.DesignRequest, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.ToDesignRequestResponse(dr))
	}
}

func (h *DesignHandler) CreateCatalogDesign(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req dto.DesignArtifactRequest
	if !bind(c, &req) {
		return
	}

	d, err := h.catalogUC.Execute(c.Request.Context(), a, design.SubmitDesignInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToPondDesignResponse(d))
}

func (h *DesignHandler) GetDesign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	d, err := h.queryUC.GetDesign(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPondDesignResponse(d))
}
