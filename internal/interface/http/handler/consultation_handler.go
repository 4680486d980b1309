package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/interface/http/dto"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/usecase/consultation"
)

type ConsultationHandler struct {
	createUC     *consultation.CreateConsultationUseCase
	transitionUC *consultation.TransitionConsultationUseCase
	cancelUC     *consultation.CancelConsultationUseCase
	getUC        *consultation.GetConsultationUseCase
	listUC       *consultation.ListConsultationsUseCase
}

func NewConsultationHandler(
	createUC *consultation.CreateConsultationUseCase,
	transitionUC *consultation.TransitionConsultationUseCase,
	cancelUC *consultation.CancelConsultationUseCase,
	getUC *consultation.GetConsultationUseCase,
	listUC *consultation.ListConsultationsUseCase,
) *ConsultationHandler {
	return &ConsultationHandler{
		createUC:     createUC,
		transitionUC: transitionUC,
		cancelUC:     cancelUC,
		getUC:        getUC,
		listUC:       listUC,
	}
}

func (h *ConsultationHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateConsultationRequest
	if !bind(c, &req) {
		return
	}
	designID, err := dto.ParseOptionalUUID(req.DesignID)
	if err != nil {
		response.BadRequest(c, "invalid design_id")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), consultation.CreateConsultationInput{
		Actor:    a,
		DesignID: designID,
		Custom:   req.Custom(),
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToConsultationResponse(created))
}

func (h *ConsultationHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.getUC.Execute(c.Request.Context(), a, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToConsultationResponse(found))
}

func (h *ConsultationHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	consultantID, ok := queryUUID(c, "consultant_id")
	if !ok {
		return
	}
	filter := repository.ConsultationFilter{
		ConsultantID: consultantID,
		Status:       c.Query("status"),
		Page:         pageFrom(c),
	}

	items, err := h.listUC.Execute(c.Request.Context(), a, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, lo.Map(items, func(item *entity.ConsultationRequest, _ int) dto.ConsultationResponse {
		return dto.ToConsultationResponse(item)
	}), len(items), filter.Limit, filter.Offset)
}

// UpdateStatus handles PUT /consultations/:id/status. CANCELLED is routed to Cancel.
func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
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

	target := valueobject.ConsultationStatus(req.Status)
	var (
		updated *entity.ConsultationRequest
		err     error
	)
	if target == valueobject.ConsultationCancelled {
		updated, err = h.cancelUC.Execute(c.Request.Context(), a, id, req.Reason)
	} else {
		updated, err = h.transitionUC.Execute(c.Request.Context(), a, id, target)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToConsultationResponse(updated))
}

func (h *ConsultationHandler) Cancel(c *gin.Context) {
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

	updated, err := h.cancelUC.Execute(c.Request.Context(), a, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToConsultationResponse(updated))
}
