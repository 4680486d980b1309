package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/interface/http/dto"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/usecase/review"
)

type ReviewHandler struct {
	createUC *review.CreateReviewUseCase
	listUC   *review.ListReviewsUseCase
}

func NewReviewHandler(createUC *review.CreateReviewUseCase, listUC *review.ListReviewsUseCase) *ReviewHandler {
	return &ReviewHandler{createUC: createUC, listUC: listUC}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if !bind(c, &req) {
		return
	}
	projectID, err := dto.ParseOptionalUUID(req.ProjectID)
	if err != nil {
		response.BadRequest(c, "invalid project_id")
		return
	}
	maintenanceID, err := dto.ParseOptionalUUID(req.MaintenanceRequestID)
	if err != nil {
		response.BadRequest(c, "invalid maintenance_request_id")
		return
	}

	r, err := h.createUC.Execute(c.Request.Context(), review.CreateReviewInput{
		Actor:                a,
		ProjectID:            projectID,
		MaintenanceRequestID: maintenanceID,
		Rating:               req.Rating,
		Comment:              req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToReviewResponse(r))
}

// List is public: reviews are shown on project pages.
func (h *ReviewHandler) List(c *gin.Context) {
	projectID, ok := queryUUID(c, "project_id")
	if !ok {
		return
	}
	maintenanceID, ok := queryUUID(c, "maintenance_request_id")
	if !ok {
		return
	}
	customerID, ok := queryUUID(c, "customer_id")
	if !ok {
		return
	}
	filter := repository.ReviewFilter{
		ProjectID:            projectID,
		MaintenanceRequestID: maintenanceID,
		CustomerID:           customerID,
		Page:                 pageFrom(c),
	}

	items, err := h.listUC.Execute(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, lo.Map(items, func(item *entity.Review, _ int) dto.ReviewResponse {
		return dto.ToReviewResponse(item)
	}), len(items), filter.Limit, filter.Offset)
}
