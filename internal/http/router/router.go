package router

import (
	"github.com/gin-gonic/gin"

	"github.com/koicare/pondflow/internal/auth"
	"github.com/koicare/pondflow/internal/config"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/http/middleware"
	"github.com/koicare/pondflow/internal/interface/http/handler"
	"github.com/koicare/pondflow/internal/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Consultation *handler.ConsultationHandler
	Design       *handler.DesignHandler
	Project      *handler.ProjectHandler
	Maintenance  *handler.MaintenanceHandler
	Review       *handler.ReviewHandler
	Payment      *handler.PaymentHandler
	WS           *handler.WSHandler
	Health       *handler.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens *auth.TokenManager, m *metrics.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	// Public
	api.GET("/ws", h.WS.Handle)
	api.GET("/reviews", h.Review.List)
	api.GET("/designs/:id", middleware.UUIDValidator("id"), h.Design.GetDesign)
	api.POST("/payments/callback", h.Payment.Callback)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.POST("/designs", h.Design.CreateCatalogDesign)

		protected.POST("/consultations", h.Consultation.Create)
		protected.GET("/consultations", h.Consultation.List)
		protected.GET("/consultations/:id", middleware.UUIDValidator("id"), h.Consultation.Get)
		protected.PUT("/consultations/:id/status", middleware.UUIDValidator("id"), h.Consultation.UpdateStatus)
		protected.POST("/consultations/:id/cancel", middleware.UUIDValidator("id"), h.Consultation.Cancel)

		protected.POST("/design-requests", h.Design.CreateRequest)
		protected.GET("/design-requests", h.Design.List)
		protected.GET("/design-requests/:id", middleware.UUIDValidator("id"), h.Design.Get)
		protected.POST("/design-requests/:id/assign", middleware.UUIDValidator("id"), h.Design.Assign)
		protected.POST("/design-requests/:id/start", middleware.UUIDValidator("id"), h.Design.StartWork)
		protected.POST("/design-requests/:id/submit", middleware.UUIDValidator("id"), h.Design.Submit)
		protected.POST("/design-requests/:id/review", middleware.UUIDValidator("id"), h.Design.ConsultantReview)
		protected.POST("/design-requests/:id/approval", middleware.UUIDValidator("id"), h.Design.CustomerApproval)

		protected.POST("/projects", h.Project.Create)
		protected.GET("/projects", h.Project.List)
		protected.GET("/projects/:id", middleware.UUIDValidator("id"), h.Project.Get)
		protected.PUT("/projects/:id", middleware.UUIDValidator("id"), h.Project.Update)
		protected.POST("/projects/:id/constructor", middleware.UUIDValidator("id"), h.Project.AssignConstructor)
		protected.PUT("/projects/:id/status", middleware.UUIDValidator("id"), h.Project.UpdateStatus)
		protected.POST("/projects/:id/technical-completion", middleware.UUIDValidator("id"), h.Project.MarkTechnicallyCompleted)
		protected.POST("/projects/:id/complete", middleware.UUIDValidator("id"), h.Project.Complete)
		protected.POST("/projects/:id/cancel", middleware.UUIDValidator("id"), h.Project.Cancel)
		protected.POST("/projects/:id/payments", middleware.UUIDValidator("id"), h.Payment.Mark(valueobject.EntityProject))
		protected.PUT("/tasks/:taskId", middleware.UUIDValidator("taskId"), h.Project.UpdateTask)

		protected.POST("/maintenance-requests", h.Maintenance.Create)
		protected.GET("/maintenance-requests", h.Maintenance.List)
		protected.GET("/maintenance-requests/:id", middleware.UUIDValidator("id"), h.Maintenance.Get)
		protected.POST("/maintenance-requests/:id/confirm", middleware.UUIDValidator("id"), h.Maintenance.Confirm)
		protected.POST("/maintenance-requests/:id/reject", middleware.UUIDValidator("id"), h.Maintenance.Reject)
		protected.POST("/maintenance-requests/:id/cancel", middleware.UUIDValidator("id"), h.Maintenance.Cancel)
		protected.POST("/maintenance-requests/:id/assign", middleware.UUIDValidator("id"), h.Maintenance.AssignStaff)
		protected.POST("/maintenance-requests/:id/schedule", middleware.UUIDValidator("id"), h.Maintenance.Schedule)
		protected.POST("/maintenance-requests/:id/start", middleware.UUIDValidator("id"), h.Maintenance.Start)
		protected.POST("/maintenance-requests/:id/complete", middleware.UUIDValidator("id"), h.Maintenance.Complete)
		protected.POST("/maintenance-requests/:id/payments", middleware.UUIDValidator("id"), h.Payment.Mark(valueobject.EntityMaintenance))

		protected.POST("/reviews", h.Review.Create)
	}

	return r
}
