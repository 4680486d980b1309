package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/koicare/pondflow/internal/auth"
	"github.com/koicare/pondflow/internal/config"
	"github.com/koicare/pondflow/internal/db"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/goroutine"
	httpRouter "github.com/koicare/pondflow/internal/http/router"
	"github.com/koicare/pondflow/internal/infrastructure/memstore"
	"github.com/koicare/pondflow/internal/infrastructure/persistence"
	"github.com/koicare/pondflow/internal/interface/http/handler"
	"github.com/koicare/pondflow/internal/logger"
	"github.com/koicare/pondflow/internal/metrics"
	"github.com/koicare/pondflow/internal/pkg/callbacksig"
	"github.com/koicare/pondflow/internal/usecase"
	"github.com/koicare/pondflow/internal/usecase/consultation"
	"github.com/koicare/pondflow/internal/usecase/design"
	"github.com/koicare/pondflow/internal/usecase/maintenance"
	"github.com/koicare/pondflow/internal/usecase/payment"
	"github.com/koicare/pondflow/internal/usecase/project"
	"github.com/koicare/pondflow/internal/usecase/review"
	"github.com/koicare/pondflow/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("main: failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	store, health, closeStore := openStore(ctx, cfg)
	defer closeStore()

	policy := usecase.DefaultPolicy()
	policy.MaxRevisions = cfg.DesignMaxRevisions
	policy.MinDeposit = cfg.MinDepositAmount
	if len(cfg.ProjectTaskTemplate) > 0 {
		policy.TaskTemplate = cfg.ProjectTaskTemplate
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, 0)
	m := metrics.New()

	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	bus := event.NewBus(logger.Log)

	// Use cases.
	createConsultationUC := consultation.NewCreateConsultationUseCase(store.Consultations, store.Designs, bus)
	transitionConsultationUC := consultation.NewTransitionConsultationUseCase(store.Consultations, store.DesignRequests, bus)
	cancelConsultationUC := consultation.NewCancelConsultationUseCase(store.Consultations, store.DesignRequests, bus, policy)
	getConsultationUC := consultation.NewGetConsultationUseCase(store.Consultations)
	listConsultationsUC := consultation.NewListConsultationsUseCase(store.Consultations)

	createDesignRequestUC := design.NewCreateDesignRequestUseCase(store.Consultations, store.DesignRequests, bus)
	designWorkflowUC := design.NewWorkflowUseCase(store.DesignRequests, bus, policy)
	designQueryUC := design.NewQueryUseCase(store.DesignRequests, store.Designs)
	catalogDesignUC := design.NewCreateCatalogDesignUseCase(store.Designs)

	createProjectUC := project.NewCreateProjectUseCase(store.Projects, store.Consultations, store.DesignRequests, bus, policy)
	projectWorkflowUC := project.NewWorkflowUseCase(store.Projects, bus, policy)
	projectQueryUC := project.NewQueryUseCase(store.Projects)

	applyPaymentUC := payment.NewApplyPaymentUseCase(store.Projects, store.Maintenance, bus)

	createMaintenanceUC := maintenance.NewCreateMaintenanceUseCase(store.Maintenance, store.Projects, bus)
	maintenanceWorkflowUC := maintenance.NewWorkflowUseCase(store.Maintenance, store.Projects, bus)
	maintenanceQueryUC := maintenance.NewQueryUseCase(store.Maintenance)

	createReviewUC := review.NewCreateReviewUseCase(store.Reviews, store.Projects, store.Maintenance, bus)
	listReviewsUC := review.NewListReviewsUseCase(store.Reviews)

	// Subscribers.
	bus.Subscribe(event.ConsultationProceedDesign, createDesignRequestUC.OnProceedDesign)
	bus.SubscribeAll(ws.NewNotifier(hub).Notify)
	bus.SubscribeAll(m.Observe)

	handlers := httpRouter.Handlers{
		Consultation: handler.NewConsultationHandler(
			createConsultationUC, transitionConsultationUC, cancelConsultationUC, getConsultationUC, listConsultationsUC,
		),
		Design:      handler.NewDesignHandler(createDesignRequestUC, designWorkflowUC, designQueryUC, catalogDesignUC),
		Project:     handler.NewProjectHandler(createProjectUC, projectWorkflowUC, projectQueryUC),
		Maintenance: handler.NewMaintenanceHandler(createMaintenanceUC, maintenanceWorkflowUC, maintenanceQueryUC),
		Review:      handler.NewReviewHandler(createReviewUC, listReviewsUC),
		Payment:     handler.NewPaymentHandler(applyPaymentUC, callbacksig.NewVerifier(cfg.PaymentCallbackSecret)),
		WS:          handler.NewWSHandler(hub, tokens, cfg.AllowedOrigins),
		Health:      health,
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokens, m)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: failed to stop http server")
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"port":    cfg.HTTPPort,
		"env":     cfg.Env,
		"storage": cfg.StorageDriver,
	}).Info("main: HTTP server started")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("main: server stopped with error: %v", err)
	}
}

// openStore picks the storage driver. The returned closer is always safe to call.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, *handler.HealthHandler, func()) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Log.Warn("main: using in-memory storage, data is lost on restart")
		return memstore.New().Store(), handler.NewHealthHandler(nil), func() {}
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("main: failed to connect to database: %v", err)
	}
	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.Fatalf("main: migrations failed: %v", err)
	}

	return persistence.NewStore(dbConn), handler.NewHealthHandler(dbConn), func() { safeClose(dbConn) }
}

func safeClose(dbConn *sqlx.DB) {
	if err := dbConn.Close(); err != nil {
		logger.Log.WithError(err).Error("main: failed to close database")
	}
}
