package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/domain/entity"
	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/repository"
	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/http/middleware"
	"github.com/koicare/pondflow/internal/infrastructure/memstore"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/pkg/callbacksig"
	"github.com/koicare/pondflow/internal/usecase"
	"github.com/koicare/pondflow/internal/usecase/consultation"
	"github.com/koicare/pondflow/internal/usecase/payment"
)

const callbackSecret = "test-callback-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// as injects an authenticated actor the way AuthMiddleware does.
func as(a *valueobject.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a != nil {
			c.Set(middleware.ContextActorKey, *a)
		}
		c.Next()
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func consultationRouter(store repository.Store, a *valueobject.Actor) *gin.Engine {
	h := NewConsultationHandler(
		consultation.NewCreateConsultationUseCase(store.Consultations, store.Designs, event.Nop{}),
		consultation.NewTransitionConsultationUseCase(store.Consultations, store.DesignRequests, event.Nop{}),
		consultation.NewCancelConsultationUseCase(store.Consultations, store.DesignRequests, event.Nop{}, usecase.DefaultPolicy()),
		consultation.NewGetConsultationUseCase(store.Consultations),
		consultation.NewListConsultationsUseCase(store.Consultations),
	)
	r := gin.New()
	r.Use(as(a))
	r.POST("/consultations", h.Create)
	r.GET("/consultations", h.List)
	r.GET("/consultations/:id", h.Get)
	r.PUT("/consultations/:id/status", h.UpdateStatus)
	return r
}

func TestConsultationHandler_Create(t *testing.T) {
	store := memstore.New().Store()
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	r := consultationRouter(store, &customer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/consultations", jsonBody(t, map[string]any{
		"custom_design": map[string]any{"preferred_style": "natural", "budget": 3000000},
		"notes":         "evenings only",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestConsultationHandler_CreateValidation(t *testing.T) {
	store := memstore.New().Store()
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	r := consultationRouter(store, &customer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/consultations", jsonBody(t, map[string]any{"notes": "no source"}))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/consultations", jsonBody(t, map[string]any{"design_id": "not-a-uuid"}))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsultationHandler_RequiresActor(t *testing.T) {
	r := consultationRouter(memstore.New().Store(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/consultations", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConsultationHandler_StatusErrorsMapToHTTP(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	customer := valueobject.NewActor(uuid.New(), valueobject.RoleCustomer)
	c, err := entity.NewConsultationRequest(customer, entity.CustomDesignSource{}, "")
	require.NoError(t, err)
	require.NoError(t, store.Consultations.Create(ctx, c))

	tests := []struct {
		name   string
		role   valueobject.Role
		path   string
		status string
		code   int
	}{
		{"customer is forbidden", valueobject.RoleCustomer, "/consultations/" + c.ID.String() + "/status", "IN_PROGRESS", http.StatusForbidden},
		{"skipping a step fails the precondition", valueobject.RoleConsultant, "/consultations/" + c.ID.String() + "/status", "COMPLETED", http.StatusPreconditionFailed},
		{"unknown consultation", valueobject.RoleConsultant, "/consultations/" + uuid.NewString() + "/status", "IN_PROGRESS", http.StatusNotFound},
		{"malformed id", valueobject.RoleConsultant, "/consultations/abc/status", "IN_PROGRESS", http.StatusBadRequest},
		{"consultant picks it up", valueobject.RoleConsultant, "/consultations/" + c.ID.String() + "/status", "IN_PROGRESS", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valueobject.NewActor(uuid.New(), tt.role)
			r := consultationRouter(store, &a)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, tt.path, jsonBody(t, map[string]string{"status": tt.status}))
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func paymentRouter(store repository.Store) *gin.Engine {
	h := NewPaymentHandler(
		payment.NewApplyPaymentUseCase(store.Projects, store.Maintenance, event.Nop{}),
		callbacksig.NewVerifier(callbackSecret),
	)
	r := gin.New()
	r.POST("/payments/callback", h.Callback)
	return r
}

func signedCallback(t *testing.T, secret string, body map[string]string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/payments/callback", bytes.NewReader(raw))
	req.Header.Set(callbacksig.Header, callbacksig.NewVerifier(secret).Sign(raw))
	return req
}

func TestPaymentCallback(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	constructorID := uuid.New()
	p := &entity.Project{
		ID:             uuid.New(),
		ConsultationID: uuid.New(),
		CustomerID:     uuid.New(),
		ConsultantID:   uuid.New(),
		ConstructorID:  &constructorID,
		Status:         valueobject.ProjectInProgress,
		PaymentStatus:  valueobject.PaymentUnpaid,
	}
	require.NoError(t, store.Projects.Create(ctx, p))
	r := paymentRouter(store)

	deposit := map[string]string{
		"entity_kind": string(valueobject.EntityProject),
		"entity_id":   p.ID.String(),
		"amount_kind": "deposit",
	}

	t.Run("forged signature", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedCallback(t, "someone-else", deposit))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unsupported entity", func(t *testing.T) {
		body := map[string]string{"entity_kind": "consultation_request", "entity_id": p.ID.String(), "amount_kind": "deposit"}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedCallback(t, callbackSecret, body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deposit settles", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedCallback(t, callbackSecret, deposit))
		require.Equal(t, http.StatusOK, w.Code)

		stored, err := store.Projects.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, valueobject.PaymentDepositPaid, stored.PaymentStatus)
	})

	t.Run("replay is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedCallback(t, callbackSecret, deposit))
		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
		assert.Equal(t, "PRECONDITION_FAILED", decode(t, w).Error.Code)
	})
}

func TestHealthHandler_WithoutDatabase(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewHealthHandler(nil).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
