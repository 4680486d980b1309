package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/domain/valueobject"
)

func TestObserve(t *testing.T) {
	m := New()
	e := event.New(event.ProjectStatusChanged, valueobject.EntityProject, uuid.New(), valueobject.SystemActor()).
		Moved("APPROVED", "IN_PROGRESS")

	require.NoError(t, m.Observe(context.Background(), e))
	require.NoError(t, m.Observe(context.Background(), e))

	got := testutil.ToFloat64(m.events.WithLabelValues(string(event.ProjectStatusChanged), string(valueobject.EntityProject), "IN_PROGRESS"))
	assert.Equal(t, float64(2), got)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/projects/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/"+uuid.NewString(), nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpTotal.WithLabelValues("/projects/:id", http.MethodGet, "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pondflow_http_requests_total")
}
