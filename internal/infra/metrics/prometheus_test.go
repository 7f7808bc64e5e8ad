package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIMetrics_Counters(t *testing.T) {
	m := NewAPIMetrics()

	m.UsuarioOperation("Create", "success")
	m.UsuarioOperation("Create", "success")
	m.UsuarioOperation("Create", "validation")
	m.CircuitBreakerStateChanged("database", true)
	m.RateLimitExceeded("/api/usuarios", "GET", "ip_limit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.usuarioOperations.WithLabelValues("Create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.usuarioOperations.WithLabelValues("Create", "validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.circuitBreakerOpen.WithLabelValues("database")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("/api/usuarios", "GET", "ip_limit")))
}

func TestAPIMetrics_RequestLifecycle(t *testing.T) {
	m := NewAPIMetrics()

	m.RequestStarted("/api/usuarios/:id", "GET")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("/api/usuarios/:id", "GET")))

	m.RequestCompleted("/api/usuarios/:id", "GET", "200", 15*time.Millisecond, 0, 128)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("/api/usuarios/:id", "GET")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("/api/usuarios/:id", "GET", "200")))
}

func TestAPIMetrics_IndependentRegistries(t *testing.T) {
	// Cada instância usa seu próprio registro, sem colisão de registro duplicado
	a := NewAPIMetrics()
	b := NewAPIMetrics()
	a.UsuarioOperation("Delete", "success")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.usuarioOperations.WithLabelValues("Delete", "success")))
}

func TestAPIMetrics_Handler(t *testing.T) {
	m := NewAPIMetrics()
	m.UsuarioOperation("GetByID", "not_found")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `usuarios_api_usuario_operations_total{operation="GetByID",outcome="not_found"} 1`)
}
