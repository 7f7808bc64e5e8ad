package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/diillson/usuarios-api/internal/testutils"
	"github.com/diillson/usuarios-api/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.DSN = ":memory:"
	cfg.Database.MaxIdleConns = 1
	cfg.Database.MaxOpenConns = 1
	cfg.Database.LogLevel = "silent"
	cfg.RateLimit.Backend = "memory"
	cfg.RateLimit.Period = time.Hour
	cfg.RateLimit.BurstFactor = 1
	return cfg
}

func setupApp(t *testing.T, cfg *config.Config) (*App, *gin.Engine) {
	application, err := NewApp(context.Background(), cfg, testutils.TestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	router := testutils.SetupTestRouter(t)
	application.RegisterRoutes(router)
	return application, router
}

func TestApp_ServesUsuariosAndAmbientEndpoints(t *testing.T) {
	application, router := setupApp(t, testConfig())

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
		`{"nome":"Ana","email":"ana@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusCreated)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, resp.Header().Get("X-RateLimit-Limit"))

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/health/readiness", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/metrics", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	assert.Contains(t, resp.Body.String(), "usuarios_api_usuario_operations_total")

	assert.NotNil(t, application.Breaker)
	assert.NotNil(t, application.Limiter)
}

func TestApp_RateLimitsAPI(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Limit = 2
	_, router := setupApp(t, cfg)

	for i := 0; i < 2; i++ {
		resp := testutils.MakeRequest(t, router, http.MethodGet, "/api/usuarios", nil, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	}

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/api/usuarios", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusTooManyRequests)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))

	// Health não passa pelo limite
	resp = testutils.MakeRequest(t, router, http.MethodGet, "/health/liveness", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
}

func TestApp_OptionalComponentsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	cfg.Resilience.CircuitBreaker = false
	cfg.Metrics.Enabled = false

	application, router := setupApp(t, cfg)

	assert.Nil(t, application.Limiter)
	assert.Nil(t, application.Breaker)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/metrics", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNotFound)
}
