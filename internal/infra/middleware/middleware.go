package middleware

import (
	"net/http"
	"time"

	"github.com/diillson/usuarios-api/internal/infra/metrics"
	"github.com/diillson/usuarios-api/pkg/config"
	"github.com/diillson/usuarios-api/pkg/logging"
	"github.com/diillson/usuarios-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware contém todos os middlewares da aplicação
type Middleware struct {
	logger              *logging.ContextLogger
	recoveryMiddleware  *RecoveryMiddleware
	securityMiddleware  *SecurityMiddleware
	tracingMiddleware   *TracingMiddleware
	metricsMiddleware   *MetricsMiddleware
	rateLimitMiddleware *RateLimitMiddleware
}

// NewMiddleware cria um novo conjunto de middlewares.
// limiter nil desliga o rate limiting; apiMetrics nil desliga as métricas.
func NewMiddleware(logger *zap.Logger, apiMetrics *metrics.APIMetrics, limiter ratelimit.Limiter, rateCfg config.RateLimitConfig, securityCfg config.SecurityConfig) *Middleware {
	m := &Middleware{
		logger:             logging.NewContextLogger(logger),
		recoveryMiddleware: NewRecoveryMiddleware(logger),
		securityMiddleware: NewSecurityMiddleware(securityCfg, logger),
		tracingMiddleware:  NewTracingMiddleware(logger),
	}

	if apiMetrics != nil {
		m.metricsMiddleware = NewMetricsMiddleware(apiMetrics, logger)
	}
	if limiter != nil && rateCfg.Enabled {
		m.rateLimitMiddleware = NewRateLimitMiddleware(limiter, rateCfg, apiMetrics, logger)
	}

	return m
}

// Metrics retorna o middleware de métricas
func (m *Middleware) Metrics() gin.HandlerFunc {
	if m.metricsMiddleware != nil {
		return m.metricsMiddleware.Middleware()
	}
	return func(c *gin.Context) {
		c.Next()
	}
}

// RateLimit retorna o middleware de limite por IP
func (m *Middleware) RateLimit() gin.HandlerFunc {
	if m.rateLimitMiddleware != nil {
		return m.rateLimitMiddleware.IPRateLimit()
	}
	return func(c *gin.Context) {
		c.Next()
	}
}

// Recovery middleware para recuperação de pânicos
func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// RequestID garante um X-Request-ID por requisição
func (m *Middleware) RequestID() gin.HandlerFunc {
	return RequestID()
}

// IgnoreFavicon é um middleware que ignora requisições para /favicon.ico
func (m *Middleware) IgnoreFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/favicon.ico" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Logger middleware para logging de requisições
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			m.logger.ErrorCtx(ctx, "request completed", fields...)
		case status >= http.StatusBadRequest:
			m.logger.WarnCtx(ctx, "request completed", fields...)
		default:
			m.logger.InfoCtx(ctx, "request completed", fields...)
		}
	}
}

// SecurityHeaders middleware para adicionar cabeçalhos de segurança
func (m *Middleware) SecurityHeaders() gin.HandlerFunc {
	return m.securityMiddleware.Headers()
}

// CORS middleware para configurar CORS
func (m *Middleware) CORS() gin.HandlerFunc {
	return m.securityMiddleware.CORS()
}

// Tracing retorna o middleware de tracing
func (m *Middleware) Tracing() gin.HandlerFunc {
	return m.tracingMiddleware.Middleware()
}
