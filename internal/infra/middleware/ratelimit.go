package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diillson/usuarios-api/internal/infra/metrics"
	"github.com/diillson/usuarios-api/pkg/config"
	apperrors "github.com/diillson/usuarios-api/pkg/errors"
	"github.com/diillson/usuarios-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware gerencia rate limiting
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	config  config.RateLimitConfig
	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// NewRateLimitMiddleware cria um novo middleware de rate limiting
func NewRateLimitMiddleware(limiter ratelimit.Limiter, cfg config.RateLimitConfig, metrics *metrics.APIMetrics, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// IPRateLimit limita requisições por IP
func (m *RateLimitMiddleware) IPRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limitConfig := ratelimit.LimitConfig{
			Key:         "ip:" + clientIP,
			Limit:       m.config.Limit,
			Period:      m.config.Period,
			BurstFactor: m.config.BurstFactor,
		}

		allowed, limit, remaining, resetAfter, err := m.limiter.Allow(c.Request.Context(), limitConfig)
		if err != nil {
			// Em caso de erro, permite a requisição
			m.logger.Error("erro ao verificar rate limit", zap.Error(err), zap.String("ip", clientIP))
			c.Next()
			return
		}

		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetAfter).Unix(), 10))

		if !allowed {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			if m.metrics != nil {
				m.metrics.RateLimitExceeded(path, c.Request.Method, "ip_limit")
			}
			m.logger.Warn("limite de requisições excedido",
				zap.String("ip", clientIP),
				zap.String("path", path))

			retryAfter := int(resetAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apperrors.NewResponse(http.StatusTooManyRequests, "Limite de requisições excedido", c.Request.URL.Path))
			return
		}

		c.Next()
	}
}
