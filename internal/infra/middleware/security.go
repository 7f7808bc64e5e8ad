package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/diillson/usuarios-api/pkg/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	corsAllowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders  = "Content-Type, Accept, X-Request-ID"
	corsExposeHeaders = "Location, X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset"
)

// SecurityMiddleware aplica a política de cabeçalhos e de origens da API JSON
type SecurityMiddleware struct {
	allowAll   bool
	origins    map[string]struct{}
	hstsHeader string
	logger     *zap.Logger
}

// NewSecurityMiddleware monta a política a partir da configuração.
// Uma lista de origens vazia bloqueia todo acesso cross-origin; "*" libera qualquer origem.
func NewSecurityMiddleware(cfg config.SecurityConfig, logger *zap.Logger) *SecurityMiddleware {
	m := &SecurityMiddleware{
		origins: make(map[string]struct{}, len(cfg.AllowedOrigins)),
		logger:  logger,
	}

	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			m.allowAll = true
		default:
			m.origins[origin] = struct{}{}
		}
	}

	if cfg.HSTSMaxAge > 0 {
		m.hstsHeader = "max-age=" + strconv.FormatInt(int64(cfg.HSTSMaxAge.Seconds()), 10) + "; includeSubDomains"
	}

	return m
}

// Headers adiciona os cabeçalhos de segurança das respostas JSON
func (m *SecurityMiddleware) Headers() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		// Respostas JSON não carregam recursos nem podem ser embutidas
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		h.Set("Referrer-Policy", "no-referrer")

		// HSTS só vale sobre TLS
		if m.hstsHeader != "" && c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", m.hstsHeader)
		}

		c.Next()
	}
}

// CORS responde somente às origens permitidas e trata o preflight
func (m *SecurityMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		allowed := m.allowed(origin)
		if allowed {
			if m.allowAll {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
		}

		if c.Request.Method != http.MethodOptions || c.GetHeader("Access-Control-Request-Method") == "" {
			c.Next()
			return
		}

		if !allowed {
			m.logger.Debug("preflight de origem não permitida", zap.String("origin", origin))
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
	}
}

func (m *SecurityMiddleware) allowed(origin string) bool {
	if m.allowAll {
		return true
	}
	_, ok := m.origins[origin]
	return ok
}
