package middleware

import (
	"github.com/diillson/usuarios-api/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader é o cabeçalho que carrega o id da requisição
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID reaproveita o X-Request-ID recebido ou gera um novo UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retorna o id da requisição atual
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
