package http

import (
	apperrors "github.com/diillson/usuarios-api/pkg/errors"
	"github.com/diillson/usuarios-api/pkg/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError escreve o corpo de erro padronizado e registra falhas de servidor
func respondWithError(c *gin.Context, logger *logging.ContextLogger, err error) {
	status, body := apperrors.ResponseFor(err, c.Request.URL.Path)

	if status >= 500 {
		logger.ErrorCtx(c.Request.Context(), "falha ao processar requisição",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Error(err))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
