package http

import (
	"fmt"
	"strconv"

	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/diillson/usuarios-api/pkg/config"
	apperrors "github.com/diillson/usuarios-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// parsePageRequest lê page, size e sort (repetível) da query string
func parsePageRequest(c *gin.Context, cfg config.PaginationConfig) (model.PageRequest, error) {
	req := model.PageRequest{Page: 0, Size: cfg.DefaultSize}

	if raw, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return req, apperrors.Validation(fmt.Sprintf("Parâmetro page inválido: %s", raw))
		}
		req.Page = page
	}

	if raw, ok := c.GetQuery("size"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return req, apperrors.Validation(fmt.Sprintf("Parâmetro size inválido: %s", raw))
		}
		if cfg.MaxSize > 0 && size > cfg.MaxSize {
			size = cfg.MaxSize
		}
		req.Size = size
	}

	sorts := c.QueryArray("sort")
	if len(sorts) == 0 && cfg.DefaultSort != "" {
		sorts = []string{cfg.DefaultSort}
	}
	for _, raw := range sorts {
		order, err := model.ParseSortOrder(raw)
		if err != nil {
			return req, apperrors.Validation(fmt.Sprintf("Parâmetro sort inválido: %s", raw))
		}
		req.Sort = append(req.Sort, order)
	}

	return req, nil
}

// parseID lê o id do caminho
func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Validation(fmt.Sprintf("ID inválido: %s", raw))
	}
	return id, nil
}
