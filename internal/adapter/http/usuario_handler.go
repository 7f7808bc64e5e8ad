package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/diillson/usuarios-api/pkg/config"
	"github.com/diillson/usuarios-api/pkg/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UsuarioService define as operações de usuário consumidas pelo handler
type UsuarioService interface {
	ListAll(ctx context.Context, req model.PageRequest) (*model.Page[model.UsuarioDTO], error)
	GetByID(ctx context.Context, id int64) (*model.UsuarioDTO, error)
	Create(ctx context.Context, dto model.UsuarioDTO) (*model.UsuarioDTO, error)
	Update(ctx context.Context, id int64, dto model.UsuarioDTO) (*model.UsuarioDTO, error)
	Delete(ctx context.Context, id int64) error
}

// UsuarioHandler implementa os endpoints REST de usuários
type UsuarioHandler struct {
	service    UsuarioService
	pagination config.PaginationConfig
	logger     *logging.ContextLogger
}

// NewUsuarioHandler cria um novo handler de usuários
func NewUsuarioHandler(service UsuarioService, pagination config.PaginationConfig, logger *zap.Logger) *UsuarioHandler {
	RegisterValidators()

	return &UsuarioHandler{
		service:    service,
		pagination: pagination,
		logger:     logging.NewContextLogger(logger),
	}
}

// RegisterRoutes registra as rotas em /usuarios dentro do grupo informado
func (h *UsuarioHandler) RegisterRoutes(group *gin.RouterGroup) {
	usuarios := group.Group("/usuarios")
	{
		usuarios.GET("", h.List)
		usuarios.GET("/:id", h.Get)
		usuarios.POST("", h.Create)
		usuarios.PUT("/:id", h.Update)
		usuarios.DELETE("/:id", h.Delete)
	}
}

// List retorna uma página de usuários
func (h *UsuarioHandler) List(c *gin.Context) {
	req, err := parsePageRequest(c, h.pagination)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	page, err := h.service.ListAll(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get retorna um usuário pelo id
func (h *UsuarioHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	usuario, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, usuario)
}

// Create cadastra um novo usuário
func (h *UsuarioHandler) Create(c *gin.Context) {
	var dto model.UsuarioDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondWithError(c, h.logger, bindingError(err))
		return
	}

	usuario, err := h.service.Create(c.Request.Context(), dto)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, *usuario.ID))
	c.JSON(http.StatusCreated, usuario)
}

// Update substitui nome e email de um usuário
func (h *UsuarioHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	var dto model.UsuarioDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondWithError(c, h.logger, bindingError(err))
		return
	}

	usuario, err := h.service.Update(c.Request.Context(), id, dto)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, usuario)
}

// Delete remove um usuário
func (h *UsuarioHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
