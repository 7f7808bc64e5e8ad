package http_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/diillson/usuarios-api/internal/adapter/database"
	usuariohttp "github.com/diillson/usuarios-api/internal/adapter/http"
	"github.com/diillson/usuarios-api/internal/app/usuario"
	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/diillson/usuarios-api/internal/testutils"
	apperrors "github.com/diillson/usuarios-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFlow(t *testing.T) *gin.Engine {
	logger := testutils.TestLogger(t)
	db := testutils.NewTestDatabase(t)

	repo := database.NewUsuarioRepository(db.DB(), logger)
	service := usuario.NewService(repo, logger)

	router := testutils.SetupTestRouter(t)
	usuariohttp.NewUsuarioHandler(service, testPagination, logger).RegisterRoutes(router.Group("/api"))
	return router
}

func TestUsuarioFlow(t *testing.T) {
	router := setupFlow(t)

	// Criação
	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
		`{"nome":"Zeca","email":"zeca@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusCreated)

	var created model.UsuarioDTO
	testutils.ParseResponse(t, resp, &created)
	require.NotNil(t, created.ID)
	require.NotNil(t, created.DataCriacao)
	id := *created.ID
	createdBody := resp.Body.String()

	// A consulta devolve exatamente o que a criação devolveu
	resp = testutils.MakeRequest(t, router, http.MethodGet, fmt.Sprintf("/api/usuarios/%d", id), nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	assert.JSONEq(t, createdBody, resp.Body.String())

	// Email duplicado
	resp = testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
		`{"nome":"Outro","email":"zeca@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)
	var errBody apperrors.ErrorResponse
	testutils.ParseResponse(t, resp, &errBody)
	assert.Equal(t, "Email já cadastrado: zeca@email.com", errBody.Message)
	assert.Equal(t, int64(1), listPage(t, router, "").TotalElements)

	// Email inválido
	resp = testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
		`{"nome":"Ana","email":"invalido"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)

	resp = testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
		`{"nome":"Ana","email":"ana@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusCreated)

	// Listagem ordenada por nome
	resp = testutils.MakeRequest(t, router, http.MethodGet, "/api/usuarios?sort=nome", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	var page model.Page[model.UsuarioDTO]
	testutils.ParseResponse(t, resp, &page)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Ana", *page.Content[0].Nome)
	assert.Equal(t, "Zeca", *page.Content[1].Nome)

	// Consulta
	path := fmt.Sprintf("/api/usuarios/%d", id)
	resp = testutils.MakeRequest(t, router, http.MethodGet, path, nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	// Atualização mantendo o email
	resp = testutils.MakeRequest(t, router, http.MethodPut, path,
		`{"nome":"José Carlos","email":"zeca@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	var updated model.UsuarioDTO
	testutils.ParseResponse(t, resp, &updated)
	assert.Equal(t, id, *updated.ID)
	assert.Equal(t, "José Carlos", *updated.Nome)
	assert.True(t, created.DataCriacao.Equal(*updated.DataCriacao))

	// Atualização para email de outro usuário
	resp = testutils.MakeRequest(t, router, http.MethodPut, path,
		`{"nome":"José Carlos","email":"ana@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)

	// Remoção
	resp = testutils.MakeRequest(t, router, http.MethodDelete, path, nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNoContent)

	resp = testutils.MakeRequest(t, router, http.MethodGet, path, nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNotFound)
	testutils.ParseResponse(t, resp, &errBody)
	assert.Equal(t, fmt.Sprintf("Usuário não encontrado com ID: %d", id), errBody.Message)

	resp = testutils.MakeRequest(t, router, http.MethodDelete, path, nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNotFound)
}

func TestUsuarioFlow_Pagination(t *testing.T) {
	router := setupFlow(t)

	for i := 1; i <= 15; i++ {
		resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
			fmt.Sprintf(`{"nome":"Usuario %02d","email":"usuario%02d@email.com"}`, i, i), nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusCreated)
	}

	first := listPage(t, router, "page=0&size=5")
	page := listPage(t, router, "page=1&size=5")

	require.Len(t, first.Content, 5)
	ids := make(map[int64]bool, len(first.Content))
	for _, u := range first.Content {
		ids[*u.ID] = true
	}
	for _, u := range page.Content {
		assert.False(t, ids[*u.ID], "usuário %d aparece nas páginas 0 e 1", *u.ID)
	}

	assert.Len(t, page.Content, 5)
	assert.Equal(t, int64(15), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.False(t, page.First)
	assert.False(t, page.Last)
	assert.Equal(t, "Usuario 06", *page.Content[0].Nome)

	page = listPage(t, router, "page=9&size=5")
	assert.Empty(t, page.Content)
	assert.True(t, page.Empty)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/api/usuarios?sort=senha,desc", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)
}

func TestUsuarioFlow_EmptyList(t *testing.T) {
	router := setupFlow(t)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/api/usuarios", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	assert.Contains(t, resp.Body.String(), `"content":[]`)
	assert.Contains(t, resp.Body.String(), `"totalElements":0`)
}

func TestUsuarioFlow_CreateUpdateDelete(t *testing.T) {
	router := setupFlow(t)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
		`{"nome":"Andie Test","email":"andietest@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusCreated)
	var created model.UsuarioDTO
	testutils.ParseResponse(t, resp, &created)
	path := fmt.Sprintf("/api/usuarios/%d", *created.ID)

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/api/usuarios", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	var page model.Page[model.UsuarioDTO]
	testutils.ParseResponse(t, resp, &page)
	assert.Len(t, page.Content, 1)

	resp = testutils.MakeRequest(t, router, http.MethodPut, path,
		`{"nome":"Ana Test","email":"ana.test@email.com"}`, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	var updated model.UsuarioDTO
	testutils.ParseResponse(t, resp, &updated)
	assert.Equal(t, "Ana Test", *updated.Nome)
	assert.Equal(t, "ana.test@email.com", *updated.Email)

	resp = testutils.MakeRequest(t, router, http.MethodDelete, path, nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNoContent)

	resp = testutils.MakeRequest(t, router, http.MethodGet, path, nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNotFound)

	resp = testutils.MakeRequest(t, router, http.MethodGet, "/api/usuarios", nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	page = model.Page[model.UsuarioDTO]{}
	testutils.ParseResponse(t, resp, &page)
	assert.Empty(t, page.Content)
}

func TestUsuarioFlow_PageWithOverflowingOffset(t *testing.T) {
	router := setupFlow(t)

	for _, nome := range []string{"Ana", "Bia", "Caio"} {
		resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/usuarios",
			fmt.Sprintf(`{"nome":"%s","email":"%s@email.com"}`, nome, nome), nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusCreated)
	}

	page := listPage(t, router, "page=922337203685477581&size=10")

	assert.Empty(t, page.Content)
	assert.Equal(t, 0, page.NumberOfElements)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.GreaterOrEqual(t, page.Pageable.Offset, int64(0))
	assert.True(t, page.Last)
}

func listPage(t *testing.T, router *gin.Engine, query string) model.Page[model.UsuarioDTO] {
	t.Helper()

	path := "/api/usuarios"
	if query != "" {
		path += "?" + query
	}
	resp := testutils.MakeRequest(t, router, http.MethodGet, path, nil, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	var page model.Page[model.UsuarioDTO]
	testutils.ParseResponse(t, resp, &page)
	return page
}
