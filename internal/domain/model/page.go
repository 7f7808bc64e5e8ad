package model

import (
	"fmt"
	"math"
	"strings"
)

// Direction é a direção de ordenação
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortOrder é um critério de ordenação sobre uma propriedade exposta
type SortOrder struct {
	Property  string
	Direction Direction
}

// ParseSortOrder interpreta "campo" ou "campo,asc|desc"
func ParseSortOrder(raw string) (SortOrder, error) {
	parts := strings.Split(raw, ",")
	property := strings.TrimSpace(parts[0])
	if property == "" || len(parts) > 2 {
		return SortOrder{}, fmt.Errorf("ordenação inválida: %q", raw)
	}

	order := SortOrder{Property: property, Direction: Asc}
	if len(parts) == 2 {
		switch strings.ToUpper(strings.TrimSpace(parts[1])) {
		case "", string(Asc):
		case string(Desc):
			order.Direction = Desc
		default:
			return SortOrder{}, fmt.Errorf("direção de ordenação inválida: %q", parts[1])
		}
	}
	return order, nil
}

// PageRequest descreve a página solicitada
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset retorna o deslocamento do primeiro registro da página.
// Satura em math.MaxInt quando page*size não cabe em int.
func (p PageRequest) Offset() int {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Sort é o resumo de ordenação serializado no envelope da página
type Sort struct {
	Sorted   bool `json:"sorted"`
	Unsorted bool `json:"unsorted"`
	Empty    bool `json:"empty"`
}

// Pageable ecoa a requisição de página na resposta
type Pageable struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	Offset     int64 `json:"offset"`
	Sort       Sort  `json:"sort"`
	Paged      bool  `json:"paged"`
	Unpaged    bool  `json:"unpaged"`
}

// Page é uma fatia de resultados com metadados de paginação
type Page[T any] struct {
	Content          []T      `json:"content"`
	Pageable         Pageable `json:"pageable"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	Last             bool     `json:"last"`
	First            bool     `json:"first"`
	Size             int      `json:"size"`
	Number           int      `json:"number"`
	Sort             Sort     `json:"sort"`
	NumberOfElements int      `json:"numberOfElements"`
	Empty            bool     `json:"empty"`
}

// NewPage monta o envelope a partir do conteúdo e do total de registros
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	sort := Sort{
		Sorted:   len(req.Sort) > 0,
		Unsorted: len(req.Sort) == 0,
		Empty:    len(req.Sort) == 0,
	}

	return &Page[T]{
		Content: content,
		Pageable: Pageable{
			PageNumber: req.Page,
			PageSize:   req.Size,
			Offset:     int64(req.Offset()),
			Sort:       sort,
			Paged:      true,
		},
		TotalElements:    total,
		TotalPages:       totalPages,
		First:            req.Page == 0,
		Last:             req.Page >= totalPages-1,
		Size:             req.Size,
		Number:           req.Page,
		Sort:             sort,
		NumberOfElements: len(content),
		Empty:            len(content) == 0,
	}
}

// MapPage converte o conteúdo preservando os metadados de paginação
func MapPage[T, R any](page *Page[T], fn func(T) R) *Page[R] {
	content := make([]R, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, fn(item))
	}
	return &Page[R]{
		Content:          content,
		Pageable:         page.Pageable,
		TotalElements:    page.TotalElements,
		TotalPages:       page.TotalPages,
		Last:             page.Last,
		First:            page.First,
		Size:             page.Size,
		Number:           page.Number,
		Sort:             page.Sort,
		NumberOfElements: len(content),
		Empty:            len(content) == 0,
	}
}
