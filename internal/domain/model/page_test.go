package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    SortOrder
		wantErr bool
	}{
		{name: "somente campo", raw: "nome", want: SortOrder{Property: "nome", Direction: Asc}},
		{name: "asc explícito", raw: "id,asc", want: SortOrder{Property: "id", Direction: Asc}},
		{name: "desc maiúsculo", raw: "email,DESC", want: SortOrder{Property: "email", Direction: Desc}},
		{name: "direção vazia", raw: "id,", want: SortOrder{Property: "id", Direction: Asc}},
		{name: "direção inválida", raw: "id,up", wantErr: true},
		{name: "campo vazio", raw: ",asc", wantErr: true},
		{name: "partes demais", raw: "id,asc,x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSortOrder(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 1, Size: 5, Sort: []SortOrder{{Property: "id", Direction: Asc}}}
	page := NewPage([]int{6, 7, 8, 9, 10}, req, 15)

	assert.Equal(t, int64(15), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Pageable.PageNumber)
	assert.Equal(t, 5, page.Pageable.PageSize)
	assert.Equal(t, int64(5), page.Pageable.Offset)
	assert.False(t, page.First)
	assert.False(t, page.Last)
	assert.Equal(t, 5, page.NumberOfElements)
	assert.True(t, page.Sort.Sorted)
}

func TestNewPage_Empty(t *testing.T) {
	page := NewPage[int](nil, PageRequest{Page: 0, Size: 10}, 0)

	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Equal(t, 0, page.TotalPages)
	assert.True(t, page.First)
	assert.True(t, page.Last)
	assert.True(t, page.Empty)
}

func TestMapPage(t *testing.T) {
	nome := "Ana"
	src := NewPage([]Usuario{{ID: 1, Nome: nome, Email: "ana@email.com"}}, PageRequest{Size: 10}, 1)

	dst := MapPage(src, func(u Usuario) UsuarioDTO { return u.ToDTO() })

	require.Len(t, dst.Content, 1)
	assert.Equal(t, "Ana", dst.Content[0].NomeValue())
	assert.Equal(t, int64(1), *dst.Content[0].ID)
	assert.Equal(t, src.TotalElements, dst.TotalElements)
	assert.Equal(t, src.Pageable, dst.Pageable)
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	assert.Equal(t, 20, PageRequest{Page: 2, Size: 10}.Offset())
	assert.Equal(t, math.MaxInt, PageRequest{Page: math.MaxInt/10 + 1, Size: 10}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 3, Size: 0}.Offset())

	page := NewPage([]int{}, PageRequest{Page: math.MaxInt, Size: 10}, 3)
	assert.True(t, page.Last)
	assert.False(t, page.First)
}
