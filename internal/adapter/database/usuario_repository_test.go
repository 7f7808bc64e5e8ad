package database_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/diillson/usuarios-api/internal/adapter/database"
	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/diillson/usuarios-api/internal/domain/repository"
	"github.com/diillson/usuarios-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (*database.UsuarioRepository, *database.Database) {
	db := testutils.NewTestDatabase(t)
	return database.NewUsuarioRepository(db.DB(), testutils.TestLogger(t)), db
}

func TestUsuarioRepository_SaveInsert(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &model.Usuario{Nome: "João Silva", Email: "joao@email.com"})
	require.NoError(t, err)

	assert.NotZero(t, saved.ID)
	assert.False(t, saved.DataCriacao.IsZero())

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "João Silva", found.Nome)
	assert.Equal(t, "joao@email.com", found.Email)
}

func TestUsuarioRepository_SaveUpdateKeepsDataCriacao(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, &model.Usuario{Nome: "João", Email: "joao@email.com"})
	require.NoError(t, err)
	original, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	updated, err := repo.Save(ctx, &model.Usuario{ID: created.ID, Nome: "João Atualizado", Email: "novo@email.com"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "João Atualizado", updated.Nome)
	assert.Equal(t, "novo@email.com", updated.Email)
	assert.True(t, original.DataCriacao.Equal(updated.DataCriacao))
}

func TestUsuarioRepository_SaveUpdateWithUnchangedValues(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, &model.Usuario{Nome: "João", Email: "joao@email.com"})
	require.NoError(t, err)

	updated, err := repo.Save(ctx, &model.Usuario{ID: created.ID, Nome: "João", Email: "joao@email.com"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "João", updated.Nome)
	assert.True(t, created.DataCriacao.Equal(updated.DataCriacao))
}

func TestUsuarioRepository_SaveInsertReturnsStoredDataCriacao(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, &model.Usuario{Nome: "Ana", Email: "ana@email.com"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, found.DataCriacao, created.DataCriacao)
}

func TestUsuarioRepository_FindAllOffsetOverflow(t *testing.T) {
	repo, db := newRepository(t)
	testutils.SeedUsuarios(t, db,
		model.Usuario{Nome: "A", Email: "a@email.com"},
		model.Usuario{Nome: "B", Email: "b@email.com"},
		model.Usuario{Nome: "C", Email: "c@email.com"},
	)

	page, err := repo.FindAll(context.Background(), model.PageRequest{Page: math.MaxInt / 5, Size: 10})
	require.NoError(t, err)

	assert.Empty(t, page.Content)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.True(t, page.Last)
}

func TestUsuarioRepository_SaveUpdateMissing(t *testing.T) {
	repo, _ := newRepository(t)

	_, err := repo.Save(context.Background(), &model.Usuario{ID: 999, Nome: "X", Email: "x@email.com"})
	assert.ErrorIs(t, err, repository.ErrUsuarioNotFound)
}

func TestUsuarioRepository_DuplicateEmail(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, &model.Usuario{Nome: "A", Email: "dup@email.com"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &model.Usuario{Nome: "B", Email: "dup@email.com"})
	assert.ErrorIs(t, err, repository.ErrEmailDuplicado)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUsuarioRepository_EmailIsCaseSensitive(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, &model.Usuario{Nome: "A", Email: "ana@email.com"})
	require.NoError(t, err)

	exists, err := repo.ExistsByEmail(ctx, "ANA@email.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "ana@email.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUsuarioRepository_FindByIDNotFound(t *testing.T) {
	repo, _ := newRepository(t)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrUsuarioNotFound)
}

func TestUsuarioRepository_FindAll(t *testing.T) {
	repo, db := newRepository(t)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		testutils.SeedUsuarios(t, db, model.Usuario{
			Nome:  fmt.Sprintf("Usuario %02d", i),
			Email: fmt.Sprintf("usuario%02d@email.com", i),
		})
	}

	page, err := repo.FindAll(ctx, model.PageRequest{Page: 1, Size: 5})
	require.NoError(t, err)

	assert.Len(t, page.Content, 5)
	assert.Equal(t, int64(15), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Pageable.PageNumber)
	assert.Equal(t, "Usuario 06", page.Content[0].Nome)

	page, err = repo.FindAll(ctx, model.PageRequest{
		Page: 0,
		Size: 3,
		Sort: []model.SortOrder{{Property: "nome", Direction: model.Desc}},
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "Usuario 15", page.Content[0].Nome)
	assert.Equal(t, "Usuario 13", page.Content[2].Nome)
}

func TestUsuarioRepository_FindAllBeyondLastPage(t *testing.T) {
	repo, db := newRepository(t)
	testutils.SeedUsuarios(t, db, model.Usuario{Nome: "A", Email: "a@email.com"})

	page, err := repo.FindAll(context.Background(), model.PageRequest{Page: 3, Size: 10})
	require.NoError(t, err)

	assert.Empty(t, page.Content)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
}

func TestUsuarioRepository_FindAllInvalidSort(t *testing.T) {
	repo, _ := newRepository(t)

	_, err := repo.FindAll(context.Background(), model.PageRequest{
		Size: 10,
		Sort: []model.SortOrder{{Property: "senha", Direction: model.Asc}},
	})
	assert.ErrorIs(t, err, repository.ErrInvalidSort)
}

func TestUsuarioRepository_DeleteByID(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &model.Usuario{Nome: "A", Email: "a@email.com"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, saved.ID))

	exists, err := repo.ExistsByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.DeleteByID(ctx, saved.ID), repository.ErrUsuarioNotFound)
}

func TestUsuarioRepository_IDsAreNotReused(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	first, err := repo.Save(ctx, &model.Usuario{Nome: "A", Email: "a@email.com"})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByID(ctx, first.ID))

	second, err := repo.Save(ctx, &model.Usuario{Nome: "B", Email: "b@email.com"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestUsuarioRepository_WithinTransactionRollsBack(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()
	errAbort := errors.New("abortar")

	err := repo.WithinTransaction(ctx, func(ctx context.Context, tx repository.UsuarioRepository) error {
		if _, err := tx.Save(ctx, &model.Usuario{Nome: "A", Email: "a@email.com"}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUsuarioRepository_WithinTransactionCommits(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	err := repo.WithinTransaction(ctx, func(ctx context.Context, tx repository.UsuarioRepository) error {
		_, err := tx.Save(ctx, &model.Usuario{Nome: "A", Email: "a@email.com"})
		return err
	})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUsuarioRepository_WithinTransactionPanicRollsBack(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = repo.WithinTransaction(ctx, func(ctx context.Context, tx repository.UsuarioRepository) error {
			_, _ = tx.Save(ctx, &model.Usuario{Nome: "A", Email: "a@email.com"})
			panic("falha inesperada")
		})
	})

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
