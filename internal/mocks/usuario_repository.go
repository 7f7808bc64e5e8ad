package mocks

import (
	"context"

	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/diillson/usuarios-api/internal/domain/repository"
	"github.com/stretchr/testify/mock"
)

// MockUsuarioRepository é um mock para o repositório de usuários
type MockUsuarioRepository struct {
	mock.Mock
}

func (m *MockUsuarioRepository) Save(ctx context.Context, usuario *model.Usuario) (*model.Usuario, error) {
	args := m.Called(ctx, usuario)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) FindByID(ctx context.Context, id int64) (*model.Usuario, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) FindAll(ctx context.Context, req model.PageRequest) (*model.Page[model.Usuario], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.Usuario]), args.Error(1)
}

func (m *MockUsuarioRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsuarioRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsuarioRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsuarioRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactor executa a função diretamente sobre o repositório mockado
type MockTransactor struct {
	Repo repository.UsuarioRepository
	// Err, quando definido, é devolvido no lugar do resultado de fn (ex: falha no commit)
	Err   error
	Calls int
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UsuarioRepository) error) error {
	m.Calls++
	if err := fn(ctx, m.Repo); err != nil {
		return err
	}
	return m.Err
}
