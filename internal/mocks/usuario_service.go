package mocks

import (
	"context"

	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockUsuarioService é um mock para o serviço de usuários
type MockUsuarioService struct {
	mock.Mock
}

func (m *MockUsuarioService) ListAll(ctx context.Context, req model.PageRequest) (*model.Page[model.UsuarioDTO], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.UsuarioDTO]), args.Error(1)
}

func (m *MockUsuarioService) GetByID(ctx context.Context, id int64) (*model.UsuarioDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsuarioDTO), args.Error(1)
}

func (m *MockUsuarioService) Create(ctx context.Context, dto model.UsuarioDTO) (*model.UsuarioDTO, error) {
	args := m.Called(ctx, dto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsuarioDTO), args.Error(1)
}

func (m *MockUsuarioService) Update(ctx context.Context, id int64, dto model.UsuarioDTO) (*model.UsuarioDTO, error) {
	args := m.Called(ctx, id, dto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsuarioDTO), args.Error(1)
}

func (m *MockUsuarioService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
