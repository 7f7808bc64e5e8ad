package repository

import (
	"context"
	"errors"

	"github.com/diillson/usuarios-api/internal/domain/model"
)

var (
	ErrUsuarioNotFound = errors.New("usuario not found")
	ErrEmailDuplicado  = errors.New("email already exists")
	ErrInvalidSort     = errors.New("invalid sort property")
)

// UsuarioRepository define a interface para armazenamento de usuários
type UsuarioRepository interface {
	// Save insere quando ID é zero, senão atualiza nome e email
	Save(ctx context.Context, usuario *model.Usuario) (*model.Usuario, error)

	// FindByID obtém um usuário pelo id
	FindByID(ctx context.Context, id int64) (*model.Usuario, error)

	// FindAll retorna uma página de usuários ordenada conforme a requisição
	FindAll(ctx context.Context, req model.PageRequest) (*model.Page[model.Usuario], error)

	// ExistsByEmail compara o email exatamente, sem normalizar caixa
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByID verifica se há usuário com o id
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// DeleteByID remove um usuário pelo id
	DeleteByID(ctx context.Context, id int64) error

	// Count retorna o total de usuários
	Count(ctx context.Context) (int64, error)
}

// Transactor executa fn com um repositório ligado a uma única transação.
// Commit quando fn retorna nil, rollback em erro ou panic.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo UsuarioRepository) error) error
}
