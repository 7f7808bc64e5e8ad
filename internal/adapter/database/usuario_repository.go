package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/diillson/usuarios-api/internal/domain/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns mapeia as propriedades expostas para colunas da tabela
var sortColumns = map[string]string{
	"id":          "id",
	"nome":        "nome",
	"email":       "email",
	"dataCriacao": "data_criacao",
}

// UsuarioRepository implementa repository.UsuarioRepository e repository.Transactor com GORM
type UsuarioRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	tracer trace.Tracer
}

// NewUsuarioRepository cria um novo repositório de usuários
func NewUsuarioRepository(db *gorm.DB, logger *zap.Logger) *UsuarioRepository {
	return &UsuarioRepository{
		db:     db,
		logger: logger,
		tracer: otel.Tracer("usuarios-api.repository"),
	}
}

// WithinTransaction executa fn com um repositório ligado a uma transação
func (r *UsuarioRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UsuarioRepository) error) (err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
				r.logger.Error("falha ao desfazer transação", zap.Error(rbErr))
			}
			return
		}
		if cErr := tx.Commit().Error; cErr != nil {
			err = fmt.Errorf("falha ao confirmar transação: %w", cErr)
		}
	}()

	return fn(ctx, &UsuarioRepository{db: tx, logger: r.logger, tracer: r.tracer})
}

// Save insere um novo usuário ou atualiza nome e email de um existente
func (r *UsuarioRepository) Save(ctx context.Context, usuario *model.Usuario) (*model.Usuario, error) {
	ctx, span := r.tracer.Start(ctx, "UsuarioRepository.Save",
		trace.WithAttributes(attribute.Int64("usuario.id", usuario.ID)))
	defer span.End()

	db := r.db.WithContext(ctx)

	if usuario.ID == 0 {
		created := &model.Usuario{Nome: usuario.Nome, Email: usuario.Email}
		if err := db.Create(created).Error; err != nil {
			return nil, r.fail(span, "falha ao inserir usuário", translateError(err))
		}
		span.SetAttributes(attribute.Int64("usuario.id", created.ID))
		// dataCriacao volta com a precisão da coluna
		return r.reload(db, span, created.ID)
	}

	// MySQL conta linhas alteradas, não encontradas: a existência vem do recarregamento
	err := db.Model(&model.Usuario{}).
		Where("id = ?", usuario.ID).
		Updates(map[string]interface{}{"nome": usuario.Nome, "email": usuario.Email}).Error
	if err != nil {
		return nil, r.fail(span, "falha ao atualizar usuário", translateError(err))
	}
	return r.reload(db, span, usuario.ID)
}

func (r *UsuarioRepository) reload(db *gorm.DB, span trace.Span, id int64) (*model.Usuario, error) {
	var saved model.Usuario
	if err := db.First(&saved, id).Error; err != nil {
		return nil, r.fail(span, "falha ao recarregar usuário", translateError(err))
	}
	return &saved, nil
}

// FindByID obtém um usuário pelo id
func (r *UsuarioRepository) FindByID(ctx context.Context, id int64) (*model.Usuario, error) {
	ctx, span := r.tracer.Start(ctx, "UsuarioRepository.FindByID",
		trace.WithAttributes(attribute.Int64("usuario.id", id)))
	defer span.End()

	var usuario model.Usuario
	if err := r.db.WithContext(ctx).First(&usuario, id).Error; err != nil {
		return nil, r.fail(span, "falha ao buscar usuário", translateError(err))
	}
	return &usuario, nil
}

// FindAll retorna uma página de usuários
func (r *UsuarioRepository) FindAll(ctx context.Context, req model.PageRequest) (*model.Page[model.Usuario], error) {
	ctx, span := r.tracer.Start(ctx, "UsuarioRepository.FindAll",
		trace.WithAttributes(
			attribute.Int("page.number", req.Page),
			attribute.Int("page.size", req.Size),
		))
	defer span.End()

	orders, err := orderColumns(req.Sort)
	if err != nil {
		return nil, r.fail(span, "ordenação inválida", err)
	}

	db := r.db.WithContext(ctx).Model(&model.Usuario{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, r.fail(span, "falha ao contar usuários", err)
	}

	// Página além da última não consulta o banco
	if int64(req.Offset()) >= total {
		span.SetAttributes(attribute.Int64("page.total_elements", total))
		return model.NewPage([]model.Usuario{}, req, total), nil
	}

	usuarios := make([]model.Usuario, 0, req.Size)
	query := r.db.WithContext(ctx).Offset(req.Offset()).Limit(req.Size)
	for _, order := range orders {
		query = query.Order(order)
	}
	if err := query.Find(&usuarios).Error; err != nil {
		return nil, r.fail(span, "falha ao listar usuários", err)
	}

	span.SetAttributes(
		attribute.Int64("page.total_elements", total),
		attribute.Int("page.number_of_elements", len(usuarios)),
	)
	return model.NewPage(usuarios, req, total), nil
}

// ExistsByEmail verifica se já existe usuário com o email informado
func (r *UsuarioRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "UsuarioRepository.ExistsByEmail")
	defer span.End()

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("email = ?", email).Limit(1).Count(&count).Error; err != nil {
		return false, r.fail(span, "falha ao verificar email", err)
	}
	return count > 0, nil
}

// ExistsByID verifica se o usuário existe
func (r *UsuarioRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "UsuarioRepository.ExistsByID",
		trace.WithAttributes(attribute.Int64("usuario.id", id)))
	defer span.End()

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, r.fail(span, "falha ao verificar usuário", err)
	}
	return count > 0, nil
}

// DeleteByID remove um usuário pelo id
func (r *UsuarioRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "UsuarioRepository.DeleteByID",
		trace.WithAttributes(attribute.Int64("usuario.id", id)))
	defer span.End()

	result := r.db.WithContext(ctx).Delete(&model.Usuario{}, id)
	if result.Error != nil {
		return r.fail(span, "falha ao remover usuário", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.fail(span, "usuário não encontrado", repository.ErrUsuarioNotFound)
	}
	return nil
}

// Count retorna o total de usuários
func (r *UsuarioRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "UsuarioRepository.Count")
	defer span.End()

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Usuario{}).Count(&total).Error; err != nil {
		return 0, r.fail(span, "falha ao contar usuários", err)
	}
	return total, nil
}

// fail registra o erro no span e o devolve. Erros de domínio não marcam o span como falha.
func (r *UsuarioRepository) fail(span trace.Span, msg string, err error) error {
	if errors.Is(err, repository.ErrUsuarioNotFound) ||
		errors.Is(err, repository.ErrEmailDuplicado) ||
		errors.Is(err, repository.ErrInvalidSort) {
		span.SetAttributes(attribute.String("usuario.outcome", err.Error()))
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	r.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}

// orderColumns converte a ordenação pedida em cláusulas seguras; padrão id asc
func orderColumns(sort []model.SortOrder) ([]clause.OrderByColumn, error) {
	if len(sort) == 0 {
		return []clause.OrderByColumn{{Column: clause.Column{Name: "id"}}}, nil
	}

	orders := make([]clause.OrderByColumn, 0, len(sort))
	for _, s := range sort {
		column, ok := sortColumns[s.Property]
		if !ok {
			return nil, fmt.Errorf("%w: %s", repository.ErrInvalidSort, s.Property)
		}
		orders = append(orders, clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   s.Direction == model.Desc,
		})
	}
	return orders, nil
}

// translateError converte erros do GORM/driver em erros do repositório
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrUsuarioNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return repository.ErrEmailDuplicado
	}
	return err
}

// isUniqueViolation cobre drivers sem tradução de erro (SQLite, MySQL 1062, Postgres 23505)
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Error 1062") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
