package usuario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diillson/usuarios-api/internal/domain/model"
	"github.com/diillson/usuarios-api/internal/domain/repository"
	apperrors "github.com/diillson/usuarios-api/pkg/errors"
	"github.com/diillson/usuarios-api/pkg/logging"
	"github.com/diillson/usuarios-api/pkg/resilience"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// OperationRecorder recebe o resultado de cada operação do serviço
type OperationRecorder interface {
	UsuarioOperation(operation, outcome string)
}

// Service concentra as regras de negócio de usuários
type Service struct {
	tx       repository.Transactor
	breaker  *resilience.CircuitBreaker
	recorder OperationRecorder
	logger   *logging.ContextLogger
	tracer   trace.Tracer
}

// Option configura dependências opcionais do serviço
type Option func(*Service)

// WithCircuitBreaker protege o acesso ao banco com um circuit breaker
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(s *Service) {
		s.breaker = cb
	}
}

// WithRecorder registra o resultado das operações (ex: métricas)
func WithRecorder(recorder OperationRecorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// NewService cria o serviço de usuários sobre um Transactor
func NewService(tx repository.Transactor, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		tx:     tx,
		logger: logging.NewContextLogger(logger),
		tracer: otel.Tracer("usuarios-api.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsStorageFailure indica se o erro deve contar como falha do banco no circuit breaker
func IsStorageFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound, apperrors.KindValidation:
		return false
	}
	return !errors.Is(err, repository.ErrInvalidSort)
}

// ListAll retorna uma página de usuários
func (s *Service) ListAll(ctx context.Context, req model.PageRequest) (*model.Page[model.UsuarioDTO], error) {
	var page *model.Page[model.UsuarioDTO]

	err := s.execute(ctx, "ListAll", func(ctx context.Context, repo repository.UsuarioRepository) error {
		result, err := repo.FindAll(ctx, req)
		if err != nil {
			return err
		}
		page = model.MapPage(result, func(u model.Usuario) model.UsuarioDTO { return u.ToDTO() })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetByID retorna um usuário pelo id
func (s *Service) GetByID(ctx context.Context, id int64) (*model.UsuarioDTO, error) {
	var dto model.UsuarioDTO

	err := s.execute(ctx, "GetByID", func(ctx context.Context, repo repository.UsuarioRepository) error {
		usuario, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, id)
		}
		dto = usuario.ToDTO()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Create valida e cadastra um novo usuário
func (s *Service) Create(ctx context.Context, input model.UsuarioDTO) (*model.UsuarioDTO, error) {
	var dto model.UsuarioDTO

	err := s.execute(ctx, "Create", func(ctx context.Context, repo repository.UsuarioRepository) error {
		if err := validate(input); err != nil {
			return err
		}

		email := input.EmailValue()
		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return emailDuplicado(email)
		}

		saved, err := repo.Save(ctx, &model.Usuario{Nome: input.NomeValue(), Email: email})
		if err != nil {
			if errors.Is(err, repository.ErrEmailDuplicado) {
				return emailDuplicado(email)
			}
			return err
		}

		dto = saved.ToDTO()
		s.logger.InfoCtx(ctx, "usuário criado", zap.Int64("id", saved.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Update substitui nome e email de um usuário existente
func (s *Service) Update(ctx context.Context, id int64, input model.UsuarioDTO) (*model.UsuarioDTO, error) {
	var dto model.UsuarioDTO

	err := s.execute(ctx, "Update", func(ctx context.Context, repo repository.UsuarioRepository) error {
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, id)
		}

		if err := validate(input); err != nil {
			return err
		}

		email := input.EmailValue()
		if email != existing.Email {
			exists, err := repo.ExistsByEmail(ctx, email)
			if err != nil {
				return err
			}
			if exists {
				return emailDuplicado(email)
			}
		}

		existing.Nome = input.NomeValue()
		existing.Email = email

		saved, err := repo.Save(ctx, existing)
		if err != nil {
			if errors.Is(err, repository.ErrEmailDuplicado) {
				return emailDuplicado(email)
			}
			return notFoundOr(err, id)
		}

		dto = saved.ToDTO()
		s.logger.InfoCtx(ctx, "usuário atualizado", zap.Int64("id", saved.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Delete remove um usuário existente
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.execute(ctx, "Delete", func(ctx context.Context, repo repository.UsuarioRepository) error {
		exists, err := repo.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return usuarioNaoEncontrado(id)
		}

		if err := repo.DeleteByID(ctx, id); err != nil {
			return notFoundOr(err, id)
		}

		s.logger.InfoCtx(ctx, "usuário removido", zap.Int64("id", id))
		return nil
	})
}

// execute roda fn em uma transação, protegida pelo circuit breaker quando configurado
func (s *Service) execute(ctx context.Context, operation string, fn func(ctx context.Context, repo repository.UsuarioRepository) error) error {
	ctx, span := s.tracer.Start(ctx, "UsuarioService."+operation)
	defer span.End()

	run := func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, fn)
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Execute(ctx, run)
	} else {
		err = run(ctx)
	}

	err = s.classify(ctx, operation, err)

	outcome := "success"
	if err != nil {
		kind := apperrors.KindOf(err)
		outcome = kind.String()
		span.SetAttributes(attribute.String("error.kind", outcome))
		if kind == apperrors.KindUnavailable || kind == apperrors.KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	if s.recorder != nil {
		s.recorder.UsuarioOperation(operation, outcome)
	}

	return err
}

// classify converte erros que escaparam das regras de negócio em erros da aplicação
func (s *Service) classify(ctx context.Context, operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrInvalidSort):
		return apperrors.Validation(invalidSortMessage(err))
	case errors.Is(err, resilience.ErrCircuitOpen):
		s.logger.WarnCtx(ctx, "banco de dados indisponível, circuit breaker aberto",
			zap.String("operation", operation))
		return apperrors.Unavailable(err)
	}

	s.logger.ErrorCtx(ctx, "falha de armazenamento",
		zap.String("operation", operation), zap.Error(err))
	return apperrors.Unavailable(err)
}

// validate aplica as regras na ordem: nome, email
func validate(input model.UsuarioDTO) error {
	if strings.TrimSpace(input.NomeValue()) == "" {
		return apperrors.Validation("Nome é obrigatório")
	}
	if strings.TrimSpace(input.EmailValue()) == "" {
		return apperrors.Validation("Email é obrigatório")
	}
	return nil
}

func notFoundOr(err error, id int64) error {
	if errors.Is(err, repository.ErrUsuarioNotFound) {
		return usuarioNaoEncontrado(id)
	}
	return err
}

func usuarioNaoEncontrado(id int64) error {
	return apperrors.NotFound(fmt.Sprintf("Usuário não encontrado com ID: %d", id))
}

func emailDuplicado(email string) error {
	return apperrors.Validation(fmt.Sprintf("Email já cadastrado: %s", email))
}

func invalidSortMessage(err error) string {
	property := strings.TrimPrefix(err.Error(), repository.ErrInvalidSort.Error()+": ")
	return fmt.Sprintf("Propriedade de ordenação inválida: %s", property)
}
