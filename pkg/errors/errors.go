package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifica um erro da aplicação independente do transporte
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnavailable
)

// String retorna o nome do tipo de erro
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// StatusCode mapeia o tipo de erro para o status HTTP correspondente
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// APIError representa um erro da aplicação com informações adicionais
type APIError struct {
	Kind        Kind              `json:"-"`
	Message     string            `json:"message"`
	Details     map[string]string `json:"errors,omitempty"`
	OriginalErr error             `json:"-"`
}

// Error implementa a interface error
func (e *APIError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
	}
	return e.Message
}

// Unwrap permite usar errors.Is e errors.As
func (e *APIError) Unwrap() error {
	return e.OriginalErr
}

// New cria um novo APIError
func New(kind Kind, message string, err error) *APIError {
	return &APIError{
		Kind:        kind,
		Message:     message,
		OriginalErr: err,
	}
}

// WithDetails adiciona erros por campo
func (e *APIError) WithDetails(details map[string]string) *APIError {
	e.Details = details
	return e
}

// NotFound cria um erro de recurso inexistente
func NotFound(message string) *APIError {
	return New(KindNotFound, message, nil)
}

// Validation cria um erro de regra de negócio violada
func Validation(message string) *APIError {
	return New(KindValidation, message, nil)
}

// Unavailable cria um erro de armazenamento indisponível
func Unavailable(err error) *APIError {
	return New(KindUnavailable, "Serviço temporariamente indisponível", err)
}

// Internal cria um erro interno genérico
func Internal(message string, err error) *APIError {
	if message == "" {
		message = "Erro interno do servidor"
	}
	return New(KindInternal, message, err)
}

// KindOf retorna o tipo do primeiro APIError na cadeia, ou KindInternal
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// As extrai o APIError da cadeia de erros
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsNotFound indica se o erro é do tipo NotFound
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation indica se o erro é do tipo Validation
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
