package errors

import (
	"time"
)

// ErrorResponse é o corpo JSON devolvido em respostas de erro
type ErrorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Path      string            `json:"path"`
}

// ResponseFor monta o status e o corpo de erro. Erros sem classificação viram 500 genérico.
func ResponseFor(err error, path string) (int, ErrorResponse) {
	apiErr, ok := As(err)
	if !ok {
		apiErr = Internal("", err)
	}

	message := apiErr.Message
	if apiErr.Kind == KindInternal {
		message = "Erro interno do servidor"
	}

	status := apiErr.Kind.StatusCode()
	return status, ErrorResponse{
		Status:    status,
		Message:   message,
		Errors:    apiErr.Details,
		Timestamp: time.Now().UTC(),
		Path:      path,
	}
}

// NewResponse monta um corpo de erro para um status já conhecido
func NewResponse(status int, message, path string) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      path,
	}
}
