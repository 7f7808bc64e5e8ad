package http

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	apperrors "github.com/diillson/usuarios-api/pkg/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// fieldMessages traduz campo+regra para a mensagem exibida ao cliente
var fieldMessages = map[string]map[string]string{
	"nome": {
		"required": "Nome é obrigatório",
		"notblank": "Nome é obrigatório",
	},
	"email": {
		"required": "Email é obrigatório",
		"notblank": "Email é obrigatório",
		"email":    "Email inválido",
	},
}

// RegisterValidators registra as regras customizadas no validador do gin
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation("notblank", validators.NotBlank)

		// Erros reportam o nome do campo JSON
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindingError converte falhas de binding em erro de validação da aplicação
func bindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.Validation("Corpo da requisição inválido")
	}

	details := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		field := fe.Field()
		if _, exists := details[field]; exists {
			continue
		}
		details[field] = fieldMessage(field, fe.Tag())
	}

	return apperrors.Validation("Erro de validação").WithDetails(details)
}

func fieldMessage(field, tag string) string {
	if msg, ok := fieldMessages[field][tag]; ok {
		return msg
	}
	return "Valor inválido"
}
