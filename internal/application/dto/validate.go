package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Produccion-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate valida las etiquetas `validate` de un request.
// Devuelve *domain.ValidationError con el primer campo inválido.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		switch fe.Tag() {
		case "required":
			return domain.NewValidationError(fe.Field(), "%s es requerido", fe.Field())
		case "oneof":
			return domain.NewValidationError(fe.Field(), "%s debe ser uno de: %s", fe.Field(), fe.Param())
		case "max":
			return domain.NewValidationError(fe.Field(), "%s excede el largo máximo (%s)", fe.Field(), fe.Param())
		default:
			return domain.NewValidationError(fe.Field(), "%s inválido", fe.Field())
		}
	}
	return domain.ErrInvalidInput
}
