package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas salvo decimal).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrProductionIDNotFound = errors.New("no se pudo identificar la producción asociada al movimiento")
	ErrAlreadyReverted      = errors.New("el registro ya fue revertido")
	ErrInvalidState         = errors.New("transición de estado no permitida")
)

// ValidationError describe la primera regla de validación que falló.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite comparar con ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError con mensaje formateado.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StockError indica que la cantidad solicitada supera la disponible para un recurso.
type StockError struct {
	Name      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s: disponible %s, solicitado %s",
		e.Name, e.Available.String(), e.Requested.String())
}

// Unwrap permite comparar con ErrInsufficientStock.
func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// IsValidation informa si err es un rechazo de la entrada (validación o stock insuficiente).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInsufficientStock)
}
