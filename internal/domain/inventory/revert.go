package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// RevertEffect deshace sobre r el efecto del movimiento m.
// Una entrada (cantidad positiva) se descuenta y falla con *domain.StockError si esa cantidad
// ya fue consumida; una salida (cantidad negativa) devuelve exactamente lo consumido.
func RevertEffect(r *entity.Resource, m *entity.Movement) error {
	if m.Quantity.GreaterThan(decimal.Zero) {
		available, _ := Available(r)
		if available.LessThan(m.Quantity) {
			return &domain.StockError{Name: r.Name, Available: available, Requested: m.Quantity}
		}
		ApplyOutput(r, m.Quantity.Neg())
		return nil
	}
	ApplyConsumption(r, m.Quantity)
	return nil
}

// ApplyEffect aplica sobre r el efecto de un movimiento nuevo (inverso de RevertEffect).
// Una salida falla con *domain.StockError si supera la cantidad disponible.
func ApplyEffect(r *entity.Resource, m *entity.Movement) error {
	if m.Quantity.GreaterThan(decimal.Zero) {
		ApplyOutput(r, m.Quantity)
		return nil
	}
	requested := m.Quantity.Abs()
	available, _ := Available(r)
	if available.LessThan(requested) {
		return &domain.StockError{Name: r.Name, Available: available, Requested: requested}
	}
	ApplyConsumption(r, requested)
	return nil
}
