package inventory

import (
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WeightedUnitPrice devuelve el precio unitario del recurso tras una entrada de qty unidades a unitCost.
// Promedio ponderado sobre lo disponible; un disponible negativo cuenta como cero.
//
//	(disponible × precio + qty × unitCost) / (disponible + qty)
func WeightedUnitPrice(r *entity.Resource, qty, unitCost decimal.Decimal) decimal.Decimal {
	available, _ := Available(r)
	if available.IsNegative() {
		available = decimal.Zero
	}
	total := available.Add(qty)
	if !total.IsPositive() {
		return decimal.Zero
	}
	value := available.Mul(r.UnitPrice).Add(qty.Mul(unitCost))
	return value.Div(total).Round(4)
}
