// Package production contiene las reglas de validación y costeo de una producción.
package production

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
)

// Input producción propuesta antes de aplicarse.
type Input struct {
	Quantity    decimal.Decimal
	Operator    string
	Ingredients []entity.ProductionLine
	Recipes     []entity.ProductionLine
}

// Lookup obtiene el recurso por ID (nil si no existe). Dentro de una transacción debe devolver la fila bloqueada.
type Lookup func(ctx context.Context, id string) (*entity.Resource, error)

// ValidateShape aplica las reglas que no requieren consultar stock:
// cantidad positiva, operador y al menos una línea.
func ValidateShape(in Input) error {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("cantidad", "La cantidad a producir debe ser un número mayor a 0")
	}
	if strings.TrimSpace(in.Operator) == "" {
		return domain.NewValidationError("operador", "El nombre del operador es requerido")
	}
	if len(in.Ingredients) == 0 && len(in.Recipes) == 0 {
		return domain.NewValidationError("ingredientes", "Debe agregar al menos un ingrediente o una receta")
	}
	return nil
}

// Validate aplica todas las reglas en orden; gana el primer fallo.
// Las líneas repetidas de un mismo recurso se validan contra la suma solicitada.
func Validate(ctx context.Context, in Input, lookup Lookup) error {
	if err := ValidateShape(in); err != nil {
		return err
	}
	requested := make(map[string]decimal.Decimal)
	if err := validateLines(ctx, in.Ingredients, entity.ResourceKindIngredient, "ingrediente", "el ingrediente", lookup, requested); err != nil {
		return err
	}
	return validateLines(ctx, in.Recipes, entity.ResourceKindRecipe, "receta", "la receta", lookup, requested)
}

func validateLines(
	ctx context.Context,
	lines []entity.ProductionLine,
	kind, label, noun string,
	lookup Lookup,
	requested map[string]decimal.Decimal,
) error {
	for i, l := range lines {
		if strings.TrimSpace(l.ResourceID) == "" {
			return domain.NewValidationError(label, "Seleccione %s de la línea %d", noun, i+1)
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewValidationError(label, "La cantidad utilizada en la línea %d (%s) debe ser mayor a 0", i+1, label)
		}
		r, err := lookup(ctx, l.ResourceID)
		if err != nil {
			return err
		}
		if r == nil || r.Kind != kind {
			return domain.NewValidationError(label, "No existe %s de la línea %d", noun, i+1)
		}
		total := requested[r.ID].Add(l.Quantity)
		requested[r.ID] = total
		available, _ := inventory.Available(r)
		if total.GreaterThan(available) {
			return &domain.StockError{Name: r.Name, Available: available, Requested: total}
		}
	}
	return nil
}

// TotalCost suma cantidad × costo unitario de ambas colecciones de líneas.
func TotalCost(in Input) decimal.Decimal {
	total := decimal.Zero
	for _, l := range in.Ingredients {
		total = total.Add(l.Cost())
	}
	for _, l := range in.Recipes {
		total = total.Add(l.Cost())
	}
	return total
}
