package inventory

import (
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultUnit es la unidad informada para recursos sin unidad o de tipo desconocido.
const DefaultUnit = "unidad"

// Available calcula la cantidad disponible de un recurso según su tipo.
// Es una derivación pura: no modifica r ni persiste el resultado.
//
//	ingrediente: cantidad − procesado
//	material:    cantidad − consumido
//	receta:      cantidadDisponible si existe, si no producida − utilizada
//	produccion:  cantidadProducida (o cantidad si nunca se produjo)
func Available(r *entity.Resource) (decimal.Decimal, string) {
	if r == nil {
		return decimal.Zero, DefaultUnit
	}
	unit := r.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	switch r.Kind {
	case entity.ResourceKindIngredient, entity.ResourceKindMaterial:
		return r.Acquired.Sub(r.Consumed), unit
	case entity.ResourceKindRecipe:
		if r.DeclaredAvailable != nil {
			return *r.DeclaredAvailable, unit
		}
		return r.Produced.Sub(r.Utilized), unit
	case entity.ResourceKindProduction:
		if !r.Produced.IsZero() {
			return r.Produced, unit
		}
		return r.Acquired, unit
	default:
		return decimal.Zero, DefaultUnit
	}
}

// Snapshot es una vista de un recurso con su disponibilidad calculada.
// ComputedAt distingue cada cálculo para que el consumidor refresque la vista.
type Snapshot struct {
	Resource   *entity.Resource
	Available  decimal.Decimal
	Unit       string
	ComputedAt time.Time
}

// TakeSnapshot calcula la disponibilidad sobre una copia del recurso.
func TakeSnapshot(r *entity.Resource, now time.Time) Snapshot {
	available, unit := Available(r)
	return Snapshot{
		Resource:   r.Clone(),
		Available:  available,
		Unit:       unit,
		ComputedAt: now,
	}
}

// ApplyConsumption registra el consumo de qty (positivo; negativo para revertir) de un recurso.
func ApplyConsumption(r *entity.Resource, qty decimal.Decimal) {
	switch r.Kind {
	case entity.ResourceKindRecipe:
		r.Utilized = r.Utilized.Add(qty)
		if r.DeclaredAvailable != nil {
			v := r.DeclaredAvailable.Sub(qty)
			r.DeclaredAvailable = &v
		}
	case entity.ResourceKindProduction:
		// el stock de producto terminado es la cantidad producida vigente
		if r.Produced.IsZero() && !r.Acquired.IsZero() {
			r.Acquired = r.Acquired.Sub(qty)
			return
		}
		r.Produced = r.Produced.Sub(qty)
	default:
		r.Consumed = r.Consumed.Add(qty)
	}
}

// ApplyOutput registra la producción de qty (positivo; negativo para revertir) de un recurso.
func ApplyOutput(r *entity.Resource, qty decimal.Decimal) {
	switch r.Kind {
	case entity.ResourceKindProduction:
		// mismo criterio que ApplyConsumption: sin producción vigente el stock vive en Acquired
		if r.Produced.IsZero() && !r.Acquired.IsZero() {
			r.Acquired = r.Acquired.Add(qty)
			return
		}
		r.Produced = r.Produced.Add(qty)
	case entity.ResourceKindRecipe:
		r.Produced = r.Produced.Add(qty)
		if r.DeclaredAvailable != nil {
			v := r.DeclaredAvailable.Add(qty)
			r.DeclaredAvailable = &v
		}
	default:
		r.Acquired = r.Acquired.Add(qty)
	}
}
