package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component es un insumo de la receta por unidad producida.
type Component struct {
	ResourceID      string          `json:"resource_id"`
	Kind            string          `json:"kind"` // ingrediente o receta
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// Resource representa un ítem de inventario: ingrediente, material, receta o producto terminado.
// La cantidad disponible nunca se persiste; se deriva con inventory.Available.
type Resource struct {
	ID                string
	Kind              string
	Name              string
	Unit              string
	Acquired          decimal.Decimal  // cantidad adquirida acumulada
	Consumed          decimal.Decimal  // procesado (ingrediente) o consumido (material)
	Produced          decimal.Decimal  // cantidadProducida (receta, producto)
	Utilized          decimal.Decimal  // cantidadUtilizada (receta)
	DeclaredAvailable *decimal.Decimal // cantidadDisponible informada para recetas
	UnitPrice         decimal.Decimal
	OwnerRole         string
	Components        []Component
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone devuelve una copia profunda del recurso.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	c := *r
	if r.DeclaredAvailable != nil {
		v := *r.DeclaredAvailable
		c.DeclaredAvailable = &v
	}
	if r.Components != nil {
		c.Components = append([]Component(nil), r.Components...)
	}
	return &c
}
