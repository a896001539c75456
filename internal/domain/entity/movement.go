package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de recurso sobre los que se registran movimientos.
const (
	ResourceKindIngredient = "ingrediente"
	ResourceKindMaterial   = "material"
	ResourceKindRecipe     = "receta"
	ResourceKindProduction = "produccion" // producto terminado
)

// Tipos de movimiento.
const (
	MovementTypeEntrada          = "entrada"
	MovementTypeSalida           = "salida"
	MovementTypeProduccion       = "produccion"        // salida de una producción tradicional
	MovementTypeProduccionReceta = "produccion_receta" // salida de una producción de receta
)

// Movement es una entrada del libro de movimientos: un cambio de stock sobre un recurso.
// Nunca se modifica; se revierte eliminándolo (con reversión de stock) o en cascada con su producción.
type Movement struct {
	ID                 string
	ResourceKind       string
	ResourceID         string
	ResourceName       string
	Type               string
	Quantity           decimal.Decimal // positivo entrada/produccion, negativo salida
	UnitCost           decimal.Decimal
	TotalCost          decimal.Decimal
	Motive             string
	Operator           string
	Observations       string
	SourceProductionID string // referencia explícita a la producción que lo originó (vacío en registros legados)
	SourceTransferID   string // transferencia a sucursal que lo originó
	CreatedAt          time.Time
	CreatedBy          string
}

// IsInbound indica si el movimiento incrementa stock.
func (m *Movement) IsInbound() bool {
	return m.Quantity.GreaterThan(decimal.Zero)
}

// IsValidResourceKind informa si kind es un tipo de recurso conocido.
func IsValidResourceKind(kind string) bool {
	switch kind {
	case ResourceKindIngredient, ResourceKindMaterial, ResourceKindRecipe, ResourceKindProduction:
		return true
	}
	return false
}
