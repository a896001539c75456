package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una producción.
const (
	ProductionStatePlanned    = "planificada"
	ProductionStateInProgress = "en_proceso"
	ProductionStateCompleted  = "completada"
	ProductionStateCancelled  = "cancelada"
)

// Origen de una producción.
const (
	ProductionOriginManual = "manual"
	ProductionOriginRecipe = "receta"
)

// ProductionLine es un insumo consumido por una producción (ingrediente o receta).
type ProductionLine struct {
	ResourceID string          `json:"resource_id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// Cost devuelve cantidad × costo unitario.
func (l ProductionLine) Cost() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// ProductionRun es un lote de producción. Solo en estado completada tiene efecto sobre el stock:
// consume Ingredients y Recipes e incrementa la producción del recurso ProductID.
type ProductionRun struct {
	ID           string
	Origin       string
	ProductID    string
	ProductName  string
	Quantity     decimal.Decimal
	Unit         string
	TotalCost    decimal.Decimal
	Ingredients  []ProductionLine
	Recipes      []ProductionLine
	Operator     string
	ProducedAt   time.Time
	State        string
	Observations string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}

// CanExecute informa si la producción aún no aplicó stock y puede ejecutarse.
func (p *ProductionRun) CanExecute() bool {
	return p.State == ProductionStatePlanned || p.State == ProductionStateInProgress
}

// CanCancel informa si la producción puede cancelarse sin revertir stock.
func (p *ProductionRun) CanCancel() bool {
	return p.CanExecute()
}

// IsValidProductionState informa si state es un estado conocido.
func IsValidProductionState(state string) bool {
	switch state {
	case ProductionStatePlanned, ProductionStateInProgress, ProductionStateCompleted, ProductionStateCancelled:
		return true
	}
	return false
}
