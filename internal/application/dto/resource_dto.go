package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResourceResponse recurso con disponibilidad calculada y precio proyectado según rol.
type ResourceResponse struct {
	ID             string           `json:"id"`
	Tipo           string           `json:"tipo"`
	Nombre         string           `json:"nombre"`
	Unidad         string           `json:"unidad"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	Consumido      decimal.Decimal  `json:"consumido"`
	Producido      decimal.Decimal  `json:"cantidadProducida"`
	Utilizado      decimal.Decimal  `json:"cantidadUtilizada"`
	Disponible     decimal.Decimal  `json:"disponible"`
	PrecioUnitario *decimal.Decimal `json:"precioUnitario,omitempty"`
	CalculadoEn    time.Time        `json:"calculadoEn"`
}

// ProductsByTypeResponse salida de GET /api/movimientos/productos.
type ProductsByTypeResponse struct {
	Tipo      string             `json:"tipo"`
	Productos []ResourceResponse `json:"productos"`
	Total     int                `json:"total"`
}
