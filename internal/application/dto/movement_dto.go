package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementResponse movimiento del libro proyectado según rol.
type MovementResponse struct {
	ID            string           `json:"id"`
	TipoProducto  string           `json:"tipoProducto"`
	RecursoID     string           `json:"recursoId"`
	RecursoNombre string           `json:"recursoNombre"`
	Tipo          string           `json:"tipo"`
	Cantidad      decimal.Decimal  `json:"cantidad"`
	CostoUnitario *decimal.Decimal `json:"costoUnitario,omitempty"`
	CostoTotal    *decimal.Decimal `json:"costoTotal,omitempty"`
	Motivo        string           `json:"motivo"`
	Operador      string           `json:"operador"`
	Observaciones string           `json:"observaciones"`
	ProduccionID  string           `json:"produccionId,omitempty"`
	Fecha         time.Time        `json:"fecha"`
}

// HistoryQuery filtros de GET /api/movimientos/historial.
type HistoryQuery struct {
	Tipo    string `query:"tipo"`
	Recurso string `query:"recurso"`
	PageQuery
}

// HistoryResponse página del historial.
type HistoryResponse struct {
	Movimientos  []MovementResponse `json:"movimientos"`
	Total        int                `json:"total"`
	TotalPaginas int                `json:"totalPaginas"`
	Pagina       int                `json:"pagina"`
	Limite       int                `json:"limite"`
}

// CreateMovementRequest body para POST /api/movimientos (ajuste manual).
type CreateMovementRequest struct {
	TipoProducto  string           `json:"tipoProducto" validate:"required,oneof=ingrediente material receta produccion"`
	RecursoID     string           `json:"recursoId" validate:"required"`
	Tipo          string           `json:"tipo" validate:"required,oneof=entrada salida"`
	Cantidad      decimal.Decimal  `json:"cantidad"`
	CostoUnitario *decimal.Decimal `json:"costoUnitario,omitempty"`
	Motivo        string           `json:"motivo" validate:"required,max=500"`
	Operador      string           `json:"operador"`
	Observaciones string           `json:"observaciones" validate:"max=1000"`
}

// DeleteMovementResponse salida de DELETE /api/movimientos/:id.
type DeleteMovementResponse struct {
	Mensaje    string        `json:"mensaje"`
	Estrategia string        `json:"estrategia"`
	Revertido  RevertSummary `json:"revertido"`
}

// MovementStatsResponse salida de GET /api/movimientos/estadisticas.
// Los valores monetarios se omiten para roles sin acceso a precios.
type MovementStatsResponse struct {
	Total                 int              `json:"total"`
	Entradas              int              `json:"entradas"`
	Salidas               int              `json:"salidas"`
	Producciones          int              `json:"producciones"`
	PorTipo               map[string]int   `json:"porTipo"`
	ProduccionesPorEstado map[string]int   `json:"produccionesPorEstado"`
	ValorEntradas         *decimal.Decimal `json:"valorEntradas,omitempty"`
	ValorSalidas          *decimal.Decimal `json:"valorSalidas,omitempty"`
	GeneradoEn            time.Time        `json:"generadoEn"`
}
