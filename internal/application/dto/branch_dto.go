package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterTransferRequest body para POST /api/sucursales/transferencias.
type RegisterTransferRequest struct {
	MaterialID    string          `json:"materialId" validate:"required"`
	SucursalID    string          `json:"sucursalId" validate:"required"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	Motivo        string          `json:"motivo" validate:"required,max=500"`
	Observaciones string          `json:"observaciones" validate:"max=1000"`
	Operador      string          `json:"operador"`
}

// TransferResponse transferencia a sucursal.
type TransferResponse struct {
	ID             string          `json:"id"`
	MaterialID     string          `json:"materialId"`
	MaterialNombre string          `json:"materialNombre"`
	SucursalID     string          `json:"sucursalId"`
	SucursalNombre string          `json:"sucursalNombre"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Motivo         string          `json:"motivo"`
	Observaciones  string          `json:"observaciones"`
	Revertida      bool            `json:"revertida"`
	Compensacion   bool            `json:"compensacion"`
	RevierteA      string          `json:"revierteA,omitempty"`
	Operador       string          `json:"operador"`
	Fecha          time.Time       `json:"fecha"`
}

// BranchResponse sucursal.
type BranchResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
}

// TransferHistoryQuery filtros de GET /api/sucursales/historial.
type TransferHistoryQuery struct {
	Sucursal string `query:"sucursal"`
	Material string `query:"material"`
	PageQuery
}

// TransferHistoryResponse página del historial de transferencias.
type TransferHistoryResponse struct {
	Transferencias []TransferResponse `json:"transferencias"`
	Total          int                `json:"total"`
	TotalPaginas   int                `json:"totalPaginas"`
	Pagina         int                `json:"pagina"`
}

// RevertTransferResponse salida de la reversión de una transferencia.
type RevertTransferResponse struct {
	Mensaje      string           `json:"mensaje"`
	Original     TransferResponse `json:"original"`
	Compensacion TransferResponse `json:"compensacion"`
}

// BranchMaterialResponse material con su disponibilidad central y, si se pidió una sucursal, su stock allí.
type BranchMaterialResponse struct {
	ResourceResponse
	EnSucursal *decimal.Decimal `json:"enSucursal,omitempty"`
}

// BranchMaterialsResponse salida de GET /api/sucursales/materiales.
type BranchMaterialsResponse struct {
	SucursalID string                   `json:"sucursalId,omitempty"`
	Materiales []BranchMaterialResponse `json:"materiales"`
}

// BranchStatsResponse salida de GET /api/sucursales/estadisticas.
type BranchStatsResponse struct {
	Total               int                        `json:"total"`
	Revertidas          int                        `json:"revertidas"`
	CantidadPorSucursal map[string]decimal.Decimal `json:"cantidadPorSucursal"`
	GeneradoEn          time.Time                  `json:"generadoEn"`
}
