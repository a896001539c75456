package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductionLineRequest línea de ingrediente o receta consumida.
type ProductionLineRequest struct {
	RecursoID     string          `json:"recursoId"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costoUnitario"`
}

// CreateManualProductionRequest body para POST /api/produccion/manual.
// CostoTotal se acepta por compatibilidad con la consola pero el servidor lo recalcula.
type CreateManualProductionRequest struct {
	ProductoID    string                  `json:"productoId"`
	Nombre        string                  `json:"nombre"`
	Cantidad      decimal.Decimal         `json:"cantidad"`
	Unidad        string                  `json:"unidad"`
	Operador      string                  `json:"operador"`
	Ingredientes  []ProductionLineRequest `json:"ingredientes"`
	Recetas       []ProductionLineRequest `json:"recetas"`
	Observaciones string                  `json:"observaciones"`
	CostoTotal    *decimal.Decimal        `json:"costoTotal,omitempty"`
	Ejecutar      *bool                   `json:"ejecutar,omitempty"`
}

// CreateRecipeProductionRequest body para POST /api/produccion/desde-receta.
type CreateRecipeProductionRequest struct {
	RecetaID      string          `json:"recetaId" validate:"required"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	Operador      string          `json:"operador"`
	Observaciones string          `json:"observaciones" validate:"max=1000"`
	Estado        string          `json:"estado" validate:"omitempty,oneof=planificada en_proceso"`
	Ejecutar      *bool           `json:"ejecutar,omitempty"`
}

// ProductionLineResponse línea de producción proyectada según rol.
type ProductionLineResponse struct {
	RecursoID     string           `json:"recursoId"`
	Nombre        string           `json:"nombre"`
	Cantidad      decimal.Decimal  `json:"cantidad"`
	CostoUnitario *decimal.Decimal `json:"costoUnitario,omitempty"`
	Costo         *decimal.Decimal `json:"costo,omitempty"`
}

// ProductionResponse salida de una producción.
type ProductionResponse struct {
	ID              string                   `json:"id"`
	Origen          string                   `json:"origen"`
	ProductoID      string                   `json:"productoId"`
	Nombre          string                   `json:"nombre"`
	Cantidad        decimal.Decimal          `json:"cantidad"`
	Unidad          string                   `json:"unidad"`
	CostoTotal      *decimal.Decimal         `json:"costoTotal,omitempty"`
	Ingredientes    []ProductionLineResponse `json:"ingredientes"`
	Recetas         []ProductionLineResponse `json:"recetas"`
	Operador        string                   `json:"operador"`
	FechaProduccion *time.Time               `json:"fechaProduccion,omitempty"`
	Estado          string                   `json:"estado"`
	Observaciones   string                   `json:"observaciones"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// ProductionListQuery filtros de GET /api/produccion.
type ProductionListQuery struct {
	Buscar      string `query:"buscar"`
	Estado      string `query:"estado"`
	FechaInicio string `query:"fechaInicio"`
	FechaFin    string `query:"fechaFin"`
	Operador    string `query:"operador"`
	PageQuery
}

// ProductionListResponse lista paginada de producciones.
type ProductionListResponse struct {
	Producciones []ProductionResponse `json:"producciones"`
	Total        int                  `json:"total"`
	TotalPaginas int                  `json:"totalPaginas"`
	Pagina       int                  `json:"pagina"`
}

// RevertedLine cantidad devuelta a (o retirada de) un recurso al revertir.
type RevertedLine struct {
	RecursoID string          `json:"recursoId"`
	Nombre    string          `json:"nombre"`
	Tipo      string          `json:"tipo"`
	Cantidad  decimal.Decimal `json:"cantidad"`
}

// RevertSummary desglose de lo revertido; alimenta el mensaje de confirmación.
type RevertSummary struct {
	ProduccionID string         `json:"produccionId,omitempty"`
	Ingredientes []RevertedLine `json:"ingredientes"`
	Recetas      []RevertedLine `json:"recetas"`
	Productos    []RevertedLine `json:"productos"`
	Otros        []RevertedLine `json:"otros,omitempty"`
	Movimientos  int            `json:"movimientos"`
}

// NewRevertSummary crea un desglose vacío (listas no nulas para el JSON).
func NewRevertSummary(productionID string) RevertSummary {
	return RevertSummary{
		ProduccionID: productionID,
		Ingredientes: []RevertedLine{},
		Recetas:      []RevertedLine{},
		Productos:    []RevertedLine{},
	}
}

// Add clasifica una línea revertida: lo que había entrado es producto retirado,
// lo que había salido vuelve como ingrediente, receta u otro recurso.
func (s *RevertSummary) Add(line RevertedLine, inbound bool) {
	if inbound {
		s.Productos = append(s.Productos, line)
		return
	}
	switch line.Tipo {
	case entity.ResourceKindIngredient:
		s.Ingredientes = append(s.Ingredientes, line)
	case entity.ResourceKindRecipe:
		s.Recetas = append(s.Recetas, line)
	default:
		s.Otros = append(s.Otros, line)
	}
}

// DeleteProductionResponse salida de DELETE /api/produccion/:id.
type DeleteProductionResponse struct {
	Mensaje   string        `json:"mensaje"`
	Revertido RevertSummary `json:"revertido"`
}
