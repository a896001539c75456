package ports

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

// SheetRenderer genera la hoja de producción (PDF) a partir de la vista ya proyectada según rol.
type SheetRenderer interface {
	ProductionSheet(ctx context.Context, p dto.ProductionResponse) ([]byte, error)
}

// HistoryExporter genera la planilla del historial de movimientos.
// showCosts indica si se incluyen las columnas de costo.
type HistoryExporter interface {
	MovementHistory(ctx context.Context, rows []dto.MovementResponse, showCosts bool) ([]byte, error)
}
