package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementFilter filtros para el historial de movimientos.
type MovementFilter struct {
	ResourceKind string
	ResourceID   string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// MovementStats agregados del libro de movimientos.
type MovementStats struct {
	Total         int             `json:"total"`
	Entradas      int             `json:"entradas"`
	Salidas       int             `json:"salidas"`
	Producciones  int             `json:"producciones"`
	ByKind        map[string]int  `json:"porTipo"`
	InboundValue  decimal.Decimal `json:"valorEntradas"`
	OutboundValue decimal.Decimal `json:"valorSalidas"`
}

// MovementRepository define el puerto de persistencia para el libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// Delete devuelve domain.ErrNotFound si el movimiento ya no existe.
	Delete(ctx context.Context, id string) error
	ListBySourceProduction(ctx context.Context, productionID string) ([]*entity.Movement, error)
	// ListByMotiveProduction registros legados (sin referencia explícita) cuyo motivo menciona productionID.
	ListByMotiveProduction(ctx context.Context, productionID string) ([]*entity.Movement, error)
	ListBySourceTransfer(ctx context.Context, transferID string) ([]*entity.Movement, error)
	// List devuelve la página pedida (orden: más reciente primero) y el total sin paginar.
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, int, error)
	Stats(ctx context.Context) (MovementStats, error)
}
