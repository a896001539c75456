package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransferFilter filtros del historial de transferencias.
type TransferFilter struct {
	BranchID   string
	MaterialID string
	Limit      int
	Offset     int
}

// TransferStats agregados por sucursal.
type TransferStats struct {
	Total       int                        `json:"total"`
	Reverted    int                        `json:"revertidas"`
	ByBranchQty map[string]decimal.Decimal `json:"cantidadPorSucursal"`
}

// TransferRepository define el puerto de persistencia para transferencias a sucursales.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateObservations(ctx context.Context, id, observations string) error
	List(ctx context.Context, f TransferFilter) ([]*entity.Transfer, int, error)
	Stats(ctx context.Context) (TransferStats, error)
}
