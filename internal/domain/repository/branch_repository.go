package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// BranchRepository define el puerto de persistencia para sucursales y su stock.
type BranchRepository interface {
	Create(ctx context.Context, b *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	List(ctx context.Context) ([]*entity.Branch, error)
	// GetStockForUpdate bloquea el stock del material en la sucursal; si no existe devuelve cantidad cero.
	GetStockForUpdate(ctx context.Context, branchID, materialID string) (*entity.BranchStock, error)
	ListStock(ctx context.Context, branchID string) ([]*entity.BranchStock, error)
	UpsertStock(ctx context.Context, s *entity.BranchStock) error
}
