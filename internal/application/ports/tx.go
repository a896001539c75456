package ports

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// Stores repositorios atados a una misma transacción.
type Stores struct {
	Movements   repository.MovementRepository
	Productions repository.ProductionRepository
	Resources   repository.ResourceRepository
	Branches    repository.BranchRepository
	Transfers   repository.TransferRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Garantiza que consumo, producción y libro de movimientos cambien juntos o no cambien.
type TxRunner interface {
	Run(ctx context.Context, fn func(s Stores) error) error
}
