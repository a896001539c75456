package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductionFilter filtros del listado de producciones.
type ProductionFilter struct {
	Search   string
	State    string
	Operator string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// ProductionRepository define el puerto de persistencia para producciones.
type ProductionRepository interface {
	Create(ctx context.Context, p *entity.ProductionRun) error
	GetByID(ctx context.Context, id string) (*entity.ProductionRun, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionRun, error)
	Update(ctx context.Context, p *entity.ProductionRun) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProductionFilter) ([]*entity.ProductionRun, int, error)
	CountByState(ctx context.Context) (map[string]int, error)
}
