package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ResourceRepository define el puerto de persistencia para ingredientes, materiales, recetas y productos.
type ResourceRepository interface {
	Create(ctx context.Context, r *entity.Resource) error
	GetByID(ctx context.Context, id string) (*entity.Resource, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Resource, error)
	Update(ctx context.Context, r *entity.Resource) error
	ListByKind(ctx context.Context, kind string) ([]*entity.Resource, error)
}
