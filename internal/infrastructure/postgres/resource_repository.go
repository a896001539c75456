package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo ingredientes, materiales, recetas y productos terminados sobre PostgreSQL.
type ResourceRepo struct {
	q Querier
}

// NewResourceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewResourceRepository(q Querier) *ResourceRepo {
	return &ResourceRepo{q: q}
}

const resourceColumns = `id, kind, name, unit, acquired, consumed, produced, utilized, declared_available,
	unit_price, owner_role, components, created_at, updated_at`

func scanResource(row pgx.Row) (*entity.Resource, error) {
	var (
		res        entity.Resource
		components []byte
	)
	err := row.Scan(&res.ID, &res.Kind, &res.Name, &res.Unit, &res.Acquired, &res.Consumed, &res.Produced,
		&res.Utilized, &res.DeclaredAvailable, &res.UnitPrice, &res.OwnerRole, &components,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(components, &res.Components); err != nil {
		return nil, fmt.Errorf("decode components: %w", err)
	}
	return &res, nil
}

// Create inserta un recurso.
func (r *ResourceRepo) Create(ctx context.Context, res *entity.Resource) error {
	components, err := toJSON(res.Components)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO resources (`+resourceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		res.ID, res.Kind, res.Name, res.Unit, res.Acquired, res.Consumed, res.Produced, res.Utilized,
		res.DeclaredAvailable, res.UnitPrice, res.OwnerRole, components, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return wrap("insert resource", err)
	}
	return nil
}

func (r *ResourceRepo) get(ctx context.Context, query, id string) (*entity.Resource, error) {
	res, err := scanResource(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return res, nil
}

// GetByID obtiene un recurso; (nil, nil) si no existe.
func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*entity.Resource, error) {
	return r.get(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
}

// GetForUpdate obtiene el recurso y bloquea la fila (SELECT FOR UPDATE).
func (r *ResourceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Resource, error) {
	return r.get(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste contadores, precio y componentes.
func (r *ResourceRepo) Update(ctx context.Context, res *entity.Resource) error {
	components, err := toJSON(res.Components)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		UPDATE resources SET name = $2, unit = $3, acquired = $4, consumed = $5, produced = $6, utilized = $7,
			declared_available = $8, unit_price = $9, owner_role = $10, components = $11, updated_at = $12
		WHERE id = $1`,
		res.ID, res.Name, res.Unit, res.Acquired, res.Consumed, res.Produced, res.Utilized,
		res.DeclaredAvailable, res.UnitPrice, res.OwnerRole, components, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}

// ListByKind recursos de un tipo ordenados por nombre.
func (r *ResourceRepo) ListByKind(ctx context.Context, kind string) ([]*entity.Resource, error) {
	rows, err := r.q.Query(ctx, `SELECT `+resourceColumns+` FROM resources WHERE kind = $1 ORDER BY name, id`, kind)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()
	out := []*entity.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
