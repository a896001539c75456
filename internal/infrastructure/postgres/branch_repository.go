package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo sucursales y su stock de materiales sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Create inserta una sucursal.
func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO branches (id, name, address, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.Address, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return wrap("insert branch", err)
	}
	return nil
}

// GetByID obtiene una sucursal; (nil, nil) si no existe.
func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	var b entity.Branch
	err := r.q.QueryRow(ctx,
		`SELECT id, name, address, created_at, updated_at FROM branches WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Address, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

// List sucursales ordenadas por nombre.
func (r *BranchRepo) List(ctx context.Context) ([]*entity.Branch, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, address, created_at, updated_at FROM branches ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	out := []*entity.Branch{}
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// GetStockForUpdate bloquea la fila de stock; si no existe devuelve cantidad cero.
func (r *BranchRepo) GetStockForUpdate(ctx context.Context, branchID, materialID string) (*entity.BranchStock, error) {
	var s entity.BranchStock
	err := r.q.QueryRow(ctx, `
		SELECT branch_id, material_id, quantity, updated_at
		FROM branch_stock WHERE branch_id = $1 AND material_id = $2
		FOR UPDATE`, branchID, materialID,
	).Scan(&s.BranchID, &s.MaterialID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.BranchStock{BranchID: branchID, MaterialID: materialID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get branch stock for update: %w", err)
	}
	return &s, nil
}

// ListStock stock de una sucursal (todas si branchID es vacío).
func (r *BranchRepo) ListStock(ctx context.Context, branchID string) ([]*entity.BranchStock, error) {
	w := &where{}
	if branchID != "" {
		w.add("branch_id = $%d", branchID)
	}
	rows, err := r.q.Query(ctx,
		`SELECT branch_id, material_id, quantity, updated_at FROM branch_stock`+w.sql()+` ORDER BY branch_id, material_id`,
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("list branch stock: %w", err)
	}
	defer rows.Close()
	out := []*entity.BranchStock{}
	for rows.Next() {
		var s entity.BranchStock
		if err := rows.Scan(&s.BranchID, &s.MaterialID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch stock: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// UpsertStock inserta o actualiza la cantidad de un material en una sucursal.
func (r *BranchRepo) UpsertStock(ctx context.Context, s *entity.BranchStock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO branch_stock (branch_id, material_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (branch_id, material_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		s.BranchID, s.MaterialID, s.Quantity)
	if err != nil {
		return fmt.Errorf("upsert branch stock: %w", err)
	}
	return nil
}
