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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo transferencias a sucursales sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `t.id, t.material_id, t.material_name, t.branch_id, b.name, t.quantity, t.motive,
	t.observations, COALESCE(t.reverts_id, ''), t.operator, t.created_at, t.created_by`

const transferFrom = ` FROM transfers t JOIN branches b ON b.id = t.branch_id`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(&t.ID, &t.MaterialID, &t.MaterialName, &t.BranchID, &t.BranchName, &t.Quantity, &t.Motive,
		&t.Observations, &t.RevertsID, &t.Operator, &t.CreatedAt, &t.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta una transferencia o su compensación.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfers (id, material_id, material_name, branch_id, quantity, motive, observations,
			reverts_id, operator, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)`,
		t.ID, t.MaterialID, t.MaterialName, t.BranchID, t.Quantity, t.Motive, t.Observations,
		t.RevertsID, t.Operator, t.CreatedAt, t.CreatedBy)
	if err != nil {
		return wrap("insert transfer", err)
	}
	return nil
}

// GetForUpdate obtiene la transferencia y bloquea la fila; (nil, nil) si no existe.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+transferFrom+` WHERE t.id = $1 FOR UPDATE OF t`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// UpdateObservations reemplaza las observaciones (marca de reversión).
func (r *TransferRepo) UpdateObservations(ctx context.Context, id, observations string) error {
	if _, err := r.q.Exec(ctx, `UPDATE transfers SET observations = $2 WHERE id = $1`, id, observations); err != nil {
		return fmt.Errorf("update transfer observations: %w", err)
	}
	return nil
}

// List historial filtrado con el total sin paginar.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, int, error) {
	w := &where{}
	if f.BranchID != "" {
		w.add("t.branch_id = $%d", f.BranchID)
	}
	if f.MaterialID != "" {
		w.add("t.material_id = $%d", f.MaterialID)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+transferFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}
	query := `SELECT ` + transferColumns + transferFrom + w.sql() + ` ORDER BY t.created_at DESC, t.id DESC`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	out := []*entity.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// Stats totales y cantidad neta por sucursal.
func (r *TransferRepo) Stats(ctx context.Context) (repository.TransferStats, error) {
	st := repository.TransferStats{ByBranchQty: map[string]decimal.Decimal{}}
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE quantity > 0),
			COUNT(*) FILTER (WHERE quantity > 0 AND strpos(observations, $1) > 0)
		FROM transfers`, entity.RevertedMarker).Scan(&st.Total, &st.Reverted)
	if err != nil {
		return st, fmt.Errorf("transfer stats: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT branch_id, SUM(quantity) FROM transfers GROUP BY branch_id`)
	if err != nil {
		return st, fmt.Errorf("transfer stats by branch: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return st, fmt.Errorf("scan transfer stats: %w", err)
		}
		st.ByBranchQty[id] = qty
	}
	return st, rows.Err()
}
