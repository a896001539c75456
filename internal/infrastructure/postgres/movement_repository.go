package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, resource_kind, resource_id, resource_name, type, quantity, unit_cost, total_cost,
	motive, operator, observations, COALESCE(source_production_id, ''), COALESCE(source_transfer_id, ''),
	created_at, created_by`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.ResourceKind, &m.ResourceID, &m.ResourceName, &m.Type, &m.Quantity,
		&m.UnitCost, &m.TotalCost, &m.Motive, &m.Operator, &m.Observations, &m.SourceProductionID,
		&m.SourceTransferID, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta un movimiento. Los movimientos no se actualizan nunca.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, resource_kind, resource_id, resource_name, type, quantity, unit_cost, total_cost,
			motive, operator, observations, source_production_id, source_transfer_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''), $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ResourceKind, m.ResourceID, m.ResourceName, m.Type, m.Quantity, m.UnitCost, m.TotalCost,
		m.Motive, m.Operator, m.Observations, m.SourceProductionID, m.SourceTransferID, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return wrap("insert movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
}

// GetForUpdate obtiene el movimiento y bloquea la fila (SELECT FOR UPDATE).
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *MovementRepo) get(ctx context.Context, query, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Delete elimina un movimiento; domain.ErrNotFound si otra transacción ya lo eliminó.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBySourceProduction movimientos generados por una producción (referencia explícita).
func (r *MovementRepo) ListBySourceProduction(ctx context.Context, productionID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE source_production_id = $1 ORDER BY created_at, id FOR UPDATE`,
		productionID)
	if err != nil {
		return nil, fmt.Errorf("list movements by production: %w", err)
	}
	return collectMovements(rows)
}

// ListByMotiveProduction registros legados cuyo motivo menciona la producción.
func (r *MovementRepo) ListByMotiveProduction(ctx context.Context, productionID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE source_production_id IS NULL AND strpos(lower(motive), lower($1)) > 0
		ORDER BY created_at, id FOR UPDATE`,
		productionID)
	if err != nil {
		return nil, fmt.Errorf("list legacy movements by production: %w", err)
	}
	return collectMovements(rows)
}

// ListBySourceTransfer movimientos generados por una transferencia.
func (r *MovementRepo) ListBySourceTransfer(ctx context.Context, transferID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE source_transfer_id = $1 ORDER BY created_at, id`,
		transferID)
	if err != nil {
		return nil, fmt.Errorf("list movements by transfer: %w", err)
	}
	return collectMovements(rows)
}

// List historial filtrado, del más reciente al más antiguo, con el total sin paginar.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	w := &where{}
	if f.ResourceKind != "" {
		w.add("resource_kind = $%d", f.ResourceKind)
	}
	if f.ResourceID != "" {
		w.add("resource_id = $%d", f.ResourceID)
	}
	if f.From != nil {
		w.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("created_at < $%d", *f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	query := `SELECT ` + movementColumns + ` FROM movements` + w.sql() + ` ORDER BY created_at DESC, id DESC`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	list, err := collectMovements(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Stats agregados del libro completo.
func (r *MovementRepo) Stats(ctx context.Context) (repository.MovementStats, error) {
	st := repository.MovementStats{ByKind: map[string]int{}}
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE type = 'entrada'),
			COUNT(*) FILTER (WHERE type = 'salida'),
			COUNT(*) FILTER (WHERE type IN ('produccion', 'produccion_receta')),
			COALESCE(SUM(ABS(total_cost)) FILTER (WHERE quantity > 0), 0),
			COALESCE(SUM(ABS(total_cost)) FILTER (WHERE quantity <= 0), 0)
		FROM movements`).Scan(&st.Total, &st.Entradas, &st.Salidas, &st.Producciones, &st.InboundValue, &st.OutboundValue)
	if err != nil {
		return st, fmt.Errorf("movement stats: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT resource_kind, COUNT(*) FROM movements GROUP BY resource_kind`)
	if err != nil {
		return st, fmt.Errorf("movement stats by kind: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return st, fmt.Errorf("scan stats: %w", err)
		}
		st.ByKind[kind] = n
	}
	return st, rows.Err()
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	out := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
