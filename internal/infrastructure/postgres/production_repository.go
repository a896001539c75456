package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo producciones sobre PostgreSQL. Las líneas se guardan como JSONB.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

const productionColumns = `id, origin, product_id, product_name, quantity, unit, total_cost, ingredients, recipes,
	operator, produced_at, state, observations, created_at, updated_at, created_by`

func scanProduction(row pgx.Row) (*entity.ProductionRun, error) {
	var (
		p                    entity.ProductionRun
		ingredients, recipes []byte
		producedAt           *time.Time
	)
	err := row.Scan(&p.ID, &p.Origin, &p.ProductID, &p.ProductName, &p.Quantity, &p.Unit, &p.TotalCost,
		&ingredients, &recipes, &p.Operator, &producedAt, &p.State, &p.Observations,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ingredients, &p.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal(recipes, &p.Recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	if producedAt != nil {
		p.ProducedAt = *producedAt
	}
	return &p, nil
}

func producedAtArg(p *entity.ProductionRun) *time.Time {
	if p.ProducedAt.IsZero() {
		return nil
	}
	return &p.ProducedAt
}

// Create inserta una producción.
func (r *ProductionRepo) Create(ctx context.Context, p *entity.ProductionRun) error {
	ingredients, err := toJSON(p.Ingredients)
	if err != nil {
		return err
	}
	recipes, err := toJSON(p.Recipes)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO productions (` + productionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(ctx, query,
		p.ID, p.Origin, p.ProductID, p.ProductName, p.Quantity, p.Unit, p.TotalCost, ingredients, recipes,
		p.Operator, producedAtArg(p), p.State, p.Observations, p.CreatedAt, p.UpdatedAt, p.CreatedBy,
	)
	if err != nil {
		return wrap("insert production", err)
	}
	return nil
}

func (r *ProductionRepo) get(ctx context.Context, query, id string) (*entity.ProductionRun, error) {
	p, err := scanProduction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production: %w", err)
	}
	return p, nil
}

// GetByID obtiene una producción; (nil, nil) si no existe.
func (r *ProductionRepo) GetByID(ctx context.Context, id string) (*entity.ProductionRun, error) {
	return r.get(ctx, `SELECT `+productionColumns+` FROM productions WHERE id = $1`, id)
}

// GetForUpdate obtiene la producción y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductionRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionRun, error) {
	return r.get(ctx, `SELECT `+productionColumns+` FROM productions WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste estado, líneas y costos.
func (r *ProductionRepo) Update(ctx context.Context, p *entity.ProductionRun) error {
	ingredients, err := toJSON(p.Ingredients)
	if err != nil {
		return err
	}
	recipes, err := toJSON(p.Recipes)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		UPDATE productions SET product_id = $2, product_name = $3, quantity = $4, unit = $5, total_cost = $6,
			ingredients = $7, recipes = $8, operator = $9, produced_at = $10, state = $11, observations = $12,
			updated_at = $13
		WHERE id = $1`,
		p.ID, p.ProductID, p.ProductName, p.Quantity, p.Unit, p.TotalCost, ingredients, recipes,
		p.Operator, producedAtArg(p), p.State, p.Observations, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production: %w", err)
	}
	return nil
}

// Delete elimina una producción.
func (r *ProductionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM productions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete production: %w", err)
	}
	return nil
}

// List listado filtrado con el total sin paginar.
func (r *ProductionRepo) List(ctx context.Context, f repository.ProductionFilter) ([]*entity.ProductionRun, int, error) {
	w := &where{}
	if f.State != "" {
		w.add("state = $%d", f.State)
	}
	if f.Operator != "" {
		w.add("operator ILIKE '%%' || $%d || '%%'", f.Operator)
	}
	if f.Search != "" {
		w.args = append(w.args, f.Search)
		n := len(w.args)
		w.conds = append(w.conds, fmt.Sprintf("(product_name ILIKE '%%' || $%d || '%%' OR id LIKE $%d || '%%')", n, n))
	}
	if f.From != nil {
		w.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("created_at < $%d", *f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM productions`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count productions: %w", err)
	}
	query := `SELECT ` + productionColumns + ` FROM productions` + w.sql() + ` ORDER BY created_at DESC, id DESC`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list productions: %w", err)
	}
	defer rows.Close()
	out := []*entity.ProductionRun{}
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan production: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// CountByState cantidad de producciones por estado.
func (r *ProductionRepo) CountByState(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT state, COUNT(*) FROM productions GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("count productions by state: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scan state count: %w", err)
		}
		out[state] = n
	}
	return out, rows.Err()
}
