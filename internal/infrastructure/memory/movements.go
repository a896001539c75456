package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// MovementRepo implementa repository.MovementRepository.
type MovementRepo struct{ st *Store }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.st.write(func(d *state) { d.movements[m.ID] = *m })
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.st.read(func(d *state) {
		if m, ok := d.movements[id]; ok {
			out = &m
		}
	})
	return out, nil
}

// GetForUpdate en memoria el bloqueo lo da el mutex de la transacción.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	found := false
	r.st.write(func(d *state) {
		if _, found = d.movements[id]; found {
			delete(d.movements, id)
		}
	})
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MovementRepo) ListBySourceProduction(_ context.Context, productionID string) ([]*entity.Movement, error) {
	out := r.filter(func(m *entity.Movement) bool { return m.SourceProductionID == productionID })
	return out, nil
}

func (r *MovementRepo) ListByMotiveProduction(_ context.Context, productionID string) ([]*entity.Movement, error) {
	needle := strings.ToLower(productionID)
	out := r.filter(func(m *entity.Movement) bool {
		return m.SourceProductionID == "" && needle != "" && strings.Contains(strings.ToLower(m.Motive), needle)
	})
	return out, nil
}

func (r *MovementRepo) ListBySourceTransfer(_ context.Context, transferID string) ([]*entity.Movement, error) {
	out := r.filter(func(m *entity.Movement) bool { return m.SourceTransferID == transferID })
	return out, nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	all := r.filter(func(m *entity.Movement) bool {
		if f.ResourceKind != "" && m.ResourceKind != f.ResourceKind {
			return false
		}
		if f.ResourceID != "" && m.ResourceID != f.ResourceID {
			return false
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && !m.CreatedAt.Before(*f.To) {
			return false
		}
		return true
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *MovementRepo) Stats(_ context.Context) (repository.MovementStats, error) {
	st := repository.MovementStats{
		ByKind:        map[string]int{},
		InboundValue:  decimal.Zero,
		OutboundValue: decimal.Zero,
	}
	r.st.read(func(d *state) {
		for _, m := range d.movements {
			st.Total++
			st.ByKind[m.ResourceKind]++
			switch m.Type {
			case entity.MovementTypeEntrada:
				st.Entradas++
			case entity.MovementTypeSalida:
				st.Salidas++
			default:
				st.Producciones++
			}
			if m.Quantity.IsPositive() {
				st.InboundValue = st.InboundValue.Add(m.TotalCost.Abs())
			} else {
				st.OutboundValue = st.OutboundValue.Add(m.TotalCost.Abs())
			}
		}
	})
	return st, nil
}

// filter devuelve copias ordenadas de la más reciente a la más antigua.
func (r *MovementRepo) filter(keep func(m *entity.Movement) bool) []*entity.Movement {
	out := []*entity.Movement{}
	r.st.read(func(d *state) {
		for _, m := range d.movements {
			m := m
			if keep(&m) {
				out = append(out, &m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
