package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ProductionRepo implementa repository.ProductionRepository.
type ProductionRepo struct{ st *Store }

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

func (r *ProductionRepo) Create(_ context.Context, p *entity.ProductionRun) error {
	r.st.write(func(d *state) { d.productions[p.ID] = cloneRun(p) })
	return nil
}

func (r *ProductionRepo) GetByID(_ context.Context, id string) (*entity.ProductionRun, error) {
	var out *entity.ProductionRun
	r.st.read(func(d *state) { out = cloneRun(d.productions[id]) })
	return out, nil
}

// GetForUpdate no necesita bloquear: las transacciones ya están serializadas.
func (r *ProductionRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionRun, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductionRepo) Update(_ context.Context, p *entity.ProductionRun) error {
	r.st.write(func(d *state) { d.productions[p.ID] = cloneRun(p) })
	return nil
}

func (r *ProductionRepo) Delete(_ context.Context, id string) error {
	r.st.write(func(d *state) { delete(d.productions, id) })
	return nil
}

func (r *ProductionRepo) List(_ context.Context, f repository.ProductionFilter) ([]*entity.ProductionRun, int, error) {
	search := strings.ToLower(f.Search)
	operator := strings.ToLower(f.Operator)
	all := []*entity.ProductionRun{}
	r.st.read(func(d *state) {
		for _, p := range d.productions {
			if f.State != "" && p.State != f.State {
				continue
			}
			if operator != "" && !strings.Contains(strings.ToLower(p.Operator), operator) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.ProductName), search) &&
				!strings.HasPrefix(p.ID, search) {
				continue
			}
			if f.From != nil && p.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !p.CreatedAt.Before(*f.To) {
				continue
			}
			all = append(all, cloneRun(p))
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *ProductionRepo) CountByState(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	r.st.read(func(d *state) {
		for _, p := range d.productions {
			out[p.State]++
		}
	})
	return out, nil
}
