package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ResourceRepo implementa repository.ResourceRepository.
type ResourceRepo struct{ st *Store }

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

func (r *ResourceRepo) Create(_ context.Context, res *entity.Resource) error {
	r.st.write(func(d *state) { d.resources[res.ID] = res.Clone() })
	return nil
}

func (r *ResourceRepo) GetByID(_ context.Context, id string) (*entity.Resource, error) {
	var out *entity.Resource
	r.st.read(func(d *state) { out = d.resources[id].Clone() })
	return out, nil
}

func (r *ResourceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Resource, error) {
	return r.GetByID(ctx, id)
}

func (r *ResourceRepo) Update(_ context.Context, res *entity.Resource) error {
	r.st.write(func(d *state) { d.resources[res.ID] = res.Clone() })
	return nil
}

func (r *ResourceRepo) ListByKind(_ context.Context, kind string) ([]*entity.Resource, error) {
	out := []*entity.Resource{}
	r.st.read(func(d *state) {
		for _, res := range d.resources {
			if res.Kind == kind {
				out = append(out, res.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
