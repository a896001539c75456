package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

func stockKey(branchID, materialID string) string { return branchID + "|" + materialID }

// BranchRepo implementa repository.BranchRepository.
type BranchRepo struct{ st *Store }

var _ repository.BranchRepository = (*BranchRepo)(nil)

func (r *BranchRepo) Create(_ context.Context, b *entity.Branch) error {
	r.st.write(func(d *state) { d.branches[b.ID] = *b })
	return nil
}

func (r *BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	var out *entity.Branch
	r.st.read(func(d *state) {
		if b, ok := d.branches[id]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r *BranchRepo) List(_ context.Context) ([]*entity.Branch, error) {
	out := []*entity.Branch{}
	r.st.read(func(d *state) {
		for _, b := range d.branches {
			b := b
			out = append(out, &b)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BranchRepo) GetStockForUpdate(_ context.Context, branchID, materialID string) (*entity.BranchStock, error) {
	out := &entity.BranchStock{BranchID: branchID, MaterialID: materialID, Quantity: decimal.Zero}
	r.st.read(func(d *state) {
		if s, ok := d.stock[stockKey(branchID, materialID)]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *BranchRepo) ListStock(_ context.Context, branchID string) ([]*entity.BranchStock, error) {
	out := []*entity.BranchStock{}
	r.st.read(func(d *state) {
		for _, s := range d.stock {
			if branchID == "" || s.BranchID == branchID {
				s := s
				out = append(out, &s)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return stockKey(out[i].BranchID, out[i].MaterialID) < stockKey(out[j].BranchID, out[j].MaterialID)
	})
	return out, nil
}

func (r *BranchRepo) UpsertStock(_ context.Context, s *entity.BranchStock) error {
	r.st.write(func(d *state) { d.stock[stockKey(s.BranchID, s.MaterialID)] = *s })
	return nil
}

// TransferRepo implementa repository.TransferRepository.
type TransferRepo struct{ st *Store }

var _ repository.TransferRepository = (*TransferRepo)(nil)

func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	r.st.write(func(d *state) { d.transfers[t.ID] = *t })
	return nil
}

func (r *TransferRepo) GetForUpdate(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	r.st.read(func(d *state) {
		if t, ok := d.transfers[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (r *TransferRepo) UpdateObservations(_ context.Context, id, observations string) error {
	r.st.write(func(d *state) {
		if t, ok := d.transfers[id]; ok {
			t.Observations = observations
			d.transfers[id] = t
		}
	})
	return nil
}

func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, int, error) {
	all := []*entity.Transfer{}
	r.st.read(func(d *state) {
		for _, t := range d.transfers {
			if f.BranchID != "" && t.BranchID != f.BranchID {
				continue
			}
			if f.MaterialID != "" && t.MaterialID != f.MaterialID {
				continue
			}
			t := t
			all = append(all, &t)
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

func (r *TransferRepo) Stats(_ context.Context) (repository.TransferStats, error) {
	st := repository.TransferStats{ByBranchQty: map[string]decimal.Decimal{}}
	r.st.read(func(d *state) {
		for _, t := range d.transfers {
			st.ByBranchQty[t.BranchID] = st.ByBranchQty[t.BranchID].Add(t.Quantity)
			if t.IsCompensation() {
				continue
			}
			st.Total++
			if t.IsReverted() {
				st.Reverted++
			}
		}
	})
	return st, nil
}
