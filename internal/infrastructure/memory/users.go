package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ st *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

// Create registra un usuario (solo para siembra de datos; los usuarios vienen del proveedor de identidad).
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.st.write(func(d *state) { d.users[u.ID] = *u })
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.st.read(func(d *state) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	all := []*entity.User{}
	r.st.read(func(d *state) {
		for _, u := range d.users {
			u := u
			all = append(all, &u)
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, limit, offset), len(all), nil
}

func (r *UserRepo) UpdateRole(_ context.Context, id, role string) error {
	var err error
	r.st.write(func(d *state) {
		u, ok := d.users[id]
		if !ok {
			err = domain.ErrUserNotFound
			return
		}
		u.Role = role
		d.users[id] = u
	})
	return err
}
