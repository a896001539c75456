package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
)

func newUserUseCase(t *testing.T) *usecase.UserUseCase {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	for _, u := range []entity.User{
		{ID: "u1", Email: "ana@example.com", Name: "Ana", Role: entity.RoleSuperAdmin},
		{ID: "u2", Email: "beto@example.com", Name: "Beto", Role: entity.RoleUser},
	} {
		u := u
		require.NoError(t, st.Users().Create(ctx, &u))
	}
	return usecase.NewUserUseCase(st.Users())
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	uc := newUserUseCase(t)
	ana := dto.Actor{UserID: "u1", Role: entity.RoleSuperAdmin}

	out, err := uc.UpdateRole(ctx, ana, "u2", dto.UpdateRoleRequest{Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Usuario.Role)
	assert.Contains(t, out.Mensaje, "Beto ahora es admin")

	got, err := uc.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)
}

func TestUpdateRole_Rechazos(t *testing.T) {
	ctx := context.Background()
	uc := newUserUseCase(t)
	ana := dto.Actor{UserID: "u1", Role: entity.RoleSuperAdmin}

	_, err := uc.UpdateRole(ctx, ana, "u1", dto.UpdateRoleRequest{Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.UpdateRole(ctx, dto.Actor{UserID: "u2", Role: entity.RoleAdmin}, "u1", dto.UpdateRoleRequest{Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.UpdateRole(ctx, ana, "u2", dto.UpdateRoleRequest{Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateRole(ctx, ana, "u9", dto.UpdateRoleRequest{Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestList(t *testing.T) {
	uc := newUserUseCase(t)
	out, err := uc.List(context.Background(), dto.PageQuery{Limite: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 2, out.TotalPaginas)
	require.Len(t, out.Usuarios, 1)
	assert.Equal(t, "ana@example.com", out.Usuarios[0].Email)
}
