package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/projection"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := projection.User(user)
	return &resp, nil
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(ctx context.Context, q dto.PageQuery) (*dto.UserListResponse, error) {
	q.Normalize(dto.DefaultLimit, dto.MaxLimit)
	users, total, err := uc.repo.List(ctx, q.Limite, q.Offset())
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, projection.User(u))
	}
	return &dto.UserListResponse{
		Usuarios:     out,
		Total:        total,
		TotalPaginas: dto.TotalPages(total, q.Limite),
		Pagina:       q.Pagina,
	}, nil
}

// UpdateRole promueve o degrada a un usuario. Solo super_admin, y nunca sobre sí mismo.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actor dto.Actor, userID string, req dto.UpdateRoleRequest) (*dto.UpdateRoleResponse, error) {
	if !permissions.For(actor.Role).CanManageUsers {
		return nil, domain.ErrForbidden
	}
	req.Role = strings.TrimSpace(req.Role)
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if userID == actor.UserID {
		return nil, fmt.Errorf("%w: no puede cambiar su propio rol", domain.ErrForbidden)
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	previous := user.Role
	if previous != req.Role {
		if err := uc.repo.UpdateRole(ctx, userID, req.Role); err != nil {
			return nil, fmt.Errorf("actualizar rol: %w", err)
		}
		user.Role = req.Role
	}
	return &dto.UpdateRoleResponse{
		Mensaje: roleMessage(user, previous),
		Usuario: projection.User(user),
	}, nil
}

func roleMessage(u *entity.User, previous string) string {
	name := u.Name
	if name == "" {
		name = u.Email
	}
	if previous == u.Role {
		return fmt.Sprintf("%s ya tiene el rol %s", name, u.Role)
	}
	switch u.Role {
	case entity.RoleSuperAdmin:
		return fmt.Sprintf("%s ahora es super_admin: verá precios, costos y catálogos y podrá administrar usuarios", name)
	case entity.RoleAdmin:
		return fmt.Sprintf("%s ahora es admin: podrá eliminar movimientos y producciones, sin ver precios", name)
	default:
		return fmt.Sprintf("%s ahora es user: solo consulta de recetas y producciones", name)
	}
}
