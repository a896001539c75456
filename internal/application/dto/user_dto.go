package dto

import "time"

// UserResponse salida de un usuario.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Usuarios     []UserResponse `json:"usuarios"`
	Total        int            `json:"total"`
	TotalPaginas int            `json:"totalPaginas"`
	Pagina       int            `json:"pagina"`
}

// UpdateRoleRequest body para PUT /api/usuarios/:id/rol.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=super_admin admin user"`
}

// UpdateRoleResponse salida del cambio de rol con el mensaje de consecuencia.
type UpdateRoleResponse struct {
	Mensaje string       `json:"mensaje"`
	Usuario UserResponse `json:"usuario"`
}
