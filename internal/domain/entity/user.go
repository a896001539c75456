package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// User representa un operador de la consola. La identidad la emite un proveedor externo;
// aquí solo se administra el rol.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string // super_admin, admin, user
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidRole informa si role es un rol conocido.
func IsValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}
