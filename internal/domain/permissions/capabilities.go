// Package permissions es la única fuente de verdad para lo que cada rol puede ver y hacer.
// Handlers, middleware y proyecciones consultan Capabilities; ninguno compara roles por su cuenta.
package permissions

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// Capabilities banderas de visibilidad y acción derivadas del rol.
type Capabilities struct {
	Role                 string `json:"role"`
	CanViewPrices        bool   `json:"canViewPrices"`
	CanViewCatalogs      bool   `json:"canViewCatalogs"` // ingredientes y materiales
	CanDeleteMovements   bool   `json:"canDeleteMovements"`
	CanDeleteProductions bool   `json:"canDeleteProductions"`
	CanCreateProductions bool   `json:"canCreateProductions"`
	CanRegisterTransfers bool   `json:"canRegisterTransfers"`
	CanAdjustStock       bool   `json:"canAdjustStock"` // entradas y salidas manuales
	CanManageUsers       bool   `json:"canManageUsers"`
}

var table = map[string]Capabilities{
	entity.RoleSuperAdmin: {
		CanViewPrices:        true,
		CanViewCatalogs:      true,
		CanDeleteMovements:   true,
		CanDeleteProductions: true,
		CanCreateProductions: true,
		CanRegisterTransfers: true,
		CanAdjustStock:       true,
		CanManageUsers:       true,
	},
	entity.RoleAdmin: {
		CanDeleteMovements:   true,
		CanDeleteProductions: true,
	},
	entity.RoleUser: {},
}

// For devuelve las capacidades del rol. Un rol desconocido no tiene ninguna.
func For(role string) Capabilities {
	c := table[role]
	c.Role = role
	return c
}

// CanDeleteResourceOwnedBy informa si se pueden eliminar registros de un recurso creado por ownerRole.
// admin no puede tocar recursos de super_admin.
func (c Capabilities) CanDeleteResourceOwnedBy(ownerRole string) bool {
	if !c.CanDeleteMovements {
		return false
	}
	if ownerRole == entity.RoleSuperAdmin {
		return c.Role == entity.RoleSuperAdmin
	}
	return true
}

// CanViewKind informa si el rol puede listar recursos del tipo indicado.
func (c Capabilities) CanViewKind(kind string) bool {
	switch kind {
	case entity.ResourceKindIngredient, entity.ResourceKindMaterial:
		return c.CanViewCatalogs
	case entity.ResourceKindRecipe, entity.ResourceKindProduction:
		return c.Role != "" && entity.IsValidRole(c.Role)
	}
	return false
}
