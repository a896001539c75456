package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/branch"
	"github.com/jhoicas/Produccion-api/internal/application/movement"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductionUC *production.UseCase
	MovementUC   *movement.UseCase
	BranchUC     *branch.UseCase
	UserUC       *usecase.UserUseCase
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las destructivas
// además exigen la capacidad correspondiente del rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Producciones
	prod := api.Group("/produccion")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	canCreate := RequireCapability("crear producciones", canCreateProductions)
	prod.Get("/", productionHandler.List)
	prod.Post("/manual", canCreate, productionHandler.CreateManual)
	prod.Post("/desde-receta", canCreate, productionHandler.CreateFromRecipe)
	prod.Get("/:id", productionHandler.GetByID)
	prod.Get("/:id/hoja", productionHandler.Sheet)
	prod.Post("/:id/ejecutar", canCreate, productionHandler.Execute)
	prod.Post("/:id/cancelar", canCreate, productionHandler.Cancel)
	prod.Delete("/:id", RequireCapability("eliminar producciones", canDeleteProductions), productionHandler.Delete)

	// Libro de movimientos
	mov := api.Group("/movimientos")
	movementHandler := NewMovementHandler(deps.MovementUC)
	mov.Get("/productos", movementHandler.ProductsByType)
	mov.Get("/historial", movementHandler.History)
	mov.Get("/estadisticas", movementHandler.Stats)
	mov.Get("/exportar", movementHandler.Export)
	mov.Post("/", RequireCapability("ajustar stock", canAdjustStock), movementHandler.Register)
	mov.Get("/:id/plan", movementHandler.Plan)
	mov.Delete("/:id", RequireCapability("eliminar movimientos", canDeleteMovements), movementHandler.Delete)

	// Sucursales
	suc := api.Group("/sucursales")
	branchHandler := NewBranchHandler(deps.BranchUC)
	canTransfer := RequireCapability("transferir material a sucursales", canRegisterTransfers)
	suc.Get("/", branchHandler.List)
	suc.Get("/materiales", branchHandler.Materials)
	suc.Get("/historial", branchHandler.History)
	suc.Get("/estadisticas", branchHandler.Stats)
	suc.Post("/transferencias", canTransfer, branchHandler.RegisterTransfer)
	suc.Post("/transferencias/:id/revertir", canTransfer, branchHandler.RevertTransfer)

	// Usuarios
	users := api.Group("/usuarios")
	userHandler := NewUserHandler(deps.UserUC)
	canManage := RequireCapability("administrar usuarios", canManageUsers)
	users.Get("/me", userHandler.Me)
	users.Get("/", canManage, userHandler.List)
	users.Put("/:id/rol", canManage, userHandler.UpdateRole)
}
