package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/movement"
)

// MovementHandler maneja el libro unificado de movimientos (protegido).
type MovementHandler struct {
	uc *movement.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movement.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

func historyQuery(c *fiber.Ctx) dto.HistoryQuery {
	return dto.HistoryQuery{Tipo: c.Query("tipo"), Recurso: c.Query("recurso"), PageQuery: pageQuery(c)}
}

// ProductsByType godoc
// @Summary      Recursos por tipo con disponibilidad
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        tipo  query  string  true  "ingrediente | material | receta | produccion"
// @Success      200   {object}  dto.ProductsByTypeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/movimientos/productos [get]
func (h *MovementHandler) ProductsByType(c *fiber.Ctx) error {
	out, err := h.uc.ProductsByType(c.UserContext(), GetCapabilities(c), c.Query("tipo"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de movimientos paginado
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        tipo     query  string  false  "Tipo de recurso"
// @Param        recurso  query  string  false  "ID del recurso"
// @Param        pagina   query  int     false  "Página"  default(1)
// @Param        limite   query  int     false  "Límite"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/movimientos/historial [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetCapabilities(c), historyQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrar movimiento manual (entrada/salida)
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "tipoProducto, recursoId, tipo, cantidad, costoUnitario (entradas), motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterManual(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Plan godoc
// @Summary      Plan de eliminación de un movimiento
// @Description  Estrategia de reversión y texto de confirmación que la consola debe mostrar.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  reversal.Plan
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id}/plan [get]
func (h *MovementHandler) Plan(c *fiber.Ctx) error {
	out, err := h.uc.Plan(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento revirtiendo stock
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del movimiento"
// @Param        fallback  query  bool    false  "Acepta eliminar solo el registro cuando no hay ID de producción"
// @Success      200  {object}  dto.DeleteMovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	fallback := c.QueryBool("fallback", false)
	out, err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id"), fallback)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas del libro de movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MovementStatsResponse
// @Router       /api/movimientos/estadisticas [get]
func (h *MovementHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetCapabilities(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar historial (XLSX)
// @Tags         movimientos
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        tipo     query  string  false  "Tipo de recurso"
// @Param        recurso  query  string  false  "ID del recurso"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/movimientos/exportar [get]
func (h *MovementHandler) Export(c *fiber.Ctx) error {
	data, filename, err := h.uc.Export(c.UserContext(), GetCapabilities(c), historyQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
