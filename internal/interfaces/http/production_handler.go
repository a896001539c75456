package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
)

// ProductionHandler maneja las peticiones HTTP de producciones (protegido).
type ProductionHandler struct {
	uc *production.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// CreateManual godoc
// @Summary      Crear producción manual
// @Description  Valida insumos y stock; si ejecutar es true (por defecto) consume stock en la misma transacción.
// @Tags         produccion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateManualProductionRequest  true  "Producto, cantidad, operador e insumos"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/produccion/manual [post]
func (h *ProductionHandler) CreateManual(c *fiber.Ctx) error {
	var in dto.CreateManualProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateManual(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateFromRecipe godoc
// @Summary      Crear producción desde receta
// @Tags         produccion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecipeProductionRequest  true  "Receta, cantidad y operador"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/produccion/desde-receta [post]
func (h *ProductionHandler) CreateFromRecipe(c *fiber.Ctx) error {
	var in dto.CreateRecipeProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateFromRecipe(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar producciones
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        buscar       query  string  false  "Texto en nombre u operador"
// @Param        estado       query  string  false  "planificada | en_proceso | completada | cancelada"
// @Param        fechaInicio  query  string  false  "YYYY-MM-DD"
// @Param        fechaFin     query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        operador     query  string  false  "Operador"
// @Param        pagina       query  int     false  "Página"  default(1)
// @Param        limite       query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.ProductionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/produccion [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	q := dto.ProductionListQuery{
		Buscar:      c.Query("buscar"),
		Estado:      c.Query("estado"),
		FechaInicio: c.Query("fechaInicio"),
		FechaFin:    c.Query("fechaFin"),
		Operador:    c.Query("operador"),
		PageQuery:   pageQuery(c),
	}
	out, err := h.uc.List(c.UserContext(), GetCapabilities(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producción
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.ProductionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produccion/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCapabilities(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Execute godoc
// @Summary      Ejecutar producción planificada
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.ProductionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/produccion/{id}/ejecutar [post]
func (h *ProductionHandler) Execute(c *fiber.Ctx) error {
	out, err := h.uc.Execute(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar producción
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.ProductionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/produccion/{id}/cancelar [post]
func (h *ProductionHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producción con reversión en cascada
// @Description  Revierte consumo de insumos y la salida del producto en una transacción y elimina sus movimientos.
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.DeleteProductionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/produccion/{id} [delete]
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sheet godoc
// @Summary      Hoja de producción (PDF)
// @Tags         produccion
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produccion/{id}/hoja [get]
func (h *ProductionHandler) Sheet(c *fiber.Ctx) error {
	data, filename, err := h.uc.Sheet(c.UserContext(), GetCapabilities(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}

// pageQuery lee pagina/limite; la normalización la hace cada caso de uso.
func pageQuery(c *fiber.Ctx) dto.PageQuery {
	return dto.PageQuery{Pagina: c.QueryInt("pagina", 1), Limite: c.QueryInt("limite", 0)}
}
