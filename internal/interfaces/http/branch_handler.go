package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/branch"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

// BranchHandler maneja sucursales y transferencias de material (protegido).
type BranchHandler struct {
	uc *branch.UseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *branch.UseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// RegisterTransfer godoc
// @Summary      Transferir material a una sucursal
// @Tags         sucursales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransferRequest  true  "materialId, sucursalId, cantidad, motivo"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sucursales/transferencias [post]
func (h *BranchHandler) RegisterTransfer(c *fiber.Ctx) error {
	var in dto.RegisterTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterTransfer(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RevertTransfer godoc
// @Summary      Revertir transferencia
// @Description  Marca la original como revertida, inserta la compensación y restaura ambos stocks.
// @Tags         sucursales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.RevertTransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sucursales/transferencias/{id}/revertir [post]
func (h *BranchHandler) RevertTransfer(c *fiber.Ctx) error {
	out, err := h.uc.RevertTransfer(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sucursales
// @Tags         sucursales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BranchResponse
// @Router       /api/sucursales [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.Branches(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Materials godoc
// @Summary      Materiales con stock central y de sucursal
// @Tags         sucursales
// @Security     Bearer
// @Produce      json
// @Param        sucursal  query  string  false  "ID de la sucursal"
// @Success      200  {object}  dto.BranchMaterialsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sucursales/materiales [get]
func (h *BranchHandler) Materials(c *fiber.Ctx) error {
	out, err := h.uc.Materials(c.UserContext(), GetCapabilities(c), c.Query("sucursal"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de transferencias
// @Tags         sucursales
// @Security     Bearer
// @Produce      json
// @Param        sucursal  query  string  false  "ID de la sucursal"
// @Param        material  query  string  false  "ID del material"
// @Param        pagina    query  int     false  "Página"  default(1)
// @Param        limite    query  int     false  "Límite"
// @Success      200  {object}  dto.TransferHistoryResponse
// @Router       /api/sucursales/historial [get]
func (h *BranchHandler) History(c *fiber.Ctx) error {
	q := dto.TransferHistoryQuery{
		Sucursal:  c.Query("sucursal"),
		Material:  c.Query("material"),
		PageQuery: pageQuery(c),
	}
	out, err := h.uc.History(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de transferencias
// @Tags         sucursales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BranchStatsResponse
// @Router       /api/sucursales/estadisticas [get]
func (h *BranchHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
