package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ItemHandler expone el registro de materias primas y productos.
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

func itemTypeParam(c *fiber.Ctx) (entity.ItemType, error) {
	raw := c.Params("type")
	t, ok := entity.ParseItemType(raw)
	if !ok {
		return "", domain.Invalid("tipo de ítem desconocido %q", raw)
	}
	return t, nil
}

// Create godoc
// @Summary      Crear ítem
// @Description  El stock inicial siempre es 0; se modifica solo registrando movimientos.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        type  path  string                 true  "materials | products"
// @Param        body  body  dto.CreateItemRequest  true  "name, unit, category, low_stock_alert"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/{type} [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), itemType, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "materials | products"
// @Param        id    path  string  true  "ID del ítem"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{type}/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.Context(), itemType, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ítems vigentes
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "materials | products"
// @Success      200   {object}  dto.ListResponse[dto.ItemResponse]
// @Router       /api/items/{type} [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.Context(), itemType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[dto.ItemResponse]{Items: list, Total: len(list)})
}

// Count godoc
// @Summary      Contar ítems vigentes
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "materials | products"
// @Success      200   {object}  dto.CountResponse
// @Router       /api/items/{type}/count [get]
func (h *ItemHandler) Count(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.Count(c.Context(), itemType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Type: string(itemType), Count: n})
}

// ListLowStock godoc
// @Summary      Ítems en o bajo su umbral de alerta
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "materials | products"
// @Success      200   {object}  dto.ListResponse[dto.ItemResponse]
// @Router       /api/items/{type}/low-stock [get]
func (h *ItemHandler) ListLowStock(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListLowStock(c.Context(), itemType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[dto.ItemResponse]{Items: list, Total: len(list)})
}

// Update godoc
// @Summary      Actualizar metadatos
// @Description  current_stock nunca se acepta; unit solo si coincide con la registrada.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        type  path  string                 true  "materials | products"
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{type}/{id} [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), itemType, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Dar de baja un ítem
// @Description  Marca el ítem como eliminado; su historial de movimientos se conserva.
// @Tags         items
// @Security     Bearer
// @Param        type  path  string  true  "materials | products"
// @Param        id    path  string  true  "ID del ítem"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{type}/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), itemType, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
