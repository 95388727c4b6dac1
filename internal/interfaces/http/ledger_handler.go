package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// LedgerHandler expone la verificación del stock cacheado contra el ledger.
type LedgerHandler struct {
	uc *inventory.LedgerVerifyUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerVerifyUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// VerifyAll godoc
// @Summary      Verificar todo el inventario
// @Description  Reproduce el ledger de cada ítem (incluidos los dados de baja) y devuelve solo los inconsistentes.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.LedgerVerificationDTO]
// @Router       /api/ledger/verify [get]
func (h *LedgerHandler) VerifyAll(c *fiber.Ctx) error {
	list, err := h.uc.VerifyAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[dto.LedgerVerificationDTO]{Items: list, Total: len(list)})
}

// VerifyItem godoc
// @Summary      Verificar un ítem
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "materials | products"
// @Param        id    path  string  true  "ID del ítem"
// @Success      200  {object}  dto.LedgerVerificationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/verify/{type}/{id} [get]
func (h *LedgerHandler) VerifyItem(c *fiber.Ctx) error {
	itemType, err := itemTypeParam(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.VerifyItem(c.Context(), itemType, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
