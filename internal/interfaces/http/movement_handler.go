package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

const defaultRecentLimit = 10

// MovementHandler maneja el registro y la consulta del ledger de movimientos.
type MovementHandler struct {
	recorder *inventory.RecordMovementUseCase
	query    *inventory.LedgerQueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(recorder *inventory.RecordMovementUseCase, query *inventory.LedgerQueryUseCase) *MovementHandler {
	return &MovementHandler{recorder: recorder, query: query}
}

// Record godoc
// @Summary      Registrar movimiento de inventario
// @Description  in suma, out resta (409 si el stock no alcanza), adj fija el stock al valor indicado.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "item_id, item_type, action_type, change_amount"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recorder.RecordMovementFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Consultar el ledger
// @Description  Más reciente primero. today=true tiene prioridad sobre from/to (RFC3339, inclusivos).
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_type  query  string  false  "material | product"
// @Param        item_id    query  string  false  "ID del ítem"
// @Param        from       query  string  false  "desde (RFC3339)"
// @Param        to         query  string  false  "hasta (RFC3339)"
// @Param        today      query  bool    false  "solo el día en curso"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	filter := dto.MovementFilterRequest{
		ItemType: c.Query("item_type"),
		ItemID:   c.Query("item_id"),
		Today:    c.QueryBool("today"),
	}
	var err error
	if filter.From, err = queryTime(c, "from"); err != nil {
		return writeError(c, err)
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return writeError(c, err)
	}
	list, err := h.query.ListMovements(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[dto.MovementResponse]{Items: list, Total: len(list)})
}

// Recent godoc
// @Summary      Últimos movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "cantidad (por defecto 10, máximo 200)"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/recent [get]
func (h *MovementHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRecentLimit)
	list, err := h.query.ListRecentMovements(c.Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[dto.MovementResponse]{Items: list, Total: len(list)})
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.Invalid("%s debe tener formato RFC3339", key)
	}
	return &t, nil
}
