package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RecordMovementFromRequest adapta el request HTTP al caso de uso RecordMovement(ctx, MovementInputDTO).
// userID es el operador autenticado (vacío si la API corre sin autenticación).
func (uc *RecordMovementUseCase) RecordMovementFromRequest(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	itemType, ok := entity.ParseItemType(in.ItemType)
	if !ok {
		itemType = entity.ItemType(in.ItemType)
	}
	res, err := uc.RecordMovement(ctx, MovementInputDTO{
		ItemID:       in.ItemID,
		ItemType:     itemType,
		ActionType:   entity.ActionType(in.ActionType),
		ChangeAmount: in.ChangeAmount,
		RelatedBatch: in.RelatedBatch,
		Note:         in.Note,
		UserID:       userID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RecordMovementResponse{
		Movement: *dto.MovementFromEntity(res.Movement),
		NewStock: res.NewStock,
	}, nil
}
