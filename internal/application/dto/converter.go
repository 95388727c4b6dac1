package dto

import (
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ItemFromEntity convierte la entidad en su salida; IsLow lo calcula el evaluador de alertas.
func ItemFromEntity(it *entity.Item) *ItemResponse {
	if it == nil {
		return nil
	}
	return &ItemResponse{
		ID:            it.ID,
		Type:          string(it.Type),
		Name:          it.Name,
		Category:      it.Category,
		Unit:          it.Unit,
		CurrentStock:  it.CurrentStock,
		LowStockAlert: it.LowStockAlert,
		IsLow:         inventory.IsLow(it),
		Note:          it.Note,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

// ItemsFromEntities convierte una lista; nunca devuelve nil (serializa como []).
func ItemsFromEntities(list []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *ItemFromEntity(it))
	}
	return out
}

// MovementFromEntity convierte un evento del ledger.
func MovementFromEntity(m *entity.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:           m.ID,
		Seq:          m.Seq,
		ItemID:       m.ItemID,
		ItemType:     string(m.ItemType),
		ActionType:   string(m.ActionType),
		ChangeAmount: m.ChangeAmount,
		OldStock:     m.OldStock,
		NewStock:     m.NewStock,
		RelatedBatch: m.RelatedBatch,
		Note:         m.Note,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// MovementsFromEntities convierte una lista de eventos conservando el orden.
func MovementsFromEntities(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *MovementFromEntity(m))
	}
	return out
}
