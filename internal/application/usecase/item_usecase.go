package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ItemUseCase casos de uso del registro de ítems. El stock se maneja solo vía movimientos.
type ItemUseCase struct {
	repo repository.ItemRepository
	now  func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, now: time.Now}
}

// Create registra un ítem nuevo. CurrentStock inicia en 0 sin importar la entrada.
func (uc *ItemUseCase) Create(ctx context.Context, itemType entity.ItemType, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if !itemType.Valid() {
		return nil, domain.Invalid("tipo de ítem desconocido %q", itemType)
	}
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	if name == "" {
		return nil, domain.Invalid("name es obligatorio")
	}
	if unit == "" {
		return nil, domain.Invalid("unit es obligatorio")
	}
	if err := validateThreshold(itemType, in.LowStockAlert); err != nil {
		return nil, err
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	item := &entity.Item{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Type:          itemType,
		Name:          name,
		Category:      strings.TrimSpace(in.Category),
		Unit:          unit,
		CurrentStock:  decimal.Zero,
		LowStockAlert: in.LowStockAlert,
		Note:          in.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return dto.ItemFromEntity(item), nil
}

// GetByID obtiene un ítem vivo.
func (uc *ItemUseCase) GetByID(ctx context.Context, itemType entity.ItemType, id string) (*dto.ItemResponse, error) {
	item, err := uc.getLive(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	return dto.ItemFromEntity(item), nil
}

// List lista los ítems vivos del tipo en orden de creación.
func (uc *ItemUseCase) List(ctx context.Context, itemType entity.ItemType) ([]dto.ItemResponse, error) {
	items, err := uc.listLive(ctx, itemType)
	if err != nil {
		return nil, err
	}
	return dto.ItemsFromEntities(items), nil
}

// Count cuenta los ítems vivos del tipo.
func (uc *ItemUseCase) Count(ctx context.Context, itemType entity.ItemType) (int, error) {
	if !itemType.Valid() {
		return 0, domain.Invalid("tipo de ítem desconocido %q", itemType)
	}
	return uc.repo.Count(ctx, itemType)
}

// ListLowStock ítems vivos con stock en o bajo su umbral.
func (uc *ItemUseCase) ListLowStock(ctx context.Context, itemType entity.ItemType) ([]dto.ItemResponse, error) {
	items, err := uc.listLive(ctx, itemType)
	if err != nil {
		return nil, err
	}
	return dto.ItemsFromEntities(inventory.ListLowStock(items)), nil
}

// Update aplica un patch de metadatos. No permite modificar el stock ni cambiar la unidad.
func (uc *ItemUseCase) Update(ctx context.Context, itemType entity.ItemType, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.CurrentStock != nil {
		return nil, domain.Invalid("current_stock solo cambia mediante movimientos")
	}
	item, err := uc.getLive(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) != item.Unit {
		return nil, domain.Invalid("no se puede cambiar la unidad de un ítem existente (%s)", item.Unit)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name es obligatorio")
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Note != nil {
		item.Note = *in.Note
	}
	if in.LowStockAlert.Set {
		if err := validateThreshold(itemType, in.LowStockAlert.Value); err != nil {
			return nil, err
		}
		item.LowStockAlert = in.LowStockAlert.Value
	}
	item.UpdatedAt = uc.now().UTC().Truncate(time.Microsecond)
	if err := uc.repo.UpdateMetadata(ctx, item); err != nil {
		return nil, err
	}
	return dto.ItemFromEntity(item), nil
}

// Delete da de baja el ítem (tombstone). Su historia en el ledger se conserva.
func (uc *ItemUseCase) Delete(ctx context.Context, itemType entity.ItemType, id string) error {
	if _, err := uc.getLive(ctx, itemType, id); err != nil {
		return err
	}
	return uc.repo.SoftDelete(ctx, itemType, id, uc.now().UTC().Truncate(time.Microsecond))
}

func (uc *ItemUseCase) getLive(ctx context.Context, itemType entity.ItemType, id string) (*entity.Item, error) {
	if !itemType.Valid() {
		return nil, domain.Invalid("tipo de ítem desconocido %q", itemType)
	}
	item, err := uc.repo.GetByID(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Deleted() {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, itemType, id)
	}
	return item, nil
}

func (uc *ItemUseCase) listLive(ctx context.Context, itemType entity.ItemType) ([]*entity.Item, error) {
	if !itemType.Valid() {
		return nil, domain.Invalid("tipo de ítem desconocido %q", itemType)
	}
	return uc.repo.List(ctx, itemType, false)
}

func validateThreshold(itemType entity.ItemType, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}
	if itemType != entity.ItemTypeMaterial {
		return domain.Invalid("low_stock_alert solo aplica a materias primas")
	}
	if v.IsNegative() {
		return domain.Invalid("low_stock_alert no puede ser negativo")
	}
	return nil
}
