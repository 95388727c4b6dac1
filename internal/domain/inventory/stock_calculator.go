package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ValidateAmount verifica la cantidad según el tipo de movimiento, antes de cualquier efecto.
// in/out: estrictamente positiva. adj: no negativa (es el valor absoluto destino).
func ValidateAmount(action entity.ActionType, amount decimal.Decimal) error {
	switch action {
	case entity.ActionIn, entity.ActionOut:
		if !amount.IsPositive() {
			return domain.Invalid("change_amount debe ser mayor que cero para %q", action)
		}
	case entity.ActionAdjust:
		if amount.IsNegative() {
			return domain.Invalid("change_amount no puede ser negativo para %q", action)
		}
	default:
		return domain.Invalid("action_type desconocido %q", action)
	}
	return nil
}

// StockCalculator (servicio de dominio) calcula el stock propuesto S' a partir de S.
//
//	in:  S' = S + cantidad
//	out: S' = S - cantidad   (ErrInsufficientStock si S' < 0)
//	adj: S' = cantidad       (sobrescritura, no delta)
func StockCalculator(current decimal.Decimal, action entity.ActionType, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateAmount(action, amount); err != nil {
		return decimal.Zero, err
	}
	switch action {
	case entity.ActionIn:
		return current.Add(amount), nil
	case entity.ActionOut:
		next := current.Sub(amount)
		if next.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: disponible %s, solicitado %s",
				domain.ErrInsufficientStock, current.String(), amount.String())
		}
		return next, nil
	default:
		return amount, nil
	}
}

// Replay reproduce los eventos en orden de creación partiendo de cero y devuelve el stock resultante.
// Un evento que dejaría el stock negativo indica un ledger corrupto y se reporta como error.
func Replay(events []*entity.Movement) (decimal.Decimal, error) {
	stock := decimal.Zero
	for _, ev := range events {
		next, err := StockCalculator(stock, ev.ActionType, ev.ChangeAmount)
		if err != nil {
			return stock, fmt.Errorf("evento %s (seq %d): %w", ev.ID, ev.Seq, err)
		}
		stock = next
	}
	return stock, nil
}
