package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear una materia prima o un producto.
// El stock inicial siempre es 0: cualquier current_stock enviado se ignora.
type CreateItemRequest struct {
	Name          string           `json:"name" validate:"required"`
	Category      string           `json:"category"`
	Unit          string           `json:"unit" validate:"required"`
	LowStockAlert *decimal.Decimal `json:"low_stock_alert,omitempty"` // solo materias primas
	Note          string           `json:"note"`
	CurrentStock  *decimal.Decimal `json:"current_stock,omitempty"`
}

// UpdateItemRequest patch de metadatos. Unit se acepta solo si coincide con la actual;
// CurrentStock presente siempre es un error (el stock cambia solo vía movimientos).
type UpdateItemRequest struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	Note          *string          `json:"note"`
	Unit          *string          `json:"unit"`
	LowStockAlert NullableDecimal  `json:"low_stock_alert"`
	CurrentStock  *decimal.Decimal `json:"current_stock"`
}

// NullableDecimal distingue campo ausente, null explícito y valor.
type NullableDecimal struct {
	Set   bool
	Value *decimal.Decimal
}

// UnmarshalJSON marca el campo como presente; null limpia el valor.
func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID            string           `json:"id"`
	Type          string           `json:"type"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Unit          string           `json:"unit"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	LowStockAlert *decimal.Decimal `json:"low_stock_alert"`
	IsLow         bool             `json:"is_low"`
	Note          string           `json:"note,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
