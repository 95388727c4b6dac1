package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemType distingue materias primas de productos terminados.
type ItemType string

// Tipos de ítem.
const (
	ItemTypeMaterial ItemType = "material" // materia prima
	ItemTypeProduct  ItemType = "product"  // producto terminado
)

// Valid indica si el tipo es uno de los conocidos.
func (t ItemType) Valid() bool {
	return t == ItemTypeMaterial || t == ItemTypeProduct
}

// ParseItemType acepta singular o plural ("materials", "products") como llega en las rutas HTTP.
func ParseItemType(s string) (ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "material", "materials":
		return ItemTypeMaterial, true
	case "product", "products":
		return ItemTypeProduct, true
	}
	return "", false
}

// Item representa una materia prima o un producto con su stock cacheado.
// CurrentStock solo lo modifica el motor de movimientos; siempre es igual a la
// reproducción de los eventos del ledger para este ítem.
type Item struct {
	ID            string
	Type          ItemType
	Name          string
	Category      string
	Unit          string // inmutable después de creado
	CurrentStock  decimal.Decimal
	LowStockAlert *decimal.Decimal // solo materias primas; nil desactiva la alerta
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time // tombstone: el ítem conserva su historial
}

// Deleted indica si el ítem fue dado de baja.
func (i *Item) Deleted() bool {
	return i.DeletedAt != nil
}

// Clone devuelve una copia profunda (los punteros no se comparten).
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	if i.LowStockAlert != nil {
		v := *i.LowStockAlert
		out.LowStockAlert = &v
	}
	if i.DeletedAt != nil {
		v := *i.DeletedAt
		out.DeletedAt = &v
	}
	return &out
}
