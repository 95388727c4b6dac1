package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActionType tipo de movimiento de inventario.
type ActionType string

// Tipos de movimiento.
const (
	ActionIn     ActionType = "in"  // entrada: suma ChangeAmount
	ActionOut    ActionType = "out" // salida: resta ChangeAmount
	ActionAdjust ActionType = "adj" // calibración: ChangeAmount es el valor absoluto final
)

// Valid indica si la acción es una de las conocidas.
func (a ActionType) Valid() bool {
	return a == ActionIn || a == ActionOut || a == ActionAdjust
}

// Movement es un evento inmutable del ledger.
//
// Para in/out ChangeAmount es un delta positivo; para adj es el stock absoluto
// resultante (no un delta). Quien reconstruya historia debe ramificar por ActionType.
type Movement struct {
	ID           string
	Seq          int64 // asignado por el almacenamiento, define el orden del ledger
	ItemID       string
	ItemType     ItemType
	ActionType   ActionType
	ChangeAmount decimal.Decimal
	OldStock     decimal.Decimal
	NewStock     decimal.Decimal
	RelatedBatch string
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
}

// Clone devuelve una copia del evento.
func (m *Movement) Clone() *Movement {
	if m == nil {
		return nil
	}
	out := *m
	return &out
}
