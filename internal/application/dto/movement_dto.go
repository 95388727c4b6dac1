package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	ItemID       string          `json:"item_id"`
	ItemType     string          `json:"item_type"`
	ActionType   string          `json:"action_type"` // in | out | adj
	ChangeAmount decimal.Decimal `json:"change_amount"`
	RelatedBatch string          `json:"related_batch,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// MovementFilterRequest filtros de GET /api/movements.
// Today tiene prioridad sobre From/To; todos los límites son inclusivos.
type MovementFilterRequest struct {
	ItemType string
	ItemID   string
	From     *time.Time
	To       *time.Time
	Today    bool
}

// MovementResponse salida de un evento del ledger.
type MovementResponse struct {
	ID           string          `json:"id"`
	Seq          int64           `json:"seq"`
	ItemID       string          `json:"item_id"`
	ItemType     string          `json:"item_type"`
	ActionType   string          `json:"action_type"`
	ChangeAmount decimal.Decimal `json:"change_amount"`
	OldStock     decimal.Decimal `json:"old_stock"`
	NewStock     decimal.Decimal `json:"new_stock"`
	RelatedBatch string          `json:"related_batch,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RecordMovementResponse resultado del motor: evento creado y stock nuevo.
type RecordMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	NewStock decimal.Decimal  `json:"new_stock"`
}

// LedgerVerificationDTO comparación entre el stock cacheado y la reproducción del ledger.
type LedgerVerificationDTO struct {
	ItemID     string          `json:"item_id"`
	ItemType   string          `json:"item_type"`
	Cached     decimal.Decimal `json:"cached"`
	Replayed   decimal.Decimal `json:"replayed"`
	Events     int             `json:"events"`
	Consistent bool            `json:"consistent"`
	Error      string          `json:"error,omitempty"`
}
