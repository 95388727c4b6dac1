package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStockCalculator_Acciones(t *testing.T) {
	tests := []struct {
		name    string
		current string
		action  entity.ActionType
		amount  string
		want    string
		wantErr error
	}{
		{"entrada suma", "10", entity.ActionIn, "2.5", "12.5", nil},
		{"salida resta", "10", entity.ActionOut, "7", "3", nil},
		{"salida exacta deja cero", "3", entity.ActionOut, "3", "0", nil},
		{"salida excede stock", "3", entity.ActionOut, "10", "", domain.ErrInsufficientStock},
		{"ajuste sobrescribe", "3", entity.ActionAdjust, "20", "20", nil},
		{"ajuste a cero", "3", entity.ActionAdjust, "0", "0", nil},
		{"entrada cero inválida", "3", entity.ActionIn, "0", "", domain.ErrInvalidInput},
		{"salida negativa inválida", "3", entity.ActionOut, "-1", "", domain.ErrInvalidInput},
		{"ajuste negativo inválido", "3", entity.ActionAdjust, "-0.1", "", domain.ErrInvalidInput},
		{"acción desconocida", "3", entity.ActionType("transfer"), "1", "", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inventory.StockCalculator(d(tt.current), tt.action, d(tt.amount))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}

func TestReplay_AjusteEsSobrescritura(t *testing.T) {
	events := []*entity.Movement{
		{ID: "1", Seq: 1, ActionType: entity.ActionIn, ChangeAmount: d("10")},
		{ID: "2", Seq: 2, ActionType: entity.ActionOut, ChangeAmount: d("4")},
		{ID: "3", Seq: 3, ActionType: entity.ActionAdjust, ChangeAmount: d("50")},
		{ID: "4", Seq: 4, ActionType: entity.ActionIn, ChangeAmount: d("0.25")},
	}

	got, err := inventory.Replay(events)
	require.NoError(t, err)
	assert.Equal(t, "50.25", got.String())
}

func TestReplay_LedgerVacioEsCero(t *testing.T) {
	got, err := inventory.Replay(nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestReplay_DetectaSobregiro(t *testing.T) {
	events := []*entity.Movement{
		{ID: "1", Seq: 1, ActionType: entity.ActionIn, ChangeAmount: d("1")},
		{ID: "2", Seq: 2, ActionType: entity.ActionOut, ChangeAmount: d("2")},
	}

	_, err := inventory.Replay(events)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "seq 2")
}
