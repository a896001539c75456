package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

func historyRows() []dto.MovementResponse {
	unit := decimal.NewFromInt(2)
	total := decimal.NewFromInt(-10)
	return []dto.MovementResponse{{
		ID:            "m1",
		TipoProducto:  "ingrediente",
		RecursoID:     "harina",
		RecursoNombre: "Harina",
		Tipo:          "salida",
		Cantidad:      decimal.NewFromInt(-5),
		CostoUnitario: &unit,
		CostoTotal:    &total,
		Motivo:        "Producción de Pan",
		Operador:      "Ana",
		ProduccionID:  "p1",
		Fecha:         time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC),
	}}
}

func open(t *testing.T, b []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	return rows
}

func TestMovementHistory_WithCosts(t *testing.T) {
	b, err := NewHistoryExporter().MovementHistory(context.Background(), historyRows(), true)
	require.NoError(t, err)

	rows := open(t, b)
	require.Len(t, rows, 2)
	assert.Equal(t, headings(true), rows[0])
	assert.Equal(t, "2024-05-10 08:30", rows[1][0])
	assert.Equal(t, "Harina", rows[1][2])
	assert.Equal(t, "-5", rows[1][4])
	assert.Equal(t, "2", rows[1][5])
	assert.Equal(t, "p1", rows[1][10])
}

func TestMovementHistory_WithoutCostsOmitsColumns(t *testing.T) {
	b, err := NewHistoryExporter().MovementHistory(context.Background(), historyRows(), false)
	require.NoError(t, err)

	rows := open(t, b)
	require.Len(t, rows, 2)
	assert.NotContains(t, rows[0], "Costo unitario")
	assert.NotContains(t, rows[0], "Costo total")
	assert.Equal(t, "Producción de Pan", rows[1][5])
}

func TestMovementHistory_EmptyHasHeaderOnly(t *testing.T) {
	b, err := NewHistoryExporter().MovementHistory(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Len(t, open(t, b), 1)
}
