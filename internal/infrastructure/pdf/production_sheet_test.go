package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

func sheetFixture(withCosts bool) dto.ProductionResponse {
	at := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)
	line := dto.ProductionLineResponse{RecursoID: "harina", Nombre: "Harina", Cantidad: decimal.NewFromInt(5)}
	p := dto.ProductionResponse{
		ID:              "65f1c2a9b3e4d5f6a7b8c9d0",
		Origen:          "manual",
		ProductoID:      "pan",
		Nombre:          "Pan",
		Cantidad:        decimal.NewFromInt(10),
		Unidad:          "unidad",
		Ingredientes:    []dto.ProductionLineResponse{line},
		Recetas:         []dto.ProductionLineResponse{},
		Operador:        "Ana",
		FechaProduccion: &at,
		Estado:          "completada",
	}
	if withCosts {
		unit := decimal.NewFromInt(2)
		cost := decimal.NewFromInt(10)
		p.Ingredientes[0].CostoUnitario = &unit
		p.Ingredientes[0].Costo = &cost
		p.CostoTotal = &cost
	}
	return p
}

func TestProductionSheet_GeneratesPDF(t *testing.T) {
	g := NewSheetGenerator("Panadería")
	for _, withCosts := range []bool{true, false} {
		b, err := g.ProductionSheet(context.Background(), sheetFixture(withCosts))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "withCosts=%v", withCosts)
	}
}

func TestSheetGenerator_Formatting(t *testing.T) {
	g := NewSheetGenerator("")
	assert.Equal(t, "-", g.money(nil))
	v := decimal.NewFromInt(10)
	assert.Contains(t, g.money(&v), "10")
	assert.Equal(t, "-", nonEmpty("", "-"))
}
