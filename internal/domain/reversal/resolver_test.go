package reversal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/reversal"
)

const prodID = "64f1234567890abcdef12345"

func TestExtractProductionID(t *testing.T) {
	cases := []struct {
		motive string
		want   string
		ok     bool
	}{
		{"Producción: batch A - ID: 64f1234567890abcdef12345", prodID, true},
		{"Producción: 64f1234567890abcdef12345", prodID, true},
		{"producción 64F1234567890ABCDEF12345", "64F1234567890ABCDEF12345", true},
		{"Producción de receta: Pan - ID:64f1234567890abcdef12345", prodID, true},
		{"manual adjustment", "", false},
		{"Producción: Pan - ID: 64f12345", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.motive, func(t *testing.T) {
			got, ok := reversal.ExtractProductionID(tc.motive)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractProductionID_Idempotente(t *testing.T) {
	motive := "Producción: batch A - ID: " + prodID
	a, _ := reversal.ExtractProductionID(motive)
	b, _ := reversal.ExtractProductionID(motive)
	assert.Equal(t, a, b)
}

func TestExtractProductionID_AcentoDescompuesto(t *testing.T) {
	// "ó" como o + U+0301
	motive := "Producción: " + prodID
	got, ok := reversal.ExtractProductionID(motive)
	assert.True(t, ok)
	assert.Equal(t, prodID, got)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		m    entity.Movement
		want reversal.Class
	}{
		{"receta por motivo", entity.Movement{Motive: "Producción de receta: Pan - ID: " + prodID}, reversal.ClassRecipeProduction},
		{"receta por tipo", entity.Movement{Motive: "ajuste", ResourceKind: entity.ResourceKindRecipe, Type: entity.MovementTypeProduccionReceta}, reversal.ClassRecipeProduction},
		{"tradicional", entity.Movement{Motive: "Producción: Pan - ID: " + prodID}, reversal.ClassTraditionalProduction},
		{"palabra en minúsculas", entity.Movement{Motive: "salida por producción del día"}, reversal.ClassTraditionalProduction},
		{"sin tilde", entity.Movement{Motive: "PRODUCCION semanal"}, reversal.ClassTraditionalProduction},
		{"manual", entity.Movement{Motive: "manual adjustment"}, reversal.ClassManual},
		{"receta sin producción", entity.Movement{Motive: "compra", ResourceKind: entity.ResourceKindRecipe, Type: entity.MovementTypeEntrada}, reversal.ClassManual},
		{"transferencia aunque mencione producción", entity.Movement{Motive: "Transferencia a Norte: producción", SourceTransferID: "t-1"}, reversal.ClassTransfer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reversal.Classify(&tc.m))
		})
	}
}

func TestResolve_RecetaEliminaSoloEntrada(t *testing.T) {
	m := &entity.Movement{ID: "m1", Motive: "Producción de receta: Pan - ID: " + prodID, ResourceName: "Pan", Quantity: decimal.NewFromInt(4)}
	plan := reversal.Resolve(m)
	assert.Equal(t, reversal.StrategyDeleteEntryCascade, plan.Strategy)
	assert.Equal(t, prodID, plan.ProductionID)
	assert.Contains(t, plan.Confirmation, "receta")
	assert.False(t, plan.RequiresFallbackConsent())
}

func TestResolve_TradicionalEliminaProduccion(t *testing.T) {
	m := &entity.Movement{ID: "m2", Motive: "Producción: Pan - ID: " + prodID, ResourceName: "Pan", Quantity: decimal.NewFromInt(10)}
	plan := reversal.Resolve(m)
	assert.Equal(t, reversal.ClassTraditionalProduction, plan.Class)
	assert.Equal(t, reversal.StrategyDeleteProductionRun, plan.Strategy)
	assert.Equal(t, prodID, plan.ProductionID)
	assert.Contains(t, plan.Confirmation, prodID)
}

func TestResolve_ReferenciaExplicitaTienePrioridad(t *testing.T) {
	explicit := "aaaaaaaaaaaaaaaaaaaaaaaa"
	m := &entity.Movement{Motive: "Producción: Pan - ID: " + prodID, SourceProductionID: explicit}
	plan := reversal.Resolve(m)
	assert.Equal(t, explicit, plan.ProductionID)
}

func TestResolve_TradicionalSinIDDegrada(t *testing.T) {
	m := &entity.Movement{ID: "m3", Motive: "Producción: Pan (lote perdido)", ResourceName: "Pan", Quantity: decimal.NewFromInt(-2)}
	plan := reversal.Resolve(m)
	assert.Equal(t, reversal.StrategyDeleteEntryFallback, plan.Strategy)
	assert.True(t, plan.RequiresFallbackConsent())
	assert.Equal(t, reversal.FallbackWarning, plan.Warning)
	assert.Contains(t, plan.Confirmation, "2 Pan")
}

func TestResolve_Manual(t *testing.T) {
	m := &entity.Movement{ID: "m4", Motive: "compra proveedor", ResourceName: "Harina", Quantity: decimal.NewFromInt(25)}
	plan := reversal.Resolve(m)
	assert.Equal(t, reversal.ClassManual, plan.Class)
	assert.Equal(t, reversal.StrategyDeleteEntry, plan.Strategy)
	assert.Empty(t, plan.ProductionID)
}

func TestProductionMotive_SeResuelveDeVuelta(t *testing.T) {
	for _, origin := range []string{entity.ProductionOriginManual, entity.ProductionOriginRecipe} {
		motive := reversal.ProductionMotive(origin, "Pan", prodID)
		got, ok := reversal.ExtractProductionID(motive)
		assert.True(t, ok)
		assert.Equal(t, prodID, got)
	}
	assert.Equal(t, reversal.ClassRecipeProduction,
		reversal.Classify(&entity.Movement{Motive: reversal.ProductionMotive(entity.ProductionOriginRecipe, "Pan", prodID)}))
	assert.Equal(t, reversal.ClassTraditionalProduction,
		reversal.Classify(&entity.Movement{Motive: reversal.ProductionMotive(entity.ProductionOriginManual, "Pan", prodID)}))
}
