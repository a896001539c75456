package production_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
	"github.com/jhoicas/Produccion-api/internal/domain/reversal"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeSheets struct{ got dto.ProductionResponse }

func (f *fakeSheets) ProductionSheet(_ context.Context, p dto.ProductionResponse) ([]byte, error) {
	f.got = p
	return []byte("%PDF"), nil
}

type fixture struct {
	st     *memory.Store
	uc     *production.UseCase
	sheets *fakeSheets
}

var superAdmin = dto.Actor{UserID: "u1", Name: "Ana", Role: entity.RoleSuperAdmin}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := memory.NewStore()
	sheets := &fakeSheets{}
	uc := production.NewUseCase(st, st.Productions(), ports.NoopLocker{}, ports.NoopCache{},
		ports.NoopRecorder{}, sheets, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, st.Resources().Create(ctx, &entity.Resource{
		ID: "harina", Kind: entity.ResourceKindIngredient, Name: "Harina", Unit: "kg",
		Acquired: d("15"), UnitPrice: d("2"),
	}))
	require.NoError(t, st.Resources().Create(ctx, &entity.Resource{
		ID: "masa", Kind: entity.ResourceKindRecipe, Name: "Masa madre", Unit: "kg",
		Produced: d("4"),
		Components: []entity.Component{
			{ResourceID: "harina", Kind: entity.ResourceKindIngredient, QuantityPerUnit: d("2")},
		},
	}))
	require.NoError(t, st.Resources().Create(ctx, &entity.Resource{
		ID: "pan", Kind: entity.ResourceKindProduction, Name: "Pan", Unit: "unidad",
	}))
	return fixture{st: st, uc: uc, sheets: sheets}
}

func (f fixture) available(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	r, err := f.st.Resources().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, r)
	v, _ := inventory.Available(r)
	return v
}

func manualRequest() dto.CreateManualProductionRequest {
	return dto.CreateManualProductionRequest{
		ProductoID:   "pan",
		Cantidad:     d("1"),
		Operador:     "Luis",
		Ingredientes: []dto.ProductionLineRequest{{RecursoID: "harina", Cantidad: d("5"), CostoUnitario: d("2")}},
	}
}

func TestCreateManual_AplicaYRevierteEnCascada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.uc.CreateManual(ctx, superAdmin, manualRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.CostoTotal)
	assert.True(t, resp.CostoTotal.Equal(d("10")))
	assert.Equal(t, entity.ProductionStateCompleted, resp.Estado)
	assert.Len(t, resp.ID, 24)
	assert.True(t, f.available(t, "harina").Equal(d("10")))
	assert.True(t, f.available(t, "pan").Equal(d("1")))

	movs, err := f.st.Movements().ListBySourceProduction(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		id, ok := reversal.ExtractProductionID(m.Motive)
		require.True(t, ok)
		assert.Equal(t, resp.ID, id)
	}

	del, err := f.uc.Delete(ctx, superAdmin, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, del.Revertido.Movimientos)
	require.Len(t, del.Revertido.Ingredientes, 1)
	assert.True(t, del.Revertido.Ingredientes[0].Cantidad.Equal(d("5")))
	assert.True(t, f.available(t, "harina").Equal(d("15")))
	assert.True(t, f.available(t, "pan").IsZero())

	movs, _ = f.st.Movements().ListBySourceProduction(ctx, resp.ID)
	assert.Empty(t, movs)
	_, err = f.uc.GetByID(ctx, permissions.For(entity.RoleSuperAdmin), resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateManual_CostoDelClienteSeIgnora(t *testing.T) {
	f := newFixture(t)
	req := manualRequest()
	bogus := d("999")
	req.CostoTotal = &bogus
	req.Ingredientes[0].CostoUnitario = d("50")

	resp, err := f.uc.CreateManual(context.Background(), superAdmin, req)
	require.NoError(t, err)
	assert.True(t, resp.CostoTotal.Equal(d("10")))
}

func TestCreateManual_ValidacionNoTocaStock(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(r *dto.CreateManualProductionRequest)
		field string
	}{
		{"cantidad cero", func(r *dto.CreateManualProductionRequest) { r.Cantidad = decimal.Zero }, "cantidad"},
		{"sin operador", func(r *dto.CreateManualProductionRequest) { r.Operador = "  " }, "operador"},
		{"sin lineas", func(r *dto.CreateManualProductionRequest) { r.Ingredientes = nil }, "ingredientes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := manualRequest()
			tc.edit(&req)
			_, err := f.uc.CreateManual(context.Background(), superAdmin, req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.True(t, f.available(t, "harina").Equal(d("15")))
		})
	}
}

func TestCreateManual_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	req := manualRequest()
	req.Ingredientes[0].Cantidad = d("16")

	_, err := f.uc.CreateManual(context.Background(), superAdmin, req)
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Harina", se.Name)
	assert.True(t, se.Available.Equal(d("15")))
	assert.True(t, f.available(t, "pan").IsZero())
}

func TestCreateManual_ProductoNuevo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := manualRequest()
	req.ProductoID = ""
	req.Nombre = "Galletas"

	resp, err := f.uc.CreateManual(ctx, superAdmin, req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ProductoID)
	assert.True(t, f.available(t, resp.ProductoID).Equal(d("1")))

	req.Nombre = ""
	_, err = f.uc.CreateManual(ctx, superAdmin, req)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "nombre", ve.Field)
}

func TestPlanificadaLuegoEjecutarYCancelar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	no := false
	req := manualRequest()
	req.Ejecutar = &no

	planned, err := f.uc.CreateManual(ctx, superAdmin, req)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionStatePlanned, planned.Estado)
	assert.True(t, f.available(t, "harina").Equal(d("15")))

	done, err := f.uc.Execute(ctx, superAdmin, planned.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionStateCompleted, done.Estado)
	assert.NotNil(t, done.FechaProduccion)
	assert.True(t, f.available(t, "harina").Equal(d("10")))

	_, err = f.uc.Execute(ctx, superAdmin, planned.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Cancel(ctx, superAdmin, planned.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	other, err := f.uc.CreateManual(ctx, superAdmin, req)
	require.NoError(t, err)
	cancelled, err := f.uc.Cancel(ctx, superAdmin, other.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionStateCancelled, cancelled.Estado)
}

func TestCreateFromRecipe_DerivaLineas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.uc.CreateFromRecipe(ctx, superAdmin, dto.CreateRecipeProductionRequest{
		RecetaID: "masa", Cantidad: d("3"), Operador: "Luis",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionOriginRecipe, resp.Origen)
	require.Len(t, resp.Ingredientes, 1)
	assert.True(t, resp.Ingredientes[0].Cantidad.Equal(d("6")))
	assert.True(t, f.available(t, "harina").Equal(d("9")))
	assert.True(t, f.available(t, "masa").Equal(d("7")))

	movs, _ := f.st.Movements().ListBySourceProduction(ctx, resp.ID)
	var out *entity.Movement
	for _, m := range movs {
		if m.IsInbound() {
			out = m
		}
	}
	require.NotNil(t, out)
	assert.Equal(t, entity.MovementTypeProduccionReceta, out.Type)
	assert.Equal(t, reversal.ClassRecipeProduction, reversal.Classify(out))
}

func TestCreateFromRecipe_RecetaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateFromRecipe(context.Background(), superAdmin, dto.CreateRecipeProductionRequest{
		RecetaID: "harina", Cantidad: d("1"), Operador: "Luis",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "recetaId", ve.Field)
}

func TestCreateFromRecipe_ComponenteMaterialRechazado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.st.Resources().Create(ctx, &entity.Resource{
		ID: "caja", Kind: entity.ResourceKindMaterial, Name: "Caja", Acquired: d("10"),
	}))
	require.NoError(t, f.st.Resources().Create(ctx, &entity.Resource{
		ID: "torta", Kind: entity.ResourceKindRecipe, Name: "Torta",
		Components: []entity.Component{
			{ResourceID: "harina", Kind: entity.ResourceKindIngredient, QuantityPerUnit: d("1")},
			{ResourceID: "caja", Kind: entity.ResourceKindMaterial, QuantityPerUnit: d("1")},
		},
	}))

	_, err := f.uc.CreateFromRecipe(ctx, superAdmin, dto.CreateRecipeProductionRequest{
		RecetaID: "torta", Cantidad: d("1"), Operador: "Luis",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "recetaId", ve.Field)
	assert.Contains(t, ve.Error(), "material")
	assert.True(t, f.available(t, "harina").Equal(d("15")))
	assert.True(t, f.available(t, "caja").Equal(d("10")))
}

func TestDelete_ProductoYaConsumidoFalla(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp, err := f.uc.CreateManual(ctx, superAdmin, manualRequest())
	require.NoError(t, err)

	pan, _ := f.st.Resources().GetByID(ctx, "pan")
	pan.Produced = decimal.Zero
	pan.Acquired = decimal.Zero
	require.NoError(t, f.st.Resources().Update(ctx, pan))

	_, err = f.uc.Delete(ctx, superAdmin, resp.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.available(t, "harina").Equal(d("10")))
	run, _ := f.st.Productions().GetByID(ctx, resp.ID)
	assert.NotNil(t, run)
}

func TestDelete_AdminNoRevierteRecursoDeSuperAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pan, _ := f.st.Resources().GetByID(ctx, "pan")
	pan.OwnerRole = entity.RoleSuperAdmin
	require.NoError(t, f.st.Resources().Update(ctx, pan))
	resp, err := f.uc.CreateManual(ctx, superAdmin, manualRequest())
	require.NoError(t, err)

	admin := dto.Actor{UserID: "u2", Name: "Beto", Role: entity.RoleAdmin}
	_, err = f.uc.Delete(ctx, admin, resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, f.available(t, "harina").Equal(d("10")))
	assert.True(t, f.available(t, "pan").Equal(d("1")))
	run, _ := f.st.Productions().GetByID(ctx, resp.ID)
	assert.NotNil(t, run)

	_, err = f.uc.Delete(ctx, superAdmin, resp.ID)
	require.NoError(t, err)
	assert.True(t, f.available(t, "pan").IsZero())
}

func TestDelete_LegadoEliminaMovimientosDelMotivo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const runID = "64f1a2b3c4d5e6f7a8b9c0d3"
	harina, _ := f.st.Resources().GetByID(ctx, "harina")
	harina.Consumed = d("5")
	require.NoError(t, f.st.Resources().Update(ctx, harina))
	require.NoError(t, f.st.Productions().Create(ctx, &entity.ProductionRun{
		ID: runID, Origin: entity.ProductionOriginManual, ProductID: "pan", ProductName: "Pan",
		Quantity: d("1"), State: entity.ProductionStateCompleted,
		Ingredients: []entity.ProductionLine{{ResourceID: "harina", Name: "Harina", Quantity: d("5")}},
	}))
	pan, _ := f.st.Resources().GetByID(ctx, "pan")
	pan.Produced = d("1")
	require.NoError(t, f.st.Resources().Update(ctx, pan))
	for id, motive := range map[string]string{
		"legado-1": "Producción: Pan - ID: " + runID,
		"legado-2": "Producción " + runID,
		"otro":     "Producción: Pan - ID: 64f1a2b3c4d5e6f7a8b9c0ff",
	} {
		require.NoError(t, f.st.Movements().Create(ctx, &entity.Movement{
			ID: id, ResourceKind: entity.ResourceKindIngredient, ResourceID: "harina",
			Type: entity.MovementTypeSalida, Quantity: d("-5"), Motive: motive,
		}))
	}

	del, err := f.uc.Delete(ctx, superAdmin, runID)
	require.NoError(t, err)
	assert.Equal(t, 2, del.Revertido.Movimientos)
	assert.True(t, f.available(t, "harina").Equal(d("15")))
	for _, id := range []string{"legado-1", "legado-2"} {
		m, _ := f.st.Movements().GetByID(ctx, id)
		assert.Nil(t, m, id)
	}
	m, _ := f.st.Movements().GetByID(ctx, "otro")
	assert.NotNil(t, m)
}

func TestDelete_RegistroLegadoSinMovimientos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	harina, _ := f.st.Resources().GetByID(ctx, "harina")
	harina.Consumed = d("5")
	require.NoError(t, f.st.Resources().Update(ctx, harina))
	pan, _ := f.st.Resources().GetByID(ctx, "pan")
	pan.Produced = d("1")
	require.NoError(t, f.st.Resources().Update(ctx, pan))
	require.NoError(t, f.st.Productions().Create(ctx, &entity.ProductionRun{
		ID: "64f1a2b3c4d5e6f7a8b9c0d1", Origin: entity.ProductionOriginManual,
		ProductID: "pan", ProductName: "Pan", Quantity: d("1"), State: entity.ProductionStateCompleted,
		Ingredients: []entity.ProductionLine{{ResourceID: "harina", Name: "Harina", Quantity: d("5")}},
	}))

	del, err := f.uc.Delete(ctx, superAdmin, "64f1a2b3c4d5e6f7a8b9c0d1")
	require.NoError(t, err)
	assert.Zero(t, del.Revertido.Movimientos)
	assert.True(t, f.available(t, "harina").Equal(d("15")))
	assert.True(t, f.available(t, "pan").IsZero())
}

func TestList_FiltrosYPaginacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		req := manualRequest()
		req.Ingredientes[0].Cantidad = d("1")
		_, err := f.uc.CreateManual(ctx, superAdmin, req)
		require.NoError(t, err)
	}

	q := dto.ProductionListQuery{Estado: entity.ProductionStateCompleted}
	q.Limite = 2
	out, err := f.uc.List(ctx, permissions.For(entity.RoleUser), q)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.TotalPaginas)
	require.Len(t, out.Producciones, 2)
	assert.Nil(t, out.Producciones[0].CostoTotal)

	_, err = f.uc.List(ctx, permissions.For(entity.RoleUser), dto.ProductionListQuery{Estado: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.List(ctx, permissions.For(entity.RoleUser), dto.ProductionListQuery{FechaInicio: "01/02/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSheet_UsaVistaProyectada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp, err := f.uc.CreateManual(ctx, superAdmin, manualRequest())
	require.NoError(t, err)

	pdf, name, err := f.uc.Sheet(ctx, permissions.For(entity.RoleAdmin), resp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "produccion-"+resp.ID+".pdf", name)
	assert.Nil(t, f.sheets.got.CostoTotal)
}
