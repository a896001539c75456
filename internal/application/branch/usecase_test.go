package branch_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/branch"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// mapCache caché en memoria que serializa como lo haría Redis.
type mapCache struct{ data map[string][]byte }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

var superAdmin = dto.Actor{UserID: "u1", Name: "Ana", Role: entity.RoleSuperAdmin}

func newUseCase(t *testing.T) (*branch.UseCase, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, st.Resources().Create(ctx, &entity.Resource{
		ID: "caja", Kind: entity.ResourceKindMaterial, Name: "Caja", Acquired: d("10"),
	}))
	require.NoError(t, st.Branches().Create(ctx, &entity.Branch{ID: "centro", Name: "Centro"}))
	uc := branch.NewUseCase(st, st.Branches(), st.Transfers(), st.Resources(), ports.NoopLocker{},
		&mapCache{data: map[string][]byte{}}, ports.NoopRecorder{}, time.Minute, zerolog.Nop())
	return uc, st
}

func request(qty string) dto.RegisterTransferRequest {
	return dto.RegisterTransferRequest{MaterialID: "caja", SucursalID: "centro", Cantidad: d(qty), Motivo: "Reposición"}
}

func centralAvailable(t *testing.T, st *memory.Store) decimal.Decimal {
	t.Helper()
	r, err := st.Resources().GetByID(context.Background(), "caja")
	require.NoError(t, err)
	v, _ := inventory.Available(r)
	return v
}

func branchStock(t *testing.T, st *memory.Store) decimal.Decimal {
	t.Helper()
	s, err := st.Branches().GetStockForUpdate(context.Background(), "centro", "caja")
	require.NoError(t, err)
	return s.Quantity
}

func TestTransferenciaYReversion(t *testing.T) {
	ctx := context.Background()
	uc, st := newUseCase(t)

	tr, err := uc.RegisterTransfer(ctx, superAdmin, request("4"))
	require.NoError(t, err)
	assert.Equal(t, "Ana", tr.Operador)
	assert.True(t, centralAvailable(t, st).Equal(d("6")))
	assert.True(t, branchStock(t, st).Equal(d("4")))

	rev, err := uc.RevertTransfer(ctx, superAdmin, tr.ID)
	require.NoError(t, err)
	assert.True(t, rev.Original.Revertida)
	assert.Contains(t, rev.Original.Observaciones, entity.RevertedMarker)
	assert.True(t, rev.Compensacion.Compensacion)
	assert.True(t, rev.Compensacion.Cantidad.Equal(d("-4")))
	assert.Equal(t, tr.ID, rev.Compensacion.RevierteA)
	assert.True(t, centralAvailable(t, st).Equal(d("10")))
	assert.True(t, branchStock(t, st).IsZero())

	_, err = uc.RevertTransfer(ctx, superAdmin, tr.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReverted)
	_, err = uc.RevertTransfer(ctx, superAdmin, rev.Compensacion.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.RevertTransfer(ctx, superAdmin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransferencia_LibroCoincideConDisponible(t *testing.T) {
	ctx := context.Background()
	uc, st := newUseCase(t)
	ledger := func() decimal.Decimal {
		t.Helper()
		list, _, err := st.Movements().List(ctx, repository.MovementFilter{
			ResourceKind: entity.ResourceKindMaterial, ResourceID: "caja",
		})
		require.NoError(t, err)
		sum := decimal.Zero
		for _, m := range list {
			sum = sum.Add(m.Quantity)
		}
		return sum
	}

	tr, err := uc.RegisterTransfer(ctx, superAdmin, request("4"))
	require.NoError(t, err)
	assert.True(t, ledger().Equal(d("-4")))
	assert.True(t, d("10").Add(ledger()).Equal(centralAvailable(t, st)))
	movs, err := st.Movements().ListBySourceTransfer(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSalida, movs[0].Type)
	assert.Contains(t, movs[0].Motive, "Centro")

	rev, err := uc.RevertTransfer(ctx, superAdmin, tr.ID)
	require.NoError(t, err)
	assert.True(t, ledger().IsZero())
	assert.True(t, centralAvailable(t, st).Equal(d("10")))
	movs, _ = st.Movements().ListBySourceTransfer(ctx, rev.Compensacion.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEntrada, movs[0].Type)

	stats, err := st.Movements().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entradas)
	assert.Equal(t, 1, stats.Salidas)
}

func TestRegisterTransfer_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc, st := newUseCase(t)

	_, err := uc.RegisterTransfer(ctx, superAdmin, request("11"))
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Available.Equal(d("10")))

	_, err = uc.RegisterTransfer(ctx, superAdmin, request("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req := request("1")
	req.SucursalID = "norte"
	_, err = uc.RegisterTransfer(ctx, superAdmin, req)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sucursalId", ve.Field)

	req = request("1")
	req.Motivo = ""
	_, err = uc.RegisterTransfer(ctx, superAdmin, req)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "motivo", ve.Field)

	assert.True(t, centralAvailable(t, st).Equal(d("10")))
	stats, err := st.Movements().Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestRevertTransfer_StockDeSucursalYaUsado(t *testing.T) {
	ctx := context.Background()
	uc, st := newUseCase(t)
	tr, err := uc.RegisterTransfer(ctx, superAdmin, request("4"))
	require.NoError(t, err)
	require.NoError(t, st.Branches().UpsertStock(ctx, &entity.BranchStock{BranchID: "centro", MaterialID: "caja", Quantity: d("1")}))

	_, err = uc.RevertTransfer(ctx, superAdmin, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, centralAvailable(t, st).Equal(d("6")))
}

func TestMaterialsHistoryYStats(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)

	tr, err := uc.RegisterTransfer(ctx, superAdmin, request("3"))
	require.NoError(t, err)
	_, err = uc.RevertTransfer(ctx, superAdmin, tr.ID)
	require.NoError(t, err)

	stats, err = uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Revertidas)
	assert.True(t, stats.CantidadPorSucursal["centro"].IsZero())

	hist, err := uc.History(ctx, dto.TransferHistoryQuery{Sucursal: "centro"})
	require.NoError(t, err)
	assert.Equal(t, 2, hist.Total)

	mats, err := uc.Materials(ctx, permissions.For(entity.RoleSuperAdmin), "centro")
	require.NoError(t, err)
	require.Len(t, mats.Materiales, 1)
	require.NotNil(t, mats.Materiales[0].EnSucursal)
	assert.True(t, mats.Materiales[0].Disponible.Equal(d("10")))

	_, err = uc.Materials(ctx, permissions.For(entity.RoleAdmin), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Materials(ctx, permissions.For(entity.RoleSuperAdmin), "norte")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
