package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
)

func TestApplyAndRevert_SecuenciaRestauraEstado(t *testing.T) {
	r := &entity.Resource{Kind: entity.ResourceKindIngredient, Name: "Harina", Acquired: d("15")}
	movs := []*entity.Movement{
		{Quantity: d("-5")},
		{Quantity: d("3")},
		{Quantity: d("-2.5")},
	}
	for _, m := range movs {
		require.NoError(t, inventory.ApplyEffect(r, m))
		avail, _ := inventory.Available(r)
		assert.False(t, avail.IsNegative())
	}
	avail, _ := inventory.Available(r)
	assert.True(t, d("10.5").Equal(avail))

	for i := len(movs) - 1; i >= 0; i-- {
		require.NoError(t, inventory.RevertEffect(r, movs[i]))
	}
	assert.True(t, d("15").Equal(r.Acquired))
	assert.True(t, r.Consumed.IsZero())
}

func TestApplyEffect_SalidaSinStock(t *testing.T) {
	r := &entity.Resource{Kind: entity.ResourceKindMaterial, Name: "Cajas", Acquired: d("2")}
	err := inventory.ApplyEffect(r, &entity.Movement{Quantity: d("-3")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, r.Consumed.IsZero(), "no debe aplicarse nada si falla")
}

func TestRevertEffect_EntradaYaConsumida(t *testing.T) {
	r := &entity.Resource{Kind: entity.ResourceKindRecipe, Name: "Masa", Produced: d("4"), Utilized: d("3")}
	err := inventory.RevertEffect(r, &entity.Movement{Quantity: d("4")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, d("4").Equal(r.Produced))
}

func TestRevertEffect_ProductoTerminado(t *testing.T) {
	r := &entity.Resource{Kind: entity.ResourceKindProduction, Name: "Pan"}
	require.NoError(t, inventory.ApplyEffect(r, &entity.Movement{Quantity: d("10")}))
	avail, _ := inventory.Available(r)
	assert.True(t, d("10").Equal(avail))

	require.NoError(t, inventory.RevertEffect(r, &entity.Movement{Quantity: d("10")}))
	avail, _ = inventory.Available(r)
	assert.True(t, avail.IsZero())
}
