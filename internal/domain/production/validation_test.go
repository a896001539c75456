package production_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type countingLookup struct {
	resources map[string]*entity.Resource
	calls     int
}

func (c *countingLookup) get(_ context.Context, id string) (*entity.Resource, error) {
	c.calls++
	return c.resources[id], nil
}

func newLookup() *countingLookup {
	return &countingLookup{resources: map[string]*entity.Resource{
		"harina": {ID: "harina", Kind: entity.ResourceKindIngredient, Name: "Harina", Acquired: d("15")},
		"masa":   {ID: "masa", Kind: entity.ResourceKindRecipe, Name: "Masa madre", Produced: d("4"), Utilized: d("1")},
	}}
}

func validInput() production.Input {
	return production.Input{
		Quantity: d("10"),
		Operator: "Ana",
		Ingredients: []entity.ProductionLine{
			{ResourceID: "harina", Quantity: d("5"), UnitCost: d("2.00")},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	l := newLookup()
	require.NoError(t, production.Validate(context.Background(), validInput(), l.get))
}

func TestValidate_OrdenDeReglas(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(in *production.Input)
		field  string
	}{
		{"cantidad cero", func(in *production.Input) { in.Quantity = decimal.Zero }, "cantidad"},
		{"cantidad negativa y sin operador", func(in *production.Input) { in.Quantity = d("-1"); in.Operator = "" }, "cantidad"},
		{"operador en blanco", func(in *production.Input) { in.Operator = "   " }, "operador"},
		{"sin líneas", func(in *production.Input) { in.Ingredients = nil }, "ingredientes"},
		{"ingrediente sin seleccionar", func(in *production.Input) { in.Ingredients[0].ResourceID = "" }, "ingrediente"},
		{"ingrediente cantidad cero", func(in *production.Input) { in.Ingredients[0].Quantity = decimal.Zero }, "ingrediente"},
		{"ingrediente inexistente", func(in *production.Input) { in.Ingredients[0].ResourceID = "nada" }, "ingrediente"},
		{"receta como ingrediente", func(in *production.Input) { in.Ingredients[0].ResourceID = "masa" }, "ingrediente"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := production.Validate(context.Background(), in, newLookup().get)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidate_StockInsuficienteIncluyeDetalle(t *testing.T) {
	in := validInput()
	in.Ingredients[0].Quantity = d("20")
	err := production.Validate(context.Background(), in, newLookup().get)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Harina")
	assert.Contains(t, err.Error(), "15")
	assert.Contains(t, err.Error(), "20")
}

func TestValidate_RecetaContraDisponible(t *testing.T) {
	in := validInput()
	in.Recipes = []entity.ProductionLine{{ResourceID: "masa", Quantity: d("4")}}
	err := production.Validate(context.Background(), in, newLookup().get)

	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Masa madre", se.Name)
	assert.True(t, d("3").Equal(se.Available))
}

func TestValidate_LineasRepetidasSeSuman(t *testing.T) {
	in := validInput()
	in.Ingredients = append(in.Ingredients, entity.ProductionLine{ResourceID: "harina", Quantity: d("11")})
	err := production.Validate(context.Background(), in, newLookup().get)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestValidateShape_SinLineasNoConsultaStock(t *testing.T) {
	l := newLookup()
	in := validInput()
	in.Ingredients = nil

	err := production.Validate(context.Background(), in, l.get)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, l.calls, "no debe consultarse el stock")
}

func TestTotalCost(t *testing.T) {
	in := validInput()
	assert.True(t, d("10.00").Equal(production.TotalCost(in)))

	in.Recipes = []entity.ProductionLine{{ResourceID: "masa", Quantity: d("1.5"), UnitCost: d("4")}}
	assert.True(t, d("16").Equal(production.TotalCost(in)))
}
