package client

import (
	"context"
	"errors"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

// ErrCancelled el operador no confirmó la acción.
var ErrCancelled = errors.New("acción cancelada por el operador")

// codeProductionIDNotFound código que devuelve la API cuando falta el ID de la producción.
const codeProductionIDNotFound = "PRODUCTION_ID_NOT_FOUND"

// Confirmer pregunta al operador. No debe bloquear más allá de ctx: al cancelarse ctx
// debe devolver ctx.Err().
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm implementa Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// DeleteMovement obtiene el plan, pide confirmación con su texto y elimina.
// Si el servidor no encuentra el ID de la producción, solo reintenta con fallback cuando
// el operador acepta explícitamente la advertencia.
func (c *Client) DeleteMovement(ctx context.Context, id string, confirmer Confirmer) (*dto.DeleteMovementResponse, error) {
	plan, err := c.MovementPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := confirmer.Confirm(ctx, plan.Confirmation)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCancelled
	}

	fallback := plan.RequiresFallbackConsent()
	out, err := c.DeleteMovementRaw(ctx, id, fallback)
	if err == nil || fallback || !IsCode(err, codeProductionIDNotFound) {
		return out, err
	}

	// la producción desapareció entre el plan y la eliminación
	var apiErr *APIError
	errors.As(err, &apiErr)
	ok, cerr := confirmer.Confirm(ctx, apiErr.Message)
	if cerr != nil {
		return nil, cerr
	}
	if !ok {
		return nil, ErrCancelled
	}
	return c.DeleteMovementRaw(ctx, id, true)
}
