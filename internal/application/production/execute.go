package production

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/application/projection"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
	rules "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/reversal"
)

// applyRun aplica los efectos de stock de la producción: una salida por línea consumida y una
// entrada por la cantidad producida, todas con referencia explícita a la producción.
// Deja la producción en estado completada; el llamador la persiste.
func (uc *UseCase) applyRun(
	ctx context.Context,
	s ports.Stores,
	run *entity.ProductionRun,
	lookup rules.Lookup,
	actor dto.Actor,
) error {
	now := uc.now()
	motive := reversal.ProductionMotive(run.Origin, run.ProductName, run.ID)

	consume := func(lines []entity.ProductionLine) error {
		for _, l := range lines {
			r, err := lookup(ctx, l.ResourceID)
			if err != nil {
				return err
			}
			if r == nil {
				return domain.ErrNotFound
			}
			qty := l.Quantity.Neg()
			m := &entity.Movement{
				ID:                 uuid.New().String(),
				ResourceKind:       r.Kind,
				ResourceID:         r.ID,
				ResourceName:       r.Name,
				Type:               entity.MovementTypeSalida,
				Quantity:           qty,
				UnitCost:           l.UnitCost,
				TotalCost:          qty.Mul(l.UnitCost),
				Motive:             motive,
				Operator:           run.Operator,
				SourceProductionID: run.ID,
				CreatedAt:          now,
				CreatedBy:          actor.UserID,
			}
			if err := inventory.ApplyEffect(r, m); err != nil {
				return err
			}
			r.UpdatedAt = now
			if err := s.Resources.Update(ctx, r); err != nil {
				return fmt.Errorf("actualizar recurso %s: %w", r.ID, err)
			}
			if err := s.Movements.Create(ctx, m); err != nil {
				return fmt.Errorf("registrar movimiento: %w", err)
			}
			uc.rec.MovementRecorded(m.ResourceKind, m.Type)
		}
		return nil
	}
	if err := consume(run.Ingredients); err != nil {
		return err
	}
	if err := consume(run.Recipes); err != nil {
		return err
	}

	product, err := lookup(ctx, run.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	outType := entity.MovementTypeProduccion
	if run.Origin == entity.ProductionOriginRecipe {
		outType = entity.MovementTypeProduccionReceta
	}
	unitCost := decimal.Zero
	if run.Quantity.GreaterThan(decimal.Zero) {
		unitCost = run.TotalCost.Div(run.Quantity).Round(4)
	}
	out := &entity.Movement{
		ID:                 uuid.New().String(),
		ResourceKind:       product.Kind,
		ResourceID:         product.ID,
		ResourceName:       product.Name,
		Type:               outType,
		Quantity:           run.Quantity,
		UnitCost:           unitCost,
		TotalCost:          run.TotalCost,
		Motive:             motive,
		Operator:           run.Operator,
		SourceProductionID: run.ID,
		CreatedAt:          now,
		CreatedBy:          actor.UserID,
	}
	product.UnitPrice = inventory.WeightedUnitPrice(product, run.Quantity, unitCost)
	if err := inventory.ApplyEffect(product, out); err != nil {
		return err
	}
	product.UpdatedAt = now
	if err := s.Resources.Update(ctx, product); err != nil {
		return fmt.Errorf("actualizar producto %s: %w", product.ID, err)
	}
	if err := s.Movements.Create(ctx, out); err != nil {
		return fmt.Errorf("registrar movimiento: %w", err)
	}
	uc.rec.MovementRecorded(out.ResourceKind, out.Type)

	run.State = entity.ProductionStateCompleted
	run.ProducedAt = now
	run.UpdatedAt = now
	return nil
}

func runInput(run *entity.ProductionRun) rules.Input {
	return rules.Input{
		Quantity:    run.Quantity,
		Operator:    run.Operator,
		Ingredients: run.Ingredients,
		Recipes:     run.Recipes,
	}
}

// Execute ejecuta una producción planificada o en proceso. El stock se vuelve a validar
// contra las filas bloqueadas.
func (uc *UseCase) Execute(ctx context.Context, actor dto.Actor, id string) (*dto.ProductionResponse, error) {
	release, err := uc.locker.Obtain(ctx, lockKey(id), lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	var run *entity.ProductionRun
	err = uc.txRunner.Run(ctx, func(s ports.Stores) error {
		var err error
		run, err = s.Productions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return domain.ErrNotFound
		}
		if !run.CanExecute() {
			return fmt.Errorf("%w: la producción está %s", domain.ErrInvalidState, run.State)
		}
		lookup := lockedLookup(s)
		if err := rules.Validate(ctx, runInput(run), lookup); err != nil {
			return err
		}
		if err := uc.applyRun(ctx, s, run, lookup, actor); err != nil {
			return err
		}
		return s.Productions.Update(ctx, run)
	})
	if err != nil {
		uc.failed("ejecutar_produccion", err)
		return nil, err
	}
	uc.afterMutation(ctx, run)
	resp := projection.Production(permissions.For(actor.Role), run)
	return &resp, nil
}

// Cancel cancela una producción que todavía no se ejecutó; no hay stock que revertir.
func (uc *UseCase) Cancel(ctx context.Context, actor dto.Actor, id string) (*dto.ProductionResponse, error) {
	var run *entity.ProductionRun
	err := uc.txRunner.Run(ctx, func(s ports.Stores) error {
		var err error
		run, err = s.Productions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return domain.ErrNotFound
		}
		if !run.CanCancel() {
			return fmt.Errorf("%w: la producción está %s", domain.ErrInvalidState, run.State)
		}
		run.State = entity.ProductionStateCancelled
		run.UpdatedAt = uc.now()
		return s.Productions.Update(ctx, run)
	})
	if err != nil {
		return nil, err
	}
	uc.afterMutation(ctx, run)
	resp := projection.Production(permissions.For(actor.Role), run)
	return &resp, nil
}

func lockKey(productionID string) string {
	return "production:" + productionID
}
