package production

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
	rules "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/reversal"
)

// Delete elimina una producción y revierte en cascada todo su efecto sobre el stock.
func (uc *UseCase) Delete(ctx context.Context, actor dto.Actor, id string) (*dto.DeleteProductionResponse, error) {
	release, err := uc.locker.Obtain(ctx, lockKey(id), lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	caps := permissions.For(actor.Role)
	var summary dto.RevertSummary
	err = uc.txRunner.Run(ctx, func(s ports.Stores) error {
		var err error
		summary, err = uc.RevertRun(ctx, s, caps, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.rec.ReversalExecuted(string(reversal.StrategyDeleteProductionRun))
	if err := uc.cache.Invalidate(ctx, ports.StatsKeyMovements); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
	}
	return &dto.DeleteProductionResponse{
		Mensaje:   SummaryMessage(summary),
		Revertido: summary,
	}, nil
}

// RevertRun revierte y elimina, dentro de la transacción s, la producción id y los movimientos
// que referencian a ella. La entrada del producto se revierte primero: si esa cantidad ya fue
// consumida la operación falla con *domain.StockError y nada cambia.
// Si algún recurso tocado pertenece a un rol que caps no puede modificar, falla con domain.ErrForbidden.
//
// Registros legados: sin movimientos referenciados, una producción completada se revierte a
// partir de sus propias líneas y los movimientos cuyo motivo menciona el ID se eliminan sin
// volver a revertir su efecto.
func (uc *UseCase) RevertRun(ctx context.Context, s ports.Stores, caps permissions.Capabilities, id string) (dto.RevertSummary, error) {
	summary := dto.NewRevertSummary(id)
	run, err := s.Productions.GetForUpdate(ctx, id)
	if err != nil {
		return summary, err
	}
	if run == nil {
		return summary, domain.ErrNotFound
	}
	movements, err := s.Movements.ListBySourceProduction(ctx, id)
	if err != nil {
		return summary, fmt.Errorf("movimientos de la producción: %w", err)
	}
	var legacy []*entity.Movement
	if len(movements) == 0 {
		if legacy, err = legacyLedger(ctx, s, id); err != nil {
			return summary, err
		}
	}

	effects := movements
	switch {
	case len(movements) > 0:
	case run.State == entity.ProductionStateCompleted:
		effects = legacyMovements(run)
	default:
		effects, legacy = legacy, nil
	}
	sort.SliceStable(effects, func(i, j int) bool {
		return effects[i].IsInbound() && !effects[j].IsInbound()
	})

	lookup := lockedLookup(s)
	if err := checkOwnership(ctx, lookup, caps, effects); err != nil {
		return summary, err
	}
	now := uc.now()
	for _, m := range effects {
		r, err := lookup(ctx, m.ResourceID)
		if err != nil {
			return summary, err
		}
		if r == nil {
			uc.log.Warn().Str("production_id", id).Str("resource_id", m.ResourceID).
				Msg("recurso inexistente, se omite la reversión de su movimiento")
		} else {
			if err := inventory.RevertEffect(r, m); err != nil {
				return summary, err
			}
			r.UpdatedAt = now
			if err := s.Resources.Update(ctx, r); err != nil {
				return summary, fmt.Errorf("actualizar recurso %s: %w", r.ID, err)
			}
			summary.Add(RevertedLine(r, m), m.IsInbound())
		}
		if m.ID != "" {
			if err := s.Movements.Delete(ctx, m.ID); err != nil {
				return summary, fmt.Errorf("eliminar movimiento %s: %w", m.ID, err)
			}
			summary.Movimientos++
		}
	}
	for _, m := range legacy {
		if err := s.Movements.Delete(ctx, m.ID); err != nil {
			return summary, fmt.Errorf("eliminar movimiento %s: %w", m.ID, err)
		}
		summary.Movimientos++
	}
	if err := s.Productions.Delete(ctx, id); err != nil {
		return summary, fmt.Errorf("eliminar producción: %w", err)
	}
	uc.log.Info().Str("production_id", id).Int("movements", summary.Movimientos).
		Bool("legacy", len(movements) == 0).Msg("producción revertida")
	return summary, nil
}

// legacyLedger movimientos sin referencia explícita cuyo motivo lleva exactamente el ID.
func legacyLedger(ctx context.Context, s ports.Stores, id string) ([]*entity.Movement, error) {
	list, err := s.Movements.ListByMotiveProduction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("movimientos legados de la producción: %w", err)
	}
	out := list[:0]
	for _, m := range list {
		if got, ok := reversal.ExtractProductionID(m.Motive); ok && strings.EqualFold(got, id) {
			out = append(out, m)
		}
	}
	return out, nil
}

func checkOwnership(ctx context.Context, lookup rules.Lookup, caps permissions.Capabilities, movements []*entity.Movement) error {
	for _, m := range movements {
		r, err := lookup(ctx, m.ResourceID)
		if err != nil {
			return err
		}
		if r != nil && !caps.CanDeleteResourceOwnedBy(r.OwnerRole) {
			return fmt.Errorf("%w: %s pertenece a %s", domain.ErrForbidden, r.Name, r.OwnerRole)
		}
	}
	return nil
}

func legacyMovements(run *entity.ProductionRun) []*entity.Movement {
	out := make([]*entity.Movement, 0, len(run.Ingredients)+len(run.Recipes)+1)
	for _, lines := range [][]entity.ProductionLine{run.Ingredients, run.Recipes} {
		for _, l := range lines {
			out = append(out, &entity.Movement{
				ResourceID:   l.ResourceID,
				ResourceName: l.Name,
				Type:         entity.MovementTypeSalida,
				Quantity:     l.Quantity.Neg(),
			})
		}
	}
	out = append(out, &entity.Movement{
		ResourceID:   run.ProductID,
		ResourceName: run.ProductName,
		Type:         entity.MovementTypeProduccion,
		Quantity:     run.Quantity,
	})
	return out
}

// RevertedLine describe la cantidad revertida del movimiento m sobre el recurso r.
func RevertedLine(r *entity.Resource, m *entity.Movement) dto.RevertedLine {
	return dto.RevertedLine{
		RecursoID: r.ID,
		Nombre:    r.Name,
		Tipo:      r.Kind,
		Cantidad:  m.Quantity.Abs(),
	}
}

// SummaryMessage arma el mensaje de confirmación de una reversión.
func SummaryMessage(s dto.RevertSummary) string {
	msg := "Producción eliminada"
	if s.ProduccionID == "" {
		msg = "Movimiento eliminado"
	}
	parts := []struct {
		label string
		lines []dto.RevertedLine
	}{
		{"ingredientes devueltos", s.Ingredientes},
		{"recetas devueltas", s.Recetas},
		{"producto retirado", s.Productos},
		{"otros recursos", s.Otros},
	}
	for _, p := range parts {
		if len(p.lines) == 0 {
			continue
		}
		total := decimal.Zero
		for _, l := range p.lines {
			total = total.Add(l.Cantidad)
		}
		msg += fmt.Sprintf("; %s: %d (%s)", p.label, len(p.lines), total.String())
	}
	return msg
}
