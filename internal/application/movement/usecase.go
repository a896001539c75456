// Package movement expone el libro de movimientos: consulta por tipo, historial paginado,
// ajustes manuales, plan de eliminación, eliminación con reversión, estadísticas y exportación.
package movement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/application/projection"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/domain/reversal"
)

const (
	lockTTL        = 30 * time.Second
	maxExportRows  = 5000
	exportFilename = "historial-movimientos.xlsx"
)

// RunReverter revierte una producción completa dentro de una transacción abierta.
type RunReverter interface {
	RevertRun(ctx context.Context, s ports.Stores, caps permissions.Capabilities, productionID string) (dto.RevertSummary, error)
}

// Options parámetros configurables del caso de uso.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	StatsTTL     time.Duration
}

// UseCase casos de uso del libro de movimientos.
type UseCase struct {
	txRunner    ports.TxRunner
	movements   repository.MovementRepository
	resources   repository.ResourceRepository
	productions repository.ProductionRepository
	runs        RunReverter
	locker      ports.Locker
	cache       ports.StatsCache
	rec         ports.Recorder
	exporter    ports.HistoryExporter
	opts        Options
	log         zerolog.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	movements repository.MovementRepository,
	resources repository.ResourceRepository,
	productions repository.ProductionRepository,
	runs RunReverter,
	locker ports.Locker,
	cache ports.StatsCache,
	rec ports.Recorder,
	exporter ports.HistoryExporter,
	opts Options,
	log zerolog.Logger,
) *UseCase {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = dto.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = dto.MaxLimit
	}
	return &UseCase{
		txRunner:    txRunner,
		movements:   movements,
		resources:   resources,
		productions: productions,
		runs:        runs,
		locker:      locker,
		cache:       cache,
		rec:         rec,
		exporter:    exporter,
		opts:        opts,
		log:         log,
		now:         time.Now,
	}
}

func checkKind(caps permissions.Capabilities, kind string) error {
	if !entity.IsValidResourceKind(kind) {
		return domain.NewValidationError("tipo", "Tipo de producto inválido: %q", kind)
	}
	if !caps.CanViewKind(kind) {
		return domain.ErrForbidden
	}
	return nil
}

// ProductsByType lista los recursos de un tipo con su disponibilidad calculada.
func (uc *UseCase) ProductsByType(ctx context.Context, caps permissions.Capabilities, kind string) (*dto.ProductsByTypeResponse, error) {
	kind = strings.TrimSpace(kind)
	if err := checkKind(caps, kind); err != nil {
		return nil, err
	}
	list, err := uc.resources.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("listar recursos: %w", err)
	}
	now := uc.now()
	out := make([]dto.ResourceResponse, 0, len(list))
	for _, r := range list {
		out = append(out, projection.Resource(caps, r, now))
	}
	return &dto.ProductsByTypeResponse{Tipo: kind, Productos: out, Total: len(out)}, nil
}

func (uc *UseCase) historyFilter(caps permissions.Capabilities, q dto.HistoryQuery) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		ResourceKind: strings.TrimSpace(q.Tipo),
		ResourceID:   strings.TrimSpace(q.Recurso),
	}
	if f.ResourceKind != "" {
		return f, checkKind(caps, f.ResourceKind)
	}
	// sin tipo el historial incluye ingredientes y materiales
	if !caps.CanViewCatalogs {
		return f, domain.ErrForbidden
	}
	return f, nil
}

// History devuelve una página del historial. pagina empieza en 1 y limite se acota al máximo.
func (uc *UseCase) History(ctx context.Context, caps permissions.Capabilities, q dto.HistoryQuery) (*dto.HistoryResponse, error) {
	f, err := uc.historyFilter(caps, q)
	if err != nil {
		return nil, err
	}
	q.Normalize(uc.opts.DefaultLimit, uc.opts.MaxLimit)
	f.Limit = q.Limite
	f.Offset = q.Offset()

	list, total, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("historial de movimientos: %w", err)
	}
	return &dto.HistoryResponse{
		Movimientos:  projection.Movements(caps, list),
		Total:        total,
		TotalPaginas: dto.TotalPages(total, q.Limite),
		Pagina:       q.Pagina,
		Limite:       q.Limite,
	}, nil
}

// RegisterManual registra una entrada o salida manual. La entrada recalcula el precio unitario
// por promedio ponderado; la salida no puede superar lo disponible.
func (uc *UseCase) RegisterManual(ctx context.Context, actor dto.Actor, req dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := dto.Validate(req); err != nil {
		uc.rec.ValidationFailed("movimiento_manual")
		return nil, err
	}
	if !req.Cantidad.GreaterThan(decimal.Zero) {
		uc.rec.ValidationFailed("movimiento_manual")
		return nil, domain.NewValidationError("cantidad", "La cantidad debe ser un número mayor a 0")
	}
	if req.CostoUnitario != nil && req.CostoUnitario.LessThan(decimal.Zero) {
		uc.rec.ValidationFailed("movimiento_manual")
		return nil, domain.NewValidationError("costoUnitario", "El costo unitario no puede ser negativo")
	}
	caps := permissions.For(actor.Role)
	if !caps.CanAdjustStock || !caps.CanViewKind(req.TipoProducto) {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	var m *entity.Movement
	err := uc.txRunner.Run(ctx, func(s ports.Stores) error {
		r, err := s.Resources.GetForUpdate(ctx, req.RecursoID)
		if err != nil {
			return err
		}
		if r == nil || r.Kind != req.TipoProducto {
			return domain.ErrNotFound
		}
		m = &entity.Movement{
			ID:           uuid.New().String(),
			ResourceKind: r.Kind,
			ResourceID:   r.ID,
			ResourceName: r.Name,
			Type:         req.Tipo,
			Motive:       strings.TrimSpace(req.Motivo),
			Operator:     actor.OperatorName(req.Operador),
			Observations: strings.TrimSpace(req.Observaciones),
			CreatedAt:    now,
			CreatedBy:    actor.UserID,
		}
		if req.Tipo == entity.MovementTypeEntrada {
			unitCost := r.UnitPrice
			if req.CostoUnitario != nil {
				unitCost = *req.CostoUnitario
			}
			r.UnitPrice = inventory.WeightedUnitPrice(r, req.Cantidad, unitCost)
			m.Quantity = req.Cantidad
			m.UnitCost = unitCost
		} else {
			m.Quantity = req.Cantidad.Neg()
			m.UnitCost = r.UnitPrice
		}
		m.TotalCost = m.Quantity.Mul(m.UnitCost)
		if err := inventory.ApplyEffect(r, m); err != nil {
			return err
		}
		r.UpdatedAt = now
		if err := s.Resources.Update(ctx, r); err != nil {
			return fmt.Errorf("actualizar recurso: %w", err)
		}
		return s.Movements.Create(ctx, m)
	})
	if err != nil {
		if domain.IsValidation(err) {
			uc.rec.ValidationFailed("movimiento_manual")
		}
		return nil, err
	}
	uc.rec.MovementRecorded(m.ResourceKind, m.Type)
	uc.invalidate(ctx)
	resp := projection.Movement(caps, m)
	return &resp, nil
}

// Plan resuelve, sin modificar nada, cómo se eliminaría el movimiento.
func (uc *UseCase) Plan(ctx context.Context, id string) (*reversal.Plan, error) {
	m, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener movimiento: %w", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	plan := reversal.Resolve(m)
	return &plan, nil
}

// Delete ejecuta el plan de eliminación del movimiento. Un movimiento de producción sin ID
// recuperable solo se elimina con fallback=true (consentimiento explícito del operador).
func (uc *UseCase) Delete(ctx context.Context, actor dto.Actor, id string, fallback bool) (*dto.DeleteMovementResponse, error) {
	m, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener movimiento: %w", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	caps := permissions.For(actor.Role)
	owner, err := uc.resources.GetByID(ctx, m.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("obtener recurso: %w", err)
	}
	ownerRole := ""
	if owner != nil {
		ownerRole = owner.OwnerRole
	}
	if !caps.CanDeleteResourceOwnedBy(ownerRole) {
		return nil, domain.ErrForbidden
	}

	plan := reversal.Resolve(m)
	if plan.Strategy == reversal.StrategyRevertTransfer {
		return nil, fmt.Errorf("%w: el movimiento pertenece a la transferencia %s; revierta la transferencia",
			domain.ErrConflict, m.SourceTransferID)
	}
	if plan.RequiresFallbackConsent() && !fallback {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductionIDNotFound, plan.Warning)
	}
	if plan.ProductionID != "" {
		release, err := uc.locker.Obtain(ctx, "production:"+plan.ProductionID, lockTTL)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	strategy := plan.Strategy
	var summary dto.RevertSummary
	err = uc.txRunner.Run(ctx, func(s ports.Stores) error {
		// otra eliminación pudo ganar la carrera entre la lectura y el bloqueo
		cur, err := s.Movements.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener movimiento: %w", err)
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		switch plan.Strategy {
		case reversal.StrategyDeleteProductionRun, reversal.StrategyDeleteEntryCascade:
			if plan.ProductionID != "" {
				run, err := s.Productions.GetForUpdate(ctx, plan.ProductionID)
				if err != nil {
					return err
				}
				if run != nil {
					if summary, err = uc.runs.RevertRun(ctx, s, caps, plan.ProductionID); err != nil {
						return err
					}
					return uc.dropLeftover(ctx, s, cur, &summary)
				}
			}
			// la producción referenciada ya no existe
			if plan.Strategy == reversal.StrategyDeleteProductionRun {
				if !fallback {
					return fmt.Errorf("%w: %s", domain.ErrProductionIDNotFound, reversal.FallbackWarning)
				}
				strategy = reversal.StrategyDeleteEntryFallback
			} else {
				strategy = reversal.StrategyDeleteEntry
			}
		}
		summary, err = uc.revertEntry(ctx, s, cur)
		return err
	})
	if err != nil {
		return nil, err
	}

	if strategy == reversal.StrategyDeleteEntryFallback {
		uc.log.Warn().Str("movement_id", m.ID).Str("user_id", actor.UserID).
			Msg("movimiento de producción eliminado sin revertir la producción")
	} else {
		uc.log.Info().Str("movement_id", m.ID).Str("strategy", string(strategy)).
			Str("production_id", plan.ProductionID).Int("movements", summary.Movimientos).
			Msg("movimiento eliminado")
	}
	uc.rec.ReversalExecuted(string(strategy))
	uc.invalidate(ctx)
	return &dto.DeleteMovementResponse{
		Mensaje:    deleteMessage(strategy, summary),
		Estrategia: string(strategy),
		Revertido:  summary,
	}, nil
}

// dropLeftover elimina el movimiento legado que originó la reversión si la producción no lo
// referenciaba: su efecto ya se revirtió junto con la producción.
func (uc *UseCase) dropLeftover(ctx context.Context, s ports.Stores, m *entity.Movement, summary *dto.RevertSummary) error {
	if m.SourceProductionID != "" {
		return nil
	}
	left, err := s.Movements.GetByID(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("obtener movimiento: %w", err)
	}
	if left == nil {
		return nil
	}
	if err := s.Movements.Delete(ctx, m.ID); err != nil {
		return fmt.Errorf("eliminar movimiento: %w", err)
	}
	summary.Movimientos++
	return nil
}

// revertEntry revierte el efecto de un único movimiento y lo elimina.
func (uc *UseCase) revertEntry(ctx context.Context, s ports.Stores, m *entity.Movement) (dto.RevertSummary, error) {
	summary := dto.NewRevertSummary("")
	r, err := s.Resources.GetForUpdate(ctx, m.ResourceID)
	if err != nil {
		return summary, err
	}
	if r != nil {
		if err := inventory.RevertEffect(r, m); err != nil {
			return summary, err
		}
		r.UpdatedAt = uc.now()
		if err := s.Resources.Update(ctx, r); err != nil {
			return summary, fmt.Errorf("actualizar recurso: %w", err)
		}
		summary.Add(dto.RevertedLine{RecursoID: r.ID, Nombre: r.Name, Tipo: r.Kind, Cantidad: m.Quantity.Abs()}, m.IsInbound())
	}
	if err := s.Movements.Delete(ctx, m.ID); err != nil {
		return summary, fmt.Errorf("eliminar movimiento: %w", err)
	}
	summary.Movimientos = 1
	return summary, nil
}

func deleteMessage(strategy reversal.Strategy, s dto.RevertSummary) string {
	switch strategy {
	case reversal.StrategyDeleteProductionRun, reversal.StrategyDeleteEntryCascade:
		if s.ProduccionID != "" {
			return fmt.Sprintf("Producción %s eliminada: %d movimientos revertidos", s.ProduccionID, s.Movimientos)
		}
	case reversal.StrategyDeleteEntryFallback:
		return "Movimiento eliminado. " + reversal.FallbackWarning
	}
	return "Movimiento eliminado y stock revertido"
}

// Stats devuelve los agregados del libro; se cachean hasta la próxima mutación o el TTL.
func (uc *UseCase) Stats(ctx context.Context, caps permissions.Capabilities) (*dto.MovementStatsResponse, error) {
	var out dto.MovementStatsResponse
	hit, err := uc.cache.Get(ctx, ports.StatsKeyMovements, &out)
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de estadísticas no disponible")
	}
	if !hit {
		st, err := uc.movements.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("estadísticas de movimientos: %w", err)
		}
		byState, err := uc.productions.CountByState(ctx)
		if err != nil {
			return nil, fmt.Errorf("estadísticas de producciones: %w", err)
		}
		inbound, outbound := st.InboundValue, st.OutboundValue
		out = dto.MovementStatsResponse{
			Total:                 st.Total,
			Entradas:              st.Entradas,
			Salidas:               st.Salidas,
			Producciones:          st.Producciones,
			PorTipo:               st.ByKind,
			ProduccionesPorEstado: byState,
			ValorEntradas:         &inbound,
			ValorSalidas:          &outbound,
			GeneradoEn:            uc.now(),
		}
		if err := uc.cache.Set(ctx, ports.StatsKeyMovements, out, uc.opts.StatsTTL); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar la caché de estadísticas")
		}
	}
	if !caps.CanViewPrices {
		out.ValorEntradas = nil
		out.ValorSalidas = nil
	}
	return &out, nil
}

// Export genera la planilla del historial filtrado (sin paginar, hasta maxExportRows filas).
func (uc *UseCase) Export(ctx context.Context, caps permissions.Capabilities, q dto.HistoryQuery) ([]byte, string, error) {
	f, err := uc.historyFilter(caps, q)
	if err != nil {
		return nil, "", err
	}
	f.Limit = maxExportRows
	list, _, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, "", fmt.Errorf("historial de movimientos: %w", err)
	}
	data, err := uc.exporter.MovementHistory(ctx, projection.Movements(caps, list), caps.CanViewPrices)
	if err != nil {
		return nil, "", fmt.Errorf("exportar historial: %w", err)
	}
	return data, exportFilename, nil
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx, ports.StatsKeyMovements); err != nil && !errors.Is(err, context.Canceled) {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
	}
}
