// Package branch gestiona las transferencias de materiales del inventario central a las sucursales.
package branch

import (
	"context"
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
)

const lockTTL = 30 * time.Second

// UseCase transferencias a sucursales.
type UseCase struct {
	txRunner  ports.TxRunner
	branches  repository.BranchRepository
	transfers repository.TransferRepository
	resources repository.ResourceRepository
	locker    ports.Locker
	cache     ports.StatsCache
	rec       ports.Recorder
	statsTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	branches repository.BranchRepository,
	transfers repository.TransferRepository,
	resources repository.ResourceRepository,
	locker ports.Locker,
	cache ports.StatsCache,
	rec ports.Recorder,
	statsTTL time.Duration,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		branches:  branches,
		transfers: transfers,
		resources: resources,
		locker:    locker,
		cache:     cache,
		rec:       rec,
		statsTTL:  statsTTL,
		log:       log,
		now:       time.Now,
	}
}

// RegisterTransfer descuenta el material del inventario central y lo suma al stock de la sucursal.
func (uc *UseCase) RegisterTransfer(ctx context.Context, actor dto.Actor, req dto.RegisterTransferRequest) (*dto.TransferResponse, error) {
	if err := dto.Validate(req); err != nil {
		uc.rec.ValidationFailed("transferencia")
		return nil, err
	}
	if !req.Cantidad.GreaterThan(decimal.Zero) {
		uc.rec.ValidationFailed("transferencia")
		return nil, domain.NewValidationError("cantidad", "La cantidad a transferir debe ser mayor a 0")
	}

	now := uc.now()
	var t *entity.Transfer
	err := uc.txRunner.Run(ctx, func(s ports.Stores) error {
		material, err := s.Resources.GetForUpdate(ctx, req.MaterialID)
		if err != nil {
			return err
		}
		if material == nil || material.Kind != entity.ResourceKindMaterial {
			return domain.NewValidationError("materialId", "El material seleccionado no existe")
		}
		b, err := s.Branches.GetByID(ctx, req.SucursalID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NewValidationError("sucursalId", "La sucursal seleccionada no existe")
		}
		available, _ := inventory.Available(material)
		if available.LessThan(req.Cantidad) {
			return &domain.StockError{Name: material.Name, Available: available, Requested: req.Cantidad}
		}
		inventory.ApplyConsumption(material, req.Cantidad)
		material.UpdatedAt = now
		if err := s.Resources.Update(ctx, material); err != nil {
			return fmt.Errorf("actualizar material: %w", err)
		}
		stock, err := s.Branches.GetStockForUpdate(ctx, b.ID, material.ID)
		if err != nil {
			return err
		}
		stock.Quantity = stock.Quantity.Add(req.Cantidad)
		stock.UpdatedAt = now
		if err := s.Branches.UpsertStock(ctx, stock); err != nil {
			return fmt.Errorf("actualizar stock de sucursal: %w", err)
		}
		t = &entity.Transfer{
			ID:           uuid.New().String(),
			MaterialID:   material.ID,
			MaterialName: material.Name,
			BranchID:     b.ID,
			BranchName:   b.Name,
			Quantity:     req.Cantidad,
			Motive:       strings.TrimSpace(req.Motivo),
			Observations: strings.TrimSpace(req.Observaciones),
			Operator:     actor.OperatorName(req.Operador),
			CreatedAt:    now,
			CreatedBy:    actor.UserID,
		}
		if err := s.Transfers.Create(ctx, t); err != nil {
			return fmt.Errorf("registrar transferencia: %w", err)
		}
		return s.Movements.Create(ctx, transferMovement(t, material.UnitPrice))
	})
	if err != nil {
		if domain.IsValidation(err) {
			uc.rec.ValidationFailed("transferencia")
		}
		return nil, err
	}
	uc.rec.TransferRecorded(false)
	uc.invalidate(ctx)
	resp := projection.Transfer(t)
	return &resp, nil
}

// RevertTransfer marca la transferencia como revertida, registra la compensación (cantidad
// negativa) y restaura ambos stocks. Una compensación o una transferencia ya revertida no se revierten.
func (uc *UseCase) RevertTransfer(ctx context.Context, actor dto.Actor, id string) (*dto.RevertTransferResponse, error) {
	release, err := uc.locker.Obtain(ctx, "transfer:"+id, lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	now := uc.now()
	var original, comp *entity.Transfer
	unitCost := decimal.Zero
	err = uc.txRunner.Run(ctx, func(s ports.Stores) error {
		t, err := s.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if t.IsCompensation() {
			return fmt.Errorf("%w: el registro es una compensación", domain.ErrConflict)
		}
		if t.IsReverted() {
			return domain.ErrAlreadyReverted
		}

		stock, err := s.Branches.GetStockForUpdate(ctx, t.BranchID, t.MaterialID)
		if err != nil {
			return err
		}
		if stock.Quantity.LessThan(t.Quantity) {
			return &domain.StockError{Name: t.MaterialName, Available: stock.Quantity, Requested: t.Quantity}
		}
		stock.Quantity = stock.Quantity.Sub(t.Quantity)
		stock.UpdatedAt = now
		if err := s.Branches.UpsertStock(ctx, stock); err != nil {
			return fmt.Errorf("actualizar stock de sucursal: %w", err)
		}
		material, err := s.Resources.GetForUpdate(ctx, t.MaterialID)
		if err != nil {
			return err
		}
		if material != nil {
			unitCost = material.UnitPrice
			inventory.ApplyConsumption(material, t.Quantity.Neg())
			material.UpdatedAt = now
			if err := s.Resources.Update(ctx, material); err != nil {
				return fmt.Errorf("actualizar material: %w", err)
			}
		}

		t.MarkReverted(now)
		if err := s.Transfers.UpdateObservations(ctx, t.ID, t.Observations); err != nil {
			return fmt.Errorf("marcar transferencia: %w", err)
		}
		comp = &entity.Transfer{
			ID:           uuid.New().String(),
			MaterialID:   t.MaterialID,
			MaterialName: t.MaterialName,
			BranchID:     t.BranchID,
			BranchName:   t.BranchName,
			Quantity:     t.Quantity.Neg(),
			Motive:       "Reversión de transferencia: " + t.Motive,
			RevertsID:    t.ID,
			Operator:     actor.OperatorName(""),
			CreatedAt:    now,
			CreatedBy:    actor.UserID,
		}
		original = t
		if err := s.Transfers.Create(ctx, comp); err != nil {
			return fmt.Errorf("registrar compensación: %w", err)
		}
		return s.Movements.Create(ctx, transferMovement(comp, unitCost))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", id).Str("compensation_id", comp.ID).Msg("transferencia revertida")
	uc.rec.TransferRecorded(true)
	uc.invalidate(ctx)
	return &dto.RevertTransferResponse{
		Mensaje: fmt.Sprintf("Transferencia revertida: %s %s devueltos desde %s",
			original.Quantity.String(), original.MaterialName, original.BranchName),
		Original:     projection.Transfer(original),
		Compensacion: projection.Transfer(comp),
	}, nil
}

// transferMovement asienta en el libro el efecto de t sobre el inventario central:
// salida por la transferencia, entrada por su compensación.
func transferMovement(t *entity.Transfer, unitCost decimal.Decimal) *entity.Movement {
	m := &entity.Movement{
		ID:               uuid.New().String(),
		ResourceKind:     entity.ResourceKindMaterial,
		ResourceID:       t.MaterialID,
		ResourceName:     t.MaterialName,
		Type:             entity.MovementTypeSalida,
		Quantity:         t.Quantity.Neg(),
		UnitCost:         unitCost,
		Motive:           fmt.Sprintf("Transferencia a %s: %s", t.BranchName, t.Motive),
		Operator:         t.Operator,
		SourceTransferID: t.ID,
		CreatedAt:        t.CreatedAt,
		CreatedBy:        t.CreatedBy,
	}
	if t.IsCompensation() {
		m.Type = entity.MovementTypeEntrada
		m.Motive = fmt.Sprintf("%s (%s)", t.Motive, t.BranchName)
	}
	m.TotalCost = m.Quantity.Mul(unitCost)
	return m
}

// Branches lista las sucursales.
func (uc *UseCase) Branches(ctx context.Context) ([]dto.BranchResponse, error) {
	list, err := uc.branches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar sucursales: %w", err)
	}
	out := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BranchResponse{ID: b.ID, Nombre: b.Name, Direccion: b.Address})
	}
	return out, nil
}

// Materials lista los materiales transferibles; con branchID incluye el stock en esa sucursal.
func (uc *UseCase) Materials(ctx context.Context, caps permissions.Capabilities, branchID string) (*dto.BranchMaterialsResponse, error) {
	if !caps.CanViewKind(entity.ResourceKindMaterial) {
		return nil, domain.ErrForbidden
	}
	materials, err := uc.resources.ListByKind(ctx, entity.ResourceKindMaterial)
	if err != nil {
		return nil, fmt.Errorf("listar materiales: %w", err)
	}
	inBranch := map[string]decimal.Decimal{}
	if branchID != "" {
		b, err := uc.branches.GetByID(ctx, branchID)
		if err != nil {
			return nil, fmt.Errorf("obtener sucursal: %w", err)
		}
		if b == nil {
			return nil, domain.ErrNotFound
		}
		stock, err := uc.branches.ListStock(ctx, branchID)
		if err != nil {
			return nil, fmt.Errorf("stock de sucursal: %w", err)
		}
		for _, s := range stock {
			inBranch[s.MaterialID] = s.Quantity
		}
	}
	now := uc.now()
	out := &dto.BranchMaterialsResponse{SucursalID: branchID, Materiales: make([]dto.BranchMaterialResponse, 0, len(materials))}
	for _, m := range materials {
		item := dto.BranchMaterialResponse{ResourceResponse: projection.Resource(caps, m, now)}
		if branchID != "" {
			q := inBranch[m.ID]
			item.EnSucursal = &q
		}
		out.Materiales = append(out.Materiales, item)
	}
	return out, nil
}

// History historial paginado de transferencias, incluidas las compensaciones.
func (uc *UseCase) History(ctx context.Context, q dto.TransferHistoryQuery) (*dto.TransferHistoryResponse, error) {
	q.Normalize(dto.DefaultLimit, dto.MaxLimit)
	list, total, err := uc.transfers.List(ctx, repository.TransferFilter{
		BranchID:   strings.TrimSpace(q.Sucursal),
		MaterialID: strings.TrimSpace(q.Material),
		Limit:      q.Limite,
		Offset:     q.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("historial de transferencias: %w", err)
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, projection.Transfer(t))
	}
	return &dto.TransferHistoryResponse{
		Transferencias: out,
		Total:          total,
		TotalPaginas:   dto.TotalPages(total, q.Limite),
		Pagina:         q.Pagina,
	}, nil
}

// Stats agregados por sucursal (cacheados).
func (uc *UseCase) Stats(ctx context.Context) (*dto.BranchStatsResponse, error) {
	var out dto.BranchStatsResponse
	hit, err := uc.cache.Get(ctx, ports.StatsKeyBranches, &out)
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de estadísticas no disponible")
	}
	if hit {
		return &out, nil
	}
	st, err := uc.transfers.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("estadísticas de sucursales: %w", err)
	}
	out = dto.BranchStatsResponse{
		Total:               st.Total,
		Revertidas:          st.Reverted,
		CantidadPorSucursal: st.ByBranchQty,
		GeneradoEn:          uc.now(),
	}
	if err := uc.cache.Set(ctx, ports.StatsKeyBranches, out, uc.statsTTL); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo guardar la caché de estadísticas")
	}
	return &out, nil
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx, ports.StatsKeyBranches, ports.StatsKeyMovements); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
	}
}
