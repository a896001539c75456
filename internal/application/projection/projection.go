// Package projection convierte entidades a DTOs ocultando lo que el rol no puede ver.
// Los precios y costos se omiten (nil) salvo que el rol tenga CanViewPrices.
package projection

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/permissions"
)

func price(caps permissions.Capabilities, v decimal.Decimal) *decimal.Decimal {
	if !caps.CanViewPrices {
		return nil
	}
	return &v
}

// Resource proyecta un recurso con su disponibilidad calculada en now.
func Resource(caps permissions.Capabilities, r *entity.Resource, now time.Time) dto.ResourceResponse {
	snap := inventory.TakeSnapshot(r, now)
	return dto.ResourceResponse{
		ID:             r.ID,
		Tipo:           r.Kind,
		Nombre:         r.Name,
		Unidad:         snap.Unit,
		Cantidad:       r.Acquired,
		Consumido:      r.Consumed,
		Producido:      r.Produced,
		Utilizado:      r.Utilized,
		Disponible:     snap.Available,
		PrecioUnitario: price(caps, r.UnitPrice),
		CalculadoEn:    snap.ComputedAt,
	}
}

// Movement proyecta un movimiento del libro.
func Movement(caps permissions.Capabilities, m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TipoProducto:  m.ResourceKind,
		RecursoID:     m.ResourceID,
		RecursoNombre: m.ResourceName,
		Tipo:          m.Type,
		Cantidad:      m.Quantity,
		CostoUnitario: price(caps, m.UnitCost),
		CostoTotal:    price(caps, m.TotalCost),
		Motivo:        m.Motive,
		Operador:      m.Operator,
		Observaciones: m.Observations,
		ProduccionID:  m.SourceProductionID,
		Fecha:         m.CreatedAt,
	}
}

// Movements proyecta una lista; nunca devuelve nil.
func Movements(caps permissions.Capabilities, list []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, Movement(caps, m))
	}
	return out
}

func lines(caps permissions.Capabilities, in []entity.ProductionLine) []dto.ProductionLineResponse {
	out := make([]dto.ProductionLineResponse, 0, len(in))
	for _, l := range in {
		out = append(out, dto.ProductionLineResponse{
			RecursoID:     l.ResourceID,
			Nombre:        l.Name,
			Cantidad:      l.Quantity,
			CostoUnitario: price(caps, l.UnitCost),
			Costo:         price(caps, l.Cost()),
		})
	}
	return out
}

// Production proyecta una producción.
func Production(caps permissions.Capabilities, p *entity.ProductionRun) dto.ProductionResponse {
	resp := dto.ProductionResponse{
		ID:            p.ID,
		Origen:        p.Origin,
		ProductoID:    p.ProductID,
		Nombre:        p.ProductName,
		Cantidad:      p.Quantity,
		Unidad:        p.Unit,
		CostoTotal:    price(caps, p.TotalCost),
		Ingredientes:  lines(caps, p.Ingredients),
		Recetas:       lines(caps, p.Recipes),
		Operador:      p.Operator,
		Estado:        p.State,
		Observaciones: p.Observations,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if !p.ProducedAt.IsZero() {
		at := p.ProducedAt
		resp.FechaProduccion = &at
	}
	return resp
}

// Transfer proyecta una transferencia a sucursal.
func Transfer(t *entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:             t.ID,
		MaterialID:     t.MaterialID,
		MaterialNombre: t.MaterialName,
		SucursalID:     t.BranchID,
		SucursalNombre: t.BranchName,
		Cantidad:       t.Quantity,
		Motivo:         t.Motive,
		Observaciones:  t.Observations,
		Revertida:      t.IsReverted(),
		Compensacion:   t.IsCompensation(),
		RevierteA:      t.RevertsID,
		Operador:       t.Operator,
		Fecha:          t.CreatedAt,
	}
}

// User proyecta un usuario.
func User(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
