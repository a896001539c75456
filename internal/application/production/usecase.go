// Package production orquesta el ciclo de vida de una producción: creación (manual o desde
// receta), ejecución, cancelación y eliminación con reversión en cascada.
package production

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
	rules "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

const (
	dateLayout = "2006-01-02"
	lockTTL    = 30 * time.Second
)

// UseCase casos de uso de producción.
type UseCase struct {
	txRunner    ports.TxRunner
	productions repository.ProductionRepository
	locker      ports.Locker
	cache       ports.StatsCache
	rec         ports.Recorder
	sheets      ports.SheetRenderer
	log         zerolog.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso. locker, cache y rec pueden ser las variantes Noop de ports.
func NewUseCase(
	txRunner ports.TxRunner,
	productions repository.ProductionRepository,
	locker ports.Locker,
	cache ports.StatsCache,
	rec ports.Recorder,
	sheets ports.SheetRenderer,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productions: productions,
		locker:      locker,
		cache:       cache,
		rec:         rec,
		sheets:      sheets,
		log:         log,
		now:         time.Now,
	}
}

// NewProductionID genera un ID de 24 caracteres hexadecimales, el formato que
// reconocen los motivos "... - ID: <id>".
func NewProductionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func toLines(in []dto.ProductionLineRequest) []entity.ProductionLine {
	out := make([]entity.ProductionLine, 0, len(in))
	for _, l := range in {
		out = append(out, entity.ProductionLine{
			ResourceID: strings.TrimSpace(l.RecursoID),
			Quantity:   l.Cantidad,
			UnitCost:   l.CostoUnitario,
		})
	}
	return out
}

func wantsExecution(flag *bool) bool {
	return flag == nil || *flag
}

// lockedLookup devuelve cada recurso bloqueado una sola vez por transacción; las líneas
// repetidas comparten el mismo puntero para que sus efectos se acumulen.
func lockedLookup(s ports.Stores) rules.Lookup {
	seen := make(map[string]*entity.Resource)
	return func(ctx context.Context, id string) (*entity.Resource, error) {
		if r, ok := seen[id]; ok {
			return r, nil
		}
		r, err := s.Resources.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		seen[id] = r
		return r, nil
	}
}

// priceLines completa nombre y costo unitario de cada línea con los datos del recurso.
// El precio registrado en el recurso manda; el costo enviado por el cliente solo se usa
// cuando el recurso no tiene precio.
func priceLines(ctx context.Context, lines []entity.ProductionLine, lookup rules.Lookup) error {
	for i := range lines {
		r, err := lookup(ctx, lines[i].ResourceID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		lines[i].Name = r.Name
		if r.UnitPrice.GreaterThan(decimal.Zero) {
			lines[i].UnitCost = r.UnitPrice
		}
		if lines[i].UnitCost.LessThan(decimal.Zero) {
			lines[i].UnitCost = decimal.Zero
		}
	}
	return nil
}

// CreateManual registra una producción manual. Por defecto se ejecuta en el acto.
func (uc *UseCase) CreateManual(
	ctx context.Context,
	actor dto.Actor,
	req dto.CreateManualProductionRequest,
) (*dto.ProductionResponse, error) {
	in := rules.Input{
		Quantity:    req.Cantidad,
		Operator:    strings.TrimSpace(req.Operador),
		Ingredients: toLines(req.Ingredientes),
		Recipes:     toLines(req.Recetas),
	}
	if err := rules.ValidateShape(in); err != nil {
		uc.rec.ValidationFailed("produccion_manual")
		return nil, err
	}
	productID := strings.TrimSpace(req.ProductoID)
	name := strings.TrimSpace(req.Nombre)
	if productID == "" && name == "" {
		uc.rec.ValidationFailed("produccion_manual")
		return nil, domain.NewValidationError("nombre", "El nombre del producto es requerido")
	}

	now := uc.now()
	run := &entity.ProductionRun{
		ID:           NewProductionID(),
		Origin:       entity.ProductionOriginManual,
		ProductName:  name,
		Quantity:     in.Quantity,
		Unit:         strings.TrimSpace(req.Unidad),
		Operator:     in.Operator,
		State:        entity.ProductionStatePlanned,
		Observations: strings.TrimSpace(req.Observaciones),
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    actor.UserID,
	}

	err := uc.txRunner.Run(ctx, func(s ports.Stores) error {
		lookup := lockedLookup(s)
		if err := rules.Validate(ctx, in, lookup); err != nil {
			return err
		}
		if err := priceLines(ctx, in.Ingredients, lookup); err != nil {
			return err
		}
		if err := priceLines(ctx, in.Recipes, lookup); err != nil {
			return err
		}

		product, err := uc.outputResource(ctx, s, productID, run, actor, now)
		if err != nil {
			return err
		}
		run.ProductID = product.ID
		if run.ProductName == "" {
			run.ProductName = product.Name
		}
		if run.Unit == "" {
			run.Unit = product.Unit
		}
		run.Ingredients = in.Ingredients
		run.Recipes = in.Recipes
		run.TotalCost = rules.TotalCost(in)

		if wantsExecution(req.Ejecutar) {
			if err := uc.applyRun(ctx, s, run, lookup, actor); err != nil {
				return err
			}
		}
		return s.Productions.Create(ctx, run)
	})
	if err != nil {
		uc.failed("produccion_manual", err)
		return nil, err
	}
	uc.afterMutation(ctx, run)
	resp := projection.Production(permissions.For(actor.Role), run)
	return &resp, nil
}

// outputResource obtiene (bloqueado) el producto terminado o lo crea si la producción es de un producto nuevo.
func (uc *UseCase) outputResource(
	ctx context.Context,
	s ports.Stores,
	productID string,
	run *entity.ProductionRun,
	actor dto.Actor,
	now time.Time,
) (*entity.Resource, error) {
	if productID != "" {
		p, err := s.Resources.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.Kind != entity.ResourceKindProduction {
			return nil, domain.NewValidationError("productoId", "El producto seleccionado no existe")
		}
		return p, nil
	}
	unit := run.Unit
	if unit == "" {
		unit = inventory.DefaultUnit
	}
	p := &entity.Resource{
		ID:        uuid.New().String(),
		Kind:      entity.ResourceKindProduction,
		Name:      run.ProductName,
		Unit:      unit,
		OwnerRole: actor.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Resources.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateFromRecipe registra una producción de receta: las líneas salen de los componentes
// de la receta multiplicados por la cantidad a producir.
func (uc *UseCase) CreateFromRecipe(
	ctx context.Context,
	actor dto.Actor,
	req dto.CreateRecipeProductionRequest,
) (*dto.ProductionResponse, error) {
	if err := dto.Validate(req); err != nil {
		uc.rec.ValidationFailed("produccion_receta")
		return nil, err
	}
	recipeID := strings.TrimSpace(req.RecetaID)
	// La receta cuenta como línea hasta derivar sus componentes.
	shape := rules.Input{
		Quantity: req.Cantidad,
		Operator: strings.TrimSpace(req.Operador),
		Recipes:  []entity.ProductionLine{{ResourceID: recipeID}},
	}
	if err := rules.ValidateShape(shape); err != nil {
		uc.rec.ValidationFailed("produccion_receta")
		return nil, err
	}

	now := uc.now()
	run := &entity.ProductionRun{
		ID:           NewProductionID(),
		Origin:       entity.ProductionOriginRecipe,
		ProductID:    recipeID,
		Quantity:     req.Cantidad,
		Operator:     shape.Operator,
		State:        entity.ProductionStatePlanned,
		Observations: strings.TrimSpace(req.Observaciones),
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    actor.UserID,
	}
	if req.Estado != "" {
		run.State = req.Estado
	}

	err := uc.txRunner.Run(ctx, func(s ports.Stores) error {
		lookup := lockedLookup(s)
		recipe, err := lookup(ctx, recipeID)
		if err != nil {
			return err
		}
		if recipe == nil || recipe.Kind != entity.ResourceKindRecipe {
			return domain.NewValidationError("recetaId", "La receta seleccionada no existe")
		}
		in, err := recipeInput(recipe, shape)
		if err != nil {
			return err
		}
		if err := rules.Validate(ctx, in, lookup); err != nil {
			return err
		}
		if err := priceLines(ctx, in.Ingredients, lookup); err != nil {
			return err
		}
		if err := priceLines(ctx, in.Recipes, lookup); err != nil {
			return err
		}
		run.ProductName = recipe.Name
		run.Unit = recipe.Unit
		run.Ingredients = in.Ingredients
		run.Recipes = in.Recipes
		run.TotalCost = rules.TotalCost(in)

		if wantsExecution(req.Ejecutar) {
			if err := uc.applyRun(ctx, s, run, lookup, actor); err != nil {
				return err
			}
		}
		return s.Productions.Create(ctx, run)
	})
	if err != nil {
		uc.failed("produccion_receta", err)
		return nil, err
	}
	uc.afterMutation(ctx, run)
	resp := projection.Production(permissions.For(actor.Role), run)
	return &resp, nil
}

func recipeInput(recipe *entity.Resource, shape rules.Input) (rules.Input, error) {
	in := rules.Input{Quantity: shape.Quantity, Operator: shape.Operator}
	if len(recipe.Components) == 0 {
		return in, domain.NewValidationError("recetaId", "La receta %s no tiene componentes", recipe.Name)
	}
	for _, c := range recipe.Components {
		line := entity.ProductionLine{
			ResourceID: c.ResourceID,
			Quantity:   c.QuantityPerUnit.Mul(shape.Quantity),
		}
		switch c.Kind {
		case entity.ResourceKindRecipe:
			in.Recipes = append(in.Recipes, line)
		case entity.ResourceKindIngredient, "":
			in.Ingredients = append(in.Ingredients, line)
		default:
			// una producción solo consume ingredientes y recetas
			return in, domain.NewValidationError("recetaId",
				"La receta %s incluye un componente de tipo %s; solo se admiten ingredientes y recetas", recipe.Name, c.Kind)
		}
	}
	return in, nil
}

// GetByID devuelve la producción proyectada según el rol.
func (uc *UseCase) GetByID(ctx context.Context, caps permissions.Capabilities, id string) (*dto.ProductionResponse, error) {
	run, err := uc.productions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producción: %w", err)
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	resp := projection.Production(caps, run)
	return &resp, nil
}

// List lista producciones con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, caps permissions.Capabilities, q dto.ProductionListQuery) (*dto.ProductionListResponse, error) {
	q.Normalize(dto.DefaultLimit, dto.MaxLimit)
	f := repository.ProductionFilter{
		Search:   strings.TrimSpace(q.Buscar),
		State:    strings.TrimSpace(q.Estado),
		Operator: strings.TrimSpace(q.Operador),
		Limit:    q.Limite,
		Offset:   q.Offset(),
	}
	if f.State != "" && !entity.IsValidProductionState(f.State) {
		return nil, domain.NewValidationError("estado", "Estado de producción inválido: %s", f.State)
	}
	if q.FechaInicio != "" {
		from, err := time.Parse(dateLayout, q.FechaInicio)
		if err != nil {
			return nil, domain.NewValidationError("fechaInicio", "Fecha inválida, use el formato AAAA-MM-DD")
		}
		f.From = &from
	}
	if q.FechaFin != "" {
		to, err := time.Parse(dateLayout, q.FechaFin)
		if err != nil {
			return nil, domain.NewValidationError("fechaFin", "Fecha inválida, use el formato AAAA-MM-DD")
		}
		// fin exclusivo: incluye todo el día indicado
		to = to.Add(24 * time.Hour)
		f.To = &to
	}

	runs, total, err := uc.productions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listar producciones: %w", err)
	}
	out := make([]dto.ProductionResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, projection.Production(caps, r))
	}
	return &dto.ProductionListResponse{
		Producciones: out,
		Total:        total,
		TotalPaginas: dto.TotalPages(total, q.Limite),
		Pagina:       q.Pagina,
	}, nil
}

// Sheet genera la hoja de producción en PDF. Los costos se incluyen solo si el rol puede verlos.
func (uc *UseCase) Sheet(ctx context.Context, caps permissions.Capabilities, id string) ([]byte, string, error) {
	resp, err := uc.GetByID(ctx, caps, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.sheets.ProductionSheet(ctx, *resp)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de producción: %w", err)
	}
	return pdf, fmt.Sprintf("produccion-%s.pdf", resp.ID), nil
}

func (uc *UseCase) afterMutation(ctx context.Context, run *entity.ProductionRun) {
	uc.rec.ProductionTransition(run.Origin, run.State)
	if err := uc.cache.Invalidate(ctx, ports.StatsKeyMovements); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
	}
}

func (uc *UseCase) failed(op string, err error) {
	if domain.IsValidation(err) {
		uc.rec.ValidationFailed(op)
	}
}
