// Package reversal decide cómo revertir un movimiento del libro: eliminar solo la entrada
// o eliminar en cascada la producción que lo originó.
package reversal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Class clasificación de un movimiento según su procedencia.
type Class string

const (
	ClassRecipeProduction      Class = "produccion_receta"
	ClassTraditionalProduction Class = "produccion"
	ClassManual                Class = "manual"
	ClassTransfer              Class = "transferencia"
)

// Strategy estrategia de eliminación.
type Strategy string

const (
	// StrategyDeleteEntry elimina solo la entrada y revierte su efecto.
	StrategyDeleteEntry Strategy = "eliminar_movimiento"
	// StrategyDeleteEntryCascade elimina la entrada; el servidor revierte la producción de receta completa.
	StrategyDeleteEntryCascade Strategy = "eliminar_movimiento_cascada"
	// StrategyDeleteProductionRun elimina la producción completa con todos sus movimientos.
	StrategyDeleteProductionRun Strategy = "eliminar_produccion"
	// StrategyDeleteEntryFallback elimina solo la entrada aunque provenga de una producción sin ID recuperable.
	StrategyDeleteEntryFallback Strategy = "eliminar_movimiento_sin_produccion"
	// StrategyRevertTransfer el movimiento no se elimina: se revierte la transferencia que lo originó.
	StrategyRevertTransfer Strategy = "revertir_transferencia"
)

var (
	idPattern       = regexp.MustCompile(`ID:\s*([a-fA-F0-9]{24})`)
	legacyIDPattern = regexp.MustCompile(`[Pp]roducción[:\s]*([a-fA-F0-9]{24})`)

	recipeMarker      = fold("Producción de receta:")
	productionMarker  = fold("Producción:")
	productionKeyword = fold("producción")
)

// fold normaliza para comparar sin mayúsculas ni tildes.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// ExtractProductionID extrae el ID de producción (24 hex) embebido en el motivo.
// Prueba primero "ID: <hex>" y luego el formato legado "Producción: <hex>".
func ExtractProductionID(motive string) (string, bool) {
	motive = norm.NFC.String(motive)
	if m := idPattern.FindStringSubmatch(motive); m != nil {
		return m[1], true
	}
	if m := legacyIDPattern.FindStringSubmatch(motive); m != nil {
		return m[1], true
	}
	return "", false
}

// Classify clasifica el movimiento por su motivo y su tipo.
func Classify(m *entity.Movement) Class {
	if m.SourceTransferID != "" {
		return ClassTransfer
	}
	motive := fold(m.Motive)
	if strings.Contains(motive, recipeMarker) ||
		(m.ResourceKind == entity.ResourceKindRecipe && m.Type == entity.MovementTypeProduccionReceta) {
		return ClassRecipeProduction
	}
	if strings.Contains(motive, productionMarker) || strings.Contains(motive, productionKeyword) {
		return ClassTraditionalProduction
	}
	return ClassManual
}

// Plan resultado de resolver la eliminación de un movimiento.
type Plan struct {
	MovementID   string   `json:"movimientoId"`
	Class        Class    `json:"clasificacion"`
	Strategy     Strategy `json:"estrategia"`
	ProductionID string   `json:"produccionId,omitempty"`
	Warning      string   `json:"advertencia,omitempty"`
	Confirmation string   `json:"confirmacion"`
}

// RequiresFallbackConsent informa si el operador debe aceptar la advertencia antes de eliminar.
func (p Plan) RequiresFallbackConsent() bool {
	return p.Strategy == StrategyDeleteEntryFallback
}

// FallbackWarning se muestra cuando un movimiento de producción no tiene ID recuperable.
const FallbackWarning = "No se encontró el ID de la producción asociada. Solo se eliminará el movimiento " +
	"y el inventario de ingredientes, recetas y productos podría quedar inconsistente."

// ProductionID devuelve la referencia a la producción: el campo explícito si existe,
// si no el ID embebido en el motivo (registros legados).
func ProductionID(m *entity.Movement) (string, bool) {
	if m.SourceProductionID != "" {
		return m.SourceProductionID, true
	}
	return ExtractProductionID(m.Motive)
}

// Resolve decide la estrategia de eliminación y el texto de confirmación.
func Resolve(m *entity.Movement) Plan {
	plan := Plan{MovementID: m.ID, Class: Classify(m)}
	qty := m.Quantity.Abs().String()

	switch plan.Class {
	case ClassTransfer:
		plan.Strategy = StrategyRevertTransfer
		plan.Confirmation = fmt.Sprintf(
			"El movimiento de %s %s pertenece a la transferencia %s. Revierta la transferencia para devolver el stock.",
			qty, m.ResourceName, m.SourceTransferID)
	case ClassRecipeProduction:
		plan.Strategy = StrategyDeleteEntryCascade
		plan.ProductionID, _ = ProductionID(m)
		plan.Confirmation = fmt.Sprintf(
			"¿Eliminar el movimiento de producción de receta de %s %s? "+
				"Se revertirá el stock de la receta y de los ingredientes que consumió.", qty, m.ResourceName)
	case ClassTraditionalProduction:
		id, ok := ProductionID(m)
		if !ok {
			plan.Strategy = StrategyDeleteEntryFallback
			plan.Warning = FallbackWarning
			plan.Confirmation = fmt.Sprintf(
				"¿Eliminar solo el movimiento de %s %s? %s", qty, m.ResourceName, FallbackWarning)
			break
		}
		plan.Strategy = StrategyDeleteProductionRun
		plan.ProductionID = id
		plan.Confirmation = fmt.Sprintf(
			"¿Eliminar la producción %s completa? Se revertirán todos los ingredientes y recetas "+
				"consumidos y la cantidad producida.", id)
	default:
		plan.Strategy = StrategyDeleteEntry
		plan.Confirmation = fmt.Sprintf(
			"¿Eliminar el movimiento de %s %s? Se revertirá su efecto sobre el stock.", qty, m.ResourceName)
	}
	return plan
}

// ProductionMotive construye el motivo de un movimiento generado por una producción.
func ProductionMotive(origin, productName, productionID string) string {
	if origin == entity.ProductionOriginRecipe {
		return fmt.Sprintf("Producción de receta: %s - ID: %s", productName, productionID)
	}
	return fmt.Sprintf("Producción: %s - ID: %s", productName, productionID)
}
