package excel

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
)

const sheetName = "Movimientos"

var _ ports.HistoryExporter = (*HistoryExporter)(nil)

// HistoryExporter genera la planilla .xlsx del historial de movimientos.
type HistoryExporter struct{}

// NewHistoryExporter construye el exportador.
func NewHistoryExporter() *HistoryExporter { return &HistoryExporter{} }

func headings(showCosts bool) []string {
	h := []string{"Fecha", "Tipo de recurso", "Recurso", "Movimiento", "Cantidad"}
	if showCosts {
		h = append(h, "Costo unitario", "Costo total")
	}
	return append(h, "Motivo", "Operador", "Observaciones", "Producción")
}

// MovementHistory escribe una fila por movimiento. Sin showCosts no hay columnas de costo.
func (e *HistoryExporter) MovementHistory(_ context.Context, rows []dto.MovementResponse, showCosts bool) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	header := headings(showCosts)
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: encabezados: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return nil, fmt.Errorf("excel: estilo encabezados: %w", err)
	}

	for i, m := range rows {
		values := []any{
			m.Fecha.Format("2006-01-02 15:04"),
			m.TipoProducto,
			m.RecursoNombre,
			m.Tipo,
			m.Cantidad.InexactFloat64(),
		}
		if showCosts {
			values = append(values, optional(m.CostoUnitario), optional(m.CostoTotal))
		}
		values = append(values, m.Motivo, m.Operador, m.Observaciones, m.ProduccionID)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("excel: fijar encabezado: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func optional(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}
