package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RevertedMarker se agrega a Observations de una transferencia revertida.
const RevertedMarker = "[REVERTIDO"

// Transfer es el envío de material desde el stock central a una sucursal.
// Una reversión inserta un registro compensatorio con cantidad negativa y RevertsID.
type Transfer struct {
	ID           string
	MaterialID   string
	MaterialName string
	BranchID     string
	BranchName   string
	Quantity     decimal.Decimal
	Motive       string
	Observations string
	RevertsID    string
	Operator     string
	CreatedAt    time.Time
	CreatedBy    string
}

// IsReverted informa si la transferencia ya fue revertida.
func (t *Transfer) IsReverted() bool {
	return strings.Contains(t.Observations, RevertedMarker)
}

// IsCompensation informa si el registro es la compensación de otra transferencia.
func (t *Transfer) IsCompensation() bool {
	return t.Quantity.LessThan(decimal.Zero)
}

// MarkReverted agrega la marca de reversión con la fecha indicada.
func (t *Transfer) MarkReverted(at time.Time) {
	mark := RevertedMarker + " " + at.Format("2006-01-02 15:04") + "]"
	if strings.TrimSpace(t.Observations) == "" {
		t.Observations = mark
		return
	}
	t.Observations = t.Observations + " " + mark
}
