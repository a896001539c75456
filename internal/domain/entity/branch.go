package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Branch representa una sucursal que recibe material desde el stock central.
type Branch struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BranchStock es el stock de un material en una sucursal.
type BranchStock struct {
	BranchID   string
	MaterialID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
