package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// Tipos de referencia que originan un movimiento.
const (
	ReferenceTypeManufacturingOrder = "manufacturing_order"
	ReferenceTypeAdjustment         = "adjustment"
	ReferenceTypeTransfer           = "transfer"
)

// StockMovement es una entrada del ledger: inmutable una vez escrita.
// Invariante: NewStock = PreviousStock + Quantity para "in",
// PreviousStock - Quantity para "out"; NewStock nunca es negativo.
// El ledger es la fuente de verdad del stock; Product.CurrentStock
// siempre iguala el NewStock del movimiento más reciente del producto.
type StockMovement struct {
	ID            string
	ProductID     string
	MovementType  string          // in | out
	Quantity      decimal.Decimal // > 0 siempre; el signo lo da MovementType
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	ReferenceType string // manufacturing_order, adjustment, transfer, ...
	ReferenceID   string
	Reason        string
	RecordedBy    string
	MovementDate  time.Time
	CreatedAt     time.Time
}

// SignedQuantity devuelve la cantidad con signo según el tipo de movimiento.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.MovementType == MovementTypeOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
