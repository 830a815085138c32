package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del registro (materia prima, semielaborado o terminado).
// CurrentStock es una caché derivada del ledger: siempre debe igualar el new_stock
// del último movimiento del producto. Solo el motor de stock la muta, dentro de
// la misma transacción que escribe el movimiento.
type Product struct {
	ID            string
	SKU           string
	Name          string
	Category      string
	UnitOfMeasure string
	CostPrice     decimal.Decimal
	CurrentStock  decimal.Decimal
	ReorderLevel  decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el producto está en o por debajo de su punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.ReorderLevel)
}
