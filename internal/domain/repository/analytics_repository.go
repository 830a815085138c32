package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ValuationRow valuación de inventario de una categoría:
// Σ current_stock * cost_price sobre los productos activos del grupo.
type ValuationRow struct {
	Category     string
	ProductCount int64
	TotalUnits   decimal.Decimal
	TotalValue   decimal.Decimal
}

// AnalyticsRepository consultas agregadas de solo lectura sobre el inventario.
type AnalyticsRepository interface {
	// GetValuationByCategory agrupa la valuación de stock por categoría.
	// category vacío = todas las categorías.
	GetValuationByCategory(ctx context.Context, category string) ([]ValuationRow, error)
}
