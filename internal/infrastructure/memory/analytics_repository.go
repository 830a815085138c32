package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo versión en memoria de las consultas agregadas: pliega los
// productos del store en lugar de GROUP BY.
type AnalyticsRepo struct {
	store *Store
}

// NewAnalyticsRepository construye el adaptador de analítica en memoria.
func NewAnalyticsRepository(store *Store) *AnalyticsRepo {
	return &AnalyticsRepo{store: store}
}

// GetValuationByCategory agrupa Σ current_stock * cost_price por categoría.
func (r *AnalyticsRepo) GetValuationByCategory(ctx context.Context, category string) ([]repository.ValuationRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	grouped := make(map[string]*repository.ValuationRow)
	for _, p := range r.store.products {
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		row, ok := grouped[p.Category]
		if !ok {
			row = &repository.ValuationRow{
				Category:   p.Category,
				TotalUnits: decimal.Zero,
				TotalValue: decimal.Zero,
			}
			grouped[p.Category] = row
		}
		row.ProductCount++
		row.TotalUnits = row.TotalUnits.Add(p.CurrentStock)
		row.TotalValue = row.TotalValue.Add(p.CurrentStock.Mul(p.CostPrice))
	}

	rows := make([]repository.ValuationRow, 0, len(grouped))
	for _, row := range grouped {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows, nil
}
