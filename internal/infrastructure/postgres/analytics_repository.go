package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura sobre el inventario.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetValuationByCategory agrupa la valuación de stock por categoría:
// Σ current_stock * cost_price sobre productos activos.
// Usa COALESCE para devolver cero en grupos sin stock.
func (r *AnalyticsRepo) GetValuationByCategory(ctx context.Context, category string) ([]repository.ValuationRow, error) {
	query := `
	SELECT
	    p.category,
	    COUNT(*)                                        AS product_count,
	    COALESCE(SUM(p.current_stock),               0) AS total_units,
	    COALESCE(SUM(p.current_stock * p.cost_price), 0) AS total_value
	FROM products p
	WHERE p.is_active = true`
	args := []any{}
	if category != "" {
		query += " AND p.category = $1"
		args = append(args, category)
	}
	query += `
	GROUP BY p.category
	ORDER BY p.category`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetValuationByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.ValuationRow
	for rows.Next() {
		var row repository.ValuationRow
		if err := rows.Scan(
			&row.Category,
			&row.ProductCount,
			&row.TotalUnits,
			&row.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetValuationByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
