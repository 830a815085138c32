package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Bases de análisis ABC. El parámetro es explícito y obligatorio: no se
// adivina un default.
const (
	ABCBasisValue    = "value"
	ABCBasisQuantity = "quantity"
)

// Cortes de la curva ABC: A hasta 80% acumulado, B hasta 95%, C el resto.
var (
	abcCutA = decimal.NewFromInt(80)
	abcCutB = decimal.NewFromInt(95)
)

// defaultAgingPeriods períodos por defecto del reporte de antigüedad.
var defaultAgingPeriods = []int{30, 60, 90}

// ReportsUseCase consultas derivadas del ledger: auditoría con balance
// corrido, niveles de stock, valuación, antigüedad y análisis ABC.
// Son lecturas puras: reportan la foto al momento de la consulta.
type ReportsUseCase struct {
	movRepo       repository.StockMovementRepository
	productRepo   repository.ProductRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewReportsUseCase construye el caso de uso de reportes.
func NewReportsUseCase(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	analyticsRepo repository.AnalyticsRepository,
) *ReportsUseCase {
	return &ReportsUseCase{
		movRepo:       movRepo,
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
	}
}

// AuditTrail reproduce los movimientos de un producto en orden cronológico
// plegando un balance corrido independiente del previous/new_stock almacenado.
// Las dos derivaciones deben coincidir: es el mecanismo de verificación de
// consistencia del ledger.
// El replay arranca en el previous_stock del primer movimiento del recorte:
// para un producto cuyo ledger nace en cero eso es cero, y para stock cargado
// antes del primer movimiento (o para un rango de fechas) el balance corrido
// sigue reconciliando contra los valores almacenados.
func (uc *ReportsUseCase) AuditTrail(ctx context.Context, productID string, from, to *time.Time) ([]dto.AuditTrailEntryDTO, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}

	movements, err := uc.movRepo.ListByProduct(productID, from, to)
	if err != nil {
		return nil, err
	}

	running := decimal.Zero
	if len(movements) > 0 {
		running = movements[0].PreviousStock
	}
	trail := make([]dto.AuditTrailEntryDTO, 0, len(movements))
	for _, m := range movements {
		running = running.Add(m.SignedQuantity())
		trail = append(trail, dto.AuditTrailEntryDTO{
			MovementResponse: *toMovementResponse(m, product),
			RunningBalance:   running,
		})
	}
	return trail, nil
}

// CurrentStockLevels lectura directa de products.current_stock según filtros
// tipados (categoría, solo bajo punto de reorden).
func (uc *ReportsUseCase) CurrentStockLevels(ctx context.Context, filter repository.ProductFilter) ([]dto.StockLevelDTO, error) {
	products, err := uc.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	levels := make([]dto.StockLevelDTO, 0, len(products))
	for _, p := range products {
		levels = append(levels, dto.StockLevelDTO{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Category:      p.Category,
			UnitOfMeasure: p.UnitOfMeasure,
			CurrentStock:  p.CurrentStock,
			ReorderLevel:  p.ReorderLevel,
			LowStock:      p.IsLowStock(),
		})
	}
	return levels, nil
}

// StockValuation Σ current_stock * cost_price agrupado por categoría.
func (uc *ReportsUseCase) StockValuation(ctx context.Context, category string) (*dto.ValuationResponse, error) {
	rows, err := uc.analyticsRepo.GetValuationByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	resp := &dto.ValuationResponse{
		Rows:       make([]dto.ValuationRowDTO, 0, len(rows)),
		GrandTotal: decimal.Zero,
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.ValuationRowDTO{
			Category:     r.Category,
			ProductCount: r.ProductCount,
			TotalUnits:   r.TotalUnits,
			TotalValue:   r.TotalValue,
		})
		resp.GrandTotal = resp.GrandTotal.Add(r.TotalValue)
	}
	return resp, nil
}

// InventoryAging clasifica las entradas por edad en buckets frontera
// [0,p1], (p1,p2], ..., (pn,∞). Un movimiento exactamente en el día límite
// cae en el bucket inferior (el más cercano). periods vacío usa [30,60,90].
func (uc *ReportsUseCase) InventoryAging(ctx context.Context, periods []int) (*dto.AgingResponse, error) {
	if len(periods) == 0 {
		periods = defaultAgingPeriods
	}
	for i, p := range periods {
		if p <= 0 || (i > 0 && p <= periods[i-1]) {
			return nil, fmt.Errorf("%w: los períodos deben ser positivos y crecientes", domain.ErrInvalidInput)
		}
	}

	movements, err := uc.movRepo.ListByType(entity.MovementTypeIn, nil)
	if err != nil {
		return nil, err
	}

	labels := agingLabels(periods)
	now := time.Now()
	perProduct := make(map[string][]dto.AgingBucketDTO)
	for _, m := range movements {
		buckets, ok := perProduct[m.ProductID]
		if !ok {
			buckets = make([]dto.AgingBucketDTO, len(labels))
			for i, label := range labels {
				buckets[i] = dto.AgingBucketDTO{Label: label, Quantity: decimal.Zero, Value: decimal.Zero}
			}
			perProduct[m.ProductID] = buckets
		}
		daysOld := int(now.Sub(m.MovementDate).Hours() / 24)
		idx := bucketIndex(daysOld, periods)
		buckets[idx].Quantity = buckets[idx].Quantity.Add(m.Quantity)
	}

	productIDs := make([]string, 0, len(perProduct))
	for id := range perProduct {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	resp := &dto.AgingResponse{Periods: periods, Products: make([]dto.AgingProductDTO, 0, len(productIDs))}
	for _, id := range productIDs {
		product, err := uc.productRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue // producto borrado del registro: sin datos que mostrar
		}
		buckets := perProduct[id]
		for i := range buckets {
			buckets[i].Value = buckets[i].Quantity.Mul(product.CostPrice)
		}
		resp.Products = append(resp.Products, dto.AgingProductDTO{
			ProductID: id,
			SKU:       product.SKU,
			Name:      product.Name,
			Buckets:   buckets,
		})
	}
	return resp, nil
}

// ABCAnalysis suma las salidas por producto dentro del período sobre la base
// elegida (value|quantity), ordena descendente con desempate estable por
// product_id y clasifica sobre la curva acumulada: A ≤ 80%, B ≤ 95%, C el resto.
func (uc *ReportsUseCase) ABCAnalysis(ctx context.Context, periodDays int, basis string) (*dto.ABCAnalysisResponse, error) {
	if periodDays <= 0 {
		return nil, fmt.Errorf("%w: period_days debe ser > 0", domain.ErrInvalidInput)
	}
	if basis != ABCBasisValue && basis != ABCBasisQuantity {
		return nil, fmt.Errorf("%w: basis %q (se espera value o quantity)", domain.ErrInvalidInput, basis)
	}

	since := time.Now().AddDate(0, 0, -periodDays)
	movements, err := uc.movRepo.ListByType(entity.MovementTypeOut, &since)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	products := make(map[string]*entity.Product)
	for _, m := range movements {
		product, ok := products[m.ProductID]
		if !ok {
			product, err = uc.productRepo.GetByID(m.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil {
				continue
			}
			products[m.ProductID] = product
		}
		amount := m.Quantity
		if basis == ABCBasisValue {
			amount = m.Quantity.Mul(product.CostPrice)
		}
		totals[m.ProductID] = totals[m.ProductID].Add(amount)
	}

	type usage struct {
		productID string
		total     decimal.Decimal
	}
	usages := make([]usage, 0, len(totals))
	grandTotal := decimal.Zero
	for id, total := range totals {
		usages = append(usages, usage{productID: id, total: total})
		grandTotal = grandTotal.Add(total)
	}
	// Desempate estable por product_id: la clasificación debe ser reproducible
	// corrida tras corrida sobre el mismo conjunto de movimientos.
	sort.SliceStable(usages, func(i, j int) bool {
		if !usages[i].total.Equal(usages[j].total) {
			return usages[i].total.GreaterThan(usages[j].total)
		}
		return usages[i].productID < usages[j].productID
	})

	resp := &dto.ABCAnalysisResponse{
		PeriodDays: periodDays,
		Basis:      basis,
		GrandTotal: grandTotal,
		Products:   make([]dto.ABCProductDTO, 0, len(usages)),
	}
	hundred := decimal.NewFromInt(100)
	cumulative := decimal.Zero
	for _, u := range usages {
		cumulative = cumulative.Add(u.total)
		cumPct := decimal.Zero
		if !grandTotal.IsZero() {
			cumPct = cumulative.Div(grandTotal).Mul(hundred)
		}
		class := "C"
		switch {
		case cumPct.LessThanOrEqual(abcCutA):
			class = "A"
			resp.Summary.CountA++
		case cumPct.LessThanOrEqual(abcCutB):
			class = "B"
			resp.Summary.CountB++
		default:
			resp.Summary.CountC++
		}
		product := products[u.productID]
		resp.Products = append(resp.Products, dto.ABCProductDTO{
			ProductID:     u.productID,
			SKU:           product.SKU,
			Name:          product.Name,
			UsageTotal:    u.total,
			CumulativePct: cumPct,
			Class:         class,
		})
	}
	return resp, nil
}

// bucketIndex devuelve el índice del bucket de edad: primer período p con
// daysOld <= p; pasado el último período cae en el bucket abierto final.
func bucketIndex(daysOld int, periods []int) int {
	for i, p := range periods {
		if daysOld <= p {
			return i
		}
	}
	return len(periods)
}

// agingLabels arma las etiquetas "0-30", "31-60", ..., "90+".
func agingLabels(periods []int) []string {
	labels := make([]string, 0, len(periods)+1)
	lower := 0
	for _, p := range periods {
		labels = append(labels, fmt.Sprintf("%d-%d", lower, p))
		lower = p + 1
	}
	labels = append(labels, fmt.Sprintf("%d+", periods[len(periods)-1]))
	return labels
}
