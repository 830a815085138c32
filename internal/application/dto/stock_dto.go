package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/stock/movements.
type RecordMovementRequest struct {
	ProductID     string          `json:"product_id"`
	MovementType  string          `json:"movement_type"` // in | out
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Reason        string          `json:"reason"`
	RecordedBy    string          `json:"recorded_by"`
}

// MovementResponse movimiento confirmado, enriquecido con datos del producto.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	RecordedBy    string          `json:"recorded_by,omitempty"`
	MovementDate  time.Time       `json:"movement_date"`
}

// AdjustmentRequest body para POST /api/stock/adjustments.
// Delta positivo registra una entrada; negativo, una salida por |delta|.
type AdjustmentRequest struct {
	ProductID  string          `json:"product_id"`
	Delta      decimal.Decimal `json:"delta"`
	Reason     string          `json:"reason"`
	Notes      string          `json:"notes,omitempty"`
	RecordedBy string          `json:"recorded_by"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	ProductID    string          `json:"product_id"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	Quantity     decimal.Decimal `json:"quantity"`
	RecordedBy   string          `json:"recorded_by"`
}

// TransferResponse las dos patas del traslado, confirmadas atómicamente.
type TransferResponse struct {
	OutMovement MovementResponse `json:"out_movement"`
	InMovement  MovementResponse `json:"in_movement"`
}

// ConsumeLine línea de consumo de materiales de una orden de manufactura.
type ConsumeLine struct {
	ProductID        string          `json:"product_id"`
	QuantityConsumed decimal.Decimal `json:"quantity_consumed"`
}

// ConsumeMaterialsRequest body para POST /api/stock/consumptions.
type ConsumeMaterialsRequest struct {
	ManufacturingOrderID string        `json:"manufacturing_order_id"`
	Lines                []ConsumeLine `json:"lines"`
	RecordedBy           string        `json:"recorded_by"`
}

// ReceiveProductionRequest body para POST /api/stock/receipts.
type ReceiveProductionRequest struct {
	ManufacturingOrderID string          `json:"manufacturing_order_id"`
	ProductID            string          `json:"product_id"`
	QuantityProduced     decimal.Decimal `json:"quantity_produced"`
	QualityStatus        string          `json:"quality_status"` // passed | failed | rework
	RecordedBy           string          `json:"recorded_by"`
}

// ProductionReceiptDTO resultado de recibir producción. Solo "passed" afecta
// stock; en los demás casos StockAffected es false y Movement es nil.
type ProductionReceiptDTO struct {
	ManufacturingOrderID string            `json:"manufacturing_order_id"`
	ProductID            string            `json:"product_id"`
	QuantityProduced     decimal.Decimal   `json:"quantity_produced"`
	QualityStatus        string            `json:"quality_status"`
	StockAffected        bool              `json:"stock_affected"`
	Movement             *MovementResponse `json:"movement,omitempty"`
}

// AuditTrailEntryDTO movimiento con balance corrido recalculado por replay.
type AuditTrailEntryDTO struct {
	MovementResponse
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// StockLevelDTO nivel de stock actual de un producto.
type StockLevelDTO struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	LowStock      bool            `json:"low_stock"`
}

// ValuationRowDTO valuación de una categoría.
type ValuationRowDTO struct {
	Category     string          `json:"category"`
	ProductCount int64           `json:"product_count"`
	TotalUnits   decimal.Decimal `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// ValuationResponse valuación de inventario agrupada por categoría.
type ValuationResponse struct {
	Rows       []ValuationRowDTO `json:"rows"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// AgingBucketDTO cantidades y valor de un producto dentro de un rango de edad.
type AgingBucketDTO struct {
	Label    string          `json:"label"` // "0-30", "31-60", "90+"
	Quantity decimal.Decimal `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// AgingProductDTO buckets de antigüedad de las entradas de un producto.
type AgingProductDTO struct {
	ProductID string           `json:"product_id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Buckets   []AgingBucketDTO `json:"buckets"`
}

// AgingResponse reporte de antigüedad de inventario.
type AgingResponse struct {
	Periods  []int             `json:"periods"`
	Products []AgingProductDTO `json:"products"`
}

// ABCProductDTO producto clasificado en la curva ABC.
type ABCProductDTO struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	UsageTotal    decimal.Decimal `json:"usage_total"`    // suma de salidas en el período, en la base elegida
	CumulativePct decimal.Decimal `json:"cumulative_pct"` // % acumulado sobre el gran total
	Class         string          `json:"class"`          // A | B | C
}

// ABCSummaryDTO conteo de productos por clase.
type ABCSummaryDTO struct {
	CountA int `json:"count_a"`
	CountB int `json:"count_b"`
	CountC int `json:"count_c"`
}

// ABCAnalysisResponse análisis ABC del consumo en un período.
type ABCAnalysisResponse struct {
	PeriodDays int             `json:"period_days"`
	Basis      string          `json:"basis"` // value | quantity
	GrandTotal decimal.Decimal `json:"grand_total"`
	Summary    ABCSummaryDTO   `json:"summary"`
	Products   []ABCProductDTO `json:"products"`
}
