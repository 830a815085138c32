package dto

import "github.com/shopspring/decimal"

// BOMComponentRequest línea de componente en creación/reemplazo de BOM.
type BOMComponentRequest struct {
	ComponentProductID string          `json:"component_product_id"`
	QuantityRequired   decimal.Decimal `json:"quantity_required"`
	WastePercentage    decimal.Decimal `json:"waste_percentage"`
}

// CreateBOMRequest body para POST /api/boms.
type CreateBOMRequest struct {
	ProductID   string                `json:"product_id"`
	Version     string                `json:"version"`
	Description string                `json:"description,omitempty"`
	Components  []BOMComponentRequest `json:"components"`
}

// UpdateComponentsRequest body para PUT /api/boms/:id/components.
// El conjunto reemplaza por completo a los componentes existentes.
type UpdateComponentsRequest struct {
	Components []BOMComponentRequest `json:"components"`
}

// CloneBOMRequest body para POST /api/boms/:id/clone.
type CloneBOMRequest struct {
	NewVersion  string `json:"new_version"`
	Description string `json:"description,omitempty"`
}

// BOMComponentDTO componente con los datos del producto resueltos.
type BOMComponentDTO struct {
	ComponentProductID string          `json:"component_product_id"`
	SKU                string          `json:"sku"`
	ComponentName      string          `json:"component_name"`
	UnitOfMeasure      string          `json:"unit_of_measure"`
	QuantityRequired   decimal.Decimal `json:"quantity_required"`
	WastePercentage    decimal.Decimal `json:"waste_percentage"`
	CostPrice          decimal.Decimal `json:"cost_price"`
}

// BOMResponse BOM completo con componentes resueltos.
type BOMResponse struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"product_id"`
	Version     string            `json:"version"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	Components  []BOMComponentDTO `json:"components"`
}

// ScaledComponentDTO línea del escalado de un BOM a una cantidad objetivo.
type ScaledComponentDTO struct {
	ComponentProductID string          `json:"component_product_id"`
	ComponentName      string          `json:"component_name"`
	UnitOfMeasure      string          `json:"unit_of_measure"`
	QuantityRequired   decimal.Decimal `json:"quantity_required"`
	WastePercentage    decimal.Decimal `json:"waste_percentage"`
	EffectiveQuantity  decimal.Decimal `json:"effective_quantity"` // qty * (1 + merma/100)
	ScaledQuantity     decimal.Decimal `json:"scaled_quantity"`    // efectiva * cantidad objetivo
	CostPrice          decimal.Decimal `json:"cost_price"`
	ComponentCost      decimal.Decimal `json:"component_cost"`
	AvailableStock     decimal.Decimal `json:"available_stock"`
	StockSufficient    bool            `json:"stock_sufficient"`
}

// ShortageDTO faltante de un componente para la cantidad objetivo.
type ShortageDTO struct {
	ComponentProductID string          `json:"component_product_id"`
	ComponentName      string          `json:"component_name"`
	Required           decimal.Decimal `json:"required"`
	Available          decimal.Decimal `json:"available"`
	Shortage           decimal.Decimal `json:"shortage"`
}

// ScaledBOMResponse resultado de escalar un BOM a una cantidad de producción.
type ScaledBOMResponse struct {
	BOMID          string               `json:"bom_id"`
	ProductID      string               `json:"product_id"`
	TargetQuantity decimal.Decimal      `json:"target_quantity"`
	Components     []ScaledComponentDTO `json:"components"`
	TotalCost      decimal.Decimal      `json:"total_cost"`
	CostPerUnit    decimal.Decimal      `json:"cost_per_unit"`
	AllAvailable   bool                 `json:"all_available"`
	Shortages      []ShortageDTO        `json:"shortages"`
}

// CostBreakdownLineDTO línea del desglose de costos con participación porcentual.
type CostBreakdownLineDTO struct {
	ScaledComponentDTO
	CostPercentage decimal.Decimal `json:"cost_percentage"` // component_cost / total_cost * 100
}

// CostBreakdownResponse desglose de costos de materiales para una cantidad.
type CostBreakdownResponse struct {
	BOMID          string                 `json:"bom_id"`
	ProductID      string                 `json:"product_id"`
	TargetQuantity decimal.Decimal        `json:"target_quantity"`
	Lines          []CostBreakdownLineDTO `json:"lines"`
	TotalCost      decimal.Decimal        `json:"total_cost"`
	CostPerUnit    decimal.Decimal        `json:"cost_per_unit"`
}
