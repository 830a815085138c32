package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ciclo de vida de un BOM. La baja es lógica (Inactive):
// las órdenes de manufactura históricas siguen pudiendo resolverlo por ID.
const (
	BOMStatusActive   = "active"
	BOMStatusInactive = "inactive"
)

// BOM cabecera de una lista de materiales: receta de componentes necesarios
// para producir una unidad de ProductID. (ProductID, Version) es único entre
// BOMs activos; un BOM siempre tiene al menos un componente.
type BOM struct {
	ID          string
	ProductID   string
	Version     string
	Description string
	Status      string // active | inactive
	Components  []BOMComponent
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el BOM está vigente.
func (b *BOM) IsActive() bool {
	return b.Status == BOMStatusActive
}

// BOMComponent línea de un BOM: cantidad nominal de un componente por unidad
// producida, más el porcentaje de merma (scrap) que amplifica el consumo real.
// Requerimiento efectivo por unidad = QuantityRequired * (1 + WastePercentage/100).
type BOMComponent struct {
	ID                 string
	BOMID              string
	ComponentProductID string
	QuantityRequired   decimal.Decimal // > 0
	WastePercentage    decimal.Decimal // [0, 100]
	CreatedAt          time.Time
}
