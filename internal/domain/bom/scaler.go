package bom

import "github.com/shopspring/decimal"

// EffectiveQuantity implementa la amplificación por merma (servicio de dominio).
// ReqEfectivo = CantidadNominal * (1 + Merma/100)
// Con merma 0 el resultado es exactamente la cantidad nominal.
func EffectiveQuantity(quantityRequired, wastePercentage decimal.Decimal) decimal.Decimal {
	if wastePercentage.IsZero() {
		return quantityRequired
	}
	factor := decimal.NewFromInt(1).Add(wastePercentage.Div(decimal.NewFromInt(100)))
	return quantityRequired.Mul(factor)
}

// ScaledQuantity escala el requerimiento efectivo a una cantidad de producción.
func ScaledQuantity(quantityRequired, wastePercentage, targetQuantity decimal.Decimal) decimal.Decimal {
	return EffectiveQuantity(quantityRequired, wastePercentage).Mul(targetQuantity)
}

// ComponentCost costo de la cantidad escalada al costo unitario del componente.
func ComponentCost(scaledQuantity, costPrice decimal.Decimal) decimal.Decimal {
	return scaledQuantity.Mul(costPrice)
}

// CostPercentage participación del costo de una línea en el costo total.
// Devuelve 0 si el total es cero (protección contra división por cero).
func CostPercentage(componentCost, totalCost decimal.Decimal) decimal.Decimal {
	if totalCost.IsZero() {
		return decimal.Zero
	}
	return componentCost.Div(totalCost).Mul(decimal.NewFromInt(100))
}
