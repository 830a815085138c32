package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ProductFilter filtros tipados para consultas de stock (cero valores = sin filtro).
type ProductFilter struct {
	Category     string // igualdad exacta sobre products.category
	LowStockOnly bool   // solo productos con current_stock <= reorder_level
}

// ProductRepository define el puerto de persistencia para el registro de productos.
// Los motores lo consumen en modo lectura; CurrentStock solo se muta vía
// UpdateStock dentro de la transacción que escribe el movimiento.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar las mutaciones de balance por producto.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(productID string, newStock decimal.Decimal) error
	List(filter ProductFilter) ([]*entity.Product, error)
}
