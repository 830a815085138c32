package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el repositorio sobre el store compartido.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create registra un producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

// GetByID devuelve una copia del producto, o nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetForUpdate en memoria equivale a GetByID: la serialización la da el
// lock global del TxRunner.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

// UpdateStock fija la caché de stock del producto.
func (r *ProductRepo) UpdateStock(productID string, newStock decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return nil
	}
	p.CurrentStock = newStock
	p.UpdatedAt = time.Now()
	return nil
}

// List devuelve productos activos según el filtro, ordenados por ID.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.LowStockOnly && !p.IsLowStock() {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
