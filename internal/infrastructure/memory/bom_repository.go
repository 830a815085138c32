package memory

import (
	"fmt"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación en memoria de BOMRepository.
type BOMRepo struct {
	store *Store
}

// NewBOMRepository construye el repositorio sobre el store compartido.
func NewBOMRepository(store *Store) *BOMRepo {
	return &BOMRepo{store: store}
}

// Create inserta cabecera y componentes. Replica el índice único de BD:
// (product_id, version) no puede repetirse entre BOMs activos.
func (r *BOMRepo) Create(b *entity.BOM) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.boms {
		if existing.ProductID == b.ProductID && existing.Version == b.Version &&
			existing.Status == entity.BOMStatusActive {
			return fmt.Errorf("%w: %s versión %s", domain.ErrDuplicateVersion, b.ProductID, b.Version)
		}
	}
	cp := *b
	cp.Components = append([]entity.BOMComponent(nil), b.Components...)
	r.store.boms[b.ID] = &cp
	return nil
}

// GetByID devuelve una copia del BOM (activo o inactivo), o nil si no existe.
func (r *BOMRepo) GetByID(id string) (*entity.BOM, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.boms[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	cp.Components = append([]entity.BOMComponent(nil), b.Components...)
	return &cp, nil
}

// GetByProductAndVersion busca un BOM activo por producto y versión.
func (r *BOMRepo) GetByProductAndVersion(productID, version string) (*entity.BOM, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, b := range r.store.boms {
		if b.ProductID == productID && b.Version == version && b.Status == entity.BOMStatusActive {
			cp := *b
			cp.Components = append([]entity.BOMComponent(nil), b.Components...)
			return &cp, nil
		}
	}
	return nil, nil
}

// ReplaceComponents reemplaza en bloque el conjunto de componentes.
func (r *BOMRepo) ReplaceComponents(bomID string, components []entity.BOMComponent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.boms[bomID]
	if !ok {
		return fmt.Errorf("%w: BOM %s", domain.ErrNotFound, bomID)
	}
	b.Components = append([]entity.BOMComponent(nil), components...)
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus cambia el estado del ciclo de vida del BOM.
func (r *BOMRepo) UpdateStatus(bomID, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.boms[bomID]
	if !ok {
		return fmt.Errorf("%w: BOM %s", domain.ErrNotFound, bomID)
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}
