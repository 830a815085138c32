package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// BOMRepository define el puerto de persistencia para BOMs y sus componentes.
// Los componentes se reemplazan siempre en bloque (delete-all + reinsert),
// nunca con parches parciales.
type BOMRepository interface {
	// Create inserta cabecera y componentes. Debe devolver
	// domain.ErrDuplicateVersion si (product_id, version) ya existe activo.
	Create(bom *entity.BOM) error
	GetByID(id string) (*entity.BOM, error)
	// GetByProductAndVersion busca un BOM activo por producto y versión.
	// Devuelve nil sin error si no existe.
	GetByProductAndVersion(productID, version string) (*entity.BOM, error)
	// ReplaceComponents borra todos los componentes del BOM e inserta el
	// nuevo conjunto.
	ReplaceComponents(bomID string, components []entity.BOMComponent) error
	UpdateStatus(bomID, status string) error
}
