package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación de BOMRepository sobre PostgreSQL (usable con pool o tx).
// El índice único parcial uq_boms_product_version (product_id, version)
// WHERE status = 'active' cierra la carrera check-then-insert del alta.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador de BOMs. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// Create inserta la cabecera y sus componentes. La violación del índice único
// se traduce a ErrDuplicateVersion.
func (r *BOMRepo) Create(b *entity.BOM) error {
	headerQuery := `
		INSERT INTO boms (id, product_id, version, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), headerQuery,
		b.ID, b.ProductID, b.Version, b.Description, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s versión %s", domain.ErrDuplicateVersion, b.ProductID, b.Version)
		}
		return fmt.Errorf("insert bom: %w", err)
	}
	return r.insertComponents(b.ID, b.Components)
}

// GetByID obtiene un BOM (activo o inactivo) con sus componentes.
func (r *BOMRepo) GetByID(id string) (*entity.BOM, error) {
	query := `
		SELECT id, product_id, version, description, status, created_at, updated_at
		FROM boms WHERE id = $1`
	b, err := r.scanBOM(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get bom: %w", err)
	}
	if b == nil {
		return nil, nil
	}
	if err := r.loadComponents(b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByProductAndVersion busca un BOM activo por producto y versión.
func (r *BOMRepo) GetByProductAndVersion(productID, version string) (*entity.BOM, error) {
	query := `
		SELECT id, product_id, version, description, status, created_at, updated_at
		FROM boms WHERE product_id = $1 AND version = $2 AND status = 'active'`
	b, err := r.scanBOM(r.q.QueryRow(context.Background(), query, productID, version))
	if err != nil {
		return nil, fmt.Errorf("get bom by version: %w", err)
	}
	if b == nil {
		return nil, nil
	}
	if err := r.loadComponents(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReplaceComponents borra todos los componentes del BOM e inserta el nuevo
// conjunto. Debe llamarse dentro de una tx (vía TxRunner) para que el
// reemplazo sea atómico.
func (r *BOMRepo) ReplaceComponents(bomID string, components []entity.BOMComponent) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM bom_components WHERE bom_id = $1`, bomID); err != nil {
		return fmt.Errorf("delete bom components: %w", err)
	}
	if err := r.insertComponents(bomID, components); err != nil {
		return err
	}
	if _, err := r.q.Exec(context.Background(),
		`UPDATE boms SET updated_at = now() WHERE id = $1`, bomID); err != nil {
		return fmt.Errorf("touch bom: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado del ciclo de vida (active/inactive).
func (r *BOMRepo) UpdateStatus(bomID, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE boms SET status = $2, updated_at = now() WHERE id = $1`, bomID, status)
	if err != nil {
		return fmt.Errorf("update bom status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: BOM %s", domain.ErrNotFound, bomID)
	}
	return nil
}

func (r *BOMRepo) insertComponents(bomID string, components []entity.BOMComponent) error {
	query := `
		INSERT INTO bom_components (id, bom_id, component_product_id, quantity_required, waste_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, c := range components {
		if _, err := r.q.Exec(context.Background(), query,
			c.ID, bomID, c.ComponentProductID, c.QuantityRequired, c.WastePercentage, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert bom component: %w", err)
		}
	}
	return nil
}

func (r *BOMRepo) loadComponents(b *entity.BOM) error {
	query := `
		SELECT id, bom_id, component_product_id, quantity_required, waste_percentage, created_at
		FROM bom_components WHERE bom_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, b.ID)
	if err != nil {
		return fmt.Errorf("list bom components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.BOMComponent
		if err := rows.Scan(&c.ID, &c.BOMID, &c.ComponentProductID,
			&c.QuantityRequired, &c.WastePercentage, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan bom component: %w", err)
		}
		b.Components = append(b.Components, c)
	}
	return rows.Err()
}

func (r *BOMRepo) scanBOM(row pgx.Row) (*entity.BOM, error) {
	var b entity.BOM
	err := row.Scan(&b.ID, &b.ProductID, &b.Version, &b.Description, &b.Status,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
