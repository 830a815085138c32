package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, movement_type, quantity, previous_stock, new_stock, reference_type, reference_id, reason, recorded_by, movement_date, created_at`

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla stock_ledger es append-only: este adaptador no expone UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento al ledger.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_ledger (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	referenceType := nullable(m.ReferenceType)
	referenceID := nullable(m.ReferenceID)
	recordedBy := nullable(m.RecordedBy)
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.MovementType, m.Quantity, m.PreviousStock, m.NewStock,
		referenceType, referenceID, m.Reason, recordedBy, m.MovementDate, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_ledger WHERE id = $1`
	var m entity.StockMovement
	var referenceType, referenceID, recordedBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.MovementType, &m.Quantity, &m.PreviousStock, &m.NewStock,
		&referenceType, &referenceID, &m.Reason, &recordedBy, &m.MovementDate, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	applyNullable(&m, referenceType, referenceID, recordedBy)
	return &m, nil
}

// ListByProduct movimientos de un producto en orden cronológico ascendente,
// opcionalmente acotados por fechas. El orden ascendente es el contrato del
// replay de auditoría.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_ledger WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY movement_date, created_at, id"
	return r.list(query, args...)
}

// ListByType movimientos de un tipo desde una fecha, ascendente.
func (r *StockMovementRepo) ListByType(movementType string, since *time.Time) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_ledger WHERE movement_type = $1`
	args := []any{movementType}
	if since != nil {
		query += " AND movement_date >= $2"
		args = append(args, *since)
	}
	query += " ORDER BY movement_date, created_at, id"
	return r.list(query, args...)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var referenceType, referenceID, recordedBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MovementType, &m.Quantity,
			&m.PreviousStock, &m.NewStock, &referenceType, &referenceID,
			&m.Reason, &recordedBy, &m.MovementDate, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		applyNullable(&m, referenceType, referenceID, recordedBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func applyNullable(m *entity.StockMovement, referenceType, referenceID, recordedBy *string) {
	if referenceType != nil {
		m.ReferenceType = *referenceType
	}
	if referenceID != nil {
		m.ReferenceID = *referenceID
	}
	if recordedBy != nil {
		m.RecordedBy = *recordedBy
	}
}
