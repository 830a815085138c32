package repository

import (
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del ledger de stock.
// El ledger es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ListByProduct lista movimientos de un producto en orden cronológico
	// ascendente, opcionalmente acotados por fechas.
	ListByProduct(productID string, from, to *time.Time) ([]*entity.StockMovement, error)
	// ListByType lista movimientos de un tipo (in/out) desde una fecha,
	// en orden cronológico ascendente. since nil = todo el historial.
	ListByType(movementType string, since *time.Time) ([]*entity.StockMovement, error)
}
