package stock

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda mutación de balance corre aquí dentro:
// el lock de fila del producto, el append al ledger y la actualización de la
// caché de stock comparten el mismo Commit/Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
