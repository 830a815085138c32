package bom

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de BOMs atado a esa tx. Garantiza que cabecera y componentes
// se escriban atómicamente (create, clone, reemplazo de componentes).
type TxRunner interface {
	RunBOM(ctx context.Context, fn func(bomRepo repository.BOMRepository) error) error
}
