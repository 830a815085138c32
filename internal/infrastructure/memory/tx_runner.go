package memory

import (
	"context"
	"sync"

	appbom "github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/stock"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)
var _ appbom.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones sobre el store en memoria: serializa las
// transacciones con un mutex y ante error restaura el snapshot previo
// (rollback). MovementRepo queda expuesto para que los tests inyecten fallas.
type TxRunner struct {
	txMu         sync.Mutex
	store        *Store
	MovementRepo *StockMovementRepo
	productRepo  *ProductRepo
	bomRepo      *BOMRepo
}

// NewTxRunner construye el runner sobre el store compartido.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{
		store:        store,
		MovementRepo: NewStockMovementRepository(store),
		productRepo:  NewProductRepository(store),
		bomRepo:      NewBOMRepository(store),
	}
}

// Run ejecuta fn con repos de stock; ante error restaura el estado previo.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	snap := r.store.takeSnapshot()
	if err := fn(r.MovementRepo, r.productRepo); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// RunBOM ejecuta fn con el repo de BOMs; ante error restaura el estado previo.
func (r *TxRunner) RunBOM(ctx context.Context, fn func(bomRepo repository.BOMRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	snap := r.store.takeSnapshot()
	if err := fn(r.bomRepo); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
