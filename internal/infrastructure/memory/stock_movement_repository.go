package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación en memoria del ledger (append-only).
// CreateHook permite a los tests inyectar fallas en una pata intermedia de
// una operación multi-movimiento para verificar atomicidad.
type StockMovementRepo struct {
	store      *Store
	CreateHook func(*entity.StockMovement) error
}

// NewStockMovementRepository construye el repositorio sobre el store compartido.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

// Create agrega un movimiento al ledger.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	if r.CreateHook != nil {
		if err := r.CreateHook(m); err != nil {
			return err
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

// GetByID devuelve un movimiento por ID, o nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByProduct movimientos de un producto en orden cronológico ascendente.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time) ([]*entity.StockMovement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.MovementDate.Before(*from) {
			continue
		}
		if to != nil && m.MovementDate.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sortChronological(out)
	return out, nil
}

// ListByType movimientos de un tipo desde una fecha, ascendente.
func (r *StockMovementRepo) ListByType(movementType string, since *time.Time) ([]*entity.StockMovement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.MovementType != movementType {
			continue
		}
		if since != nil && m.MovementDate.Before(*since) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sortChronological(out)
	return out, nil
}

func sortChronological(movements []*entity.StockMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].MovementDate.Before(movements[j].MovementDate)
	})
}
