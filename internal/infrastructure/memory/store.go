// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria. Se usa en tests de casos de uso y para desarrollo sin PostgreSQL.
// El TxRunner simula Commit/Rollback con snapshot + restore del estado.
package memory

import (
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	boms      map[string]*entity.BOM
	movements []*entity.StockMovement
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		boms:     make(map[string]*entity.BOM),
	}
}

// snapshot copia profunda del estado mutable, para rollback del TxRunner.
type snapshot struct {
	products  map[string]*entity.Product
	boms      map[string]*entity.BOM
	movements []*entity.StockMovement
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}
	boms := make(map[string]*entity.BOM, len(s.boms))
	for id, b := range s.boms {
		cp := *b
		cp.Components = append([]entity.BOMComponent(nil), b.Components...)
		boms[id] = &cp
	}
	movements := append([]*entity.StockMovement(nil), s.movements...)
	return snapshot{products: products, boms: boms, movements: movements}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.boms = snap.boms
	s.movements = snap.movements
}
