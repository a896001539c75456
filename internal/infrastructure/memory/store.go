// Package memory implementa los repositorios en memoria (STORE=memory): desarrollo local y pruebas.
// Las transacciones se serializan con un mutex y se deshacen restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

type state struct {
	movements   map[string]entity.Movement
	productions map[string]*entity.ProductionRun
	resources   map[string]*entity.Resource
	branches    map[string]entity.Branch
	stock       map[string]entity.BranchStock
	transfers   map[string]entity.Transfer
	users       map[string]entity.User
}

func newState() *state {
	return &state{
		movements:   map[string]entity.Movement{},
		productions: map[string]*entity.ProductionRun{},
		resources:   map[string]*entity.Resource{},
		branches:    map[string]entity.Branch{},
		stock:       map[string]entity.BranchStock{},
		transfers:   map[string]entity.Transfer{},
		users:       map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.productions {
		c.productions[k] = cloneRun(v)
	}
	for k, v := range s.resources {
		c.resources[k] = v.Clone()
	}
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

func cloneRun(p *entity.ProductionRun) *entity.ProductionRun {
	if p == nil {
		return nil
	}
	c := *p
	c.Ingredients = append([]entity.ProductionLine(nil), p.Ingredients...)
	c.Recipes = append([]entity.ProductionLine(nil), p.Recipes...)
	return &c
}

// Store agrupa los repositorios en memoria sobre un mismo estado.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Movements repositorio de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{st: s} }

// Productions repositorio de producciones.
func (s *Store) Productions() *ProductionRepo { return &ProductionRepo{st: s} }

// Resources repositorio de recursos.
func (s *Store) Resources() *ResourceRepo { return &ResourceRepo{st: s} }

// Branches repositorio de sucursales.
func (s *Store) Branches() *BranchRepo { return &BranchRepo{st: s} }

// Transfers repositorio de transferencias.
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{st: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{st: s} }

// Run implementa ports.TxRunner: si fn falla, el estado vuelve al anterior.
func (s *Store) Run(ctx context.Context, fn func(ports.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	err := fn(ports.Stores{
		Movements:   s.Movements(),
		Productions: s.Productions(),
		Resources:   s.Resources(),
		Branches:    s.Branches(),
		Transfers:   s.Transfers(),
	})
	if err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
	}
	return err
}

func (s *Store) read(fn func(d *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
