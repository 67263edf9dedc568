// Package memory implementa los repositorios sobre un almacén en memoria (STORAGE_DRIVER=memory).
// Replica las restricciones UNIQUE y ON DELETE CASCADE del esquema PostgreSQL; las transacciones
// se serializan con un mutex y trabajan sobre una copia que se publica solo en el commit.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/shop-api/internal/application/auth"
	"github.com/jhoicas/shop-api/internal/application/cart"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
)

var (
	_ auth.TxRunner = (*Store)(nil)
	_ cart.TxRunner = (*Store)(nil)
)

type state struct {
	users    map[string]entity.User
	profiles map[string]entity.Profile // por ID
	products map[string]entity.Product
	carts    map[string]entity.Cart // sin Items
	items    map[string]entity.CartItem
}

func newState() *state {
	return &state{
		users:    make(map[string]entity.User),
		profiles: make(map[string]entity.Profile),
		products: make(map[string]entity.Product),
		carts:    make(map[string]entity.Cart),
		items:    make(map[string]entity.CartItem),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

// Store almacén en memoria compartido por todos los repositorios.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// do ejecuta fn sobre el estado de la tx si existe; si no, sobre el estado global con lock.
func (s *Store) do(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// run serializa la transacción: trabaja sobre una copia y la publica solo si fn no falla.
func (s *Store) run(fn func(tx *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// RunIdentity implementa auth.TxRunner.
func (s *Store) RunIdentity(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
) error) error {
	return s.run(func(tx *state) error {
		return fn(&UserRepo{s: s, tx: tx}, &ProfileRepo{s: s, tx: tx})
	})
}

// RunCart implementa cart.TxRunner.
func (s *Store) RunCart(ctx context.Context, fn func(
	cartRepo repository.CartRepository,
	itemRepo repository.CartItemRepository,
) error) error {
	return s.run(func(tx *state) error {
		return fn(&CartRepo{s: s, tx: tx}, &CartItemRepo{s: s, tx: tx})
	})
}

// Users, Profiles, Products, Carts y CartItems devuelven repositorios fuera de transacción.
func (s *Store) Users() *UserRepo         { return &UserRepo{s: s} }
func (s *Store) Profiles() *ProfileRepo   { return &ProfileRepo{s: s} }
func (s *Store) Products() *ProductRepo   { return &ProductRepo{s: s} }
func (s *Store) Carts() *CartRepo         { return &CartRepo{s: s} }
func (s *Store) CartItems() *CartItemRepo { return &CartItemRepo{s: s} }

// DeleteProduct borra un producto y, en cascada, los ítems de carrito que lo referencian.
func (s *Store) DeleteProduct(id string) {
	_ = s.run(func(tx *state) error {
		delete(tx.products, id)
		for k, it := range tx.items {
			if it.ProductID == id {
				delete(tx.items, k)
			}
		}
		return nil
	})
}
