package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
)

var (
	_ repository.CartRepository     = (*CartRepo)(nil)
	_ repository.CartItemRepository = (*CartItemRepo)(nil)
)

// CartRepo implementación en memoria de repository.CartRepository.
type CartRepo struct {
	s  *Store
	tx *state
}

func (r *CartRepo) GetByCustomer(ctx context.Context, customerID string) (*entity.Cart, error) {
	var out *entity.Cart
	_ = r.s.do(r.tx, func(st *state) error {
		c, ok := cartOf(st, customerID)
		if !ok {
			return nil
		}
		for _, it := range st.items {
			if it.CartID != c.ID {
				continue
			}
			it := it
			p := st.products[it.ProductID]
			it.Product = &p
			c.Items = append(c.Items, &it)
		}
		sort.SliceStable(c.Items, func(i, j int) bool {
			if c.Items[i].AddedAt.Equal(c.Items[j].AddedAt) {
				return c.Items[i].ID < c.Items[j].ID
			}
			return c.Items[i].AddedAt.Before(c.Items[j].AddedAt)
		})
		out = &c
		return nil
	})
	return out, nil
}

func (r *CartRepo) GetOrCreate(ctx context.Context, cart *entity.Cart) (*entity.Cart, error) {
	var out *entity.Cart
	err := r.s.do(r.tx, func(st *state) error {
		if c, ok := cartOf(st, cart.CustomerID); ok {
			out = &c
			return nil
		}
		if _, ok := st.profiles[cart.CustomerID]; !ok {
			return domain.ErrProfileNotFound
		}
		c := *cart
		c.Items = nil
		st.carts[c.ID] = c
		out = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func cartOf(st *state, customerID string) (entity.Cart, bool) {
	for _, c := range st.carts {
		if c.CustomerID == customerID {
			return c, true
		}
	}
	return entity.Cart{}, false
}

// CartItemRepo implementación en memoria de repository.CartItemRepository.
type CartItemRepo struct {
	s  *Store
	tx *state
}

func (r *CartItemRepo) Get(ctx context.Context, cartID, productID string) (*entity.CartItem, error) {
	var out *entity.CartItem
	_ = r.s.do(r.tx, func(st *state) error {
		for _, it := range st.items {
			if it.CartID == cartID && it.ProductID == productID {
				it := it
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *CartItemRepo) Create(ctx context.Context, item *entity.CartItem) error {
	return r.s.do(r.tx, func(st *state) error {
		for _, it := range st.items {
			if it.CartID == item.CartID && it.ProductID == item.ProductID {
				return &domain.DuplicateError{Field: "product"}
			}
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return domain.ErrNotFound
		}
		i := *item
		i.Product = nil
		st.items[i.ID] = i
		return nil
	})
}

func (r *CartItemRepo) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	return r.s.do(r.tx, func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return domain.ErrNotFound
		}
		if quantity < 1 {
			return domain.ErrInvalidInput
		}
		it.Quantity = quantity
		st.items[itemID] = it
		return nil
	})
}

func (r *CartItemRepo) DeleteOwned(ctx context.Context, itemID, customerID string) (bool, error) {
	var deleted bool
	_ = r.s.do(r.tx, func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return nil
		}
		c, ok := st.carts[it.CartID]
		if !ok || c.CustomerID != customerID {
			return nil
		}
		delete(st.items, itemID)
		deleted = true
		return nil
	})
	return deleted, nil
}
