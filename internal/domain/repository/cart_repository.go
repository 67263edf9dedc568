package repository

import (
	"context"

	"github.com/jhoicas/shop-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para Cart.
type CartRepository interface {
	// GetByCustomer devuelve el carrito con sus ítems y productos, o (nil, nil) si no existe.
	GetByCustomer(ctx context.Context, customerID string) (*entity.Cart, error)
	// GetOrCreate inserta cart si el cliente no tiene uno (unicidad en customer_id)
	// y devuelve el carrito persistido, sin ítems.
	GetOrCreate(ctx context.Context, cart *entity.Cart) (*entity.Cart, error)
}

// CartItemRepository define el puerto de persistencia para CartItem.
type CartItemRepository interface {
	// Get devuelve el ítem de (cartID, productID) o (nil, nil).
	Get(ctx context.Context, cartID, productID string) (*entity.CartItem, error)
	// Create devuelve *domain.DuplicateError si ya existe un ítem para (cart, product).
	Create(ctx context.Context, item *entity.CartItem) error
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	// DeleteOwned borra el ítem solo si pertenece al carrito de customerID.
	DeleteOwned(ctx context.Context, itemID, customerID string) (bool, error)
}
