package cart

import (
	"context"

	"github.com/jhoicas/shop-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios del carrito atados a ella.
type TxRunner interface {
	RunCart(ctx context.Context, fn func(
		cartRepo repository.CartRepository,
		itemRepo repository.CartItemRepository,
	) error) error
}
