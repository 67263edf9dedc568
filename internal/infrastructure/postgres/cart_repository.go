package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
)

var (
	_ repository.CartRepository     = (*CartRepo)(nil)
	_ repository.CartItemRepository = (*CartItemRepo)(nil)
)

// CartRepo implementación de CartRepository sobre PostgreSQL (usable con pool o tx).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador de carritos. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetByCustomer obtiene el carrito del cliente con sus ítems y el producto de cada uno.
func (r *CartRepo) GetByCustomer(ctx context.Context, customerID string) (*entity.Cart, error) {
	var c entity.Cart
	err := r.q.QueryRow(ctx,
		`SELECT id, customer_id, created_at, updated_at FROM carts WHERE customer_id = $1`, customerID,
	).Scan(&c.ID, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.added_at,
		       p.id, p.owner_id, p.name, p.slug, p.description, p.price, p.stock_quantity,
		       p.barcode, p.sku, p.image, p.is_available, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at ASC, ci.id ASC`
	rows, err := r.q.Query(ctx, query, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.CartItem
		var p entity.Product
		if err := rows.Scan(
			&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt,
			&p.ID, &p.OwnerID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.StockQuantity,
			&p.Barcode, &p.SKU, &p.Image, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.Product = &p
		c.Items = append(c.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreate inserta el carrito si no existe (ON CONFLICT en customer_id) y lo relee.
// Dos peticiones concurrentes terminan viendo el mismo carrito.
func (r *CartRepo) GetOrCreate(ctx context.Context, cart *entity.Cart) (*entity.Cart, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO carts (id, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id) DO NOTHING`,
		cart.ID, cart.CustomerID, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	var c entity.Cart
	err = r.q.QueryRow(ctx,
		`SELECT id, customer_id, created_at, updated_at FROM carts WHERE customer_id = $1`, cart.CustomerID,
	).Scan(&c.ID, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// CartItemRepo implementación de CartItemRepository sobre PostgreSQL.
type CartItemRepo struct {
	q Querier
}

// NewCartItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewCartItemRepository(q Querier) *CartItemRepo {
	return &CartItemRepo{q: q}
}

// Get obtiene y bloquea (FOR UPDATE) el ítem de (cartID, productID).
func (r *CartItemRepo) Get(ctx context.Context, cartID, productID string) (*entity.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, added_at
		FROM cart_items WHERE cart_id = $1 AND product_id = $2
		FOR UPDATE`
	var it entity.CartItem
	err := r.q.QueryRow(ctx, query, cartID, productID).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &it, nil
}

// Create inserta el ítem; la restricción (cart_id, product_id) convierte una inserción
// concurrente en *domain.DuplicateError.
func (r *CartItemRepo) Create(ctx context.Context, item *entity.CartItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.CartID, item.ProductID, item.Quantity, item.AddedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateError(err)
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad del ítem.
func (r *CartItemRepo) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	_, err := r.q.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

// DeleteOwned borra el ítem solo si su carrito pertenece a customerID.
func (r *CartItemRepo) DeleteOwned(ctx context.Context, itemID, customerID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.customer_id = $2`,
		itemID, customerID,
	)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
