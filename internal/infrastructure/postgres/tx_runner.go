package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/shop-api/internal/application/auth"
	"github.com/jhoicas/shop-api/internal/application/cart"
	"github.com/jhoicas/shop-api/internal/domain/repository"
)

// Ensure TxRunner implements auth.TxRunner and cart.TxRunner.
var (
	_ auth.TxRunner = (*TxRunner)(nil)
	_ cart.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunIdentity inicia una transacción con repos de usuario y perfil (registro atómico).
func (r *TxRunner) RunIdentity(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewUserRepository(q), NewProfileRepository(q))
	})
}

// RunCart inicia una transacción con repos de carrito e ítems.
func (r *TxRunner) RunCart(ctx context.Context, fn func(
	cartRepo repository.CartRepository,
	itemRepo repository.CartItemRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewCartRepository(q), NewCartItemRepository(q))
	})
}

// inTx hace Commit si fn no falla y Rollback en cualquier otro caso.
func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
