package auth

import (
	"context"

	"github.com/jhoicas/shop-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios de identidad atados a ella.
// Garantiza que User y Profile se creen juntos o ninguno.
type TxRunner interface {
	RunIdentity(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		profileRepo repository.ProfileRepository,
	) error) error
}
