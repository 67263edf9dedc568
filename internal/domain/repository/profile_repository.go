package repository

import (
	"context"

	"github.com/jhoicas/shop-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	// GetByUserID devuelve el perfil con Username/Email del usuario, o (nil, nil).
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
}
