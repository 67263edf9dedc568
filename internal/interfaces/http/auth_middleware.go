package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/pkg/logger"
)

// LocalProfile clave de c.Locals con el *entity.Profile autenticado.
const LocalProfile = "profile"

// Authorizer resuelve un token a un perfil con el rol pedido (auth.AuthUseCase lo implementa).
type Authorizer interface {
	Authorize(ctx context.Context, token, requiredRole string) (*entity.Profile, error)
}

// RequireProfile valida el Bearer Token, resuelve el perfil con su rol actual en la base
// y lo deja en c.Locals. role vacío acepta cualquier rol.
func RequireProfile(authz Authorizer, role string, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return writeError(c, log, domain.ErrUnauthorized)
		}
		profile, err := authz.Authorize(c.UserContext(), token, role)
		if err != nil {
			return writeError(c, log, err)
		}
		c.Locals(LocalProfile, profile)
		return c.Next()
	}
}

// bearerToken extrae el token de "Bearer <token>".
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetProfile devuelve el perfil del contexto (después de RequireProfile).
func GetProfile(c *fiber.Ctx) *entity.Profile {
	p, _ := c.Locals(LocalProfile).(*entity.Profile)
	return p
}
