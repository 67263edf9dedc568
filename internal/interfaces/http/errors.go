package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-api/internal/application/dto"
	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/pkg/logger"
)

// Códigos de error expuestos en ErrorResponse.Code.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeValidation        = "VALIDATION_ERROR"
	CodeAuthentication    = "AUTHENTICATION_FAILED"
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInternal          = "INTERNAL"
)

// writeError traduce un error de dominio a status + ErrorResponse.
// Lo que no es un error conocido se registra y se responde como 500 sin filtrar el detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var verr *domain.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:   CodeValidation,
			Detail: "Invalid input.",
			Errors: verr.Fields,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrAuthentication):
		return respond(c, fiber.StatusBadRequest, CodeAuthentication, "Invalid username or password.")
	case errors.Is(err, domain.ErrProfileNotFound):
		return respond(c, fiber.StatusBadRequest, CodeProfileNotFound, "User profile not found.")
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, CodeUnauthorized, "Authentication credentials were not provided or are invalid.")
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, CodeForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, CodeNotFound, "Not found.")
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusConflict, CodeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, CodeConflict, err.Error())
	case errors.As(err, &ferr):
		return respond(c, ferr.Code, statusCode(ferr.Code), ferr.Message)
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("error interno")
	return respond(c, fiber.StatusInternalServerError, CodeInternal, "Internal server error.")
}

func respond(c *fiber.Ctx, status int, code, detail string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Detail: detail})
}

func invalidBody(c *fiber.Ctx) error {
	return respond(c, fiber.StatusBadRequest, CodeInvalidBody, "Malformed request body.")
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return CodeInvalidBody
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	default:
		if status >= fiber.StatusInternalServerError {
			return CodeInternal
		}
		return "HTTP_ERROR"
	}
}
