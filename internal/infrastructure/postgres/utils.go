package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/shop-api/internal/domain"
)

// constraintFields traduce el nombre de la restricción UNIQUE al campo expuesto en la API.
var constraintFields = map[string]string{
	"users_username_key":          "username",
	"users_email_key":             "email",
	"profiles_user_id_key":        "user",
	"products_slug_key":           "slug",
	"products_barcode_key":        "barcode",
	"products_sku_key":            "sku",
	"carts_customer_id_key":       "customer",
	"cart_items_cart_product_key": "product",
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// duplicateError convierte una violación de unicidad en *domain.DuplicateError.
func duplicateError(err error) error {
	field := "unknown"
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if f, ok := constraintFields[pgErr.ConstraintName]; ok {
			field = f
		}
	}
	return &domain.DuplicateError{Field: field}
}
