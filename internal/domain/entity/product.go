package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo, propiedad de un Profile con rol owner.
// Barcode, SKU e Image son opcionales (NULL en la base).
type Product struct {
	ID            string
	OwnerID       string
	Name          string
	Slug          string // único en todo el catálogo
	Description   string
	Price         decimal.Decimal // NUMERIC(12,2), >= 0.01
	StockQuantity int
	Barcode       *string
	SKU           *string
	Image         *string
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
