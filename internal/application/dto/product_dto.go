package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Slug es opcional (se deriva de Name).
type CreateProductRequest struct {
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	Barcode       string           `json:"barcode"`
	SKU           string           `json:"sku"`
	Image         string           `json:"image"`
	IsAvailable   *bool            `json:"is_available"`
}

// ReduceStockRequest entrada para descontar stock.
type ReduceStockRequest struct {
	Quantity int `json:"quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Price         Money     `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Barcode       *string   `json:"barcode"`
	SKU           *string   `json:"sku"`
	Image         *string   `json:"image"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductCreatedResponse salida de POST /products/add.
type ProductCreatedResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

// StockUpdatedResponse salida de POST /products/:id/reduce-stock.
type StockUpdatedResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}
