package dto

import "time"

// AddToCartRequest entrada para agregar un producto al carrito. Quantity nil => 1.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

// CartItemResponse línea del carrito con el producto expandido.
type CartItemResponse struct {
	ID       string          `json:"id"`
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal Money           `json:"subtotal"`
	AddedAt  time.Time       `json:"added_at"`
}

// CartResponse vista del carrito con totales calculados en lectura.
// ID y fechas se omiten cuando el cliente aún no tiene carrito.
type CartResponse struct {
	ID         string             `json:"id,omitempty"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice Money              `json:"total_price"`
	CreatedAt  *time.Time         `json:"created_at,omitempty"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty"`
}
