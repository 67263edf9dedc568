package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart es el carrito de un cliente (uno por Profile customer).
type Cart struct {
	ID         string
	CustomerID string
	Items      []*CartItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartItem es una línea del carrito. Único por (CartID, ProductID).
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Product   *Product // cargado en lecturas
	Quantity  int
	AddedAt   time.Time
}

// Subtotal = Quantity × precio unitario actual del producto.
func (i *CartItem) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalItems cuenta líneas, no unidades.
func (c *Cart) TotalItems() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// TotalPrice se calcula en lectura; no se almacena.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
