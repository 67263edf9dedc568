package repository

import (
	"context"

	"github.com/jhoicas/shop-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create devuelve *domain.DuplicateError (Field slug|barcode|sku) ante violación de unicidad.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// ListAvailable lista productos con IsAvailable, ordenados por nombre ascendente.
	ListAvailable(ctx context.Context) ([]*entity.Product, error)
	// DecrementStock resta quantity solo si hay stock suficiente y actualiza únicamente
	// stock_quantity. (nil, nil) si no existe; domain.ErrInsufficientStock si no alcanza.
	DecrementStock(ctx context.Context, id string, quantity int) (*entity.Product, error)
}
