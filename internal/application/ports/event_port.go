package ports

import (
	"context"

	"github.com/jhoicas/shop-api/internal/domain/entity"
)

// CatalogEventPublisher publica cambios del catálogo hacia otros servicios.
// Se invoca después del commit; un error aquí no revierte la operación.
type CatalogEventPublisher interface {
	PublishProductCreated(ctx context.Context, product *entity.Product) error
	PublishStockReduced(ctx context.Context, product *entity.Product, quantity int) error
}

// NopPublisher descarta los eventos (sin brokers configurados).
type NopPublisher struct{}

func (NopPublisher) PublishProductCreated(context.Context, *entity.Product) error    { return nil }
func (NopPublisher) PublishStockReduced(context.Context, *entity.Product, int) error { return nil }
