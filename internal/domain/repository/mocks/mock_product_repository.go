package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/shop-api/internal/domain/entity"
)

// MockProductRepository mock de repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListAvailable(ctx context.Context) ([]*entity.Product, error) {
	args := m.Called(ctx)
	if l := args.Get(0); l != nil {
		return l.([]*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	args := m.Called(ctx, id, quantity)
	if p := args.Get(0); p != nil {
		return p.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
