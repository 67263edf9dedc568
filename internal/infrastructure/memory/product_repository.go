package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	s  *Store
	tx *state
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.s.do(r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.Slug == product.Slug {
				return &domain.DuplicateError{Field: "slug"}
			}
			if sameCode(p.Barcode, product.Barcode) {
				return &domain.DuplicateError{Field: "barcode"}
			}
			if sameCode(p.SKU, product.SKU) {
				return &domain.DuplicateError{Field: "sku"}
			}
		}
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	_ = r.s.do(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, nil
}

func (r *ProductRepo) ListAvailable(ctx context.Context) ([]*entity.Product, error) {
	var list []*entity.Product
	_ = r.s.do(r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.IsAvailable {
				p := p
				list = append(list, &p)
			}
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (r *ProductRepo) DecrementStock(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.do(r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return nil
		}
		if p.StockQuantity < quantity {
			return fmt.Errorf("%w: %d available", domain.ErrInsufficientStock, p.StockQuantity)
		}
		p.StockQuantity -= quantity
		st.products[id] = p
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sameCode(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
