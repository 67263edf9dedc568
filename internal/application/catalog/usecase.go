package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-api/internal/application/dto"
	"github.com/jhoicas/shop-api/internal/application/ports"
	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
	"github.com/jhoicas/shop-api/pkg/logger"
	"github.com/jhoicas/shop-api/pkg/slug"
)

// maxSlugAttempts intentos de slug derivado (base, base-2, …) antes de rendirse con ErrConflict.
const maxSlugAttempts = 20

const (
	maxNameLength  = 200
	maxCodeLength  = 50
	maxImageLength = 100
)

var (
	minPrice = decimal.New(1, -2) // 0.01
	maxPrice = decimal.New(1, 10) // NUMERIC(12,2): 10 dígitos enteros
)

// CatalogUseCase casos de uso del catálogo: alta de productos, listado y descuento de stock.
type CatalogUseCase struct {
	repo   repository.ProductRepository
	events ports.CatalogEventPublisher
	log    *logger.Logger
}

// NewCatalogUseCase construye el caso de uso. events puede ser ports.NopPublisher{}.
func NewCatalogUseCase(repo repository.ProductRepository, events ports.CatalogEventPublisher, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, events: events, log: log.Named("catalog")}
}

// CreateProduct crea un producto para owner. Si no se envía slug se deriva del nombre y,
// ante colisión, se prueba base-2, base-3, … confiando en la restricción UNIQUE de la base.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, owner *entity.Profile, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !owner.IsOwner() {
		return nil, domain.ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Image = strings.TrimSpace(in.Image)

	base := in.Slug
	if base == "" {
		base = slug.Make(in.Name)
	}
	if err := validateProduct(in, base); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		OwnerID:       owner.ID,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price.Round(2),
		StockQuantity: in.StockQuantity,
		Barcode:       optional(in.Barcode),
		SKU:           optional(in.SKU),
		Image:         optional(in.Image),
		IsAvailable:   in.IsAvailable == nil || *in.IsAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	attempts := maxSlugAttempts
	if in.Slug != "" {
		attempts = 1
	}
	if err := uc.createWithSlug(ctx, product, base, attempts); err != nil {
		return nil, err
	}

	uc.log.Info().Str("product_id", product.ID).Str("slug", product.Slug).Str("owner_id", owner.ID).Msg("producto creado")
	if err := uc.events.PublishProductCreated(ctx, product); err != nil {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("publicar product.created")
	}
	return ToProductResponse(product), nil
}

func (uc *CatalogUseCase) createWithSlug(ctx context.Context, product *entity.Product, base string, attempts int) error {
	for i := 1; i <= attempts; i++ {
		product.Slug = base
		if i > 1 {
			product.Slug = slug.WithSuffix(base, i)
		}
		err := uc.repo.Create(ctx, product)
		if err == nil {
			return nil
		}
		var dup *domain.DuplicateError
		if !errors.As(err, &dup) {
			return err
		}
		switch dup.Field {
		case "slug":
			uc.log.Debug().Str("slug", product.Slug).Msg("slug en uso, reintentando")
			continue
		case "barcode", "sku":
			return domain.NewValidationError(dup.Field, fmt.Sprintf("product with this %s already exists.", dup.Field))
		default:
			return domain.ErrConflict
		}
	}
	return fmt.Errorf("%w: slug %q already in use", domain.ErrConflict, base)
}

// ListAvailableProducts lista productos disponibles ordenados por nombre. Nunca devuelve nil.
func (uc *CatalogUseCase) ListAvailableProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items, nil
}

// ReduceStock descuenta quantity del stock del producto de forma atómica.
// Si no alcanza devuelve domain.ErrInsufficientStock y el stock queda igual.
func (uc *CatalogUseCase) ReduceStock(ctx context.Context, productID string, quantity int) (*dto.ProductResponse, error) {
	switch {
	case quantity < 1:
		return nil, domain.NewValidationError("quantity", "Ensure this value is greater than or equal to 1.")
	case quantity > math.MaxInt32:
		return nil, domain.NewValidationError("quantity", fmt.Sprintf("Ensure this value is less than or equal to %d.", math.MaxInt32))
	}
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.events.PublishStockReduced(ctx, product, quantity); err != nil {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("publicar product.stock_reduced")
	}
	return ToProductResponse(product), nil
}

// ReduceOwnedStock igual que ReduceStock pero exige que owner sea dueño del producto.
// Un producto ajeno se reporta como inexistente.
func (uc *CatalogUseCase) ReduceOwnedStock(ctx context.Context, owner *entity.Profile, productID string, quantity int) (*dto.ProductResponse, error) {
	if !owner.IsOwner() {
		return nil, domain.ErrForbidden
	}
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OwnerID != owner.ID {
		return nil, domain.ErrNotFound
	}
	return uc.ReduceStock(ctx, productID, quantity)
}

func validateProduct(in dto.CreateProductRequest, slugValue string) error {
	verr := &domain.ValidationError{}
	switch {
	case in.Name == "":
		verr.Add("name", "This field is required.")
	case utf8.RuneCountInString(in.Name) > maxNameLength:
		verr.Add("name", "Ensure this field has no more than 200 characters.")
	case in.Slug == "" && slugValue == "":
		verr.Add("name", "Name must contain at least one letter or digit.")
	}
	if in.Slug != "" && !slug.Valid(in.Slug) {
		verr.Add("slug", `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`)
	}
	switch {
	case in.Price == nil:
		verr.Add("price", "This field is required.")
	case !in.Price.GreaterThan(decimal.Zero):
		verr.Add("price", "Price must be greater than zero.")
	case in.Price.LessThan(minPrice):
		verr.Add("price", "Ensure this value is greater than or equal to 0.01.")
	case !in.Price.Equal(in.Price.Round(2)):
		verr.Add("price", "Ensure that there are no more than 2 decimal places.")
	case !in.Price.LessThan(maxPrice):
		verr.Add("price", "Ensure that there are no more than 10 digits before the decimal point.")
	}
	switch {
	case in.StockQuantity < 0:
		verr.Add("stock_quantity", "Stock cannot be negative.")
	case in.StockQuantity > math.MaxInt32:
		verr.Add("stock_quantity", fmt.Sprintf("Ensure this value is less than or equal to %d.", math.MaxInt32))
	}
	if utf8.RuneCountInString(in.Barcode) > maxCodeLength {
		verr.Add("barcode", "Ensure this field has no more than 50 characters.")
	}
	if utf8.RuneCountInString(in.SKU) > maxCodeLength {
		verr.Add("sku", "Ensure this field has no more than 50 characters.")
	}
	if utf8.RuneCountInString(in.Image) > maxImageLength {
		verr.Add("image", "Ensure this filename has at most 100 characters.")
	}
	return verr.OrNil()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToProductResponse mapea la entidad a su representación JSON.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         dto.NewMoney(p.Price),
		StockQuantity: p.StockQuantity,
		Barcode:       p.Barcode,
		SKU:           p.SKU,
		Image:         p.Image,
		IsAvailable:   p.IsAvailable,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
