package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/shop-api/internal/application/catalog"
	"github.com/jhoicas/shop-api/internal/application/dto"
	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
	"github.com/jhoicas/shop-api/pkg/logger"
)

// maxConflictRetries veces que se repite la transacción cuando otra petición insertó
// el mismo ítem (cart_id, product_id) entre la lectura y el INSERT.
const maxConflictRetries = 3

// maxQuantity tope de cantidad por ítem (columna INTEGER).
const maxQuantity = math.MaxInt32

// CartUseCase casos de uso del carrito: agregar, consultar y quitar ítems.
type CartUseCase struct {
	txRunner    TxRunner
	cartRepo    repository.CartRepository
	itemRepo    repository.CartItemRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(
	txRunner TxRunner,
	cartRepo repository.CartRepository,
	itemRepo repository.CartItemRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *CartUseCase {
	return &CartUseCase{
		txRunner:    txRunner,
		cartRepo:    cartRepo,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		log:         log.Named("cart"),
	}
}

// AddToCart agrega quantity unidades de un producto al carrito del cliente.
// El carrito se crea en el primer uso; si el producto ya está en el carrito se suma
// la cantidad (no se reemplaza). No se valida contra el stock del producto.
func (uc *CartUseCase) AddToCart(ctx context.Context, customer *entity.Profile, in dto.AddToCartRequest) (*dto.CartResponse, error) {
	if !customer.IsCustomer() {
		return nil, domain.ErrForbidden
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	verr := &domain.ValidationError{}
	if in.ProductID == "" {
		verr.Add("product_id", "This field is required.")
	} else if _, err := uuid.Parse(in.ProductID); err != nil {
		verr.Add("product_id", fmt.Sprintf("Invalid pk %q - object does not exist.", in.ProductID))
	}
	switch {
	case quantity < 1:
		verr.Add("quantity", "Ensure this value is greater than or equal to 1.")
	case quantity > maxQuantity:
		verr.Add("quantity", fmt.Sprintf("Ensure this value is less than or equal to %d.", maxQuantity))
	}
	if verr.HasErrors() {
		return nil, verr
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	for attempt := 1; ; attempt++ {
		err = uc.txRunner.RunCart(ctx, func(cartRepo repository.CartRepository, itemRepo repository.CartItemRepository) error {
			return addItem(ctx, cartRepo, itemRepo, customer.ID, product.ID, quantity)
		})
		if err == nil || !errors.Is(err, domain.ErrDuplicate) || attempt >= maxConflictRetries {
			break
		}
		uc.log.Debug().Err(err).Int("attempt", attempt).Str("customer_id", customer.ID).Msg("conflicto de unicidad en carrito, reintentando")
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: cart item", domain.ErrConflict)
		}
		return nil, err
	}
	return uc.GetCart(ctx, customer)
}

func addItem(ctx context.Context, cartRepo repository.CartRepository, itemRepo repository.CartItemRepository, customerID, productID string, quantity int) error {
	now := time.Now()
	cart, err := cartRepo.GetOrCreate(ctx, &entity.Cart{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return err
	}
	item, err := itemRepo.Get(ctx, cart.ID, productID)
	if err != nil {
		return err
	}
	if item == nil {
		return itemRepo.Create(ctx, &entity.CartItem{
			ID:        uuid.New().String(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   now,
		})
	}
	// quantity ya está acotado, la resta no desborda.
	if item.Quantity > maxQuantity-quantity {
		return domain.NewValidationError("quantity",
			fmt.Sprintf("Cart quantity cannot exceed %d (currently %d).", maxQuantity, item.Quantity))
	}
	return itemRepo.UpdateQuantity(ctx, item.ID, item.Quantity+quantity)
}

// GetCart devuelve la vista del carrito. Sin carrito devuelve una vista vacía, no un error.
func (uc *CartUseCase) GetCart(ctx context.Context, profile *entity.Profile) (*dto.CartResponse, error) {
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	cart, err := uc.cartRepo.GetByCustomer(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(cart), nil
}

// RemoveItem borra un ítem del carrito del cliente. Un ítem inexistente o de otro
// cliente devuelve domain.ErrNotFound.
func (uc *CartUseCase) RemoveItem(ctx context.Context, customer *entity.Profile, itemID string) error {
	if !customer.IsCustomer() {
		return domain.ErrForbidden
	}
	if _, err := uuid.Parse(itemID); err != nil {
		return domain.ErrNotFound
	}
	deleted, err := uc.itemRepo.DeleteOwned(ctx, itemID, customer.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func toCartResponse(c *entity.Cart) *dto.CartResponse {
	out := &dto.CartResponse{
		Items:      make([]dto.CartItemResponse, 0),
		TotalItems: c.TotalItems(),
		TotalPrice: dto.NewMoney(c.TotalPrice()),
	}
	if c == nil {
		return out
	}
	out.ID = c.ID
	out.CreatedAt = &c.CreatedAt
	out.UpdatedAt = &c.UpdatedAt
	for _, it := range c.Items {
		out.Items = append(out.Items, dto.CartItemResponse{
			ID:       it.ID,
			Product:  *catalog.ToProductResponse(it.Product),
			Quantity: it.Quantity,
			Subtotal: dto.NewMoney(it.Subtotal()),
			AddedAt:  it.AddedAt,
		})
	}
	return out
}
