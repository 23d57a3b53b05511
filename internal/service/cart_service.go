package service

import (
	"context"
	"errors"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrItemNotInCart  = errors.New("item not in cart")
	ErrInvalidQty     = errors.New("quantity must be positive")
	ErrVariantNoStock = errors.New("variant is out of stock")
)

// CartService defines the interface for cart business logic.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, sku string, qty int) (*domain.Cart, error)
	SetItemQty(ctx context.Context, userID uuid.UUID, sku string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, sku string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          repository.Querier
}

// NewCartService creates a new instance of CartService
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db repository.Querier,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// GetCart returns the user's cart; an absent cart is an empty cart, not an
// error.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return emptyCart(userID), nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem upserts a line for the variant. Quantity accumulates for a SKU
// already in the cart and is capped at the stock snapshotted from the
// catalog.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, sku string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, ErrInvalidQty
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	variant, err := s.productRepo.FindVariant(ctx, productID, sku)
	if err != nil {
		return nil, err
	}
	if variant.Stock <= 0 {
		return nil, ErrVariantNoStock
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	image := ""
	for _, img := range product.Images {
		if img.Color == variant.Color || image == "" {
			image = img.URL
		}
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].SKU == sku {
			cart.Items[i].Qty += qty
			if cart.Items[i].Qty > cart.Items[i].MaxStock {
				cart.Items[i].Qty = cart.Items[i].MaxStock
			}
			found = true
			break
		}
	}
	if !found {
		if qty > variant.Stock {
			qty = variant.Stock
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			SKU:       sku,
			Name:      product.Name,
			Image:     image,
			Price:     variant.SalesPrice,
			Color:     variant.Color,
			Size:      variant.Size,
			Qty:       qty,
			MaxStock:  variant.Stock,
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetItemQty overwrites the quantity of a line already in the cart, capped at
// the snapshotted maxStock.
func (s *cartService) SetItemQty(ctx context.Context, userID uuid.UUID, sku string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, ErrInvalidQty
	}

	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return nil, ErrItemNotInCart
		}
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].SKU == sku {
			if qty > cart.Items[i].MaxStock {
				qty = cart.Items[i].MaxStock
			}
			cart.Items[i].Qty = qty
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotInCart
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a line by SKU. Removing an absent SKU is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, sku string) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return emptyCart(userID), nil
		}
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.SKU != sku {
			items = append(items, item)
		}
	}
	cart.Items = items

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the cart entirely.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, s.db, userID)
}

func emptyCart(userID uuid.UUID) *domain.Cart {
	return &domain.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
