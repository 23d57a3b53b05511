package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponUsageReached  = errors.New("coupon usage limit has been reached")
	ErrCouponNotApplicable = errors.New("coupon is not applicable to any items in the cart")
	ErrCartBelowMinimum    = errors.New("cart total is below the coupon's minimum cart value")
	ErrCouponContactLock   = errors.New("coupon is reserved for another customer")
	ErrOfferNotStarted     = errors.New("offer is not active yet")
	ErrOfferEnded          = errors.New("offer has ended")
	ErrOfferSalesOnly      = errors.New("coupon can only be redeemed through the sales channel")
	ErrNotFirstTimeBuyer   = errors.New("coupon is for first-time buyers only")
)

// ValidationItem is one cart line submitted for coupon validation. Price is a
// client-side fallback only; the authoritative price comes from the catalog.
type ValidationItem struct {
	ProductID uuid.UUID
	SKU       string
	Qty       int
	Price     decimal.Decimal
}

// DiscountResult is the outcome of a successful validation.
type DiscountResult struct {
	Coupon           *domain.Coupon  `json:"coupon"`
	CartTotal        decimal.Decimal `json:"cart_total"`
	EligibleSubtotal decimal.Decimal `json:"eligible_subtotal"`
	Discount         decimal.Decimal `json:"calculated_discount"`
}

// DiscountService defines the interface for the discount engine and the admin
// CRUD around offers and coupons.
type DiscountService interface {
	Validate(ctx context.Context, code string, items []ValidationItem, userID uuid.UUID) (*DiscountResult, error)

	CreateOffer(ctx context.Context, offer *domain.DiscountOffer) error
	UpdateOffer(ctx context.Context, offer *domain.DiscountOffer) error
	DeleteOffer(ctx context.Context, id uuid.UUID) error
	GetOffer(ctx context.Context, id uuid.UUID) (*domain.DiscountOffer, error)
	ListOffers(ctx context.Context) ([]*domain.DiscountOffer, error)

	CreateCoupon(ctx context.Context, coupon *domain.Coupon) error
	UpdateCoupon(ctx context.Context, coupon *domain.Coupon) error
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
	GetCoupon(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]*domain.Coupon, error)
}

type discountService struct {
	couponRepo  repository.CouponRepository
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
}

// NewDiscountService creates a new instance of DiscountService
func NewDiscountService(
	couponRepo repository.CouponRepository,
	offerRepo repository.OfferRepository,
	productRepo repository.ProductRepository,
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
) DiscountService {
	return &discountService{
		couponRepo:  couponRepo,
		offerRepo:   offerRepo,
		productRepo: productRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
	}
}

// NormalizeCode maps user input to the canonical coupon code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate evaluates a coupon code against a cart snapshot. It is
// side-effect free: the usage count is only incremented at order placement,
// so a customer can preview the discount repeatedly.
func (s *discountService) Validate(ctx context.Context, code string, items []ValidationItem, userID uuid.UUID) (*DiscountResult, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if coupon.ExpiryDate.Before(now) {
		return nil, ErrCouponExpired
	}
	if coupon.Exhausted() {
		return nil, ErrCouponUsageReached
	}

	// Authoritative prices come from the catalog. The client price is only a
	// fallback for a matched product whose variant row is missing.
	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ruleSet := make(map[uuid.UUID]bool, len(coupon.ApplicableRules))
	for _, ruleID := range coupon.ApplicableRules {
		ruleSet[ruleID] = true
	}

	cartTotal := decimal.Zero
	eligibleSubtotal := decimal.Zero
	for _, item := range items {
		// Lines that don't resolve to a catalog product are dropped entirely:
		// counting them would let a client spoof prices into the cart total.
		product := byID[item.ProductID]
		if product == nil {
			continue
		}

		price := item.Price
		for _, v := range product.Variants {
			if v.SKU == item.SKU {
				price = v.SalesPrice
				break
			}
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Qty)))
		cartTotal = cartTotal.Add(lineTotal)

		if len(ruleSet) == 0 || productMatchesRules(product, ruleSet) {
			eligibleSubtotal = eligibleSubtotal.Add(lineTotal)
		}
	}

	if eligibleSubtotal.IsZero() {
		return nil, ErrCouponNotApplicable
	}
	if cartTotal.LessThan(coupon.MinCartValue) {
		return nil, ErrCartBelowMinimum
	}

	if coupon.ContactID != nil {
		contact, err := s.contactRepo.FindByLinkedUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrContactNotFound) {
				return nil, ErrCouponContactLock
			}
			return nil, err
		}
		if contact.ID != *coupon.ContactID {
			return nil, ErrCouponContactLock
		}
	}

	if coupon.IsFirstTimeBuyer {
		paidOrders, err := s.userRepo.CountPaidOrders(ctx, userID)
		if err != nil {
			return nil, err
		}
		if paidOrders > 0 {
			return nil, ErrNotFirstTimeBuyer
		}
	}

	offer := coupon.Offer
	if offer.StartDate.After(now) {
		return nil, ErrOfferNotStarted
	}
	if offer.EndDate.Before(now) {
		return nil, ErrOfferEnded
	}
	if offer.AvailableOn == domain.OfferChannelSales {
		return nil, ErrOfferSalesOnly
	}

	discount := computeDiscount(offer, eligibleSubtotal)

	return &DiscountResult{
		Coupon:           coupon,
		CartTotal:        cartTotal,
		EligibleSubtotal: eligibleSubtotal,
		Discount:         discount,
	}, nil
}

// productMatchesRules reports whether any of the product's facet ids appears
// in the coupon's rule set (OR across category, brand, style, type).
func productMatchesRules(product *domain.Product, ruleSet map[uuid.UUID]bool) bool {
	if product == nil {
		return false
	}
	if ruleSet[product.CategoryID] {
		return true
	}
	if product.BrandID != nil && ruleSet[*product.BrandID] {
		return true
	}
	if product.StyleID != nil && ruleSet[*product.StyleID] {
		return true
	}
	if product.TypeID != nil && ruleSet[*product.TypeID] {
		return true
	}
	return false
}

// computeDiscount applies the offer's monetary rule to the eligible subtotal.
// A flat discount never exceeds what it applies to.
func computeDiscount(offer *domain.DiscountOffer, eligibleSubtotal decimal.Decimal) decimal.Decimal {
	if offer.DiscountType == domain.DiscountPercentage {
		return eligibleSubtotal.Mul(offer.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	}

	if offer.DiscountValue.GreaterThan(eligibleSubtotal) {
		return eligibleSubtotal
	}
	return offer.DiscountValue
}

func (s *discountService) CreateOffer(ctx context.Context, offer *domain.DiscountOffer) error {
	offer.ID = uuid.New()
	offer.CreatedAt = time.Now()
	if offer.AvailableOn == "" {
		offer.AvailableOn = domain.OfferChannelBoth
	}
	return s.offerRepo.Create(ctx, offer)
}

func (s *discountService) UpdateOffer(ctx context.Context, offer *domain.DiscountOffer) error {
	return s.offerRepo.Update(ctx, offer)
}

func (s *discountService) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	return s.offerRepo.Delete(ctx, id)
}

func (s *discountService) GetOffer(ctx context.Context, id uuid.UUID) (*domain.DiscountOffer, error) {
	return s.offerRepo.FindByID(ctx, id)
}

func (s *discountService) ListOffers(ctx context.Context) ([]*domain.DiscountOffer, error) {
	return s.offerRepo.List(ctx)
}

func (s *discountService) CreateCoupon(ctx context.Context, coupon *domain.Coupon) error {
	if _, err := s.offerRepo.FindByID(ctx, coupon.OfferID); err != nil {
		return err
	}

	coupon.ID = uuid.New()
	coupon.Code = NormalizeCode(coupon.Code)
	coupon.UsedCount = 0
	coupon.Status = domain.CouponUnused
	coupon.CreatedAt = time.Now()
	return s.couponRepo.Create(ctx, coupon)
}

func (s *discountService) UpdateCoupon(ctx context.Context, coupon *domain.Coupon) error {
	coupon.Code = NormalizeCode(coupon.Code)
	return s.couponRepo.Update(ctx, coupon)
}

func (s *discountService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	return s.couponRepo.Delete(ctx, id)
}

func (s *discountService) GetCoupon(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	return s.couponRepo.FindByID(ctx, id)
}

func (s *discountService) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	return s.couponRepo.List(ctx)
}
