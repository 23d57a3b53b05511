package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/payments"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
)

// OrderItemInput is one checkout line. Price is a client fallback; the
// catalog is authoritative.
type OrderItemInput struct {
	ProductID uuid.UUID
	SKU       string
	Qty       int
	Price     decimal.Decimal
}

// PlaceOrderInput carries everything submitted at checkout.
type PlaceOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	CouponCode      string
}

// PlacedOrder is the checkout response: the unpaid order plus the gateway
// client secret the storefront uses to confirm the charge.
type PlacedOrder struct {
	Order        *domain.Order `json:"order"`
	ClientSecret string        `json:"client_secret"`
}

// OrderService defines the interface for the order workflow.
type OrderService interface {
	Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlacedOrder, error)
	VerifyPayment(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	MyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type orderService struct {
	db            *sql.DB
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	cartRepo      repository.CartRepository
	couponRepo    repository.CouponRepository
	invoiceRepo   repository.InvoiceRepository
	termRepo      repository.PaymentTermRepository
	contactRepo   repository.ContactRepository
	userRepo      repository.UserRepository
	discounts     DiscountService
	settings      SettingsService
	gateway       payments.Gateway
	shippingPrice decimal.Decimal
	logger        *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	db *sql.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	couponRepo repository.CouponRepository,
	invoiceRepo repository.InvoiceRepository,
	termRepo repository.PaymentTermRepository,
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
	discounts DiscountService,
	settings SettingsService,
	gateway payments.Gateway,
	shippingPrice decimal.Decimal,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		db:            db,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cartRepo:      cartRepo,
		couponRepo:    couponRepo,
		invoiceRepo:   invoiceRepo,
		termRepo:      termRepo,
		contactRepo:   contactRepo,
		userRepo:      userRepo,
		discounts:     discounts,
		settings:      settings,
		gateway:       gateway,
		shippingPrice: shippingPrice,
		logger:        logger,
	}
}

// Place creates an unpaid order and opens a payment intent for it. The order
// insert, stock decrements, coupon redemption and automatic invoice all
// commit in one transaction, so a failed line item leaves nothing behind.
func (s *orderService) Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlacedOrder, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ShippingPrice:   s.shippingPrice,
		CreatedAt:       time.Now(),
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = "stripe"
	}

	itemsPrice := decimal.Zero
	totalCost := decimal.Zero
	for _, line := range input.Items {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		variant, err := s.productRepo.FindVariant(ctx, line.ProductID, line.SKU)
		if err != nil {
			return nil, err
		}

		image := ""
		for _, img := range product.Images {
			if img.Color == variant.Color || image == "" {
				image = img.URL
			}
		}

		qty := decimal.NewFromInt(int64(line.Qty))
		itemsPrice = itemsPrice.Add(variant.SalesPrice.Mul(qty))

		// Cost basis: purchase price plus purchase tax, snapshotted so later
		// catalog changes don't rewrite historical margins.
		unitCost := variant.PurchasePrice.Add(
			variant.PurchasePrice.Mul(variant.PurchaseTax).Div(decimal.NewFromInt(100)))
		totalCost = totalCost.Add(unitCost.Mul(qty))

		order.Items = append(order.Items, domain.OrderItem{
			ProductID:     product.ID,
			SKU:           variant.SKU,
			Name:          product.Name,
			Image:         image,
			Price:         variant.SalesPrice,
			PurchasePrice: variant.PurchasePrice,
			PurchaseTax:   variant.PurchaseTax,
			Color:         variant.Color,
			Size:          variant.Size,
			Qty:           line.Qty,
		})
	}

	discountAmount := decimal.Zero
	var coupon *domain.Coupon
	if input.CouponCode != "" {
		validationItems := make([]ValidationItem, len(input.Items))
		for i, line := range input.Items {
			validationItems[i] = ValidationItem{
				ProductID: line.ProductID,
				SKU:       line.SKU,
				Qty:       line.Qty,
				Price:     line.Price,
			}
		}
		result, err := s.discounts.Validate(ctx, input.CouponCode, validationItems, userID)
		if err != nil {
			return nil, err
		}
		discountAmount = result.Discount
		coupon = result.Coupon
		order.CouponID = &coupon.ID
	}

	order.ItemsPrice = itemsPrice.Round(2)
	order.DiscountAmount = discountAmount
	order.TotalCost = totalCost.Round(2)
	order.TotalPrice = itemsPrice.Add(s.shippingPrice).Sub(discountAmount).Round(2)

	term, err := s.resolveDefaultTerm(ctx)
	if err != nil {
		return nil, err
	}
	order.PaymentTermID = term.ID
	order.PaymentTermsPreview = term.ExamplePreview

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.SKU, -item.Qty); err != nil {
			return nil, err
		}
	}

	if coupon != nil {
		if err := s.couponRepo.IncrementUsage(ctx, tx, coupon.ID); err != nil {
			return nil, err
		}
	}

	if s.settings.Get().AutomaticInvoicing {
		if err := s.createAutoInvoice(ctx, tx, user, order); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.Clear(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	intent, err := s.gateway.CreateIntent(ctx, order.TotalPrice, user.Email, order.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open payment intent: %w", err)
	}
	if err := s.orderRepo.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return nil, err
	}
	order.PaymentResult = &domain.PaymentResult{IntentID: intent.ID, Status: intent.Status}

	return &PlacedOrder{Order: order, ClientSecret: intent.ClientSecret}, nil
}

// createAutoInvoice mirrors the order onto a confirmed, unpaid customer
// invoice. A user without a linked contact just gets a warning in the logs;
// placement still succeeds.
func (s *orderService) createAutoInvoice(ctx context.Context, tx repository.Querier, user *domain.User, order *domain.Order) error {
	contact, err := s.contactRepo.FindByLinkedUser(ctx, user.ID)
	if err != nil {
		if err == repository.ErrContactNotFound {
			s.logger.Warn("automatic invoicing skipped: user has no linked contact",
				zap.String("user_id", user.ID.String()),
				zap.String("order_id", order.ID.String()),
			)
			return nil
		}
		return err
	}

	invoice := &domain.CustomerInvoice{
		ID:             uuid.New(),
		InvoiceNumber:  fmt.Sprintf("INV-%d", time.Now().UnixMilli()),
		CustomerID:     contact.ID,
		OrderID:        order.ID,
		InvoiceDate:    time.Now(),
		DueDate:        time.Now(),
		TotalAmount:    order.TotalPrice,
		DiscountAmount: order.DiscountAmount,
		PaidAmount:     decimal.Zero,
		Status:         domain.BillingConfirmed,
		CreatedAt:      time.Now(),
	}
	for _, item := range order.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
		invoice.Items = append(invoice.Items, domain.BillingItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Qty,
			UnitPrice: item.Price,
			LineTotal: lineTotal,
		})
	}

	return s.invoiceRepo.Create(ctx, tx, invoice)
}

// resolveDefaultTerm finds the "Immediate Payment" term, creating it on first
// use.
func (s *orderService) resolveDefaultTerm(ctx context.Context) (*domain.PaymentTerm, error) {
	term, err := s.termRepo.FindByName(ctx, domain.DefaultPaymentTermName)
	if err == nil {
		return term, nil
	}
	if err != repository.ErrPaymentTermNotFound {
		return nil, err
	}

	term = &domain.PaymentTerm{
		ID:          uuid.New(),
		Name:        domain.DefaultPaymentTermName,
		Computation: domain.ComputationTotalAmount,
		CreatedAt:   time.Now(),
	}
	term.ExamplePreview = RenderTermPreview(term)
	if err := s.termRepo.Create(ctx, term); err != nil {
		return nil, err
	}
	return term, nil
}

// reopenIntent creates and records a fresh payment intent for an order that
// lost its first one.
func (s *orderService) reopenIntent(ctx context.Context, order *domain.Order) error {
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return err
	}
	intent, err := s.gateway.CreateIntent(ctx, order.TotalPrice, user.Email, order.ID.String())
	if err != nil {
		return fmt.Errorf("failed to open payment intent: %w", err)
	}
	if err := s.orderRepo.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return err
	}
	order.PaymentResult = &domain.PaymentResult{IntentID: intent.ID, Status: intent.Status}
	s.logger.Warn("reopened missing payment intent",
		zap.String("order_id", order.ID.String()),
		zap.String("intent_id", intent.ID),
	)
	return nil
}

// VerifyPayment retrieves the intent from the gateway and flips the order to
// paid on success. Re-verifying an already-paid order is a no-op success.
func (s *orderService) VerifyPayment(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return order, nil
	}
	if order.PaymentResult == nil || order.PaymentResult.IntentID == "" {
		// A failure between the order commit and the intent creation leaves
		// the order without an intent. Reopen one here so the payment can
		// still be completed instead of the order being stuck unpaid.
		if err := s.reopenIntent(ctx, order); err != nil {
			return nil, err
		}
		return nil, ErrPaymentNotSucceeded
	}

	intent, err := s.gateway.GetIntent(ctx, order.PaymentResult.IntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}
	if !intent.Succeeded() {
		return nil, ErrPaymentNotSucceeded
	}

	paidAt := time.Now()
	result := &domain.PaymentResult{
		IntentID:     intent.ID,
		Status:       intent.Status,
		UpdateTime:   paidAt.Format(time.RFC3339),
		EmailAddress: intent.ReceiptEmail,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.MarkPaid(ctx, tx, order.ID, paidAt, result); err != nil {
		return nil, err
	}

	// Settle the automatic invoice, if one was raised for this order.
	invoice, err := s.invoiceRepo.FindByOrder(ctx, order.ID)
	if err == nil {
		if err := s.invoiceRepo.MarkPaid(ctx, tx, invoice.ID); err != nil {
			return nil, err
		}
	} else if err != repository.ErrInvoiceNotFound {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment verification: %w", err)
	}

	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentResult = result
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

func (s *orderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	deliveredAt := time.Now()
	if err := s.orderRepo.MarkDelivered(ctx, id, deliveredAt); err != nil {
		return nil, err
	}
	return s.orderRepo.FindByID(ctx, id)
}
