package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyPurchaseOrder = errors.New("purchase order must contain at least one item")
	ErrPONotDraft         = errors.New("only draft purchase orders can be received")
)

// PurchaseItemInput is one inbound line on a new purchase order.
type PurchaseItemInput struct {
	ProductID uuid.UUID
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
	Tax       decimal.Decimal
}

// PurchaseService defines the interface for the purchasing workflow.
type PurchaseService interface {
	CreateOrder(ctx context.Context, vendorID uuid.UUID, items []PurchaseItemInput) (*domain.PurchaseOrder, error)
	ReceiveAndBill(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	ListOrders(ctx context.Context) ([]*domain.PurchaseOrder, error)
}

type purchaseService struct {
	db          *sql.DB
	poRepo      repository.PurchaseOrderRepository
	billRepo    repository.VendorBillRepository
	productRepo repository.ProductRepository
	contactRepo repository.ContactRepository
}

// NewPurchaseService creates a new instance of PurchaseService
func NewPurchaseService(
	db *sql.DB,
	poRepo repository.PurchaseOrderRepository,
	billRepo repository.VendorBillRepository,
	productRepo repository.ProductRepository,
	contactRepo repository.ContactRepository,
) PurchaseService {
	return &purchaseService{
		db:          db,
		poRepo:      poRepo,
		billRepo:    billRepo,
		productRepo: productRepo,
		contactRepo: contactRepo,
	}
}

// CreateOrder drafts a purchase order to a vendor. Line totals include tax;
// the order total is their sum.
func (s *purchaseService) CreateOrder(ctx context.Context, vendorID uuid.UUID, items []PurchaseItemInput) (*domain.PurchaseOrder, error) {
	if len(items) == 0 {
		return nil, ErrEmptyPurchaseOrder
	}

	if _, err := s.contactRepo.FindByID(ctx, vendorID); err != nil {
		return nil, err
	}

	po := &domain.PurchaseOrder{
		ID:          uuid.New(),
		OrderNumber: fmt.Sprintf("PO-%d", time.Now().UnixMilli()),
		VendorID:    vendorID,
		OrderDate:   time.Now(),
		Status:      domain.PurchaseOrderDraft,
		CreatedAt:   time.Now(),
	}

	total := decimal.Zero
	for _, item := range items {
		if _, err := s.productRepo.FindVariant(ctx, item.ProductID, item.SKU); err != nil {
			return nil, err
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		base := item.UnitPrice.Mul(qty)
		lineTotal := base.Add(base.Mul(item.Tax).Div(decimal.NewFromInt(100))).Round(2)
		total = total.Add(lineTotal)

		po.Items = append(po.Items, domain.PurchaseOrderItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Tax:       item.Tax,
			LineTotal: lineTotal,
		})
	}
	po.TotalAmount = total

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// ReceiveAndBill takes a draft purchase order, increments stock per line and
// raises a confirmed unpaid vendor bill, all in one transaction. The order
// progresses to billed and can never be received again.
func (s *purchaseService) ReceiveAndBill(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != domain.PurchaseOrderDraft {
		return nil, ErrPONotDraft
	}

	bill := &domain.VendorBill{
		ID:              uuid.New(),
		BillNumber:      fmt.Sprintf("BILL-%d", time.Now().UnixMilli()),
		PurchaseOrderID: &po.ID,
		VendorID:        po.VendorID,
		InvoiceDate:     time.Now(),
		DueDate:         time.Now().AddDate(0, 0, 30),
		TotalAmount:     po.TotalAmount,
		PaidAmount:      decimal.Zero,
		Status:          domain.BillingConfirmed,
		CreatedAt:       time.Now(),
	}
	for _, item := range po.Items {
		name := ""
		if product, err := s.productRepo.FindByID(ctx, item.ProductID); err == nil {
			name = product.Name
		}
		bill.Items = append(bill.Items, domain.BillingItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Tax:       item.Tax,
			LineTotal: item.LineTotal,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range po.Items {
		if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.SKU, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.billRepo.Create(ctx, tx, bill); err != nil {
		return nil, err
	}

	if err := s.poRepo.UpdateStatus(ctx, tx, po.ID, domain.PurchaseOrderBilled); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase receipt: %w", err)
	}

	return bill, nil
}

func (s *purchaseService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	return s.poRepo.FindByID(ctx, id)
}

func (s *purchaseService) ListOrders(ctx context.Context) ([]*domain.PurchaseOrder, error) {
	return s.poRepo.List(ctx)
}
