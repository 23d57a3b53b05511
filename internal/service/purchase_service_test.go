package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type purchaseFixture struct {
	svc      PurchaseService
	orders   *mockPurchaseOrderRepository
	bills    *mockVendorBillRepository
	products *mockProductRepository
	vendor   *domain.Contact
}

func newPurchaseFixture(products ...*domain.Product) *purchaseFixture {
	vendor := &domain.Contact{
		ID:   uuid.New(),
		Name: "Acme Textiles",
		Type: domain.ContactVendor,
	}
	f := &purchaseFixture{
		orders:   newMockPurchaseOrderRepository(),
		bills:    newMockVendorBillRepository(),
		products: newMockProductRepository(products...),
		vendor:   vendor,
	}
	f.svc = NewPurchaseService(newStubDB(), f.orders, f.bills, f.products, newMockContactRepository(vendor))
	return f
}

func TestCreatePurchaseOrder(t *testing.T) {
	product := testProduct("Hoodie", uuid.New(), "HDY-01", 100, 5)
	f := newPurchaseFixture(product)

	po, err := f.svc.CreateOrder(context.Background(), f.vendor.ID, []PurchaseItemInput{
		{
			ProductID: product.ID,
			SKU:       "HDY-01",
			Quantity:  10,
			UnitPrice: decimal.NewFromInt(40),
			Tax:       decimal.NewFromInt(5),
		},
	})
	if err != nil {
		t.Fatalf("expected draft to succeed, got %v", err)
	}

	if po.Status != domain.PurchaseOrderDraft {
		t.Errorf("expected draft status, got %q", po.Status)
	}
	if !strings.HasPrefix(po.OrderNumber, "PO-") {
		t.Errorf("expected PO- prefixed order number, got %q", po.OrderNumber)
	}
	// 10 * 40 = 400 base, + 5% tax = 420
	if !po.TotalAmount.Equal(decimal.NewFromInt(420)) {
		t.Errorf("expected total 420 including tax, got %s", po.TotalAmount)
	}
	if !po.Items[0].LineTotal.Equal(decimal.NewFromInt(420)) {
		t.Errorf("expected line total 420, got %s", po.Items[0].LineTotal)
	}

	// Drafting never moves stock.
	if got := f.products.stockOf("HDY-01"); got != 5 {
		t.Errorf("drafting should not touch stock, got %d", got)
	}
}

func TestCreatePurchaseOrder_Rejections(t *testing.T) {
	product := testProduct("Hoodie", uuid.New(), "HDY-01", 100, 5)
	f := newPurchaseFixture(product)

	if _, err := f.svc.CreateOrder(context.Background(), f.vendor.ID, nil); err != ErrEmptyPurchaseOrder {
		t.Errorf("expected ErrEmptyPurchaseOrder, got %v", err)
	}

	items := []PurchaseItemInput{{ProductID: product.ID, SKU: "HDY-01", Quantity: 1, UnitPrice: decimal.NewFromInt(40)}}
	if _, err := f.svc.CreateOrder(context.Background(), uuid.New(), items); err != repository.ErrContactNotFound {
		t.Errorf("expected ErrContactNotFound for unknown vendor, got %v", err)
	}

	badItems := []PurchaseItemInput{{ProductID: product.ID, SKU: "NOPE", Quantity: 1, UnitPrice: decimal.NewFromInt(40)}}
	if _, err := f.svc.CreateOrder(context.Background(), f.vendor.ID, badItems); err != repository.ErrVariantNotFound {
		t.Errorf("expected ErrVariantNotFound for unknown SKU, got %v", err)
	}
}

func TestReceiveAndBill(t *testing.T) {
	product := testProduct("Hoodie", uuid.New(), "HDY-01", 100, 5)
	f := newPurchaseFixture(product)

	po, err := f.svc.CreateOrder(context.Background(), f.vendor.ID, []PurchaseItemInput{
		{ProductID: product.ID, SKU: "HDY-01", Quantity: 10, UnitPrice: decimal.NewFromInt(40), Tax: decimal.NewFromInt(5)},
	})
	if err != nil {
		t.Fatalf("draft failed: %v", err)
	}

	bill, err := f.svc.ReceiveAndBill(context.Background(), po.ID)
	if err != nil {
		t.Fatalf("expected receiving to succeed, got %v", err)
	}

	if got := f.products.stockOf("HDY-01"); got != 15 {
		t.Errorf("receiving 10 units should raise stock to 15, got %d", got)
	}

	if !strings.HasPrefix(bill.BillNumber, "BILL-") {
		t.Errorf("expected BILL- prefixed number, got %q", bill.BillNumber)
	}
	if bill.Status != domain.BillingConfirmed {
		t.Errorf("expected confirmed bill, got %q", bill.Status)
	}
	if !bill.PaidAmount.IsZero() {
		t.Errorf("a fresh bill must be unpaid, got %s", bill.PaidAmount)
	}
	if !bill.TotalAmount.Equal(po.TotalAmount) {
		t.Errorf("bill total %s should mirror the order total %s", bill.TotalAmount, po.TotalAmount)
	}
	if bill.PurchaseOrderID == nil || *bill.PurchaseOrderID != po.ID {
		t.Error("expected the bill linked back to the purchase order")
	}
	wantDue := time.Now().AddDate(0, 0, 30)
	if bill.DueDate.Before(wantDue.Add(-time.Hour)) || bill.DueDate.After(wantDue.Add(time.Hour)) {
		t.Errorf("expected due date ~30 days out, got %s", bill.DueDate)
	}

	updated, _ := f.svc.GetOrder(context.Background(), po.ID)
	if updated.Status != domain.PurchaseOrderBilled {
		t.Errorf("expected the order progressed to billed, got %q", updated.Status)
	}

	// The progression is one-way: a billed order cannot be received again.
	if _, err := f.svc.ReceiveAndBill(context.Background(), po.ID); err != ErrPONotDraft {
		t.Errorf("expected ErrPONotDraft on second receive, got %v", err)
	}
	if got := f.products.stockOf("HDY-01"); got != 15 {
		t.Errorf("a rejected receive must not move stock, got %d", got)
	}
}

func TestReceiveAndBill_UnknownOrder(t *testing.T) {
	f := newPurchaseFixture()

	if _, err := f.svc.ReceiveAndBill(context.Background(), uuid.New()); err != repository.ErrPurchaseOrderNotFound {
		t.Errorf("expected ErrPurchaseOrderNotFound, got %v", err)
	}
}
