package service

import (
	"context"
	"testing"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type billingFixture struct {
	svc      BillingService
	invoices *mockInvoiceRepository
	bills    *mockVendorBillRepository
	payments *mockPaymentRepository
	terms    *mockPaymentTermRepository
	contact  *domain.Contact
}

func newBillingFixture(invoices []*domain.CustomerInvoice, bills []*domain.VendorBill, terms ...*domain.PaymentTerm) *billingFixture {
	contact := &domain.Contact{
		ID:   uuid.New(),
		Name: "Acme Textiles",
		Type: domain.ContactVendor,
	}
	f := &billingFixture{
		invoices: newMockInvoiceRepository(invoices...),
		bills:    newMockVendorBillRepository(bills...),
		payments: newMockPaymentRepository(),
		terms:    newMockPaymentTermRepository(terms...),
		contact:  contact,
	}
	f.svc = NewBillingService(newStubDB(), f.invoices, f.bills, f.payments, f.terms, newMockContactRepository(contact))
	return f
}

func testInvoice(total int64) *domain.CustomerInvoice {
	return &domain.CustomerInvoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-1",
		CustomerID:    uuid.New(),
		OrderID:       uuid.New(),
		InvoiceDate:   time.Now(),
		DueDate:       time.Now(),
		TotalAmount:   decimal.NewFromInt(total),
		PaidAmount:    decimal.Zero,
		Status:        domain.BillingConfirmed,
		CreatedAt:     time.Now(),
	}
}

func testBill(total int64) *domain.VendorBill {
	return &domain.VendorBill{
		ID:          uuid.New(),
		BillNumber:  "BILL-1",
		VendorID:    uuid.New(),
		InvoiceDate: time.Now(),
		DueDate:     time.Now(),
		TotalAmount: decimal.NewFromInt(total),
		PaidAmount:  decimal.Zero,
		Status:      domain.BillingConfirmed,
		CreatedAt:   time.Now(),
	}
}

func TestRegisterPayment_PartialThenFull(t *testing.T) {
	invoice := testInvoice(100)
	f := newBillingFixture([]*domain.CustomerInvoice{invoice}, nil)

	payment, err := f.svc.RegisterPayment(context.Background(), RegisterPaymentInput{
		ContactID: f.contact.ID,
		Type:      domain.PaymentInbound,
		Amount:    decimal.NewFromInt(40),
		Method:    "bank_transfer",
		InvoiceID: &invoice.ID,
	})
	if err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}
	if payment.PaymentNumber == "" {
		t.Error("expected a PAY- numbered payment")
	}
	if invoice.Status != domain.BillingPartiallyPaid {
		t.Errorf("40 of 100 should be partially_paid, got %q", invoice.Status)
	}
	if !invoice.PaidAmount.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected paid amount 40, got %s", invoice.PaidAmount)
	}

	if _, err := f.svc.RegisterPayment(context.Background(), RegisterPaymentInput{
		ContactID: f.contact.ID,
		Type:      domain.PaymentInbound,
		Amount:    decimal.NewFromInt(60),
		Method:    "bank_transfer",
		InvoiceID: &invoice.ID,
	}); err != nil {
		t.Fatalf("second registration failed: %v", err)
	}
	if invoice.Status != domain.BillingPaid {
		t.Errorf("100 of 100 should be paid, got %q", invoice.Status)
	}
}

func TestRegisterPayment_AgainstBill(t *testing.T) {
	bill := testBill(200)
	f := newBillingFixture(nil, []*domain.VendorBill{bill})

	if _, err := f.svc.RegisterPayment(context.Background(), RegisterPaymentInput{
		ContactID: f.contact.ID,
		Type:      domain.PaymentOutbound,
		Amount:    decimal.NewFromInt(200),
		Method:    "cheque",
		BillID:    &bill.ID,
	}); err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}
	if bill.Status != domain.BillingPaid {
		t.Errorf("expected the bill settled, got %q", bill.Status)
	}

	outbound, _ := f.svc.ListPayments(context.Background(), domain.PaymentOutbound)
	if len(outbound) != 1 {
		t.Errorf("expected one outbound payment, got %d", len(outbound))
	}
	inbound, _ := f.svc.ListPayments(context.Background(), domain.PaymentInbound)
	if len(inbound) != 0 {
		t.Errorf("expected no inbound payments, got %d", len(inbound))
	}
}

func TestRegisterPayment_Rejections(t *testing.T) {
	invoice := testInvoice(100)
	f := newBillingFixture([]*domain.CustomerInvoice{invoice}, nil)

	if _, err := f.svc.RegisterPayment(context.Background(), RegisterPaymentInput{
		ContactID: f.contact.ID,
		Type:      domain.PaymentInbound,
		Amount:    decimal.NewFromInt(40),
	}); err != ErrPaymentTarget {
		t.Errorf("expected ErrPaymentTarget without a linked document, got %v", err)
	}

	if _, err := f.svc.RegisterPayment(context.Background(), RegisterPaymentInput{
		ContactID: f.contact.ID,
		Type:      domain.PaymentInbound,
		Amount:    decimal.Zero,
		InvoiceID: &invoice.ID,
	}); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for zero amount, got %v", err)
	}

	if _, err := f.svc.RegisterPayment(context.Background(), RegisterPaymentInput{
		ContactID: uuid.New(),
		Type:      domain.PaymentInbound,
		Amount:    decimal.NewFromInt(40),
		InvoiceID: &invoice.ID,
	}); err != repository.ErrContactNotFound {
		t.Errorf("expected ErrContactNotFound for unknown contact, got %v", err)
	}
}

func TestCreatePaymentTerm_Defaults(t *testing.T) {
	f := newBillingFixture(nil, nil)

	term := &domain.PaymentTerm{Name: "Net 15"}
	if err := f.svc.CreatePaymentTerm(context.Background(), term); err != nil {
		t.Fatalf("expected creation to succeed, got %v", err)
	}

	if term.Computation != domain.ComputationTotalAmount {
		t.Errorf("expected the computation defaulted to total_amount, got %q", term.Computation)
	}
	if term.ExamplePreview != "Payment terms: Net 15" {
		t.Errorf("unexpected preview %q", term.ExamplePreview)
	}
}

func TestDeletePaymentTerm_DefaultProtected(t *testing.T) {
	defaultTerm := &domain.PaymentTerm{
		ID:   uuid.New(),
		Name: domain.DefaultPaymentTermName,
	}
	other := &domain.PaymentTerm{ID: uuid.New(), Name: "Net 30"}
	f := newBillingFixture(nil, nil, defaultTerm, other)

	if err := f.svc.DeletePaymentTerm(context.Background(), defaultTerm.ID); err != ErrDefaultTermProtected {
		t.Errorf("expected ErrDefaultTermProtected, got %v", err)
	}
	if err := f.svc.DeletePaymentTerm(context.Background(), other.ID); err != nil {
		t.Errorf("expected other terms deletable, got %v", err)
	}
	if err := f.svc.DeletePaymentTerm(context.Background(), uuid.New()); err != repository.ErrPaymentTermNotFound {
		t.Errorf("expected ErrPaymentTermNotFound, got %v", err)
	}
}

func TestRenderTermPreview(t *testing.T) {
	plain := &domain.PaymentTerm{Name: "Net 30"}
	if got := RenderTermPreview(plain); got != "Payment terms: Net 30" {
		t.Errorf("unexpected preview %q", got)
	}

	early := &domain.PaymentTerm{
		Name:                 "2/10 Net 30",
		EarlyPaymentDiscount: true,
		DiscountPercentage:   decimal.NewFromInt(2),
		DiscountDays:         10,
		Computation:          domain.ComputationBaseAmount,
	}
	want := "Payment terms: 2/10 Net 30. 2% discount on base amount if paid within 10 days."
	if got := RenderTermPreview(early); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	earlyTotal := &domain.PaymentTerm{
		Name:                 "5/7 Net 45",
		EarlyPaymentDiscount: true,
		DiscountPercentage:   decimal.NewFromInt(5),
		DiscountDays:         7,
		Computation:          domain.ComputationTotalAmount,
	}
	want = "Payment terms: 5/7 Net 45. 5% discount on total amount if paid within 7 days."
	if got := RenderTermPreview(earlyTotal); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMyInvoices_NoLinkedContact(t *testing.T) {
	f := newBillingFixture([]*domain.CustomerInvoice{testInvoice(100)}, nil)

	invoices, err := f.svc.MyInvoices(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("a user without a contact should get an empty list, got %v", err)
	}
	if len(invoices) != 0 {
		t.Errorf("expected no invoices, got %d", len(invoices))
	}
}
