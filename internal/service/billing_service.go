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
	ErrPaymentTarget        = errors.New("payment must reference an invoice or a bill")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrDefaultTermProtected = errors.New("the default payment term cannot be deleted")
	ErrNoLinkedContact      = errors.New("user has no linked contact")
)

// BillingService defines the interface for invoices, vendor bills, payment
// registration and payment terms.
type BillingService interface {
	ListInvoices(ctx context.Context) ([]*domain.CustomerInvoice, error)
	MyInvoices(ctx context.Context, userID uuid.UUID) ([]*domain.CustomerInvoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*domain.CustomerInvoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*domain.CustomerInvoice, error)

	ListBills(ctx context.Context) ([]*domain.VendorBill, error)
	GetBill(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error)

	RegisterPayment(ctx context.Context, input RegisterPaymentInput) (*domain.Payment, error)
	ListPayments(ctx context.Context, paymentType string) ([]*domain.Payment, error)

	CreatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error
	UpdatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error
	DeletePaymentTerm(ctx context.Context, id uuid.UUID) error
	ListPaymentTerms(ctx context.Context) ([]*domain.PaymentTerm, error)
}

// RegisterPaymentInput carries a manual payment registration.
type RegisterPaymentInput struct {
	ContactID uuid.UUID
	Type      string
	Amount    decimal.Decimal
	Method    string
	InvoiceID *uuid.UUID
	BillID    *uuid.UUID
	Notes     string
}

type billingService struct {
	db          *sql.DB
	invoiceRepo repository.InvoiceRepository
	billRepo    repository.VendorBillRepository
	paymentRepo repository.PaymentRepository
	termRepo    repository.PaymentTermRepository
	contactRepo repository.ContactRepository
}

// NewBillingService creates a new instance of BillingService
func NewBillingService(
	db *sql.DB,
	invoiceRepo repository.InvoiceRepository,
	billRepo repository.VendorBillRepository,
	paymentRepo repository.PaymentRepository,
	termRepo repository.PaymentTermRepository,
	contactRepo repository.ContactRepository,
) BillingService {
	return &billingService{
		db:          db,
		invoiceRepo: invoiceRepo,
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		termRepo:    termRepo,
		contactRepo: contactRepo,
	}
}

func (s *billingService) ListInvoices(ctx context.Context) ([]*domain.CustomerInvoice, error) {
	return s.invoiceRepo.List(ctx)
}

// MyInvoices resolves the caller's linked contact and returns its invoices.
// A user without a contact profile simply has no invoices.
func (s *billingService) MyInvoices(ctx context.Context, userID uuid.UUID) ([]*domain.CustomerInvoice, error) {
	contact, err := s.contactRepo.FindByLinkedUser(ctx, userID)
	if err != nil {
		if err == repository.ErrContactNotFound {
			return []*domain.CustomerInvoice{}, nil
		}
		return nil, err
	}
	return s.invoiceRepo.ListByCustomer(ctx, contact.ID)
}

func (s *billingService) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.CustomerInvoice, error) {
	return s.invoiceRepo.FindByID(ctx, id)
}

func (s *billingService) GetInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*domain.CustomerInvoice, error) {
	return s.invoiceRepo.FindByOrder(ctx, orderID)
}

func (s *billingService) ListBills(ctx context.Context) ([]*domain.VendorBill, error) {
	return s.billRepo.List(ctx)
}

func (s *billingService) GetBill(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	return s.billRepo.FindByID(ctx, id)
}

// RegisterPayment persists the payment record and applies the amount to the
// linked document in one transaction. The document flips to paid once its
// paidAmount covers the total, else partially_paid.
func (s *billingService) RegisterPayment(ctx context.Context, input RegisterPaymentInput) (*domain.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if input.InvoiceID == nil && input.BillID == nil {
		return nil, ErrPaymentTarget
	}

	if _, err := s.contactRepo.FindByID(ctx, input.ContactID); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:            uuid.New(),
		PaymentNumber: fmt.Sprintf("PAY-%d", time.Now().UnixMilli()),
		ContactID:     input.ContactID,
		Type:          input.Type,
		Amount:        input.Amount,
		PaymentDate:   time.Now(),
		Method:        input.Method,
		InvoiceID:     input.InvoiceID,
		BillID:        input.BillID,
		Notes:         input.Notes,
		CreatedAt:     time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
		return nil, err
	}

	if input.InvoiceID != nil {
		if err := s.invoiceRepo.ApplyPayment(ctx, tx, *input.InvoiceID, input.Amount); err != nil {
			return nil, err
		}
	}
	if input.BillID != nil {
		if err := s.billRepo.ApplyPayment(ctx, tx, *input.BillID, input.Amount); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	return payment, nil
}

func (s *billingService) ListPayments(ctx context.Context, paymentType string) ([]*domain.Payment, error) {
	return s.paymentRepo.List(ctx, paymentType)
}

func (s *billingService) CreatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error {
	term.ID = uuid.New()
	term.CreatedAt = time.Now()
	if term.Computation == "" {
		term.Computation = domain.ComputationTotalAmount
	}
	term.ExamplePreview = RenderTermPreview(term)
	return s.termRepo.Create(ctx, term)
}

func (s *billingService) UpdatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error {
	term.ExamplePreview = RenderTermPreview(term)
	return s.termRepo.Update(ctx, term)
}

// DeletePaymentTerm removes a term, refusing to delete the default one the
// order workflow depends on.
func (s *billingService) DeletePaymentTerm(ctx context.Context, id uuid.UUID) error {
	term, err := s.termRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if term.Name == domain.DefaultPaymentTermName {
		return ErrDefaultTermProtected
	}
	return s.termRepo.Delete(ctx, id)
}

func (s *billingService) ListPaymentTerms(ctx context.Context) ([]*domain.PaymentTerm, error) {
	return s.termRepo.List(ctx)
}

// RenderTermPreview builds the human-readable description shown on orders.
func RenderTermPreview(term *domain.PaymentTerm) string {
	if !term.EarlyPaymentDiscount {
		return fmt.Sprintf("Payment terms: %s", term.Name)
	}

	base := "total amount"
	if term.Computation == domain.ComputationBaseAmount {
		base = "base amount"
	}
	return fmt.Sprintf(
		"Payment terms: %s. %s%% discount on %s if paid within %d days.",
		term.Name,
		term.DiscountPercentage.String(),
		base,
		term.DiscountDays,
	)
}
