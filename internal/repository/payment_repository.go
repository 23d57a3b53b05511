package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository defines the interface for registered payment data access.
type PaymentRepository interface {
	Create(ctx context.Context, q Querier, payment *domain.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	List(ctx context.Context, paymentType string) ([]*domain.Payment, error)
	Count(ctx context.Context) (int, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts a payment record. It takes a Querier so payment registration
// can write the record and adjust the linked document in one transaction.
func (r *paymentRepository) Create(ctx context.Context, q Querier, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, payment_number, contact_id, payment_type, amount, payment_date,
		                      payment_method, linked_invoice_id, linked_bill_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.PaymentNumber,
		payment.ContactID,
		payment.Type,
		payment.Amount,
		payment.PaymentDate,
		payment.Method,
		payment.InvoiceID,
		payment.BillID,
		payment.Notes,
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, payment_number, contact_id, payment_type, amount, payment_date,
		       payment_method, linked_invoice_id, linked_bill_id, notes, created_at
		FROM payments
		WHERE id = $1
	`

	payment := &domain.Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.PaymentNumber,
		&payment.ContactID,
		&payment.Type,
		&payment.Amount,
		&payment.PaymentDate,
		&payment.Method,
		&payment.InvoiceID,
		&payment.BillID,
		&payment.Notes,
		&payment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	return payment, nil
}

// List retrieves payments, optionally filtered by direction.
func (r *paymentRepository) List(ctx context.Context, paymentType string) ([]*domain.Payment, error) {
	query := `
		SELECT id, payment_number, contact_id, payment_type, amount, payment_date,
		       payment_method, linked_invoice_id, linked_bill_id, notes, created_at
		FROM payments
	`
	args := []any{}
	if paymentType != "" {
		query += ` WHERE payment_type = $1`
		args = append(args, paymentType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		payment := &domain.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.PaymentNumber,
			&payment.ContactID,
			&payment.Type,
			&payment.Amount,
			&payment.PaymentDate,
			&payment.Method,
			&payment.InvoiceID,
			&payment.BillID,
			&payment.Notes,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// Count returns the total number of payments, used to build payment numbers.
func (r *paymentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}
