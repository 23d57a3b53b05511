package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var ErrPaymentTermNotFound = errors.New("payment term not found")

// PaymentTermRepository defines the interface for payment term data access.
type PaymentTermRepository interface {
	Create(ctx context.Context, term *domain.PaymentTerm) error
	Update(ctx context.Context, term *domain.PaymentTerm) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentTerm, error)
	FindByName(ctx context.Context, name string) (*domain.PaymentTerm, error)
	List(ctx context.Context) ([]*domain.PaymentTerm, error)
}

type paymentTermRepository struct {
	db Querier
}

// NewPaymentTermRepository creates a new instance of PaymentTermRepository
func NewPaymentTermRepository(db Querier) PaymentTermRepository {
	return &paymentTermRepository{db: db}
}

func (r *paymentTermRepository) Create(ctx context.Context, term *domain.PaymentTerm) error {
	query := `
		INSERT INTO payment_terms (id, name, early_payment_discount, discount_percentage,
		                           discount_days, computation, example_preview, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		term.ID,
		term.Name,
		term.EarlyPaymentDiscount,
		term.DiscountPercentage,
		term.DiscountDays,
		term.Computation,
		term.ExamplePreview,
		term.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment term: %w", err)
	}

	return nil
}

func (r *paymentTermRepository) Update(ctx context.Context, term *domain.PaymentTerm) error {
	query := `
		UPDATE payment_terms
		SET name = $2, early_payment_discount = $3, discount_percentage = $4,
		    discount_days = $5, computation = $6, example_preview = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		term.ID,
		term.Name,
		term.EarlyPaymentDiscount,
		term.DiscountPercentage,
		term.DiscountDays,
		term.Computation,
		term.ExamplePreview,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment term: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPaymentTermNotFound
	}

	return nil
}

func (r *paymentTermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payment_terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment term: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPaymentTermNotFound
	}

	return nil
}

const paymentTermColumns = `id, name, early_payment_discount, discount_percentage, discount_days, computation, example_preview, created_at`

func (r *paymentTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentTerm, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_terms WHERE id = $1`, paymentTermColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByName retrieves a term by exact name, used to resolve the default term
// at order placement.
func (r *paymentTermRepository) FindByName(ctx context.Context, name string) (*domain.PaymentTerm, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_terms WHERE name = $1`, paymentTermColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *paymentTermRepository) List(ctx context.Context) ([]*domain.PaymentTerm, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_terms ORDER BY created_at ASC`, paymentTermColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment terms: %w", err)
	}
	defer rows.Close()

	terms := []*domain.PaymentTerm{}
	for rows.Next() {
		term := &domain.PaymentTerm{}
		err := rows.Scan(
			&term.ID, &term.Name, &term.EarlyPaymentDiscount, &term.DiscountPercentage,
			&term.DiscountDays, &term.Computation, &term.ExamplePreview, &term.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment term: %w", err)
		}
		terms = append(terms, term)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment terms: %w", err)
	}

	return terms, nil
}

func (r *paymentTermRepository) scanOne(row *sql.Row) (*domain.PaymentTerm, error) {
	term := &domain.PaymentTerm{}
	err := row.Scan(
		&term.ID, &term.Name, &term.EarlyPaymentDiscount, &term.DiscountPercentage,
		&term.DiscountDays, &term.Computation, &term.ExamplePreview, &term.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentTermNotFound
		}
		return nil, fmt.Errorf("failed to find payment term: %w", err)
	}
	return term, nil
}
