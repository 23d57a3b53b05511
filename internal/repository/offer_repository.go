package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var ErrOfferNotFound = errors.New("discount offer not found")

// OfferRepository defines the interface for discount offer data access.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.DiscountOffer) error
	Update(ctx context.Context, offer *domain.DiscountOffer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.DiscountOffer, error)
	List(ctx context.Context) ([]*domain.DiscountOffer, error)
}

type offerRepository struct {
	db Querier
}

// NewOfferRepository creates a new instance of OfferRepository
func NewOfferRepository(db Querier) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *domain.DiscountOffer) error {
	query := `
		INSERT INTO discount_offers (id, name, discount_type, discount_value, start_date, end_date, available_on, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		offer.ID,
		offer.Name,
		offer.DiscountType,
		offer.DiscountValue,
		offer.StartDate,
		offer.EndDate,
		offer.AvailableOn,
		offer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create discount offer: %w", err)
	}

	return nil
}

func (r *offerRepository) Update(ctx context.Context, offer *domain.DiscountOffer) error {
	query := `
		UPDATE discount_offers
		SET name = $2, discount_type = $3, discount_value = $4,
		    start_date = $5, end_date = $6, available_on = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		offer.ID,
		offer.Name,
		offer.DiscountType,
		offer.DiscountValue,
		offer.StartDate,
		offer.EndDate,
		offer.AvailableOn,
	)
	if err != nil {
		return fmt.Errorf("failed to update discount offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// Delete removes an offer. Coupons issued under it cascade away with it.
func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM discount_offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DiscountOffer, error) {
	query := `
		SELECT id, name, discount_type, discount_value, start_date, end_date, available_on, created_at
		FROM discount_offers
		WHERE id = $1
	`

	offer := &domain.DiscountOffer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&offer.ID,
		&offer.Name,
		&offer.DiscountType,
		&offer.DiscountValue,
		&offer.StartDate,
		&offer.EndDate,
		&offer.AvailableOn,
		&offer.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to find discount offer: %w", err)
	}

	return offer, nil
}

func (r *offerRepository) List(ctx context.Context) ([]*domain.DiscountOffer, error) {
	query := `
		SELECT id, name, discount_type, discount_value, start_date, end_date, available_on, created_at
		FROM discount_offers
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount offers: %w", err)
	}
	defer rows.Close()

	offers := []*domain.DiscountOffer{}
	for rows.Next() {
		offer := &domain.DiscountOffer{}
		err := rows.Scan(
			&offer.ID,
			&offer.Name,
			&offer.DiscountType,
			&offer.DiscountValue,
			&offer.StartDate,
			&offer.EndDate,
			&offer.AvailableOn,
			&offer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount offer: %w", err)
		}
		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discount offers: %w", err)
	}

	return offers, nil
}
