package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponAlreadyExists = errors.New("coupon with this code already exists")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]*domain.Coupon, error)
	IncrementUsage(ctx context.Context, q Querier, id uuid.UUID) error
}

type couponRepository struct {
	db *sql.DB
}

// NewCouponRepository creates a new instance of CouponRepository
func NewCouponRepository(db *sql.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO coupons (id, code, offer_id, contact_id, min_cart_value, first_time_only,
		                     usage_limit, used_count, expiry_date, is_active, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		coupon.ID,
		coupon.Code,
		coupon.OfferID,
		coupon.ContactID,
		coupon.MinCartValue,
		coupon.IsFirstTimeBuyer,
		coupon.UsageLimit,
		coupon.UsedCount,
		coupon.ExpiryDate,
		coupon.IsActive,
		coupon.Status,
		coupon.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCouponAlreadyExists
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	if err := insertCouponRules(ctx, tx, coupon.ID, coupon.ApplicableRules); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE coupons
		SET code = $2, offer_id = $3, contact_id = $4, min_cart_value = $5,
		    first_time_only = $6, usage_limit = $7, expiry_date = $8, is_active = $9
		WHERE id = $1
	`,
		coupon.ID,
		coupon.Code,
		coupon.OfferID,
		coupon.ContactID,
		coupon.MinCartValue,
		coupon.IsFirstTimeBuyer,
		coupon.UsageLimit,
		coupon.ExpiryDate,
		coupon.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCouponAlreadyExists
		}
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCouponNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM coupon_rules WHERE coupon_id = $1`, coupon.ID); err != nil {
		return fmt.Errorf("failed to clear coupon rules: %w", err)
	}
	if err := insertCouponRules(ctx, tx, coupon.ID, coupon.ApplicableRules); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit coupon update: %w", err)
	}
	return nil
}

func insertCouponRules(ctx context.Context, q Querier, couponID uuid.UUID, rules []uuid.UUID) error {
	for _, ruleID := range rules {
		_, err := q.ExecContext(ctx,
			`INSERT INTO coupon_rules (coupon_id, rule_id) VALUES ($1, $2)`,
			couponID, ruleID,
		)
		if err != nil {
			return fmt.Errorf("failed to create coupon rule: %w", err)
		}
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCouponNotFound
	}

	return nil
}

const couponSelect = `
	SELECT c.id, c.code, c.offer_id, c.contact_id, c.min_cart_value, c.first_time_only,
	       c.usage_limit, c.used_count, c.expiry_date, c.is_active, c.status, c.created_at,
	       o.id, o.name, o.discount_type, o.discount_value, o.start_date, o.end_date, o.available_on, o.created_at
	FROM coupons c
	JOIN discount_offers o ON o.id = c.offer_id
`

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	coupon, err := scanCoupon(r.db.QueryRowContext(ctx, couponSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadRules(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// FindByCode retrieves a coupon and its parent offer by exact code.
func (r *couponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := scanCoupon(r.db.QueryRowContext(ctx, couponSelect+` WHERE c.code = $1`, code))
	if err != nil {
		return nil, err
	}
	if err := r.loadRules(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *couponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, couponSelect+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []*domain.Coupon{}
	for rows.Next() {
		coupon, err := scanCouponRow(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	for _, coupon := range coupons {
		if err := r.loadRules(ctx, coupon); err != nil {
			return nil, err
		}
	}

	return coupons, nil
}

// IncrementUsage bumps used_count, refusing to pass the usage limit. It takes
// a Querier so order placement can redeem the coupon inside its transaction.
func (r *couponRepository) IncrementUsage(ctx context.Context, q Querier, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1,
		    status = CASE WHEN usage_limit > 0 AND used_count + 1 >= usage_limit THEN 'used' ELSE status END
		WHERE id = $1 AND (usage_limit = 0 OR used_count < usage_limit)
	`

	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		err := q.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM coupons WHERE id = $1)`, id,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check coupon: %w", err)
		}
		if !exists {
			return ErrCouponNotFound
		}
		return ErrCouponExhausted
	}

	return nil
}

func (r *couponRepository) loadRules(ctx context.Context, coupon *domain.Coupon) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rule_id FROM coupon_rules WHERE coupon_id = $1`, coupon.ID)
	if err != nil {
		return fmt.Errorf("failed to load coupon rules: %w", err)
	}
	defer rows.Close()

	coupon.ApplicableRules = []uuid.UUID{}
	for rows.Next() {
		var ruleID uuid.UUID
		if err := rows.Scan(&ruleID); err != nil {
			return fmt.Errorf("failed to scan coupon rule: %w", err)
		}
		coupon.ApplicableRules = append(coupon.ApplicableRules, ruleID)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating coupon rules: %w", err)
	}
	return nil
}

func scanCouponFields(s rowScanner) (*domain.Coupon, error) {
	coupon := &domain.Coupon{Offer: &domain.DiscountOffer{}}
	err := s.Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.OfferID,
		&coupon.ContactID,
		&coupon.MinCartValue,
		&coupon.IsFirstTimeBuyer,
		&coupon.UsageLimit,
		&coupon.UsedCount,
		&coupon.ExpiryDate,
		&coupon.IsActive,
		&coupon.Status,
		&coupon.CreatedAt,
		&coupon.Offer.ID,
		&coupon.Offer.Name,
		&coupon.Offer.DiscountType,
		&coupon.Offer.DiscountValue,
		&coupon.Offer.StartDate,
		&coupon.Offer.EndDate,
		&coupon.Offer.AvailableOn,
		&coupon.Offer.CreatedAt,
	)
	return coupon, err
}

func scanCoupon(row *sql.Row) (*domain.Coupon, error) {
	coupon, err := scanCouponFields(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}
	return coupon, nil
}

func scanCouponRow(rows *sql.Rows) (*domain.Coupon, error) {
	coupon, err := scanCouponFields(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan coupon: %w", err)
	}
	return coupon, nil
}
