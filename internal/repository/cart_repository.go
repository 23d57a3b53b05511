package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository defines the interface for cart data access. Each user has at
// most one cart row; items are rewritten wholesale on every save.
type CartRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, q Querier, userID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// FindByUser retrieves the user's cart with its items.
func (r *cartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, sku, name, image, price, color, size, qty, max_stock
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY sku
	`, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		item := domain.CartItem{}
		err := rows.Scan(
			&item.ProductID, &item.SKU, &item.Name, &item.Image,
			&item.Price, &item.Color, &item.Size, &item.Qty, &item.MaxStock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

// Save upserts the cart row and replaces its items in one transaction.
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cart.UpdatedAt = time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`, cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	// The upsert may have kept an existing cart id; resolve it for the items.
	var cartID uuid.UUID
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM carts WHERE user_id = $1`, cart.UserID,
	).Scan(&cartID)
	if err != nil {
		return fmt.Errorf("failed to resolve cart id: %w", err)
	}
	cart.ID = cartID

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	for _, item := range cart.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, product_id, sku, name, image, price, color, size, qty, max_stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			cartID, item.ProductID, item.SKU, item.Name, item.Image,
			item.Price, item.Color, item.Size, item.Qty, item.MaxStock,
		)
		if err != nil {
			return fmt.Errorf("failed to save cart item %s: %w", item.SKU, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart: %w", err)
	}
	return nil
}

// Clear empties the user's cart. It takes a Querier so order placement can
// clear the cart inside the placement transaction.
func (r *cartRepository) Clear(ctx context.Context, q Querier, userID uuid.UUID) error {
	_, err := q.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
