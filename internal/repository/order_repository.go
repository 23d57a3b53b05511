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

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access. Orders are
// immutable except for their paid and delivered flags.
type OrderRepository interface {
	Create(ctx context.Context, q Querier, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	MarkPaid(ctx context.Context, q Querier, id uuid.UUID, paidAt time.Time, result *domain.PaymentResult) error
	MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) error
	SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts an order with its items. It takes a Querier so placement can
// write the order, decrement stock and redeem the coupon atomically.
func (r *orderRepository) Create(ctx context.Context, q Querier, order *domain.Order) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, address, city, postal_code, country,
		                    payment_method, items_price, shipping_price, total_price, total_cost,
		                    discount_amount, coupon_id, payment_term_id, payment_terms_preview,
		                    is_paid, is_delivered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		order.ID,
		order.UserID,
		order.ShippingAddress.Address,
		order.ShippingAddress.City,
		order.ShippingAddress.PostalCode,
		order.ShippingAddress.Country,
		order.PaymentMethod,
		order.ItemsPrice,
		order.ShippingPrice,
		order.TotalPrice,
		order.TotalCost,
		order.DiscountAmount,
		order.CouponID,
		order.PaymentTermID,
		order.PaymentTermsPreview,
		order.IsPaid,
		order.IsDelivered,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err := q.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, sku, name, image, price, purchase_price, purchase_tax, color, size, qty)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			order.ID, item.ProductID, item.SKU, item.Name, item.Image,
			item.Price, item.PurchasePrice, item.PurchaseTax,
			item.Color, item.Size, item.Qty,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item %s: %w", item.SKU, err)
		}
	}

	return nil
}

const orderColumns = `
	id, user_id, address, city, postal_code, country,
	payment_method, payment_intent_id, payment_status, payment_update_time, payment_email,
	items_price, shipping_price, total_price, total_cost,
	discount_amount, coupon_id, payment_term_id, payment_terms_preview,
	is_paid, paid_at, is_delivered, delivered_at, created_at
`

// FindByID retrieves an order with its items.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser retrieves a customer's own order history, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(ctx, query, userID)
}

// List retrieves every order for the admin table, newest first.
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(ctx, query)
}

// MarkPaid flips the paid flag and records the gateway outcome.
func (r *orderRepository) MarkPaid(ctx context.Context, q Querier, id uuid.UUID, paidAt time.Time, result *domain.PaymentResult) error {
	res, err := q.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $2,
		    payment_intent_id = $3, payment_status = $4, payment_update_time = $5, payment_email = $6
		WHERE id = $1
	`, id, paidAt, result.IntentID, result.Status, result.UpdateTime, result.EmailAddress)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkDelivered flips the delivered flag.
func (r *orderRepository) MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET is_delivered = TRUE, delivered_at = $2 WHERE id = $1`,
		id, deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark order delivered: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// SetPaymentIntent records the gateway intent id created for the order before
// the payment is confirmed.
func (r *orderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_intent_id = $2 WHERE id = $1`, id, intentID)
	if err != nil {
		return fmt.Errorf("failed to set payment intent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrderFields(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	for _, order := range orders {
		rows, err := r.db.QueryContext(ctx, `
			SELECT product_id, sku, name, image, price, purchase_price, purchase_tax, color, size, qty
			FROM order_items
			WHERE order_id = $1
			ORDER BY sku
		`, order.ID)
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}

		order.Items = []domain.OrderItem{}
		for rows.Next() {
			item := domain.OrderItem{}
			err := rows.Scan(
				&item.ProductID, &item.SKU, &item.Name, &item.Image,
				&item.Price, &item.PurchasePrice, &item.PurchaseTax,
				&item.Color, &item.Size, &item.Qty,
			)
			if err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan order item: %w", err)
			}
			order.Items = append(order.Items, item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("error iterating order items: %w", err)
		}
		rows.Close()
	}

	return nil
}

func scanOrderFields(s rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var intentID, status, updateTime, email sql.NullString

	err := s.Scan(
		&order.ID,
		&order.UserID,
		&order.ShippingAddress.Address,
		&order.ShippingAddress.City,
		&order.ShippingAddress.PostalCode,
		&order.ShippingAddress.Country,
		&order.PaymentMethod,
		&intentID,
		&status,
		&updateTime,
		&email,
		&order.ItemsPrice,
		&order.ShippingPrice,
		&order.TotalPrice,
		&order.TotalCost,
		&order.DiscountAmount,
		&order.CouponID,
		&order.PaymentTermID,
		&order.PaymentTermsPreview,
		&order.IsPaid,
		&order.PaidAt,
		&order.IsDelivered,
		&order.DeliveredAt,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if intentID.Valid && intentID.String != "" {
		order.PaymentResult = &domain.PaymentResult{
			IntentID:     intentID.String,
			Status:       status.String,
			UpdateTime:   updateTime.String,
			EmailAddress: email.String,
		}
	}
	return order, nil
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	order, err := scanOrderFields(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}
