package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var ErrPurchaseOrderNotFound = errors.New("purchase order not found")

// PurchaseOrderRepository defines the interface for purchase order data access.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *domain.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	List(ctx context.Context) ([]*domain.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseOrderRepository struct {
	db *sql.DB
}

// NewPurchaseOrderRepository creates a new instance of PurchaseOrderRepository
func NewPurchaseOrderRepository(db *sql.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchase_orders (id, order_number, vendor_id, order_date, status, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		po.ID,
		po.OrderNumber,
		po.VendorID,
		po.OrderDate,
		po.Status,
		po.TotalAmount,
		po.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create purchase order: %w", err)
	}

	for _, item := range po.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO purchase_order_items (purchase_order_id, product_id, sku, quantity, unit_price, tax, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			po.ID, item.ProductID, item.SKU, item.Quantity,
			item.UnitPrice, item.Tax, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to create purchase order item %s: %w", item.SKU, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purchase order: %w", err)
	}
	return nil
}

func (r *purchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	po := &domain.PurchaseOrder{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_number, vendor_id, order_date, status, total_amount, created_at
		FROM purchase_orders
		WHERE id = $1
	`, id).Scan(
		&po.ID, &po.OrderNumber, &po.VendorID, &po.OrderDate,
		&po.Status, &po.TotalAmount, &po.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("failed to find purchase order: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.PurchaseOrder{po}); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context) ([]*domain.PurchaseOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_number, vendor_id, order_date, status, total_amount, created_at
		FROM purchase_orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.PurchaseOrder{}
	for rows.Next() {
		po := &domain.PurchaseOrder{}
		err := rows.Scan(
			&po.ID, &po.OrderNumber, &po.VendorID, &po.OrderDate,
			&po.Status, &po.TotalAmount, &po.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, po)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus advances the purchase order through its progression. It takes
// a Querier so receiving can flip draft to billed inside the receipt
// transaction.
func (r *purchaseOrderRepository) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE purchase_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPurchaseOrderNotFound
	}
	return nil
}

func (r *purchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPurchaseOrderNotFound
	}
	return nil
}

func (r *purchaseOrderRepository) attachItems(ctx context.Context, orders []*domain.PurchaseOrder) error {
	for _, po := range orders {
		rows, err := r.db.QueryContext(ctx, `
			SELECT product_id, sku, quantity, unit_price, tax, line_total
			FROM purchase_order_items
			WHERE purchase_order_id = $1
			ORDER BY sku
		`, po.ID)
		if err != nil {
			return fmt.Errorf("failed to load purchase order items: %w", err)
		}

		po.Items = []domain.PurchaseOrderItem{}
		for rows.Next() {
			item := domain.PurchaseOrderItem{}
			err := rows.Scan(
				&item.ProductID, &item.SKU, &item.Quantity,
				&item.UnitPrice, &item.Tax, &item.LineTotal,
			)
			if err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan purchase order item: %w", err)
			}
			po.Items = append(po.Items, item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("error iterating purchase order items: %w", err)
		}
		rows.Close()
	}

	return nil
}
