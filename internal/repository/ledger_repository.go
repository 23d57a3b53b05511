package repository

import (
	"context"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
)

// LedgerRepository records manual inventory adjustments for audit.
type LedgerRepository interface {
	Record(ctx context.Context, entry *domain.InventoryLedgerEntry) error
	ListBySKU(ctx context.Context, sku string) ([]*domain.InventoryLedgerEntry, error)
}

type ledgerRepository struct {
	db Querier
}

// NewLedgerRepository creates a new instance of LedgerRepository
func NewLedgerRepository(db Querier) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Record(ctx context.Context, entry *domain.InventoryLedgerEntry) error {
	query := `
		INSERT INTO inventory_ledger (id, sku, product_id, admin_id, previous_stock,
		                              quantity_changed, new_stock, reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.SKU,
		entry.ProductID,
		entry.AdminID,
		entry.PreviousStock,
		entry.QuantityChanged,
		entry.NewStock,
		entry.Reason,
		entry.Notes,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	return nil
}

// ListBySKU retrieves the adjustment history for one variant, newest first.
func (r *ledgerRepository) ListBySKU(ctx context.Context, sku string) ([]*domain.InventoryLedgerEntry, error) {
	query := `
		SELECT id, sku, product_id, admin_id, previous_stock, quantity_changed, new_stock, reason, notes, created_at
		FROM inventory_ledger
		WHERE sku = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.InventoryLedgerEntry{}
	for rows.Next() {
		entry := &domain.InventoryLedgerEntry{}
		err := rows.Scan(
			&entry.ID, &entry.SKU, &entry.ProductID, &entry.AdminID,
			&entry.PreviousStock, &entry.QuantityChanged, &entry.NewStock,
			&entry.Reason, &entry.Notes, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}
