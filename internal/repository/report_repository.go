package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
)

// ReportRepository runs the aggregation queries behind the reporting screens.
type ReportRepository interface {
	SalesByVariant(ctx context.Context, from, to time.Time) ([]*domain.SalesReportRow, error)
	PurchasesByVariant(ctx context.Context, from, to time.Time) ([]*domain.PurchaseReportRow, error)
	Dashboard(ctx context.Context) (*domain.DashboardSummary, error)
}

type reportRepository struct {
	db Querier
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db Querier) ReportRepository {
	return &reportRepository{db: db}
}

// SalesByVariant aggregates paid order lines per variant within the paidAt
// window.
func (r *reportRepository) SalesByVariant(ctx context.Context, from, to time.Time) ([]*domain.SalesReportRow, error) {
	query := `
		SELECT oi.product_id, oi.name, oi.sku,
		       SUM(oi.qty)::int,
		       SUM(oi.price * oi.qty),
		       SUM((oi.purchase_price + oi.purchase_price * oi.purchase_tax / 100) * oi.qty)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.is_paid AND o.paid_at >= $1 AND o.paid_at < $2
		GROUP BY oi.product_id, oi.name, oi.sku
		ORDER BY SUM(oi.price * oi.qty) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to run sales report: %w", err)
	}
	defer rows.Close()

	report := []*domain.SalesReportRow{}
	for rows.Next() {
		row := &domain.SalesReportRow{}
		err := rows.Scan(
			&row.ProductID, &row.ProductName, &row.SKU,
			&row.UnitsSold, &row.GrossRevenue, &row.Cost,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales report row: %w", err)
		}
		report = append(report, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales report: %w", err)
	}

	return report, nil
}

// PurchasesByVariant aggregates billed purchase order lines per variant
// within the order date window.
func (r *reportRepository) PurchasesByVariant(ctx context.Context, from, to time.Time) ([]*domain.PurchaseReportRow, error) {
	query := `
		SELECT poi.product_id, COALESCE(p.name, ''), poi.sku,
		       SUM(poi.quantity)::int,
		       SUM(poi.line_total)
		FROM purchase_order_items poi
		JOIN purchase_orders po ON po.id = poi.purchase_order_id
		LEFT JOIN products p ON p.id = poi.product_id
		WHERE po.status = 'billed' AND po.order_date >= $1 AND po.order_date < $2
		GROUP BY poi.product_id, p.name, poi.sku
		ORDER BY SUM(poi.line_total) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to run purchase report: %w", err)
	}
	defer rows.Close()

	report := []*domain.PurchaseReportRow{}
	for rows.Next() {
		row := &domain.PurchaseReportRow{}
		err := rows.Scan(
			&row.ProductID, &row.ProductName, &row.SKU,
			&row.UnitsReceived, &row.TotalSpent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase report row: %w", err)
		}
		report = append(report, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase report: %w", err)
	}

	return report, nil
}

// Dashboard computes the headline figures: revenue and cost over paid orders,
// order counts, and outstanding receivables/payables.
func (r *reportRepository) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{}

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_price) FILTER (WHERE is_paid), 0),
		       COALESCE(SUM(total_cost) FILTER (WHERE is_paid), 0),
		       COUNT(*)::int,
		       COUNT(*) FILTER (WHERE is_paid)::int
		FROM orders
	`).Scan(&summary.Revenue, &summary.Cost, &summary.OrderCount, &summary.PaidOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order summary: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_amount - paid_amount), 0)
		FROM customer_invoices
		WHERE status IN ('confirmed', 'partially_paid')
	`).Scan(&summary.Receivables)
	if err != nil {
		return nil, fmt.Errorf("failed to compute receivables: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_amount - paid_amount), 0)
		FROM vendor_bills
		WHERE status IN ('confirmed', 'partially_paid')
	`).Scan(&summary.Payables)
	if err != nil {
		return nil, fmt.Errorf("failed to compute payables: %w", err)
	}

	return summary, nil
}
