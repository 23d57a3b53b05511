package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesReportRow aggregates paid order lines per variant.
type SalesReportRow struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	UnitsSold    int             `json:"units_sold"`
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	Cost         decimal.Decimal `json:"cost"`
}

// PurchaseReportRow aggregates billed purchase order lines per variant.
type PurchaseReportRow struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	UnitsReceived int             `json:"units_received"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

// DashboardSummary is the headline figures for the admin dashboard.
type DashboardSummary struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	OrderCount  int             `json:"order_count"`
	PaidOrders  int             `json:"paid_orders"`
	Receivables decimal.Decimal `json:"receivables"`
	Payables    decimal.Decimal `json:"payables"`
}
