package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses form a linear, one-directional progression.
const (
	PurchaseOrderDraft     = "draft"
	PurchaseOrderConfirmed = "confirmed"
	PurchaseOrderBilled    = "billed"
)

// PurchaseOrderItem is one inbound line: which variant, how many, at what
// unit price and tax rate.
type PurchaseOrderItem struct {
	ProductID uuid.UUID       `json:"product" db:"product_id"`
	SKU       string          `json:"sku" db:"sku"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Tax       decimal.Decimal `json:"tax" db:"tax"`
	LineTotal decimal.Decimal `json:"total_amount" db:"line_total"`
}

// PurchaseOrder is a draft order to a vendor; receiving it increments stock
// and produces a vendor bill.
type PurchaseOrder struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	OrderNumber string              `json:"order_number" db:"order_number"`
	VendorID    uuid.UUID           `json:"vendor" db:"vendor_id"`
	Items       []PurchaseOrderItem `json:"items"`
	OrderDate   time.Time           `json:"order_date" db:"order_date"`
	Status      string              `json:"status" db:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
}
