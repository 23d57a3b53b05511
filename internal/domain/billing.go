package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statuses shared by vendor bills and customer invoices. paidAmount only ever
// increases; status follows it.
const (
	BillingDraft         = "draft"
	BillingConfirmed     = "confirmed"
	BillingPaid          = "paid"
	BillingPartiallyPaid = "partially_paid"
)

// Payment directions.
const (
	PaymentInbound  = "inbound"
	PaymentOutbound = "outbound"
)

// BillingItem is an itemized line on a vendor bill or customer invoice.
type BillingItem struct {
	ProductID uuid.UUID       `json:"product" db:"product_id"`
	SKU       string          `json:"sku" db:"sku"`
	Name      string          `json:"name" db:"name"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Tax       decimal.Decimal `json:"tax" db:"tax"`
	LineTotal decimal.Decimal `json:"total_amount" db:"line_total"`
}

// VendorBill tracks money owed to a vendor for a received purchase order.
type VendorBill struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	BillNumber      string          `json:"bill_number" db:"bill_number"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order,omitempty" db:"purchase_order_id"`
	VendorID        uuid.UUID       `json:"vendor" db:"vendor_id"`
	Items           []BillingItem   `json:"items"`
	InvoiceDate     time.Time       `json:"invoice_date" db:"invoice_date"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// CustomerInvoice tracks money owed by a customer for a sales order.
type CustomerInvoice struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	InvoiceNumber  string          `json:"invoice_number" db:"invoice_number"`
	CustomerID     uuid.UUID       `json:"customer" db:"customer_id"`
	OrderID        uuid.UUID       `json:"sales_order" db:"order_id"`
	Items          []BillingItem   `json:"items"`
	InvoiceDate    time.Time       `json:"invoice_date" db:"invoice_date"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Payment is a registered movement of money against an invoice or a bill.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PaymentNumber string          `json:"payment_number" db:"payment_number"`
	ContactID     uuid.UUID       `json:"contact" db:"contact_id"`
	Type          string          `json:"payment_type" db:"payment_type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	Method        string          `json:"payment_method" db:"payment_method"`
	InvoiceID     *uuid.UUID      `json:"linked_invoice,omitempty" db:"linked_invoice_id"`
	BillID        *uuid.UUID      `json:"linked_bill,omitempty" db:"linked_bill_id"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Early payment discount bases.
const (
	ComputationBaseAmount  = "base_amount"
	ComputationTotalAmount = "total_amount"
)

// DefaultPaymentTermName is resolved (or lazily created) at order placement.
const DefaultPaymentTermName = "Immediate Payment"

// PaymentTerm describes when and how an order should be settled, optionally
// with an early-payment discount window.
type PaymentTerm struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	Name                 string          `json:"name" db:"name"`
	EarlyPaymentDiscount bool            `json:"early_payment_discount" db:"early_payment_discount"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage" db:"discount_percentage"`
	DiscountDays         int             `json:"discount_days" db:"discount_days"`
	Computation          string          `json:"early_pay_discount_computation" db:"computation"`
	ExamplePreview       string          `json:"example_preview" db:"example_preview"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}
