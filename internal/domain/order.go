package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAddress is the delivery destination captured on an order.
type ShippingAddress struct {
	Address    string `json:"address" db:"address"`
	City       string `json:"city" db:"city"`
	PostalCode string `json:"postal_code" db:"postal_code"`
	Country    string `json:"country" db:"country"`
}

// PaymentResult is the gateway outcome recorded once payment is verified.
type PaymentResult struct {
	IntentID     string `json:"id" db:"payment_intent_id"`
	Status       string `json:"status" db:"payment_status"`
	UpdateTime   string `json:"update_time" db:"payment_update_time"`
	EmailAddress string `json:"email_address" db:"payment_email"`
}

// OrderItem is an immutable snapshot of a variant at time of sale, including
// the purchase cost basis so margins survive later catalog price changes.
type OrderItem struct {
	ProductID     uuid.UUID       `json:"product" db:"product_id"`
	SKU           string          `json:"sku" db:"sku"`
	Name          string          `json:"name" db:"name"`
	Image         string          `json:"image" db:"image"`
	Price         decimal.Decimal `json:"price" db:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	PurchaseTax   decimal.Decimal `json:"purchase_tax" db:"purchase_tax"`
	Color         string          `json:"color" db:"color"`
	Size          string          `json:"size" db:"size"`
	Qty           int             `json:"qty" db:"qty"`
}

// Order is created once at checkout and mutated only to flip its paid and
// delivered flags. Orders are never deleted.
type Order struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	UserID              uuid.UUID       `json:"user" db:"user_id"`
	Items               []OrderItem     `json:"order_items"`
	ShippingAddress     ShippingAddress `json:"shipping_address"`
	PaymentMethod       string          `json:"payment_method" db:"payment_method"`
	PaymentResult       *PaymentResult  `json:"payment_result,omitempty"`
	ItemsPrice          decimal.Decimal `json:"items_price" db:"items_price"`
	ShippingPrice       decimal.Decimal `json:"shipping_price" db:"shipping_price"`
	TotalPrice          decimal.Decimal `json:"total_price" db:"total_price"`
	TotalCost           decimal.Decimal `json:"total_cost" db:"total_cost"`
	DiscountAmount      decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	CouponID            *uuid.UUID      `json:"coupon_id,omitempty" db:"coupon_id"`
	PaymentTermID       uuid.UUID       `json:"payment_term" db:"payment_term_id"`
	PaymentTermsPreview string          `json:"payment_terms_preview" db:"payment_terms_preview"`
	IsPaid              bool            `json:"is_paid" db:"is_paid"`
	PaidAt              *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	IsDelivered         bool            `json:"is_delivered" db:"is_delivered"`
	DeliveredAt         *time.Time      `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}
