package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount types supported by an offer.
const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

// Channels an offer can be redeemed on.
const (
	OfferChannelBoth    = "both"
	OfferChannelSales   = "sales"
	OfferChannelWebsite = "website"
)

// Coupon redemption states.
const (
	CouponUnused = "unused"
	CouponUsed   = "used"
)

// DiscountOffer is a parent promotional campaign. The monetary rule lives
// here; individual coupon codes are issued underneath it.
type DiscountOffer struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	DiscountType  string          `json:"discount_type" db:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       time.Time       `json:"end_date" db:"end_date"`
	AvailableOn   string          `json:"available_on" db:"available_on"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Coupon is a redeemable code issued under a DiscountOffer. Eligibility rules
// reference category/brand/style/type ids; an empty rule set applies to the
// whole cart. An optional contact lock restricts the code to one customer.
type Coupon struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Code             string          `json:"code" db:"code"`
	OfferID          uuid.UUID       `json:"discount_offer" db:"offer_id"`
	ContactID        *uuid.UUID      `json:"contact,omitempty" db:"contact_id"`
	ApplicableRules  []uuid.UUID     `json:"applicable_rules"`
	MinCartValue     decimal.Decimal `json:"min_cart_value" db:"min_cart_value"`
	IsFirstTimeBuyer bool            `json:"is_first_time_user_only" db:"first_time_only"`
	UsageLimit       int             `json:"usage_limit" db:"usage_limit"`
	UsedCount        int             `json:"used_count" db:"used_count"`
	ExpiryDate       time.Time       `json:"expiry_date" db:"expiry_date"`
	IsActive         bool            `json:"is_active" db:"is_active"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`

	// Offer is the populated parent campaign when loaded via a join.
	Offer *DiscountOffer `json:"offer,omitempty"`
}

// Exhausted reports whether the coupon has no redemptions left.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}
