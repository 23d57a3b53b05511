package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a selected variant inside a user's cart. Name, image, price and
// maxStock are snapshots taken when the item was added.
type CartItem struct {
	ProductID uuid.UUID       `json:"product" db:"product_id"`
	SKU       string          `json:"sku" db:"sku"`
	Name      string          `json:"name" db:"name"`
	Image     string          `json:"image" db:"image"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Color     string          `json:"color" db:"color"`
	Size      string          `json:"size" db:"size"`
	Qty       int             `json:"qty" db:"qty"`
	MaxStock  int             `json:"max_stock" db:"max_stock"`
}

// Cart holds at most one line item per SKU for a single user.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
