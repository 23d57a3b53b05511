package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is a sellable color/size combination of a product, identified by a
// catalog-wide unique SKU and carrying its own stock and pricing.
type Variant struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ProductID     uuid.UUID       `json:"product_id" db:"product_id"`
	SKU           string          `json:"sku" db:"sku"`
	Color         string          `json:"color" db:"color"`
	Size          string          `json:"size" db:"size"`
	Stock         int             `json:"stock" db:"stock"`
	SalesPrice    decimal.Decimal `json:"sales_price" db:"sales_price"`
	SalesTax      decimal.Decimal `json:"sales_tax" db:"sales_tax"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	PurchaseTax   decimal.Decimal `json:"purchase_tax" db:"purchase_tax"`
}

// ProductImage is an uploaded image URL, optionally tied to a color.
type ProductImage struct {
	URL   string `json:"url" db:"url"`
	Color string `json:"color,omitempty" db:"color"`
}

// Product represents a catalog product with its embedded variants.
type Product struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	CategoryID uuid.UUID      `json:"category_id" db:"category_id"`
	BrandID    *uuid.UUID     `json:"brand_id,omitempty" db:"brand_id"`
	StyleID    *uuid.UUID     `json:"style_id,omitempty" db:"style_id"`
	TypeID     *uuid.UUID     `json:"type_id,omitempty" db:"type_id"`
	Material   string         `json:"material" db:"material"`
	Published  bool           `json:"published" db:"published"`
	Variants   []Variant      `json:"variants"`
	Images     []ProductImage `json:"images"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// Lookup is the shared shape of the master-data tables
// (brand, color, size, style, type, category).
type Lookup struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InventoryRow is one flattened variant row for the inventory screen.
type InventoryRow struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	SKU         string    `json:"sku"`
	Color       string    `json:"color"`
	Size        string    `json:"size"`
	Stock       int       `json:"stock"`
}

// InventoryLedgerEntry records a manual stock adjustment for audit.
type InventoryLedgerEntry struct {
	ID              uuid.UUID `json:"id" db:"id"`
	SKU             string    `json:"sku" db:"sku"`
	ProductID       uuid.UUID `json:"product_id" db:"product_id"`
	AdminID         uuid.UUID `json:"admin_id" db:"admin_id"`
	PreviousStock   int       `json:"previous_stock" db:"previous_stock"`
	QuantityChanged int       `json:"quantity_changed" db:"quantity_changed"`
	NewStock        int       `json:"new_stock" db:"new_stock"`
	Reason          string    `json:"reason" db:"reason"`
	Notes           string    `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
