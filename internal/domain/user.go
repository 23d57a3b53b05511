package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles assignable to a user account.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleBoth     = "both"
)

// User represents an account that can authenticate against the API.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Mobile       string     `json:"mobile" db:"mobile"`
	Role         string     `json:"role" db:"role"`
	ContactID    *uuid.UUID `json:"contact_id,omitempty" db:"contact_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// RefreshToken is a stored, revocable token used to mint new access tokens.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// Contact types mirror the partner ledger: customers owe us, vendors are owed.
const (
	ContactCustomer = "customer"
	ContactVendor   = "vendor"
	ContactAdmin    = "admin"
)

// Contact is the business-partner record behind invoices, bills and payments.
// A contact may be linked back to a user account for storefront customers.
type Contact struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Type         string     `json:"type" db:"type"`
	Email        string     `json:"email" db:"email"`
	Mobile       string     `json:"mobile" db:"mobile"`
	City         string     `json:"city" db:"city"`
	State        string     `json:"state" db:"state"`
	Pincode      string     `json:"pincode" db:"pincode"`
	LinkedUserID *uuid.UUID `json:"linked_user_id,omitempty" db:"linked_user_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
