package domain

import "time"

// SystemSettings is the single-row global configuration. The schema enforces
// singleton-ness; the settings service keeps an in-memory copy shared with
// the order workflow.
type SystemSettings struct {
	AutomaticInvoicing bool      `json:"automatic_invoicing" db:"automatic_invoicing"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
