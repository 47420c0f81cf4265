package models

// Order is a snapshot of a shop order as delivered by the host commerce
// platform. It is never persisted here; the shop owns the order lifecycle and
// this service only reads the fields needed to resolve entitlements.
type Order struct {
	ID         uint        `json:"id"`
	Reference  string      `json:"reference"`
	Paid       bool        `json:"paid"`
	CustomerID uint        `json:"customer_id"`
	Customer   Customer    `json:"customer"`
	Lines      []OrderLine `json:"lines"`
}

// Customer carries the buyer identity used to resolve or create the Moodle
// account. Accounts are keyed by e-mail address.
type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OrderLine is one purchased item. VariantID is nil when the product was
// bought without a variant selection.
type OrderLine struct {
	ID        uint  `json:"id"`
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
}
