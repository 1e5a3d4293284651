package models

import (
	"github.com/shopspring/decimal"
)

// DefaultCategory is used for envelopes created without a category.
const DefaultCategory = "needs"

// Envelope is a named budget bucket.
type Envelope struct {
	ID       string          `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	Name     string          `json:"name" example:"Groceries"`
	Planned  decimal.Decimal `json:"planned" example:"400"`  // Amount planned for the month
	Funded   decimal.Decimal `json:"funded" example:"350"`   // Amount moved into the envelope
	Spent    decimal.Decimal `json:"spent" example:"120.55"` // Sum of cleared expenses
	Category string          `json:"category" example:"needs"`
}

// Balance is what is left in the envelope. It is negative when overdrawn.
func (e Envelope) Balance() decimal.Decimal {
	return e.Funded.Sub(e.Spent)
}
