package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank or credit account. Its balance is derived from the
// starting balance and everything booked on it, it is never stored.
type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name" example:"Checking"`
	Type      string          `json:"type" example:"checking"`
	Balance   decimal.Decimal `json:"balance" example:"1200"` // Starting balance
	CreatedAt time.Time       `json:"createdAt"`
}
