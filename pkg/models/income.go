package models

import (
	"github.com/envelope-ledger/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Income is money received that can be distributed to envelopes.
type Income struct {
	ID        string          `json:"id"`
	Source    string          `json:"source" example:"Salary"`
	Frequency string          `json:"frequency" example:"biweekly"`
	Amount    decimal.Decimal `json:"amount" example:"2500"`
	Date      types.Date      `json:"date" example:"2024-03-01"`
	Allocated bool            `json:"allocated"` // Informational only
	AccountID *string         `json:"accountId"` // Account the income was deposited to
}
