package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundingTemplate is a reusable funding plan, usually applied on payday.
type FundingTemplate struct {
	ID             string                     `json:"id"`
	Name           string                     `json:"name" example:"Payday"`
	DayOfMonth     int                        `json:"dayOfMonth" example:"15"`
	ExpectedAmount decimal.Decimal            `json:"expectedAmount" example:"2500"`
	Allocations    map[string]decimal.Decimal `json:"allocations"` // Envelope ID to amount
	CreatedAt      time.Time                  `json:"createdAt"`
}

// Total is the sum of all allocations.
func (t FundingTemplate) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range t.Allocations {
		total = total.Add(amount)
	}
	return total
}

// SpendingTemplate is a set of recurring expenses that are booked together.
type SpendingTemplate struct {
	ID        string            `json:"id"`
	Name      string            `json:"name" example:"Monthly bills"`
	Expenses  []TemplateExpense `json:"expenses"`
	CreatedAt time.Time         `json:"createdAt"`
}

type TemplateExpense struct {
	EnvelopeID  string          `json:"envelopeId"`
	Amount      decimal.Decimal `json:"amount" example:"89.99"`
	Description string          `json:"description" example:"Internet"`
	DayOfMonth  int             `json:"dayOfMonth,omitempty" example:"3"` // 0 if the expense has no due day
	AccountID   *string         `json:"accountId,omitempty"`
}
