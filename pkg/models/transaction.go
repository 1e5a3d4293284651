package models

import (
	"github.com/envelope-ledger/backend/internal/types"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusCleared TransactionStatus = "cleared"
	StatusPending TransactionStatus = "pending"
)

type TransactionType string

const (
	TypeExpense  TransactionType = "expense"
	TypeIncome   TransactionType = "income"
	TypeTransfer TransactionType = "transfer"
)

// Transaction is a single entry in the ledger. Amounts are always positive,
// the type decides the direction.
type Transaction struct {
	ID                string            `json:"id"`
	EnvelopeID        *string           `json:"envelopeId"`
	Amount            decimal.Decimal   `json:"amount" example:"25.99"`
	Description       string            `json:"description" example:"Farmers market"`
	Date              types.Date        `json:"date" example:"2024-03-14"`
	AccountID         *string           `json:"accountId"`
	Status            TransactionStatus `json:"status" example:"cleared"`
	Type              TransactionType   `json:"type" example:"expense"`
	TransferAccountID *string           `json:"transferAccountId,omitempty"` // The other side of a transfer
}

// Cleared reports if the transaction has cleared. Records written
// before statuses existed count as cleared.
func (t Transaction) Cleared() bool {
	return t.Status != StatusPending
}

// Expense reports if the transaction takes money out of its account.
func (t Transaction) Expense() bool {
	return t.Type != TypeIncome
}

// CountsAgainst reports whether the transaction is part of the spent amount
// of the envelope with the given ID.
func (t Transaction) CountsAgainst(envelopeID string) bool {
	return t.Cleared() && t.Type != TypeIncome && t.Type != TypeTransfer && Is(t.EnvelopeID, envelopeID)
}

// Effect returns the ID of the envelope whose spent amount includes the
// transaction, or nil if there is none.
func (t Transaction) Effect() *string {
	if t.EnvelopeID == nil || !t.CountsAgainst(*t.EnvelopeID) {
		return nil
	}
	return t.EnvelopeID
}

// Signed returns the amount as it changes the account balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Expense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ValidStatus reports if s is a known transaction status.
func ValidStatus(s TransactionStatus) bool {
	return s == StatusCleared || s == StatusPending
}

// ValidType reports if t is a known transaction type.
func ValidType(t TransactionType) bool {
	return t == TypeExpense || t == TypeIncome || t == TypeTransfer
}
