// Package models contains the records the ledger stores per budget.
//
// All money amounts are decimals. They are encoded as JSON numbers so that
// backups stay readable by older clients.
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// NewID returns a new random identifier for a record.
func NewID() string {
	return uuid.New().String()
}

// Ref returns a reference to id, or nil if id is empty.
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Is reports whether the optional reference points to id.
func Is(ref *string, id string) bool {
	return ref != nil && *ref == id
}
