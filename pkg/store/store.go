// Package store is the persistence gateway of the ledger: a key-value store
// with whole-collection values, namespaced per budget.
package store

import (
	"context"
	"fmt"
)

// Store reads and writes whole values by key.
type Store interface {
	// Get returns the value for key. If nothing is stored, the error wraps ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Has reports whether a value is stored for key.
	Has(ctx context.Context, key string) (bool, error)

	// Atomic runs fn with a Store whose writes are applied together or not at all.
	Atomic(ctx context.Context, fn func(Store) error) error
}

// Collection is the name of a budget scoped collection.
type Collection string

const (
	Envelopes         Collection = "envelopes"
	Income            Collection = "income"
	Transactions      Collection = "transactions"
	BankBalance       Collection = "bankBalance"
	FundingTemplates  Collection = "fundingTemplates"
	SpendingTemplates Collection = "spendingTemplates"
	Accounts          Collection = "accounts"
	CurrentMonth      Collection = "currentMonth"
	MonthArchives     Collection = "monthArchives"
)

// Collections lists every budget scoped collection.
var Collections = []Collection{
	Envelopes,
	Income,
	Transactions,
	BankBalance,
	FundingTemplates,
	SpendingTemplates,
	Accounts,
	CurrentMonth,
	MonthArchives,
}

// Global keys that are not scoped to a budget.
const (
	KeyBudgets      = "budgetApp_budgets"
	KeyActiveBudget = "budgetApp_activeBudget"
	KeyLastSync     = "budgetApp_lastSync" // Export date of the last cloud push or pull
)

// legacyPrefix is the namespace used before multiple budgets existed.
const legacyPrefix = "budgetApp"

// Key returns the storage key of a collection for a budget.
func Key(budgetID string, c Collection) string {
	return fmt.Sprintf("%s_%s", budgetID, c)
}

// LegacyKey returns the key a collection had before data was namespaced by budget.
func LegacyKey(c Collection) string {
	return Key(legacyPrefix, c)
}

// BudgetKeys returns all keys that hold data of the budget.
func BudgetKeys(budgetID string) []string {
	keys := make([]string, 0, len(Collections))
	for _, c := range Collections {
		keys = append(keys, Key(budgetID, c))
	}

	return keys
}
