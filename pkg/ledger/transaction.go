package ledger

import (
	"context"
	"strings"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// NewTransaction is a transaction booked against an envelope.
type NewTransaction struct {
	EnvelopeID  string
	Amount      decimal.Decimal
	Description string
	Date        types.Date
	AccountID   *string
	Status      models.TransactionStatus // Defaults to cleared
	Type        models.TransactionType   // Defaults to expense
}

// NewAccountTransaction is a transaction booked on an account. The envelope is optional.
type NewAccountTransaction struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Date        types.Date
	Status      models.TransactionStatus
	Type        models.TransactionType
	EnvelopeID  *string

	TransferAccountID *string // The other account of a transfer
}

// TransactionFilter restricts the transactions returned by Transactions.
// Empty fields do not filter.
type TransactionFilter struct {
	EnvelopeID  string
	AccountID   string
	Description string // Glob pattern, matched case-insensitive
	Status      models.TransactionStatus
	Type        models.TransactionType
}

// TransactionEdit contains the editable fields of a transaction. Nil fields
// are left unchanged. An EnvelopeID pointing to "" unassigns the envelope.
type TransactionEdit struct {
	Amount      *decimal.Decimal
	Date        *types.Date
	Description *string
	EnvelopeID  *string
	Status      *models.TransactionStatus
}

// EditOptions control how edits handle envelopes that would be overdrawn.
type EditOptions struct {
	// AllowOverdraft confirms that the edit may leave the envelope with
	// a negative balance. Without it, such edits fail with an *OverdraftError.
	AllowOverdraft bool
}

func defaults(status models.TransactionStatus, typ models.TransactionType) (models.TransactionStatus, models.TransactionType, error) {
	if status == "" {
		status = models.StatusCleared
	}
	if typ == "" {
		typ = models.TypeExpense
	}

	if !models.ValidStatus(status) {
		return "", "", invalid("unknown transaction status %q", status)
	}
	if !models.ValidType(typ) {
		return "", "", invalid("unknown transaction type %q", typ)
	}

	return status, typ, nil
}

// AddTransaction books a transaction against an envelope.
//
// The envelope must exist. Cleared expenses must not exceed the envelope
// balance and are added to its spent amount.
func (e *Engine) AddTransaction(ctx context.Context, bc BudgetContext, n NewTransaction) (models.Transaction, error) {
	var transaction models.Transaction

	err := e.mutate(ctx, bc, "add_transaction", func(s store.Store) (err error) {
		transaction, err = e.addTransaction(ctx, s, bc, n)
		return err
	})

	return transaction, err
}

func (e *Engine) addTransaction(ctx context.Context, s store.Store, bc BudgetContext, n NewTransaction) (models.Transaction, error) {
	if n.Amount.IsNegative() {
		return models.Transaction{}, invalid("the amount must not be negative")
	}

	status, typ, err := defaults(n.Status, n.Type)
	if err != nil {
		return models.Transaction{}, err
	}

	envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
	if err != nil {
		return models.Transaction{}, err
	}

	i := slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == n.EnvelopeID })
	if i == -1 {
		return models.Transaction{}, notFound("envelope", n.EnvelopeID)
	}

	return e.book(ctx, s, bc, envelopes, i, models.Transaction{
		EnvelopeID:  models.Ref(n.EnvelopeID),
		Amount:      n.Amount,
		Description: n.Description,
		Date:        n.Date,
		AccountID:   n.AccountID,
		Status:      status,
		Type:        typ,
	})
}

// AddAccountTransaction books a transaction on an account. If an envelope
// is given for a cleared expense, the same rules as for AddTransaction apply.
func (e *Engine) AddAccountTransaction(ctx context.Context, bc BudgetContext, n NewAccountTransaction) (models.Transaction, error) {
	if n.AccountID == "" {
		return models.Transaction{}, ErrAccountIDRequired
	}

	var transaction models.Transaction
	err := e.mutate(ctx, bc, "add_account_transaction", func(s store.Store) (err error) {
		transaction, err = e.addAccountTransaction(ctx, s, bc, n)
		return err
	})

	return transaction, err
}

func (e *Engine) addAccountTransaction(ctx context.Context, s store.Store, bc BudgetContext, n NewAccountTransaction) (models.Transaction, error) {
	if n.AccountID == "" {
		return models.Transaction{}, ErrAccountIDRequired
	}

	if n.Amount.IsNegative() {
		return models.Transaction{}, invalid("the amount must not be negative")
	}

	status, typ, err := defaults(n.Status, n.Type)
	if err != nil {
		return models.Transaction{}, err
	}

	transaction := models.Transaction{
		EnvelopeID:  n.EnvelopeID,
		Amount:      n.Amount,
		Description: n.Description,
		Date:        n.Date,
		AccountID:   models.Ref(n.AccountID),
		Status:      status,
		Type:        typ,

		TransferAccountID: n.TransferAccountID,
	}

	if transaction.EnvelopeID != nil && *transaction.EnvelopeID == "" {
		transaction.EnvelopeID = nil
	}

	envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
	if err != nil {
		return models.Transaction{}, err
	}

	i := -1
	if env := transaction.Effect(); env != nil {
		i = slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == *env })
		if i == -1 {
			return models.Transaction{}, notFound("envelope", *env)
		}
	}

	return e.book(ctx, s, bc, envelopes, i, transaction)
}

// book stores the transaction. If it affects the envelope at index i, the
// envelope balance is checked and its spent amount updated.
func (e *Engine) book(ctx context.Context, s store.Store, bc BudgetContext, envelopes []models.Envelope, i int, t models.Transaction) (models.Transaction, error) {
	t.ID = models.NewID()
	if t.Date.IsZero() {
		t.Date = e.Today()
	}

	if t.Effect() != nil && i != -1 {
		balance := envelopes[i].Balance()
		if t.Amount.GreaterThan(balance) {
			return models.Transaction{}, &InsufficientFundsError{Source: SourceEnvelope, Requested: t.Amount, Available: balance}
		}

		envelopes[i].Spent = envelopes[i].Spent.Add(t.Amount)
		if err := save(ctx, s, bc, store.Envelopes, envelopes); err != nil {
			return models.Transaction{}, err
		}
	}

	transactions, err := load[models.Transaction](ctx, s, bc, store.Transactions)
	if err != nil {
		return models.Transaction{}, err
	}

	return t, save(ctx, s, bc, store.Transactions, append(transactions, t))
}

// WouldOverdraw reports whether spending amount from the envelope exceeds
// its balance. The balance is returned so callers can ask for confirmation.
func (e *Engine) WouldOverdraw(ctx context.Context, bc BudgetContext, envelopeID string, amount decimal.Decimal) (bool, decimal.Decimal, error) {
	balance, err := e.EnvelopeBalance(ctx, bc, envelopeID)
	if err != nil {
		return false, decimal.Zero, err
	}

	return amount.GreaterThan(balance), balance, nil
}

func (e *Engine) Transactions(ctx context.Context, bc BudgetContext, filter TransactionFilter) ([]models.Transaction, error) {
	transactions, err := load[models.Transaction](ctx, e.store, bc, store.Transactions)
	if err != nil {
		return nil, err
	}

	pattern := strings.ToLower(filter.Description)
	matches := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if filter.EnvelopeID != "" && !models.Is(t.EnvelopeID, filter.EnvelopeID) {
			continue
		}
		if filter.AccountID != "" && !models.Is(t.AccountID, filter.AccountID) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if pattern != "" && !glob.Glob(pattern, strings.ToLower(t.Description)) {
			continue
		}

		matches = append(matches, t)
	}

	return matches, nil
}

func (e *Engine) Transaction(ctx context.Context, bc BudgetContext, id string) (models.Transaction, error) {
	transactions, err := load[models.Transaction](ctx, e.store, bc, store.Transactions)
	if err != nil {
		return models.Transaction{}, err
	}

	i := slices.IndexFunc(transactions, func(t models.Transaction) bool { return t.ID == id })
	if i == -1 {
		return models.Transaction{}, notFound("transaction", id)
	}

	return transactions[i], nil
}

// EditTransaction changes a transaction and keeps envelope spent amounts
// consistent: the old effect is reversed on the previously charged envelope
// before the new effect is applied to the newly charged one.
func (e *Engine) EditTransaction(ctx context.Context, bc BudgetContext, id string, edit TransactionEdit, opts EditOptions) (models.Transaction, error) {
	if edit.Amount != nil && edit.Amount.IsNegative() {
		return models.Transaction{}, invalid("the amount must not be negative")
	}
	if edit.Status != nil && !models.ValidStatus(*edit.Status) {
		return models.Transaction{}, invalid("unknown transaction status %q", *edit.Status)
	}

	var updated models.Transaction
	err := e.mutate(ctx, bc, "edit_transaction", func(s store.Store) (err error) {
		updated, err = editTransaction(ctx, s, bc, id, edit, opts)
		return err
	})

	return updated, err
}

func (e *Engine) UpdateTransactionAmount(ctx context.Context, bc BudgetContext, id string, amount decimal.Decimal, opts EditOptions) (models.Transaction, error) {
	return e.EditTransaction(ctx, bc, id, TransactionEdit{Amount: &amount}, opts)
}

// ReassignTransactionEnvelope moves the transaction to another envelope. An
// empty envelopeID unassigns it.
func (e *Engine) ReassignTransactionEnvelope(ctx context.Context, bc BudgetContext, id, envelopeID string, opts EditOptions) (models.Transaction, error) {
	return e.EditTransaction(ctx, bc, id, TransactionEdit{EnvelopeID: &envelopeID}, opts)
}

func (e *Engine) SetTransactionStatus(ctx context.Context, bc BudgetContext, id string, status models.TransactionStatus, opts EditOptions) (models.Transaction, error) {
	return e.EditTransaction(ctx, bc, id, TransactionEdit{Status: &status}, opts)
}

// ToggleTransactionStatus switches between cleared and pending.
func (e *Engine) ToggleTransactionStatus(ctx context.Context, bc BudgetContext, id string, opts EditOptions) (models.Transaction, error) {
	t, err := e.Transaction(ctx, bc, id)
	if err != nil {
		return models.Transaction{}, err
	}

	status := models.StatusPending
	if !t.Cleared() {
		status = models.StatusCleared
	}

	return e.SetTransactionStatus(ctx, bc, id, status, opts)
}

// UpdateTransactionDate changes the date. Envelope amounts are not affected.
func (e *Engine) UpdateTransactionDate(ctx context.Context, bc BudgetContext, id string, date types.Date) (models.Transaction, error) {
	return e.EditTransaction(ctx, bc, id, TransactionEdit{Date: &date}, EditOptions{})
}

func editTransaction(ctx context.Context, s store.Store, bc BudgetContext, id string, edit TransactionEdit, opts EditOptions) (models.Transaction, error) {
	transactions, err := load[models.Transaction](ctx, s, bc, store.Transactions)
	if err != nil {
		return models.Transaction{}, err
	}

	i := slices.IndexFunc(transactions, func(t models.Transaction) bool { return t.ID == id })
	if i == -1 {
		return models.Transaction{}, notFound("transaction", id)
	}

	envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
	if err != nil {
		return models.Transaction{}, err
	}

	old := transactions[i]
	updated := old

	if edit.Amount != nil {
		updated.Amount = *edit.Amount
	}
	if edit.Date != nil {
		updated.Date = *edit.Date
	}
	if edit.Description != nil {
		updated.Description = *edit.Description
	}
	if edit.Status != nil {
		updated.Status = *edit.Status
	}
	if edit.EnvelopeID != nil {
		updated.EnvelopeID = models.Ref(*edit.EnvelopeID)

		if updated.EnvelopeID != nil && !models.Is(old.EnvelopeID, *updated.EnvelopeID) {
			if slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == *updated.EnvelopeID }) == -1 {
				return models.Transaction{}, notFound("envelope", *updated.EnvelopeID)
			}
		}
	}

	changed, err := applyEffect(envelopes, old, updated, opts)
	if err != nil {
		return models.Transaction{}, err
	}

	if changed {
		if err := save(ctx, s, bc, store.Envelopes, envelopes); err != nil {
			return models.Transaction{}, err
		}
	}

	transactions[i] = updated
	return updated, save(ctx, s, bc, store.Transactions, transactions)
}

// applyEffect reverses the effect of old and applies the effect of updated
// to the envelopes. It reports whether any envelope changed.
func applyEffect(envelopes []models.Envelope, old, updated models.Transaction, opts EditOptions) (bool, error) {
	index := func(ref *string) int {
		if ref == nil {
			return -1
		}
		return slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == *ref })
	}

	oldEffect, newEffect := old.Effect(), updated.Effect()
	if oldEffect == nil && newEffect == nil {
		return false, nil
	}

	if oldEffect != nil && newEffect != nil && *oldEffect == *newEffect && old.Amount.Equal(updated.Amount) {
		return false, nil
	}

	changed := false
	if i := index(oldEffect); i != -1 {
		envelopes[i].Spent = envelopes[i].Spent.Sub(old.Amount)
		changed = true
	}

	if i := index(newEffect); i != -1 {
		envelopes[i].Spent = envelopes[i].Spent.Add(updated.Amount)
		changed = true

		if balance := envelopes[i].Balance(); balance.IsNegative() && !opts.AllowOverdraft {
			return false, &OverdraftError{EnvelopeID: envelopes[i].ID, Balance: balance}
		}
	}

	return changed, nil
}

// DeleteTransaction removes the transaction and reverses its effect on the envelope.
func (e *Engine) DeleteTransaction(ctx context.Context, bc BudgetContext, id string) error {
	return e.mutate(ctx, bc, "delete_transaction", func(s store.Store) error {
		transactions, err := load[models.Transaction](ctx, s, bc, store.Transactions)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(transactions, func(t models.Transaction) bool { return t.ID == id })
		if i == -1 {
			return notFound("transaction", id)
		}

		if env := transactions[i].Effect(); env != nil {
			envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
			if err != nil {
				return err
			}

			if j := slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == *env }); j != -1 {
				envelopes[j].Spent = envelopes[j].Spent.Sub(transactions[i].Amount)
				if err := save(ctx, s, bc, store.Envelopes, envelopes); err != nil {
					return err
				}
			}
		}

		return save(ctx, s, bc, store.Transactions, slices.Delete(transactions, i, i+1))
	})
}
