package ledger

import (
	"context"
	"fmt"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
)

// TransactionKind selects what a register entry books.
// It is implemented by ExpenseKind, IncomeKind and TransferKind.
type TransactionKind interface {
	kind() string
}

// ExpenseKind books an expense, charged to the envelope if one is given.
type ExpenseKind struct {
	EnvelopeID *string
}

// IncomeKind books money coming into the account.
type IncomeKind struct{}

// TransferKind moves money between the account and its counterpart. A
// positive amount moves money into the account, a negative one out of it.
type TransferKind struct {
	CounterpartAccountID string
}

func (ExpenseKind) kind() string  { return "expense" }
func (IncomeKind) kind() string   { return "income" }
func (TransferKind) kind() string { return "transfer" }

// RegisterEntry is a new line in an account register.
type RegisterEntry struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Date        types.Date
	Status      models.TransactionStatus
	Kind        TransactionKind
}

// AddRegisterEntry books an entry on an account. Expenses and income are
// booked with the absolute amount, the kind decides the direction. Transfers
// create two transactions, one on each account.
func (e *Engine) AddRegisterEntry(ctx context.Context, bc BudgetContext, entry RegisterEntry) ([]models.Transaction, error) {
	if entry.AccountID == "" {
		return nil, ErrAccountIDRequired
	}

	if entry.Kind == nil {
		return nil, invalid("an envelope or transaction type must be selected")
	}

	var booked []models.Transaction
	err := e.mutate(ctx, bc, "add_register_entry_"+entry.Kind.kind(), func(s store.Store) (err error) {
		booked, err = e.addRegisterEntry(ctx, s, bc, entry)
		return err
	})

	return booked, err
}

func (e *Engine) addRegisterEntry(ctx context.Context, s store.Store, bc BudgetContext, entry RegisterEntry) ([]models.Transaction, error) {
	base := NewAccountTransaction{
		AccountID:   entry.AccountID,
		Amount:      entry.Amount.Abs(),
		Description: entry.Description,
		Date:        entry.Date,
		Status:      entry.Status,
	}

	switch k := entry.Kind.(type) {
	case ExpenseKind:
		base.Type = models.TypeExpense
		base.EnvelopeID = k.EnvelopeID

		t, err := e.addAccountTransaction(ctx, s, bc, base)
		if err != nil {
			return nil, err
		}
		return []models.Transaction{t}, nil

	case IncomeKind:
		base.Type = models.TypeIncome

		t, err := e.addAccountTransaction(ctx, s, bc, base)
		if err != nil {
			return nil, err
		}
		return []models.Transaction{t}, nil

	case TransferKind:
		return e.transfer(ctx, s, bc, entry, k)
	}

	return nil, invalid("unknown transaction kind %T", entry.Kind)
}

func (e *Engine) transfer(ctx context.Context, s store.Store, bc BudgetContext, entry RegisterEntry, k TransferKind) ([]models.Transaction, error) {
	if k.CounterpartAccountID == "" {
		return nil, invalid("an account to transfer to or from is required")
	}

	if k.CounterpartAccountID == entry.AccountID {
		return nil, invalid("source and destination accounts of a transfer must be different")
	}

	own, err := account(ctx, s, bc, entry.AccountID)
	if err != nil {
		return nil, err
	}

	counterpart, err := account(ctx, s, bc, k.CounterpartAccountID)
	if err != nil {
		return nil, err
	}

	// Money flows from source to destination
	source, destination := counterpart, own
	if !entry.Amount.IsPositive() {
		source, destination = own, counterpart
	}

	in := NewAccountTransaction{
		AccountID:   destination.ID,
		Amount:      entry.Amount.Abs(),
		Description: fmt.Sprintf("Transfer from %s", source.Name),
		Date:        entry.Date,
		Status:      entry.Status,
		Type:        models.TypeIncome,

		TransferAccountID: models.Ref(source.ID),
	}

	out := in
	out.AccountID = source.ID
	out.Description = fmt.Sprintf("Transfer to %s", destination.Name)
	out.Type = models.TypeExpense
	out.TransferAccountID = models.Ref(destination.ID)

	booked := make([]models.Transaction, 0, 2)
	for _, n := range []NewAccountTransaction{in, out} {
		t, err := e.addAccountTransaction(ctx, s, bc, n)
		if err != nil {
			return nil, err
		}
		booked = append(booked, t)
	}

	return booked, nil
}
