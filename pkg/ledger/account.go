package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// AccountUpdate contains the editable fields of an account. Nil fields are left unchanged.
type AccountUpdate struct {
	Name    *string
	Type    *string
	Balance *decimal.Decimal
}

// RegisterLine is a transaction or income record on an account together
// with the account balance after it.
type RegisterLine struct {
	ID                string                   `json:"id"`
	Date              types.Date               `json:"date"`
	Description       string                   `json:"description"`
	Amount            decimal.Decimal          `json:"amount"`
	Type              models.TransactionType   `json:"type"`
	Status            models.TransactionStatus `json:"status"`
	EnvelopeID        *string                  `json:"envelopeId"`
	TransferAccountID *string                  `json:"transferAccountId,omitempty"`
	IsIncome          bool                     `json:"isIncome"` // The line is an income record, not a transaction
	Balance           decimal.Decimal          `json:"balance"`

	change decimal.Decimal
}

type RegisterSummary struct {
	Current   decimal.Decimal `json:"current"`   // Balance after the last cleared line
	Projected decimal.Decimal `json:"projected"` // Balance after all lines
	Lowest    decimal.Decimal `json:"lowest"`
	Pending   int             `json:"pending"` // Number of pending lines
}

// Register is the account's history in date order.
type Register struct {
	Account models.Account  `json:"account"`
	Lines   []RegisterLine  `json:"lines"`
	Summary RegisterSummary `json:"summary"`
}

func (e *Engine) CreateAccount(ctx context.Context, bc BudgetContext, name, accountType string, balance decimal.Decimal) (models.Account, error) {
	if strings.TrimSpace(name) == "" {
		return models.Account{}, invalid("the account name must not be empty")
	}

	account := models.Account{
		ID:        models.NewID(),
		Name:      name,
		Type:      accountType,
		Balance:   balance,
		CreatedAt: e.now().UTC(),
	}

	err := e.mutate(ctx, bc, "create_account", func(s store.Store) error {
		accounts, err := load[models.Account](ctx, s, bc, store.Accounts)
		if err != nil {
			return err
		}

		return save(ctx, s, bc, store.Accounts, append(accounts, account))
	})
	if err != nil {
		return models.Account{}, err
	}

	return account, nil
}

func (e *Engine) Accounts(ctx context.Context, bc BudgetContext) ([]models.Account, error) {
	return load[models.Account](ctx, e.store, bc, store.Accounts)
}

func (e *Engine) Account(ctx context.Context, bc BudgetContext, id string) (models.Account, error) {
	return account(ctx, e.store, bc, id)
}

func account(ctx context.Context, s store.Store, bc BudgetContext, id string) (models.Account, error) {
	accounts, err := load[models.Account](ctx, s, bc, store.Accounts)
	if err != nil {
		return models.Account{}, err
	}

	i := slices.IndexFunc(accounts, func(a models.Account) bool { return a.ID == id })
	if i == -1 {
		return models.Account{}, notFound("account", id)
	}

	return accounts[i], nil
}

func (e *Engine) UpdateAccount(ctx context.Context, bc BudgetContext, id string, u AccountUpdate) (models.Account, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return models.Account{}, invalid("the account name must not be empty")
	}

	var updated models.Account
	err := e.mutate(ctx, bc, "update_account", func(s store.Store) error {
		accounts, err := load[models.Account](ctx, s, bc, store.Accounts)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(accounts, func(a models.Account) bool { return a.ID == id })
		if i == -1 {
			return notFound("account", id)
		}

		if u.Name != nil {
			accounts[i].Name = *u.Name
		}
		if u.Type != nil {
			accounts[i].Type = *u.Type
		}
		if u.Balance != nil {
			accounts[i].Balance = *u.Balance
		}

		updated = accounts[i]
		return save(ctx, s, bc, store.Accounts, accounts)
	})

	return updated, err
}

// DeleteAccount removes the account. Transactions and income on the account
// are kept without an account.
func (e *Engine) DeleteAccount(ctx context.Context, bc BudgetContext, id string) error {
	return e.mutate(ctx, bc, "delete_account", func(s store.Store) error {
		accounts, err := load[models.Account](ctx, s, bc, store.Accounts)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(accounts, func(a models.Account) bool { return a.ID == id })
		if i == -1 {
			return notFound("account", id)
		}

		transactions, err := load[models.Transaction](ctx, s, bc, store.Transactions)
		if err != nil {
			return err
		}

		for j := range transactions {
			if models.Is(transactions[j].AccountID, id) {
				transactions[j].AccountID = nil
			}
			if models.Is(transactions[j].TransferAccountID, id) {
				transactions[j].TransferAccountID = nil
			}
		}

		income, err := load[models.Income](ctx, s, bc, store.Income)
		if err != nil {
			return err
		}

		for j := range income {
			if models.Is(income[j].AccountID, id) {
				income[j].AccountID = nil
			}
		}

		if err := save(ctx, s, bc, store.Transactions, transactions); err != nil {
			return err
		}

		if err := save(ctx, s, bc, store.Income, income); err != nil {
			return err
		}

		return save(ctx, s, bc, store.Accounts, slices.Delete(accounts, i, i+1))
	})
}

// AccountBalance is the starting balance plus income deposited to the account
// plus income transactions minus all other transactions on the account.
// Unknown accounts have a balance of 0.
func (e *Engine) AccountBalance(ctx context.Context, bc BudgetContext, id string) (decimal.Decimal, error) {
	register, err := e.AccountRegister(ctx, bc, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return register.Summary.Projected, nil
}

// TotalAccountsBalance sums the balances of all accounts.
func (e *Engine) TotalAccountsBalance(ctx context.Context, bc BudgetContext) (decimal.Decimal, error) {
	accounts, err := e.Accounts(ctx, bc)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range accounts {
		balance, err := e.AccountBalance(ctx, bc, a.ID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(balance)
	}

	return total, nil
}

// AccountRegister merges the transactions and income of an account, sorts
// them by date and computes the running balance.
func (e *Engine) AccountRegister(ctx context.Context, bc BudgetContext, id string) (Register, error) {
	account, err := e.Account(ctx, bc, id)
	if err != nil {
		return Register{}, err
	}

	transactions, err := e.Transactions(ctx, bc, TransactionFilter{AccountID: id})
	if err != nil {
		return Register{}, err
	}

	income, err := e.Income(ctx, bc)
	if err != nil {
		return Register{}, err
	}

	lines := make([]RegisterLine, 0, len(transactions))
	for _, t := range transactions {
		lines = append(lines, RegisterLine{
			ID:                t.ID,
			Date:              t.Date,
			Description:       t.Description,
			Amount:            t.Amount,
			Type:              t.Type,
			Status:            t.Status,
			EnvelopeID:        t.EnvelopeID,
			TransferAccountID: t.TransferAccountID,
			change:            t.Signed(),
		})
	}

	for _, i := range income {
		if !models.Is(i.AccountID, id) {
			continue
		}

		lines = append(lines, RegisterLine{
			ID:          i.ID,
			Date:        i.Date,
			Description: i.Source,
			Amount:      i.Amount,
			Type:        models.TypeIncome,
			Status:      models.StatusCleared,
			IsIncome:    true,
			change:      i.Amount,
		})
	}

	slices.SortStableFunc(lines, func(a, b RegisterLine) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})

	summary := RegisterSummary{
		Current:   account.Balance,
		Projected: account.Balance,
		Lowest:    account.Balance,
	}

	balance := account.Balance
	for i := range lines {
		balance = balance.Add(lines[i].change)
		lines[i].Balance = balance

		if lines[i].Status == models.StatusPending {
			summary.Pending++
		} else {
			summary.Current = balance
		}

		if balance.LessThan(summary.Lowest) || i == 0 {
			summary.Lowest = balance
		}
	}
	summary.Projected = balance

	return Register{Account: account, Lines: lines, Summary: summary}, nil
}
