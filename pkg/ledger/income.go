package ledger

import (
	"context"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// DefaultFrequency is used for income without a frequency.
const DefaultFrequency = "other"

type NewIncome struct {
	Source    string
	Amount    decimal.Decimal
	Date      types.Date
	Frequency string
	AccountID *string
}

// IncomeUpdate contains the editable fields of an income record.
// Nil fields are left unchanged, an AccountID pointing to "" removes the account.
type IncomeUpdate struct {
	Source    *string
	Amount    *decimal.Decimal
	Date      *types.Date
	Frequency *string
	AccountID *string
}

func (e *Engine) AddIncome(ctx context.Context, bc BudgetContext, n NewIncome) (models.Income, error) {
	if n.Frequency == "" {
		n.Frequency = DefaultFrequency
	}

	if n.Date.IsZero() {
		n.Date = e.Today()
	}

	income := models.Income{
		ID:        models.NewID(),
		Source:    n.Source,
		Frequency: n.Frequency,
		Amount:    n.Amount,
		Date:      n.Date,
		Allocated: false,
		AccountID: n.AccountID,
	}

	if income.AccountID != nil && *income.AccountID == "" {
		income.AccountID = nil
	}

	err := e.mutate(ctx, bc, "add_income", func(s store.Store) error {
		list, err := load[models.Income](ctx, s, bc, store.Income)
		if err != nil {
			return err
		}

		return save(ctx, s, bc, store.Income, append(list, income))
	})
	if err != nil {
		return models.Income{}, err
	}

	return income, nil
}

func (e *Engine) Income(ctx context.Context, bc BudgetContext) ([]models.Income, error) {
	return load[models.Income](ctx, e.store, bc, store.Income)
}

func (e *Engine) IncomeRecord(ctx context.Context, bc BudgetContext, id string) (models.Income, error) {
	list, err := e.Income(ctx, bc)
	if err != nil {
		return models.Income{}, err
	}

	i := slices.IndexFunc(list, func(i models.Income) bool { return i.ID == id })
	if i == -1 {
		return models.Income{}, notFound("income", id)
	}

	return list[i], nil
}

func (e *Engine) UpdateIncome(ctx context.Context, bc BudgetContext, id string, u IncomeUpdate) (models.Income, error) {
	var updated models.Income

	err := e.mutate(ctx, bc, "update_income", func(s store.Store) error {
		list, err := load[models.Income](ctx, s, bc, store.Income)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(list, func(i models.Income) bool { return i.ID == id })
		if i == -1 {
			return notFound("income", id)
		}

		if u.Source != nil {
			list[i].Source = *u.Source
		}
		if u.Amount != nil {
			list[i].Amount = *u.Amount
		}
		if u.Date != nil {
			list[i].Date = *u.Date
		}
		if u.Frequency != nil {
			list[i].Frequency = *u.Frequency
		}
		if u.AccountID != nil {
			list[i].AccountID = models.Ref(*u.AccountID)
		}

		updated = list[i]
		return save(ctx, s, bc, store.Income, list)
	})

	return updated, err
}

func (e *Engine) DeleteIncome(ctx context.Context, bc BudgetContext, id string) error {
	return e.mutate(ctx, bc, "delete_income", func(s store.Store) error {
		list, err := load[models.Income](ctx, s, bc, store.Income)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(list, func(i models.Income) bool { return i.ID == id })
		if i == -1 {
			return notFound("income", id)
		}

		return save(ctx, s, bc, store.Income, slices.Delete(list, i, i+1))
	})
}

// AvailableToFund is all income minus everything moved into envelopes.
// It is negative when envelopes were funded with more than was received.
func (e *Engine) AvailableToFund(ctx context.Context, bc BudgetContext) (decimal.Decimal, error) {
	return availableToFund(ctx, e.store, bc)
}

func availableToFund(ctx context.Context, s store.Store, bc BudgetContext) (decimal.Decimal, error) {
	income, err := load[models.Income](ctx, s, bc, store.Income)
	if err != nil {
		return decimal.Zero, err
	}

	envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
	if err != nil {
		return decimal.Zero, err
	}

	available := decimal.Zero
	for _, i := range income {
		available = available.Add(i.Amount)
	}

	return available.Sub(totals(envelopes).Funded), nil
}
