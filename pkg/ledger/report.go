package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// MonthReport summarizes the money flow of a month.
type MonthReport struct {
	MonthKey         string                     `json:"monthKey"`
	Archived         bool                       `json:"archived"`
	TotalIncome      decimal.Decimal            `json:"totalIncome"`
	TotalAllocated   decimal.Decimal            `json:"totalAllocated"`
	TotalSpent       decimal.Decimal            `json:"totalSpent"`
	Unspent          decimal.Decimal            `json:"unspent"`
	Envelopes        []models.EnvelopeSnapshot  `json:"envelopes"`
	CategorySpending map[string]decimal.Decimal `json:"categorySpending"`
}

// MonthReport reports on an archived month, or on the current month if
// monthKey is empty or no archive exists for it.
//
// Archives do not record income, so the funded total is reported as income
// for archived months.
func (e *Engine) MonthReport(ctx context.Context, bc BudgetContext, monthKey string) (MonthReport, error) {
	if monthKey != "" {
		archive, err := e.MonthArchive(ctx, bc, monthKey)
		if err == nil {
			return report(archive.MonthKey, true, archive.Summary.TotalFunded, archive.EnvelopeSnapshots), nil
		}

		if !errors.Is(err, ErrNotFound) {
			return MonthReport{}, err
		}
	}

	current, err := e.CurrentMonth(ctx, bc)
	if err != nil {
		return MonthReport{}, err
	}

	income, err := e.Income(ctx, bc)
	if err != nil {
		return MonthReport{}, err
	}

	envelopes, err := e.Envelopes(ctx, bc)
	if err != nil {
		return MonthReport{}, err
	}

	totalIncome := decimal.Zero
	for _, i := range income {
		totalIncome = totalIncome.Add(i.Amount)
	}

	return report(current.MonthKey, false, totalIncome, snapshot(current, envelopes).EnvelopeSnapshots), nil
}

func report(monthKey string, archived bool, income decimal.Decimal, envelopes []models.EnvelopeSnapshot) MonthReport {
	r := MonthReport{
		MonthKey:         monthKey,
		Archived:         archived,
		TotalIncome:      income,
		TotalAllocated:   decimal.Zero,
		TotalSpent:       decimal.Zero,
		Envelopes:        envelopes,
		CategorySpending: map[string]decimal.Decimal{},
	}

	for _, env := range envelopes {
		r.TotalAllocated = r.TotalAllocated.Add(env.Funded)
		r.TotalSpent = r.TotalSpent.Add(env.Spent)

		if env.Spent.IsPositive() {
			r.CategorySpending[env.Category] = r.CategorySpending[env.Category].Add(env.Spent)
		}
	}

	r.Unspent = r.TotalAllocated.Sub(r.TotalSpent)
	return r
}

// BankBalance returns the balance the cash flow projection starts from. It is 0 until set.
func (e *Engine) BankBalance(ctx context.Context, bc BudgetContext) (decimal.Decimal, error) {
	return store.Load(ctx, e.store, bc.key(store.BankBalance), decimal.Zero)
}

func (e *Engine) SetBankBalance(ctx context.Context, bc BudgetContext, balance decimal.Decimal) error {
	return e.mutate(ctx, bc, "set_bank_balance", func(s store.Store) error {
		return store.Save(ctx, s, bc.key(store.BankBalance), balance)
	})
}

// CashFlowItem is an income or a transaction on a day of the cash flow projection.
type CashFlowItem struct {
	Type        models.TransactionType `json:"type"` // income or expense
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
}

type CashFlowDay struct {
	Date    types.Date      `json:"date"`
	Balance decimal.Decimal `json:"balance"` // Balance at the end of the day
	Items   []CashFlowItem  `json:"items"`
}

type CashFlowSummary struct {
	Starting decimal.Decimal `json:"starting"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Ending   decimal.Decimal `json:"ending"`
	Lowest   decimal.Decimal `json:"lowest"`
}

type CashFlow struct {
	Days    []CashFlowDay   `json:"days"`
	Summary CashFlowSummary `json:"summary"`
}

var frequencyLabels = map[string]string{
	"weekly":      "Weekly",
	"biweekly":    "Biweekly (Every 2 weeks)",
	"semimonthly": "Twice Monthly",
	"monthly":     "Monthly",
	"quarterly":   "Quarterly",
	"annually":    "Annually",
	"other":       "One-time/Other",
}

func frequencyLabel(frequency string) string {
	if label, ok := frequencyLabels[frequency]; ok {
		return label
	}
	return "Other"
}

// CashFlowTimeline projects the bank balance day by day, starting today.
// Income dated on a day adds to the balance, transactions dated on a day
// are subtracted from it.
func (e *Engine) CashFlowTimeline(ctx context.Context, bc BudgetContext, days int) (CashFlow, error) {
	if days < 1 {
		return CashFlow{}, invalid("the number of days must be positive, got %d", days)
	}

	balance, err := e.BankBalance(ctx, bc)
	if err != nil {
		return CashFlow{}, err
	}

	income, err := e.Income(ctx, bc)
	if err != nil {
		return CashFlow{}, err
	}

	transactions, err := e.Transactions(ctx, bc, TransactionFilter{})
	if err != nil {
		return CashFlow{}, err
	}

	envelopes, err := e.Envelopes(ctx, bc)
	if err != nil {
		return CashFlow{}, err
	}

	flow := CashFlow{
		Days: make([]CashFlowDay, 0, days),
		Summary: CashFlowSummary{
			Starting: balance,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		},
	}

	today := e.Today()
	for n := 0; n < days; n++ {
		day := CashFlowDay{Date: today.AddDays(n), Items: []CashFlowItem{}}

		for _, i := range income {
			if !i.Date.Equal(day.Date) {
				continue
			}

			description := i.Source
			if i.Frequency != "" {
				description = fmt.Sprintf("%s (%s)", i.Source, frequencyLabel(i.Frequency))
			}

			day.Items = append(day.Items, CashFlowItem{Type: models.TypeIncome, Description: description, Amount: i.Amount})
			balance = balance.Add(i.Amount)
			flow.Summary.Income = flow.Summary.Income.Add(i.Amount)
		}

		for _, t := range transactions {
			if !t.Date.Equal(day.Date) {
				continue
			}

			name := "Unknown"
			if t.EnvelopeID != nil {
				if j := slices.IndexFunc(envelopes, func(env models.Envelope) bool { return env.ID == *t.EnvelopeID }); j != -1 {
					name = envelopes[j].Name
				}
			}

			day.Items = append(day.Items, CashFlowItem{
				Type:        models.TypeExpense,
				Description: fmt.Sprintf("%s (%s)", t.Description, name),
				Amount:      t.Amount,
			})
			balance = balance.Sub(t.Amount)
			flow.Summary.Expenses = flow.Summary.Expenses.Add(t.Amount)
		}

		day.Balance = balance
		if n == 0 || balance.LessThan(flow.Summary.Lowest) {
			flow.Summary.Lowest = balance
		}

		flow.Days = append(flow.Days, day)
	}

	flow.Summary.Ending = balance
	return flow, nil
}
