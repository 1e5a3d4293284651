package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"golang.org/x/exp/slices"
)

// SpendingTemplateUpdate contains the editable fields of a spending template.
// A non-nil Expenses slice replaces all expenses.
type SpendingTemplateUpdate struct {
	Name     *string
	Expenses []models.TemplateExpense
}

// FailedExpense is a template expense that could not be booked.
type FailedExpense struct {
	Description string `json:"description"`
	Error       string `json:"error"`
}

// SpendingTemplateResult lists the outcome for every expense of an applied template.
type SpendingTemplateResult struct {
	Success []string        `json:"success"` // Descriptions of the booked expenses
	Failed  []FailedExpense `json:"failed"`
}

func validExpenses(expenses []models.TemplateExpense) error {
	for _, x := range expenses {
		if x.EnvelopeID == "" {
			return invalid("every expense needs an envelope")
		}
		if x.Amount.IsNegative() {
			return invalid("the amount of %q must not be negative", x.Description)
		}
		if x.DayOfMonth != 0 {
			if err := validDay(x.DayOfMonth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) CreateSpendingTemplate(ctx context.Context, bc BudgetContext, name string, expenses []models.TemplateExpense) (models.SpendingTemplate, error) {
	if strings.TrimSpace(name) == "" {
		return models.SpendingTemplate{}, invalid("the template name must not be empty")
	}

	if err := validExpenses(expenses); err != nil {
		return models.SpendingTemplate{}, err
	}

	if expenses == nil {
		expenses = []models.TemplateExpense{}
	}

	template := models.SpendingTemplate{
		ID:        models.NewID(),
		Name:      name,
		Expenses:  expenses,
		CreatedAt: e.now().UTC(),
	}

	err := e.mutate(ctx, bc, "create_spending_template", func(s store.Store) error {
		templates, err := load[models.SpendingTemplate](ctx, s, bc, store.SpendingTemplates)
		if err != nil {
			return err
		}

		return save(ctx, s, bc, store.SpendingTemplates, append(templates, template))
	})
	if err != nil {
		return models.SpendingTemplate{}, err
	}

	return template, nil
}

func (e *Engine) SpendingTemplates(ctx context.Context, bc BudgetContext) ([]models.SpendingTemplate, error) {
	return load[models.SpendingTemplate](ctx, e.store, bc, store.SpendingTemplates)
}

func (e *Engine) SpendingTemplate(ctx context.Context, bc BudgetContext, id string) (models.SpendingTemplate, error) {
	templates, err := e.SpendingTemplates(ctx, bc)
	if err != nil {
		return models.SpendingTemplate{}, err
	}

	i := slices.IndexFunc(templates, func(t models.SpendingTemplate) bool { return t.ID == id })
	if i == -1 {
		return models.SpendingTemplate{}, notFound("spending template", id)
	}

	return templates[i], nil
}

// SpendingTemplatesForDay returns the spending templates with at least one
// expense due on the day of the month.
func (e *Engine) SpendingTemplatesForDay(ctx context.Context, bc BudgetContext, day int) ([]models.SpendingTemplate, error) {
	templates, err := e.SpendingTemplates(ctx, bc)
	if err != nil {
		return nil, err
	}

	due := []models.SpendingTemplate{}
	for _, t := range templates {
		if slices.ContainsFunc(t.Expenses, func(x models.TemplateExpense) bool { return x.DayOfMonth == day }) {
			due = append(due, t)
		}
	}

	return due, nil
}

func (e *Engine) UpdateSpendingTemplate(ctx context.Context, bc BudgetContext, id string, u SpendingTemplateUpdate) (models.SpendingTemplate, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return models.SpendingTemplate{}, invalid("the template name must not be empty")
	}

	if err := validExpenses(u.Expenses); err != nil {
		return models.SpendingTemplate{}, err
	}

	var updated models.SpendingTemplate
	err := e.mutate(ctx, bc, "update_spending_template", func(s store.Store) error {
		templates, err := load[models.SpendingTemplate](ctx, s, bc, store.SpendingTemplates)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(templates, func(t models.SpendingTemplate) bool { return t.ID == id })
		if i == -1 {
			return notFound("spending template", id)
		}

		if u.Name != nil {
			templates[i].Name = *u.Name
		}
		if u.Expenses != nil {
			templates[i].Expenses = u.Expenses
		}

		updated = templates[i]
		return save(ctx, s, bc, store.SpendingTemplates, templates)
	})

	return updated, err
}

func (e *Engine) DeleteSpendingTemplate(ctx context.Context, bc BudgetContext, id string) error {
	return e.mutate(ctx, bc, "delete_spending_template", func(s store.Store) error {
		templates, err := load[models.SpendingTemplate](ctx, s, bc, store.SpendingTemplates)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(templates, func(t models.SpendingTemplate) bool { return t.ID == id })
		if i == -1 {
			return notFound("spending template", id)
		}

		return save(ctx, s, bc, store.SpendingTemplates, slices.Delete(templates, i, i+1))
	})
}

// ApplySpendingTemplate books every expense of the template as a transaction.
//
// Each expense is booked on its own: an expense that fails, for example
// because its envelope does not have enough money, is reported in the
// result and does not stop the others. With useTemplateDate, expenses with
// a day of month are dated on that day of the current month.
func (e *Engine) ApplySpendingTemplate(ctx context.Context, bc BudgetContext, id string, useTemplateDate bool) (SpendingTemplateResult, error) {
	result := SpendingTemplateResult{
		Success: []string{},
		Failed:  []FailedExpense{},
	}

	err := e.mutate(ctx, bc, "apply_spending_template", func(s store.Store) error {
		templates, err := load[models.SpendingTemplate](ctx, s, bc, store.SpendingTemplates)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(templates, func(t models.SpendingTemplate) bool { return t.ID == id })
		if i == -1 {
			return notFound("spending template", id)
		}

		today := e.Today()
		for _, x := range templates[i].Expenses {
			date := today
			if useTemplateDate && x.DayOfMonth > 0 {
				date = today.Month().Day(x.DayOfMonth)
			}

			// Savepoint per expense, a failed expense only rolls back itself
			err := s.Atomic(ctx, func(tx store.Store) error {
				_, err := e.addTransaction(ctx, tx, bc, NewTransaction{
					EnvelopeID:  x.EnvelopeID,
					Amount:      x.Amount,
					Description: x.Description,
					Date:        date,
					AccountID:   x.AccountID,
				})
				return err
			})
			if err != nil {
				if errors.Is(err, store.ErrGeneral) {
					return err
				}

				result.Failed = append(result.Failed, FailedExpense{Description: x.Description, Error: err.Error()})
				continue
			}

			result.Success = append(result.Success, x.Description)
		}

		return nil
	})

	return result, err
}

