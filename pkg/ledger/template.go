package ledger

import (
	"context"
	"strings"

	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// NewFundingTemplate describes a funding template to create.
type NewFundingTemplate struct {
	Name           string
	DayOfMonth     int
	ExpectedAmount decimal.Decimal
	Allocations    map[string]decimal.Decimal
}

// FundingTemplateUpdate contains the editable fields of a funding template.
// Nil fields are left unchanged, a non-nil Allocations map replaces all allocations.
type FundingTemplateUpdate struct {
	Name           *string
	DayOfMonth     *int
	ExpectedAmount *decimal.Decimal
	Allocations    map[string]decimal.Decimal
}

func validDay(day int) error {
	if day < 1 || day > 31 {
		return invalid("the day of month must be between 1 and 31, got %d", day)
	}
	return nil
}

func (e *Engine) CreateTemplate(ctx context.Context, bc BudgetContext, n NewFundingTemplate) (models.FundingTemplate, error) {
	if strings.TrimSpace(n.Name) == "" {
		return models.FundingTemplate{}, invalid("the template name must not be empty")
	}

	if err := validDay(n.DayOfMonth); err != nil {
		return models.FundingTemplate{}, err
	}

	if err := validAllocations(n.Allocations); err != nil {
		return models.FundingTemplate{}, err
	}

	if n.Allocations == nil {
		n.Allocations = map[string]decimal.Decimal{}
	}

	template := models.FundingTemplate{
		ID:             models.NewID(),
		Name:           n.Name,
		DayOfMonth:     n.DayOfMonth,
		ExpectedAmount: n.ExpectedAmount,
		Allocations:    n.Allocations,
		CreatedAt:      e.now().UTC(),
	}

	err := e.mutate(ctx, bc, "create_template", func(s store.Store) error {
		templates, err := load[models.FundingTemplate](ctx, s, bc, store.FundingTemplates)
		if err != nil {
			return err
		}

		return save(ctx, s, bc, store.FundingTemplates, append(templates, template))
	})
	if err != nil {
		return models.FundingTemplate{}, err
	}

	return template, nil
}

func (e *Engine) Templates(ctx context.Context, bc BudgetContext) ([]models.FundingTemplate, error) {
	return load[models.FundingTemplate](ctx, e.store, bc, store.FundingTemplates)
}

func (e *Engine) Template(ctx context.Context, bc BudgetContext, id string) (models.FundingTemplate, error) {
	return template(ctx, e.store, bc, id)
}

func template(ctx context.Context, s store.Store, bc BudgetContext, id string) (models.FundingTemplate, error) {
	templates, err := load[models.FundingTemplate](ctx, s, bc, store.FundingTemplates)
	if err != nil {
		return models.FundingTemplate{}, err
	}

	i := slices.IndexFunc(templates, func(t models.FundingTemplate) bool { return t.ID == id })
	if i == -1 {
		return models.FundingTemplate{}, notFound("template", id)
	}

	return templates[i], nil
}

// TemplatesForDay returns the funding templates scheduled for a day of the month.
func (e *Engine) TemplatesForDay(ctx context.Context, bc BudgetContext, day int) ([]models.FundingTemplate, error) {
	templates, err := e.Templates(ctx, bc)
	if err != nil {
		return nil, err
	}

	due := []models.FundingTemplate{}
	for _, t := range templates {
		if t.DayOfMonth == day {
			due = append(due, t)
		}
	}

	return due, nil
}

func (e *Engine) UpdateTemplate(ctx context.Context, bc BudgetContext, id string, u FundingTemplateUpdate) (models.FundingTemplate, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return models.FundingTemplate{}, invalid("the template name must not be empty")
	}

	if u.DayOfMonth != nil {
		if err := validDay(*u.DayOfMonth); err != nil {
			return models.FundingTemplate{}, err
		}
	}

	if err := validAllocations(u.Allocations); err != nil {
		return models.FundingTemplate{}, err
	}

	var updated models.FundingTemplate
	err := e.mutate(ctx, bc, "update_template", func(s store.Store) error {
		templates, err := load[models.FundingTemplate](ctx, s, bc, store.FundingTemplates)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(templates, func(t models.FundingTemplate) bool { return t.ID == id })
		if i == -1 {
			return notFound("template", id)
		}

		if u.Name != nil {
			templates[i].Name = *u.Name
		}
		if u.DayOfMonth != nil {
			templates[i].DayOfMonth = *u.DayOfMonth
		}
		if u.ExpectedAmount != nil {
			templates[i].ExpectedAmount = *u.ExpectedAmount
		}
		if u.Allocations != nil {
			templates[i].Allocations = u.Allocations
		}

		updated = templates[i]
		return save(ctx, s, bc, store.FundingTemplates, templates)
	})

	return updated, err
}

func (e *Engine) DeleteTemplate(ctx context.Context, bc BudgetContext, id string) error {
	return e.mutate(ctx, bc, "delete_template", func(s store.Store) error {
		templates, err := load[models.FundingTemplate](ctx, s, bc, store.FundingTemplates)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(templates, func(t models.FundingTemplate) bool { return t.ID == id })
		if i == -1 {
			return notFound("template", id)
		}

		return save(ctx, s, bc, store.FundingTemplates, slices.Delete(templates, i, i+1))
	})
}

// ApplyTemplate funds envelopes with the template's allocations. The
// allocations are checked against the money available at the time of the call.
func (e *Engine) ApplyTemplate(ctx context.Context, bc BudgetContext, id string) ([]models.Envelope, error) {
	var funded []models.Envelope

	err := e.mutate(ctx, bc, "apply_template", func(s store.Store) error {
		t, err := template(ctx, s, bc, id)
		if err != nil {
			return err
		}

		funded, err = fund(ctx, s, bc, t.Allocations, SourceTemplate)
		return err
	})

	return funded, err
}
