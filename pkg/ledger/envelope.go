package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// EnvelopeUpdate contains the fields of an envelope that can be edited.
// Nil fields are left unchanged.
type EnvelopeUpdate struct {
	Name     *string
	Planned  *decimal.Decimal
	Category *string
}

// Totals are the sums over all envelopes of a budget.
type Totals struct {
	Planned decimal.Decimal `json:"planned"`
	Funded  decimal.Decimal `json:"funded"`
	Spent   decimal.Decimal `json:"spent"`
}

// CategoryCount is the number of envelopes in a category.
type CategoryCount struct {
	Name      string `json:"name"`
	Envelopes int    `json:"envelopes"`
}

// CreateEnvelope creates an empty envelope. An empty category defaults to "needs".
func (e *Engine) CreateEnvelope(ctx context.Context, bc BudgetContext, name string, planned decimal.Decimal, category string) (models.Envelope, error) {
	if strings.TrimSpace(name) == "" {
		return models.Envelope{}, invalid("the envelope name must not be empty")
	}

	if category == "" {
		category = models.DefaultCategory
	}

	envelope := models.Envelope{
		ID:       models.NewID(),
		Name:     name,
		Planned:  planned,
		Funded:   decimal.Zero,
		Spent:    decimal.Zero,
		Category: category,
	}

	err := e.mutate(ctx, bc, "create_envelope", func(s store.Store) error {
		envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
		if err != nil {
			return err
		}

		return save(ctx, s, bc, store.Envelopes, append(envelopes, envelope))
	})
	if err != nil {
		return models.Envelope{}, err
	}

	return envelope, nil
}

func (e *Engine) Envelopes(ctx context.Context, bc BudgetContext) ([]models.Envelope, error) {
	return load[models.Envelope](ctx, e.store, bc, store.Envelopes)
}

func (e *Engine) Envelope(ctx context.Context, bc BudgetContext, id string) (models.Envelope, error) {
	return envelope(ctx, e.store, bc, id)
}

func envelope(ctx context.Context, s store.Store, bc BudgetContext, id string) (models.Envelope, error) {
	envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
	if err != nil {
		return models.Envelope{}, err
	}

	i := slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == id })
	if i == -1 {
		return models.Envelope{}, notFound("envelope", id)
	}

	return envelopes[i], nil
}

// UpdateEnvelope edits name, planned amount and category. Funded and
// spent amounts are kept.
func (e *Engine) UpdateEnvelope(ctx context.Context, bc BudgetContext, id string, u EnvelopeUpdate) (models.Envelope, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return models.Envelope{}, invalid("the envelope name must not be empty")
	}

	var updated models.Envelope
	err := e.mutate(ctx, bc, "update_envelope", func(s store.Store) error {
		envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == id })
		if i == -1 {
			return notFound("envelope", id)
		}

		if u.Name != nil {
			envelopes[i].Name = *u.Name
		}
		if u.Planned != nil {
			envelopes[i].Planned = *u.Planned
		}
		if u.Category != nil && *u.Category != "" {
			envelopes[i].Category = *u.Category
		}

		updated = envelopes[i]
		return save(ctx, s, bc, store.Envelopes, envelopes)
	})

	return updated, err
}

// DeleteEnvelope removes the envelope together with all of its transactions.
func (e *Engine) DeleteEnvelope(ctx context.Context, bc BudgetContext, id string) error {
	return e.mutate(ctx, bc, "delete_envelope", func(s store.Store) error {
		envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(envelopes, func(e models.Envelope) bool { return e.ID == id })
		if i == -1 {
			return notFound("envelope", id)
		}

		transactions, err := load[models.Transaction](ctx, s, bc, store.Transactions)
		if err != nil {
			return err
		}

		kept := transactions[:0]
		for _, t := range transactions {
			if !models.Is(t.EnvelopeID, id) {
				kept = append(kept, t)
			}
		}

		if err := save(ctx, s, bc, store.Envelopes, slices.Delete(envelopes, i, i+1)); err != nil {
			return err
		}

		return save(ctx, s, bc, store.Transactions, kept)
	})
}

// EnvelopeBalance is funded minus spent. Unknown envelopes have a balance of 0.
func (e *Engine) EnvelopeBalance(ctx context.Context, bc BudgetContext, id string) (decimal.Decimal, error) {
	envelope, err := e.Envelope(ctx, bc, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return envelope.Balance(), nil
}

// EnvelopeTransactions returns all transactions that reference the envelope.
func (e *Engine) EnvelopeTransactions(ctx context.Context, bc BudgetContext, id string) ([]models.Transaction, error) {
	return e.Transactions(ctx, bc, TransactionFilter{EnvelopeID: id})
}

func (e *Engine) Totals(ctx context.Context, bc BudgetContext) (Totals, error) {
	envelopes, err := e.Envelopes(ctx, bc)
	if err != nil {
		return Totals{}, err
	}

	return totals(envelopes), nil
}

func totals(envelopes []models.Envelope) Totals {
	t := Totals{Planned: decimal.Zero, Funded: decimal.Zero, Spent: decimal.Zero}
	for _, e := range envelopes {
		t.Planned = t.Planned.Add(e.Planned)
		t.Funded = t.Funded.Add(e.Funded)
		t.Spent = t.Spent.Add(e.Spent)
	}

	return t
}

// Categories lists all categories in use, sorted by name.
func (e *Engine) Categories(ctx context.Context, bc BudgetContext) ([]CategoryCount, error) {
	envelopes, err := e.Envelopes(ctx, bc)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range envelopes {
		counts[e.Category]++
	}

	categories := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		categories = append(categories, CategoryCount{Name: name, Envelopes: n})
	}

	slices.SortFunc(categories, func(a, b CategoryCount) int {
		return strings.Compare(a.Name, b.Name)
	})

	return categories, nil
}
