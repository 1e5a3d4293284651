// Package ledger implements the envelope budgeting rules: funding envelopes
// from income, booking transactions against them, deriving account
// balances and rolling months over.
//
// Every operation works on the budget named by its BudgetContext. Mutations
// read whole collections, change them and write them back inside a single
// store transaction, so a failed operation leaves no partial writes.
package ledger

import (
	"context"
	"time"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/rs/zerolog/log"
)

// BudgetContext selects the budget an operation works on.
type BudgetContext struct {
	BudgetID string
}

func (bc BudgetContext) key(c store.Collection) string {
	return store.Key(bc.BudgetID, c)
}

// Engine runs ledger operations against a store.
type Engine struct {
	store store.Store
	now   func() time.Time
}

type Option func(*Engine)

// WithClock sets the function used to determine the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Today returns the current calendar day.
func (e *Engine) Today() types.Date {
	return types.DateOf(e.now())
}

// mutate runs fn in a store transaction and records the outcome.
func (e *Engine) mutate(ctx context.Context, bc BudgetContext, operation string, fn func(s store.Store) error) error {
	err := e.store.Atomic(ctx, fn)
	observe(operation, err)

	if err != nil {
		log.Debug().Str("budget", bc.BudgetID).Str("operation", operation).Err(err).Msg("Ledger")
	}

	return err
}

func load[T any](ctx context.Context, s store.Store, bc BudgetContext, c store.Collection) ([]T, error) {
	return store.LoadList[T](ctx, s, bc.key(c))
}

func save[T any](ctx context.Context, s store.Store, bc BudgetContext, c store.Collection, list []T) error {
	return store.Save(ctx, s, bc.key(c), list)
}
