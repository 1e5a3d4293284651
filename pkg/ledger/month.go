package ledger

import (
	"context"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RolloverResult is the outcome of starting a new month.
type RolloverResult struct {
	Archive  models.MonthArchive `json:"archive"`
	NewMonth models.CurrentMonth `json:"newMonth"`
}

// CurrentMonth returns the month the budget is in. A budget without a
// month marker is initialized to the calendar month.
func (e *Engine) CurrentMonth(ctx context.Context, bc BudgetContext) (models.CurrentMonth, error) {
	var current models.CurrentMonth

	err := e.mutate(ctx, bc, "current_month", func(s store.Store) (err error) {
		current, err = e.currentMonth(ctx, s, bc)
		return err
	})

	return current, err
}

func (e *Engine) currentMonth(ctx context.Context, s store.Store, bc BudgetContext) (models.CurrentMonth, error) {
	key := bc.key(store.CurrentMonth)

	ok, err := s.Has(ctx, key)
	if err != nil {
		return models.CurrentMonth{}, err
	}

	if ok {
		return store.Load(ctx, s, key, models.CurrentMonth{})
	}

	current := models.NewCurrentMonth(types.MonthOf(e.now()))
	return current, store.Save(ctx, s, key, current)
}

// StartNewMonth archives the current month and resets the envelopes.
//
// Every envelope is snapshotted into a MonthArchive for the current month.
// Spent is reset to 0. Funded is reset to 0, or to the envelope's unspent
// balance if rolloverUnspent is set and the balance is positive. Planned
// amounts are kept. The month marker then moves to the calendar month.
func (e *Engine) StartNewMonth(ctx context.Context, bc BudgetContext, rolloverUnspent bool) (RolloverResult, error) {
	var result RolloverResult

	err := e.mutate(ctx, bc, "start_new_month", func(s store.Store) error {
		current, err := e.currentMonth(ctx, s, bc)
		if err != nil {
			return err
		}

		envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
		if err != nil {
			return err
		}

		archives, err := load[models.MonthArchive](ctx, s, bc, store.MonthArchives)
		if err != nil {
			return err
		}

		archive := snapshot(current, envelopes)
		archive.ArchivedDate = e.now().UTC()

		for i := range envelopes {
			balance := envelopes[i].Balance()

			envelopes[i].Spent = decimal.Zero
			envelopes[i].Funded = decimal.Zero
			if rolloverUnspent && balance.IsPositive() {
				envelopes[i].Funded = balance
			}
		}

		next := models.NewCurrentMonth(types.MonthOf(e.now()))

		if err := save(ctx, s, bc, store.MonthArchives, append(archives, archive)); err != nil {
			return err
		}

		if err := save(ctx, s, bc, store.Envelopes, envelopes); err != nil {
			return err
		}

		if err := store.Save(ctx, s, bc.key(store.CurrentMonth), next); err != nil {
			return err
		}

		result = RolloverResult{Archive: archive, NewMonth: next}
		return nil
	})

	return result, err
}

// snapshot builds the archive of a month from the envelopes.
func snapshot(month models.CurrentMonth, envelopes []models.Envelope) models.MonthArchive {
	m := month.Value()
	t := totals(envelopes)

	archive := models.MonthArchive{
		ID:        models.NewID(),
		MonthKey:  month.MonthKey,
		Year:      month.Year,
		Month:     month.Month,
		MonthName: m.Name(),
		Summary: models.ArchiveSummary{
			TotalPlanned: t.Planned,
			TotalFunded:  t.Funded,
			TotalSpent:   t.Spent,
		},
		EnvelopeSnapshots: make([]models.EnvelopeSnapshot, 0, len(envelopes)),
	}

	if archive.MonthKey == "" {
		archive.MonthKey = m.String()
	}

	for _, env := range envelopes {
		archive.EnvelopeSnapshots = append(archive.EnvelopeSnapshots, models.EnvelopeSnapshot{
			ID:       env.ID,
			Name:     env.Name,
			Category: env.Category,
			Planned:  env.Planned,
			Funded:   env.Funded,
			Spent:    env.Spent,
			Balance:  env.Balance(),
		})
	}

	return archive
}

func (e *Engine) MonthArchives(ctx context.Context, bc BudgetContext) ([]models.MonthArchive, error) {
	return load[models.MonthArchive](ctx, e.store, bc, store.MonthArchives)
}

// MonthArchive returns the archive of a month. If a month was archived more
// than once, the first archive is returned.
func (e *Engine) MonthArchive(ctx context.Context, bc BudgetContext, monthKey string) (models.MonthArchive, error) {
	if _, err := types.ParseMonth(monthKey); err != nil {
		return models.MonthArchive{}, invalid("the month must be given as YYYY-MM, got %q", monthKey)
	}

	archives, err := e.MonthArchives(ctx, bc)
	if err != nil {
		return models.MonthArchive{}, err
	}

	i := slices.IndexFunc(archives, func(a models.MonthArchive) bool { return a.MonthKey == monthKey })
	if i == -1 {
		return models.MonthArchive{}, notFound("month archive", monthKey)
	}

	return archives[i], nil
}
