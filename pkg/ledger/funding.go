package ledger

import (
	"context"

	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
)

// FundEnvelopes moves unallocated income into envelopes.
//
// The plan maps envelope IDs to amounts. If the plan's total exceeds the
// available amount, nothing is funded. Negative amounts are rejected, zero
// amounts and unknown envelope IDs are skipped. The funded envelopes are
// returned.
func (e *Engine) FundEnvelopes(ctx context.Context, bc BudgetContext, plan map[string]decimal.Decimal) ([]models.Envelope, error) {
	var funded []models.Envelope

	err := e.mutate(ctx, bc, "fund_envelopes", func(s store.Store) (err error) {
		funded, err = fund(ctx, s, bc, plan, SourceAvailable)
		return err
	})

	return funded, err
}

func fund(ctx context.Context, s store.Store, bc BudgetContext, plan map[string]decimal.Decimal, source FundsSource) ([]models.Envelope, error) {
	if err := validAllocations(plan); err != nil {
		return nil, err
	}

	available, err := availableToFund(ctx, s, bc)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, amount := range plan {
		total = total.Add(amount)
	}

	if total.GreaterThan(available) {
		return nil, &InsufficientFundsError{Source: source, Requested: total, Available: available}
	}

	envelopes, err := load[models.Envelope](ctx, s, bc, store.Envelopes)
	if err != nil {
		return nil, err
	}

	funded := []models.Envelope{}
	for i := range envelopes {
		amount, ok := plan[envelopes[i].ID]
		if !ok || !amount.IsPositive() {
			continue
		}

		envelopes[i].Funded = envelopes[i].Funded.Add(amount)
		funded = append(funded, envelopes[i])
	}

	if len(funded) == 0 {
		return funded, nil
	}

	return funded, save(ctx, s, bc, store.Envelopes, envelopes)
}

// validAllocations rejects plans that would take money out of an envelope.
func validAllocations(plan map[string]decimal.Decimal) error {
	for id, amount := range plan {
		if amount.IsNegative() {
			return invalid("the amount for envelope %s must not be negative", id)
		}
	}

	return nil
}
