package budgets

import (
	"errors"
	"fmt"

	"github.com/envelope-ledger/backend/pkg/ledger"
)

var (
	ErrLastBudget   = errors.New("cannot delete the last budget")
	ErrActiveBudget = errors.New("cannot delete the active budget, switch to another budget first")
	ErrEmptyName    = fmt.Errorf("%w: the budget name must not be empty", ledger.ErrValidation)
)

func notFound(id string) error {
	return fmt.Errorf("budget %w: %s", ledger.ErrNotFound, id)
}
