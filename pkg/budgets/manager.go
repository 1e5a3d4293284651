// Package budgets manages the registry of budgets and which one is active.
//
// Each budget owns a namespace of collections in the store. The registry
// and the active budget pointer live under global keys.
package budgets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Default is the budget every installation starts with.
const (
	DefaultID   = "default"
	DefaultName = "My Budget"
)

type Manager struct {
	store store.Store
	now   func() time.Time
}

func New(s store.Store) *Manager {
	return &Manager{store: s, now: time.Now}
}

// Budgets returns all budgets. When no registry exists yet, it is
// initialized with the default budget.
func (m *Manager) Budgets(ctx context.Context) (budgets []models.Budget, err error) {
	err = m.store.Atomic(ctx, func(s store.Store) error {
		budgets, err = m.budgets(ctx, s)
		return err
	})

	return
}

func (m *Manager) budgets(ctx context.Context, s store.Store) ([]models.Budget, error) {
	ok, err := s.Has(ctx, store.KeyBudgets)
	if err != nil {
		return nil, err
	}

	if ok {
		return store.LoadList[models.Budget](ctx, s, store.KeyBudgets)
	}

	budgets := []models.Budget{{ID: DefaultID, Name: DefaultName, CreatedAt: m.now().UTC()}}
	return budgets, store.Save(ctx, s, store.KeyBudgets, budgets)
}

func (m *Manager) Budget(ctx context.Context, id string) (models.Budget, error) {
	budgets, err := m.Budgets(ctx)
	if err != nil {
		return models.Budget{}, err
	}

	i := slices.IndexFunc(budgets, func(b models.Budget) bool { return b.ID == id })
	if i == -1 {
		return models.Budget{}, notFound(id)
	}

	return budgets[i], nil
}

// CreateBudget adds an empty budget. Names do not need to be unique.
func (m *Manager) CreateBudget(ctx context.Context, name string) (models.Budget, error) {
	if strings.TrimSpace(name) == "" {
		return models.Budget{}, ErrEmptyName
	}

	budget := models.Budget{ID: models.NewID(), Name: name, CreatedAt: m.now().UTC()}

	err := m.store.Atomic(ctx, func(s store.Store) error {
		budgets, err := m.budgets(ctx, s)
		if err != nil {
			return err
		}

		return store.Save(ctx, s, store.KeyBudgets, append(budgets, budget))
	})
	if err != nil {
		return models.Budget{}, err
	}

	log.Info().Str("budget", budget.ID).Str("name", budget.Name).Msg("Budget created")
	return budget, nil
}

func (m *Manager) RenameBudget(ctx context.Context, id, name string) (models.Budget, error) {
	if strings.TrimSpace(name) == "" {
		return models.Budget{}, ErrEmptyName
	}

	var renamed models.Budget
	err := m.store.Atomic(ctx, func(s store.Store) error {
		budgets, err := m.budgets(ctx, s)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(budgets, func(b models.Budget) bool { return b.ID == id })
		if i == -1 {
			return notFound(id)
		}

		budgets[i].Name = name
		renamed = budgets[i]
		return store.Save(ctx, s, store.KeyBudgets, budgets)
	})

	return renamed, err
}

// DeleteBudget removes a budget and all of its data. The last remaining
// budget and the active budget cannot be deleted.
func (m *Manager) DeleteBudget(ctx context.Context, id string) error {
	err := m.store.Atomic(ctx, func(s store.Store) error {
		budgets, err := m.budgets(ctx, s)
		if err != nil {
			return err
		}

		if len(budgets) <= 1 {
			return ErrLastBudget
		}

		active, err := m.active(ctx, s)
		if err != nil {
			return err
		}

		if active == id {
			return ErrActiveBudget
		}

		i := slices.IndexFunc(budgets, func(b models.Budget) bool { return b.ID == id })
		if i == -1 {
			return notFound(id)
		}

		if err := s.Delete(ctx, store.BudgetKeys(id)...); err != nil {
			return err
		}

		return store.Save(ctx, s, store.KeyBudgets, slices.Delete(budgets, i, i+1))
	})
	if err != nil {
		return err
	}

	log.Info().Str("budget", id).Msg("Budget deleted")
	return nil
}

// Active returns the ID of the active budget, initializing it to the
// default budget if it is not set.
func (m *Manager) Active(ctx context.Context) (id string, err error) {
	err = m.store.Atomic(ctx, func(s store.Store) error {
		id, err = m.active(ctx, s)
		return err
	})

	return
}

func (m *Manager) active(ctx context.Context, s store.Store) (string, error) {
	value, err := s.Get(ctx, store.KeyActiveBudget)
	if err == nil && len(value) > 0 {
		return string(value), nil
	}

	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return "", err
	}

	return DefaultID, s.Set(ctx, store.KeyActiveBudget, []byte(DefaultID))
}

// SwitchActive makes the budget the active one.
func (m *Manager) SwitchActive(ctx context.Context, id string) error {
	return m.store.Atomic(ctx, func(s store.Store) error {
		budgets, err := m.budgets(ctx, s)
		if err != nil {
			return err
		}

		if !slices.ContainsFunc(budgets, func(b models.Budget) bool { return b.ID == id }) {
			return notFound(id)
		}

		return s.Set(ctx, store.KeyActiveBudget, []byte(id))
	})
}

// SetActive sets the active budget pointer without checking that the budget
// exists. It is used when restoring backups.
func SetActive(ctx context.Context, s store.Store, id string) error {
	return s.Set(ctx, store.KeyActiveBudget, []byte(id))
}

// Context returns the ledger context for a budget. An empty id selects the
// active budget.
func (m *Manager) Context(ctx context.Context, id string) (ledger.BudgetContext, error) {
	if id == "" {
		active, err := m.Active(ctx)
		if err != nil {
			return ledger.BudgetContext{}, err
		}

		return ledger.BudgetContext{BudgetID: active}, nil
	}

	if _, err := m.Budget(ctx, id); err != nil {
		return ledger.BudgetContext{}, err
	}

	return ledger.BudgetContext{BudgetID: id}, nil
}

// ClearData deletes all data of a budget. The budget itself is kept.
func (m *Manager) ClearData(ctx context.Context, id string) error {
	err := m.store.Delete(ctx, store.BudgetKeys(id)...)
	if err != nil {
		return err
	}

	log.Info().Str("budget", id).Msg("Budget data cleared")
	return nil
}

// MigrateLegacy moves data stored before budgets existed into the first
// budget. It reports whether anything was migrated. Running it again
// after a migration does nothing.
func (m *Manager) MigrateLegacy(ctx context.Context) (bool, error) {
	migrated := []string{}

	err := m.store.Atomic(ctx, func(s store.Store) error {
		ok, err := s.Has(ctx, store.LegacyKey(store.Envelopes))
		if err != nil || !ok {
			return err
		}

		budgets, err := m.budgets(ctx, s)
		if err != nil {
			return err
		}

		target := DefaultID
		if len(budgets) > 0 {
			target = budgets[0].ID
		}

		legacy := make([]string, 0, len(store.Collections))
		for _, c := range store.Collections {
			key := store.LegacyKey(c)

			value, err := s.Get(ctx, key)
			if errors.Is(err, store.ErrKeyNotFound) {
				continue
			} else if err != nil {
				return err
			}

			if err := s.Set(ctx, store.Key(target, c), value); err != nil {
				return err
			}

			legacy = append(legacy, key)
			migrated = append(migrated, string(c))
		}

		return s.Delete(ctx, legacy...)
	})
	if err != nil {
		return false, err
	}

	if len(migrated) == 0 {
		return false, nil
	}

	log.Info().Strs("collections", migrated).Msg("Migrated legacy data")
	return true, nil
}
