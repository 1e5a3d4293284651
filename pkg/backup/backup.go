// Package backup exports all budgets into a single document and restores
// them from it. Documents written before budgets existed are imported into
// the active budget.
package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/envelope-ledger/backend/pkg/budgets"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Version is the export format written by Export.
const Version = "2.0"

// Document is a backup of all budgets.
type Document struct {
	ExportVersion string                `json:"exportVersion" example:"2.0"`
	ExportDate    time.Time             `json:"exportDate"`
	Budgets       []models.Budget       `json:"budgets"`
	ActiveBudget  string                `json:"activeBudget" example:"default"`
	BudgetData    map[string]BudgetData `json:"budgetData"` // Budget ID to its data
}

// BudgetData holds the collections of one budget. On import, nil fields
// leave the stored collection untouched.
type BudgetData struct {
	Envelopes         []models.Envelope         `json:"envelopes"`
	Income            []models.Income           `json:"income"`
	Transactions      []models.Transaction      `json:"transactions"`
	BankBalance       *decimal.Decimal          `json:"bankBalance"`
	Templates         []models.FundingTemplate  `json:"templates"`
	SpendingTemplates []models.SpendingTemplate `json:"spendingTemplates"`
	Accounts          []models.Account          `json:"accounts"`
	CurrentMonth      *models.CurrentMonth      `json:"currentMonth"`
	MonthArchives     []models.MonthArchive     `json:"monthArchives"`
}

// Format of an imported document.
type Format string

const (
	FormatMultiBudget Format = "2.0"
	FormatLegacy      Format = "legacy"
)

// ImportResult describes what an import restored.
type ImportResult struct {
	Format  Format   `json:"format"`
	Budgets []string `json:"budgets"` // IDs of the budgets that received data
}

type Service struct {
	store   store.Store
	budgets *budgets.Manager
	now     func() time.Time
}

func New(s store.Store, m *budgets.Manager) *Service {
	return &Service{store: s, budgets: m, now: time.Now}
}

// Export collects the data of all budgets.
func (svc *Service) Export(ctx context.Context) (Document, error) {
	list, err := svc.budgets.Budgets(ctx)
	if err != nil {
		return Document{}, err
	}

	active, err := svc.budgets.Active(ctx)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ExportVersion: Version,
		ExportDate:    svc.now().UTC(),
		Budgets:       list,
		ActiveBudget:  active,
		BudgetData:    make(map[string]BudgetData, len(list)),
	}

	for _, b := range list {
		data, err := exportBudget(ctx, svc.store, b.ID)
		if err != nil {
			return Document{}, fmt.Errorf("exporting budget %s: %w", b.ID, err)
		}
		doc.BudgetData[b.ID] = data
	}

	return doc, nil
}

func exportBudget(ctx context.Context, s store.Store, id string) (data BudgetData, err error) {
	key := func(c store.Collection) string { return store.Key(id, c) }

	if data.Envelopes, err = store.LoadList[models.Envelope](ctx, s, key(store.Envelopes)); err != nil {
		return
	}
	if data.Income, err = store.LoadList[models.Income](ctx, s, key(store.Income)); err != nil {
		return
	}
	if data.Transactions, err = store.LoadList[models.Transaction](ctx, s, key(store.Transactions)); err != nil {
		return
	}
	if data.Templates, err = store.LoadList[models.FundingTemplate](ctx, s, key(store.FundingTemplates)); err != nil {
		return
	}
	if data.SpendingTemplates, err = store.LoadList[models.SpendingTemplate](ctx, s, key(store.SpendingTemplates)); err != nil {
		return
	}
	if data.Accounts, err = store.LoadList[models.Account](ctx, s, key(store.Accounts)); err != nil {
		return
	}
	if data.MonthArchives, err = store.LoadList[models.MonthArchive](ctx, s, key(store.MonthArchives)); err != nil {
		return
	}

	balance, err := store.Load(ctx, s, key(store.BankBalance), decimal.Zero)
	if err != nil {
		return
	}
	data.BankBalance = &balance

	data.CurrentMonth, err = store.Load[*models.CurrentMonth](ctx, s, key(store.CurrentMonth), nil)
	return
}

// header is decoded first to tell the document formats apart.
type header struct {
	ExportVersion string          `json:"exportVersion"`
	Budgets       json.RawMessage `json:"budgets"`
	BudgetData    json.RawMessage `json:"budgetData"`
}

// Parse decodes a backup document. Documents that are not in the
// multi-budget format are returned as legacy data.
func Parse(data []byte) (*Document, *BudgetData, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, nil, fmt.Errorf("%w: the backup is not valid JSON: %s", ledger.ErrValidation, err)
	}

	if h.ExportVersion == Version && isSet(h.Budgets) && isSet(h.BudgetData) {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("%w: the backup could not be read: %s", ledger.ErrValidation, err)
		}
		return &doc, nil, nil
	}

	var legacy BudgetData
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, nil, fmt.Errorf("%w: the backup could not be read: %s", ledger.ErrValidation, err)
	}
	return nil, &legacy, nil
}

func isSet(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// Import restores a backup. Multi-budget documents replace the budget
// registry and the active budget and restore every budget's data. Legacy
// documents are restored into the active budget. In both cases only the
// collections present in the document are written, all in one transaction.
func (svc *Service) Import(ctx context.Context, data []byte) (ImportResult, error) {
	doc, legacy, err := Parse(data)
	if err != nil {
		return ImportResult{}, err
	}

	if doc != nil {
		return svc.importDocument(ctx, *doc)
	}

	active, err := svc.budgets.Active(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	err = svc.store.Atomic(ctx, func(s store.Store) error {
		return importBudget(ctx, s, active, *legacy)
	})
	if err != nil {
		return ImportResult{}, err
	}

	log.Info().Str("budget", active).Msg("Imported legacy backup")
	return ImportResult{Format: FormatLegacy, Budgets: []string{active}}, nil
}

func (svc *Service) importDocument(ctx context.Context, doc Document) (ImportResult, error) {
	result := ImportResult{Format: FormatMultiBudget, Budgets: make([]string, 0, len(doc.BudgetData))}

	err := svc.store.Atomic(ctx, func(s store.Store) error {
		if err := store.Save(ctx, s, store.KeyBudgets, doc.Budgets); err != nil {
			return err
		}

		if doc.ActiveBudget != "" {
			if err := budgets.SetActive(ctx, s, doc.ActiveBudget); err != nil {
				return err
			}
		}

		ids := maps.Keys(doc.BudgetData)
		slices.Sort(ids)

		for _, id := range ids {
			if err := importBudget(ctx, s, id, doc.BudgetData[id]); err != nil {
				return fmt.Errorf("importing budget %s: %w", id, err)
			}
			result.Budgets = append(result.Budgets, id)
		}

		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	log.Info().Strs("budgets", result.Budgets).Msg("Imported backup")
	return result, nil
}

func importBudget(ctx context.Context, s store.Store, id string, data BudgetData) error {
	key := func(c store.Collection) string { return store.Key(id, c) }

	writes := []struct {
		present bool
		c       store.Collection
		value   any
	}{
		{data.Envelopes != nil, store.Envelopes, data.Envelopes},
		{data.Income != nil, store.Income, data.Income},
		{data.Transactions != nil, store.Transactions, data.Transactions},
		{data.BankBalance != nil, store.BankBalance, data.BankBalance},
		{data.Templates != nil, store.FundingTemplates, data.Templates},
		{data.SpendingTemplates != nil, store.SpendingTemplates, data.SpendingTemplates},
		{data.Accounts != nil, store.Accounts, data.Accounts},
		{data.CurrentMonth != nil, store.CurrentMonth, data.CurrentMonth},
		{data.MonthArchives != nil, store.MonthArchives, data.MonthArchives},
	}

	for _, w := range writes {
		if !w.present {
			continue
		}

		if err := store.Save(ctx, s, key(w.c), w.value); err != nil {
			return err
		}
	}

	return nil
}
