package ledger_test

import (
	"time"

	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCurrentMonthIsInitialized() {
	ok, err := suite.db.Has(suite.ctx, store.Key(suite.bc.BudgetID, store.CurrentMonth))
	suite.Require().Nil(err)
	suite.Require().False(ok)

	current, err := suite.engine.CurrentMonth(suite.ctx, suite.bc)
	suite.Require().Nil(err)
	suite.Assert().Equal(models.CurrentMonth{Year: 2024, Month: 3, MonthKey: "2024-03"}, current)

	ok, err = suite.db.Has(suite.ctx, store.Key(suite.bc.BudgetID, store.CurrentMonth))
	suite.Require().Nil(err)
	suite.Assert().True(ok)
}

// rollover prepares Groceries with funded 400 and spent 150 in February
// and starts a new month in March.
func (suite *TestSuiteStandard) rollover(rolloverUnspent bool) (models.Envelope, ledger.RolloverResult) {
	february := time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)
	engine := ledger.New(suite.db, ledger.WithClock(func() time.Time { return february }))

	groceries, err := engine.CreateEnvelope(suite.ctx, suite.bc, "Groceries", amount("450"), "")
	suite.Require().Nil(err)

	_, err = engine.AddIncome(suite.ctx, suite.bc, ledger.NewIncome{Source: "Paycheck", Amount: amount("400")})
	suite.Require().Nil(err)

	_, err = engine.FundEnvelopes(suite.ctx, suite.bc, map[string]decimal.Decimal{groceries.ID: amount("400")})
	suite.Require().Nil(err)

	_, err = engine.AddTransaction(suite.ctx, suite.bc, ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("150")})
	suite.Require().Nil(err)

	_, err = engine.CurrentMonth(suite.ctx, suite.bc)
	suite.Require().Nil(err)

	result, err := suite.engine.StartNewMonth(suite.ctx, suite.bc, rolloverUnspent)
	suite.Require().Nil(err)

	return groceries, result
}

func (suite *TestSuiteStandard) TestStartNewMonthWithRollover() {
	groceries, result := suite.rollover(true)

	after := suite.envelope(groceries.ID)
	suite.assertAmount("0", after.Spent)
	suite.assertAmount("250", after.Funded)
	suite.assertAmount("450", after.Planned)

	archive := result.Archive
	suite.Assert().Equal("2024-02", archive.MonthKey)
	suite.Assert().Equal("February", archive.MonthName)
	suite.Assert().Equal(now, archive.ArchivedDate)
	suite.assertAmount("400", archive.Summary.TotalFunded)
	suite.assertAmount("150", archive.Summary.TotalSpent)
	suite.assertAmount("450", archive.Summary.TotalPlanned)

	suite.Require().Len(archive.EnvelopeSnapshots, 1)
	snapshot := archive.EnvelopeSnapshots[0]
	suite.assertAmount("400", snapshot.Funded)
	suite.assertAmount("150", snapshot.Spent)
	suite.assertAmount("250", snapshot.Balance)

	suite.Assert().Equal(models.CurrentMonth{Year: 2024, Month: 3, MonthKey: "2024-03"}, result.NewMonth)

	current, err := suite.engine.CurrentMonth(suite.ctx, suite.bc)
	suite.Require().Nil(err)
	suite.Assert().Equal("2024-03", current.MonthKey)

	stored, err := suite.engine.MonthArchive(suite.ctx, suite.bc, "2024-02")
	suite.Require().Nil(err)
	suite.Assert().Equal(archive.ID, stored.ID)

	_, err = suite.engine.MonthArchive(suite.ctx, suite.bc, "2023-12")
	suite.Assert().ErrorIs(err, ledger.ErrNotFound)
}

func (suite *TestSuiteStandard) TestStartNewMonthWithoutRollover() {
	groceries, _ := suite.rollover(false)

	after := suite.envelope(groceries.ID)
	suite.assertAmount("0", after.Spent)
	suite.assertAmount("0", after.Funded)
	suite.assertAmount("450", after.Planned)
}

func (suite *TestSuiteStandard) TestStartNewMonthKeepsOverspentAtZero() {
	groceries, _ := suite.funded()

	_, err := suite.engine.AddTransaction(suite.ctx, suite.bc, ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("400")})
	suite.Require().Nil(err)

	_, err = suite.engine.StartNewMonth(suite.ctx, suite.bc, true)
	suite.Require().Nil(err)

	suite.assertAmount("0", suite.envelope(groceries.ID).Funded)

	// A second rollover in the same month is archived again
	_, err = suite.engine.StartNewMonth(suite.ctx, suite.bc, true)
	suite.Require().Nil(err)

	archives, err := suite.engine.MonthArchives(suite.ctx, suite.bc)
	suite.Require().Nil(err)
	suite.Assert().Len(archives, 2)

	first, err := suite.engine.MonthArchive(suite.ctx, suite.bc, "2024-03")
	suite.Require().Nil(err)
	suite.Assert().Equal(archives[0].ID, first.ID)
}
