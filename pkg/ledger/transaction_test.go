package ledger_test

import (
	"errors"
	"testing"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/stretchr/testify/assert"
)

// funded creates two funded envelopes, Groceries with 400 and Rent with 1200.
func (suite *TestSuiteStandard) funded() (models.Envelope, models.Envelope) {
	groceries := suite.createEnvelope("Groceries", "400")
	rent := suite.createEnvelope("Rent", "1200")
	suite.addIncome("Paycheck", "2000")
	suite.fund(map[string]string{groceries.ID: "400", rent.ID: "1200"})

	return groceries, rent
}

func (suite *TestSuiteStandard) spend(envelopeID, value, description string) models.Transaction {
	t, err := suite.engine.AddTransaction(suite.ctx, suite.bc, ledger.NewTransaction{EnvelopeID: envelopeID, Amount: amount(value), Description: description})
	suite.Require().Nil(err)
	return t
}

func (suite *TestSuiteStandard) TestAddTransaction() {
	groceries, _ := suite.funded()

	t := suite.spend(groceries.ID, "150", "Market")
	suite.Assert().Equal(models.StatusCleared, t.Status)
	suite.Assert().Equal(models.TypeExpense, t.Type)
	suite.Assert().Equal("2024-03-15", t.Date.String())

	suite.assertAmount("150", suite.envelope(groceries.ID).Spent)
	suite.assertReconciled()
}

func (suite *TestSuiteStandard) TestAddTransactionStrict() {
	groceries, _ := suite.funded()

	tests := []struct {
		name        string
		transaction ledger.NewTransaction
		err         error
	}{
		{"Missing envelope", ledger.NewTransaction{EnvelopeID: "missing", Amount: amount("5")}, ledger.ErrNotFound},
		{"More than the balance", ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("400.01")}, ledger.ErrInsufficientFunds},
		{"Unknown status", ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("5"), Status: "bounced"}, ledger.ErrValidation},
		{"Negative amount", ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("-500")}, ledger.ErrValidation},
		{"Negative pending amount", ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("-5"), Status: models.StatusPending}, ledger.ErrValidation},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_, err := suite.engine.AddTransaction(suite.ctx, suite.bc, tt.transaction)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := suite.engine.AddTransaction(suite.ctx, suite.bc, ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("401")})
	suite.Assert().Equal("Insufficient funds in envelope. Balance: $400.00", err.Error())

	suite.assertAmount("0", suite.envelope(groceries.ID).Spent)
	all, err := suite.engine.Transactions(suite.ctx, suite.bc, ledger.TransactionFilter{})
	suite.Require().Nil(err)
	suite.Assert().Len(all, 0)
}

func (suite *TestSuiteStandard) TestAddAccountTransactionNegativeAmount() {
	groceries := suite.createEnvelope("Groceries", "400")
	checking := suite.createAccount("Checking", "1000")

	tests := []struct {
		name       string
		envelopeID *string
	}{
		{"With envelope", &groceries.ID},
		{"Without envelope", nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_, err := suite.engine.AddAccountTransaction(suite.ctx, suite.bc, ledger.NewAccountTransaction{
				AccountID:  checking.ID,
				Amount:     amount("-500"),
				EnvelopeID: tt.envelopeID,
			})
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}

	envelope := suite.envelope(groceries.ID)
	suite.assertAmount("0", envelope.Spent)
	suite.assertAmount("0", envelope.Balance())

	balance, err := suite.engine.AccountBalance(suite.ctx, suite.bc, checking.ID)
	suite.Require().Nil(err)
	suite.assertAmount("1000", balance)
}

func (suite *TestSuiteStandard) TestPendingAndIncomeDoNotCount() {
	groceries, _ := suite.funded()

	// Pending transactions are not checked against the balance
	_, err := suite.engine.AddTransaction(suite.ctx, suite.bc, ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("500"), Status: models.StatusPending})
	suite.Require().Nil(err)

	_, err = suite.engine.AddTransaction(suite.ctx, suite.bc, ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("30"), Type: models.TypeIncome})
	suite.Require().Nil(err)

	suite.assertAmount("0", suite.envelope(groceries.ID).Spent)
	suite.assertReconciled()
}

func (suite *TestSuiteStandard) TestWouldOverdraw() {
	groceries, _ := suite.funded()

	overdraw, balance, err := suite.engine.WouldOverdraw(suite.ctx, suite.bc, groceries.ID, amount("401"))
	suite.Require().Nil(err)
	suite.Assert().True(overdraw)
	suite.assertAmount("400", balance)

	overdraw, _, err = suite.engine.WouldOverdraw(suite.ctx, suite.bc, groceries.ID, amount("400"))
	suite.Require().Nil(err)
	suite.Assert().False(overdraw)
}

func (suite *TestSuiteStandard) TestUpdateTransactionAmount() {
	groceries, _ := suite.funded()
	t := suite.spend(groceries.ID, "100", "Market")

	updated, err := suite.engine.UpdateTransactionAmount(suite.ctx, suite.bc, t.ID, amount("250"), ledger.EditOptions{})
	suite.Require().Nil(err)
	suite.assertAmount("250", updated.Amount)
	suite.assertAmount("250", suite.envelope(groceries.ID).Spent)

	// Overdrawing needs confirmation
	_, err = suite.engine.UpdateTransactionAmount(suite.ctx, suite.bc, t.ID, amount("450"), ledger.EditOptions{})
	suite.Require().ErrorIs(err, ledger.ErrWouldOverdraw)
	suite.Assert().Equal("This will overdraw the envelope by $50.00. Balance: -$50.00", err.Error())

	var overdraft *ledger.OverdraftError
	suite.Require().True(errors.As(err, &overdraft))
	suite.Assert().Equal(groceries.ID, overdraft.EnvelopeID)
	suite.assertAmount("250", suite.envelope(groceries.ID).Spent, "failed edit must not change the envelope")

	_, err = suite.engine.UpdateTransactionAmount(suite.ctx, suite.bc, t.ID, amount("450"), ledger.EditOptions{AllowOverdraft: true})
	suite.Require().Nil(err)
	suite.assertAmount("-50", suite.envelope(groceries.ID).Balance())
	suite.assertReconciled()

	_, err = suite.engine.UpdateTransactionAmount(suite.ctx, suite.bc, t.ID, amount("-1"), ledger.EditOptions{})
	suite.Assert().ErrorIs(err, ledger.ErrValidation)
}

func (suite *TestSuiteStandard) TestReassignTransactionEnvelope() {
	groceries, rent := suite.funded()
	t := suite.spend(groceries.ID, "100", "Market")

	updated, err := suite.engine.ReassignTransactionEnvelope(suite.ctx, suite.bc, t.ID, rent.ID, ledger.EditOptions{})
	suite.Require().Nil(err)
	suite.Assert().Equal(rent.ID, *updated.EnvelopeID)
	suite.assertAmount("0", suite.envelope(groceries.ID).Spent)
	suite.assertAmount("100", suite.envelope(rent.ID).Spent)
	suite.assertReconciled()

	_, err = suite.engine.ReassignTransactionEnvelope(suite.ctx, suite.bc, t.ID, "missing", ledger.EditOptions{})
	suite.Assert().ErrorIs(err, ledger.ErrNotFound)

	// Unassign
	updated, err = suite.engine.ReassignTransactionEnvelope(suite.ctx, suite.bc, t.ID, "", ledger.EditOptions{})
	suite.Require().Nil(err)
	suite.Assert().Nil(updated.EnvelopeID)
	suite.assertAmount("0", suite.envelope(rent.ID).Spent)
	suite.assertReconciled()
}

func (suite *TestSuiteStandard) TestReassignOverdraws() {
	groceries, rent := suite.funded()
	t := suite.spend(rent.ID, "1000", "Landlord")

	_, err := suite.engine.ReassignTransactionEnvelope(suite.ctx, suite.bc, t.ID, groceries.ID, ledger.EditOptions{})
	suite.Require().ErrorIs(err, ledger.ErrWouldOverdraw)

	suite.assertAmount("1000", suite.envelope(rent.ID).Spent)
	suite.assertAmount("0", suite.envelope(groceries.ID).Spent)
}

func (suite *TestSuiteStandard) TestToggleTransactionStatus() {
	groceries, _ := suite.funded()
	t := suite.spend(groceries.ID, "100", "Market")

	updated, err := suite.engine.ToggleTransactionStatus(suite.ctx, suite.bc, t.ID, ledger.EditOptions{})
	suite.Require().Nil(err)
	suite.Assert().Equal(models.StatusPending, updated.Status)
	suite.assertAmount("0", suite.envelope(groceries.ID).Spent)

	updated, err = suite.engine.ToggleTransactionStatus(suite.ctx, suite.bc, t.ID, ledger.EditOptions{})
	suite.Require().Nil(err)
	suite.Assert().Equal(models.StatusCleared, updated.Status)
	suite.assertAmount("100", suite.envelope(groceries.ID).Spent)
	suite.assertReconciled()
}

func (suite *TestSuiteStandard) TestClearingPendingOverdraws() {
	groceries, _ := suite.funded()

	t, err := suite.engine.AddTransaction(suite.ctx, suite.bc, ledger.NewTransaction{EnvelopeID: groceries.ID, Amount: amount("500"), Status: models.StatusPending})
	suite.Require().Nil(err)

	_, err = suite.engine.SetTransactionStatus(suite.ctx, suite.bc, t.ID, models.StatusCleared, ledger.EditOptions{})
	suite.Assert().ErrorIs(err, ledger.ErrWouldOverdraw)

	_, err = suite.engine.SetTransactionStatus(suite.ctx, suite.bc, t.ID, models.StatusCleared, ledger.EditOptions{AllowOverdraft: true})
	suite.Require().Nil(err)
	suite.assertAmount("-100", suite.envelope(groceries.ID).Balance())
	suite.assertReconciled()
}

func (suite *TestSuiteStandard) TestUpdateTransactionDate() {
	groceries, _ := suite.funded()
	t := suite.spend(groceries.ID, "100", "Market")

	date := types.NewDate(2024, 3, 1)
	updated, err := suite.engine.UpdateTransactionDate(suite.ctx, suite.bc, t.ID, date)
	suite.Require().Nil(err)
	suite.Assert().Equal("2024-03-01", updated.Date.String())
	suite.assertAmount("100", suite.envelope(groceries.ID).Spent)
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	groceries, _ := suite.funded()
	t := suite.spend(groceries.ID, "100", "Market")
	suite.spend(groceries.ID, "50", "Bakery")

	suite.Require().Nil(suite.engine.DeleteTransaction(suite.ctx, suite.bc, t.ID))
	suite.assertAmount("50", suite.envelope(groceries.ID).Spent)
	suite.assertReconciled()

	err := suite.engine.DeleteTransaction(suite.ctx, suite.bc, t.ID)
	suite.Assert().ErrorIs(err, ledger.ErrNotFound)
}

func (suite *TestSuiteStandard) TestTransactionFilter() {
	groceries, rent := suite.funded()
	suite.spend(groceries.ID, "20", "Farmers market")
	suite.spend(groceries.ID, "10", "Supermarket")
	suite.spend(rent.ID, "1200", "March rent")

	tests := []struct {
		name   string
		filter ledger.TransactionFilter
		count  int
	}{
		{"No filter", ledger.TransactionFilter{}, 3},
		{"Envelope", ledger.TransactionFilter{EnvelopeID: groceries.ID}, 2},
		{"Glob", ledger.TransactionFilter{Description: "*MARKET"}, 2},
		{"Glob prefix", ledger.TransactionFilter{Description: "march*"}, 1},
		{"Status", ledger.TransactionFilter{Status: models.StatusPending}, 0},
		{"Type", ledger.TransactionFilter{Type: models.TypeExpense}, 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			transactions, err := suite.engine.Transactions(suite.ctx, suite.bc, tt.filter)
			assert.Nil(t, err)
			assert.Len(t, transactions, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestReconciliationAfterMixedEdits() {
	groceries, rent := suite.funded()

	a := suite.spend(groceries.ID, "100", "A")
	b := suite.spend(groceries.ID, "50", "B")
	c := suite.spend(rent.ID, "300", "C")

	steps := []func() error{
		func() error {
			_, err := suite.engine.UpdateTransactionAmount(suite.ctx, suite.bc, a.ID, amount("120"), ledger.EditOptions{})
			return err
		},
		func() error {
			_, err := suite.engine.ReassignTransactionEnvelope(suite.ctx, suite.bc, b.ID, rent.ID, ledger.EditOptions{})
			return err
		},
		func() error {
			_, err := suite.engine.ToggleTransactionStatus(suite.ctx, suite.bc, c.ID, ledger.EditOptions{})
			return err
		},
		func() error {
			return suite.engine.DeleteTransaction(suite.ctx, suite.bc, a.ID)
		},
	}

	for _, step := range steps {
		suite.Require().Nil(step())
		suite.assertReconciled()
	}

	suite.assertAmount("0", suite.envelope(groceries.ID).Spent)
	suite.assertAmount("50", suite.envelope(rent.ID).Spent)
}
