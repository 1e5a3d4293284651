package ledger_test

import (
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestFundingTemplateCrud() {
	groceries := suite.createEnvelope("Groceries", "400")

	template, err := suite.engine.CreateTemplate(suite.ctx, suite.bc, ledger.NewFundingTemplate{
		Name:        "Payday",
		DayOfMonth:  15,
		Allocations: map[string]decimal.Decimal{groceries.ID: amount("200")},
	})
	suite.Require().Nil(err)
	suite.assertAmount("200", template.Total())

	_, err = suite.engine.CreateTemplate(suite.ctx, suite.bc, ledger.NewFundingTemplate{Name: "Broken", DayOfMonth: 32})
	suite.Assert().ErrorIs(err, ledger.ErrValidation)

	_, err = suite.engine.CreateTemplate(suite.ctx, suite.bc, ledger.NewFundingTemplate{
		Name:        "Negative",
		DayOfMonth:  1,
		Allocations: map[string]decimal.Decimal{groceries.ID: amount("-50")},
	})
	suite.Assert().ErrorIs(err, ledger.ErrValidation)

	_, err = suite.engine.UpdateTemplate(suite.ctx, suite.bc, template.ID, ledger.FundingTemplateUpdate{
		Allocations: map[string]decimal.Decimal{groceries.ID: amount("-50")},
	})
	suite.Assert().ErrorIs(err, ledger.ErrValidation)

	due, err := suite.engine.TemplatesForDay(suite.ctx, suite.bc, 15)
	suite.Require().Nil(err)
	suite.Assert().Len(due, 1)

	due, err = suite.engine.TemplatesForDay(suite.ctx, suite.bc, 1)
	suite.Require().Nil(err)
	suite.Assert().Len(due, 0)

	day := 1
	updated, err := suite.engine.UpdateTemplate(suite.ctx, suite.bc, template.ID, ledger.FundingTemplateUpdate{DayOfMonth: &day})
	suite.Require().Nil(err)
	suite.Assert().Equal(1, updated.DayOfMonth)
	suite.assertAmount("200", updated.Allocations[groceries.ID])

	suite.Require().Nil(suite.engine.DeleteTemplate(suite.ctx, suite.bc, template.ID))

	_, err = suite.engine.Template(suite.ctx, suite.bc, template.ID)
	suite.Assert().ErrorIs(err, ledger.ErrNotFound)
}

func (suite *TestSuiteStandard) TestApplyTemplate() {
	groceries := suite.createEnvelope("Groceries", "400")
	rent := suite.createEnvelope("Rent", "1200")
	suite.addIncome("Paycheck", "1000")

	template, err := suite.engine.CreateTemplate(suite.ctx, suite.bc, ledger.NewFundingTemplate{
		Name:       "Payday",
		DayOfMonth: 1,
		Allocations: map[string]decimal.Decimal{
			groceries.ID: amount("400"),
			rent.ID:      amount("500"),
		},
	})
	suite.Require().Nil(err)

	funded, err := suite.engine.ApplyTemplate(suite.ctx, suite.bc, template.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(funded, 2)

	// Only 100 is left now
	_, err = suite.engine.ApplyTemplate(suite.ctx, suite.bc, template.ID)
	suite.Require().ErrorIs(err, ledger.ErrInsufficientFunds)
	suite.Assert().Equal("Template requires $900.00 but only $100.00 is available.", err.Error())

	suite.assertAmount("400", suite.envelope(groceries.ID).Funded)
	suite.assertAmount("500", suite.envelope(rent.ID).Funded)

	_, err = suite.engine.ApplyTemplate(suite.ctx, suite.bc, "missing")
	suite.Assert().ErrorIs(err, ledger.ErrNotFound)
}

func (suite *TestSuiteStandard) TestApplySpendingTemplatePartialFailure() {
	groceries, rent := suite.funded()
	doomed := suite.createEnvelope("Streaming", "15")

	template, err := suite.engine.CreateSpendingTemplate(suite.ctx, suite.bc, "Monthly bills", []models.TemplateExpense{
		{EnvelopeID: rent.ID, Amount: amount("1000"), Description: "Rent", DayOfMonth: 1},
		{EnvelopeID: doomed.ID, Amount: amount("15"), Description: "Streaming", DayOfMonth: 31},
		{EnvelopeID: groceries.ID, Amount: amount("60"), Description: "Meal kit"},
	})
	suite.Require().Nil(err)

	suite.Require().Nil(suite.engine.DeleteEnvelope(suite.ctx, suite.bc, doomed.ID))

	result, err := suite.engine.ApplySpendingTemplate(suite.ctx, suite.bc, template.ID, false)
	suite.Require().Nil(err)

	suite.Assert().Equal([]string{"Rent", "Meal kit"}, result.Success)
	suite.Require().Len(result.Failed, 1)
	suite.Assert().Equal("Streaming", result.Failed[0].Description)
	suite.Assert().Contains(result.Failed[0].Error, doomed.ID)

	suite.assertAmount("1000", suite.envelope(rent.ID).Spent)
	suite.assertAmount("60", suite.envelope(groceries.ID).Spent)

	transactions, err := suite.engine.Transactions(suite.ctx, suite.bc, ledger.TransactionFilter{})
	suite.Require().Nil(err)
	suite.Assert().Len(transactions, 2)
	for _, t := range transactions {
		suite.Assert().Equal("2024-03-15", t.Date.String())
	}
	suite.assertReconciled()
}

func (suite *TestSuiteStandard) TestApplySpendingTemplateDates() {
	groceries, _ := suite.funded()

	template, err := suite.engine.CreateSpendingTemplate(suite.ctx, suite.bc, "Groceries", []models.TemplateExpense{
		{EnvelopeID: groceries.ID, Amount: amount("10"), Description: "Early", DayOfMonth: 1},
		{EnvelopeID: groceries.ID, Amount: amount("10"), Description: "Undated"},
		{EnvelopeID: groceries.ID, Amount: amount("10"), Description: "Overflow", DayOfMonth: 31},
		{EnvelopeID: groceries.ID, Amount: amount("1000"), Description: "Too much"},
	})
	suite.Require().Nil(err)

	result, err := suite.engine.ApplySpendingTemplate(suite.ctx, suite.bc, template.ID, true)
	suite.Require().Nil(err)
	suite.Assert().Len(result.Success, 3)
	suite.Assert().Len(result.Failed, 1)

	transactions, err := suite.engine.Transactions(suite.ctx, suite.bc, ledger.TransactionFilter{})
	suite.Require().Nil(err)
	suite.Require().Len(transactions, 3)

	dates := map[string]string{}
	for _, t := range transactions {
		dates[t.Description] = t.Date.String()
	}

	suite.Assert().Equal(map[string]string{
		"Early":    "2024-03-01",
		"Undated":  "2024-03-15",
		"Overflow": "2024-03-31",
	}, dates)
	suite.assertAmount("30", suite.envelope(groceries.ID).Spent)
}

func (suite *TestSuiteStandard) TestSpendingTemplateCrud() {
	groceries := suite.createEnvelope("Groceries", "400")

	template, err := suite.engine.CreateSpendingTemplate(suite.ctx, suite.bc, "Weekly", []models.TemplateExpense{
		{EnvelopeID: groceries.ID, Amount: amount("80"), Description: "Groceries", DayOfMonth: 15},
	})
	suite.Require().Nil(err)

	due, err := suite.engine.SpendingTemplatesForDay(suite.ctx, suite.bc, 15)
	suite.Require().Nil(err)
	suite.Assert().Len(due, 1)

	_, err = suite.engine.CreateSpendingTemplate(suite.ctx, suite.bc, "Broken", []models.TemplateExpense{{Amount: amount("1")}})
	suite.Assert().ErrorIs(err, ledger.ErrValidation)

	name := "Weekly shop"
	updated, err := suite.engine.UpdateSpendingTemplate(suite.ctx, suite.bc, template.ID, ledger.SpendingTemplateUpdate{Name: &name})
	suite.Require().Nil(err)
	suite.Assert().Equal("Weekly shop", updated.Name)
	suite.Assert().Len(updated.Expenses, 1)

	suite.Require().Nil(suite.engine.DeleteSpendingTemplate(suite.ctx, suite.bc, template.ID))

	_, err = suite.engine.SpendingTemplate(suite.ctx, suite.bc, template.ID)
	suite.Assert().ErrorIs(err, ledger.ErrNotFound)

	_, err = suite.engine.ApplySpendingTemplate(suite.ctx, suite.bc, template.ID, false)
	suite.Assert().ErrorIs(err, ledger.ErrNotFound)
}
