package v1_test

import (
	"net/http"

	v1 "github.com/envelope-ledger/backend/pkg/controllers/v1"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestEnvelopeCRUD() {
	envelope := suite.createEnvelope("Groceries", 0)
	suite.Assert().Equal("needs", envelope.Category)

	name := "Food"
	r := suite.request(http.MethodPatch, "/envelopes/"+envelope.ID, v1.EnvelopePatch{Name: &name})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var updated v1.Response[v1.Envelope]
	test.DecodeResponse(suite.T(), r, &updated)
	suite.Assert().Equal("Food", updated.Data.Name)
	suite.Assert().True(updated.Data.Planned.IsZero())

	r = suite.request(http.MethodDelete, "/envelopes/"+envelope.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodGet, "/envelopes/"+envelope.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}

func (suite *TestSuiteStandard) TestEnvelopeBalance() {
	envelope := suite.createEnvelope("Groceries", 100)

	r := suite.request(http.MethodPost, "/transactions", v1.TransactionCreate{
		EnvelopeID:  &envelope.ID,
		Amount:      decimal.NewFromInt(30),
		Description: "Market",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	r = suite.request(http.MethodGet, "/envelopes/"+envelope.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var response v1.Response[v1.Envelope]
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().True(decimal.NewFromInt(70).Equal(response.Data.Balance), response.Data.Balance.String())

	r = suite.request(http.MethodGet, "/envelopes/"+envelope.ID+"/transactions", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var transactions v1.Response[[]models.Transaction]
	test.DecodeResponse(suite.T(), r, &transactions)
	suite.Assert().Len(transactions.Data, 1)
}

func (suite *TestSuiteStandard) TestEnvelopeOverdraw() {
	envelope := suite.createEnvelope("Groceries", 50)

	tests := []struct {
		amount    string
		overdraws bool
	}{
		{"50", false},
		{"50.01", true},
	}

	for _, tt := range tests {
		r := suite.request(http.MethodGet, "/envelopes/"+envelope.ID+"/overdraw?amount="+tt.amount, nil)
		test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

		var overdraw v1.Response[v1.Overdraw]
		test.DecodeResponse(suite.T(), r, &overdraw)
		suite.Assert().Equal(tt.overdraws, overdraw.Data.WouldOverdraw, tt.amount)
		suite.Assert().True(decimal.NewFromInt(50).Equal(overdraw.Data.Balance))
	}

	r := suite.request(http.MethodGet, "/envelopes/"+envelope.ID+"/overdraw?amount=lots", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
}

func (suite *TestSuiteStandard) TestFunding() {
	envelope := suite.createEnvelope("Rent", 0)

	r := suite.request(http.MethodPost, "/income", v1.IncomeCreate{Source: "Salary", Amount: decimal.NewFromInt(1000)})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	r = suite.request(http.MethodPost, "/funding", v1.FundingPlan{
		Allocations: map[string]decimal.Decimal{envelope.ID: decimal.NewFromInt(800)},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	r = suite.request(http.MethodGet, "/funding", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var overview v1.Response[v1.FundingOverview]
	test.DecodeResponse(suite.T(), r, &overview)
	suite.Assert().True(decimal.NewFromInt(200).Equal(overview.Data.Available), overview.Data.Available.String())

	// More than is available
	r = suite.request(http.MethodPost, "/funding", v1.FundingPlan{
		Allocations: map[string]decimal.Decimal{envelope.ID: decimal.NewFromInt(201)},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	// Negative amounts cannot make room for others
	other := suite.createEnvelope("Groceries", 0)
	r = suite.request(http.MethodPost, "/funding", v1.FundingPlan{
		Allocations: map[string]decimal.Decimal{
			envelope.ID: decimal.NewFromInt(1000),
			other.ID:    decimal.NewFromInt(-1000),
		},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	r = suite.request(http.MethodGet, "/funding", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
	test.DecodeResponse(suite.T(), r, &overview)
	suite.Assert().True(decimal.NewFromInt(200).Equal(overview.Data.Available), overview.Data.Available.String())
}

func (suite *TestSuiteStandard) TestIncomeCRUD() {
	r := suite.request(http.MethodPost, "/income", v1.IncomeCreate{Source: "Salary", Amount: decimal.NewFromInt(2500), Frequency: "monthly"})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	var income v1.Response[models.Income]
	test.DecodeResponse(suite.T(), r, &income)

	amount := decimal.NewFromInt(2600)
	r = suite.request(http.MethodPatch, "/income/"+income.Data.ID, v1.IncomePatch{Amount: &amount})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
	test.DecodeResponse(suite.T(), r, &income)
	suite.Assert().True(amount.Equal(income.Data.Amount))

	r = suite.request(http.MethodDelete, "/income/"+income.Data.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodGet, "/income/"+income.Data.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}
