package v1_test

import (
	"net/http"

	v1 "github.com/envelope-ledger/backend/pkg/controllers/v1"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestRollover() {
	envelope := suite.createEnvelope("Groceries", 100)
	suite.createTransaction(v1.TransactionCreate{EnvelopeID: &envelope.ID, Amount: decimal.NewFromInt(30)}, http.StatusCreated)

	r := suite.request(http.MethodGet, "/months/current", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var current v1.Response[models.CurrentMonth]
	test.DecodeResponse(suite.T(), r, &current)
	suite.Require().NotEmpty(current.Data.MonthKey)

	r = suite.request(http.MethodPost, "/months/rollover?rolloverUnspent=true", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var result v1.Response[ledger.RolloverResult]
	test.DecodeResponse(suite.T(), r, &result)
	suite.Assert().Equal(current.Data.MonthKey, result.Data.Archive.MonthKey)
	suite.Require().Len(result.Data.Archive.EnvelopeSnapshots, 1)
	suite.Assert().True(decimal.NewFromInt(70).Equal(result.Data.Archive.EnvelopeSnapshots[0].Balance))

	r = suite.request(http.MethodGet, "/envelopes/"+envelope.ID, nil)
	var rolled v1.Response[v1.Envelope]
	test.DecodeResponse(suite.T(), r, &rolled)
	suite.Assert().True(decimal.NewFromInt(70).Equal(rolled.Data.Funded))
	suite.Assert().True(rolled.Data.Spent.IsZero())

	r = suite.request(http.MethodGet, "/months/archives", nil)
	var archives v1.Response[[]models.MonthArchive]
	test.DecodeResponse(suite.T(), r, &archives)
	suite.Assert().Len(archives.Data, 1)

	r = suite.request(http.MethodGet, "/months/archives/"+current.Data.MonthKey, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	r = suite.request(http.MethodGet, "/months/archives/1999-01", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)

	r = suite.request(http.MethodGet, "/months/archives/latest", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	r = suite.request(http.MethodGet, "/months/report?month=2024-13", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	r = suite.request(http.MethodGet, "/months/report?month="+current.Data.MonthKey, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var report v1.Response[ledger.MonthReport]
	test.DecodeResponse(suite.T(), r, &report)
	suite.Assert().True(report.Data.Archived)
	suite.Assert().True(decimal.NewFromInt(30).Equal(report.Data.TotalSpent))
}

func (suite *TestSuiteStandard) TestRolloverWithoutCarry() {
	envelope := suite.createEnvelope("Groceries", 100)

	r := suite.request(http.MethodPost, "/months/rollover", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	r = suite.request(http.MethodGet, "/envelopes/"+envelope.ID, nil)
	var rolled v1.Response[v1.Envelope]
	test.DecodeResponse(suite.T(), r, &rolled)
	suite.Assert().True(rolled.Data.Funded.IsZero())
	suite.Assert().True(decimal.NewFromInt(100).Equal(rolled.Data.Planned), "planned amounts are kept")
}

func (suite *TestSuiteStandard) TestCurrentMonthReport() {
	r := suite.request(http.MethodGet, "/months/report", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var report v1.Response[ledger.MonthReport]
	test.DecodeResponse(suite.T(), r, &report)
	suite.Assert().False(report.Data.Archived)
}

func (suite *TestSuiteStandard) TestBankBalanceAndCashFlow() {
	r := suite.request(http.MethodGet, "/bank-balance", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var balance v1.Response[v1.BankBalance]
	test.DecodeResponse(suite.T(), r, &balance)
	suite.Assert().True(balance.Data.Balance.IsZero())

	r = suite.request(http.MethodPut, "/bank-balance", v1.BankBalance{Balance: decimal.NewFromInt(1200)})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	r = suite.request(http.MethodGet, "/cash-flow", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var cashFlow v1.Response[ledger.CashFlow]
	test.DecodeResponse(suite.T(), r, &cashFlow)
	suite.Assert().Len(cashFlow.Data.Days, 30)
	suite.Assert().True(decimal.NewFromInt(1200).Equal(cashFlow.Data.Summary.Starting))

	r = suite.request(http.MethodGet, "/cash-flow?days=7", nil)
	test.DecodeResponse(suite.T(), r, &cashFlow)
	suite.Assert().Len(cashFlow.Data.Days, 7)

	r = suite.request(http.MethodGet, "/cash-flow?days=0", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
}
