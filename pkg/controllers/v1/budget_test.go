package v1_test

import (
	"net/http"

	v1 "github.com/envelope-ledger/backend/pkg/controllers/v1"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/test"
)

func (suite *TestSuiteStandard) createBudget(name string) models.Budget {
	r := suite.request(http.MethodPost, "/budgets", v1.BudgetEditable{Name: name})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	var budget v1.Response[models.Budget]
	test.DecodeResponse(suite.T(), r, &budget)
	return budget.Data
}

func (suite *TestSuiteStandard) TestBudgetLifecycle() {
	vacation := suite.createBudget("Vacation")

	r := suite.request(http.MethodGet, "/budgets", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var list v1.Response[[]models.Budget]
	test.DecodeResponse(suite.T(), r, &list)
	suite.Require().Len(list.Data, 2)
	suite.Assert().Equal("default", list.Data[0].ID)

	r = suite.request(http.MethodPatch, "/budgets/"+vacation.ID, v1.BudgetEditable{Name: "Holidays"})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var renamed v1.Response[models.Budget]
	test.DecodeResponse(suite.T(), r, &renamed)
	suite.Assert().Equal("Holidays", renamed.Data.Name)

	r = suite.request(http.MethodDelete, "/budgets/"+vacation.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodGet, "/budgets/"+vacation.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}

func (suite *TestSuiteStandard) TestBudgetCreateNoName() {
	r := suite.request(http.MethodPost, "/budgets", `{}`)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
	suite.Assert().Equal("Name is required", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = suite.request(http.MethodPost, "/budgets", "")
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
}

func (suite *TestSuiteStandard) TestActiveBudget() {
	vacation := suite.createBudget("Vacation")

	r := suite.request(http.MethodGet, "/budgets/active", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var active v1.Response[models.Budget]
	test.DecodeResponse(suite.T(), r, &active)
	suite.Assert().Equal("default", active.Data.ID)

	r = suite.request(http.MethodPut, "/budgets/active", v1.ActiveBudget{ID: vacation.ID})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
	test.DecodeResponse(suite.T(), r, &active)
	suite.Assert().Equal(vacation.ID, active.Data.ID)

	// The active budget cannot be deleted
	r = suite.request(http.MethodDelete, "/budgets/"+vacation.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	r = suite.request(http.MethodPut, "/budgets/active", v1.ActiveBudget{ID: "missing"})
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}

func (suite *TestSuiteStandard) TestDeleteLastBudget() {
	r := suite.request(http.MethodDelete, "/budgets/default", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
}

func (suite *TestSuiteStandard) TestBudgetsAreIsolated() {
	vacation := suite.createBudget("Vacation")
	suite.createEnvelope("Groceries", 0)

	r := suite.request(http.MethodGet, "/envelopes?budget="+vacation.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var envelopes v1.Response[[]v1.Envelope]
	test.DecodeResponse(suite.T(), r, &envelopes)
	suite.Assert().Len(envelopes.Data, 0)
}
