package v1_test

import (
	"net/http"

	v1 "github.com/envelope-ledger/backend/pkg/controllers/v1"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/envelope-ledger/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestFundingTemplate() {
	rent := suite.createEnvelope("Rent", 0)
	food := suite.createEnvelope("Food", 0)

	r := suite.request(http.MethodPost, "/templates", v1.TemplateCreate{
		Name:       "Payday",
		DayOfMonth: 15,
		Allocations: map[string]decimal.Decimal{
			rent.ID: decimal.NewFromInt(700),
			food.ID: decimal.NewFromInt(300),
		},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	var template v1.Response[v1.Template]
	test.DecodeResponse(suite.T(), r, &template)
	suite.Assert().True(decimal.NewFromInt(1000).Equal(template.Data.Total))

	// Nothing to distribute yet
	r = suite.request(http.MethodPost, "/templates/"+template.Data.ID+"/apply", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	r = suite.request(http.MethodPost, "/income", v1.IncomeCreate{Source: "Salary", Amount: decimal.NewFromInt(1000)})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	r = suite.request(http.MethodPost, "/templates/"+template.Data.ID+"/apply", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var funded v1.Response[[]v1.Envelope]
	test.DecodeResponse(suite.T(), r, &funded)
	suite.Assert().Len(funded.Data, 2)

	tests := []struct {
		query string
		count int
	}{
		{"", 1},
		{"?day=15", 1},
		{"?day=1", 0},
	}

	for _, tt := range tests {
		r = suite.request(http.MethodGet, "/templates"+tt.query, nil)
		test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

		var list v1.Response[[]v1.Template]
		test.DecodeResponse(suite.T(), r, &list)
		suite.Assert().Len(list.Data, tt.count, tt.query)
	}

	r = suite.request(http.MethodGet, "/templates?day=soon", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
}

func (suite *TestSuiteStandard) TestFundingTemplateValidation() {
	r := suite.request(http.MethodPost, "/templates", v1.TemplateCreate{Name: "Payday", DayOfMonth: 32})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
	suite.Assert().Equal("DayOfMonth must be at most 31", test.DecodeError(suite.T(), r.Body.Bytes()))

	day := 0
	r = suite.request(http.MethodPost, "/templates", v1.TemplateCreate{Name: "Payday", DayOfMonth: 1})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	var template v1.Response[v1.Template]
	test.DecodeResponse(suite.T(), r, &template)

	r = suite.request(http.MethodPatch, "/templates/"+template.Data.ID, v1.TemplatePatch{DayOfMonth: &day})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	negative := map[string]decimal.Decimal{"any": decimal.NewFromInt(-50)}
	r = suite.request(http.MethodPatch, "/templates/"+template.Data.ID, v1.TemplatePatch{Allocations: negative})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	r = suite.request(http.MethodPost, "/templates", v1.TemplateCreate{Name: "Payday", DayOfMonth: 1, Allocations: negative})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)

	r = suite.request(http.MethodDelete, "/templates/"+template.Data.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodGet, "/templates/"+template.Data.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}

func (suite *TestSuiteStandard) TestSpendingTemplate() {
	internet := suite.createEnvelope("Internet", 50)
	phone := suite.createEnvelope("Phone", 10)

	r := suite.request(http.MethodPost, "/spending-templates", v1.SpendingTemplateCreate{
		Name: "Monthly bills",
		Expenses: []models.TemplateExpense{
			{EnvelopeID: internet.ID, Amount: decimal.NewFromInt(45), Description: "Internet", DayOfMonth: 3},
			{EnvelopeID: phone.ID, Amount: decimal.NewFromInt(25), Description: "Phone"},
		},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	var template v1.Response[models.SpendingTemplate]
	test.DecodeResponse(suite.T(), r, &template)

	r = suite.request(http.MethodPost, "/spending-templates/"+template.Data.ID+"/apply?useTemplateDate=true", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var result v1.Response[ledger.SpendingTemplateResult]
	test.DecodeResponse(suite.T(), r, &result)
	suite.Assert().Equal([]string{"Internet"}, result.Data.Success)
	suite.Require().Len(result.Data.Failed, 1)
	suite.Assert().Equal("Phone", result.Data.Failed[0].Description)

	r = suite.request(http.MethodGet, "/transactions", nil)
	var transactions v1.Response[[]models.Transaction]
	test.DecodeResponse(suite.T(), r, &transactions)
	suite.Require().Len(transactions.Data, 1)
	suite.Assert().Equal(3, transactions.Data[0].Date.Day())

	r = suite.request(http.MethodGet, "/spending-templates?day=3", nil)
	var list v1.Response[[]models.SpendingTemplate]
	test.DecodeResponse(suite.T(), r, &list)
	suite.Assert().Len(list.Data, 1)

	name := "Bills"
	r = suite.request(http.MethodPatch, "/spending-templates/"+template.Data.ID, v1.SpendingTemplatePatch{Name: &name})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
	test.DecodeResponse(suite.T(), r, &template)
	suite.Assert().Equal("Bills", template.Data.Name)
	suite.Assert().Len(template.Data.Expenses, 2)

	r = suite.request(http.MethodDelete, "/spending-templates/"+template.Data.ID, nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodPost, "/spending-templates/"+template.Data.ID+"/apply", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}
