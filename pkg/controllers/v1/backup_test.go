package v1_test

import (
	"net/http"
	"strings"

	"github.com/envelope-ledger/backend/pkg/backup"
	v1 "github.com/envelope-ledger/backend/pkg/controllers/v1"
	"github.com/envelope-ledger/backend/test"
)

func (suite *TestSuiteStandard) TestExportImport() {
	suite.createEnvelope("Groceries", 100)

	r := suite.request(http.MethodGet, "/export", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
	suite.Assert().True(strings.HasPrefix(r.Header().Get("Content-Disposition"), `attachment; filename="budget-backup-`))

	exported := r.Body.String()

	var document backup.Document
	test.DecodeResponse(suite.T(), r, &document)
	suite.Assert().Equal(backup.Version, document.ExportVersion)
	suite.Assert().Len(document.BudgetData["default"].Envelopes, 1)

	r = suite.request(http.MethodDelete, "/data", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodGet, "/envelopes", nil)
	var envelopes v1.Response[[]v1.Envelope]
	test.DecodeResponse(suite.T(), r, &envelopes)
	suite.Assert().Len(envelopes.Data, 0)

	r = suite.request(http.MethodPost, "/import", exported)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var result v1.Response[backup.ImportResult]
	test.DecodeResponse(suite.T(), r, &result)
	suite.Assert().Equal(backup.FormatMultiBudget, result.Data.Format)
	suite.Assert().Equal([]string{"default"}, result.Data.Budgets)

	r = suite.request(http.MethodGet, "/envelopes", nil)
	test.DecodeResponse(suite.T(), r, &envelopes)
	suite.Require().Len(envelopes.Data, 1)
	suite.Assert().Equal("Groceries", envelopes.Data[0].Name)
}

func (suite *TestSuiteStandard) TestImportLegacy() {
	r := suite.request(http.MethodPost, "/import", `{"envelopes": [{"id": "e1", "name": "Rent", "planned": 900, "funded": 0, "spent": 0, "category": "needs"}]}`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var result v1.Response[backup.ImportResult]
	test.DecodeResponse(suite.T(), r, &result)
	suite.Assert().Equal(backup.FormatLegacy, result.Data.Format)

	r = suite.request(http.MethodGet, "/envelopes/e1", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)
}

func (suite *TestSuiteStandard) TestImportInvalid() {
	tests := []struct {
		name string
		body string
	}{
		{"Empty", ""},
		{"Broken JSON", `{"envelopes": [`},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "/import", tt.body)
			test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
		})
	}
}
