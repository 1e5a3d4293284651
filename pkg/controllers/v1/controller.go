// Package v1 contains the HTTP handlers of the v1 API.
//
// Ledger endpoints work on the budget given in the "budget" query
// parameter, or on the active budget if it is not set.
package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/envelope-ledger/backend/pkg/backup"
	"github.com/envelope-ledger/backend/pkg/budgets"
	"github.com/envelope-ledger/backend/pkg/cloudsync"
	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/gin-gonic/gin"
)

// Controller holds the services the handlers use. Sync is nil when cloud
// sync is not configured.
type Controller struct {
	Engine  *ledger.Engine
	Budgets *budgets.Manager
	Backup  *backup.Service
	Sync    *cloudsync.Syncer
}

// Response is the body of all responses except the export.
type Response[T any] struct {
	Data  T       `json:"data"`                                                         // The requested data
	Error *string `json:"error" example:"envelope not found: 4d6cd4f1-7f8a-4d5c-9d1c"` // The error, if any occurred
}

var (
	errEnvelopeOrAccount = fmt.Errorf("%w: either envelopeId or accountId must be set", ledger.ErrValidation)
	errInvalidAmount     = fmt.Errorf("%w: the amount query parameter must be a number", ledger.ErrValidation)
	errUnknownEntryKind  = fmt.Errorf("%w: the kind must be one of expense, income, transfer", ledger.ErrValidation)
)

// status returns the HTTP status for an error.
func status(err error) int {
	switch {
	case errors.Is(err, store.ErrGeneral):
		return http.StatusInternalServerError
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, cloudsync.ErrNoRemoteBackup):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrWouldOverdraw):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrAccountIDRequired),
		errors.Is(err, budgets.ErrLastBudget),
		errors.Is(err, budgets.ErrActiveBudget),
		errors.Is(err, httputil.ErrRequestBodyEmpty),
		errors.Is(err, httputil.ErrInvalidBody),
		errors.Is(err, httputil.ErrInvalidQueryString):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// fail writes the error response for err.
func fail(c *gin.Context, err error) {
	httputil.NewError(c, status(err), err)
}

// badRequest writes a 400 response for errors returned by request parsing.
func badRequest(c *gin.Context, err error) {
	httputil.NewError(c, http.StatusBadRequest, err)
}

func respond[T any](c *gin.Context, code int, data T) {
	c.JSON(code, Response[T]{Data: data})
}

// budgetContext resolves the budget of the request.
func (co Controller) budgetContext(c *gin.Context) (ledger.BudgetContext, bool) {
	bc, err := co.Budgets.Context(c.Request.Context(), c.Query("budget"))
	if err != nil {
		fail(c, err)
		return ledger.BudgetContext{}, false
	}

	return bc, true
}

// RegisterRoutes registers all v1 routes with the group.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", GetV1)
	r.OPTIONS("", httputil.OptionsGet)

	co.RegisterBudgetRoutes(r.Group("/budgets"))
	co.RegisterEnvelopeRoutes(r.Group("/envelopes"))
	co.RegisterFundingRoutes(r.Group("/funding"))
	co.RegisterIncomeRoutes(r.Group("/income"))
	co.RegisterTransactionRoutes(r.Group("/transactions"))
	co.RegisterAccountRoutes(r.Group("/accounts"))
	co.RegisterTemplateRoutes(r.Group("/templates"))
	co.RegisterSpendingTemplateRoutes(r.Group("/spending-templates"))
	co.RegisterMonthRoutes(r.Group("/months"))
	co.RegisterCashFlowRoutes(r)
	co.RegisterBackupRoutes(r)

	if co.Sync != nil {
		co.RegisterSyncRoutes(r.Group("/sync"))
	}
}

type Links struct {
	Budgets           string `json:"budgets" example:"https://example.com/api/v1/budgets"`
	Envelopes         string `json:"envelopes" example:"https://example.com/api/v1/envelopes"`
	Funding           string `json:"funding" example:"https://example.com/api/v1/funding"`
	Income            string `json:"income" example:"https://example.com/api/v1/income"`
	Transactions      string `json:"transactions" example:"https://example.com/api/v1/transactions"`
	Accounts          string `json:"accounts" example:"https://example.com/api/v1/accounts"`
	Templates         string `json:"templates" example:"https://example.com/api/v1/templates"`
	SpendingTemplates string `json:"spendingTemplates" example:"https://example.com/api/v1/spending-templates"`
	Months            string `json:"months" example:"https://example.com/api/v1/months"`
	CashFlow          string `json:"cashFlow" example:"https://example.com/api/v1/cash-flow"`
	Export            string `json:"export" example:"https://example.com/api/v1/export"`
}

type RootResponse struct {
	Links Links `json:"links"`
}

// @Summary		v1 API
// @Description	Returns the links to all v1 endpoints
// @Tags			v1
// @Success		200	{object}	RootResponse
// @Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := c.GetString(httputil.ContextURL) + "/v1"

	c.JSON(http.StatusOK, RootResponse{
		Links: Links{
			Budgets:           url + "/budgets",
			Envelopes:         url + "/envelopes",
			Funding:           url + "/funding",
			Income:            url + "/income",
			Transactions:      url + "/transactions",
			Accounts:          url + "/accounts",
			Templates:         url + "/templates",
			SpendingTemplates: url + "/spending-templates",
			Months:            url + "/months",
			CashFlow:          url + "/cash-flow",
			Export:            url + "/export",
		},
	})
}
