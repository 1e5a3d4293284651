package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BankBalance struct {
	Balance decimal.Decimal `json:"balance" example:"2150.32"`
}

// defaultCashFlowDays is the projection window if ?days= is not set.
const defaultCashFlowDays = 30

func (co Controller) RegisterCashFlowRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/bank-balance", httputil.OptionsGetPut)
	r.GET("/bank-balance", co.GetBankBalance)
	r.PUT("/bank-balance", co.SetBankBalance)
	r.OPTIONS("/cash-flow", httputil.OptionsGet)
	r.GET("/cash-flow", co.GetCashFlow)
}

// @Summary		Get bank balance
// @Description	Returns the balance the cash flow projection starts from
// @Tags			Cash Flow
// @Produce		json
// @Success		200	{object}	v1.Response[v1.BankBalance]
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/bank-balance [get]
func (co Controller) GetBankBalance(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	balance, err := co.Engine.BankBalance(c.Request.Context(), bc)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, BankBalance{Balance: balance})
}

// @Summary		Set bank balance
// @Description	Sets the balance the cash flow projection starts from
// @Tags			Cash Flow
// @Produce		json
// @Success		200	{object}	v1.Response[v1.BankBalance]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			balance	body	v1.BankBalance	true	"Bank balance"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/bank-balance [put]
func (co Controller) SetBankBalance(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var body BankBalance
	if err := httputil.BindData(c, &body); err != nil {
		badRequest(c, err)
		return
	}

	if err := co.Engine.SetBankBalance(c.Request.Context(), bc, body.Balance); err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, body)
}

// @Summary		Get cash flow
// @Description	Projects the bank balance for the next ?days= days
// @Tags			Cash Flow
// @Produce		json
// @Success		200	{object}	v1.Response[ledger.CashFlow]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			days	query	int	false	"Number of days. Defaults to 30"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/cash-flow [get]
func (co Controller) GetCashFlow(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	days, err := httputil.QueryInt(c, "days", defaultCashFlowDays)
	if err != nil {
		badRequest(c, err)
		return
	}

	cashFlow, err := co.Engine.CashFlowTimeline(c.Request.Context(), bc, days)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, cashFlow)
}
