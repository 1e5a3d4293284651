package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FundingOverview shows how much income is left to distribute.
type FundingOverview struct {
	Available  decimal.Decimal        `json:"available" example:"400"` // Income not yet moved into envelopes
	Totals     ledger.Totals          `json:"totals"`
	Categories []ledger.CategoryCount `json:"categories"`
}

type FundingPlan struct {
	Allocations map[string]decimal.Decimal `json:"allocations" binding:"required"` // Envelope ID to amount
}

func (co Controller) RegisterFundingRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetFunding)
	r.POST("", co.FundEnvelopes)
}

// @Summary		Get funding overview
// @Description	Returns the income available to fund envelopes, the totals and the categories
// @Tags			Funding
// @Produce		json
// @Success		200	{object}	v1.Response[v1.FundingOverview]
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/funding [get]
func (co Controller) GetFunding(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	available, err := co.Engine.AvailableToFund(ctx, bc)
	if err != nil {
		fail(c, err)
		return
	}

	totals, err := co.Engine.Totals(ctx, bc)
	if err != nil {
		fail(c, err)
		return
	}

	categories, err := co.Engine.Categories(ctx, bc)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, FundingOverview{Available: available, Totals: totals, Categories: categories})
}

// @Summary		Fund envelopes
// @Description	Moves income into envelopes. Either the whole plan is applied or nothing. Negative amounts are rejected
// @Tags			Funding
// @Produce		json
// @Success		200	{object}	v1.Response[[]v1.Envelope]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			plan	body	v1.FundingPlan	true	"Funding plan"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/funding [post]
func (co Controller) FundEnvelopes(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var plan FundingPlan
	if err := httputil.BindData(c, &plan); err != nil {
		badRequest(c, err)
		return
	}

	envelopes, err := co.Engine.FundEnvelopes(c.Request.Context(), bc, plan.Allocations)
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Envelope, 0, len(envelopes))
	for _, e := range envelopes {
		data = append(data, newEnvelope(e))
	}

	respond(c, http.StatusOK, data)
}
