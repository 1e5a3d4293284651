package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type IncomeCreate struct {
	Source    string          `json:"source" binding:"required" example:"Salary"`
	Amount    decimal.Decimal `json:"amount" example:"2500"`
	Date      types.Date      `json:"date" example:"2024-03-01"` // Defaults to today
	Frequency string          `json:"frequency" example:"biweekly"`
	AccountID *string         `json:"accountId"`
}

type IncomePatch struct {
	Source    *string          `json:"source" example:"Salary"`
	Amount    *decimal.Decimal `json:"amount" example:"2600"`
	Date      *types.Date      `json:"date" example:"2024-03-15"`
	Frequency *string          `json:"frequency" example:"monthly"`
	AccountID *string          `json:"accountId"` // An empty string removes the account
}

func (co Controller) RegisterIncomeRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetIncome)
		r.POST("", co.CreateIncome)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetIncomeRecord)
		r.PATCH("/:id", co.UpdateIncome)
		r.DELETE("/:id", co.DeleteIncome)
	}
}

// @Summary		Get income
// @Description	Returns all income records
// @Tags			Income
// @Produce		json
// @Success		200	{object}	v1.Response[[]models.Income]
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/income [get]
func (co Controller) GetIncome(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	income, err := co.Engine.Income(c.Request.Context(), bc)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, income)
}

// @Summary		Create income
// @Description	Records new income
// @Tags			Income
// @Produce		json
// @Success		201	{object}	v1.Response[models.Income]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			income	body	v1.IncomeCreate	true	"Income"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/income [post]
func (co Controller) CreateIncome(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var create IncomeCreate
	if err := httputil.BindData(c, &create); err != nil {
		badRequest(c, err)
		return
	}

	income, err := co.Engine.AddIncome(c.Request.Context(), bc, ledger.NewIncome{
		Source:    create.Source,
		Amount:    create.Amount,
		Date:      create.Date,
		Frequency: create.Frequency,
		AccountID: create.AccountID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, income)
}

// @Summary		Get income record
// @Description	Returns a specific income record
// @Tags			Income
// @Produce		json
// @Success		200	{object}	v1.Response[models.Income]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the income record"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/income/{id} [get]
func (co Controller) GetIncomeRecord(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	income, err := co.Engine.IncomeRecord(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, income)
}

// @Summary		Update income
// @Description	Updates an income record
// @Tags			Income
// @Produce		json
// @Success		200	{object}	v1.Response[models.Income]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the income record"
// @Param			income	body	v1.IncomePatch	true	"Income"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/income/{id} [patch]
func (co Controller) UpdateIncome(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var patch IncomePatch
	if err := httputil.BindData(c, &patch); err != nil {
		badRequest(c, err)
		return
	}

	income, err := co.Engine.UpdateIncome(c.Request.Context(), bc, c.Param("id"), ledger.IncomeUpdate{
		Source:    patch.Source,
		Amount:    patch.Amount,
		Date:      patch.Date,
		Frequency: patch.Frequency,
		AccountID: patch.AccountID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, income)
}

// @Summary		Delete income
// @Description	Deletes an income record
// @Tags			Income
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the income record"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/income/{id} [delete]
func (co Controller) DeleteIncome(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if err := co.Engine.DeleteIncome(c.Request.Context(), bc, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
