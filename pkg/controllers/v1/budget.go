package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/gin-gonic/gin"
)

type BudgetEditable struct {
	Name string `json:"name" binding:"required" example:"Vacation"`
}

type ActiveBudget struct {
	ID string `json:"id" binding:"required" example:"default"`
}

func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetBudgets)
		r.POST("", co.CreateBudget)
	}

	// Registered before /:id so that "active" is not taken as an ID
	{
		r.OPTIONS("/active", httputil.OptionsGetPut)
		r.GET("/active", co.GetActiveBudget)
		r.PUT("/active", co.SetActiveBudget)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetBudget)
		r.PATCH("/:id", co.UpdateBudget)
		r.DELETE("/:id", co.DeleteBudget)
	}
}

// @Summary		Get budgets
// @Description	Returns all budgets
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	v1.Response[[]models.Budget]
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/budgets [get]
func (co Controller) GetBudgets(c *gin.Context) {
	list, err := co.Budgets.Budgets(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, list)
}

// @Summary		Create budget
// @Description	Creates a new, empty budget
// @Tags			Budgets
// @Produce		json
// @Success		201	{object}	v1.Response[models.Budget]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	body	v1.BudgetEditable	true	"Budget"
// @Router			/v1/budgets [post]
func (co Controller) CreateBudget(c *gin.Context) {
	var editable BudgetEditable
	if err := httputil.BindData(c, &editable); err != nil {
		badRequest(c, err)
		return
	}

	budget, err := co.Budgets.CreateBudget(c.Request.Context(), editable.Name)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, budget)
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	v1.Response[models.Budget]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the budget"
// @Router			/v1/budgets/{id} [get]
func (co Controller) GetBudget(c *gin.Context) {
	budget, err := co.Budgets.Budget(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, budget)
}

// @Summary		Update budget
// @Description	Renames a budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	v1.Response[models.Budget]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the budget"
// @Param			budget	body	v1.BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func (co Controller) UpdateBudget(c *gin.Context) {
	var editable BudgetEditable
	if err := httputil.BindData(c, &editable); err != nil {
		badRequest(c, err)
		return
	}

	budget, err := co.Budgets.RenameBudget(c.Request.Context(), c.Param("id"), editable.Name)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, budget)
}

// @Summary		Delete budget
// @Description	Deletes a budget and all of its data. The active budget and the last budget cannot be deleted
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the budget"
// @Router			/v1/budgets/{id} [delete]
func (co Controller) DeleteBudget(c *gin.Context) {
	if err := co.Budgets.DeleteBudget(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get active budget
// @Description	Returns the budget that is used when no budget is selected
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	v1.Response[models.Budget]
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/budgets/active [get]
func (co Controller) GetActiveBudget(c *gin.Context) {
	id, err := co.Budgets.Active(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	budget, err := co.Budgets.Budget(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, budget)
}

// @Summary		Switch active budget
// @Description	Sets the budget that is used when no budget is selected
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	v1.Response[models.Budget]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	body	v1.ActiveBudget	true	"Budget"
// @Router			/v1/budgets/active [put]
func (co Controller) SetActiveBudget(c *gin.Context) {
	var active ActiveBudget
	if err := httputil.BindData(c, &active); err != nil {
		badRequest(c, err)
		return
	}

	if err := co.Budgets.SwitchActive(c.Request.Context(), active.ID); err != nil {
		fail(c, err)
		return
	}

	budget, err := co.Budgets.Budget(c.Request.Context(), active.ID)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, budget)
}
