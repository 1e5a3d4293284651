package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/gin-gonic/gin"
)

type SpendingTemplateCreate struct {
	Name     string                   `json:"name" binding:"required" example:"Monthly bills"`
	Expenses []models.TemplateExpense `json:"expenses"`
}

type SpendingTemplatePatch struct {
	Name     *string                  `json:"name" example:"Monthly bills"`
	Expenses []models.TemplateExpense `json:"expenses"` // Replaces all expenses if set
}

func (co Controller) RegisterSpendingTemplateRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetSpendingTemplates)
		r.POST("", co.CreateSpendingTemplate)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetSpendingTemplate)
		r.PATCH("/:id", co.UpdateSpendingTemplate)
		r.DELETE("/:id", co.DeleteSpendingTemplate)
		r.OPTIONS("/:id/apply", httputil.OptionsPost)
		r.POST("/:id/apply", co.ApplySpendingTemplate)
	}
}

// @Summary		Get spending templates
// @Description	Returns the spending templates. With ?day=, only the templates with an expense on that day of the month
// @Tags			Spending Templates
// @Produce		json
// @Success		200	{object}	v1.Response[[]models.SpendingTemplate]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			day	query	int	false	"Only templates for this day of the month"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/spending-templates [get]
func (co Controller) GetSpendingTemplates(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	day, err := httputil.QueryInt(c, "day", 0)
	if err != nil {
		badRequest(c, err)
		return
	}

	var templates []models.SpendingTemplate
	if day == 0 {
		templates, err = co.Engine.SpendingTemplates(c.Request.Context(), bc)
	} else {
		templates, err = co.Engine.SpendingTemplatesForDay(c.Request.Context(), bc, day)
	}

	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, templates)
}

// @Summary		Create spending template
// @Description	Creates a new spending template
// @Tags			Spending Templates
// @Produce		json
// @Success		201	{object}	v1.Response[models.SpendingTemplate]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			template	body	v1.SpendingTemplateCreate	true	"Spending template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/spending-templates [post]
func (co Controller) CreateSpendingTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var create SpendingTemplateCreate
	if err := httputil.BindData(c, &create); err != nil {
		badRequest(c, err)
		return
	}

	template, err := co.Engine.CreateSpendingTemplate(c.Request.Context(), bc, create.Name, create.Expenses)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, template)
}

// @Summary		Get spending template
// @Description	Returns a specific spending template
// @Tags			Spending Templates
// @Produce		json
// @Success		200	{object}	v1.Response[models.SpendingTemplate]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the spending template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/spending-templates/{id} [get]
func (co Controller) GetSpendingTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	template, err := co.Engine.SpendingTemplate(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, template)
}

// @Summary		Update spending template
// @Description	Updates a spending template
// @Tags			Spending Templates
// @Produce		json
// @Success		200	{object}	v1.Response[models.SpendingTemplate]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the spending template"
// @Param			template	body	v1.SpendingTemplatePatch	true	"Spending template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/spending-templates/{id} [patch]
func (co Controller) UpdateSpendingTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var patch SpendingTemplatePatch
	if err := httputil.BindData(c, &patch); err != nil {
		badRequest(c, err)
		return
	}

	template, err := co.Engine.UpdateSpendingTemplate(c.Request.Context(), bc, c.Param("id"), ledger.SpendingTemplateUpdate{
		Name:     patch.Name,
		Expenses: patch.Expenses,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, template)
}

// @Summary		Delete spending template
// @Description	Deletes a spending template
// @Tags			Spending Templates
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the spending template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/spending-templates/{id} [delete]
func (co Controller) DeleteSpendingTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if err := co.Engine.DeleteSpendingTemplate(c.Request.Context(), bc, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Apply spending template
// @Description	Books all expenses of the template. Expenses that fail are reported in the result, the others are still booked. With useTemplateDate=true, expenses are dated on their day of the month instead of today
// @Tags			Spending Templates
// @Produce		json
// @Success		200	{object}	v1.Response[ledger.SpendingTemplateResult]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the spending template"
// @Param			useTemplateDate	query	bool	false	"Date the expenses on their day of the month"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/spending-templates/{id}/apply [post]
func (co Controller) ApplySpendingTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	useTemplateDate, err := httputil.QueryBool(c, "useTemplateDate")
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := co.Engine.ApplySpendingTemplate(c.Request.Context(), bc, c.Param("id"), useTemplateDate)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}
