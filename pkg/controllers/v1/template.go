package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TemplateCreate struct {
	Name           string                     `json:"name" binding:"required" example:"Payday"`
	DayOfMonth     int                        `json:"dayOfMonth" binding:"required,min=1,max=31" example:"15"`
	ExpectedAmount decimal.Decimal            `json:"expectedAmount" example:"2500"`
	Allocations    map[string]decimal.Decimal `json:"allocations"` // Envelope ID to amount
}

// TemplatePatch contains the editable fields. Allocations, if set, replace
// all allocations of the template.
type TemplatePatch struct {
	Name           *string                    `json:"name" example:"Payday"`
	DayOfMonth     *int                       `json:"dayOfMonth" example:"1"`
	ExpectedAmount *decimal.Decimal           `json:"expectedAmount" example:"2600"`
	Allocations    map[string]decimal.Decimal `json:"allocations"`
}

// Template is a funding template with the sum of its allocations.
type Template struct {
	models.FundingTemplate
	Total decimal.Decimal `json:"total" example:"2400"`
}

func newTemplate(t models.FundingTemplate) Template {
	return Template{FundingTemplate: t, Total: t.Total()}
}

func (co Controller) RegisterTemplateRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetTemplates)
		r.POST("", co.CreateTemplate)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetTemplate)
		r.PATCH("/:id", co.UpdateTemplate)
		r.DELETE("/:id", co.DeleteTemplate)
		r.OPTIONS("/:id/apply", httputil.OptionsPost)
		r.POST("/:id/apply", co.ApplyTemplate)
	}
}

// @Summary		Get funding templates
// @Description	Lists the funding templates. With ?day=, only templates due on that day of the month are returned
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	v1.Response[[]v1.Template]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			day	query	int	false	"Only templates for this day of the month"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/templates [get]
func (co Controller) GetTemplates(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	day, err := httputil.QueryInt(c, "day", 0)
	if err != nil {
		badRequest(c, err)
		return
	}

	var templates []models.FundingTemplate
	if day == 0 {
		templates, err = co.Engine.Templates(c.Request.Context(), bc)
	} else {
		templates, err = co.Engine.TemplatesForDay(c.Request.Context(), bc, day)
	}

	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Template, 0, len(templates))
	for _, t := range templates {
		data = append(data, newTemplate(t))
	}

	respond(c, http.StatusOK, data)
}

// @Summary		Create funding template
// @Description	Creates a new funding template
// @Tags			Templates
// @Produce		json
// @Success		201	{object}	v1.Response[v1.Template]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			template	body	v1.TemplateCreate	true	"Funding template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/templates [post]
func (co Controller) CreateTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var create TemplateCreate
	if err := httputil.BindData(c, &create); err != nil {
		badRequest(c, err)
		return
	}

	template, err := co.Engine.CreateTemplate(c.Request.Context(), bc, ledger.NewFundingTemplate{
		Name:           create.Name,
		DayOfMonth:     create.DayOfMonth,
		ExpectedAmount: create.ExpectedAmount,
		Allocations:    create.Allocations,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, newTemplate(template))
}

// @Summary		Get funding template
// @Description	Returns a specific funding template
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	v1.Response[v1.Template]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the funding template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/templates/{id} [get]
func (co Controller) GetTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	template, err := co.Engine.Template(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, newTemplate(template))
}

// @Summary		Update funding template
// @Description	Updates a funding template
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	v1.Response[v1.Template]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the funding template"
// @Param			template	body	v1.TemplatePatch	true	"Funding template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/templates/{id} [patch]
func (co Controller) UpdateTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var patch TemplatePatch
	if err := httputil.BindData(c, &patch); err != nil {
		badRequest(c, err)
		return
	}

	template, err := co.Engine.UpdateTemplate(c.Request.Context(), bc, c.Param("id"), ledger.FundingTemplateUpdate{
		Name:           patch.Name,
		DayOfMonth:     patch.DayOfMonth,
		ExpectedAmount: patch.ExpectedAmount,
		Allocations:    patch.Allocations,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, newTemplate(template))
}

// @Summary		Delete funding template
// @Description	Deletes a funding template
// @Tags			Templates
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the funding template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/templates/{id} [delete]
func (co Controller) DeleteTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if err := co.Engine.DeleteTemplate(c.Request.Context(), bc, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Apply funding template
// @Description	Funds the envelopes with the template's allocations and returns the funded envelopes
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	v1.Response[[]v1.Envelope]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the funding template"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/templates/{id}/apply [post]
func (co Controller) ApplyTemplate(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	envelopes, err := co.Engine.ApplyTemplate(c.Request.Context(), bc, c.Param("id"))
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
