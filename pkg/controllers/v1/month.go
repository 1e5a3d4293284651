package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterMonthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/current", httputil.OptionsGet)
	r.GET("/current", co.GetCurrentMonth)
	r.OPTIONS("/rollover", httputil.OptionsPost)
	r.POST("/rollover", co.StartNewMonth)
	r.OPTIONS("/report", httputil.OptionsGet)
	r.GET("/report", co.GetMonthReport)
	r.OPTIONS("/archives", httputil.OptionsGet)
	r.GET("/archives", co.GetMonthArchives)
	r.OPTIONS("/archives/:monthKey", httputil.OptionsGet)
	r.GET("/archives/:monthKey", co.GetMonthArchive)
}

// @Summary		Get current month
// @Description	Returns the month the budget is in
// @Tags			Months
// @Produce		json
// @Success		200	{object}	v1.Response[models.CurrentMonth]
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/months/current [get]
func (co Controller) GetCurrentMonth(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	current, err := co.Engine.CurrentMonth(c.Request.Context(), bc)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, current)
}

// @Summary		Start new month
// @Description	Archives the current month. With rolloverUnspent=true, unspent envelope balances are carried into the new month
// @Tags			Months
// @Produce		json
// @Success		200	{object}	v1.Response[ledger.RolloverResult]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			rolloverUnspent	query	bool	false	"Carry unspent envelope balances into the new month"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/months/rollover [post]
func (co Controller) StartNewMonth(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	rollover, err := httputil.QueryBool(c, "rolloverUnspent")
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := co.Engine.StartNewMonth(c.Request.Context(), bc, rollover)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}

// @Summary		Get month report
// @Description	Reports on the month given as ?month=YYYY-MM, or on the current month
// @Tags			Months
// @Produce		json
// @Success		200	{object}	v1.Response[ledger.MonthReport]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			month	query	string	false	"Month formatted as YYYY-MM"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/months/report [get]
func (co Controller) GetMonthReport(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	report, err := co.Engine.MonthReport(c.Request.Context(), bc, c.Query("month"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, report)
}

// @Summary		Get month archives
// @Description	Returns the archives of all past months
// @Tags			Months
// @Produce		json
// @Success		200	{object}	v1.Response[[]models.MonthArchive]
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/months/archives [get]
func (co Controller) GetMonthArchives(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	archives, err := co.Engine.MonthArchives(c.Request.Context(), bc)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, archives)
}

// @Summary		Get month archive
// @Description	Returns the archive of a month
// @Tags			Months
// @Produce		json
// @Success		200	{object}	v1.Response[models.MonthArchive]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			monthKey	path	string	true	"Month formatted as YYYY-MM"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/months/archives/{monthKey} [get]
func (co Controller) GetMonthArchive(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	archive, err := co.Engine.MonthArchive(c.Request.Context(), bc, c.Param("monthKey"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, archive)
}
