package v1

import (
	"fmt"
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterBackupRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/export", httputil.OptionsGet)
	r.GET("/export", co.Export)
	r.OPTIONS("/import", httputil.OptionsPost)
	r.POST("/import", co.Import)
	r.OPTIONS("/data", httputil.OptionsDelete)
	r.DELETE("/data", co.ClearData)
}

// @Summary		Export
// @Description	Returns the backup document of all budgets. The document is not wrapped in a Response so that the downloaded file can be imported again as is
// @Tags			Backup
// @Produce		json
// @Success		200	{object}	backup.Document
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/export [get]
func (co Controller) Export(c *gin.Context) {
	document, err := co.Backup.Export(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("budget-backup-%s.json", document.ExportDate.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.IndentedJSON(http.StatusOK, document)
}

// @Summary		Import
// @Description	Restores a backup document. Multi-budget documents replace the budgets they contain, legacy documents are imported into the active budget
// @Tags			Backup
// @Produce		json
// @Success		200	{object}	v1.Response[backup.ImportResult]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			document	body	backup.Document	true	"Backup document"
// @Router			/v1/import [post]
func (co Controller) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		badRequest(c, httputil.ErrInvalidBody)
		return
	}

	if len(data) == 0 {
		badRequest(c, httputil.ErrRequestBodyEmpty)
		return
	}

	result, err := co.Backup.Import(c.Request.Context(), data)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}

// @Summary		Clear data
// @Description	Deletes all data of the budget. The budget itself is kept
// @Tags			Backup
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/data [delete]
func (co Controller) ClearData(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if err := co.Budgets.ClearData(c.Request.Context(), bc.BudgetID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
