package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type EnvelopeCreate struct {
	Name     string          `json:"name" binding:"required" example:"Groceries"`
	Planned  decimal.Decimal `json:"planned" example:"400"`
	Category string          `json:"category" example:"needs"` // Defaults to "needs"
}

// EnvelopePatch contains the editable fields. Omitted fields are not changed.
type EnvelopePatch struct {
	Name     *string          `json:"name" example:"Groceries"`
	Planned  *decimal.Decimal `json:"planned" example:"450"`
	Category *string          `json:"category" example:"needs"`
}

// Envelope is an envelope with its current balance.
type Envelope struct {
	models.Envelope
	Balance decimal.Decimal `json:"balance" example:"279.45"`
}

func newEnvelope(e models.Envelope) Envelope {
	return Envelope{Envelope: e, Balance: e.Balance()}
}

// Overdraw tells if spending an amount would overdraw an envelope.
type Overdraw struct {
	WouldOverdraw bool            `json:"wouldOverdraw"`
	Balance       decimal.Decimal `json:"balance"` // The current balance of the envelope
}

func (co Controller) RegisterEnvelopeRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetEnvelopes)
		r.POST("", co.CreateEnvelope)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetEnvelope)
		r.PATCH("/:id", co.UpdateEnvelope)
		r.DELETE("/:id", co.DeleteEnvelope)
		r.OPTIONS("/:id/transactions", httputil.OptionsGet)
		r.GET("/:id/transactions", co.GetEnvelopeTransactions)
		r.OPTIONS("/:id/overdraw", httputil.OptionsGet)
		r.GET("/:id/overdraw", co.GetEnvelopeOverdraw)
	}
}

// @Summary		Get envelopes
// @Description	Returns a list of envelopes with their balances
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	v1.Response[[]v1.Envelope]
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/envelopes [get]
func (co Controller) GetEnvelopes(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	envelopes, err := co.Engine.Envelopes(c.Request.Context(), bc)
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

// @Summary		Create envelope
// @Description	Creates a new envelope
// @Tags			Envelopes
// @Produce		json
// @Success		201	{object}	v1.Response[v1.Envelope]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			envelope	body	v1.EnvelopeCreate	true	"Envelope"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/envelopes [post]
func (co Controller) CreateEnvelope(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var create EnvelopeCreate
	if err := httputil.BindData(c, &create); err != nil {
		badRequest(c, err)
		return
	}

	envelope, err := co.Engine.CreateEnvelope(c.Request.Context(), bc, create.Name, create.Planned, create.Category)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, newEnvelope(envelope))
}

// @Summary		Get envelope
// @Description	Returns a specific envelope
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	v1.Response[v1.Envelope]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the envelope"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/envelopes/{id} [get]
func (co Controller) GetEnvelope(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	envelope, err := co.Engine.Envelope(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, newEnvelope(envelope))
}

// @Summary		Update envelope
// @Description	Edits name, planned amount and category. Funded and spent amounts are kept
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	v1.Response[v1.Envelope]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the envelope"
// @Param			envelope	body	v1.EnvelopePatch	true	"Envelope"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/envelopes/{id} [patch]
func (co Controller) UpdateEnvelope(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var patch EnvelopePatch
	if err := httputil.BindData(c, &patch); err != nil {
		badRequest(c, err)
		return
	}

	envelope, err := co.Engine.UpdateEnvelope(c.Request.Context(), bc, c.Param("id"), ledger.EnvelopeUpdate{
		Name:     patch.Name,
		Planned:  patch.Planned,
		Category: patch.Category,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, newEnvelope(envelope))
}

// @Summary		Delete envelope
// @Description	Deletes an envelope and all of its transactions
// @Tags			Envelopes
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the envelope"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/envelopes/{id} [delete]
func (co Controller) DeleteEnvelope(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if err := co.Engine.DeleteEnvelope(c.Request.Context(), bc, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get envelope transactions
// @Description	Returns all transactions of an envelope
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	v1.Response[[]models.Transaction]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the envelope"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/envelopes/{id}/transactions [get]
func (co Controller) GetEnvelopeTransactions(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if _, err := co.Engine.Envelope(c.Request.Context(), bc, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	transactions, err := co.Engine.EnvelopeTransactions(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, transactions)
}

// @Summary		Check overdraw
// @Description	Tells if spending the amount would overdraw the envelope
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	v1.Response[v1.Overdraw]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the envelope"
// @Param			amount	query	string	true	"Amount to spend"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/envelopes/{id}/overdraw [get]
func (co Controller) GetEnvelopeOverdraw(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		badRequest(c, errInvalidAmount)
		return
	}

	overdraw, balance, err := co.Engine.WouldOverdraw(c.Request.Context(), bc, c.Param("id"), amount)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, Overdraw{WouldOverdraw: overdraw, Balance: balance})
}
