package v1

import (
	"net/http"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/envelope-ledger/backend/pkg/httputil"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionCreate books a transaction. With an accountId, the envelope is
// optional. Without one, the envelope is required.
type TransactionCreate struct {
	EnvelopeID  *string                  `json:"envelopeId"`
	AccountID   *string                  `json:"accountId"`
	Amount      decimal.Decimal          `json:"amount" example:"25.99"`
	Description string                   `json:"description" example:"Farmers market"`
	Date        types.Date               `json:"date" example:"2024-03-14"` // Defaults to today
	Status      models.TransactionStatus `json:"status" example:"cleared"`
	Type        models.TransactionType   `json:"type" example:"expense"`
}

// TransactionPatch contains the editable fields. An empty envelopeId
// removes the envelope.
type TransactionPatch struct {
	Amount      *decimal.Decimal          `json:"amount" example:"30"`
	Date        *types.Date               `json:"date" example:"2024-03-15"`
	Description *string                   `json:"description" example:"Farmers market"`
	EnvelopeID  *string                   `json:"envelopeId"`
	Status      *models.TransactionStatus `json:"status" example:"pending"`
}

type TransactionQueryFilter struct {
	Envelope    string `form:"envelope"`
	Account     string `form:"account"`
	Description string `form:"description"` // Glob pattern, e.g. "*market*"
	Status      string `form:"status"`
	Type        string `form:"type"`
}

func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
		r.OPTIONS("/:id/toggle-status", httputil.OptionsPost)
		r.POST("/:id/toggle-status", co.ToggleTransactionStatus)
	}
}

// editOptions reads the overdraft confirmation from the query string.
func editOptions(c *gin.Context) (ledger.EditOptions, bool) {
	allow, err := httputil.QueryBool(c, "allowOverdraft")
	if err != nil {
		badRequest(c, err)
		return ledger.EditOptions{}, false
	}

	return ledger.EditOptions{AllowOverdraft: allow}, true
}

// @Summary		Get transactions
// @Description	Returns a list of transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	v1.Response[[]models.Transaction]
// @Failure		500	{object}	httputil.HTTPError
// @Param			envelope	query	string	false	"Filter by envelope ID"
// @Param			account	query	string	false	"Filter by account ID"
// @Param			description	query	string	false	"Filter by description, glob patterns are supported"
// @Param			status	query	string	false	"Filter by status"
// @Param			type	query	string	false	"Filter by type"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/transactions [get]
func (co Controller) GetTransactions(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	// The filters contain only strings, so this will always succeed
	var filter TransactionQueryFilter
	_ = c.ShouldBindQuery(&filter)

	transactions, err := co.Engine.Transactions(c.Request.Context(), bc, ledger.TransactionFilter{
		EnvelopeID:  filter.Envelope,
		AccountID:   filter.Account,
		Description: filter.Description,
		Status:      models.TransactionStatus(filter.Status),
		Type:        models.TransactionType(filter.Type),
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, transactions)
}

// @Summary		Create transaction
// @Description	Books a transaction on an envelope or an account
// @Tags			Transactions
// @Produce		json
// @Success		201	{object}	v1.Response[models.Transaction]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			transaction	body	v1.TransactionCreate	true	"Transaction"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var create TransactionCreate
	if err := httputil.BindData(c, &create); err != nil {
		badRequest(c, err)
		return
	}

	var (
		transaction models.Transaction
		err         error
	)

	switch {
	case create.AccountID != nil && *create.AccountID != "":
		transaction, err = co.Engine.AddAccountTransaction(c.Request.Context(), bc, ledger.NewAccountTransaction{
			AccountID:   *create.AccountID,
			Amount:      create.Amount,
			Description: create.Description,
			Date:        create.Date,
			Status:      create.Status,
			Type:        create.Type,
			EnvelopeID:  create.EnvelopeID,
		})
	case create.EnvelopeID != nil && *create.EnvelopeID != "":
		transaction, err = co.Engine.AddTransaction(c.Request.Context(), bc, ledger.NewTransaction{
			EnvelopeID:  *create.EnvelopeID,
			Amount:      create.Amount,
			Description: create.Description,
			Date:        create.Date,
			Status:      create.Status,
			Type:        create.Type,
		})
	default:
		err = errEnvelopeOrAccount
	}

	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, transaction)
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	v1.Response[models.Transaction]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the transaction"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	transaction, err := co.Engine.Transaction(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, transaction)
}

// @Summary		Update transaction
// @Description	Edits a transaction. Edits that would overdraw an envelope fail with 409 unless allowOverdraft=true is set
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	v1.Response[models.Transaction]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Failure		409	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the transaction"
// @Param			transaction	body	v1.TransactionPatch	true	"Transaction"
// @Param			allowOverdraft	query	bool	false	"Allow the edit to overdraw the envelope"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/transactions/{id} [patch]
func (co Controller) UpdateTransaction(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	opts, ok := editOptions(c)
	if !ok {
		return
	}

	var patch TransactionPatch
	if err := httputil.BindData(c, &patch); err != nil {
		badRequest(c, err)
		return
	}

	transaction, err := co.Engine.EditTransaction(c.Request.Context(), bc, c.Param("id"), ledger.TransactionEdit{
		Amount:      patch.Amount,
		Date:        patch.Date,
		Description: patch.Description,
		EnvelopeID:  patch.EnvelopeID,
		Status:      patch.Status,
	}, opts)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, transaction)
}

// @Summary		Toggle transaction status
// @Description	Switches a transaction between cleared and pending
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	v1.Response[models.Transaction]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Failure		409	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the transaction"
// @Param			allowOverdraft	query	bool	false	"Allow clearing the transaction to overdraw the envelope"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/transactions/{id}/toggle-status [post]
func (co Controller) ToggleTransactionStatus(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	opts, ok := editOptions(c)
	if !ok {
		return
	}

	transaction, err := co.Engine.ToggleTransactionStatus(c.Request.Context(), bc, c.Param("id"), opts)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, transaction)
}

// @Summary		Delete transaction
// @Description	Deletes a transaction and reverses its effect on the envelope
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the transaction"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if err := co.Engine.DeleteTransaction(c.Request.Context(), bc, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
