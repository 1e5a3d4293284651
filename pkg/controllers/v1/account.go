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

type AccountCreate struct {
	Name    string          `json:"name" binding:"required" example:"Checking"`
	Type    string          `json:"type" example:"checking"`
	Balance decimal.Decimal `json:"balance" example:"1200"` // Starting balance
}

type AccountPatch struct {
	Name    *string          `json:"name" example:"Checking"`
	Type    *string          `json:"type" example:"savings"`
	Balance *decimal.Decimal `json:"balance" example:"1500"`
}

// Account is an account with its derived balance.
type Account struct {
	models.Account
	CurrentBalance decimal.Decimal `json:"currentBalance" example:"1150"` // Balance after everything booked on the account
}

type AccountListResponse struct {
	Data  []Account       `json:"data"`
	Total decimal.Decimal `json:"total" example:"3400"` // Sum of all account balances
	Error *string         `json:"error"`
}

// RegisterEntryCreate is a new line in an account register.
type RegisterEntryCreate struct {
	Kind                 string                   `json:"kind" binding:"required,oneof=expense income transfer" example:"transfer"`
	Amount               decimal.Decimal          `json:"amount" example:"-200"` // For transfers, negative amounts leave the account
	Description          string                   `json:"description" example:"Savings"`
	Date                 types.Date               `json:"date" example:"2024-03-14"`
	Status               models.TransactionStatus `json:"status" example:"cleared"`
	EnvelopeID           *string                  `json:"envelopeId"`           // For expenses
	CounterpartAccountID string                   `json:"counterpartAccountId"` // For transfers
}

func (e RegisterEntryCreate) kind() (ledger.TransactionKind, error) {
	switch e.Kind {
	case "expense":
		return ledger.ExpenseKind{EnvelopeID: e.EnvelopeID}, nil
	case "income":
		return ledger.IncomeKind{}, nil
	case "transfer":
		return ledger.TransferKind{CounterpartAccountID: e.CounterpartAccountID}, nil
	}

	return nil, errUnknownEntryKind
}

func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetAccounts)
		r.POST("", co.CreateAccount)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetAccount)
		r.PATCH("/:id", co.UpdateAccount)
		r.DELETE("/:id", co.DeleteAccount)
		r.OPTIONS("/:id/register", httputil.OptionsGetPost)
		r.GET("/:id/register", co.GetAccountRegister)
		r.POST("/:id/register", co.CreateRegisterEntry)
	}
}

func (co Controller) account(c *gin.Context, bc ledger.BudgetContext, a models.Account) (Account, error) {
	balance, err := co.Engine.AccountBalance(c.Request.Context(), bc, a.ID)
	if err != nil {
		return Account{}, err
	}

	return Account{Account: a, CurrentBalance: balance}, nil
}

// @Summary		Get accounts
// @Description	Returns all accounts with their balances and the total balance
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	v1.AccountListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/accounts [get]
func (co Controller) GetAccounts(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	accounts, err := co.Engine.Accounts(c.Request.Context(), bc)
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		account, err := co.account(c, bc, a)
		if err != nil {
			fail(c, err)
			return
		}
		data = append(data, account)
	}

	total, err := co.Engine.TotalAccountsBalance(c.Request.Context(), bc)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AccountListResponse{Data: data, Total: total})
}

// @Summary		Create account
// @Description	Creates a new account
// @Tags			Accounts
// @Produce		json
// @Success		201	{object}	v1.Response[v1.Account]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			account	body	v1.AccountCreate	true	"Account"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/accounts [post]
func (co Controller) CreateAccount(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var create AccountCreate
	if err := httputil.BindData(c, &create); err != nil {
		badRequest(c, err)
		return
	}

	a, err := co.Engine.CreateAccount(c.Request.Context(), bc, create.Name, create.Type, create.Balance)
	if err != nil {
		fail(c, err)
		return
	}

	// A new account has nothing booked on it yet
	respond(c, http.StatusCreated, Account{Account: a, CurrentBalance: a.Balance})
}

// @Summary		Get account
// @Description	Returns a specific account
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	v1.Response[v1.Account]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/accounts/{id} [get]
func (co Controller) GetAccount(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	a, err := co.Engine.Account(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	account, err := co.account(c, bc, a)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, account)
}

// @Summary		Update account
// @Description	Updates an account
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	v1.Response[v1.Account]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Param			account	body	v1.AccountPatch	true	"Account"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/accounts/{id} [patch]
func (co Controller) UpdateAccount(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var patch AccountPatch
	if err := httputil.BindData(c, &patch); err != nil {
		badRequest(c, err)
		return
	}

	a, err := co.Engine.UpdateAccount(c.Request.Context(), bc, c.Param("id"), ledger.AccountUpdate{
		Name:    patch.Name,
		Type:    patch.Type,
		Balance: patch.Balance,
	})
	if err != nil {
		fail(c, err)
		return
	}

	account, err := co.account(c, bc, a)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, account)
}

// @Summary		Delete account
// @Description	Removes an account. Transactions and income booked on it are kept without the account
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/accounts/{id} [delete]
func (co Controller) DeleteAccount(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	if err := co.Engine.DeleteAccount(c.Request.Context(), bc, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get account register
// @Description	Returns the transactions and income of an account with the running balance
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	v1.Response[ledger.Register]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/accounts/{id}/register [get]
func (co Controller) GetAccountRegister(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	register, err := co.Engine.AccountRegister(c.Request.Context(), bc, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, register)
}

// @Summary		Create register entry
// @Description	Books an expense, income or transfer on the account. Transfers return both transactions
// @Tags			Accounts
// @Produce		json
// @Success		201	{object}	v1.Response[[]models.Transaction]
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Param			entry	body	v1.RegisterEntryCreate	true	"Register entry"
// @Param			budget	query	string	false	"ID of the budget. Defaults to the active budget"
// @Router			/v1/accounts/{id}/register [post]
func (co Controller) CreateRegisterEntry(c *gin.Context) {
	bc, ok := co.budgetContext(c)
	if !ok {
		return
	}

	var create RegisterEntryCreate
	if err := httputil.BindData(c, &create); err != nil {
		badRequest(c, err)
		return
	}

	kind, err := create.kind()
	if err != nil {
		badRequest(c, err)
		return
	}

	transactions, err := co.Engine.AddRegisterEntry(c.Request.Context(), bc, ledger.RegisterEntry{
		AccountID:   c.Param("id"),
		Amount:      create.Amount,
		Description: create.Description,
		Date:        create.Date,
		Status:      create.Status,
		Kind:        kind,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, transactions)
}
