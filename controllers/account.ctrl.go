package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/lib/responses"
	"github.com/grandlivre/grandlivre/lib/service"
)

// AccountController : Chart of accounts controller struct
type AccountController struct {
	svc *service.LedgerService
}

func NewAccountController(svc *service.LedgerService) *AccountController {
	return &AccountController{svc: svc}
}

type Account struct {
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	Class         int       `json:"class"`
	Type          string    `json:"type"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func accountResponse(account *models.Account) Account {
	return Account{
		AccountNumber: account.AccountNumber,
		Name:          account.Name,
		Class:         account.Class,
		Type:          account.Type,
		IsActive:      account.IsActive,
		CreatedAt:     account.CreatedAt,
	}
}

// ListAccounts godoc
// @Summary      List accounts
// @Description  Returns the chart of accounts, optionally filtered by class
// @Produce      json
// @Tags         Account
// @Param        class   query  int   false  "account class 1-7"
// @Param        active  query  bool  false  "active accounts only"
// @Success      200  {object}  []Account
// @Router       /v1/companies/{company_id}/accounts [get]
func (controller *AccountController) ListAccounts(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	class, _ := strconv.Atoi(c.QueryParam("class"))
	activeOnly := c.QueryParam("active") == "true"

	accounts, err := controller.svc.ListAccounts(c.Request().Context(), companyId, class, activeOnly)
	if err != nil {
		return err
	}
	response := make([]Account, len(accounts))
	for i := range accounts {
		response[i] = accountResponse(&accounts[i])
	}
	return c.JSON(http.StatusOK, response)
}

// GetAccount godoc
// @Summary      Retrieve an account
// @Produce      json
// @Tags         Account
// @Success      200  {object}  Account
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/accounts/{account_number} [get]
func (controller *AccountController) GetAccount(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	account, err := controller.svc.FindAccount(c.Request().Context(), companyId, c.Param("account_number"))
	if errors.Is(err, service.ErrAccountNotFound) {
		return c.JSON(responses.AccountNotFoundError.HttpStatusCode, responses.AccountNotFoundError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse(account))
}

// CreateAccount godoc
// @Summary      Create an account
// @Description  Creates an account. Class and type are derived from the number
// @Accept       json
// @Produce      json
// @Tags         Account
// @Success      200  {object}  Account
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/accounts [post]
func (controller *AccountController) CreateAccount(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	var body struct {
		AccountNumber string `json:"account_number" validate:"required"`
		Name          string `json:"name" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create account request body: %v", err)
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create account request body: %v", err)
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	account, err := controller.svc.CreateAccount(c.Request().Context(), companyId, body.AccountNumber, body.Name)
	if errors.Is(err, service.ErrDuplicateAccountNumber) {
		return c.JSON(responses.DuplicateAccountError.HttpStatusCode, responses.DuplicateAccountError)
	}
	if err != nil {
		c.Logger().Errorf("Failed to create account %s: %v", body.AccountNumber, err)
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, accountResponse(account))
}

// UpdateAccount godoc
// @Summary      Update an account
// @Description  Renames or (de)activates an account. The number is immutable
// @Accept       json
// @Produce      json
// @Tags         Account
// @Success      200  {object}  Account
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/accounts/{account_number} [put]
func (controller *AccountController) UpdateAccount(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	var body struct {
		Name     string `json:"name" validate:"required"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	account, err := controller.svc.UpdateAccount(c.Request().Context(), companyId, c.Param("account_number"), body.Name, isActive)
	if errors.Is(err, service.ErrAccountNotFound) {
		return c.JSON(responses.AccountNotFoundError.HttpStatusCode, responses.AccountNotFoundError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse(account))
}

// DeactivateAccount godoc
// @Summary      Deactivate an account
// @Description  Accounts referenced by entries are never deleted, only deactivated
// @Produce      json
// @Tags         Account
// @Success      200  {object}  Account
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/accounts/{account_number} [delete]
func (controller *AccountController) DeactivateAccount(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	account, err := controller.svc.DeactivateAccount(c.Request().Context(), companyId, c.Param("account_number"))
	if errors.Is(err, service.ErrAccountNotFound) {
		return c.JSON(responses.AccountNotFoundError.HttpStatusCode, responses.AccountNotFoundError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse(account))
}

// BootstrapChart godoc
// @Summary      Seed the default chart of accounts
// @Description  Creates the standard starter accounts. Idempotent
// @Produce      json
// @Tags         Account
// @Success      200  {object}  map[string]int
// @Router       /v1/companies/{company_id}/accounts/bootstrap [post]
func (controller *AccountController) BootstrapChart(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	created, err := controller.svc.BootstrapChartOfAccounts(c.Request().Context(), companyId)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"accounts_created": created})
}
