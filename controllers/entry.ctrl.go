package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/lib/responses"
	"github.com/grandlivre/grandlivre/lib/service"
)

// EntryController : Journal entry controller struct
type EntryController struct {
	svc *service.LedgerService
}

func NewEntryController(svc *service.LedgerService) *EntryController {
	return &EntryController{svc: svc}
}

type EntryLine struct {
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description,omitempty"`
}

type Entry struct {
	ID              int64       `json:"id"`
	JournalCode     string      `json:"journal_code"`
	EntryNumber     string      `json:"entry_number,omitempty"`
	EntryDate       string      `json:"entry_date"`
	DueDate         string      `json:"due_date,omitempty"`
	Description     string      `json:"description,omitempty"`
	ReferenceNumber string      `json:"reference_number,omitempty"`
	Status          string      `json:"status"`
	ReversesEntryID int64       `json:"reverses_entry_id,omitempty"`
	Lines           []EntryLine `json:"lines,omitempty"`
}

func entryResponse(entry *models.JournalEntry) Entry {
	response := Entry{
		ID:              entry.ID,
		EntryNumber:     entry.EntryNumber,
		EntryDate:       entry.EntryDate.Format("2006-01-02"),
		Description:     entry.Description,
		ReferenceNumber: entry.ReferenceNumber,
		Status:          entry.Status,
		ReversesEntryID: entry.ReversesEntryID,
	}
	if entry.Journal != nil {
		response.JournalCode = entry.Journal.Code
	}
	if !entry.DueDate.IsZero() {
		response.DueDate = entry.DueDate.Format("2006-01-02")
	}
	for _, line := range entry.Lines {
		el := EntryLine{
			Debit:       line.DebitAmount,
			Credit:      line.CreditAmount,
			Description: line.Description,
		}
		if line.Account != nil {
			el.AccountNumber = line.Account.AccountNumber
			el.AccountName = line.Account.Name
		}
		response.Lines = append(response.Lines, el)
	}
	return response
}

type entryRequestBody struct {
	JournalCode     string `json:"journal_code" validate:"required"`
	EntryDate       string `json:"entry_date" validate:"required"`
	DueDate         string `json:"due_date"`
	Description     string `json:"description"`
	ReferenceNumber string `json:"reference_number"`
	Lines           []struct {
		AccountNumber string          `json:"account_number" validate:"required"`
		Debit         decimal.Decimal `json:"debit"`
		Credit        decimal.Decimal `json:"credit"`
		Description   string          `json:"description"`
	} `json:"lines" validate:"required,min=1,dive"`
}

func (body *entryRequestBody) toParams() (service.EntryParams, error) {
	entryDate, err := time.Parse("2006-01-02", body.EntryDate)
	if err != nil {
		return service.EntryParams{}, err
	}
	var dueDate time.Time
	if body.DueDate != "" {
		dueDate, err = time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			return service.EntryParams{}, err
		}
	}
	params := service.EntryParams{
		JournalCode:     body.JournalCode,
		EntryDate:       entryDate,
		DueDate:         dueDate,
		Description:     body.Description,
		ReferenceNumber: body.ReferenceNumber,
	}
	for _, line := range body.Lines {
		params.Lines = append(params.Lines, service.LineParams{
			AccountNumber: line.AccountNumber,
			Debit:         line.Debit,
			Credit:        line.Credit,
			Description:   line.Description,
		})
	}
	return params, nil
}

// ListEntries godoc
// @Summary      List journal entries
// @Produce      json
// @Tags         Entry
// @Param        journal  query  string  false  "journal code"
// @Param        status   query  string  false  "entry status"
// @Param        from     query  string  false  "start date YYYY-MM-DD"
// @Param        to       query  string  false  "end date YYYY-MM-DD"
// @Success      200  {object}  []Entry
// @Router       /v1/companies/{company_id}/entries [get]
func (controller *EntryController) ListEntries(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	from, err := dateQuery(c, "from")
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	entries, err := controller.svc.ListEntries(c.Request().Context(), companyId, service.EntryFilter{
		JournalCode: c.QueryParam("journal"),
		Status:      c.QueryParam("status"),
		From:        from,
		To:          to,
	})
	if err != nil {
		return err
	}
	response := make([]Entry, len(entries))
	for i := range entries {
		response[i] = entryResponse(&entries[i])
	}
	return c.JSON(http.StatusOK, response)
}

// GetEntry godoc
// @Summary      Retrieve an entry with its lines
// @Produce      json
// @Tags         Entry
// @Success      200  {object}  Entry
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/entries/{entry_id} [get]
func (controller *EntryController) GetEntry(c echo.Context) error {
	companyId, entryId, err := entryParams(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	entry, err := controller.svc.GetEntry(c.Request().Context(), companyId, entryId)
	if errors.Is(err, service.ErrEntryNotFound) {
		return c.JSON(responses.EntryNotFoundError.HttpStatusCode, responses.EntryNotFoundError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

// CreateEntry godoc
// @Summary      Create a draft entry
// @Description  Drafts may be unbalanced; the full rule set gates posting
// @Accept       json
// @Produce      json
// @Tags         Entry
// @Success      200  {object}  Entry
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/entries [post]
func (controller *EntryController) CreateEntry(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	var body entryRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create entry request body: %v", err)
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	params, err := body.toParams()
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	entry, err := controller.svc.CreateEntry(c.Request().Context(), companyId, params)
	if errors.Is(err, service.ErrJournalNotFound) {
		return c.JSON(responses.JournalNotFoundError.HttpStatusCode, responses.JournalNotFoundError)
	}
	if errors.Is(err, service.ErrAccountNotFound) {
		return c.JSON(responses.AccountNotFoundError.HttpStatusCode, responses.AccountNotFoundError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

// UpdateEntry godoc
// @Summary      Update a draft entry
// @Accept       json
// @Produce      json
// @Tags         Entry
// @Success      200  {object}  Entry
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/entries/{entry_id} [put]
func (controller *EntryController) UpdateEntry(c echo.Context) error {
	companyId, entryId, err := entryParams(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	var body entryRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	params, err := body.toParams()
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	entry, err := controller.svc.UpdateEntry(c.Request().Context(), companyId, entryId, params)
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		return c.JSON(responses.EntryNotFoundError.HttpStatusCode, responses.EntryNotFoundError)
	case errors.Is(err, service.ErrEntryNotDraft):
		return c.JSON(responses.EntryNotDraftError.HttpStatusCode, responses.EntryNotDraftError)
	case errors.Is(err, service.ErrAccountNotFound):
		return c.JSON(responses.AccountNotFoundError.HttpStatusCode, responses.AccountNotFoundError)
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

// ValidateEntry godoc
// @Summary      Validate a draft without posting
// @Description  Returns the full error and warning list of the posting rule set
// @Produce      json
// @Tags         Entry
// @Success      200  {object}  validation.Result
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/entries/{entry_id}/validate [post]
func (controller *EntryController) ValidateEntry(c echo.Context) error {
	companyId, entryId, err := entryParams(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	result, err := controller.svc.ValidateDraft(c.Request().Context(), companyId, entryId)
	if errors.Is(err, service.ErrEntryNotFound) {
		return c.JSON(responses.EntryNotFoundError.HttpStatusCode, responses.EntryNotFoundError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// PostEntry godoc
// @Summary      Post a draft entry
// @Description  Validates, allocates the entry number and makes the entry immutable
// @Produce      json
// @Tags         Entry
// @Success      200  {object}  Entry
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Failure      422  {object}  validation.Result
// @Router       /v1/companies/{company_id}/entries/{entry_id}/post [post]
func (controller *EntryController) PostEntry(c echo.Context) error {
	companyId, entryId, err := entryParams(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	entry, err := controller.svc.PostEntry(c.Request().Context(), companyId, entryId)
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		return c.JSON(responses.EntryNotFoundError.HttpStatusCode, responses.EntryNotFoundError)
	case errors.Is(err, service.ErrEntryNotDraft):
		return c.JSON(responses.EntryNotDraftError.HttpStatusCode, responses.EntryNotDraftError)
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusUnprocessableEntity, validationErr.Result)
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

// ReverseEntry godoc
// @Summary      Reverse a posted entry
// @Description  Creates and posts the mirror entry. The original stays in the ledger
// @Accept       json
// @Produce      json
// @Tags         Entry
// @Success      200  {object}  Entry
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/entries/{entry_id}/reverse [post]
func (controller *EntryController) ReverseEntry(c echo.Context) error {
	companyId, entryId, err := entryParams(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	var body struct {
		ReversalDate string `json:"reversal_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	var reversalDate time.Time
	if body.ReversalDate != "" {
		reversalDate, err = time.Parse("2006-01-02", body.ReversalDate)
		if err != nil {
			return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
		}
	}

	reversal, err := controller.svc.ReverseEntry(c.Request().Context(), companyId, entryId, reversalDate)
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		return c.JSON(responses.EntryNotFoundError.HttpStatusCode, responses.EntryNotFoundError)
	case errors.Is(err, service.ErrEntryNotPosted):
		return c.JSON(responses.EntryNotPostedError.HttpStatusCode, responses.EntryNotPostedError)
	case errors.Is(err, service.ErrPeriodClosed):
		return c.JSON(responses.PeriodClosedError.HttpStatusCode, responses.PeriodClosedError)
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, entryResponse(reversal))
}

// CancelEntry godoc
// @Summary      Cancel a draft entry
// @Produce      json
// @Tags         Entry
// @Success      200  {object}  Entry
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/entries/{entry_id}/cancel [post]
func (controller *EntryController) CancelEntry(c echo.Context) error {
	companyId, entryId, err := entryParams(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	entry, err := controller.svc.CancelEntry(c.Request().Context(), companyId, entryId)
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		return c.JSON(responses.EntryNotFoundError.HttpStatusCode, responses.EntryNotFoundError)
	case errors.Is(err, service.ErrEntryNotDraft):
		return c.JSON(responses.EntryNotDraftError.HttpStatusCode, responses.EntryNotDraftError)
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

func entryParams(c echo.Context) (companyId int64, entryId int64, err error) {
	companyId, err = companyIdParam(c)
	if err != nil {
		return 0, 0, err
	}
	entryId, err = idParam(c, "entry_id")
	if err != nil {
		return 0, 0, err
	}
	return companyId, entryId, nil
}
