package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/lib/responses"
	"github.com/grandlivre/grandlivre/lib/service"
)

// JournalController : Journal controller struct
type JournalController struct {
	svc *service.LedgerService
}

func NewJournalController(svc *service.LedgerService) *JournalController {
	return &JournalController{svc: svc}
}

type Journal struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

func journalResponse(journal *models.Journal) Journal {
	return Journal{
		Code:     journal.Code,
		Name:     journal.Name,
		Type:     journal.Type,
		IsActive: journal.IsActive,
	}
}

// ListJournals godoc
// @Summary      List journals
// @Produce      json
// @Tags         Journal
// @Success      200  {object}  []Journal
// @Router       /v1/companies/{company_id}/journals [get]
func (controller *JournalController) ListJournals(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	journals, err := controller.svc.ListJournals(c.Request().Context(), companyId)
	if err != nil {
		return err
	}
	response := make([]Journal, len(journals))
	for i := range journals {
		response[i] = journalResponse(&journals[i])
	}
	return c.JSON(http.StatusOK, response)
}

// CreateJournal godoc
// @Summary      Create a journal
// @Accept       json
// @Produce      json
// @Tags         Journal
// @Success      200  {object}  Journal
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/journals [post]
func (controller *JournalController) CreateJournal(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	var body struct {
		Code string `json:"code" validate:"required"`
		Name string `json:"name" validate:"required"`
		Type string `json:"type" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	journal, err := controller.svc.CreateJournal(c.Request().Context(), companyId, body.Code, body.Name, body.Type)
	if errors.Is(err, service.ErrDuplicateJournalCode) {
		return c.JSON(responses.DuplicateJournalError.HttpStatusCode, responses.DuplicateJournalError)
	}
	if err != nil {
		c.Logger().Errorf("Failed to create journal %s: %v", body.Code, err)
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, journalResponse(journal))
}
