package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/lib/responses"
	"github.com/grandlivre/grandlivre/lib/service"
)

// PeriodController : Accounting period controller struct
type PeriodController struct {
	svc *service.LedgerService
}

func NewPeriodController(svc *service.LedgerService) *PeriodController {
	return &PeriodController{svc: svc}
}

type Period struct {
	ID        int64  `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func periodResponse(period *models.AccountingPeriod) Period {
	return Period{
		ID:        period.ID,
		StartDate: period.StartDate.Format("2006-01-02"),
		EndDate:   period.EndDate.Format("2006-01-02"),
		Status:    period.Status,
	}
}

// ListPeriods godoc
// @Summary      List accounting periods
// @Produce      json
// @Tags         Period
// @Success      200  {object}  []Period
// @Router       /v1/companies/{company_id}/periods [get]
func (controller *PeriodController) ListPeriods(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	periods, err := controller.svc.ListPeriods(c.Request().Context(), companyId)
	if err != nil {
		return err
	}
	response := make([]Period, len(periods))
	for i := range periods {
		response[i] = periodResponse(&periods[i])
	}
	return c.JSON(http.StatusOK, response)
}

// CreatePeriod godoc
// @Summary      Declare an accounting period
// @Accept       json
// @Produce      json
// @Tags         Period
// @Success      200  {object}  Period
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/periods [post]
func (controller *PeriodController) CreatePeriod(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	var body struct {
		StartDate string `json:"start_date" validate:"required"`
		EndDate   string `json:"end_date" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	end, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	period, err := controller.svc.CreatePeriod(c.Request().Context(), companyId, start, end)
	if errors.Is(err, service.ErrPeriodOverlap) {
		return c.JSON(responses.PeriodOverlapError.HttpStatusCode, responses.PeriodOverlapError)
	}
	if err != nil {
		c.Logger().Errorf("Failed to create period: %v", err)
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, periodResponse(period))
}

// ClosePeriod godoc
// @Summary      Close a period
// @Description  Entries dated inside a closed period can no longer be posted
// @Produce      json
// @Tags         Period
// @Success      200  {object}  Period
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/periods/{period_id}/close [post]
func (controller *PeriodController) ClosePeriod(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	periodId, err := idParam(c, "period_id")
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	period, err := controller.svc.ClosePeriod(c.Request().Context(), companyId, periodId)
	if errors.Is(err, service.ErrPeriodNotFound) {
		return c.JSON(responses.NotFoundError.HttpStatusCode, responses.NotFoundError)
	}
	if errors.Is(err, service.ErrPeriodClosed) {
		return c.JSON(responses.PeriodClosedError.HttpStatusCode, responses.PeriodClosedError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, periodResponse(period))
}

// ReopenPeriod godoc
// @Summary      Reopen a closed period
// @Produce      json
// @Tags         Period
// @Success      200  {object}  Period
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/periods/{period_id}/reopen [post]
func (controller *PeriodController) ReopenPeriod(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	periodId, err := idParam(c, "period_id")
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	period, err := controller.svc.ReopenPeriod(c.Request().Context(), companyId, periodId)
	if errors.Is(err, service.ErrPeriodNotFound) {
		return c.JSON(responses.NotFoundError.HttpStatusCode, responses.NotFoundError)
	}
	if errors.Is(err, service.ErrPeriodNotClosed) {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, periodResponse(period))
}
