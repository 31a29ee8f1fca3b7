package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/lib/report"
	"github.com/grandlivre/grandlivre/lib/responses"
	"github.com/grandlivre/grandlivre/lib/service"
)

// ReportController : Financial report controller struct
type ReportController struct {
	svc *service.LedgerService
}

func NewReportController(svc *service.LedgerService) *ReportController {
	return &ReportController{svc: svc}
}

var reportTypes = map[string]string{
	"trial-balance":    common.ReportTypeTrialBalance,
	"balance-sheet":    common.ReportTypeBalanceSheet,
	"income-statement": common.ReportTypeIncomeStatement,
	"aged-receivables": common.ReportTypeAgedReceivables,
	"aged-payables":    common.ReportTypeAgedPayables,
	"vat":              common.ReportTypeVAT,
}

// GetReport godoc
// @Summary      Generate a financial report
// @Description  Builds the requested report over the posted entries of [from, to]
// @Produce      json
// @Tags         Report
// @Param        report_type  path   string  true   "trial-balance | balance-sheet | income-statement | aged-receivables | aged-payables | vat"
// @Param        from         query  string  true   "period start YYYY-MM-DD"
// @Param        to           query  string  true   "period end YYYY-MM-DD"
// @Param        as_of        query  string  false  "aging reference date, default period end"
// @Success      200  {object}  service.ReportResult
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/reports/{report_type} [get]
func (controller *ReportController) GetReport(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	reportType, ok := reportTypes[c.Param("report_type")]
	if !ok {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	from, err := dateQuery(c, "from")
	if err != nil || from.IsZero() {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	to, err := dateQuery(c, "to")
	if err != nil || to.IsZero() {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	asOf, err := dateQuery(c, "as_of")
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	result, err := controller.svc.GenerateReport(c.Request().Context(), companyId, service.ReportRequest{
		Type:        reportType,
		Start:       from,
		End:         to,
		AsOf:        asOf,
		RequestedBy: "api",
	})
	var integrityErr *report.IntegrityError
	if errors.As(err, &integrityErr) {
		c.Logger().Errorf("Ledger integrity check failed for company %d: %v", companyId, integrityErr)
		return c.JSON(responses.LedgerIntegrityError.HttpStatusCode, responses.LedgerIntegrityError)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListReportRuns godoc
// @Summary      List recorded report runs
// @Produce      json
// @Tags         Report
// @Success      200  {object}  []models.GeneratedReport
// @Router       /v1/companies/{company_id}/reports [get]
func (controller *ReportController) ListReportRuns(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	runs, err := controller.svc.ListReportRuns(c.Request().Context(), companyId)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, runs)
}

// ExportFEC godoc
// @Summary      Export the period as a statutory ledger file
// @Produce      text/tab-separated-values
// @Tags         Report
// @Param        from  query  string  true  "period start YYYY-MM-DD"
// @Param        to    query  string  true  "period end YYYY-MM-DD"
// @Success      200
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/export/fec [get]
func (controller *ReportController) ExportFEC(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	from, err := dateQuery(c, "from")
	if err != nil || from.IsZero() {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	to, err := dateQuery(c, "to")
	if err != nil || to.IsZero() {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/tab-separated-values; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=fec-%d-%s-%s.txt", companyId, from.Format("20060102"), to.Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)

	_, err = controller.svc.ExportFEC(c.Request().Context(), companyId, from, to, c.Response())
	return err
}
