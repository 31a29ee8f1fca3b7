package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandlivre/grandlivre/fec"
	"github.com/grandlivre/grandlivre/lib/responses"
	"github.com/grandlivre/grandlivre/lib/service"
)

// ImportController : Ledger file import controller struct
type ImportController struct {
	svc *service.LedgerService
}

func NewImportController(svc *service.LedgerService) *ImportController {
	return &ImportController{svc: svc}
}

// ImportFEC godoc
// @Summary      Import a ledger export file
// @Description  Parses, validates and posts the entries of an FEC-style file.
// @Description  Row and entry problems are reported in the summary; only an
// @Description  unusable file is rejected outright
// @Accept       mpfd
// @Produce      json
// @Tags         Import
// @Param        file           formData  file    true   "ledger export"
// @Param        dry_run        query     bool    false  "validate only"
// @Param        all_or_nothing query     bool    false  "reject the whole file on any invalid entry"
// @Success      200  {object}  service.ImportSummary
// @Failure      422  {object}  responses.ErrorResponse
// @Router       /v1/companies/{company_id}/import/fec [post]
func (controller *ImportController) ImportFEC(c echo.Context) error {
	companyId, err := companyIdParam(c)
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(responses.BadArgumentsError.HttpStatusCode, responses.BadArgumentsError)
	}
	defer file.Close()

	summary, err := controller.svc.ImportFEC(c.Request().Context(), companyId, file, service.ImportOptions{
		DryRun:       c.QueryParam("dry_run") == "true",
		AllOrNothing: c.QueryParam("all_or_nothing") == "true",
		AutoCreate:   controller.svc.Config.ImportAutoCreate,
	})
	var inputErr *fec.InputError
	if errors.As(err, &inputErr) {
		c.Logger().Errorf("Unusable import file: %v", inputErr)
		return c.JSON(responses.UnusableFileError.HttpStatusCode, responses.UnusableFileError)
	}
	if err != nil {
		if summary != nil {
			// partial result, e.g. on cancellation
			return c.JSON(http.StatusOK, summary)
		}
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
