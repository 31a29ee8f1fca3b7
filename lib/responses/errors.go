package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "not found",
	HttpStatusCode: 404,
}

var AccountNotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "account not found",
	HttpStatusCode: 404,
}

var JournalNotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "journal not found",
	HttpStatusCode: 404,
}

var EntryNotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "entry not found",
	HttpStatusCode: 404,
}

var DuplicateAccountError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "account number already exists",
	HttpStatusCode: 409,
}

var DuplicateJournalError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "journal code already exists",
	HttpStatusCode: 409,
}

var PeriodOverlapError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "period overlaps an existing accounting period",
	HttpStatusCode: 409,
}

var PeriodClosedError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "accounting period is closed",
	HttpStatusCode: 409,
}

var EntryNotDraftError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "posted entries are append-only. Create a reversing entry instead",
	HttpStatusCode: 409,
}

var EntryNotPostedError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "only posted entries can be reversed",
	HttpStatusCode: 409,
}

var UnusableFileError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "file could not be read as a ledger export",
	HttpStatusCode: 422,
}

var LedgerIntegrityError = ErrorResponse{
	Error:          true,
	Code:           9,
	Message:        "ledger integrity check failed. Report aborted",
	HttpStatusCode: 500,
}

// isErrAllowedForSentry filters out client errors; only server-side
// failures are worth an alert.
func isErrAllowedForSentry(err error) bool {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code >= http.StatusInternalServerError
	}
	return true
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("CompanyID", c.Param("company_id"))
			hub.CaptureException(err)
		})
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		c.JSON(code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
