package transport

import (
	"github.com/labstack/echo/v4"

	"github.com/grandlivre/grandlivre/controllers"
	"github.com/grandlivre/grandlivre/lib/service"
)

func RegisterV1Endpoints(svc *service.LedgerService, e *echo.Echo, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	e.GET("/v1/info", controllers.NewInfoController(svc).GetInfo)

	accountCtrl := controllers.NewAccountController(svc)
	journalCtrl := controllers.NewJournalController(svc)
	periodCtrl := controllers.NewPeriodController(svc)
	entryCtrl := controllers.NewEntryController(svc)
	importCtrl := controllers.NewImportController(svc)
	reportCtrl := controllers.NewReportController(svc)

	company := e.Group("/v1/companies/:company_id", logMw)

	company.GET("/accounts", accountCtrl.ListAccounts)
	company.POST("/accounts", accountCtrl.CreateAccount)
	company.POST("/accounts/bootstrap", accountCtrl.BootstrapChart)
	company.GET("/accounts/:account_number", accountCtrl.GetAccount)
	company.PUT("/accounts/:account_number", accountCtrl.UpdateAccount)
	company.DELETE("/accounts/:account_number", accountCtrl.DeactivateAccount)

	company.GET("/journals", journalCtrl.ListJournals)
	company.POST("/journals", journalCtrl.CreateJournal)

	company.GET("/periods", periodCtrl.ListPeriods)
	company.POST("/periods", periodCtrl.CreatePeriod)
	company.POST("/periods/:period_id/close", periodCtrl.ClosePeriod)
	company.POST("/periods/:period_id/reopen", periodCtrl.ReopenPeriod)

	company.GET("/entries", entryCtrl.ListEntries)
	company.POST("/entries", entryCtrl.CreateEntry)
	company.GET("/entries/:entry_id", entryCtrl.GetEntry)
	company.PUT("/entries/:entry_id", entryCtrl.UpdateEntry)
	company.POST("/entries/:entry_id/validate", entryCtrl.ValidateEntry)
	company.POST("/entries/:entry_id/post", entryCtrl.PostEntry, strictRateLimitMiddleware)
	company.POST("/entries/:entry_id/reverse", entryCtrl.ReverseEntry, strictRateLimitMiddleware)
	company.POST("/entries/:entry_id/cancel", entryCtrl.CancelEntry)

	company.POST("/import/fec", importCtrl.ImportFEC, strictRateLimitMiddleware)
	company.GET("/export/fec", reportCtrl.ExportFEC)

	company.GET("/reports/:report_type", reportCtrl.GetReport)
	company.GET("/reports", reportCtrl.ListReportRuns)
}
