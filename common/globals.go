package common

const (
	AccountTypeAsset     = "asset"
	AccountTypeLiability = "liability"
	AccountTypeEquity    = "equity"
	AccountTypeRevenue   = "revenue"
	AccountTypeExpense   = "expense"

	JournalTypeSale          = "sale"
	JournalTypePurchase      = "purchase"
	JournalTypeBank          = "bank"
	JournalTypeCash          = "cash"
	JournalTypeMiscellaneous = "miscellaneous"

	EntryStatusDraft      = "draft"
	EntryStatusPosted     = "posted"
	EntryStatusReconciled = "reconciled"
	EntryStatusCancelled  = "cancelled"

	PeriodStatusOpen   = "open"
	PeriodStatusClosed = "closed"

	ReportTypeTrialBalance    = "trial_balance"
	ReportTypeBalanceSheet    = "balance_sheet"
	ReportTypeIncomeStatement = "income_statement"
	ReportTypeAgedReceivables = "aged_receivables"
	ReportTypeAgedPayables    = "aged_payables"
	ReportTypeVAT             = "vat"

	ReportStatusReady  = "ready"
	ReportStatusFailed = "failed"

	DefaultCurrency = "EUR"
)
