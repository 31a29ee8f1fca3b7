// Package validation holds the business rules an entry must satisfy before
// posting. Validation is pure: it works off a draft value plus an account
// snapshot supplied by the caller, so in-flight validations are not affected
// by concurrent chart-of-accounts writes.
package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/pcg"
)

const (
	CodeInsufficientLines = "INSUFFICIENT_LINES"
	CodeUnknownAccount    = "UNKNOWN_ACCOUNT"
	CodeInactiveAccount   = "INACTIVE_ACCOUNT"
	CodeForeignAccount    = "FOREIGN_ACCOUNT"
	CodeNegativeAmount    = "NEGATIVE_AMOUNT"
	CodeEmptyLine         = "EMPTY_LINE"
	CodeAmbiguousSide     = "AMBIGUOUS_SIDE"
	CodeUnbalanced        = "UNBALANCED"
	CodeClosedPeriod      = "CLOSED_PERIOD"

	WarnUnusualClass = "UNUSUAL_CLASS_FOR_JOURNAL"
	WarnUnusualSide  = "UNUSUAL_SIDE"
	WarnFutureDate   = "FUTURE_DATE"
	WarnMissingClass = "JOURNAL_CLASS_MISSING"
)

// Issue is one business-rule violation (or, for warnings, oddity).
type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result accumulates every applicable issue so the caller can show one
// consolidated message instead of fixing violations one at a time.
type Result struct {
	OK       bool    `json:"ok"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r *Result) addError(field, code, message string) {
	r.Errors = append(r.Errors, Issue{Field: field, Code: code, Message: message})
}

func (r *Result) addWarning(field, code, message string) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Code: code, Message: message})
}

// DraftLine is one proposed line of a draft entry.
type DraftLine struct {
	AccountNumber string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Description   string
}

// DraftEntry is a proposed journal entry before persistence.
type DraftEntry struct {
	CompanyID   int64
	JournalCode string
	JournalType string
	Date        time.Time
	Reference   string
	Description string
	Lines       []DraftLine
}

// SnapshotAccount is the as-of view of one account used during validation.
type SnapshotAccount struct {
	CompanyID     int64
	AccountNumber string
	IsActive      bool
}

// AccountSnapshot is the caller-supplied chart-of-accounts view. Keyed by
// account number; all accounts belong to the snapshot's company.
type AccountSnapshot struct {
	CompanyID int64
	Accounts  map[string]SnapshotAccount
}

// NewAccountSnapshot builds a snapshot from a list of accounts.
func NewAccountSnapshot(companyID int64, accounts []SnapshotAccount) *AccountSnapshot {
	m := make(map[string]SnapshotAccount, len(accounts))
	for _, a := range accounts {
		m[a.AccountNumber] = a
	}
	return &AccountSnapshot{CompanyID: companyID, Accounts: m}
}

// journalClassRules mirrors statutory practice: entries in a typed journal
// normally touch certain account classes, and sale/purchase journals must
// carry at least one revenue/expense line. Violations are warnings only.
var journalClassRules = map[string]struct {
	allowed  map[int]bool
	required int
}{
	common.JournalTypeSale:     {allowed: map[int]bool{4: true, 5: true, 7: true}, required: 7},
	common.JournalTypePurchase: {allowed: map[int]bool{4: true, 5: true, 6: true}, required: 6},
	common.JournalTypeBank:     {allowed: map[int]bool{4: true, 5: true, 6: true, 7: true}, required: 5},
	common.JournalTypeCash:     {allowed: map[int]bool{4: true, 5: true, 6: true, 7: true}, required: 5},
}

// ValidateEntry checks a draft entry against the balance and referential
// invariants. It never returns a Go error for business-rule violations;
// those accumulate in the Result. A Go error means the caller passed
// something that is a programming mistake, not user input.
func ValidateEntry(entry *DraftEntry, snapshot *AccountSnapshot, periodOpen bool) (*Result, error) {
	if entry == nil {
		return nil, errors.New("validation: nil entry")
	}
	if snapshot == nil {
		return nil, errors.New("validation: nil account snapshot")
	}
	if entry.CompanyID == 0 {
		return nil, errors.New("validation: entry has no company id")
	}

	result := &Result{}

	if len(entry.Lines) < 2 {
		result.addError("lines", CodeInsufficientLines,
			fmt.Sprintf("entry has %d line(s); a balanced entry needs at least 2", len(entry.Lines)))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	classesSeen := map[int]bool{}

	for i, line := range entry.Lines {
		field := fmt.Sprintf("lines[%d]", i)

		account, known := snapshot.Accounts[line.AccountNumber]
		switch {
		case !known:
			result.addError(field, CodeUnknownAccount,
				fmt.Sprintf("account %s does not exist for this company", line.AccountNumber))
		case account.CompanyID != entry.CompanyID:
			result.addError(field, CodeForeignAccount,
				fmt.Sprintf("account %s belongs to another company", line.AccountNumber))
		case !account.IsActive:
			result.addError(field, CodeInactiveAccount,
				fmt.Sprintf("account %s is deactivated", line.AccountNumber))
		}

		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			result.addError(field, CodeNegativeAmount, "debit and credit amounts must not be negative")
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		switch {
		case !debitSet && !creditSet:
			result.addError(field, CodeEmptyLine, "line has neither a debit nor a credit amount")
		case debitSet && creditSet:
			result.addError(field, CodeAmbiguousSide, "line has both a debit and a credit amount")
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)

		c := pcg.Classify(line.AccountNumber)
		if c.Class != 0 {
			classesSeen[c.Class] = true
			warnUnusualSide(result, field, line, c.Class)
		}
	}

	if !totalDebit.Equal(totalCredit) {
		delta := totalDebit.Sub(totalCredit)
		result.addError("lines", CodeUnbalanced,
			fmt.Sprintf("entry is unbalanced: debit %s, credit %s, delta %s",
				totalDebit.StringFixed(2), totalCredit.StringFixed(2), delta.StringFixed(2)))
	}

	if !periodOpen {
		result.addError("date", CodeClosedPeriod,
			fmt.Sprintf("no open accounting period covers %s", entry.Date.Format("2006-01-02")))
	}

	warnJournalClasses(result, entry, classesSeen)
	if entry.Date.After(time.Now().AddDate(0, 0, 1)) {
		result.addWarning("date", WarnFutureDate, "entry is dated in the future")
	}

	result.OK = len(result.Errors) == 0
	return result, nil
}

func warnUnusualSide(result *Result, field string, line DraftLine, class int) {
	switch pcg.NormalSide(class) {
	case pcg.SideDebit:
		if line.Credit.IsPositive() {
			result.addWarning(field, WarnUnusualSide,
				fmt.Sprintf("account %s moved on the credit side (unusual for class %d)", line.AccountNumber, class))
		}
	case pcg.SideCredit:
		if line.Debit.IsPositive() {
			result.addWarning(field, WarnUnusualSide,
				fmt.Sprintf("account %s moved on the debit side (unusual for class %d)", line.AccountNumber, class))
		}
	}
}

func warnJournalClasses(result *Result, entry *DraftEntry, classesSeen map[int]bool) {
	rules, ok := journalClassRules[entry.JournalType]
	if !ok {
		return
	}
	for class := range classesSeen {
		if !rules.allowed[class] {
			result.addWarning("lines", WarnUnusualClass,
				fmt.Sprintf("class %d account is unusual in a %s journal", class, entry.JournalType))
		}
	}
	if rules.required != 0 && len(entry.Lines) > 0 && !classesSeen[rules.required] {
		result.addWarning("lines", WarnMissingClass,
			fmt.Sprintf("a %s journal entry normally carries a class %d line", entry.JournalType, rules.required))
	}
}
