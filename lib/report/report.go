// Package report turns posted ledger lines into statutory report data. It
// is a pure read-side aggregator: every function works off the lines it is
// given and holds no state between calls, so repeated runs over the same
// snapshot produce identical output.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre/grandlivre/pcg"
)

// SourceLine is one posted (or reconciled) ledger line as fetched by the
// caller for the report period.
type SourceLine struct {
	AccountNumber string
	AccountName   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	EntryDate     time.Time
	DueDate       time.Time // zero when the entry is not invoice-linked
	Reference     string
}

// naturalBalance is the signed balance of an account following its class
// convention: debit-normal classes carry debit-credit, credit-normal
// classes credit-debit. Unclassified accounts fall back to debit-credit.
func naturalBalance(accountNumber string, debit, credit decimal.Decimal) decimal.Decimal {
	c := pcg.Classify(accountNumber)
	if pcg.NormalSide(c.Class) == pcg.SideCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

func sortedAccountNumbers[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
