package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grandlivre/grandlivre/pcg"
)

// TrialBalanceLine carries the summed movements of one account.
type TrialBalanceLine struct {
	AccountNumber  string          `json:"account_number"`
	AccountName    string          `json:"account_name"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Balance        decimal.Decimal `json:"balance"`
	Classification string          `json:"classification"`
}

type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Empty       bool               `json:"empty"`
}

// IntegrityError reports a broken ledger-wide invariant. It aborts the
// report instead of producing silently wrong numbers.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string { return e.Message }

// BuildTrialBalance groups lines by account and sums debit and credit
// separately. The period-wide Σdebit == Σcredit check is deliberate
// paranoia: per-entry balance is already enforced at posting time, so a
// mismatch here means ledger corruption.
func BuildTrialBalance(lines []SourceLine) (*TrialBalance, error) {
	if len(lines) == 0 {
		return &TrialBalance{Empty: true, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}, nil
	}

	type sums struct {
		name   string
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	byAccount := map[string]*sums{}
	for _, line := range lines {
		s, ok := byAccount[line.AccountNumber]
		if !ok {
			s = &sums{name: line.AccountName, debit: decimal.Zero, credit: decimal.Zero}
			byAccount[line.AccountNumber] = s
		}
		if s.name == "" {
			s.name = line.AccountName
		}
		s.debit = s.debit.Add(line.Debit)
		s.credit = s.credit.Add(line.Credit)
	}

	tb := &TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, number := range sortedAccountNumbers(byAccount) {
		s := byAccount[number]
		tb.Lines = append(tb.Lines, TrialBalanceLine{
			AccountNumber:  number,
			AccountName:    s.name,
			Debit:          s.debit,
			Credit:         s.credit,
			Balance:        naturalBalance(number, s.debit, s.credit),
			Classification: string(pcg.Classify(number).Bucket),
		})
		tb.TotalDebit = tb.TotalDebit.Add(s.debit)
		tb.TotalCredit = tb.TotalCredit.Add(s.credit)
	}

	if !tb.TotalDebit.Equal(tb.TotalCredit) {
		return nil, &IntegrityError{Message: fmt.Sprintf(
			"trial balance mismatch: total debit %s != total credit %s",
			tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))}
	}
	return tb, nil
}
