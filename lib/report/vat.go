package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

type VATLine struct {
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// VATPosition summarizes collected versus deductible tax for a period.
// A positive NetPosition means tax is owed, a negative one is a credit.
type VATPosition struct {
	Collected       []VATLine       `json:"collected"`
	Deductible      []VATLine       `json:"deductible"`
	TotalCollected  decimal.Decimal `json:"total_collected"`
	TotalDeductible decimal.Decimal `json:"total_deductible"`
	NetPosition     decimal.Decimal `json:"net_position"`
	Empty           bool            `json:"empty"`
}

var deductiblePrefixes = []string{"4455", "4456"}

// BuildVATPosition aggregates tax accounts. Collected tax (4457x) carries
// a credit balance, deductible tax (4455x, 4456x) a debit balance.
func BuildVATPosition(lines []SourceLine) *VATPosition {
	collected := map[string]*VATLine{}
	deductible := map[string]*VATLine{}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line.AccountNumber, "4457"):
			accumulateVAT(collected, line, line.Credit.Sub(line.Debit))
		case hasAnyPrefix(line.AccountNumber, deductiblePrefixes):
			accumulateVAT(deductible, line, line.Debit.Sub(line.Credit))
		}
	}

	pos := &VATPosition{
		TotalCollected:  decimal.Zero,
		TotalDeductible: decimal.Zero,
		Empty:           len(collected) == 0 && len(deductible) == 0,
	}
	for _, number := range sortedAccountNumbers(collected) {
		pos.Collected = append(pos.Collected, *collected[number])
		pos.TotalCollected = pos.TotalCollected.Add(collected[number].Amount)
	}
	for _, number := range sortedAccountNumbers(deductible) {
		pos.Deductible = append(pos.Deductible, *deductible[number])
		pos.TotalDeductible = pos.TotalDeductible.Add(deductible[number].Amount)
	}
	pos.NetPosition = pos.TotalCollected.Sub(pos.TotalDeductible)
	return pos
}

func accumulateVAT(m map[string]*VATLine, line SourceLine, amount decimal.Decimal) {
	vl, ok := m[line.AccountNumber]
	if !ok {
		vl = &VATLine{AccountNumber: line.AccountNumber, AccountName: line.AccountName, Amount: decimal.Zero}
		m[line.AccountNumber] = vl
	}
	vl.Amount = vl.Amount.Add(amount)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
