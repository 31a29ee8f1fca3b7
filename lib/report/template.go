package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CalculationType is the tagged variant behind every statement line: a line
// either sums account balances over number prefixes or subtracts one
// previously computed line from another. New statements are new templates,
// not new aggregation code.
type CalculationType int

const (
	CalcSum CalculationType = iota
	CalcDifference
)

// Direction overrides the natural-balance convention for mixed classes
// (class 4 splits into receivable and payable prefixes).
type Direction int

const (
	DirectionNatural Direction = iota
	DirectionDebit             // debit - credit
	DirectionCredit            // credit - debit
)

type Item struct {
	ID        string
	Name      string
	Calc      CalculationType
	Prefixes  []string  // CalcSum: account-number prefixes to match
	Direction Direction // CalcSum only
	MinuendID string    // CalcDifference: item ref A
	SubtraID  string    // CalcDifference: item ref B
	Hidden    bool      // computed for later reference, not emitted
}

type Section struct {
	ID    string
	Name  string
	Items []Item
}

type Template struct {
	Name     string
	Sections []Section
}

// StatementLine is one evaluated template item.
type StatementLine struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type StatementSection struct {
	Name  string          `json:"name"`
	Lines []StatementLine `json:"lines"`
}

type Statement struct {
	Name     string             `json:"name"`
	Sections []StatementSection `json:"sections"`
	Empty    bool               `json:"empty"`
}

// Evaluate runs one template over a trial balance. Difference items may
// reference any item evaluated before them, in template order.
func Evaluate(tmpl Template, tb *TrialBalance) (*Statement, error) {
	stmt := &Statement{Name: tmpl.Name, Empty: tb.Empty}
	values := map[string]decimal.Decimal{}

	for _, section := range tmpl.Sections {
		out := StatementSection{Name: section.Name}
		for _, item := range section.Items {
			var amount decimal.Decimal
			switch item.Calc {
			case CalcSum:
				amount = sumPrefixes(tb, item.Prefixes, item.Direction)
			case CalcDifference:
				a, okA := values[item.MinuendID]
				b, okB := values[item.SubtraID]
				if !okA || !okB {
					return nil, fmt.Errorf("template %s: item %s references unknown items %q/%q",
						tmpl.Name, item.ID, item.MinuendID, item.SubtraID)
				}
				amount = a.Sub(b)
			default:
				return nil, fmt.Errorf("template %s: item %s has unknown calculation type", tmpl.Name, item.ID)
			}
			values[item.ID] = amount
			if !item.Hidden {
				out.Lines = append(out.Lines, StatementLine{ID: item.ID, Name: item.Name, Amount: amount})
			}
		}
		stmt.Sections = append(stmt.Sections, out)
	}
	return stmt, nil
}

func sumPrefixes(tb *TrialBalance, prefixes []string, direction Direction) decimal.Decimal {
	total := decimal.Zero
	for _, line := range tb.Lines {
		for _, prefix := range prefixes {
			if strings.HasPrefix(line.AccountNumber, prefix) {
				switch direction {
				case DirectionDebit:
					total = total.Add(line.Debit.Sub(line.Credit))
				case DirectionCredit:
					total = total.Add(line.Credit.Sub(line.Debit))
				default:
					total = total.Add(line.Balance)
				}
				break
			}
		}
	}
	return total
}

// BalanceSheetTemplate routes accounts into asset and liability/equity
// sections per the PCG class conventions: receivables (41) sit on the asset
// side, the rest of class 4 on the liability side, and the period result
// closes the equity section.
func BalanceSheetTemplate() Template {
	return Template{
		Name: "balance_sheet",
		Sections: []Section{
			{
				ID:   "assets",
				Name: "Assets",
				Items: []Item{
					{ID: "fixed_assets", Name: "Fixed assets", Calc: CalcSum, Prefixes: []string{"2"}},
					{ID: "inventory", Name: "Inventory", Calc: CalcSum, Prefixes: []string{"3"}},
					{ID: "receivables", Name: "Receivables", Calc: CalcSum, Prefixes: []string{"41"}, Direction: DirectionDebit},
					{ID: "cash", Name: "Cash and equivalents", Calc: CalcSum, Prefixes: []string{"5"}},
				},
			},
			{
				ID:   "liabilities",
				Name: "Equity and liabilities",
				Items: []Item{
					{ID: "equity", Name: "Equity", Calc: CalcSum, Prefixes: []string{"1"}},
					{ID: "revenue_total", Calc: CalcSum, Prefixes: []string{"7"}, Hidden: true},
					{ID: "expense_total", Calc: CalcSum, Prefixes: []string{"6"}, Hidden: true},
					{ID: "net_result", Name: "Net result of the period", Calc: CalcDifference, MinuendID: "revenue_total", SubtraID: "expense_total"},
					{ID: "payables", Name: "Payables and other liabilities", Calc: CalcSum,
						Prefixes: []string{"40", "42", "43", "44", "45", "46", "47", "48", "49"}, Direction: DirectionCredit},
				},
			},
		},
	}
}

// IncomeStatementTemplate mirrors the operating / financial / exceptional
// split of classes 6 and 7.
func IncomeStatementTemplate() Template {
	return Template{
		Name: "income_statement",
		Sections: []Section{
			{
				ID:   "operating",
				Name: "Operating result",
				Items: []Item{
					{ID: "operating_revenue", Name: "Operating revenue", Calc: CalcSum,
						Prefixes: []string{"70", "71", "72", "73", "74", "75"}},
					{ID: "operating_expense", Name: "Operating expense", Calc: CalcSum,
						Prefixes: []string{"60", "61", "62", "63", "64", "65", "68", "69"}},
					{ID: "operating_result", Name: "Operating result", Calc: CalcDifference,
						MinuendID: "operating_revenue", SubtraID: "operating_expense"},
				},
			},
			{
				ID:   "financial",
				Name: "Financial result",
				Items: []Item{
					{ID: "financial_revenue", Name: "Financial revenue", Calc: CalcSum, Prefixes: []string{"76"}},
					{ID: "financial_expense", Name: "Financial expense", Calc: CalcSum, Prefixes: []string{"66"}},
					{ID: "financial_result", Name: "Financial result", Calc: CalcDifference,
						MinuendID: "financial_revenue", SubtraID: "financial_expense"},
				},
			},
			{
				ID:   "exceptional",
				Name: "Exceptional result",
				Items: []Item{
					{ID: "exceptional_revenue", Name: "Exceptional revenue", Calc: CalcSum, Prefixes: []string{"77"}},
					{ID: "exceptional_expense", Name: "Exceptional expense", Calc: CalcSum, Prefixes: []string{"67"}},
					{ID: "exceptional_result", Name: "Exceptional result", Calc: CalcDifference,
						MinuendID: "exceptional_revenue", SubtraID: "exceptional_expense"},
				},
			},
			{
				ID:   "net",
				Name: "Net result",
				Items: []Item{
					{ID: "total_revenue", Name: "Total revenue", Calc: CalcSum, Prefixes: []string{"7"}},
					{ID: "total_expense", Name: "Total expense", Calc: CalcSum, Prefixes: []string{"6"}},
					{ID: "net_result", Name: "Net result", Calc: CalcDifference,
						MinuendID: "total_revenue", SubtraID: "total_expense"},
				},
			},
		},
	}
}
