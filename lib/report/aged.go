package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AgedLine buckets the outstanding amount of one account by days past due.
type AgedLine struct {
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	Current       decimal.Decimal `json:"current"`
	Days0To30     decimal.Decimal `json:"days_0_30"`
	Days31To60    decimal.Decimal `json:"days_31_60"`
	Days61To90    decimal.Decimal `json:"days_61_90"`
	Over90        decimal.Decimal `json:"over_90"`
	Total         decimal.Decimal `json:"total"`
}

type AgedBalances struct {
	Lines []AgedLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Empty bool            `json:"empty"`
}

// BuildAgedReceivables buckets open client balances (41x) by age.
func BuildAgedReceivables(lines []SourceLine, asOf time.Time) *AgedBalances {
	return buildAged(lines, asOf, "41", false)
}

// BuildAgedPayables buckets open supplier balances (40x) by age.
func BuildAgedPayables(lines []SourceLine, asOf time.Time) *AgedBalances {
	return buildAged(lines, asOf, "40", true)
}

// buildAged nets each (account, reference) open item and buckets what
// remains outstanding. Receivables are debit balances, payables credit
// balances; fully lettered items net to zero and disappear.
func buildAged(lines []SourceLine, asOf time.Time, accountPrefix string, creditSide bool) *AgedBalances {
	type openItem struct {
		name      string
		amount    decimal.Decimal
		dueDate   time.Time
		entryDate time.Time
	}
	type itemKey struct {
		account string
		ref     string
	}

	items := map[itemKey]*openItem{}
	for _, line := range lines {
		if !strings.HasPrefix(line.AccountNumber, accountPrefix) {
			continue
		}
		k := itemKey{account: line.AccountNumber, ref: line.Reference}
		item, ok := items[k]
		if !ok {
			item = &openItem{name: line.AccountName, amount: decimal.Zero}
			items[k] = item
		}
		if creditSide {
			item.amount = item.amount.Add(line.Credit.Sub(line.Debit))
		} else {
			item.amount = item.amount.Add(line.Debit.Sub(line.Credit))
		}
		if item.dueDate.IsZero() && !line.DueDate.IsZero() {
			item.dueDate = line.DueDate
		}
		if item.entryDate.IsZero() || line.EntryDate.Before(item.entryDate) {
			item.entryDate = line.EntryDate
		}
	}

	byAccount := map[string]*AgedLine{}
	for k, item := range items {
		if !item.amount.IsPositive() {
			continue // settled or over-settled item: nothing outstanding
		}
		al, ok := byAccount[k.account]
		if !ok {
			al = &AgedLine{
				AccountNumber: k.account, AccountName: item.name,
				Current: decimal.Zero, Days0To30: decimal.Zero, Days31To60: decimal.Zero,
				Days61To90: decimal.Zero, Over90: decimal.Zero, Total: decimal.Zero,
			}
			byAccount[k.account] = al
		}
		due := item.dueDate
		if due.IsZero() {
			due = item.entryDate
		}
		days := int(asOf.Sub(due).Hours() / 24)
		switch {
		case days <= 0:
			al.Current = al.Current.Add(item.amount)
		case days <= 30:
			al.Days0To30 = al.Days0To30.Add(item.amount)
		case days <= 60:
			al.Days31To60 = al.Days31To60.Add(item.amount)
		case days <= 90:
			al.Days61To90 = al.Days61To90.Add(item.amount)
		default:
			al.Over90 = al.Over90.Add(item.amount)
		}
		al.Total = al.Total.Add(item.amount)
	}

	out := &AgedBalances{Total: decimal.Zero, Empty: len(byAccount) == 0}
	for _, number := range sortedAccountNumbers(byAccount) {
		out.Lines = append(out.Lines, *byAccount[number])
		out.Total = out.Total.Add(byAccount[number].Total)
	}
	return out
}
