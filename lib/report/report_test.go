package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func debitLine(account, name, amount string) SourceLine {
	return SourceLine{AccountNumber: account, AccountName: name, Debit: dec(amount), Credit: decimal.Zero}
}

func creditLine(account, name, amount string) SourceLine {
	return SourceLine{AccountNumber: account, AccountName: name, Debit: decimal.Zero, Credit: dec(amount)}
}

func TestBuildTrialBalance(t *testing.T) {
	lines := []SourceLine{
		debitLine("601000", "Achats matières", "100.00"),
		creditLine("512000", "Banque", "100.00"),
	}

	tb, err := BuildTrialBalance(lines)
	require.NoError(t, err)
	assert.False(t, tb.Empty)
	require.Len(t, tb.Lines, 2)

	// sorted by account number
	assert.Equal(t, "512000", tb.Lines[0].AccountNumber)
	assert.Equal(t, "601000", tb.Lines[1].AccountNumber)

	assert.True(t, tb.Lines[0].Credit.Equal(dec("100.00")))
	assert.True(t, tb.Lines[0].Balance.Equal(dec("-100.00")), "bank is debit-normal, credit movement gives a negative balance")
	assert.True(t, tb.Lines[1].Debit.Equal(dec("100.00")))
	assert.True(t, tb.Lines[1].Balance.Equal(dec("100.00")))

	assert.True(t, tb.TotalDebit.Equal(dec("100.00")))
	assert.True(t, tb.TotalCredit.Equal(dec("100.00")))
}

func TestBuildTrialBalanceAggregatesPerAccount(t *testing.T) {
	lines := []SourceLine{
		debitLine("411000", "Clients", "60.00"),
		debitLine("411000", "Clients", "40.00"),
		creditLine("706000", "Prestations", "100.00"),
	}

	tb, err := BuildTrialBalance(lines)
	require.NoError(t, err)
	require.Len(t, tb.Lines, 2)
	assert.True(t, tb.Lines[0].Debit.Equal(dec("100.00")))
	assert.Equal(t, "operating", tb.Lines[1].Classification)
}

func TestBuildTrialBalanceEmptyPeriod(t *testing.T) {
	tb, err := BuildTrialBalance(nil)
	require.NoError(t, err)
	assert.True(t, tb.Empty)
	assert.Empty(t, tb.Lines)
	assert.True(t, tb.TotalDebit.IsZero())
	assert.True(t, tb.TotalCredit.IsZero())
}

func TestBuildTrialBalanceIntegrityError(t *testing.T) {
	lines := []SourceLine{
		debitLine("601000", "Achats", "100.00"),
		creditLine("512000", "Banque", "90.00"),
	}

	tb, err := BuildTrialBalance(lines)
	assert.Nil(t, tb)
	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Contains(t, integrityErr.Message, "100.00")
	assert.Contains(t, integrityErr.Message, "90.00")
}

func TestBuildTrialBalanceDeterministic(t *testing.T) {
	lines := []SourceLine{
		debitLine("601000", "Achats", "10.00"),
		debitLine("411000", "Clients", "90.00"),
		creditLine("706000", "Prestations", "75.00"),
		creditLine("445710", "TVA collectée", "15.00"),
		creditLine("512000", "Banque", "10.00"),
	}

	first, err := BuildTrialBalance(lines)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildTrialBalance(lines)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func statementLines(t *testing.T, stmt *Statement, sectionName string) map[string]decimal.Decimal {
	t.Helper()
	for _, section := range stmt.Sections {
		if section.Name != sectionName {
			continue
		}
		out := map[string]decimal.Decimal{}
		for _, line := range section.Lines {
			out[line.ID] = line.Amount
		}
		return out
	}
	t.Fatalf("section %q not found", sectionName)
	return nil
}

func TestEvaluateIncomeStatement(t *testing.T) {
	lines := []SourceLine{
		creditLine("706000", "Prestations", "1000.00"),
		debitLine("601000", "Achats", "300.00"),
		debitLine("661000", "Intérêts", "50.00"),
		debitLine("411000", "Clients", "1000.00"),
		creditLine("512000", "Banque", "350.00"),
	}
	tb, err := BuildTrialBalance(lines)
	require.NoError(t, err)

	stmt, err := Evaluate(IncomeStatementTemplate(), tb)
	require.NoError(t, err)
	assert.False(t, stmt.Empty)

	operating := statementLines(t, stmt, "Operating result")
	assert.True(t, operating["operating_revenue"].Equal(dec("1000.00")))
	assert.True(t, operating["operating_expense"].Equal(dec("300.00")))
	assert.True(t, operating["operating_result"].Equal(dec("700.00")))

	financial := statementLines(t, stmt, "Financial result")
	assert.True(t, financial["financial_expense"].Equal(dec("50.00")))
	assert.True(t, financial["financial_result"].Equal(dec("-50.00")))

	net := statementLines(t, stmt, "Net result")
	assert.True(t, net["net_result"].Equal(dec("650.00")))
}

func TestEvaluateBalanceSheetBalances(t *testing.T) {
	lines := []SourceLine{
		// capital contribution
		debitLine("512000", "Banque", "5000.00"),
		creditLine("101000", "Capital", "5000.00"),
		// sale on credit
		debitLine("411000", "Clients", "1200.00"),
		creditLine("706000", "Prestations", "1000.00"),
		creditLine("445710", "TVA collectée", "200.00"),
		// cash expense
		debitLine("601000", "Achats", "300.00"),
		creditLine("512000", "Banque", "300.00"),
	}
	tb, err := BuildTrialBalance(lines)
	require.NoError(t, err)

	stmt, err := Evaluate(BalanceSheetTemplate(), tb)
	require.NoError(t, err)

	assets := statementLines(t, stmt, "Assets")
	liabilities := statementLines(t, stmt, "Equity and liabilities")

	// hidden intermediates are computed but not emitted
	_, shown := liabilities["revenue_total"]
	assert.False(t, shown)

	assert.True(t, liabilities["net_result"].Equal(dec("700.00")))

	totalAssets := decimal.Zero
	for _, amount := range assets {
		totalAssets = totalAssets.Add(amount)
	}
	totalLiabilities := decimal.Zero
	for _, amount := range liabilities {
		totalLiabilities = totalLiabilities.Add(amount)
	}
	assert.True(t, totalAssets.Equal(totalLiabilities),
		"assets %s should equal liabilities %s", totalAssets, totalLiabilities)
}

func TestEvaluateUnknownReference(t *testing.T) {
	tmpl := Template{
		Name: "broken",
		Sections: []Section{{
			ID:   "s",
			Name: "S",
			Items: []Item{
				{ID: "x", Name: "X", Calc: CalcDifference, MinuendID: "nope", SubtraID: "also_nope"},
			},
		}},
	}
	tb, err := BuildTrialBalance(nil)
	require.NoError(t, err)

	_, err = Evaluate(tmpl, tb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown items")
}

func TestBuildAgedReceivables(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	due := func(daysAgo int) time.Time { return asOf.AddDate(0, 0, -daysAgo) }

	lines := []SourceLine{
		// open invoice, 45 days overdue
		{AccountNumber: "411000", AccountName: "Clients", Debit: dec("500.00"), Credit: decimal.Zero,
			EntryDate: due(75), DueDate: due(45), Reference: "INV-1"},
		// invoice overdue 10 days, partially paid
		{AccountNumber: "411000", AccountName: "Clients", Debit: dec("300.00"), Credit: decimal.Zero,
			EntryDate: due(40), DueDate: due(10), Reference: "INV-2"},
		{AccountNumber: "411000", AccountName: "Clients", Debit: decimal.Zero, Credit: dec("100.00"),
			EntryDate: due(5), DueDate: due(10), Reference: "INV-2"},
		// fully settled invoice drops out
		{AccountNumber: "411000", AccountName: "Clients", Debit: dec("250.00"), Credit: decimal.Zero,
			EntryDate: due(90), DueDate: due(60), Reference: "INV-3"},
		{AccountNumber: "411000", AccountName: "Clients", Debit: decimal.Zero, Credit: dec("250.00"),
			EntryDate: due(30), DueDate: due(60), Reference: "INV-3"},
		// not yet due, no due date: falls back to entry date
		{AccountNumber: "411100", AccountName: "Clients export", Debit: dec("80.00"), Credit: decimal.Zero,
			EntryDate: due(-5), Reference: "INV-4"},
		// payables are not receivables
		{AccountNumber: "401000", AccountName: "Fournisseurs", Debit: decimal.Zero, Credit: dec("999.00"),
			EntryDate: due(20), Reference: "SUP-1"},
	}

	aged := BuildAgedReceivables(lines, asOf)
	assert.False(t, aged.Empty)
	require.Len(t, aged.Lines, 2)

	clients := aged.Lines[0]
	assert.Equal(t, "411000", clients.AccountNumber)
	assert.True(t, clients.Days31To60.Equal(dec("500.00")))
	assert.True(t, clients.Days0To30.Equal(dec("200.00")))
	assert.True(t, clients.Days61To90.IsZero())
	assert.True(t, clients.Over90.IsZero())
	assert.True(t, clients.Total.Equal(dec("700.00")))

	export := aged.Lines[1]
	assert.Equal(t, "411100", export.AccountNumber)
	assert.True(t, export.Current.Equal(dec("80.00")))

	assert.True(t, aged.Total.Equal(dec("780.00")))
}

func TestBuildAgedPayables(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	lines := []SourceLine{
		{AccountNumber: "401000", AccountName: "Fournisseurs", Debit: decimal.Zero, Credit: dec("400.00"),
			EntryDate: asOf.AddDate(0, 0, -120), DueDate: asOf.AddDate(0, 0, -95), Reference: "SUP-1"},
		{AccountNumber: "401000", AccountName: "Fournisseurs", Debit: decimal.Zero, Credit: dec("150.00"),
			EntryDate: asOf.AddDate(0, 0, -80), DueDate: asOf.AddDate(0, 0, -65), Reference: "SUP-2"},
		{AccountNumber: "411000", AccountName: "Clients", Debit: dec("999.00"), Credit: decimal.Zero,
			EntryDate: asOf, Reference: "INV-1"},
	}

	aged := BuildAgedPayables(lines, asOf)
	require.Len(t, aged.Lines, 1)
	assert.True(t, aged.Lines[0].Over90.Equal(dec("400.00")))
	assert.True(t, aged.Lines[0].Days61To90.Equal(dec("150.00")))
	assert.True(t, aged.Total.Equal(dec("550.00")))
}

func TestBuildAgedEmpty(t *testing.T) {
	aged := BuildAgedReceivables(nil, time.Now())
	assert.True(t, aged.Empty)
	assert.True(t, aged.Total.IsZero())
}

func TestBuildVATPosition(t *testing.T) {
	lines := []SourceLine{
		creditLine("445710", "TVA collectée 20%", "200.00"),
		creditLine("445712", "TVA collectée 10%", "50.00"),
		debitLine("445660", "TVA déductible", "120.00"),
		debitLine("445620", "TVA sur immobilisations", "30.00"),
		debitLine("411000", "Clients", "999.00"),
	}

	pos := BuildVATPosition(lines)
	assert.False(t, pos.Empty)
	require.Len(t, pos.Collected, 2)
	require.Len(t, pos.Deductible, 2)
	assert.True(t, pos.TotalCollected.Equal(dec("250.00")))
	assert.True(t, pos.TotalDeductible.Equal(dec("150.00")))
	assert.True(t, pos.NetPosition.Equal(dec("100.00")), "collected above deductible means tax owed")
}

func TestBuildVATPositionCredit(t *testing.T) {
	lines := []SourceLine{
		creditLine("445710", "TVA collectée", "40.00"),
		debitLine("445660", "TVA déductible", "90.00"),
	}

	pos := BuildVATPosition(lines)
	assert.True(t, pos.NetPosition.Equal(dec("-50.00")))
}

func TestBuildVATPositionEmpty(t *testing.T) {
	pos := BuildVATPosition([]SourceLine{debitLine("601000", "Achats", "10.00")})
	assert.True(t, pos.Empty)
	assert.True(t, pos.NetPosition.IsZero())
}
