package service

import (
	"context"
	"database/sql/driver"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/fec"
	"github.com/grandlivre/grandlivre/lib/validation"
)

func TestDraftFromCandidate(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	candidate := fec.Candidate{
		JournalCode: "VT",
		Date:        date,
		Reference:   "FAC-001",
		Rows: []fec.Row{
			{AccountNumber: "411000", Debit: decimal.RequireFromString("120.00"), Credit: decimal.Zero, Description: "Facture 001"},
			{AccountNumber: "706000", Debit: decimal.Zero, Credit: decimal.RequireFromString("100.00")},
			{AccountNumber: "445710", Debit: decimal.Zero, Credit: decimal.RequireFromString("20.00")},
		},
	}

	draft, params := draftFromCandidate(7, candidate, common.JournalTypeSale)

	assert.EqualValues(t, 7, draft.CompanyID)
	assert.Equal(t, "VT", draft.JournalCode)
	assert.Equal(t, common.JournalTypeSale, draft.JournalType)
	require.Len(t, draft.Lines, 3)
	assert.Equal(t, "411000", draft.Lines[0].AccountNumber)
	// entry description falls back to the first row's label
	assert.Equal(t, "Facture 001", draft.Description)

	assert.Equal(t, "VT", params.JournalCode)
	assert.Equal(t, "FAC-001", params.ReferenceNumber)
	assert.Equal(t, "Facture 001", params.Description)
	require.Len(t, params.Lines, 3)
	assert.True(t, params.Lines[2].Credit.Equal(decimal.RequireFromString("20.00")))
}

func TestHasUnbalanced(t *testing.T) {
	balanced := &validation.Result{OK: false, Errors: []validation.Issue{
		{Field: "lines", Code: validation.CodeInsufficientLines, Message: "entry needs at least two lines"},
	}}
	assert.False(t, hasUnbalanced(balanced))

	unbalanced := &validation.Result{OK: false, Errors: []validation.Issue{
		{Field: "lines", Code: validation.CodeUnbalanced, Message: "entry is unbalanced"},
	}}
	assert.True(t, hasUnbalanced(unbalanced))
}

func TestNewImportSummaryCounts(t *testing.T) {
	file := "JournalCode;EcritureDate;CompteNum;PieceRef;Debit;Credit\n" +
		"VT;20240110;411000;F1;120,00;0,00\n" +
		"VT;20240110;706000;F1;0,00;120,00\n" +
		"BQ;20240131;512000;R1;120,00;0,00\n" +
		"BQ;20240131;411000;R1;0,00;120,00\n"
	parsed, err := fec.Parse(strings.NewReader(file), fec.Options{})
	require.NoError(t, err)

	summary := newImportSummary(parsed, true)
	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, 4, summary.TotalLines)
	// 411000 appears in two journals but counts once
	assert.Equal(t, 3, summary.NumAccounts)
	assert.Equal(t, 2, summary.NumJournals)
	assert.Equal(t, []string{"EUR"}, summary.Currencies)
	require.NotNil(t, summary.DateStart)
	require.NotNil(t, summary.DateEnd)
	assert.Equal(t, "2024-01-10", summary.DateStart.Format("2006-01-02"))
	assert.Equal(t, "2024-01-31", summary.DateEnd.Format("2006-01-02"))
	assert.True(t, summary.DryRun)
}

// A journal lookup that fails for database reasons must abort the import,
// not mark the candidate as referencing an unknown journal.
func TestImportFECJournalLookupFailure(t *testing.T) {
	db := newFakeDB(func(q string) (driver.Rows, error) {
		if strings.Contains(q, "journals") {
			return nil, assert.AnError
		}
		return &fakeRows{}, nil
	}, nil)
	defer db.Close()
	svc := &LedgerService{
		Config: &Config{DefaultCurrency: "EUR"},
		DB:     db,
		Logger: lecho.New(io.Discard),
	}

	file := "JournalCode;EcritureDate;CompteNum;PieceRef;Debit;Credit\n" +
		"VT;20240115;411000;F1;100,00;0,00\n" +
		"VT;20240115;706000;F1;0,00;100,00\n"
	summary, err := svc.ImportFEC(context.Background(), 1, strings.NewReader(file), ImportOptions{})
	require.ErrorContains(t, err, assert.AnError.Error())
	assert.Nil(t, summary)
}
