package validation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre/grandlivre/common"
)

func testSnapshot() *AccountSnapshot {
	return NewAccountSnapshot(1, []SnapshotAccount{
		{CompanyID: 1, AccountNumber: "411000", IsActive: true},
		{CompanyID: 1, AccountNumber: "401000", IsActive: true},
		{CompanyID: 1, AccountNumber: "512000", IsActive: true},
		{CompanyID: 1, AccountNumber: "601000", IsActive: true},
		{CompanyID: 1, AccountNumber: "707000", IsActive: true},
		{CompanyID: 1, AccountNumber: "627000", IsActive: false},
	})
}

func balancedEntry() *DraftEntry {
	return &DraftEntry{
		CompanyID:   1,
		JournalCode: "AC",
		JournalType: common.JournalTypePurchase,
		Date:        time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Lines: []DraftLine{
			{AccountNumber: "601000", Debit: decimal.NewFromInt(100)},
			{AccountNumber: "512000", Credit: decimal.NewFromInt(100)},
		},
	}
}

func hasCode(issues []Issue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestValidateBalancedEntry(t *testing.T) {
	result, err := ValidateEntry(balancedEntry(), testSnapshot(), true)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Empty(t, result.Errors)
}

func TestValidateUnbalancedEntry(t *testing.T) {
	entry := balancedEntry()
	entry.Lines[1].Credit = decimal.NewFromInt(90)

	result, err := ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.False(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeUnbalanced, result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "10.00")
}

func TestValidateSingleLineEntry(t *testing.T) {
	entry := balancedEntry()
	entry.Lines = entry.Lines[:1]

	result, err := ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.True(t, hasCode(result.Errors, CodeInsufficientLines))
	assert.True(t, hasCode(result.Errors, CodeUnbalanced))
}

func TestValidateAccountReferences(t *testing.T) {
	entry := balancedEntry()
	entry.Lines[0].AccountNumber = "999999"

	result, err := ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.True(t, hasCode(result.Errors, CodeUnknownAccount))

	entry = balancedEntry()
	entry.Lines[0].AccountNumber = "627000"
	result, err = ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.True(t, hasCode(result.Errors, CodeInactiveAccount))
}

func TestValidateCrossTenantAccount(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Accounts["601000"] = SnapshotAccount{CompanyID: 2, AccountNumber: "601000", IsActive: true}

	result, err := ValidateEntry(balancedEntry(), snapshot, true)
	require.NoError(t, err)
	assert.True(t, hasCode(result.Errors, CodeForeignAccount))
}

func TestValidateLineExclusivity(t *testing.T) {
	entry := balancedEntry()
	entry.Lines[0].Credit = decimal.NewFromInt(5)

	result, err := ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.True(t, hasCode(result.Errors, CodeAmbiguousSide))

	entry = balancedEntry()
	entry.Lines[0].Debit = decimal.Zero
	result, err = ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.True(t, hasCode(result.Errors, CodeEmptyLine))

	entry = balancedEntry()
	entry.Lines[0].Debit = decimal.NewFromInt(-100)
	result, err = ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.True(t, hasCode(result.Errors, CodeNegativeAmount))
}

func TestValidateClosedPeriod(t *testing.T) {
	result, err := ValidateEntry(balancedEntry(), testSnapshot(), false)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.True(t, hasCode(result.Errors, CodeClosedPeriod))
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	entry := &DraftEntry{
		CompanyID:   1,
		JournalCode: "OD",
		JournalType: common.JournalTypeMiscellaneous,
		Date:        time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Lines: []DraftLine{
			{AccountNumber: "999999", Debit: decimal.NewFromInt(100)},
		},
	}
	result, err := ValidateEntry(entry, testSnapshot(), false)
	require.NoError(t, err)
	assert.True(t, hasCode(result.Errors, CodeInsufficientLines))
	assert.True(t, hasCode(result.Errors, CodeUnknownAccount))
	assert.True(t, hasCode(result.Errors, CodeUnbalanced))
	assert.True(t, hasCode(result.Errors, CodeClosedPeriod))
}

func TestValidateJournalClassWarnings(t *testing.T) {
	// a sale journal entry without any class-7 line
	entry := &DraftEntry{
		CompanyID:   1,
		JournalCode: "VE",
		JournalType: common.JournalTypeSale,
		Date:        time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Lines: []DraftLine{
			{AccountNumber: "601000", Debit: decimal.NewFromInt(50)},
			{AccountNumber: "512000", Credit: decimal.NewFromInt(50)},
		},
	}
	result, err := ValidateEntry(entry, testSnapshot(), true)
	require.NoError(t, err)
	assert.True(t, result.OK, "warnings must not block posting")
	assert.True(t, hasCode(result.Warnings, WarnMissingClass))
	assert.True(t, hasCode(result.Warnings, WarnUnusualClass))
}

func TestValidateProgrammerErrors(t *testing.T) {
	_, err := ValidateEntry(nil, testSnapshot(), true)
	assert.Error(t, err)

	_, err = ValidateEntry(balancedEntry(), nil, true)
	assert.Error(t, err)

	entry := balancedEntry()
	entry.CompanyID = 0
	_, err = ValidateEntry(entry, testSnapshot(), true)
	assert.Error(t, err)
}

// Property: randomly generated balanced line sets always validate, and the
// same sets with one side perturbed always fail with UNBALANCED.
func TestValidateBalanceProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	snapshot := testSnapshot()
	debitAccounts := []string{"601000", "512000", "411000"}
	creditAccounts := []string{"707000", "401000"}

	for i := 0; i < 200; i++ {
		entry := &DraftEntry{
			CompanyID:   1,
			JournalCode: "OD",
			JournalType: common.JournalTypeMiscellaneous,
			Date:        time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		}
		total := decimal.Zero
		numDebits := 1 + rng.Intn(4)
		for d := 0; d < numDebits; d++ {
			cents := int64(1 + rng.Intn(1_000_000))
			amount := decimal.New(cents, -2)
			total = total.Add(amount)
			entry.Lines = append(entry.Lines, DraftLine{
				AccountNumber: debitAccounts[rng.Intn(len(debitAccounts))],
				Debit:         amount,
			})
		}
		entry.Lines = append(entry.Lines, DraftLine{
			AccountNumber: creditAccounts[rng.Intn(len(creditAccounts))],
			Credit:        total,
		})

		result, err := ValidateEntry(entry, snapshot, true)
		require.NoError(t, err)
		assert.True(t, result.OK, "balanced entry %d should validate: %+v", i, result.Errors)

		perturbed := *entry
		perturbed.Lines = append([]DraftLine(nil), entry.Lines...)
		last := &perturbed.Lines[len(perturbed.Lines)-1]
		last.Credit = last.Credit.Add(decimal.New(1, -2))

		result, err = ValidateEntry(&perturbed, snapshot, true)
		require.NoError(t, err)
		assert.False(t, result.OK, "perturbed entry %d should fail", i)
		assert.True(t, hasCode(result.Errors, CodeUnbalanced))
	}
}
