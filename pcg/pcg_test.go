package pcg

import (
	"testing"

	"github.com/grandlivre/grandlivre/common"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		number string
		class  int
		typ    string
		bucket Bucket
	}{
		{"101000", 1, common.AccountTypeEquity, BucketEquity},
		{"218300", 2, common.AccountTypeAsset, BucketFixedAsset},
		{"370000", 3, common.AccountTypeAsset, BucketInventory},
		{"401000", 4, common.AccountTypeLiability, BucketThirdParty},
		{"411000", 4, common.AccountTypeLiability, BucketThirdParty},
		{"445710", 4, common.AccountTypeLiability, BucketTax},
		{"512000", 5, common.AccountTypeAsset, BucketCash},
		{"601000", 6, common.AccountTypeExpense, BucketOperating},
		{"641000", 6, common.AccountTypeExpense, BucketPersonnel},
		{"661000", 6, common.AccountTypeExpense, BucketFinancial},
		{"671000", 6, common.AccountTypeExpense, BucketExceptional},
		// prefix 70 is plain operating revenue, not financial/exceptional
		{"706200", 7, common.AccountTypeRevenue, BucketOperating},
		{"761000", 7, common.AccountTypeRevenue, BucketFinancial},
		{"771000", 7, common.AccountTypeRevenue, BucketExceptional},
	}
	for _, tt := range tests {
		c := Classify(tt.number)
		assert.Equal(t, tt.class, c.Class, "class of %s", tt.number)
		assert.Equal(t, tt.typ, c.Type, "type of %s", tt.number)
		assert.Equal(t, tt.bucket, c.Bucket, "bucket of %s", tt.number)
	}
}

func TestClassifyUnknownInput(t *testing.T) {
	for _, number := range []string{"", "  ", "abc", "9A1", "801000", "901000"} {
		assert.Equal(t, Unclassified, Classify(number), "Classify(%q)", number)
	}
}

func TestNormalSide(t *testing.T) {
	assert.Equal(t, SideCredit, NormalSide(1))
	assert.Equal(t, SideDebit, NormalSide(2))
	assert.Equal(t, SideDebit, NormalSide(3))
	assert.Equal(t, SideMixed, NormalSide(4))
	assert.Equal(t, SideDebit, NormalSide(5))
	assert.Equal(t, SideDebit, NormalSide(6))
	assert.Equal(t, SideCredit, NormalSide(7))
}

func TestBudgetCategory(t *testing.T) {
	bucket, ok := BudgetCategory("641000")
	assert.True(t, ok)
	assert.Equal(t, BucketPersonnel, bucket)

	bucket, ok = BudgetCategory("706000")
	assert.True(t, ok)
	assert.Equal(t, BucketOperating, bucket)

	_, ok = BudgetCategory("512000")
	assert.False(t, ok)
}
