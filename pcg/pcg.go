// Package pcg classifies account numbers according to the Plan Comptable
// Général numbering scheme. Classification is a pure function of the number
// string so it can run during imports before any account row exists.
package pcg

import (
	"strings"

	"github.com/grandlivre/grandlivre/common"
)

// Bucket is the reporting/budget sub-category of an account.
type Bucket string

const (
	BucketEquity       Bucket = "equity"
	BucketFixedAsset   Bucket = "fixed_asset"
	BucketInventory    Bucket = "inventory"
	BucketThirdParty   Bucket = "third_party"
	BucketTax          Bucket = "tax"
	BucketCash         Bucket = "cash"
	BucketOperating    Bucket = "operating"
	BucketPersonnel    Bucket = "personnel"
	BucketFinancial    Bucket = "financial"
	BucketExceptional  Bucket = "exceptional"
	BucketUnclassified Bucket = "unclassified"
)

// Side is the normal balance side of an account class.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
	SideMixed  Side = "mixed"
)

type Classification struct {
	Class  int    // 1..7, 0 when unclassified
	Type   string // common.AccountType*, empty when unclassified
	Bucket Bucket
}

// Unclassified is returned for empty or non-numeric account numbers so bulk
// imports can flag the row and continue.
var Unclassified = Classification{Class: 0, Type: "", Bucket: BucketUnclassified}

type rule struct {
	prefix string
	class  int
	typ    string
	bucket Bucket
}

// Two-digit overrides are listed before the single-digit class rules; the
// first matching prefix wins.
var rules = []rule{
	{"44", 4, common.AccountTypeLiability, BucketTax},
	{"64", 6, common.AccountTypeExpense, BucketPersonnel},
	{"66", 6, common.AccountTypeExpense, BucketFinancial},
	{"67", 6, common.AccountTypeExpense, BucketExceptional},
	{"76", 7, common.AccountTypeRevenue, BucketFinancial},
	{"77", 7, common.AccountTypeRevenue, BucketExceptional},

	{"1", 1, common.AccountTypeEquity, BucketEquity},
	{"2", 2, common.AccountTypeAsset, BucketFixedAsset},
	{"3", 3, common.AccountTypeAsset, BucketInventory},
	{"4", 4, common.AccountTypeLiability, BucketThirdParty},
	{"5", 5, common.AccountTypeAsset, BucketCash},
	{"6", 6, common.AccountTypeExpense, BucketOperating},
	{"7", 7, common.AccountTypeRevenue, BucketOperating},
}

// Classify maps an account number to its statutory class, account type and
// reporting bucket. Unknown input yields Unclassified, never an error.
func Classify(accountNumber string) Classification {
	n := strings.TrimSpace(accountNumber)
	if n == "" || !isNumeric(n) {
		return Unclassified
	}
	for _, r := range rules {
		if strings.HasPrefix(n, r.prefix) {
			return Classification{Class: r.class, Type: r.typ, Bucket: r.bucket}
		}
	}
	return Unclassified
}

// NormalSide reports the side an account of the given class is usually
// moved on. Class 4 is mixed: receivables run debit, payables credit.
func NormalSide(class int) Side {
	switch class {
	case 2, 3, 5, 6:
		return SideDebit
	case 1, 7:
		return SideCredit
	case 4:
		return SideMixed
	default:
		return SideMixed
	}
}

// BudgetCategory is the default budget bucket suggested for an account
// number. It reuses the classification rules: expense and revenue accounts
// map to their bucket, balance-sheet accounts have no budget category.
func BudgetCategory(accountNumber string) (Bucket, bool) {
	c := Classify(accountNumber)
	if c.Class != 6 && c.Class != 7 {
		return BucketUnclassified, false
	}
	return c.Bucket, true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
