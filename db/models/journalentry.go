package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry : one accounting entry. EntryNumber stays empty until the
// entry is posted; after posting the entry is append-only and corrections
// go through a reversing entry.
type JournalEntry struct {
	ID              int64              `bun:",pk,autoincrement"`
	CompanyID       int64              `bun:",notnull"`
	JournalID       int64              `bun:",notnull"`
	Journal         *Journal           `bun:"rel:belongs-to,join:journal_id=id"`
	EntryDate       time.Time          `bun:",notnull"`
	DueDate         time.Time          `bun:",nullzero"`
	EntryNumber     string             `bun:",nullzero"`
	Description     string             `bun:",nullzero"`
	ReferenceNumber string             `bun:",nullzero"`
	Status          string             `bun:",notnull"`
	ReversesEntryID int64              `bun:",nullzero"`
	Lines           []JournalEntryLine `bun:"rel:has-many,join:id=journal_entry_id"`
	CreatedAt       time.Time          `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time          `bun:",nullzero,notnull,default:current_timestamp"`
}

// JournalEntryLine : one debit-or-credit movement. Exactly one of
// DebitAmount/CreditAmount is positive, the other exactly zero.
type JournalEntryLine struct {
	ID             int64           `bun:",pk,autoincrement"`
	JournalEntryID int64           `bun:",notnull"`
	AccountID      int64           `bun:",notnull"`
	Account        *Account        `bun:"rel:belongs-to,join:account_id=id"`
	DebitAmount    decimal.Decimal `bun:"type:numeric(18,2),notnull"`
	CreditAmount   decimal.Decimal `bun:"type:numeric(18,2),notnull"`
	Description    string          `bun:",nullzero"`
	Currency       string          `bun:",notnull,default:'EUR'"`
	Position       int             `bun:",notnull,default:0"`
}
