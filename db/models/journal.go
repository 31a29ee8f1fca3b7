package models

import (
	"time"
)

// Journal : journal book (sales, purchases, bank, cash, miscellaneous).
type Journal struct {
	ID        int64     `bun:",pk,autoincrement"`
	CompanyID int64     `bun:",notnull"`
	Code      string    `bun:",notnull"`
	Name      string    `bun:",notnull"`
	Type      string    `bun:",notnull"`
	IsActive  bool      `bun:",notnull,default:true"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// JournalCounter backs entry-number allocation. One row per
// (company, journal, fiscal year); last_seq is only ever moved by an atomic
// increment inside the posting transaction.
type JournalCounter struct {
	CompanyID  int64 `bun:",pk"`
	JournalID  int64 `bun:",pk"`
	FiscalYear int   `bun:",pk"`
	LastSeq    int64 `bun:",notnull,default:0"`
}
