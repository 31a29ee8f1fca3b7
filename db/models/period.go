package models

import (
	"time"
)

// AccountingPeriod : open/closed bookkeeping period. Periods of one company
// never overlap; the overlap check happens at creation time.
type AccountingPeriod struct {
	ID        int64     `bun:",pk,autoincrement"`
	CompanyID int64     `bun:",notnull"`
	StartDate time.Time `bun:",notnull"`
	EndDate   time.Time `bun:",notnull"`
	Status    string    `bun:",notnull"`
	ClosedAt  time.Time `bun:",nullzero"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
