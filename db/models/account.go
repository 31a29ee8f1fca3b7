package models

import (
	"time"
)

// Account : Chart of Accounts row. The class is always derived from the
// first digit of the number at write time; it is stored for query
// convenience but never edited independently.
type Account struct {
	ID              int64     `bun:",pk,autoincrement"`
	CompanyID       int64     `bun:",notnull"`
	AccountNumber   string    `bun:",notnull"`
	Name            string    `bun:",notnull"`
	Class           int       `bun:",notnull"`
	Type            string    `bun:",notnull"`
	IsActive        bool      `bun:",notnull,default:true"`
	IsDetailAccount bool      `bun:",notnull,default:true"`
	CreatedAt       time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
