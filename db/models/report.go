package models

import (
	"time"
)

// GeneratedReport : metadata artifact recorded after a report run. The
// report bytes themselves are rendered and stored elsewhere.
type GeneratedReport struct {
	ID          int64     `bun:",pk,autoincrement"`
	CompanyID   int64     `bun:",notnull"`
	ReportType  string    `bun:",notnull"`
	PeriodStart time.Time `bun:",notnull"`
	PeriodEnd   time.Time `bun:",notnull"`
	FileFormat  string    `bun:",nullzero"`
	GeneratedBy string    `bun:",nullzero"`
	Status      string    `bun:",notnull"`
	GeneratedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
