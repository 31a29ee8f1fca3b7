package service

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/lib/report"
)

type LedgerService struct {
	Config *Config
	DB     *bun.DB
	Logger *lecho.Logger
}

// SourceLinesForPeriod loads the movements feeding every report: lines of
// posted and reconciled entries dated inside [start, end]. Draft and
// cancelled entries never reach a report.
func (svc *LedgerService) SourceLinesForPeriod(ctx context.Context, companyID int64, start, end time.Time) ([]report.SourceLine, error) {
	var entries []models.JournalEntry
	err := svc.DB.NewSelect().
		Model(&entries).
		Relation("Lines").
		Relation("Lines.Account").
		Where("journal_entry.company_id = ?", companyID).
		Where("journal_entry.status IN (?)", bun.In([]string{common.EntryStatusPosted, common.EntryStatusReconciled})).
		Where("journal_entry.entry_date >= ?", start).
		Where("journal_entry.entry_date <= ?", end).
		Order("journal_entry.entry_date ASC", "journal_entry.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	var lines []report.SourceLine
	for _, entry := range entries {
		for _, line := range entry.Lines {
			src := report.SourceLine{
				Debit:     line.DebitAmount,
				Credit:    line.CreditAmount,
				EntryDate: entry.EntryDate,
				DueDate:   entry.DueDate,
				Reference: entry.ReferenceNumber,
			}
			if line.Account != nil {
				src.AccountNumber = line.Account.AccountNumber
				src.AccountName = line.Account.Name
			}
			lines = append(lines, src)
		}
	}
	return lines, nil
}
