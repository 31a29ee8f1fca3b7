package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/uptrace/bun"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/fec"
	"github.com/grandlivre/grandlivre/lib/report"
)

type ReportRequest struct {
	Type  string
	Start time.Time
	End   time.Time
	// AsOf is the aging reference date. Zero means the period end.
	AsOf time.Time
	// RequestedBy identifies the caller on the recorded run ("api", "cli").
	RequestedBy string
}

// ReportResult wraps whichever report was requested. Exactly one of the
// payload fields is set.
type ReportResult struct {
	Type         string               `json:"type"`
	PeriodStart  time.Time            `json:"period_start"`
	PeriodEnd    time.Time            `json:"period_end"`
	GeneratedAt  time.Time            `json:"generated_at"`
	TrialBalance *report.TrialBalance `json:"trial_balance,omitempty"`
	Statement    *report.Statement    `json:"statement,omitempty"`
	Aged         *report.AgedBalances `json:"aged,omitempty"`
	VAT          *report.VATPosition  `json:"vat,omitempty"`
}

// GenerateReport builds one report over the posted entries of the period
// and records the run. Report generation never mutates ledger data, so two
// identical calls over a quiet ledger return identical payloads.
func (svc *LedgerService) GenerateReport(ctx context.Context, companyID int64, req ReportRequest) (*ReportResult, error) {
	lines, err := svc.SourceLinesForPeriod(ctx, companyID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = req.End
	}
	result := &ReportResult{
		Type:        req.Type,
		PeriodStart: req.Start,
		PeriodEnd:   req.End,
		GeneratedAt: time.Now(),
	}

	switch req.Type {
	case common.ReportTypeTrialBalance:
		result.TrialBalance, err = report.BuildTrialBalance(lines)
	case common.ReportTypeBalanceSheet:
		result.Statement, err = svc.evaluateStatement(report.BalanceSheetTemplate(), lines)
	case common.ReportTypeIncomeStatement:
		result.Statement, err = svc.evaluateStatement(report.IncomeStatementTemplate(), lines)
	case common.ReportTypeAgedReceivables:
		result.Aged = report.BuildAgedReceivables(lines, asOf)
	case common.ReportTypeAgedPayables:
		result.Aged = report.BuildAgedPayables(lines, asOf)
	case common.ReportTypeVAT:
		result.VAT = report.BuildVATPosition(lines)
	default:
		return nil, fmt.Errorf("unknown report type %q", req.Type)
	}

	status := common.ReportStatusReady
	if err != nil {
		status = common.ReportStatusFailed
	}
	artifact := &models.GeneratedReport{
		CompanyID:   companyID,
		ReportType:  req.Type,
		PeriodStart: req.Start,
		PeriodEnd:   req.End,
		FileFormat:  "json",
		GeneratedBy: req.RequestedBy,
		Status:      status,
	}
	if _, insertErr := svc.DB.NewInsert().Model(artifact).Exec(ctx); insertErr != nil {
		svc.Logger.Errorf("failed to record report run: %v", insertErr)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (svc *LedgerService) evaluateStatement(tmpl report.Template, lines []report.SourceLine) (*report.Statement, error) {
	tb, err := report.BuildTrialBalance(lines)
	if err != nil {
		return nil, err
	}
	return report.Evaluate(tmpl, tb)
}

func (svc *LedgerService) ListReportRuns(ctx context.Context, companyID int64) ([]models.GeneratedReport, error) {
	runs := []models.GeneratedReport{}
	err := svc.DB.NewSelect().
		Model(&runs).
		Where("company_id = ?", companyID).
		Order("generated_at DESC").
		Limit(100).
		Scan(ctx)
	return runs, err
}

// ExportFEC streams the period's posted entries in the statutory file
// format. Lines come out ordered by entry date then entry id, the order the
// numbers were handed out in.
func (svc *LedgerService) ExportFEC(ctx context.Context, companyID int64, start, end time.Time, w io.Writer) (int, error) {
	var entries []models.JournalEntry
	err := svc.DB.NewSelect().
		Model(&entries).
		Relation("Journal").
		Relation("Lines", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Relation("Lines.Account").
		Where("journal_entry.company_id = ?", companyID).
		Where("journal_entry.status IN (?)", bun.In([]string{common.EntryStatusPosted, common.EntryStatusReconciled})).
		Where("journal_entry.entry_date >= ?", start).
		Where("journal_entry.entry_date <= ?", end).
		Order("journal_entry.entry_date ASC", "journal_entry.id ASC").
		Scan(ctx)
	if err != nil {
		return 0, err
	}

	var rows []fec.Row
	for _, entry := range entries {
		for _, line := range entry.Lines {
			row := fec.Row{
				EntryNumber: entry.EntryNumber,
				Date:        entry.EntryDate,
				Reference:   entry.ReferenceNumber,
				Description: entry.Description,
				Debit:       line.DebitAmount,
				Credit:      line.CreditAmount,
				Currency:    line.Currency,
			}
			if entry.Journal != nil {
				row.JournalCode = entry.Journal.Code
				row.JournalName = entry.Journal.Name
			}
			if line.Account != nil {
				row.AccountNumber = line.Account.AccountNumber
				row.AccountName = line.Account.Name
			}
			if row.Description == "" {
				row.Description = line.Description
			}
			if row.Currency == "" {
				row.Currency = common.DefaultCurrency
			}
			rows = append(rows, row)
		}
	}
	return len(rows), fec.Write(w, rows)
}
