package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/lib/validation"
)

// LineParams is one proposed line, addressed by account number.
type LineParams struct {
	AccountNumber string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Description   string
}

// EntryParams is the input of a draft entry create or update.
type EntryParams struct {
	JournalCode     string
	EntryDate       time.Time
	DueDate         time.Time
	Description     string
	ReferenceNumber string
	Lines           []LineParams
}

// EntryFilter narrows ListEntries.
type EntryFilter struct {
	JournalCode string
	Status      string
	From        time.Time
	To          time.Time
}

func (svc *LedgerService) GetEntry(ctx context.Context, companyID, entryID int64) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{}
	err := svc.DB.NewSelect().
		Model(entry).
		Relation("Journal").
		Relation("Lines", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Relation("Lines.Account").
		Where("journal_entry.company_id = ? AND journal_entry.id = ?", companyID, entryID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (svc *LedgerService) ListEntries(ctx context.Context, companyID int64, filter EntryFilter) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	q := svc.DB.NewSelect().
		Model(&entries).
		Relation("Journal").
		Where("journal_entry.company_id = ?", companyID).
		Order("journal_entry.entry_date DESC", "journal_entry.id DESC")
	if filter.JournalCode != "" {
		q = q.Where("journal.code = ?", filter.JournalCode)
	}
	if filter.Status != "" {
		q = q.Where("journal_entry.status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("journal_entry.entry_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("journal_entry.entry_date <= ?", filter.To)
	}
	err := q.Scan(ctx)
	return entries, err
}

// CreateEntry stores a draft. Drafts may still be unbalanced; the full rule
// set only gates posting. Account numbers must resolve though, because
// lines reference account rows.
func (svc *LedgerService) CreateEntry(ctx context.Context, companyID int64, params EntryParams) (*models.JournalEntry, error) {
	journal, err := svc.FindJournal(ctx, companyID, params.JournalCode)
	if err != nil {
		return nil, err
	}
	lines, err := svc.resolveLines(ctx, companyID, params.Lines)
	if err != nil {
		return nil, err
	}

	entry := &models.JournalEntry{
		CompanyID:       companyID,
		JournalID:       journal.ID,
		EntryDate:       params.EntryDate,
		DueDate:         params.DueDate,
		Description:     params.Description,
		ReferenceNumber: params.ReferenceNumber,
		Status:          common.EntryStatusDraft,
	}

	err = svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}
		for i := range lines {
			lines[i].JournalEntryID = entry.ID
		}
		_, err := tx.NewInsert().Model(&lines).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return svc.GetEntry(ctx, companyID, entry.ID)
}

// UpdateEntry replaces a draft wholesale. Posted entries are append-only;
// corrections to those go through ReverseEntry.
func (svc *LedgerService) UpdateEntry(ctx context.Context, companyID, entryID int64, params EntryParams) (*models.JournalEntry, error) {
	entry, err := svc.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != common.EntryStatusDraft {
		return nil, ErrEntryNotDraft
	}
	journal, err := svc.FindJournal(ctx, companyID, params.JournalCode)
	if err != nil {
		return nil, err
	}
	lines, err := svc.resolveLines(ctx, companyID, params.Lines)
	if err != nil {
		return nil, err
	}

	err = svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		entry.JournalID = journal.ID
		entry.EntryDate = params.EntryDate
		entry.DueDate = params.DueDate
		entry.Description = params.Description
		entry.ReferenceNumber = params.ReferenceNumber
		entry.UpdatedAt = time.Now()
		_, err := tx.NewUpdate().
			Model(entry).
			Column("journal_id", "entry_date", "due_date", "description", "reference_number", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		_, err = tx.NewDelete().
			Model((*models.JournalEntryLine)(nil)).
			Where("journal_entry_id = ?", entry.ID).
			Exec(ctx)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].JournalEntryID = entry.ID
		}
		_, err = tx.NewInsert().Model(&lines).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return svc.GetEntry(ctx, companyID, entry.ID)
}

// CancelEntry voids a draft. Posted entries cannot be cancelled in place.
func (svc *LedgerService) CancelEntry(ctx context.Context, companyID, entryID int64) (*models.JournalEntry, error) {
	entry, err := svc.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != common.EntryStatusDraft {
		return nil, ErrEntryNotDraft
	}
	entry.Status = common.EntryStatusCancelled
	entry.UpdatedAt = time.Now()
	res, err := svc.DB.NewUpdate().
		Model(entry).
		Column("status", "updated_at").
		WherePK().
		Where("status = ?", common.EntryStatusDraft).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	// a concurrent post can win between the read and this update
	if n == 0 {
		return nil, ErrEntryNotDraft
	}
	return entry, nil
}

// ValidateDraft runs the posting rule set without posting, so clients can
// surface problems while the user is still editing.
func (svc *LedgerService) ValidateDraft(ctx context.Context, companyID, entryID int64) (*validation.Result, error) {
	entry, err := svc.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	return svc.validateEntryModel(ctx, entry)
}

// PostEntry validates a draft, allocates its entry number and flips it to
// posted, all in one transaction. Concurrent posts on the same journal
// retry on serialization failures.
func (svc *LedgerService) PostEntry(ctx context.Context, companyID, entryID int64) (*models.JournalEntry, error) {
	entry, err := svc.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != common.EntryStatusDraft {
		return nil, ErrEntryNotDraft
	}
	result, err := svc.validateEntryModel(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !result.OK {
		return nil, &ValidationError{Result: result}
	}

	fiscalYear := entry.EntryDate.Year()
	err = svc.withTxRetry(ctx, func() error {
		return svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			number, err := NextEntryNumber(ctx, tx, companyID, entry.JournalID, entry.Journal.Code, fiscalYear)
			if err != nil {
				return err
			}
			res, err := tx.NewUpdate().
				Model((*models.JournalEntry)(nil)).
				Set("status = ?", common.EntryStatusPosted).
				Set("entry_number = ?", number).
				Set("updated_at = ?", time.Now()).
				Where("id = ? AND status = ?", entry.ID, common.EntryStatusDraft).
				Exec(ctx)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrEntryNotDraft
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return svc.GetEntry(ctx, companyID, entry.ID)
}

// ReverseEntry creates and posts the mirror image of a posted entry: same
// journal and lines with debit and credit swapped. The original stays in
// the ledger untouched; the pair nets to zero.
func (svc *LedgerService) ReverseEntry(ctx context.Context, companyID, entryID int64, reversalDate time.Time) (*models.JournalEntry, error) {
	original, err := svc.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != common.EntryStatusPosted && original.Status != common.EntryStatusReconciled {
		return nil, ErrEntryNotPosted
	}
	if reversalDate.IsZero() {
		reversalDate = original.EntryDate
	}
	open, err := svc.IsDateInOpenPeriod(ctx, companyID, reversalDate)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrPeriodClosed
	}

	reversal := &models.JournalEntry{
		CompanyID:       companyID,
		JournalID:       original.JournalID,
		EntryDate:       reversalDate,
		Description:     fmt.Sprintf("Extourne de %s", original.EntryNumber),
		ReferenceNumber: original.ReferenceNumber,
		Status:          common.EntryStatusPosted,
		ReversesEntryID: original.ID,
	}
	lines := make([]models.JournalEntryLine, len(original.Lines))
	for i, line := range original.Lines {
		lines[i] = models.JournalEntryLine{
			AccountID:    line.AccountID,
			DebitAmount:  line.CreditAmount,
			CreditAmount: line.DebitAmount,
			Description:  line.Description,
			Currency:     line.Currency,
			Position:     line.Position,
		}
	}

	fiscalYear := reversalDate.Year()
	err = svc.withTxRetry(ctx, func() error {
		return svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			number, err := NextEntryNumber(ctx, tx, companyID, original.JournalID, original.Journal.Code, fiscalYear)
			if err != nil {
				return err
			}
			reversal.ID = 0
			reversal.EntryNumber = number
			if _, err := tx.NewInsert().Model(reversal).Exec(ctx); err != nil {
				return err
			}
			for i := range lines {
				lines[i].ID = 0
				lines[i].JournalEntryID = reversal.ID
			}
			_, err = tx.NewInsert().Model(&lines).Exec(ctx)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return svc.GetEntry(ctx, companyID, reversal.ID)
}

func (svc *LedgerService) resolveLines(ctx context.Context, companyID int64, params []LineParams) ([]models.JournalEntryLine, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("entry has no lines")
	}
	lines := make([]models.JournalEntryLine, len(params))
	for i, p := range params {
		account, err := svc.FindAccount(ctx, companyID, p.AccountNumber)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return nil, fmt.Errorf("line %d: account %q: %w", i+1, p.AccountNumber, err)
			}
			return nil, err
		}
		lines[i] = models.JournalEntryLine{
			AccountID:    account.ID,
			DebitAmount:  p.Debit,
			CreditAmount: p.Credit,
			Description:  p.Description,
			Currency:     svc.Config.DefaultCurrency,
			Position:     i,
		}
	}
	return lines, nil
}

func (svc *LedgerService) validateEntryModel(ctx context.Context, entry *models.JournalEntry) (*validation.Result, error) {
	snapshot, err := svc.AccountSnapshot(ctx, entry.CompanyID)
	if err != nil {
		return nil, err
	}
	periodOpen, err := svc.IsDateInOpenPeriod(ctx, entry.CompanyID, entry.EntryDate)
	if err != nil {
		return nil, err
	}

	draft := &validation.DraftEntry{
		CompanyID:   entry.CompanyID,
		Date:        entry.EntryDate,
		Reference:   entry.ReferenceNumber,
		Description: entry.Description,
	}
	if entry.Journal != nil {
		draft.JournalCode = entry.Journal.Code
		draft.JournalType = entry.Journal.Type
	}
	for _, line := range entry.Lines {
		dl := validation.DraftLine{
			Debit:       line.DebitAmount,
			Credit:      line.CreditAmount,
			Description: line.Description,
		}
		if line.Account != nil {
			dl.AccountNumber = line.Account.AccountNumber
		}
		draft.Lines = append(draft.Lines, dl)
	}
	return validation.ValidateEntry(draft, snapshot, periodOpen)
}
