package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/fec"
	"github.com/grandlivre/grandlivre/lib/validation"
	"github.com/grandlivre/grandlivre/pcg"
)

type ImportOptions struct {
	// DryRun validates and summarizes without writing anything.
	DryRun bool
	// AllOrNothing rejects the whole file when any candidate entry fails
	// validation. Default is to import the valid entries and report the
	// rest.
	AllOrNothing bool
	// AutoCreate creates missing accounts and journals from the file's own
	// metadata instead of rejecting their rows.
	AutoCreate bool
}

// ImportEntryError ties validation issues back to one candidate entry of
// the file.
type ImportEntryError struct {
	JournalCode string             `json:"journal_code"`
	Date        string             `json:"date"`
	Reference   string             `json:"reference"`
	Issues      []validation.Issue `json:"issues"`
}

type ImportSummary struct {
	BatchID           string             `json:"batch_id"`
	TotalLines        int                `json:"total_lines"`
	NumEntries        int                `json:"num_entries"`
	NumAccounts       int                `json:"num_accounts"`
	NumJournals       int                `json:"num_journals"`
	NumImported       int                `json:"num_imported"`
	NumRejected       int                `json:"num_rejected"`
	AccountsCreated   int                `json:"accounts_created"`
	JournalsCreated   int                `json:"journals_created"`
	TotalDebit        decimal.Decimal    `json:"total_debit"`
	TotalCredit       decimal.Decimal    `json:"total_credit"`
	Balance           decimal.Decimal    `json:"balance"`
	Currencies        []string           `json:"currencies,omitempty"`
	DateStart         *time.Time         `json:"date_start,omitempty"`
	DateEnd           *time.Time         `json:"date_end,omitempty"`
	ParseErrors       []fec.ParseError   `json:"parse_errors,omitempty"`
	EntryErrors       []ImportEntryError `json:"entry_errors,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
	DryRun            bool               `json:"dry_run"`
	Aborted           bool               `json:"aborted,omitempty"`
	ImportedNumbers   []string           `json:"imported_numbers,omitempty"`
	UnbalancedEntries int                `json:"unbalanced_entries"`
}

// newImportSummary seeds the summary with everything the parse alone can
// tell: file statistics, the distinct accounts and journals seen, and the
// row-level problems collected on the way.
func newImportSummary(parsed *fec.ParseResult, dryRun bool) *ImportSummary {
	accounts := map[string]bool{}
	for _, row := range parsed.Rows {
		accounts[row.AccountNumber] = true
	}
	return &ImportSummary{
		BatchID:     uuid.NewString(),
		TotalLines:  parsed.Stats.TotalLines,
		NumAccounts: len(accounts),
		NumJournals: len(parsed.Stats.Journals),
		TotalDebit:  parsed.Stats.TotalDebit,
		TotalCredit: parsed.Stats.TotalCredit,
		Balance:     parsed.Stats.Balance,
		Currencies:  parsed.Stats.Currencies,
		DateStart:   parsed.Stats.DateStart,
		DateEnd:     parsed.Stats.DateEnd,
		ParseErrors: parsed.Errors,
		Warnings:    parsed.Warnings,
		DryRun:      dryRun,
	}
}

// ImportFEC reads a ledger export, groups its rows into candidate entries,
// validates each candidate and posts the ones that pass. Rows the parser
// rejected and candidates validation rejected are reported in the summary;
// a Go error is only returned when the file as a whole is unusable or the
// database fails.
func (svc *LedgerService) ImportFEC(ctx context.Context, companyID int64, r io.Reader, opts ImportOptions) (*ImportSummary, error) {
	parsed, err := fec.Parse(r, fec.Options{DefaultCurrency: svc.Config.DefaultCurrency})
	if err != nil {
		return nil, err
	}

	summary := newImportSummary(parsed, opts.DryRun)

	candidates := fec.Group(parsed.Rows)
	summary.NumEntries = len(candidates)

	snapshot, err := svc.AccountSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if opts.AutoCreate {
		created, err := svc.autoCreateAccounts(ctx, companyID, parsed.Rows, snapshot, opts.DryRun)
		if err != nil {
			return nil, err
		}
		summary.AccountsCreated = created
	}

	journalTypeByCode := map[string]string{}
	type plannedEntry struct {
		candidate fec.Candidate
		params    EntryParams
	}
	var planned []plannedEntry

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			summary.Aborted = true
			return summary, ctx.Err()
		default:
		}

		journalType, known := journalTypeByCode[candidate.JournalCode]
		if !known {
			journal, findErr := svc.FindJournal(ctx, companyID, candidate.JournalCode)
			// only a missing journal is a per-entry rejection; any other
			// failure is a database problem and aborts the import
			if findErr != nil && !errors.Is(findErr, ErrJournalNotFound) {
				return nil, findErr
			}
			switch {
			case findErr == nil:
				journalType = journal.Type
			case opts.AutoCreate && !opts.DryRun:
				journal, wasCreated, createErr := svc.FindOrCreateJournal(ctx, companyID, candidate.JournalCode)
				if createErr != nil {
					return nil, createErr
				}
				if wasCreated {
					summary.JournalsCreated++
				}
				journalType = journal.Type
			case opts.AutoCreate:
				// dry run counts the would-be creation
				summary.JournalsCreated++
				journalType = common.JournalTypeMiscellaneous
			default:
				summary.NumRejected++
				summary.EntryErrors = append(summary.EntryErrors, ImportEntryError{
					JournalCode: candidate.JournalCode,
					Date:        candidate.Date.Format("2006-01-02"),
					Reference:   candidate.Reference,
					Issues: []validation.Issue{{
						Field:   "journal",
						Code:    "UNKNOWN_JOURNAL",
						Message: fmt.Sprintf("journal %q does not exist", candidate.JournalCode),
					}},
				})
				journalTypeByCode[candidate.JournalCode] = ""
				continue
			}
			journalTypeByCode[candidate.JournalCode] = journalType
		} else if journalType == "" && !opts.AutoCreate {
			summary.NumRejected++
			summary.EntryErrors = append(summary.EntryErrors, ImportEntryError{
				JournalCode: candidate.JournalCode,
				Date:        candidate.Date.Format("2006-01-02"),
				Reference:   candidate.Reference,
				Issues: []validation.Issue{{
					Field:   "journal",
					Code:    "UNKNOWN_JOURNAL",
					Message: fmt.Sprintf("journal %q does not exist", candidate.JournalCode),
				}},
			})
			continue
		}

		draft, params := draftFromCandidate(companyID, candidate, journalType)
		periodOpen, err := svc.IsDateInOpenPeriod(ctx, companyID, candidate.Date)
		if err != nil {
			return nil, err
		}
		result, err := validation.ValidateEntry(draft, snapshot, periodOpen)
		if err != nil {
			return nil, err
		}
		if !result.OK {
			summary.NumRejected++
			if hasUnbalanced(result) {
				summary.UnbalancedEntries++
			}
			summary.EntryErrors = append(summary.EntryErrors, ImportEntryError{
				JournalCode: candidate.JournalCode,
				Date:        candidate.Date.Format("2006-01-02"),
				Reference:   candidate.Reference,
				Issues:      result.Errors,
			})
			continue
		}
		planned = append(planned, plannedEntry{candidate: candidate, params: params})
	}

	if opts.AllOrNothing && (summary.NumRejected > 0 || len(summary.ParseErrors) > 0) {
		summary.Aborted = true
		return summary, nil
	}
	if opts.DryRun {
		summary.NumImported = len(planned)
		return summary, nil
	}

	for _, plan := range planned {
		select {
		case <-ctx.Done():
			summary.Aborted = true
			return summary, ctx.Err()
		default:
		}
		entry, err := svc.CreateEntry(ctx, companyID, plan.params)
		if err != nil {
			return summary, fmt.Errorf("import entry %s/%s: %w", plan.candidate.JournalCode, plan.candidate.Reference, err)
		}
		posted, err := svc.PostEntry(ctx, companyID, entry.ID)
		if err != nil {
			return summary, fmt.Errorf("post imported entry %s/%s: %w", plan.candidate.JournalCode, plan.candidate.Reference, err)
		}
		summary.NumImported++
		summary.ImportedNumbers = append(summary.ImportedNumbers, posted.EntryNumber)
	}
	svc.Logger.Infof("import batch %s: %d entries posted, %d rejected", summary.BatchID, summary.NumImported, summary.NumRejected)
	return summary, nil
}

// autoCreateAccounts creates every unknown account number found in the file,
// named from the file's own account labels, and patches the snapshot so
// validation sees them. Numbers that do not classify are left for
// validation to reject.
func (svc *LedgerService) autoCreateAccounts(ctx context.Context, companyID int64, rows []fec.Row, snapshot *validation.AccountSnapshot, dryRun bool) (int, error) {
	created := 0
	for _, row := range rows {
		if row.AccountNumber == "" {
			continue
		}
		if _, known := snapshot.Accounts[row.AccountNumber]; known {
			continue
		}
		if pcg.Classify(row.AccountNumber) == pcg.Unclassified {
			continue
		}
		name := row.AccountName
		if name == "" {
			name = row.AccountNumber
		}
		if !dryRun {
			if _, err := svc.CreateAccount(ctx, companyID, row.AccountNumber, name); err != nil {
				return created, err
			}
		}
		snapshot.Accounts[row.AccountNumber] = validation.SnapshotAccount{
			CompanyID:     companyID,
			AccountNumber: row.AccountNumber,
			IsActive:      true,
		}
		created++
	}
	return created, nil
}

func draftFromCandidate(companyID int64, candidate fec.Candidate, journalType string) (*validation.DraftEntry, EntryParams) {
	draft := &validation.DraftEntry{
		CompanyID:   companyID,
		JournalCode: candidate.JournalCode,
		JournalType: journalType,
		Date:        candidate.Date,
		Reference:   candidate.Reference,
	}
	params := EntryParams{
		JournalCode:     candidate.JournalCode,
		EntryDate:       candidate.Date,
		ReferenceNumber: candidate.Reference,
	}
	for _, row := range candidate.Rows {
		if draft.Description == "" {
			draft.Description = row.Description
		}
		draft.Lines = append(draft.Lines, validation.DraftLine{
			AccountNumber: row.AccountNumber,
			Debit:         row.Debit,
			Credit:        row.Credit,
			Description:   row.Description,
		})
		params.Lines = append(params.Lines, LineParams{
			AccountNumber: row.AccountNumber,
			Debit:         row.Debit,
			Credit:        row.Credit,
			Description:   row.Description,
		})
	}
	params.Description = draft.Description
	return draft, params
}

func hasUnbalanced(result *validation.Result) bool {
	for _, issue := range result.Errors {
		if issue.Code == validation.CodeUnbalanced {
			return true
		}
	}
	return false
}
