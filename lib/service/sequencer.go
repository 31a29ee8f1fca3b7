package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/grandlivre/grandlivre/db/models"
)

// NextEntryNumber allocates the next number of a journal's yearly sequence.
// The counter row is upserted with an atomic increment, so two transactions
// racing on the same journal serialize on the row lock and the sequence
// stays gapless as long as the enclosing transaction commits. It must be
// called inside the transaction that also flips the entry to posted: if
// that transaction rolls back, the increment rolls back with it.
func NextEntryNumber(ctx context.Context, tx bun.Tx, companyID, journalID int64, journalCode string, fiscalYear int) (string, error) {
	counter := &models.JournalCounter{
		CompanyID:  companyID,
		JournalID:  journalID,
		FiscalYear: fiscalYear,
		LastSeq:    1,
	}
	err := tx.NewInsert().
		Model(counter).
		On("CONFLICT (company_id, journal_id, fiscal_year) DO UPDATE").
		Set("last_seq = journal_counter.last_seq + 1").
		Returning("last_seq").
		Scan(ctx)
	if err != nil {
		return "", err
	}
	return FormatEntryNumber(journalCode, fiscalYear, counter.LastSeq), nil
}

// FormatEntryNumber renders CODE-YYYY-NNNNNN.
func FormatEntryNumber(journalCode string, fiscalYear int, seq int64) string {
	return fmt.Sprintf("%s-%04d-%06d", journalCode, fiscalYear, seq)
}

// isRetryableTxError matches serialization failures and deadlocks, the two
// outcomes of concurrent posting that a fresh transaction can resolve.
func isRetryableTxError(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		code := pgErr.Field('C')
		return code == "40001" || code == "40P01"
	}
	return false
}

// withTxRetry runs op, retrying with exponential backoff when it fails with
// a retryable transaction error.
func (svc *LedgerService) withTxRetry(ctx context.Context, op func() error) error {
	retryable := func() error {
		err := op()
		if err != nil && !isRetryableTxError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxElapsedTime = 10 * time.Second
	return backoff.Retry(retryable, backoff.WithContext(backoff.WithMaxRetries(policy, svc.Config.MaxPostRetries), ctx))
}
