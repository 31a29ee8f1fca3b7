package service

import (
	"errors"
	"fmt"

	"github.com/grandlivre/grandlivre/lib/validation"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrJournalNotFound        = errors.New("journal not found")
	ErrEntryNotFound          = errors.New("entry not found")
	ErrPeriodNotFound         = errors.New("accounting period not found")
	ErrDuplicateAccountNumber = errors.New("account number already exists for this company")
	ErrDuplicateJournalCode   = errors.New("journal code already exists for this company")
	ErrPeriodOverlap          = errors.New("period overlaps an existing accounting period")
	ErrPeriodClosed           = errors.New("accounting period is closed")
	ErrPeriodNotClosed        = errors.New("accounting period is already open")
	ErrEntryNotDraft          = errors.New("entry is not a draft")
	ErrEntryNotPosted         = errors.New("entry is not posted")
)

// ValidationError carries the full issue list of a rejected entry so the
// caller can show every problem at once.
type ValidationError struct {
	Result *validation.Result
}

func (e *ValidationError) Error() string {
	if len(e.Result.Errors) == 1 {
		return fmt.Sprintf("entry validation failed: %s", e.Result.Errors[0].Message)
	}
	return fmt.Sprintf("entry validation failed with %d errors", len(e.Result.Errors))
}
