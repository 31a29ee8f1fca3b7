package service

import (
	"context"
	"database/sql/driver"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grandlivre/grandlivre/common"
)

// A post can land between CancelEntry's read and its guarded update. The
// update then matches nothing and the call must fail instead of reporting a
// cancelled entry that is actually posted.
func TestCancelEntryLosesRaceToPost(t *testing.T) {
	db := newFakeDB(func(q string) (driver.Rows, error) {
		if strings.Contains(q, "journal_entry_lines") {
			return &fakeRows{}, nil
		}
		// the read still sees the draft
		return &fakeRows{
			columns: []string{"id", "company_id", "status"},
			values:  [][]driver.Value{{int64(7), int64(1), common.EntryStatusDraft}},
		}, nil
	}, func(q string) (driver.Result, error) {
		// the guarded update finds the row already posted
		return driver.RowsAffected(0), nil
	})
	defer db.Close()
	svc := &LedgerService{Config: &Config{}, DB: db}

	entry, err := svc.CancelEntry(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrEntryNotDraft)
	assert.Nil(t, entry)
}
