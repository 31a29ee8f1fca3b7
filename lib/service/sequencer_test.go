package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/sync/errgroup"

	"github.com/grandlivre/grandlivre/db/models"
)

func TestFormatEntryNumber(t *testing.T) {
	assert.Equal(t, "VT-2024-000001", FormatEntryNumber("VT", 2024, 1))
	assert.Equal(t, "BQ-2024-000123", FormatEntryNumber("BQ", 2024, 123))
	assert.Equal(t, "OD-2025-999999", FormatEntryNumber("OD", 2025, 999999))
	// sequences past six digits keep growing instead of wrapping
	assert.Equal(t, "OD-2025-1000000", FormatEntryNumber("OD", 2025, 1000000))
}

func TestIsRetryableTxErrorPlainError(t *testing.T) {
	assert.False(t, isRetryableTxError(assert.AnError))
	assert.False(t, isRetryableTxError(nil))
}

// TestNextEntryNumberCounterUpsert pins the allocation statement: a single
// atomic upsert on the counter row that returns the advanced sequence. The
// fake driver replays what the counter row would answer.
func TestNextEntryNumberCounterUpsert(t *testing.T) {
	var queries []string
	seq := int64(0)
	db := newFakeDB(func(q string) (driver.Rows, error) {
		queries = append(queries, q)
		seq++
		return &fakeRows{
			columns: []string{"last_seq"},
			values:  [][]driver.Value{{seq}},
		}, nil
	}, nil)
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	first, err := NextEntryNumber(ctx, tx, 1, 2, "VT", 2024)
	require.NoError(t, err)
	second, err := NextEntryNumber(ctx, tx, 1, 2, "VT", 2024)
	require.NoError(t, err)

	assert.Equal(t, "VT-2024-000001", first)
	assert.Equal(t, "VT-2024-000002", second)

	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "ON CONFLICT (company_id, journal_id, fiscal_year) DO UPDATE")
	assert.Contains(t, queries[0], "last_seq = journal_counter.last_seq + 1")
	assert.Contains(t, queries[0], "RETURNING")
}

// TestNextEntryNumberConcurrentAllocation drives the real upsert with
// concurrent transactions. It needs a reachable Postgres and is skipped
// otherwise.
func TestNextEntryNumberConcurrentAllocation(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URI not set")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	ctx := context.Background()
	_, err := db.NewCreateTable().
		Model((*models.JournalCounter)(nil)).
		IfNotExists().
		Exec(ctx)
	require.NoError(t, err)

	// fresh journal id per run so the sequence starts at one
	journalID := time.Now().UnixNano()
	const workers = 16

	numbers := make(chan string, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				number, err := NextEntryNumber(ctx, tx, 1, journalID, "VT", 2024)
				if err != nil {
					return err
				}
				numbers <- number
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())
	close(numbers)

	seen := map[string]bool{}
	for number := range numbers {
		require.False(t, seen[number], "entry number %s allocated twice", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
	assert.Contains(t, seen, FormatEntryNumber("VT", 2024, 1))
	assert.Contains(t, seen, FormatEntryNumber("VT", 2024, workers))
}
