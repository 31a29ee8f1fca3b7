package service

import (
	"context"
	"database/sql/driver"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"

	"github.com/grandlivre/grandlivre/common"
)

func TestGenerateReportRecordsRun(t *testing.T) {
	var inserts []string
	record := func(q string) {
		if strings.Contains(q, "generated_reports") {
			inserts = append(inserts, q)
		}
	}
	db := newFakeDB(func(q string) (driver.Rows, error) {
		record(q)
		if strings.Contains(q, "generated_reports") {
			return &fakeRows{columns: []string{"id"}, values: [][]driver.Value{{int64(1)}}}, nil
		}
		return &fakeRows{}, nil
	}, func(q string) (driver.Result, error) {
		record(q)
		return driver.RowsAffected(1), nil
	})
	defer db.Close()
	svc := &LedgerService{Config: &Config{}, DB: db, Logger: lecho.New(io.Discard)}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	result, err := svc.GenerateReport(context.Background(), 1, ReportRequest{
		Type:        common.ReportTypeTrialBalance,
		Start:       start,
		End:         end,
		RequestedBy: "cli",
	})
	require.NoError(t, err)
	require.NotNil(t, result.TrialBalance)
	assert.True(t, result.TrialBalance.Empty)

	require.Len(t, inserts, 1)
	assert.Contains(t, inserts[0], "'trial_balance'")
	assert.Contains(t, inserts[0], "'cli'")
	assert.Contains(t, inserts[0], "'ready'")
}
