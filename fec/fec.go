// Package fec parses delimited ledger-export files (FEC and close cousins)
// into structured rows. It is purely in-memory: nothing here touches the
// database, so the import pipeline can run parse and validation before any
// commit decision is made.
package fec

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one parsed line of a ledger file. Rows are transient: they only
// live for the duration of an import run.
type Row struct {
	Line          int // 1-based line number in the source file
	JournalCode   string
	JournalName   string
	EntryNumber   string
	Date          time.Time
	AccountNumber string
	AccountName   string
	Reference     string
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Currency      string
}

// ParseError is a per-row input problem. The parser collects these and
// keeps going; only a file that is unusable as a whole aborts the parse.
type ParseError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type Stats struct {
	TotalLines  int             `json:"total_lines"`
	ValidRows   int             `json:"valid_rows"`
	ErrorRows   int             `json:"error_rows"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"`
	Currencies  []string        `json:"currencies"`
	Journals    []string        `json:"journals"`
	DateStart   *time.Time      `json:"date_start,omitempty"`
	DateEnd     *time.Time      `json:"date_end,omitempty"`
}

type ParseResult struct {
	Rows     []Row        `json:"-"`
	Errors   []ParseError `json:"errors"`
	Warnings []string     `json:"warnings"`
	Stats    Stats        `json:"stats"`
}

// Candidate is a group of rows that should become one journal entry.
type Candidate struct {
	JournalCode string
	Date        time.Time
	Reference   string
	Rows        []Row
}

// Group buckets rows sharing (journalCode, date, reference) into entry
// candidates, preserving file order. Rows whose reference is empty fall back
// to the entry number; rows grouping alone become single-line candidates
// that entry validation will reject and report, not drop.
//
// Note: a reference reused for genuinely distinct transactions on the same
// day will merge them. This mirrors the historical grouping rule.
func Group(rows []Row) []Candidate {
	type key struct {
		journal string
		date    string
		ref     string
	}
	order := make([]key, 0, len(rows))
	byKey := make(map[key]*Candidate)
	for _, row := range rows {
		ref := row.Reference
		if ref == "" {
			ref = row.EntryNumber
		}
		k := key{journal: row.JournalCode, date: row.Date.Format("20060102"), ref: ref}
		cand, ok := byKey[k]
		if !ok {
			cand = &Candidate{JournalCode: row.JournalCode, Date: row.Date, Reference: ref}
			byKey[k] = cand
			order = append(order, k)
		}
		cand.Rows = append(cand.Rows, row)
	}
	out := make([]Candidate, len(order))
	for i, k := range order {
		out[i] = *byKey[k]
	}
	return out
}
