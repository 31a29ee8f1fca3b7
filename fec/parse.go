package fec

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Options tune a parse run.
type Options struct {
	// DefaultCurrency is used for rows without a currency column. Empty
	// means "EUR".
	DefaultCurrency string
}

// columnSynonyms maps a logical field to the header spellings accepted for
// it, FEC names first. Matching is done on lowercased alphanumerics only.
var columnSynonyms = map[string][]string{
	"journalCode": {"JournalCode", "CodeJournal", "Journal", "JrnlCode"},
	"journalName": {"JournalLib", "LibJournal", "JournalName", "LibelleJournal"},
	"entryNumber": {"EcritureNum", "NumEcriture", "EntryNumber", "DocNum", "Numero"},
	"entryDate":   {"EcritureDate", "DateEcriture", "TransactionDate", "DatePiece", "EntryDate", "Date"},
	"account":     {"CompteNum", "NumCompte", "AccountCode", "NominalCode", "NumeroCompte", "Compte", "Account"},
	"accountName": {"CompteLib", "LibCompte", "AccountName", "IntituleCompte", "NomCompte"},
	"reference":   {"PieceRef", "RefPiece", "Reference", "InvoiceNumber", "NumPiece", "Piece"},
	"description": {"EcritureLib", "LibEcriture", "Description", "Libelle", "Memo", "Narrative"},
	"debit":       {"Debit", "Débit", "MontantDebit", "DebitAmount", "Dr"},
	"credit":      {"Credit", "Crédit", "MontantCredit", "CreditAmount", "Cr"},
	"amount":      {"Amount", "Value"},
	"currency":    {"Idevise", "Devise", "Currency", "CurrencyCode"},
}

// DetectDelimiter picks the delimiter among comma, semicolon, tab and pipe
// by counting occurrences in the header line.
func DetectDelimiter(header string) rune {
	best, bestCount := ',', 0
	for _, d := range []rune{'|', ';', '\t', ','} {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// InputError means the file is unusable as a whole (no header, no data rows,
// required columns missing). Row-level problems never produce it.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func mapColumns(headers []string) map[string]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}
	cols := map[string]int{}
	for field, names := range columnSynonyms {
		for _, name := range names {
			want := normalizeHeader(name)
			for i, h := range normalized {
				if h == want {
					cols[field] = i
					break
				}
			}
			if _, ok := cols[field]; ok {
				break
			}
		}
	}
	return cols
}

// Parse reads a delimited ledger file. Malformed rows are collected into the
// result with their line number and parsing continues; only an unusable file
// returns an *InputError.
func Parse(r io.Reader, opts Options) (*ParseResult, error) {
	currency := opts.DefaultCurrency
	if currency == "" {
		currency = "EUR"
	}

	br := bufio.NewReader(r)
	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.TrimSpace(headerLine) == "" {
		return nil, &InputError{Message: "file is empty or has no header row"}
	}
	delim := DetectDelimiter(headerLine)

	cr := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		return nil, &InputError{Message: fmt.Sprintf("unreadable header row: %v", err)}
	}
	cols := mapColumns(headers)

	if _, ok := cols["account"]; !ok {
		return nil, &InputError{Message: "no account number column found"}
	}
	if _, ok := cols["entryDate"]; !ok {
		return nil, &InputError{Message: "no entry date column found"}
	}
	_, hasDebit := cols["debit"]
	_, hasCredit := cols["credit"]
	_, hasAmount := cols["amount"]
	if !hasDebit && !hasCredit && !hasAmount {
		return nil, &InputError{Message: "no debit/credit or amount columns found"}
	}

	result := &ParseResult{
		Stats: Stats{
			TotalDebit:  decimal.Zero,
			TotalCredit: decimal.Zero,
			Balance:     decimal.Zero,
		},
	}
	result.Warnings = append(result.Warnings, fmt.Sprintf("detected delimiter %q", delim))

	currencies := map[string]bool{}
	journals := map[string]bool{}

	get := func(record []string, field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errLine := 0
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				errLine = csvErr.Line
			}
			result.Errors = append(result.Errors, ParseError{Line: errLine, Message: err.Error()})
			continue
		}
		// physical line of the record's first field, so numbers stay right
		// when a quoted field spans newlines
		line, _ := cr.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		result.Stats.TotalLines++

		rowErrs := len(result.Errors)

		accountNumber := get(record, "account")
		if accountNumber == "" {
			result.Errors = append(result.Errors, ParseError{Line: line, Field: "account", Message: "missing account number"})
		}

		date, derr := ParseDate(get(record, "entryDate"))
		if derr != nil {
			result.Errors = append(result.Errors, ParseError{Line: line, Field: "date", Message: derr.Error()})
		}

		var debit, credit decimal.Decimal
		if hasAmount && !hasDebit && !hasCredit {
			amount, aerr := ParseAmount(get(record, "amount"))
			if aerr != nil {
				result.Errors = append(result.Errors, ParseError{Line: line, Field: "amount", Message: aerr.Error()})
			} else if amount.Sign() >= 0 {
				debit = amount
			} else {
				credit = amount.Neg()
			}
		} else {
			var aerr error
			debit, aerr = ParseAmount(get(record, "debit"))
			if aerr != nil {
				result.Errors = append(result.Errors, ParseError{Line: line, Field: "debit", Message: aerr.Error()})
			}
			credit, aerr = ParseAmount(get(record, "credit"))
			if aerr != nil {
				result.Errors = append(result.Errors, ParseError{Line: line, Field: "credit", Message: aerr.Error()})
			}
		}
		if debit.IsZero() && credit.IsZero() {
			result.Errors = append(result.Errors, ParseError{Line: line, Field: "amount", Message: "neither debit nor credit populated"})
		}

		if len(result.Errors) > rowErrs {
			result.Stats.ErrorRows++
			continue
		}

		rowCurrency := get(record, "currency")
		if rowCurrency == "" {
			rowCurrency = currency
		}
		journalCode := get(record, "journalCode")
		if journalCode == "" {
			journalCode = "OD"
		}

		row := Row{
			Line:          line,
			JournalCode:   journalCode,
			JournalName:   get(record, "journalName"),
			EntryNumber:   get(record, "entryNumber"),
			Date:          date,
			AccountNumber: accountNumber,
			AccountName:   get(record, "accountName"),
			Reference:     get(record, "reference"),
			Description:   get(record, "description"),
			Debit:         debit,
			Credit:        credit,
			Currency:      rowCurrency,
		}
		result.Rows = append(result.Rows, row)
		result.Stats.ValidRows++
		result.Stats.TotalDebit = result.Stats.TotalDebit.Add(debit)
		result.Stats.TotalCredit = result.Stats.TotalCredit.Add(credit)
		currencies[rowCurrency] = true
		journals[journalCode] = true
		updateDateRange(&result.Stats, date)
	}

	if result.Stats.TotalLines == 0 {
		return nil, &InputError{Message: "file has a header but no data rows"}
	}

	result.Stats.Balance = result.Stats.TotalDebit.Sub(result.Stats.TotalCredit)
	if !result.Stats.Balance.IsZero() {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"file is not balanced: total debit %s, total credit %s, delta %s",
			result.Stats.TotalDebit, result.Stats.TotalCredit, result.Stats.Balance))
	}
	result.Stats.Currencies = sortedKeys(currencies)
	result.Stats.Journals = sortedKeys(journals)
	return result, nil
}

func updateDateRange(stats *Stats, date time.Time) {
	if stats.DateStart == nil || date.Before(*stats.DateStart) {
		d := date
		stats.DateStart = &d
	}
	if stats.DateEnd == nil || date.After(*stats.DateEnd) {
		d := date
		stats.DateEnd = &d
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
