package fec

import (
	"encoding/csv"
	"io"
	"strings"
)

// fecHeader is the statutory FEC column set. Columns we do not track are
// written empty so the file stays schema-complete.
var fecHeader = []string{
	"JournalCode", "JournalLib", "EcritureNum", "EcritureDate",
	"CompteNum", "CompteLib", "CompAuxNum", "CompAuxLib",
	"PieceRef", "PieceDate", "EcritureLib",
	"Debit", "Credit",
	"EcritureLet", "DateLet", "ValidDate", "Montantdevise", "Idevise",
}

// Write renders rows as a tab-delimited FEC file. Amounts use the decimal
// comma and dates the YYYYMMDD form required by the format.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(fecHeader); err != nil {
		return err
	}
	for _, row := range rows {
		date := row.Date.Format("20060102")
		record := []string{
			row.JournalCode,
			row.JournalName,
			row.EntryNumber,
			date,
			row.AccountNumber,
			row.AccountName,
			"", // CompAuxNum
			"", // CompAuxLib
			row.Reference,
			date,
			row.Description,
			fecAmount(row.Debit.StringFixed(2)),
			fecAmount(row.Credit.StringFixed(2)),
			"", // EcritureLet
			"", // DateLet
			date,
			"", // Montantdevise
			row.Currency,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fecAmount(s string) string {
	return strings.Replace(s, ".", ",", 1)
}
