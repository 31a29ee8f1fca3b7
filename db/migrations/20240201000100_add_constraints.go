package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- one account number per company
				CREATE UNIQUE INDEX accounts_company_number_idx
				ON accounts (company_id, account_number);

			-- one journal code per company
				CREATE UNIQUE INDEX journals_company_code_idx
				ON journals (company_id, code);

			-- entry numbers are unique within (company, journal) once issued
				CREATE UNIQUE INDEX journal_entries_number_idx
				ON journal_entries (company_id, journal_id, entry_number)
				WHERE entry_number IS NOT NULL;

			-- a line is either a debit or a credit, never both, never negative
				ALTER TABLE journal_entry_lines
				ADD CONSTRAINT check_line_side
				CHECK (
					debit_amount >= 0 AND credit_amount >= 0
					AND NOT (debit_amount > 0 AND credit_amount > 0)
				);

			-- periods of one company never overlap
				ALTER TABLE accounting_periods
				ADD CONSTRAINT check_period_range
				CHECK (start_date <= end_date);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
