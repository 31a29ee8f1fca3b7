package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/lib/service"
)

var cliReportTypes = map[string]string{
	"trial-balance":    common.ReportTypeTrialBalance,
	"balance-sheet":    common.ReportTypeBalanceSheet,
	"income-statement": common.ReportTypeIncomeStatement,
	"aged-receivables": common.ReportTypeAgedReceivables,
	"aged-payables":    common.ReportTypeAgedPayables,
	"vat":              common.ReportTypeVAT,
}

func newReportCommand() *cobra.Command {
	var companyID int64
	var from, to, asOf string

	cmd := &cobra.Command{
		Use:   "report <type>",
		Short: "Generate a financial report",
		Long:  "Generates one of: trial-balance, balance-sheet, income-statement, aged-receivables, aged-payables, vat.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportType, ok := cliReportTypes[args[0]]
			if !ok {
				return fmt.Errorf("unknown report type %q", args[0])
			}
			start, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fmt.Errorf("parsing --from: %w", err)
			}
			end, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fmt.Errorf("parsing --to: %w", err)
			}
			var ageDate time.Time
			if asOf != "" {
				ageDate, err = time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("parsing --as-of: %w", err)
				}
			}

			svc, err := newService()
			if err != nil {
				return err
			}
			result, err := svc.GenerateReport(cmd.Context(), companyID, service.ReportRequest{
				Type:        reportType,
				Start:       start,
				End:         end,
				AsOf:        ageDate,
				RequestedBy: "cli",
			})
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().Int64Var(&companyID, "company", 0, "company id (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&from, "from", "", "period start YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&to, "to", "", "period end YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&asOf, "as-of", "", "aging reference date, default period end")

	return cmd
}

func newExportCommand() *cobra.Command {
	var companyID int64
	var from, to, outPath string

	cmd := &cobra.Command{
		Use:   "fec-export",
		Short: "Export the period as a statutory ledger file",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fmt.Errorf("parsing --from: %w", err)
			}
			end, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fmt.Errorf("parsing --to: %w", err)
			}

			svc, err := newService()
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				out, err = os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer out.Close()
			}

			n, err := svc.ExportFEC(cmd.Context(), companyID, start, end, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %d lines\n", n)
			return nil
		},
	}

	cmd.Flags().Int64Var(&companyID, "company", 0, "company id (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&from, "from", "", "period start YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&to, "to", "", "period end YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&outPath, "out", "", "output file, default stdout")

	return cmd
}
