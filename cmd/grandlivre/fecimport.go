package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grandlivre/grandlivre/lib/service"
)

func newImportCommand() *cobra.Command {
	var companyID int64
	var dryRun bool
	var allOrNothing bool
	var noAutoCreate bool

	cmd := &cobra.Command{
		Use:   "fec-import <file>",
		Short: "Import a ledger export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer file.Close()

			summary, err := svc.ImportFEC(cmd.Context(), companyID, file, service.ImportOptions{
				DryRun:       dryRun,
				AllOrNothing: allOrNothing,
				AutoCreate:   !noAutoCreate,
			})
			if summary != nil {
				out, _ := json.MarshalIndent(summary, "", "  ")
				fmt.Println(string(out))
			}
			return err
		},
	}

	cmd.Flags().Int64Var(&companyID, "company", 0, "company id (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and summarize without writing")
	cmd.Flags().BoolVar(&allOrNothing, "all-or-nothing", false, "reject the whole file on any invalid entry")
	cmd.Flags().BoolVar(&noAutoCreate, "no-auto-create", false, "do not create missing accounts and journals")

	return cmd
}
