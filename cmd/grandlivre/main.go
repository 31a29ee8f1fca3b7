package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/grandlivre/grandlivre/db"
	"github.com/grandlivre/grandlivre/lib/logging"
	"github.com/grandlivre/grandlivre/lib/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grandlivre",
		Short: "Double-entry ledger and financial reporting engine",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newExportCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService wires a LedgerService from the environment, the same way the
// server does.
func newService() (*service.LedgerService, error) {
	c := &service.Config{}
	if err := godotenv.Load(".env"); err != nil {
		fmt.Println("Failed to load .env file")
	}
	if err := envconfig.Process("", c); err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	logger := logging.Logger(c.LogFilePath)
	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("initializing db connection: %w", err)
	}
	return &service.LedgerService{
		Config: c,
		DB:     dbConn,
		Logger: logger,
	}, nil
}
