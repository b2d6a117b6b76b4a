// Package cmd provides the ledgerctl administration commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/services"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/storage"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Administer the ledger posting engine",
	Long: `ledgerctl runs maintenance and reporting tasks against the ledger store
configured for the API server (PGSQL_URL or BOLT_PATH, see .env).

Example:
  ledgerctl migrate up
  ledgerctl seed --file configs/chart_of_accounts.yaml
  ledgerctl trial-balance --as-of 2025-12-31
  ledgerctl verify`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	},
}

// Execute runs the root command. Errors are already printed by cobra.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statementCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		if err := os.Setenv("CONFIG_FILE", cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// withServices opens the configured store without migrating it and hands the services to fn.
func withServices(ctx context.Context, fn func(cfg *config.Config, svc *portssvc.ServiceContainer) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, err := storage.Open(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			slog.Error("Error closing ledger storage", slog.String("error", cerr.Error()))
		}
	}()
	return fn(cfg, services.NewServiceContainer(backend.Repos, cfg.PostingAccounts))
}
