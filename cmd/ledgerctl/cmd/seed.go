package cmd

import (
	"fmt"
	"os"

	"github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/chart"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	seedFile  string
	seedActor string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the chart of accounts and post opening balances",
	Long: `Reads a chart of accounts from YAML, creates every account that does not exist yet
and posts the opening balances section once. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		c, err := chart.Load(f)
		if err != nil {
			return err
		}

		return withServices(cmd.Context(), func(_ *config.Config, svc *services.ServiceContainer) error {
			res, err := chart.Seed(cmd.Context(), c, svc.Account, svc.Documents, seedActor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "accounts created: %d, already present: %d\n", res.Created, res.Skipped)
			if res.OpeningJournal != "" {
				fmt.Fprintf(out, "opening balances posted as %s\n", res.OpeningJournal)
			}
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "configs/chart_of_accounts.yaml", "chart of accounts YAML")
	seedCmd.Flags().StringVar(&seedActor, "actor", "ledgerctl", "user id recorded on created records")
}
