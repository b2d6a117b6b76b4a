package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	asOf          string
	statementFrom string
	statementTo   string
)

var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Print the trial balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseDay(asOf, true)
		if err != nil {
			return err
		}
		if at.IsZero() {
			at = endOfDay(time.Now().UTC())
		}
		return withServices(cmd.Context(), func(_ *config.Config, svc *services.ServiceContainer) error {
			tb, err := svc.Reporting.TrialBalance(cmd.Context(), at)
			if err != nil && !errors.Is(err, apperrors.ErrLedgerInconsistent) {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "ACCOUNT\tNAME\tTYPE\tDEBIT\tCREDIT\t")
			for _, r := range tb.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", r.AccountID, r.AccountName, r.AccountType, r.Debit.ToDisplayString(), r.Credit.ToDisplayString())
			}
			fmt.Fprintf(w, "\t\tTOTAL\t%s\t%s\t\n", tb.TotalDebit.ToDisplayString(), tb.TotalCredit.ToDisplayString())
			if ferr := w.Flush(); ferr != nil {
				return ferr
			}
			return err
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Recompute every balance from the journal and compare it with the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(_ *config.Config, svc *services.ServiceContainer) error {
			v, err := svc.Reporting.VerifyLedger(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "accounts checked: %d\n", v.AccountsChecked)
			for _, d := range v.Discrepancies {
				fmt.Fprintf(out, "  %s (%s): cached %s, computed %s\n", d.AccountID, d.AccountType, d.CachedBalance, d.ComputedBalance)
			}
			if !v.Consistent() {
				return fmt.Errorf("%w: %d discrepancies, imbalance %s", apperrors.ErrLedgerInconsistent, len(v.Discrepancies), v.Imbalance)
			}
			fmt.Fprintln(out, "ledger is consistent")
			return nil
		})
	},
}

var statementCmd = &cobra.Command{
	Use:   "statement <accountID>",
	Short: "Print an account statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(statementFrom, false)
		if err != nil {
			return err
		}
		to, err := parseDay(statementTo, true)
		if err != nil {
			return err
		}
		return withServices(cmd.Context(), func(_ *config.Config, svc *services.ServiceContainer) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tJOURNAL\tDESCRIPTION\tDEBIT\tCREDIT\tBALANCE")
			lines := svc.Reporting.AccountStatement(cmd.Context(), args[0], domain.DateRange{From: from, To: to})
			for l, err := range lines {
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", l.JournalDate.Format(time.DateOnly), l.JournalID, l.JournalDescription,
					l.Debit.ToDisplayString(), l.Credit.ToDisplayString(), l.BalanceAfter.ToDisplayString())
			}
			return w.Flush()
		})
	},
}

func init() {
	trialBalanceCmd.Flags().StringVar(&asOf, "as-of", "", "include entries up to this date, YYYY-MM-DD (default today)")
	statementCmd.Flags().StringVar(&statementFrom, "from", "", "first date, YYYY-MM-DD")
	statementCmd.Flags().StringVar(&statementTo, "to", "", "last date, YYYY-MM-DD")
}

// parseDay parses a YYYY-MM-DD flag. Upper bounds extend to the end of the day.
func parseDay(s string, upper bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	if upper {
		return endOfDay(d), nil
	}
	return d, nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
}
