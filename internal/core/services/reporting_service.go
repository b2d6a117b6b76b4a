package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/accounting"
)

const defaultStatementPageSize = 200

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	pageSize      int
	now           func() time.Time
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithStatementPageSize sets how many lines AccountStatement fetches per round trip.
func WithStatementPageSize(n int) ReportingServiceOption {
	return func(s *reportingService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		pageSize:      defaultStatementPageSize,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance returns the report even when it does not balance, together with
// ErrLedgerInconsistent, so callers can show what disagrees.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  domain.ZeroMoney(),
		TotalCredit: domain.ZeroMoney(),
	}
	if tb.Rows == nil {
		tb.Rows = []domain.TrialBalanceRow{}
	}
	for _, row := range rows {
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}

	if !tb.Balanced() {
		err := fmt.Errorf("%w: trial balance as of %s has debits %s and credits %s",
			apperrors.ErrLedgerInconsistent, asOf.Format(time.DateOnly), tb.TotalDebit, tb.TotalCredit)
		s.LogError(ctx, err, "Trial balance does not balance")
		return tb, err
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(rows)))
	return tb, nil
}

func (s *reportingService) AccountStatement(ctx context.Context, accountID string, dateRange domain.DateRange) iter.Seq2[domain.StatementLine, error] {
	return func(yield func(domain.StatementLine, error) bool) {
		if err := validateRange(dateRange); err != nil {
			yield(domain.StatementLine{}, err)
			return
		}
		var token *string
		for {
			lines, next, err := s.reportingRepo.ListStatementLines(ctx, accountID, dateRange, s.pageSize, token)
			if err != nil {
				yield(domain.StatementLine{}, err)
				return
			}
			for _, l := range lines {
				if !yield(l, nil) {
					return
				}
			}
			if next == nil {
				return
			}
			token = next
		}
	}
}

func (s *reportingService) StatementPage(ctx context.Context, accountID string, dateRange domain.DateRange, limit int, nextToken *string) ([]domain.StatementLine, *string, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	lines, next, err := s.reportingRepo.ListStatementLines(ctx, accountID, dateRange, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement lines", slog.String("account_id", accountID))
		return nil, nil, err
	}
	if lines == nil {
		lines = []domain.StatementLine{}
	}
	return lines, next, nil
}

func (s *reportingService) VerifyLedger(ctx context.Context) (*domain.LedgerVerification, error) {
	totals, err := s.reportingRepo.GetAccountTotals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve account totals")
		return nil, fmt.Errorf("failed to retrieve account totals: %w", err)
	}

	v := &domain.LedgerVerification{
		CheckedAt:       s.now(),
		AccountsChecked: len(totals),
		Discrepancies:   []domain.BalanceDiscrepancy{},
	}
	accounts := make([]domain.Account, 0, len(totals))
	for _, t := range totals {
		accounts = append(accounts, t.Account)
		computed := t.ComputedBalance()
		if !computed.Equal(t.Account.Balance) {
			v.Discrepancies = append(v.Discrepancies, domain.BalanceDiscrepancy{
				AccountID:       t.Account.AccountID,
				AccountType:     t.Account.AccountType,
				CachedBalance:   t.Account.Balance,
				ComputedBalance: computed,
			})
		}
	}
	v.Imbalance = accounting.LedgerImbalance(accounts)

	if !v.Consistent() {
		s.LogError(ctx, apperrors.ErrLedgerInconsistent, "Ledger verification failed",
			slog.Int("discrepancies", len(v.Discrepancies)),
			slog.String("imbalance", v.Imbalance.String()))
	} else {
		s.LogInfo(ctx, "Ledger verified", slog.Int("accounts_checked", v.AccountsChecked))
	}
	return v, nil
}

func validateRange(r domain.DateRange) error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return apperrors.NewValidationError("date range starts %s after it ends %s",
			r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
	}
	return nil
}
