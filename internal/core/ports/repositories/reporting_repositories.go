package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// ReportingRepository defines read-only projections over posted journal lines.
// Lines of POSTED and REVERSED entries count; drafts never do.
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-account totals for entries dated on or before asOf.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetAccountTotals retrieves every account with its all-time line totals.
	GetAccountTotals(ctx context.Context) ([]domain.AccountTotals, error)

	// ListStatementLines retrieves one page of an account's lines in chronological order.
	// It returns the lines, a token for the next page (nil on the last page), and an error.
	ListStatementLines(ctx context.Context, accountID string, dateRange domain.DateRange, limit int, nextToken *string) ([]domain.StatementLine, *string, error)
}
