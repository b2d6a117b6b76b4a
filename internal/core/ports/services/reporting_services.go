package services

import (
	"context"
	"iter"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// ReportingService defines read-only projections over the ledger
type ReportingService interface {
	// TrialBalance sums posted lines per account up to asOf. It returns ErrLedgerInconsistent
	// if debits and credits disagree.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// AccountStatement returns a lazy sequence of the account's posted lines in chronological
	// order. Each range over the sequence starts again from the beginning.
	AccountStatement(ctx context.Context, accountID string, dateRange domain.DateRange) iter.Seq2[domain.StatementLine, error]

	// StatementPage returns one page of the statement and the token for the next page.
	StatementPage(ctx context.Context, accountID string, dateRange domain.DateRange, limit int, nextToken *string) ([]domain.StatementLine, *string, error)

	// VerifyLedger recomputes every balance from the journal and compares it with the cache.
	VerifyLedger(ctx context.Context) (*domain.LedgerVerification, error)
}
