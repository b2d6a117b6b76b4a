package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// LedgerStore runs a unit of work against the account and journal stores inside one
// atomic transaction. fn's error rolls everything back; a nil error commits.
// Implementations hold the already-open database handle; callers never see it.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx is the transaction-scoped view used by the posting engine.
// It is only valid inside the WithinTx callback that produced it.
type LedgerTx interface {
	AccountLocker
	JournalTxWriter
}

// AccountLocker locks account rows and applies balance deltas.
type AccountLocker interface {
	// LockAccounts loads and locks the given accounts until the transaction ends.
	// It returns ErrAccountNotFound naming any id that does not resolve.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyDelta adds delta to the stored balance of one account.
	// It returns ErrAccountNotFound if the id does not resolve.
	ApplyDelta(ctx context.Context, accountID string, delta domain.Money, actor string, at time.Time) error
}

// JournalTxWriter reads and writes journal entries inside the transaction.
type JournalTxWriter interface {
	// FindJournalForUpdate loads and locks one entry with its lines. ErrNotFound if absent.
	FindJournalForUpdate(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalsByKeyForUpdate loads and locks every entry (headers only) sharing the key,
	// oldest first.
	FindJournalsByKeyForUpdate(ctx context.Context, key domain.IdempotencyKey) ([]domain.Journal, error)

	// InsertJournal persists the header and lines. A uniqueness violation returns
	// ErrDuplicatePosting for posted entries and ErrDuplicate for drafts.
	InsertJournal(ctx context.Context, journal domain.Journal) error

	// UpdateJournalStatusAndLinks changes the status and, when non-nil, the reversing entry link.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, actor string, at time.Time) error

	// UpdateLineBalances stores the BalanceAfter of each line of an entry being posted.
	UpdateLineBalances(ctx context.Context, lines []domain.JournalLine) error

	// DeleteJournal removes an entry and its lines.
	DeleteJournal(ctx context.Context, journalID string) error
}
