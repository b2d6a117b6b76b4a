package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockLedgerStore runs every unit of work against Tx. CommitErr, when set, is returned
// after fn succeeds to simulate a failed commit.
type MockLedgerStore struct {
	Tx        *MockLedgerTx
	CommitErr error
	Calls     int
}

func (m *MockLedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	m.Calls++
	if err := fn(ctx, m.Tx); err != nil {
		return err
	}
	return m.CommitErr
}

// MockLedgerTx is a mock type for the LedgerTx interface
type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockLedgerTx) ApplyDelta(ctx context.Context, accountID string, delta domain.Money, actor string, at time.Time) error {
	args := m.Called(ctx, accountID, delta.String(), actor, at)
	return args.Error(0)
}

func (m *MockLedgerTx) FindJournalForUpdate(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerTx) FindJournalsByKeyForUpdate(ctx context.Context, key domain.IdempotencyKey) ([]domain.Journal, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journal), args.Error(1)
}

func (m *MockLedgerTx) InsertJournal(ctx context.Context, journal domain.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockLedgerTx) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, actor string, at time.Time) error {
	args := m.Called(ctx, journalID, status, reversingJournalID, actor, at)
	return args.Error(0)
}

func (m *MockLedgerTx) UpdateLineBalances(ctx context.Context, lines []domain.JournalLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockLedgerTx) DeleteJournal(ctx context.Context, journalID string) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

// MockPublisher is a mock type for the events.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockRecorder is a mock type for the metrics.PostingRecorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) ObservePosting(operation string, result string, elapsed time.Duration) {
	m.Called(operation, result)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetAccountTotals(ctx context.Context) ([]domain.AccountTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotals), args.Error(1)
}

func (m *MockReportingRepository) ListStatementLines(ctx context.Context, accountID string, dateRange domain.DateRange, limit int, nextToken *string) ([]domain.StatementLine, *string, error) {
	args := m.Called(ctx, accountID, dateRange, limit, nextToken)
	var lines []domain.StatementLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.StatementLine)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return lines, next, args.Error(2)
}

// --- Mock JournalReader ---
type MockJournalReader struct {
	mock.Mock
}

func (m *MockJournalReader) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalReader) ListJournals(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var journals []domain.Journal
	if args.Get(0) != nil {
		journals = args.Get(0).([]domain.Journal)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return journals, next, args.Error(2)
}
