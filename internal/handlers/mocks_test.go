package handlers_test

import (
	"context"
	"iter"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CurrentBalance(ctx context.Context, accountID string) (domain.Money, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	return m.Called(ctx, accountID, userID).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock PostingEngine ---
type MockPostingEngine struct {
	mock.Mock
}

func (m *MockPostingEngine) journal(args mock.Arguments) (*domain.Journal, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingEngine) Post(ctx context.Context, entry *domain.Journal, userID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, entry, userID))
}

func (m *MockPostingEngine) CreateDraft(ctx context.Context, entry *domain.Journal, userID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, entry, userID))
}

func (m *MockPostingEngine) PostDraft(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, journalID, userID))
}

func (m *MockPostingEngine) DeleteDraft(ctx context.Context, journalID string, userID string) error {
	return m.Called(ctx, journalID, userID).Error(0)
}

func (m *MockPostingEngine) Reverse(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, journalID, userID))
}

func (m *MockPostingEngine) Unpost(ctx context.Context, journalID string, userID string) (*domain.UnpostResult, error) {
	args := m.Called(ctx, journalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnpostResult), args.Error(1)
}

var _ portssvc.PostingEngine = (*MockPostingEngine)(nil)

// --- Mock DocumentPostingSvc ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Submit(ctx context.Context, doc sources.Document, mode portssvc.PostingMode, userID string) (*domain.Journal, error) {
	args := m.Called(ctx, doc, mode, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

var _ portssvc.DocumentPostingSvc = (*MockDocumentService)(nil)

// --- Mock JournalReaderSvc ---
type MockJournalReader struct {
	mock.Mock
}

func (m *MockJournalReader) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalReader) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

var _ portssvc.JournalReaderSvc = (*MockJournalReader)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) AccountStatement(ctx context.Context, accountID string, dateRange domain.DateRange) iter.Seq2[domain.StatementLine, error] {
	return m.Called(ctx, accountID, dateRange).Get(0).(iter.Seq2[domain.StatementLine, error])
}

func (m *MockReportingService) StatementPage(ctx context.Context, accountID string, dateRange domain.DateRange, limit int, nextToken *string) ([]domain.StatementLine, *string, error) {
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

func (m *MockReportingService) VerifyLedger(ctx context.Context) (*domain.LedgerVerification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerVerification), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)
