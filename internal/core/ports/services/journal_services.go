package services

import (
	"context"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
)

// PostingEngine moves journal entries through DRAFT -> POSTED -> REVERSED.
// Every mutating call runs in one storage transaction; on error nothing is applied.
type PostingEngine interface {
	// Post persists a new or draft entry as POSTED and applies its balance deltas.
	Post(ctx context.Context, entry *domain.Journal, userID string) (*domain.Journal, error)

	// CreateDraft persists an entry as DRAFT without touching balances.
	CreateDraft(ctx context.Context, entry *domain.Journal, userID string) (*domain.Journal, error)

	// PostDraft posts a stored draft.
	PostDraft(ctx context.Context, journalID string, userID string) (*domain.Journal, error)

	// DeleteDraft removes a stored draft and its lines.
	DeleteDraft(ctx context.Context, journalID string, userID string) error

	// Reverse posts the compensating entry of a posted entry and marks the original REVERSED.
	Reverse(ctx context.Context, journalID string, userID string) (*domain.Journal, error)

	// Unpost reverses a user-approved entry and stores a fresh draft copy of it.
	Unpost(ctx context.Context, journalID string, userID string) (*domain.UnpostResult, error)
}

// PostingMode selects whether a derived entry is posted or kept as a draft.
type PostingMode int

const (
	PostImmediately PostingMode = iota
	SaveAsDraft
)

// DocumentPostingSvc derives entries from source documents and hands them to the engine.
type DocumentPostingSvc interface {
	// Submit derives the entry for doc and posts it or stores it as a draft.
	Submit(ctx context.Context, doc sources.Document, mode PostingMode, userID string) (*domain.Journal, error)
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}
