package repositories

import (
	"context"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal together with its lines.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves journal headers, newest first, using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error)
}
