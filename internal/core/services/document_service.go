package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
)

// documentService is the boundary source modules call: it derives the entry for a
// document and hands it to the posting engine.
type documentService struct {
	BaseService
	engine   portssvc.PostingEngine
	accounts sources.AccountMap
}

// NewDocumentService creates a DocumentPostingSvc that resolves default accounts from accounts.
func NewDocumentService(engine portssvc.PostingEngine, accounts sources.AccountMap) portssvc.DocumentPostingSvc {
	return &documentService{engine: engine, accounts: accounts}
}

var _ portssvc.DocumentPostingSvc = (*documentService)(nil)

func (s *documentService) Submit(ctx context.Context, doc sources.Document, mode portssvc.PostingMode, userID string) (*domain.Journal, error) {
	entry, err := sources.Derive(doc, s.accounts)
	if err != nil {
		s.LogError(ctx, err, "Failed to derive journal entry", slog.String("idempotency_key", doc.Key().String()))
		return nil, err
	}

	if mode == portssvc.SaveAsDraft {
		return s.engine.CreateDraft(ctx, entry, userID)
	}
	return s.engine.Post(ctx, entry, userID)
}
