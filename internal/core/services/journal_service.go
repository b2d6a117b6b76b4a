package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
)

// journalService serves read access to journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalReader
}

// NewJournalService creates a new JournalReaderSvc.
func NewJournalService(journalRepo portsrepo.JournalReader) portssvc.JournalReaderSvc {
	return &journalService{journalRepo: journalRepo}
}

var _ portssvc.JournalReaderSvc = (*journalService)(nil)

func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal by ID", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return journal, nil
}

func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filter := params.Filter()
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.NewValidationError("unknown journal status %q", filter.Status)
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals", slog.Int("limit", limit))
		return nil, err
	}

	resp := &dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		resp.Journals[i] = dto.ToJournalResponse(&journals[i])
	}
	s.LogDebug(ctx, "Journals listed successfully", slog.Int("count", len(journals)))
	return resp, nil
}
