// Package sources turns business documents into candidate journal entries.
//
// Every document type derives its entry with a pure function: no storage access and no
// balance mutation. The derived entry carries a deterministic id computed from its
// idempotency key, so deriving the same document twice yields the same entry.
package sources

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// Document is a source document that knows how to express itself as a journal entry.
type Document interface {
	// Key identifies the business event. At most one posted entry exists per key.
	Key() domain.IdempotencyKey

	// DeriveEntry builds the balanced draft entry for the document.
	DeriveEntry(accounts AccountMap) (*domain.Journal, error)
}

// Derive validates the account map and derives the entry for doc.
func Derive(doc Document, accounts AccountMap) (*domain.Journal, error) {
	if err := accounts.Validate(); err != nil {
		return nil, err
	}
	return doc.DeriveEntry(accounts)
}

// lineSet accumulates lines, dropping zero amounts. The first error sticks.
type lineSet struct {
	lines []domain.JournalLine
	err   error
}

func (s *lineSet) add(accountID string, debit, credit domain.Money, description string) {
	if s.err != nil || (debit.IsZero() && credit.IsZero()) {
		return
	}
	l, err := domain.NewJournalLine(accountID, debit, credit, description)
	if err != nil {
		s.err = err
		return
	}
	s.lines = append(s.lines, l)
}

func (s *lineSet) debit(accountID string, amount domain.Money, description string) {
	s.add(accountID, amount, domain.ZeroMoney(), description)
}

func (s *lineSet) credit(accountID string, amount domain.Money, description string) {
	s.add(accountID, domain.ZeroMoney(), amount, description)
}

// swap exchanges every debit and credit; used for returns.
func (s *lineSet) swap() {
	for i := range s.lines {
		s.lines[i] = s.lines[i].Swapped()
	}
}

// build wraps the accumulated lines into a journal with the key's derived id.
func (s *lineSet) build(key domain.IdempotencyKey, date time.Time, description string) (*domain.Journal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return domain.NewJournal(domain.JournalParams{
		JournalID:        domain.DeriveJournalID(key),
		JournalDate:      date,
		Description:      description,
		SourceModule:     key.SourceModule,
		SourceDocumentID: key.SourceDocumentID,
		Purpose:          key.Purpose,
		Lines:            s.lines,
	})
}

func requireDocumentID(kind, id string) error {
	if id == "" {
		return apperrors.NewValidationError("%s id is required", kind)
	}
	return nil
}

func requireNonNegative(field string, m domain.Money) error {
	if m.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", apperrors.ErrInvalidAmount, field)
	}
	return nil
}

func orDefault(accountID, fallback string) string {
	if accountID != "" {
		return accountID
	}
	return fallback
}
