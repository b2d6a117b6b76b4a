// Package events publishes ledger state changes to downstream consumers after commit.
package events

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// EventType names a ledger state change.
type EventType string

const (
	JournalPosted       EventType = "journal.posted"
	JournalReversed     EventType = "journal.reversed"
	JournalUnposted     EventType = "journal.unposted"
	JournalDraftDeleted EventType = "journal.draft_deleted"
)

// LedgerEvent describes one committed change to a journal entry.
type LedgerEvent struct {
	EventType        EventType            `json:"event_type"`
	JournalID        string               `json:"journal_id"`
	RelatedJournalID string               `json:"related_journal_id,omitempty"` // reversal for reversed entries, new draft for unposted ones
	Status           domain.JournalStatus `json:"status"`
	SourceModule     domain.SourceModule  `json:"source_module"`
	SourceDocumentID string               `json:"source_document_id"`
	Purpose          string               `json:"purpose"`
	Amount           domain.Money         `json:"amount"`
	Actor            string               `json:"actor"`
	Timestamp        time.Time            `json:"timestamp"`
}

// NewLedgerEvent builds the event for j. Amount is the debit total of the entry.
func NewLedgerEvent(eventType EventType, j *domain.Journal, actor string, at time.Time) LedgerEvent {
	debit, _ := j.Totals()
	return LedgerEvent{
		EventType:        eventType,
		JournalID:        j.JournalID,
		Status:           j.Status,
		SourceModule:     j.SourceModule,
		SourceDocumentID: j.SourceDocumentID,
		Purpose:          j.Purpose,
		Amount:           debit,
		Actor:            actor,
		Timestamp:        at,
	}
}

// Publisher delivers ledger events. Publish is called only after the change is committed,
// so a failure never affects the ledger itself.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
	Close() error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, LedgerEvent) error { return nil }
func (NoopPublisher) Close() error { return nil }
