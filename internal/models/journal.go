package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a row of the journal_entries table.
type Journal struct {
	JournalID          string    `db:"journal_id"`
	JournalDate        time.Time `db:"journal_date"`
	Description        string    `db:"description"`
	Status             string    `db:"status"`
	SourceModule       string    `db:"source_module"`
	SourceDocumentID   string    `db:"source_document_id"`
	Purpose            string    `db:"purpose"`
	OriginalJournalID  *string   `db:"original_journal_id"`  // Nullable
	ReversingJournalID *string   `db:"reversing_journal_id"` // Nullable
	AuditFields
}

// JournalLine is a row of the journal_entry_lines table. Exactly one of Debit and Credit is non-zero.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	JournalID    string          `db:"journal_id"`
	LineNo       int             `db:"line_no"`
	AccountID    string          `db:"account_id"`
	Debit        decimal.Decimal `db:"debit"`
	Credit       decimal.Decimal `db:"credit"`
	Description  string          `db:"description"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
}
