package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// journalTransitions is the complete set of legal status changes.
// Deleting a draft is handled separately by CanDelete.
var journalTransitions = map[JournalStatus][]JournalStatus{
	Draft:  {Posted},
	Posted: {Reversed},
}

func (s JournalStatus) IsValid() bool {
	switch s {
	case Draft, Posted, Reversed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s JournalStatus) CanTransitionTo(next JournalStatus) bool {
	for _, allowed := range journalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidStateTransition when s -> next is not allowed.
func (s JournalStatus) ValidateTransition(next JournalStatus) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStateTransition, s, next)
	}
	return nil
}

// CanDelete reports whether an entry in this status may be physically removed.
func (s JournalStatus) CanDelete() bool {
	return s == Draft
}

// SourceModule names the business module that produced an entry.
type SourceModule string

const (
	SourceSales     SourceModule = "sales"
	SourcePurchases SourceModule = "purchases"
	SourceTreasury  SourceModule = "treasury"
	SourcePayroll   SourceModule = "payroll"
	SourceOpening   SourceModule = "opening"
)

// AllowsUnpost reports whether entries from this module are user-approved documents
// that can be taken back to draft. Invoices and opening balances are immutable records.
func (m SourceModule) AllowsUnpost() bool {
	return m == SourceTreasury || m == SourcePayroll
}

// reversalPurposePrefix marks the purpose of compensating entries.
const reversalPurposePrefix = "reversal:"

// ReversalPurpose is the purpose recorded on the entry that reverses originalID.
func ReversalPurpose(originalID string) string {
	return reversalPurposePrefix + originalID
}

// IdempotencyKey identifies the business event behind an entry.
// At most one posted entry exists per key.
type IdempotencyKey struct {
	SourceModule     SourceModule `json:"sourceModule"`
	SourceDocumentID string       `json:"sourceDocumentID"`
	Purpose          string       `json:"purpose"`
}

func (k IdempotencyKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.SourceModule, k.SourceDocumentID, k.Purpose)
}

// Journal represents a single, balanced financial event composed of ordered lines.
type Journal struct {
	JournalID          string        `json:"journalID"`
	JournalDate        time.Time     `json:"journalDate"`
	Description        string        `json:"description"`
	Status             JournalStatus `json:"status"`
	SourceModule       SourceModule  `json:"sourceModule"`
	SourceDocumentID   string        `json:"sourceDocumentID"`
	Purpose            string        `json:"purpose"`
	OriginalJournalID  *string       `json:"originalJournalID,omitempty"`  // set on reversal entries
	ReversingJournalID *string       `json:"reversingJournalID,omitempty"` // set on reversed entries
	Lines              []JournalLine `json:"lines"`
	AuditFields
}

// JournalParams carries everything needed to construct a journal entry.
type JournalParams struct {
	JournalID        string
	JournalDate      time.Time
	Description      string
	SourceModule     SourceModule
	SourceDocumentID string
	Purpose          string
	Lines            []JournalLine
}

// NewJournal builds a draft entry, numbers its lines and validates it.
func NewJournal(p JournalParams) (*Journal, error) {
	j := &Journal{
		JournalID:        p.JournalID,
		JournalDate:      p.JournalDate,
		Description:      p.Description,
		Status:           Draft,
		SourceModule:     p.SourceModule,
		SourceDocumentID: p.SourceDocumentID,
		Purpose:          p.Purpose,
		Lines:            make([]JournalLine, len(p.Lines)),
	}
	copy(j.Lines, p.Lines)
	j.normalizeLines()
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

// normalizeLines stamps parent id, position and line ids.
func (j *Journal) normalizeLines() {
	for i := range j.Lines {
		j.Lines[i].JournalID = j.JournalID
		j.Lines[i].LineNo = i + 1
		if j.Lines[i].LineID == "" {
			j.Lines[i].LineID = NewLineID()
		}
	}
}

// Key returns the idempotency key of the entry.
func (j Journal) Key() IdempotencyKey {
	return IdempotencyKey{
		SourceModule:     j.SourceModule,
		SourceDocumentID: j.SourceDocumentID,
		Purpose:          j.Purpose,
	}
}

// IsReversal reports whether the entry compensates another entry.
func (j Journal) IsReversal() bool {
	return j.OriginalJournalID != nil || strings.HasPrefix(j.Purpose, reversalPurposePrefix)
}

// Totals returns the sum of debits and the sum of credits.
func (j Journal) Totals() (debit Money, credit Money) {
	debit, credit = ZeroMoney(), ZeroMoney()
	for _, l := range j.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// AccountIDs returns the distinct accounts referenced by the lines, in first-seen order.
func (j Journal) AccountIDs() []string {
	seen := make(map[string]struct{}, len(j.Lines))
	ids := make([]string, 0, len(j.Lines))
	for _, l := range j.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// Validate checks header fields, every line and the balance invariant.
func (j Journal) Validate() error {
	if j.JournalID == "" {
		return apperrors.NewValidationError("journal id is required")
	}
	if j.JournalDate.IsZero() {
		return apperrors.NewValidationError("journal %s has no date", j.JournalID)
	}
	if j.SourceModule == "" || j.SourceDocumentID == "" || j.Purpose == "" {
		return apperrors.NewValidationError("journal %s must name its source module, document and purpose", j.JournalID)
	}
	if len(j.Lines) == 0 {
		return apperrors.NewValidationError("journal %s has no lines", j.JournalID)
	}
	for _, l := range j.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	debit, credit := j.Totals()
	if !debit.Equal(credit) || len(j.Lines) < 2 {
		return fmt.Errorf("%w: journal %s debits %s, credits %s", apperrors.ErrUnbalancedEntry, j.JournalID, debit, credit)
	}
	return nil
}

// Reversal builds the posted entry that compensates j. Every line keeps its account and
// amount with debit and credit swapped.
func (j Journal) Reversal(reversalID string, at time.Time) Journal {
	originalID := j.JournalID
	rev := Journal{
		JournalID:         reversalID,
		JournalDate:       at,
		Description:       "Reversal of: " + j.Description,
		Status:            Posted,
		SourceModule:      j.SourceModule,
		SourceDocumentID:  j.SourceDocumentID,
		Purpose:           ReversalPurpose(originalID),
		OriginalJournalID: &originalID,
		Lines:             make([]JournalLine, len(j.Lines)),
	}
	for i, l := range j.Lines {
		swapped := l.Swapped()
		swapped.LineID = ""
		swapped.BalanceAfter = ZeroMoney()
		rev.Lines[i] = swapped
	}
	rev.normalizeLines()
	return rev
}

// Redraft builds a draft copy of j under a new id with the same idempotency key and lines.
func (j Journal) Redraft(draftID string) Journal {
	d := Journal{
		JournalID:        draftID,
		JournalDate:      j.JournalDate,
		Description:      j.Description,
		Status:           Draft,
		SourceModule:     j.SourceModule,
		SourceDocumentID: j.SourceDocumentID,
		Purpose:          j.Purpose,
		Lines:            make([]JournalLine, len(j.Lines)),
	}
	for i, l := range j.Lines {
		l.LineID = ""
		l.BalanceAfter = ZeroMoney()
		d.Lines[i] = l
	}
	d.normalizeLines()
	return d
}

// UnpostResult is the outcome of taking a posted entry back to draft.
type UnpostResult struct {
	Reversal *Journal `json:"reversal"`
	Draft    *Journal `json:"draft"`
}

// JournalFilter narrows a journal listing. Empty fields match everything.
type JournalFilter struct {
	Status           JournalStatus
	SourceModule     SourceModule
	SourceDocumentID string
}
