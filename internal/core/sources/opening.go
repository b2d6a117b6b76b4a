package sources

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// PurposeOpening is the purpose of opening balance entries.
const PurposeOpening = "opening"

// OpeningBalanceEntry is the carried-forward balance of one account.
type OpeningBalanceEntry struct {
	AccountID string
	Debit     domain.Money
	Credit    domain.Money
}

// OpeningBalance is the set of balances a ledger starts from.
type OpeningBalance struct {
	BatchID         string
	AsOf            time.Time
	Description     string
	Entries         []OpeningBalanceEntry
	EquityAccountID string // absorbs any difference; defaults to opening balance equity
}

func (ob OpeningBalance) Key() domain.IdempotencyKey {
	return domain.IdempotencyKey{SourceModule: domain.SourceOpening, SourceDocumentID: ob.BatchID, Purpose: PurposeOpening}
}

// DeriveEntry copies the given balances and posts the difference between their debits
// and credits to the opening balance equity account.
func (ob OpeningBalance) DeriveEntry(accounts AccountMap) (*domain.Journal, error) {
	if err := requireDocumentID("opening balance batch", ob.BatchID); err != nil {
		return nil, err
	}
	if len(ob.Entries) == 0 {
		return nil, apperrors.NewValidationError("opening balance batch %s has no entries", ob.BatchID)
	}

	var s lineSet
	diff := domain.ZeroMoney()
	for _, e := range ob.Entries {
		l, err := domain.NewJournalLine(e.AccountID, e.Debit, e.Credit, "Opening balance")
		if err != nil {
			return nil, err
		}
		s.add(l.AccountID, l.Debit, l.Credit, l.Description)
		diff = diff.Add(l.RawDelta())
	}

	equity := orDefault(ob.EquityAccountID, accounts.OpeningBalanceEquity)
	if diff.IsPositive() {
		s.credit(equity, diff, "Opening balance difference")
	} else if diff.IsNegative() {
		s.debit(equity, diff.Neg(), "Opening balance difference")
	}

	description := ob.Description
	if description == "" {
		description = fmt.Sprintf("Opening balances %s", ob.BatchID)
	}
	return s.build(ob.Key(), ob.AsOf, description)
}
