package domain

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
)

// JournalLine is one debit or credit of a journal entry. Exactly one side is non-zero.
type JournalLine struct {
	LineID       string `json:"lineID"`
	JournalID    string `json:"journalID"`
	LineNo       int    `json:"lineNo"`
	AccountID    string `json:"accountID"`
	Debit        Money  `json:"debit"`
	Credit       Money  `json:"credit"`
	Description  string `json:"description"`
	BalanceAfter Money  `json:"balanceAfter"` // account balance at posting time, in commit order; zero for drafts
}

// NewJournalLine builds a line and enforces side exclusivity.
func NewJournalLine(accountID string, debit, credit Money, description string) (JournalLine, error) {
	l := JournalLine{
		AccountID:   accountID,
		Debit:       debit,
		Credit:      credit,
		Description: description,
	}
	if err := l.Validate(); err != nil {
		return JournalLine{}, err
	}
	return l, nil
}

// DebitLine builds a debit-only line.
func DebitLine(accountID string, amount Money, description string) (JournalLine, error) {
	return NewJournalLine(accountID, amount, ZeroMoney(), description)
}

// CreditLine builds a credit-only line.
func CreditLine(accountID string, amount Money, description string) (JournalLine, error) {
	return NewJournalLine(accountID, ZeroMoney(), amount, description)
}

// Validate checks the account reference and the amounts of a line.
func (l JournalLine) Validate() error {
	if l.AccountID == "" {
		return apperrors.NewValidationError("journal line requires an account id")
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: line on account %s has a negative side", apperrors.ErrInvalidAmount, l.AccountID)
	}
	if _, err := NewMoney(l.Debit.Decimal()); err != nil {
		return err
	}
	if _, err := NewMoney(l.Credit.Decimal()); err != nil {
		return err
	}
	debitSet, creditSet := l.Debit.IsPositive(), l.Credit.IsPositive()
	if debitSet == creditSet {
		return fmt.Errorf("%w: line on account %s must have exactly one non-zero side (debit %s, credit %s)",
			apperrors.ErrInvalidAmount, l.AccountID, l.Debit, l.Credit)
	}
	return nil
}

// IsDebit reports whether the line is on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the populated side.
func (l JournalLine) Amount() Money {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// RawDelta is debit minus credit. Summed over a balanced entry it is zero.
func (l JournalLine) RawDelta() Money {
	return l.Debit.Subtract(l.Credit)
}

// Swapped returns a copy with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}
