package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// CalculateSignedAmount applies the correct sign to a line based on the account type.
//
//	DEBIT to ASSET/EXPENSE -> +
//	CREDIT to ASSET/EXPENSE -> -
//	DEBIT to LIABILITY/EQUITY/REVENUE -> -
//	CREDIT to LIABILITY/EQUITY/REVENUE -> +
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (domain.Money, error) {
	if !accountType.IsValid() {
		return domain.Money{}, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return accountType.SignedDelta(line.Debit, line.Credit), nil
}

// ValidateRawDeltas checks that debit minus credit over all lines is exactly zero.
func ValidateRawDeltas(lines []domain.JournalLine) error {
	sum := domain.ZeroMoney()
	for _, l := range lines {
		sum = sum.Add(l.RawDelta())
	}
	if !sum.IsZero() {
		return fmt.Errorf("%w: raw deltas sum to %s", apperrors.ErrUnbalancedEntry, sum)
	}
	return nil
}

// NetAccountDeltas folds the lines into one signed balance change per account.
func NetAccountDeltas(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]domain.Money, error) {
	deltas := make(map[string]domain.Money, len(accounts))
	for _, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, l.AccountID)
		}
		signed, err := CalculateSignedAmount(l, acc.AccountType)
		if err != nil {
			return nil, err
		}
		deltas[l.AccountID] = deltas[l.AccountID].Add(signed)
	}
	return deltas, nil
}

// ApplyRunningBalances stamps BalanceAfter on every line, walking the lines in order
// from the balances in accounts as they stand at commit. accounts is not modified.
func ApplyRunningBalances(lines []domain.JournalLine, accounts map[string]domain.Account) error {
	running := make(map[string]domain.Money, len(accounts))
	for id, acc := range accounts {
		running[id] = acc.Balance
	}
	for i := range lines {
		acc, ok := accounts[lines[i].AccountID]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, lines[i].AccountID)
		}
		signed, err := CalculateSignedAmount(lines[i], acc.AccountType)
		if err != nil {
			return err
		}
		running[acc.AccountID] = running[acc.AccountID].Add(signed)
		lines[i].BalanceAfter = running[acc.AccountID]
	}
	return nil
}

// LedgerImbalance is the sum of every balance, counted positive for debit-normal accounts
// and negative for the others. A consistent ledger returns zero.
func LedgerImbalance(accounts []domain.Account) domain.Money {
	sum := domain.ZeroMoney()
	for _, acc := range accounts {
		if acc.AccountType.IsDebitNormal() {
			sum = sum.Add(acc.Balance)
		} else {
			sum = sum.Subtract(acc.Balance)
		}
	}
	return sum
}
