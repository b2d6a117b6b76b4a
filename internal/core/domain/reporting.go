package domain

import "time"

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string      `json:"accountID"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	Debit       Money       `json:"debit"`
	Credit      Money       `json:"credit"`
}

// Balance returns the row's net balance in the account's normal direction.
func (r TrialBalanceRow) Balance() Money {
	return r.AccountType.SignedDelta(r.Debit, r.Credit)
}

// TrialBalance is the per-account debit and credit totals of the ledger up to AsOf.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  Money             `json:"totalDebit"`
	TotalCredit Money             `json:"totalCredit"`
}

// Balanced reports whether total debits equal total credits.
func (tb TrialBalance) Balanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}

// DateRange bounds a statement. A zero From or To leaves that side open. Both ends are inclusive.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// StatementLine is one posted line of an account statement. BalanceAfter is the balance
// recorded when the line was posted, so a backdated entry carries the balance of its
// commit and not of its place in the date-ordered statement.
type StatementLine struct {
	LineID             string        `json:"lineID"`
	JournalID          string        `json:"journalID"`
	JournalDate        time.Time     `json:"journalDate"`
	JournalDescription string        `json:"journalDescription"`
	JournalStatus      JournalStatus `json:"journalStatus"`
	AccountID          string        `json:"accountID"`
	Debit              Money         `json:"debit"`
	Credit             Money         `json:"credit"`
	Description        string        `json:"description"`
	BalanceAfter       Money         `json:"balanceAfter"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// BalanceDiscrepancy reports an account whose cached balance differs from its lines.
type BalanceDiscrepancy struct {
	AccountID       string      `json:"accountID"`
	AccountType     AccountType `json:"accountType"`
	CachedBalance   Money       `json:"cachedBalance"`
	ComputedBalance Money       `json:"computedBalance"`
}

// LedgerVerification is the result of recomputing every balance from the journal.
type LedgerVerification struct {
	CheckedAt       time.Time            `json:"checkedAt"`
	AccountsChecked int                  `json:"accountsChecked"`
	Discrepancies   []BalanceDiscrepancy `json:"discrepancies"`
	Imbalance       Money                `json:"imbalance"` // sign-adjusted sum of all cached balances, zero when healthy
}

// Consistent reports whether the ledger passed every check.
func (v LedgerVerification) Consistent() bool {
	return len(v.Discrepancies) == 0 && v.Imbalance.IsZero()
}

// AccountTotals pairs an account with the all-time debit and credit totals of its posted lines.
type AccountTotals struct {
	Account Account
	Debit   Money
	Credit  Money
}

// ComputedBalance is the balance implied by the lines alone.
func (t AccountTotals) ComputedBalance() Money {
	return t.Account.AccountType.SignedDelta(t.Debit, t.Credit)
}
