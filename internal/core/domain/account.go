package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account kinds.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether a debit increases the balance of this kind of account.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// SignedDelta converts one debit/credit pair into the change it makes to an
// account balance of this kind.
func (t AccountType) SignedDelta(debit, credit Money) Money {
	raw := debit.Subtract(credit)
	if t.IsDebitNormal() {
		return raw
	}
	return raw.Neg()
}

// Account represents a node of the chart of accounts together with its cached balance.
// Balance is a projection of the posted journal lines and is written only by the posting engine.
type Account struct {
	AccountID       string      `json:"accountID"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID"` // empty for root accounts
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	Balance         Money       `json:"balance"`
	AuditFields
}
