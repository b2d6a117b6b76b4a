package mapping

import (
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var parentID *string
	if d.ParentAccountID != "" {
		parent := d.ParentAccountID
		parentID = &parent
	}
	return models.Account{
		AccountID:       d.AccountID,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		ParentAccountID: parentID,
		Description:     d.Description,
		IsActive:        d.IsActive,
		Balance:         d.Balance.Decimal(),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	parentID := ""
	if m.ParentAccountID != nil {
		parentID = *m.ParentAccountID
	}
	return domain.Account{
		AccountID:       m.AccountID,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: parentID,
		Description:     m.Description,
		IsActive:        m.IsActive,
		Balance:         ToMoney(m.Balance),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToMoney converts a stored NUMERIC value. Columns are declared at the money scale,
// so rounding only normalizes the representation.
func ToMoney(d decimal.Decimal) domain.Money {
	m, _ := domain.NewMoney(d.Round(domain.MoneyScale))
	return m
}
