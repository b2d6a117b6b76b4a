package sources

import (
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
)

// AccountMap names the default posting accounts used when a document does not specify one.
type AccountMap struct {
	Cash                 string `yaml:"cash" mapstructure:"cash"`
	AccountsReceivable   string `yaml:"accounts_receivable" mapstructure:"accounts_receivable"`
	AccountsPayable      string `yaml:"accounts_payable" mapstructure:"accounts_payable"`
	Revenue              string `yaml:"revenue" mapstructure:"revenue"`
	Purchases            string `yaml:"purchases" mapstructure:"purchases"`
	VATPayable           string `yaml:"vat_payable" mapstructure:"vat_payable"`
	VATReceivable        string `yaml:"vat_receivable" mapstructure:"vat_receivable"`
	SalesDiscount        string `yaml:"sales_discount" mapstructure:"sales_discount"`
	PurchaseDiscount     string `yaml:"purchase_discount" mapstructure:"purchase_discount"`
	SalaryExpense        string `yaml:"salary_expense" mapstructure:"salary_expense"`
	OpeningBalanceEquity string `yaml:"opening_balance_equity" mapstructure:"opening_balance_equity"`
}

// Validate reports every posting account left unset.
func (m AccountMap) Validate() error {
	fields := map[string]string{
		"cash":                   m.Cash,
		"accounts_receivable":    m.AccountsReceivable,
		"accounts_payable":       m.AccountsPayable,
		"revenue":                m.Revenue,
		"purchases":              m.Purchases,
		"vat_payable":            m.VATPayable,
		"vat_receivable":         m.VATReceivable,
		"sales_discount":         m.SalesDiscount,
		"purchase_discount":      m.PurchaseDiscount,
		"salary_expense":         m.SalaryExpense,
		"opening_balance_equity": m.OpeningBalanceEquity,
	}
	var missing []string
	for _, name := range []string{
		"cash", "accounts_receivable", "accounts_payable", "revenue", "purchases", "vat_payable",
		"vat_receivable", "sales_discount", "purchase_discount", "salary_expense", "opening_balance_equity",
	} {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("posting accounts not configured: %s", strings.Join(missing, ", "))
	}
	return nil
}
