package sources

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// PurposeSettlement is the purpose of employee settlement entries.
const PurposeSettlement = "settlement"

// SettlementDeduction is withheld from the gross amount and credited to its own account,
// e.g. an advance recovery or a social insurance liability.
type SettlementDeduction struct {
	AccountID   string
	Description string
	Amount      domain.Money
}

// EmployeeSettlement is a salary or end-of-service settlement approved for payment.
type EmployeeSettlement struct {
	SettlementID     string
	SettlementDate   time.Time
	EmployeeID       string
	Description      string
	GrossAmount      domain.Money
	ExpenseAccountID string // defaults to salary expense
	Deductions       []SettlementDeduction
	PaymentAccountID string // defaults to cash
}

func (st EmployeeSettlement) Key() domain.IdempotencyKey {
	return domain.IdempotencyKey{SourceModule: domain.SourcePayroll, SourceDocumentID: st.SettlementID, Purpose: PurposeSettlement}
}

// DeriveEntry produces Dr expense (gross), Cr each deduction, Cr payment account (net).
func (st EmployeeSettlement) DeriveEntry(accounts AccountMap) (*domain.Journal, error) {
	if err := requireDocumentID("settlement", st.SettlementID); err != nil {
		return nil, err
	}
	if !st.GrossAmount.IsPositive() {
		return nil, fmt.Errorf("%w: settlement %s gross amount must be positive", apperrors.ErrInvalidAmount, st.SettlementID)
	}

	var s lineSet
	s.debit(orDefault(st.ExpenseAccountID, accounts.SalaryExpense), st.GrossAmount, "Gross settlement for "+st.EmployeeID)

	net := st.GrossAmount
	for _, d := range st.Deductions {
		if d.AccountID == "" {
			return nil, apperrors.NewValidationError("settlement %s has a deduction without an account", st.SettlementID)
		}
		if err := requireNonNegative("deduction", d.Amount); err != nil {
			return nil, err
		}
		s.credit(d.AccountID, d.Amount, d.Description)
		net = net.Subtract(d.Amount)
	}
	if net.IsNegative() {
		return nil, apperrors.NewValidationError("settlement %s deductions exceed gross amount by %s", st.SettlementID, net.Neg())
	}
	s.credit(orDefault(st.PaymentAccountID, accounts.Cash), net, "Net paid to "+st.EmployeeID)

	description := st.Description
	if description == "" {
		description = fmt.Sprintf("Employee settlement %s", st.SettlementID)
	}
	return s.build(st.Key(), st.SettlementDate, description)
}
