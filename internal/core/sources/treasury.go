package sources

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// VoucherKind distinguishes money coming in from money going out.
type VoucherKind string

const (
	Receipt VoucherKind = "RECEIPT"
	Payment VoucherKind = "PAYMENT"
)

const (
	PurposeReceipt = "receipt"
	PurposePayment = "payment"
	PurposeJournal = "journal"
)

// Voucher is a bank or cash receipt or payment approved by a user.
type Voucher struct {
	VoucherID            string
	VoucherDate          time.Time
	Kind                 VoucherKind
	Description          string
	Amount               domain.Money
	CashAccountID        string // cash or bank account; defaults to cash
	CounterpartAccountID string // defaults to receivable for receipts, payable for payments
}

func (v Voucher) Key() domain.IdempotencyKey {
	purpose := PurposeReceipt
	if v.Kind == Payment {
		purpose = PurposePayment
	}
	return domain.IdempotencyKey{SourceModule: domain.SourceTreasury, SourceDocumentID: v.VoucherID, Purpose: purpose}
}

// DeriveEntry produces Dr cash / Cr counterpart for a receipt and the mirror for a payment.
func (v Voucher) DeriveEntry(accounts AccountMap) (*domain.Journal, error) {
	if err := requireDocumentID("voucher", v.VoucherID); err != nil {
		return nil, err
	}
	if !v.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: voucher %s amount must be positive", apperrors.ErrInvalidAmount, v.VoucherID)
	}

	cash := orDefault(v.CashAccountID, accounts.Cash)
	var s lineSet
	switch v.Kind {
	case Receipt:
		s.debit(cash, v.Amount, "Cash received")
		s.credit(orDefault(v.CounterpartAccountID, accounts.AccountsReceivable), v.Amount, v.Description)
	case Payment:
		s.debit(orDefault(v.CounterpartAccountID, accounts.AccountsPayable), v.Amount, v.Description)
		s.credit(cash, v.Amount, "Cash paid")
	default:
		return nil, apperrors.NewValidationError("voucher %s has unknown kind %q", v.VoucherID, v.Kind)
	}

	description := v.Description
	if description == "" {
		description = fmt.Sprintf("%s voucher %s", v.Kind, v.VoucherID)
	}
	return s.build(v.Key(), v.VoucherDate, description)
}

// JournalVoucher is a manual entry whose lines are given explicitly.
type JournalVoucher struct {
	VoucherID   string
	VoucherDate time.Time
	Description string
	Lines       []domain.JournalLine
}

func (v JournalVoucher) Key() domain.IdempotencyKey {
	return domain.IdempotencyKey{SourceModule: domain.SourceTreasury, SourceDocumentID: v.VoucherID, Purpose: PurposeJournal}
}

// DeriveEntry copies the lines as given; the account map is not consulted.
func (v JournalVoucher) DeriveEntry(_ AccountMap) (*domain.Journal, error) {
	if err := requireDocumentID("journal voucher", v.VoucherID); err != nil {
		return nil, err
	}
	var s lineSet
	for _, l := range v.Lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		s.add(l.AccountID, l.Debit, l.Credit, l.Description)
	}
	description := v.Description
	if description == "" {
		description = fmt.Sprintf("Journal voucher %s", v.VoucherID)
	}
	return s.build(v.Key(), v.VoucherDate, description)
}
