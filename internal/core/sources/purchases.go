package sources

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurposeBill is the purpose of supplier invoice entries.
const PurposeBill = "bill"

// SupplierInvoice is a bill received from a supplier.
type SupplierInvoice struct {
	InvoiceID        string
	InvoiceDate      time.Time
	SupplierName     string
	Description      string
	Items            []InvoiceItem // expense or inventory accounts
	DiscountAmount   domain.Money
	VATPercent       decimal.Decimal
	PaidAmount       domain.Money
	PaymentAccountID string // pays PaidAmount; defaults to cash
	PayableAccountID string // defaults to accounts payable
}

func (inv SupplierInvoice) Key() domain.IdempotencyKey {
	return domain.IdempotencyKey{SourceModule: domain.SourcePurchases, SourceDocumentID: inv.InvoiceID, Purpose: PurposeBill}
}

// DeriveEntry produces:
//
//	Dr expense/inventory per item, Dr VAT receivable
//	Cr purchase discount, Cr cash (paid part), Cr payable (unpaid part)
func (inv SupplierInvoice) DeriveEntry(accounts AccountMap) (*domain.Journal, error) {
	totals, err := computeInvoiceTotals("supplier invoice", inv.InvoiceID, inv.Items, inv.DiscountAmount, inv.VATPercent, inv.PaidAmount)
	if err != nil {
		return nil, err
	}

	var s lineSet
	for _, item := range groupItems(inv.Items, accounts.Purchases) {
		s.debit(item.AccountID, item.Amount, item.Description)
	}
	s.debit(accounts.VATReceivable, totals.vat, "Input VAT")
	s.credit(accounts.PurchaseDiscount, inv.DiscountAmount, "Purchase discount")
	s.credit(orDefault(inv.PaymentAccountID, accounts.Cash), inv.PaidAmount, "Payment made")
	s.credit(orDefault(inv.PayableAccountID, accounts.AccountsPayable), totals.gross.Subtract(inv.PaidAmount), "Amount due to "+inv.SupplierName)

	description := inv.Description
	if description == "" {
		description = fmt.Sprintf("Supplier invoice %s", inv.InvoiceID)
	}
	return s.build(inv.Key(), inv.InvoiceDate, description)
}
