package sources

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	PurposeInvoice = "invoice"
	PurposeReturn  = "return"
)

// InvoiceItem is one net amount on an invoice. An empty AccountID uses the default
// revenue (sales) or purchases (supplier) account.
type InvoiceItem struct {
	AccountID   string
	Description string
	Amount      domain.Money
}

// SalesInvoice is a customer invoice or, with IsReturn set, a credit note.
type SalesInvoice struct {
	InvoiceID           string
	InvoiceDate         time.Time
	CustomerName        string
	Description         string
	Items               []InvoiceItem
	DiscountAmount      domain.Money
	VATPercent          decimal.Decimal
	PaidAmount          domain.Money
	PaymentAccountID    string // receives PaidAmount; defaults to cash
	ReceivableAccountID string // defaults to accounts receivable
	IsReturn            bool
}

func (inv SalesInvoice) Key() domain.IdempotencyKey {
	purpose := PurposeInvoice
	if inv.IsReturn {
		purpose = PurposeReturn
	}
	return domain.IdempotencyKey{SourceModule: domain.SourceSales, SourceDocumentID: inv.InvoiceID, Purpose: purpose}
}

// DeriveEntry produces:
//
//	Dr cash (paid part), Dr receivable (unpaid part), Dr sales discount
//	Cr revenue per item account, Cr VAT payable
//
// VAT is charged on the net amount after discount and rounded once.
// A return produces the same lines with the sides swapped.
func (inv SalesInvoice) DeriveEntry(accounts AccountMap) (*domain.Journal, error) {
	totals, err := computeInvoiceTotals("sales invoice", inv.InvoiceID, inv.Items, inv.DiscountAmount, inv.VATPercent, inv.PaidAmount)
	if err != nil {
		return nil, err
	}

	var s lineSet
	s.debit(orDefault(inv.PaymentAccountID, accounts.Cash), inv.PaidAmount, "Payment received")
	s.debit(orDefault(inv.ReceivableAccountID, accounts.AccountsReceivable), totals.gross.Subtract(inv.PaidAmount), "Amount due from "+inv.CustomerName)
	s.debit(accounts.SalesDiscount, inv.DiscountAmount, "Sales discount")
	for _, item := range groupItems(inv.Items, accounts.Revenue) {
		s.credit(item.AccountID, item.Amount, item.Description)
	}
	s.credit(accounts.VATPayable, totals.vat, "Output VAT")
	if inv.IsReturn {
		s.swap()
	}

	description := inv.Description
	if description == "" {
		kind := "Sales invoice"
		if inv.IsReturn {
			kind = "Sales return"
		}
		description = fmt.Sprintf("%s %s", kind, inv.InvoiceID)
	}
	return s.build(inv.Key(), inv.InvoiceDate, description)
}

type invoiceTotals struct {
	net   domain.Money
	vat   domain.Money
	gross domain.Money
}

// computeInvoiceTotals checks the document amounts and returns net, VAT and gross.
func computeInvoiceTotals(kind, id string, items []InvoiceItem, discount domain.Money, vatPercent decimal.Decimal, paid domain.Money) (invoiceTotals, error) {
	if err := requireDocumentID(kind, id); err != nil {
		return invoiceTotals{}, err
	}
	if len(items) == 0 {
		return invoiceTotals{}, apperrors.NewValidationError("%s %s has no items", kind, id)
	}
	net := domain.ZeroMoney()
	for _, item := range items {
		if !item.Amount.IsPositive() {
			return invoiceTotals{}, fmt.Errorf("%w: %s %s has a non-positive item amount", apperrors.ErrInvalidAmount, kind, id)
		}
		net = net.Add(item.Amount)
	}
	if err := requireNonNegative("discount", discount); err != nil {
		return invoiceTotals{}, err
	}
	if err := requireNonNegative("paid amount", paid); err != nil {
		return invoiceTotals{}, err
	}
	if vatPercent.IsNegative() {
		return invoiceTotals{}, apperrors.NewValidationError("%s %s has a negative VAT rate", kind, id)
	}
	if discount.Compare(net) > 0 {
		return invoiceTotals{}, apperrors.NewValidationError("%s %s discount %s exceeds net amount %s", kind, id, discount, net)
	}

	taxable := net.Subtract(discount)
	vat := taxable.MultiplyByPercent(vatPercent)
	gross := taxable.Add(vat)
	if paid.Compare(gross) > 0 {
		return invoiceTotals{}, apperrors.NewValidationError("%s %s paid amount %s exceeds total %s", kind, id, paid, gross)
	}
	return invoiceTotals{net: net, vat: vat, gross: gross}, nil
}

// groupItems sums items per account, keeping first-seen order.
func groupItems(items []InvoiceItem, fallbackAccount string) []InvoiceItem {
	index := make(map[string]int, len(items))
	grouped := make([]InvoiceItem, 0, len(items))
	for _, item := range items {
		accountID := orDefault(item.AccountID, fallbackAccount)
		if i, ok := index[accountID]; ok {
			grouped[i].Amount = grouped[i].Amount.Add(item.Amount)
			continue
		}
		index[accountID] = len(grouped)
		grouped = append(grouped, InvoiceItem{AccountID: accountID, Description: item.Description, Amount: item.Amount})
	}
	return grouped
}
