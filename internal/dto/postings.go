package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
	"github.com/shopspring/decimal"
)

// PostingQuery selects whether a submitted document is posted or kept as a draft.
type PostingQuery struct {
	Draft bool `form:"draft"`
}

// InvoiceItemRequest is one net amount on an invoice.
type InvoiceItemRequest struct {
	AccountID   string       `json:"accountID"`
	Description string       `json:"description"`
	Amount      domain.Money `json:"amount" binding:"amount"`
}

func toInvoiceItems(items []InvoiceItemRequest) []sources.InvoiceItem {
	out := make([]sources.InvoiceItem, len(items))
	for i, it := range items {
		out[i] = sources.InvoiceItem{AccountID: it.AccountID, Description: it.Description, Amount: it.Amount}
	}
	return out
}

// SalesInvoiceRequest defines a customer invoice or credit note.
type SalesInvoiceRequest struct {
	InvoiceID           string               `json:"invoiceID" binding:"required"`
	InvoiceDate         time.Time            `json:"invoiceDate" binding:"required"`
	CustomerName        string               `json:"customerName"`
	Description         string               `json:"description"`
	Items               []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountAmount      domain.Money         `json:"discountAmount" binding:"gte=0"`
	VATPercent          decimal.Decimal      `json:"vatPercent" binding:"gte=0,lte=100"`
	PaidAmount          domain.Money         `json:"paidAmount" binding:"gte=0"`
	PaymentAccountID    string               `json:"paymentAccountID"`
	ReceivableAccountID string               `json:"receivableAccountID"`
	IsReturn            bool                 `json:"isReturn"`
}

// ToDocument converts the request to a sales source document.
func (r SalesInvoiceRequest) ToDocument() sources.SalesInvoice {
	return sources.SalesInvoice{
		InvoiceID:           r.InvoiceID,
		InvoiceDate:         r.InvoiceDate,
		CustomerName:        r.CustomerName,
		Description:         r.Description,
		Items:               toInvoiceItems(r.Items),
		DiscountAmount:      r.DiscountAmount,
		VATPercent:          r.VATPercent,
		PaidAmount:          r.PaidAmount,
		PaymentAccountID:    r.PaymentAccountID,
		ReceivableAccountID: r.ReceivableAccountID,
		IsReturn:            r.IsReturn,
	}
}

// SupplierInvoiceRequest defines a bill received from a supplier.
type SupplierInvoiceRequest struct {
	InvoiceID        string               `json:"invoiceID" binding:"required"`
	InvoiceDate      time.Time            `json:"invoiceDate" binding:"required"`
	SupplierName     string               `json:"supplierName"`
	Description      string               `json:"description"`
	Items            []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountAmount   domain.Money         `json:"discountAmount" binding:"gte=0"`
	VATPercent       decimal.Decimal      `json:"vatPercent" binding:"gte=0,lte=100"`
	PaidAmount       domain.Money         `json:"paidAmount" binding:"gte=0"`
	PaymentAccountID string               `json:"paymentAccountID"`
	PayableAccountID string               `json:"payableAccountID"`
}

// ToDocument converts the request to a purchases source document.
func (r SupplierInvoiceRequest) ToDocument() sources.SupplierInvoice {
	return sources.SupplierInvoice{
		InvoiceID:        r.InvoiceID,
		InvoiceDate:      r.InvoiceDate,
		SupplierName:     r.SupplierName,
		Description:      r.Description,
		Items:            toInvoiceItems(r.Items),
		DiscountAmount:   r.DiscountAmount,
		VATPercent:       r.VATPercent,
		PaidAmount:       r.PaidAmount,
		PaymentAccountID: r.PaymentAccountID,
		PayableAccountID: r.PayableAccountID,
	}
}

// VoucherRequest defines a cash or bank receipt or payment.
type VoucherRequest struct {
	VoucherID            string              `json:"voucherID" binding:"required"`
	VoucherDate          time.Time           `json:"voucherDate" binding:"required"`
	Kind                 sources.VoucherKind `json:"kind" binding:"required,oneof=RECEIPT PAYMENT"`
	Description          string              `json:"description"`
	Amount               domain.Money        `json:"amount" binding:"amount"`
	CashAccountID        string              `json:"cashAccountID"`
	CounterpartAccountID string              `json:"counterpartAccountID"`
}

// ToDocument converts the request to a treasury voucher.
func (r VoucherRequest) ToDocument() sources.Voucher {
	return sources.Voucher{
		VoucherID:            r.VoucherID,
		VoucherDate:          r.VoucherDate,
		Kind:                 r.Kind,
		Description:          r.Description,
		Amount:               r.Amount,
		CashAccountID:        r.CashAccountID,
		CounterpartAccountID: r.CounterpartAccountID,
	}
}

// JournalLineRequest is one explicit line of a manual entry.
type JournalLineRequest struct {
	AccountID   string       `json:"accountID" binding:"required"`
	Debit       domain.Money `json:"debit" binding:"gte=0"`
	Credit      domain.Money `json:"credit" binding:"gte=0"`
	Description string       `json:"description"`
}

// JournalVoucherRequest defines a manual entry with explicit lines.
type JournalVoucherRequest struct {
	VoucherID   string               `json:"voucherID" binding:"required"`
	VoucherDate time.Time            `json:"voucherDate" binding:"required"`
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToDocument converts the request to a journal voucher. Each line must carry exactly
// one positive side.
func (r JournalVoucherRequest) ToDocument() (sources.JournalVoucher, error) {
	lines := make([]domain.JournalLine, len(r.Lines))
	for i, l := range r.Lines {
		line, err := domain.NewJournalLine(l.AccountID, l.Debit, l.Credit, l.Description)
		if err != nil {
			return sources.JournalVoucher{}, err
		}
		lines[i] = line
	}
	return sources.JournalVoucher{
		VoucherID:   r.VoucherID,
		VoucherDate: r.VoucherDate,
		Description: r.Description,
		Lines:       lines,
	}, nil
}

// SettlementDeductionRequest is an amount withheld from a settlement.
type SettlementDeductionRequest struct {
	AccountID   string       `json:"accountID" binding:"required"`
	Description string       `json:"description"`
	Amount      domain.Money `json:"amount" binding:"amount"`
}

// EmployeeSettlementRequest defines a salary or end-of-service settlement.
type EmployeeSettlementRequest struct {
	SettlementID     string                       `json:"settlementID" binding:"required"`
	SettlementDate   time.Time                    `json:"settlementDate" binding:"required"`
	EmployeeID       string                       `json:"employeeID" binding:"required"`
	Description      string                       `json:"description"`
	GrossAmount      domain.Money                 `json:"grossAmount" binding:"amount"`
	ExpenseAccountID string                       `json:"expenseAccountID"`
	Deductions       []SettlementDeductionRequest `json:"deductions" binding:"dive"`
	PaymentAccountID string                       `json:"paymentAccountID"`
}

// ToDocument converts the request to a payroll settlement.
func (r EmployeeSettlementRequest) ToDocument() sources.EmployeeSettlement {
	deductions := make([]sources.SettlementDeduction, len(r.Deductions))
	for i, d := range r.Deductions {
		deductions[i] = sources.SettlementDeduction{AccountID: d.AccountID, Description: d.Description, Amount: d.Amount}
	}
	return sources.EmployeeSettlement{
		SettlementID:     r.SettlementID,
		SettlementDate:   r.SettlementDate,
		EmployeeID:       r.EmployeeID,
		Description:      r.Description,
		GrossAmount:      r.GrossAmount,
		ExpenseAccountID: r.ExpenseAccountID,
		Deductions:       deductions,
		PaymentAccountID: r.PaymentAccountID,
	}
}

// OpeningBalanceEntryRequest is the carried-forward balance of one account.
type OpeningBalanceEntryRequest struct {
	AccountID string       `json:"accountID" binding:"required"`
	Debit     domain.Money `json:"debit" binding:"gte=0"`
	Credit    domain.Money `json:"credit" binding:"gte=0"`
}

// OpeningBalanceRequest defines the balances a ledger starts from.
type OpeningBalanceRequest struct {
	BatchID         string                       `json:"batchID" binding:"required"`
	AsOf            time.Time                    `json:"asOf" binding:"required"`
	Description     string                       `json:"description"`
	Entries         []OpeningBalanceEntryRequest `json:"entries" binding:"required,min=1,dive"`
	EquityAccountID string                       `json:"equityAccountID"`
}

// ToDocument converts the request to an opening balance batch.
func (r OpeningBalanceRequest) ToDocument() sources.OpeningBalance {
	entries := make([]sources.OpeningBalanceEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = sources.OpeningBalanceEntry{AccountID: e.AccountID, Debit: e.Debit, Credit: e.Credit}
	}
	return sources.OpeningBalance{
		BatchID:         r.BatchID,
		AsOf:            r.AsOf,
		Description:     r.Description,
		Entries:         entries,
		EquityAccountID: r.EquityAccountID,
	}
}
