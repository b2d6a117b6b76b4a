package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
	"github.com/SscSPs/ledger_posting_engine/internal/repositories/database/boltdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var farFuture = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

var testChart = []domain.Account{
	{AccountID: "1000", Name: "Cash", AccountType: domain.Asset},
	{AccountID: "1100", Name: "Accounts receivable", AccountType: domain.Asset},
	{AccountID: "1300", Name: "VAT receivable", AccountType: domain.Asset},
	{AccountID: "2000", Name: "Accounts payable", AccountType: domain.Liability},
	{AccountID: "2100", Name: "VAT payable", AccountType: domain.Liability},
	{AccountID: "2200", Name: "Social insurance payable", AccountType: domain.Liability},
	{AccountID: "3900", Name: "Opening balance equity", AccountType: domain.Equity},
	{AccountID: "4000", Name: "Sales revenue", AccountType: domain.Revenue},
	{AccountID: "4900", Name: "Sales discount", AccountType: domain.Expense},
	{AccountID: "5000", Name: "Purchases", AccountType: domain.Expense},
	{AccountID: "5900", Name: "Purchase discount", AccountType: domain.Revenue},
	{AccountID: "6000", Name: "Salary expense", AccountType: domain.Expense},
}

type ledgerFixture struct {
	store     *boltdb.Store
	engine    portssvc.PostingEngine
	documents portssvc.DocumentPostingSvc
	reporting portssvc.ReportingService
	journals  portsrepo.JournalReader
}

func newLedgerFixture(t *testing.T, wrap func(portsrepo.LedgerStore) portsrepo.LedgerStore) *ledgerFixture {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for _, acc := range testChart {
		acc.IsActive = true
		acc.AuditFields = domain.NewAuditFields("seed", time.Now().UTC())
		require.NoError(t, store.SaveAccount(ctx, acc))
	}

	var ledger portsrepo.LedgerStore = store
	if wrap != nil {
		ledger = wrap(store)
	}
	engine := services.NewPostingEngine(ledger)
	return &ledgerFixture{
		store:     store,
		engine:    engine,
		documents: services.NewDocumentService(engine, testAccountMap),
		reporting: services.NewReportingService(store, services.WithStatementPageSize(2)),
		journals:  store,
	}
}

func (f *ledgerFixture) balance(t *testing.T, accountID string) domain.Money {
	t.Helper()
	acc, err := f.store.FindAccountByID(context.Background(), accountID)
	require.NoError(t, err)
	return acc.Balance
}

func (f *ledgerFixture) balances(t *testing.T) map[string]string {
	t.Helper()
	out := make(map[string]string, len(testChart))
	for _, acc := range testChart {
		out[acc.AccountID] = f.balance(t, acc.AccountID).String()
	}
	return out
}

// assertConsistent checks that the trial balance balances and every cached balance
// equals the sum of its posted lines.
func (f *ledgerFixture) assertConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	tb, err := f.reporting.TrialBalance(ctx, farFuture)
	require.NoError(t, err)
	assert.True(t, tb.Balanced())

	v, err := f.reporting.VerifyLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Discrepancies)
	assert.True(t, v.Imbalance.IsZero(), "imbalance %s", v.Imbalance)
}

func salesInvoice(id string) sources.SalesInvoice {
	return sources.SalesInvoice{
		InvoiceID:    id,
		InvoiceDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		CustomerName: "Acme",
		Items:        []sources.InvoiceItem{{Amount: domain.MustMoney("1000")}},
		VATPercent:   decimal.NewFromInt(15),
	}
}

func supplierInvoice(id string) sources.SupplierInvoice {
	return sources.SupplierInvoice{
		InvoiceID:    id,
		InvoiceDate:  time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		SupplierName: "Globex",
		Items:        []sources.InvoiceItem{{Amount: domain.MustMoney("400")}},
		VATPercent:   decimal.NewFromInt(15),
	}
}

func TestLedger_SalesInvoiceThenReceipt(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	inv, err := f.documents.Submit(ctx, salesInvoice("INV-100"), portssvc.PostImmediately, "clerk")
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, inv.Status)

	assert.Equal(t, "1150.00", f.balance(t, "1100").String())
	assert.Equal(t, "1000.00", f.balance(t, "4000").String())
	assert.Equal(t, "150.00", f.balance(t, "2100").String())

	_, err = f.documents.Submit(ctx, sources.Voucher{
		VoucherID:   "RV-1",
		VoucherDate: time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC),
		Kind:        sources.Receipt,
		Amount:      domain.MustMoney("1150"),
	}, portssvc.PostImmediately, "clerk")
	require.NoError(t, err)

	assert.Equal(t, "1150.00", f.balance(t, "1000").String())
	assert.True(t, f.balance(t, "1100").IsZero())
	f.assertConsistent(t)

	stored, err := f.journals.FindJournalByID(ctx, inv.JournalID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 3)
	assert.Equal(t, "1150.00", stored.Lines[0].BalanceAfter.String())
}

func TestLedger_PostIsIdempotent(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	first, err := f.documents.Submit(ctx, supplierInvoice("BILL-7"), portssvc.PostImmediately, "clerk")
	require.NoError(t, err)
	before := f.balances(t)

	_, err = f.documents.Submit(ctx, supplierInvoice("BILL-7"), portssvc.PostImmediately, "clerk")
	require.ErrorIs(t, err, apperrors.ErrDuplicatePosting)
	assert.False(t, apperrors.IsRetryable(err))
	assert.Equal(t, before, f.balances(t))

	page, _, err := f.journals.ListJournals(ctx, domain.JournalFilter{SourceDocumentID: "BILL-7"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.JournalID, page[0].JournalID)
}

func TestLedger_ConcurrentDuplicatePosts(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.documents.Submit(ctx, supplierInvoice("BILL-9"), portssvc.PostImmediately, "clerk")
		}()
	}
	wg.Wait()

	succeeded, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrDuplicatePosting):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, duplicates)
	assert.Equal(t, "460.00", f.balance(t, "2000").String())
	f.assertConsistent(t)
}

func TestLedger_ReverseRestoresBalancesAndAllowsRepost(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	before := f.balances(t)
	posted, err := f.documents.Submit(ctx, salesInvoice("INV-200"), portssvc.PostImmediately, "clerk")
	require.NoError(t, err)

	reversal, err := f.engine.Reverse(ctx, posted.JournalID, "controller")
	require.NoError(t, err)
	assert.Equal(t, before, f.balances(t))
	require.NotNil(t, reversal.OriginalJournalID)
	assert.Equal(t, posted.JournalID, *reversal.OriginalJournalID)

	original, err := f.journals.FindJournalByID(ctx, posted.JournalID)
	require.NoError(t, err)
	assert.Equal(t, domain.Reversed, original.Status)
	require.NotNil(t, original.ReversingJournalID)
	assert.Equal(t, reversal.JournalID, *original.ReversingJournalID)

	_, err = f.engine.Reverse(ctx, posted.JournalID, "controller")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	_, err = f.engine.Reverse(ctx, reversal.JournalID, "controller")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

	reposted, err := f.documents.Submit(ctx, salesInvoice("INV-200"), portssvc.PostImmediately, "clerk")
	require.NoError(t, err)
	assert.Equal(t, domain.DeriveRevisionID(posted.Key(), 2), reposted.JournalID)
	assert.Equal(t, "1150.00", f.balance(t, "1100").String())
	f.assertConsistent(t)
}

func TestLedger_UnpostThenPostDraft(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	voucher := sources.Voucher{
		VoucherID:   "PV-3",
		VoucherDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Kind:        sources.Payment,
		Amount:      domain.MustMoney("75.50"),
	}
	posted, err := f.documents.Submit(ctx, voucher, portssvc.PostImmediately, "clerk")
	require.NoError(t, err)
	assert.Equal(t, "-75.50", f.balance(t, "1000").String())

	result, err := f.engine.Unpost(ctx, posted.JournalID, "clerk")
	require.NoError(t, err)
	assert.True(t, f.balance(t, "1000").IsZero())
	assert.Equal(t, domain.Draft, result.Draft.Status)
	assert.Equal(t, posted.Key(), result.Draft.Key())
	assert.NotEqual(t, posted.JournalID, result.Draft.JournalID)

	again, err := f.engine.PostDraft(ctx, result.Draft.JournalID, "clerk")
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, again.Status)
	assert.Equal(t, "-75.50", f.balance(t, "1000").String())
	f.assertConsistent(t)

	_, err = f.engine.Unpost(ctx, posted.JournalID, "clerk")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestLedger_DraftLifecycle(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	settlement := sources.EmployeeSettlement{
		SettlementID:   "SET-1",
		SettlementDate: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		EmployeeID:     "E-12",
		GrossAmount:    domain.MustMoney("3000"),
		Deductions:     []sources.SettlementDeduction{{AccountID: "2200", Amount: domain.MustMoney("270")}},
	}
	draft, err := f.documents.Submit(ctx, settlement, portssvc.SaveAsDraft, "hr")
	require.NoError(t, err)
	assert.Equal(t, domain.Draft, draft.Status)
	assert.True(t, f.balance(t, "6000").IsZero(), "drafts never touch balances")

	tb, err := f.reporting.TrialBalance(ctx, farFuture)
	require.NoError(t, err)
	assert.Empty(t, tb.Rows)

	_, err = f.documents.Submit(ctx, settlement, portssvc.SaveAsDraft, "hr")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	require.NoError(t, f.engine.DeleteDraft(ctx, draft.JournalID, "hr"))
	_, err = f.journals.FindJournalByID(ctx, draft.JournalID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	draft, err = f.documents.Submit(ctx, settlement, portssvc.SaveAsDraft, "hr")
	require.NoError(t, err)
	posted, err := f.engine.PostDraft(ctx, draft.JournalID, "hr")
	require.NoError(t, err)
	assert.Equal(t, "3000.00", f.balance(t, "6000").String())
	assert.Equal(t, "270.00", f.balance(t, "2200").String())
	assert.Equal(t, "-2730.00", f.balance(t, "1000").String())

	err = f.engine.DeleteDraft(ctx, posted.JournalID, "hr")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	f.assertConsistent(t)
}

func TestLedger_PostReplacesPendingDraft(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	draft, err := f.documents.Submit(ctx, salesInvoice("INV-300"), portssvc.SaveAsDraft, "clerk")
	require.NoError(t, err)

	posted, err := f.documents.Submit(ctx, salesInvoice("INV-300"), portssvc.PostImmediately, "clerk")
	require.NoError(t, err)
	assert.Equal(t, draft.JournalID, posted.JournalID)

	page, _, err := f.journals.ListJournals(ctx, domain.JournalFilter{SourceDocumentID: "INV-300"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.Posted, page[0].Status)
}

func TestLedger_UnknownAccountLeavesNothing(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	inv := salesInvoice("INV-400")
	inv.Items[0].AccountID = "9999"
	_, err := f.documents.Submit(ctx, inv, portssvc.PostImmediately, "clerk")
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	page, _, err := f.journals.ListJournals(ctx, domain.JournalFilter{}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page)
	f.assertConsistent(t)
}

// faultyStore wraps every transaction so that ApplyDelta fails on its failAt-th call.
type faultyStore struct {
	inner  portsrepo.LedgerStore
	failAt int
	cancel context.CancelFunc
}

func (s *faultyStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return s.inner.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return fn(ctx, &faultyTx{LedgerTx: tx, store: s})
	})
}

type faultyTx struct {
	portsrepo.LedgerTx
	store  *faultyStore
	deltas int
}

func (t *faultyTx) ApplyDelta(ctx context.Context, accountID string, delta domain.Money, actor string, at time.Time) error {
	t.deltas++
	if t.deltas == t.store.failAt {
		if t.store.cancel != nil {
			t.store.cancel()
		} else {
			return errors.New("disk I/O error")
		}
	}
	return t.LedgerTx.ApplyDelta(ctx, accountID, delta, actor, at)
}

func TestLedger_FailureMidPostingAppliesNothing(t *testing.T) {
	f := newLedgerFixture(t, func(inner portsrepo.LedgerStore) portsrepo.LedgerStore {
		return &faultyStore{inner: inner, failAt: 2}
	})
	ctx := context.Background()
	before := f.balances(t)

	_, err := f.documents.Submit(ctx, salesInvoice("INV-500"), portssvc.PostImmediately, "clerk")

	require.ErrorIs(t, err, apperrors.ErrTransactionAborted)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, before, f.balances(t))
	page, _, err := f.journals.ListJournals(ctx, domain.JournalFilter{}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page)
	f.assertConsistent(t)
}

func TestLedger_CancellationRollsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newLedgerFixture(t, func(inner portsrepo.LedgerStore) portsrepo.LedgerStore {
		return &faultyStore{inner: inner, failAt: 2, cancel: cancel}
	})
	before := f.balances(t)

	_, err := f.documents.Submit(ctx, salesInvoice("INV-600"), portssvc.PostImmediately, "clerk")

	require.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apperrors.ErrTransactionAborted)
	assert.Equal(t, before, f.balances(t))

	_, err = f.journals.FindJournalByID(context.Background(), domain.DeriveJournalID(salesInvoice("INV-600").Key()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedger_BalanceInvariantAcrossMixedActivity(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	_, err := f.documents.Submit(ctx, sources.OpeningBalance{
		BatchID: "OB-2025",
		AsOf:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Entries: []sources.OpeningBalanceEntry{
			{AccountID: "1000", Debit: domain.MustMoney("5000")},
			{AccountID: "2000", Credit: domain.MustMoney("1200")},
		},
	}, portssvc.PostImmediately, "admin")
	require.NoError(t, err)
	f.assertConsistent(t)

	for _, id := range []string{"INV-1", "INV-2", "INV-3"} {
		_, err := f.documents.Submit(ctx, salesInvoice(id), portssvc.PostImmediately, "clerk")
		require.NoError(t, err)
		f.assertConsistent(t)
	}
	bill, err := f.documents.Submit(ctx, supplierInvoice("BILL-1"), portssvc.PostImmediately, "clerk")
	require.NoError(t, err)
	f.assertConsistent(t)

	_, err = f.engine.Reverse(ctx, bill.JournalID, "controller")
	require.NoError(t, err)
	f.assertConsistent(t)

	line1, err := domain.NewJournalLine("6000", domain.MustMoney("120.10"), domain.ZeroMoney(), "Office rent share")
	require.NoError(t, err)
	line2, err := domain.NewJournalLine("1000", domain.ZeroMoney(), domain.MustMoney("120.10"), "")
	require.NoError(t, err)
	_, err = f.documents.Submit(ctx, sources.JournalVoucher{
		VoucherID:   "JV-1",
		VoucherDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Lines:       []domain.JournalLine{line1, line2},
	}, portssvc.PostImmediately, "clerk")
	require.NoError(t, err)
	f.assertConsistent(t)

	var cash []domain.StatementLine
	for line, err := range f.reporting.AccountStatement(ctx, "1000", domain.DateRange{}) {
		require.NoError(t, err)
		cash = append(cash, line)
	}
	require.Len(t, cash, 2)
	assert.Equal(t, "5000.00", cash[0].BalanceAfter.String())
	assert.Equal(t, "4879.90", cash[1].BalanceAfter.String())
	assert.Equal(t, "4879.90", f.balance(t, "1000").String())
}
