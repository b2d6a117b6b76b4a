package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, accountID, debit, credit string) domain.JournalLine {
	t.Helper()
	l, err := domain.NewJournalLine(accountID, domain.MustMoney(debit), domain.MustMoney(credit), "")
	require.NoError(t, err)
	return l
}

func TestNewJournalLine_SideExclusivity(t *testing.T) {
	tests := []struct {
		name    string
		debit   string
		credit  string
		wantErr error
	}{
		{name: "debit only", debit: "10", credit: "0"},
		{name: "credit only", debit: "0", credit: "10"},
		{name: "both sides", debit: "10", credit: "10", wantErr: apperrors.ErrInvalidAmount},
		{name: "neither side", debit: "0", credit: "0", wantErr: apperrors.ErrInvalidAmount},
		{name: "negative debit", debit: "-10", credit: "0", wantErr: apperrors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewJournalLine("1000", domain.MustMoney(tt.debit), domain.MustMoney(tt.credit), "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewJournal_Validation(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	base := func(lines ...domain.JournalLine) domain.JournalParams {
		return domain.JournalParams{
			JournalID:        "j-1",
			JournalDate:      date,
			Description:      "test",
			SourceModule:     domain.SourceTreasury,
			SourceDocumentID: "doc-1",
			Purpose:          "journal",
			Lines:            lines,
		}
	}

	t.Run("balanced entry", func(t *testing.T) {
		j, err := domain.NewJournal(base(mustLine(t, "1000", "50", "0"), mustLine(t, "4000", "0", "50")))
		require.NoError(t, err)
		assert.Equal(t, domain.Draft, j.Status)
		assert.Equal(t, 1, j.Lines[0].LineNo)
		assert.Equal(t, 2, j.Lines[1].LineNo)
		assert.Equal(t, "j-1", j.Lines[1].JournalID)
		assert.NotEmpty(t, j.Lines[0].LineID)
	})

	t.Run("unbalanced entry", func(t *testing.T) {
		_, err := domain.NewJournal(base(mustLine(t, "1000", "50", "0"), mustLine(t, "4000", "0", "49.99")))
		assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	})

	t.Run("single line", func(t *testing.T) {
		_, err := domain.NewJournal(base(mustLine(t, "1000", "50", "0")))
		assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	})

	t.Run("no lines", func(t *testing.T) {
		_, err := domain.NewJournal(base())
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("missing purpose", func(t *testing.T) {
		p := base(mustLine(t, "1000", "50", "0"), mustLine(t, "4000", "0", "50"))
		p.Purpose = ""
		_, err := domain.NewJournal(p)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestJournalStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to domain.JournalStatus
		allowed  bool
	}{
		{domain.Draft, domain.Posted, true},
		{domain.Posted, domain.Reversed, true},
		{domain.Draft, domain.Reversed, false},
		{domain.Posted, domain.Draft, false},
		{domain.Reversed, domain.Posted, false},
		{domain.Reversed, domain.Draft, false},
		{domain.Posted, domain.Posted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
			err := tt.from.ValidateTransition(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
			}
		})
	}

	assert.True(t, domain.Draft.CanDelete())
	assert.False(t, domain.Posted.CanDelete())
	assert.False(t, domain.Reversed.CanDelete())
}

func TestJournal_ReversalSwapsSides(t *testing.T) {
	j, err := domain.NewJournal(domain.JournalParams{
		JournalID:        "j-1",
		JournalDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:      "cash receipt",
		SourceModule:     domain.SourceTreasury,
		SourceDocumentID: "rv-1",
		Purpose:          "receipt",
		Lines:            []domain.JournalLine{mustLine(t, "1000", "500", "0"), mustLine(t, "1100", "0", "500")},
	})
	require.NoError(t, err)

	at := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	rev := j.Reversal("rev-1", at)

	require.NoError(t, rev.Validate())
	assert.Equal(t, domain.Posted, rev.Status)
	assert.Equal(t, "j-1", *rev.OriginalJournalID)
	assert.Equal(t, domain.ReversalPurpose("j-1"), rev.Purpose)
	assert.True(t, rev.IsReversal())
	assert.Equal(t, "0.00", rev.Lines[0].Debit.String())
	assert.Equal(t, "500.00", rev.Lines[0].Credit.String())
	assert.Equal(t, "500.00", rev.Lines[1].Debit.String())
	assert.NotEqual(t, j.Lines[0].LineID, rev.Lines[0].LineID)
	assert.Equal(t, "rev-1", rev.Lines[0].JournalID)
}

func TestJournal_Redraft(t *testing.T) {
	j, err := domain.NewJournal(domain.JournalParams{
		JournalID:        "j-1",
		JournalDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SourceModule:     domain.SourcePayroll,
		SourceDocumentID: "st-1",
		Purpose:          "settlement",
		Lines:            []domain.JournalLine{mustLine(t, "6000", "100", "0"), mustLine(t, "1000", "0", "100")},
	})
	require.NoError(t, err)
	j.Status = domain.Posted

	d := j.Redraft("j-1-r2")
	assert.Equal(t, domain.Draft, d.Status)
	assert.Equal(t, j.Key(), d.Key())
	assert.Equal(t, "j-1-r2", d.Lines[0].JournalID)
	assert.Nil(t, d.OriginalJournalID)
	assert.NoError(t, d.Validate())
}

func TestDeriveIDs_AreDeterministic(t *testing.T) {
	key := domain.IdempotencyKey{SourceModule: domain.SourceSales, SourceDocumentID: "INV-1", Purpose: "invoice"}
	other := domain.IdempotencyKey{SourceModule: domain.SourcePurchases, SourceDocumentID: "INV-1", Purpose: "invoice"}

	assert.Equal(t, domain.DeriveJournalID(key), domain.DeriveJournalID(key))
	assert.NotEqual(t, domain.DeriveJournalID(key), domain.DeriveJournalID(other))
	assert.Equal(t, domain.DeriveJournalID(key), domain.DeriveRevisionID(key, 1))
	assert.Equal(t, domain.DeriveJournalID(key)+"-r3", domain.DeriveRevisionID(key, 3))
	assert.Equal(t, domain.DeriveReversalID("a"), domain.DeriveReversalID("a"))
	assert.NotEqual(t, domain.DeriveReversalID("a"), domain.DeriveReversalID("b"))
}

func TestAccountType_SignedDelta(t *testing.T) {
	debit := domain.MustMoney("100")
	zero := domain.ZeroMoney()

	assert.Equal(t, "100.00", domain.Asset.SignedDelta(debit, zero).String())
	assert.Equal(t, "100.00", domain.Expense.SignedDelta(debit, zero).String())
	assert.Equal(t, "-100.00", domain.Liability.SignedDelta(debit, zero).String())
	assert.Equal(t, "-100.00", domain.Equity.SignedDelta(debit, zero).String())
	assert.Equal(t, "100.00", domain.Revenue.SignedDelta(zero, debit).String())
	assert.False(t, domain.AccountType("INCOME").IsValid())
}
