package accounting_test

import (
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(accountID, debit, credit string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: domain.MustMoney(debit), Credit: domain.MustMoney(credit)}
}

func TestNetAccountDeltas(t *testing.T) {
	accounts := map[string]domain.Account{
		"AR":  {AccountID: "AR", AccountType: domain.Asset},
		"REV": {AccountID: "REV", AccountType: domain.Revenue},
		"VAT": {AccountID: "VAT", AccountType: domain.Liability},
	}
	lines := []domain.JournalLine{
		line("AR", "1150", "0"),
		line("REV", "0", "1000"),
		line("VAT", "0", "150"),
	}

	deltas, err := accounting.NetAccountDeltas(lines, accounts)
	require.NoError(t, err)
	assert.Equal(t, "1150.00", deltas["AR"].String())
	assert.Equal(t, "1000.00", deltas["REV"].String())
	assert.Equal(t, "150.00", deltas["VAT"].String())

	_, err = accounting.NetAccountDeltas([]domain.JournalLine{line("MISSING", "1", "0")}, accounts)
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestValidateRawDeltas(t *testing.T) {
	assert.NoError(t, accounting.ValidateRawDeltas([]domain.JournalLine{line("A", "10", "0"), line("B", "0", "10")}))
	assert.ErrorIs(t, accounting.ValidateRawDeltas([]domain.JournalLine{line("A", "10", "0"), line("B", "0", "9")}), apperrors.ErrUnbalancedEntry)
}

func TestApplyRunningBalances(t *testing.T) {
	accounts := map[string]domain.Account{
		"CASH": {AccountID: "CASH", AccountType: domain.Asset, Balance: domain.MustMoney("100")},
		"AR":   {AccountID: "AR", AccountType: domain.Asset, Balance: domain.MustMoney("800")},
	}
	lines := []domain.JournalLine{
		line("CASH", "500", "0"),
		line("AR", "0", "300"),
		line("AR", "0", "200"),
	}

	require.NoError(t, accounting.ApplyRunningBalances(lines, accounts))
	assert.Equal(t, "600.00", lines[0].BalanceAfter.String())
	assert.Equal(t, "500.00", lines[1].BalanceAfter.String())
	assert.Equal(t, "300.00", lines[2].BalanceAfter.String())
	assert.Equal(t, "800.00", accounts["AR"].Balance.String())
}

func TestLedgerImbalance(t *testing.T) {
	healthy := []domain.Account{
		{AccountType: domain.Asset, Balance: domain.MustMoney("1150")},
		{AccountType: domain.Revenue, Balance: domain.MustMoney("1000")},
		{AccountType: domain.Liability, Balance: domain.MustMoney("150")},
	}
	assert.True(t, accounting.LedgerImbalance(healthy).IsZero())

	broken := append(healthy, domain.Account{AccountType: domain.Expense, Balance: domain.MustMoney("1")})
	assert.Equal(t, "1.00", accounting.LedgerImbalance(broken).String())
}
