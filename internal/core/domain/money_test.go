package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "whole amount", input: "1000"},
		{name: "two decimals", input: "12.34"},
		{name: "zero", input: "0"},
		{name: "trailing zeros beyond scale", input: "5.100"},
		{name: "negative", input: "-0.01", wantErr: apperrors.ErrInvalidAmount},
		{name: "over precision", input: "1.005", wantErr: apperrors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewAmount(decimal.RequireFromString(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMoneyFromString_RejectsGarbage(t *testing.T) {
	_, err := domain.MoneyFromString("ten")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := domain.MustMoney("100.10")
	b := domain.MustMoney("0.95")

	assert.Equal(t, "101.05", a.Add(b).String())
	assert.Equal(t, "99.15", a.Subtract(b).String())
	assert.Equal(t, "-0.95", b.Neg().String())
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.True(t, a.Subtract(a).IsZero())
	assert.Equal(t, "0.00", domain.Money{}.String())
}

func TestMoney_MultiplyByRate_RoundsOnceHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rates  []string
		want   string
	}{
		{name: "vat on 1000", amount: "1000", rates: []string{"0.15"}, want: "150.00"},
		{name: "half rounds up", amount: "0.10", rates: []string{"0.05"}, want: "0.01"},
		{name: "below half rounds down", amount: "0.10", rates: []string{"0.04"}, want: "0.00"},
		// per-step rounding would give 10.01 * 0.5 = 5.005 -> 5.01 then * 3 = 15.03
		{name: "chain rounds only at the end", amount: "10.01", rates: []string{"0.5", "3"}, want: "15.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := make([]decimal.Decimal, len(tt.rates))
			for i, r := range tt.rates {
				rates[i] = decimal.RequireFromString(r)
			}
			got := domain.MustMoney(tt.amount).MultiplyByRate(rates...)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMoney_MultiplyByPercent(t *testing.T) {
	assert.Equal(t, "150.00", domain.MustMoney("1000").MultiplyByPercent(decimal.NewFromInt(15)).String())
	assert.Equal(t, "0.75", domain.MustMoney("4.99").MultiplyByPercent(decimal.NewFromInt(15)).String())
}

func TestMoney_ToDisplayString(t *testing.T) {
	assert.Equal(t, "1,150.00", domain.MustMoney("1150").ToDisplayString())
	assert.Equal(t, "-1,234,567.50", domain.MustMoney("-1234567.5").ToDisplayString())
	assert.Equal(t, "999.99", domain.MustMoney("999.99").ToDisplayString())
	assert.Equal(t, "0.00", domain.ZeroMoney().ToDisplayString())
}

func TestMoney_JSON(t *testing.T) {
	var payload struct {
		Amount domain.Money `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 12.5}`), &payload))
	assert.Equal(t, "12.50", payload.Amount.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"12.50"}`, string(out))

	err = json.Unmarshal([]byte(`{"amount": "1.234"}`), &payload)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}
