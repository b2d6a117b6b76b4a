package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingHandlerTestSuite struct {
	routerSuite
}

func TestReportingHandler(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}

func (s *ReportingHandlerTestSuite) TestTrialBalance() {
	asOf := time.Date(2025, 6, 30, 23, 59, 59, 999999999, time.UTC)
	s.reporting.On("TrialBalance", mock.Anything, asOf).Return(&domain.TrialBalance{
		AsOf: asOf,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: domain.MustMoney("300"), Credit: domain.ZeroMoney()},
			{AccountID: "4000", AccountName: "Revenue", AccountType: domain.Revenue, Debit: domain.ZeroMoney(), Credit: domain.MustMoney("300")},
		},
		TotalDebit:  domain.MustMoney("300"),
		TotalCredit: domain.MustMoney("300"),
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2025-06-30", nil)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.TrialBalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.Balanced)
	s.Len(resp.Rows, 2)
	s.Equal("300.00", resp.Rows[1].Balance.String(), "revenue balance is credit-positive")
}

func (s *ReportingHandlerTestSuite) TestTrialBalance_Inconsistent() {
	s.reporting.On("TrialBalance", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: debits 10.00 credits 9.00", apperrors.ErrLedgerInconsistent)).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/trial-balance", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("LEDGER_INCONSISTENT", s.decodeError(w).Code)
}

func (s *ReportingHandlerTestSuite) TestTrialBalance_BadDate() {
	w := s.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=yesterday", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ReportingHandlerTestSuite) TestVerify_ReportsDiscrepancies() {
	s.reporting.On("VerifyLedger", mock.Anything).Return(&domain.LedgerVerification{
		AccountsChecked: 3,
		Discrepancies: []domain.BalanceDiscrepancy{
			{AccountID: "1000", AccountType: domain.Asset, CachedBalance: domain.MustMoney("10"), ComputedBalance: domain.MustMoney("5")},
		},
		Imbalance: domain.MustMoney("5"),
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/verify", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.VerificationResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.Consistent)
	s.Len(resp.Discrepancies, 1)
}

func (s *ReportingHandlerTestSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)

	s.healthErr = errBoom
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusServiceUnavailable, w.Code)
}
