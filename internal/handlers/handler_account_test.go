package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	routerSuite
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}

func (s *AccountHandlerTestSuite) TestCreateAccount_Success() {
	parent := "3000"
	req := dto.CreateAccountRequest{AccountID: "3900", Name: "Opening balance equity", AccountType: domain.Equity, ParentAccountID: &parent}
	s.accounts.On("CreateAccount", mock.Anything, req, testUserID).
		Return(&domain.Account{AccountID: "3900", Name: req.Name, AccountType: domain.Equity, ParentAccountID: parent, IsActive: true, Balance: domain.ZeroMoney()}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", req)

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("3900", resp.AccountID)
	s.Equal("3000", resp.ParentAccountID)
	s.Equal("0.00", resp.Balance.String())
}

func (s *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	w := s.do(http.MethodPost, "/api/v1/accounts", `{"name":"Cash","accountType":"CASH"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_FAILED", s.decodeError(w).Code)
	s.accounts.AssertNotCalled(s.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountHandlerTestSuite) TestCreateAccount_Duplicate() {
	s.accounts.On("CreateAccount", mock.Anything, mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: account 1000 already exists", apperrors.ErrDuplicate)).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", `{"accountID":"1000","name":"Cash","accountType":"ASSET"}`)

	s.Equal(http.StatusConflict, w.Code)
	resp := s.decodeError(w)
	s.Equal("DUPLICATE", resp.Code)
	s.False(resp.Informational)
}

func (s *AccountHandlerTestSuite) TestRequiresToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AccountHandlerTestSuite) TestRejectsForeignSignature() {
	s.jwtSecret = "some-other-secret"
	token := s.token(testUserID)
	s.jwtSecret = "test-secret-key-that-is-long-enough"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AccountHandlerTestSuite) TestListAccounts_DefaultPage() {
	s.accounts.On("ListAccounts", mock.Anything, 50, 0).
		Return([]domain.Account{{AccountID: "1000", Name: "Cash", AccountType: domain.Asset}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Accounts, 1)
}

func (s *AccountHandlerTestSuite) TestListAccounts_LimitOutOfRange() {
	w := s.do(http.MethodGet, "/api/v1/accounts?limit=0", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	s.accounts.On("GetAccountByID", mock.Anything, "9999").Return(nil, apperrors.NewNotFoundError("account 9999")).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/9999", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *AccountHandlerTestSuite) TestBalance() {
	s.accounts.On("CurrentBalance", mock.Anything, "1000").Return(domain.MustMoney("-1150"), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/1000/balance", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("-1150.00", resp.Balance.String())
	s.Equal("-1,150.00", resp.Display)
}

func (s *AccountHandlerTestSuite) TestDeactivate() {
	s.accounts.On("DeactivateAccount", mock.Anything, "6000", testUserID).Return(nil).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts/6000/deactivate", nil)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *AccountHandlerTestSuite) TestDeactivate_StillCarriesBalance() {
	s.accounts.On("DeactivateAccount", mock.Anything, "1000", testUserID).
		Return(apperrors.NewValidationError("account 1000 still carries a balance of 10.00")).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts/1000/deactivate", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_FAILED", s.decodeError(w).Code)
}

func (s *AccountHandlerTestSuite) TestStatement_InclusiveDates() {
	next := "token-2"
	s.reporting.On("StatementPage", mock.Anything, "1000",
		mock.MatchedBy(func(r domain.DateRange) bool {
			return r.From.Format("2006-01-02") == "2025-01-01" &&
				r.To.Format("2006-01-02 15:04:05") == "2025-01-31 23:59:59"
		}), 2, (*string)(nil)).
		Return([]domain.StatementLine{
			{LineID: "l1", JournalID: "j1", AccountID: "1000", Debit: domain.MustMoney("100"), Credit: domain.ZeroMoney(), BalanceAfter: domain.MustMoney("100")},
			{LineID: "l2", JournalID: "j2", AccountID: "1000", Debit: domain.ZeroMoney(), Credit: domain.MustMoney("40"), BalanceAfter: domain.MustMoney("60")},
		}, &next, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/1000/statement?from=2025-01-01&to=2025-01-31&limit=2", nil)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.StatementResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Lines, 2)
	s.Equal("60.00", resp.Lines[1].BalanceAfter.String())
	s.Require().NotNil(resp.NextToken)
	s.Equal(next, *resp.NextToken)
}

func (s *AccountHandlerTestSuite) TestStatement_BadDate() {
	w := s.do(http.MethodGet, "/api/v1/accounts/1000/statement?from=01-01-2025", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.decodeError(w).Error, "YYYY-MM-DD")
}
