package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	parentID := "1000"
	req := dto.CreateAccountRequest{
		AccountID:       "1010",
		Name:            "Petty cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(&domain.Account{AccountID: parentID}, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.AccountID == "1010" &&
			acc.ParentAccountID == parentID &&
			acc.IsActive &&
			acc.Balance.IsZero() &&
			acc.CreatedBy == "user-1"
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("Petty cash", account.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_GeneratesID() {
	ctx := context.Background()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "Bank", AccountType: domain.Asset}, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Name: "X", AccountType: "CONTRA"}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentProblems() {
	ctx := context.Background()

	self := "2000"
	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{AccountID: "2000", Name: "AP", AccountType: domain.Liability, ParentAccountID: &self}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	missing := "9999"
	suite.mockRepo.On("FindAccountByID", ctx, missing).Return(nil, apperrors.NewNotFoundError("account 9999")).Once()
	_, err = suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "AP", AccountType: domain.Liability, ParentAccountID: &missing}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	ctx := context.Background()
	suite.mockRepo.On("SaveAccount", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{AccountID: "1000", Name: "Cash", AccountType: domain.Asset}, "user-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCurrentBalance() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "1000").Return(&domain.Account{AccountID: "1000", Balance: domain.MustMoney("42.10")}, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, "nope").Return(nil, apperrors.NewNotFoundError("account nope")).Once()

	balance, err := suite.service.CurrentBalance(ctx, "1000")
	suite.Require().NoError(err)
	suite.Equal("42.10", balance.String())

	_, err = suite.service.CurrentBalance(ctx, "nope")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, 50, 0).Return(nil, nil).Once()
	suite.mockRepo.On("ListAccounts", ctx, 50, 50).Return(nil, errors.New("boom")).Once()

	accounts, err := suite.service.ListAccounts(ctx, 50, 0)
	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)

	_, err = suite.service.ListAccounts(ctx, 50, 50)
	suite.Error(err)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	suite.mockRepo.On("DeactivateAccount", ctx, "1000", "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, "1100", "user-1", mock.AnythingOfType("time.Time")).
		Return(apperrors.NewValidationError("account 1100 still has a balance")).Once()

	assert.NoError(suite.T(), suite.service.DeactivateAccount(ctx, "1000", "user-1"))
	assert.ErrorIs(suite.T(), suite.service.DeactivateAccount(ctx, "1100", "user-1"), apperrors.ErrValidation)
}
