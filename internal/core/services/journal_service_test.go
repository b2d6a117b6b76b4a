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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo *MockJournalReader
	service  portssvc.JournalReaderSvc
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalReader)
	suite.service = services.NewJournalService(suite.mockRepo)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindJournalByID", ctx, "missing").Return(nil, apperrors.NewNotFoundError("journal missing")).Once()

	_, err := suite.service.GetJournalByID(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListJournals_DefaultsAndFilter() {
	ctx := context.Background()
	next := "tok"
	suite.mockRepo.On("ListJournals", ctx,
		domain.JournalFilter{Status: domain.Posted, SourceModule: domain.SourceSales},
		20, (*string)(nil),
	).Return([]domain.Journal{{JournalID: "j2", Status: domain.Posted}, {JournalID: "j1", Status: domain.Posted}}, &next, nil).Once()

	resp, err := suite.service.ListJournals(ctx, dto.ListJournalsParams{Status: "POSTED", SourceModule: "sales"})

	suite.Require().NoError(err)
	suite.Len(resp.Journals, 2)
	suite.Equal("j2", resp.Journals[0].JournalID)
	suite.Equal(&next, resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListJournals_UnknownStatus() {
	_, err := suite.service.ListJournals(context.Background(), dto.ListJournalsParams{Limit: 10, Status: "VOID"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListJournals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListJournals_RepositoryError() {
	ctx := context.Background()
	boom := errors.New("connection reset")
	suite.mockRepo.On("ListJournals", ctx, domain.JournalFilter{}, 5, (*string)(nil)).Return(nil, nil, boom).Once()

	_, err := suite.service.ListJournals(ctx, dto.ListJournalsParams{Limit: 5})

	suite.ErrorIs(err, boom)
}
