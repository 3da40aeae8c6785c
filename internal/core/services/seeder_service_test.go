package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/core/services"
	"github.com/retailops/ledgercore/internal/dto"
)

type SeederServiceTestSuite struct {
	suite.Suite
	mockAccountSvc *MockAccountService
	service        portssvc.SeederSvcFacade
}

func (suite *SeederServiceTestSuite) SetupTest() {
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewSeederService(suite.mockAccountSvc)
}

var defaultChartCodes = []string{
	services.CodeCash,
	services.CodeAccountsReceivable,
	services.CodeInventory,
	services.CodeAccountsPayable,
	services.CodeTaxPayable,
	services.CodeOwnersEquity,
	services.CodeSalesRevenue,
	services.CodeCOGS,
	services.CodeOperatingExpenses,
}

func (suite *SeederServiceTestSuite) TestSeedDefaultAccounts_EmptyChart() {
	ctx := context.Background()

	for _, code := range defaultChartCodes {
		suite.mockAccountSvc.On("GetAccountByCode", ctx, code).Return(nil, apperrors.ErrNotFound).Once()
	}
	suite.mockAccountSvc.On("CreateAccount", ctx, mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
		return req.IsSystem
	}), services.SystemActorID).Return(&domain.Account{AccountID: uuid.NewString()}, nil).Times(len(defaultChartCodes))

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().NoError(err)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *SeederServiceTestSuite) TestSeedDefaultAccounts_AllPresent() {
	ctx := context.Background()

	for _, code := range defaultChartCodes {
		suite.mockAccountSvc.On("GetAccountByCode", ctx, code).
			Return(&domain.Account{AccountID: uuid.NewString(), AccountCode: code, IsSystem: true}, nil).Once()
	}

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().NoError(err)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SeederServiceTestSuite) TestSeedDefaultAccounts_ToleratesConcurrentSeed() {
	ctx := context.Background()

	for _, code := range defaultChartCodes {
		suite.mockAccountSvc.On("GetAccountByCode", ctx, code).Return(nil, apperrors.ErrNotFound).Once()
	}
	// Another instance wins the insert race for every account.
	suite.mockAccountSvc.On("CreateAccount", ctx, mock.AnythingOfType("dto.CreateAccountRequest"), services.SystemActorID).
		Return(nil, apperrors.ErrDuplicate).Times(len(defaultChartCodes))

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().NoError(err)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *SeederServiceTestSuite) TestSeedDefaultAccounts_LookupFailure() {
	ctx := context.Background()

	suite.mockAccountSvc.On("GetAccountByCode", ctx, services.CodeCash).Return(nil, apperrors.ErrStoreUnavailable).Once()

	err := suite.service.SeedDefaultAccounts(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStoreUnavailable)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeederServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SeederServiceTestSuite))
}
