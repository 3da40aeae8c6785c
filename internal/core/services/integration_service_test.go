package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/core/services"
	"github.com/retailops/ledgercore/internal/dto"
)

// MockJournalService is a mock type for the JournalSvcFacade interface
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UnpostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

type IntegrationServiceTestSuite struct {
	suite.Suite
	mockJournalSvc *MockJournalService
	mockAccountSvc *MockAccountService
	service        portssvc.IntegrationSvcFacade

	receivableID string
	revenueID    string
	taxID        string
	cogsID       string
	payableID    string
}

func (suite *IntegrationServiceTestSuite) SetupTest() {
	suite.mockJournalSvc = new(MockJournalService)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewIntegrationService(suite.mockJournalSvc, suite.mockAccountSvc)

	suite.receivableID = uuid.NewString()
	suite.revenueID = uuid.NewString()
	suite.taxID = uuid.NewString()
	suite.cogsID = uuid.NewString()
	suite.payableID = uuid.NewString()
}

func (suite *IntegrationServiceTestSuite) stubAccount(code, accountID string) {
	suite.mockAccountSvc.On("GetAccountByCode", mock.Anything, code).
		Return(&domain.Account{AccountID: accountID, AccountCode: code, IsActive: true, IsSystem: true}, nil)
}

func (suite *IntegrationServiceTestSuite) TestCreateSalesJournalEntry_WithTax() {
	ctx := context.Background()
	suite.stubAccount(services.CodeAccountsReceivable, suite.receivableID)
	suite.stubAccount(services.CodeSalesRevenue, suite.revenueID)
	suite.stubAccount(services.CodeTaxPayable, suite.taxID)

	var captured dto.CreateEntryRequest
	suite.mockJournalSvc.On("CreateEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), "user-1").
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(dto.CreateEntryRequest)
		}).
		Return(&domain.JournalEntry{EntryNumber: "JE-2026-0001", Status: domain.Posted}, nil).Once()

	entry, err := suite.service.CreateSalesJournalEntry(ctx, "inv-100", "cust-7", decimal.NewFromInt(110), decimal.NewFromInt(10), "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.True(captured.Post)
	suite.True(captured.IsSystem)
	suite.Equal(services.SourceModuleSales, captured.SourceModule)
	suite.Equal(services.ReferenceTypeSalesInvoice, captured.ReferenceType)
	suite.Equal("inv-100", captured.ReferenceID)

	suite.Require().Len(captured.Lines, 2)
	suite.Equal(suite.receivableID, captured.Lines[0].DebitAccountID)
	suite.Equal(suite.revenueID, captured.Lines[0].CreditAccountID)
	suite.True(captured.Lines[0].Amount.Equal(decimal.NewFromInt(100)))
	suite.Equal(suite.receivableID, captured.Lines[1].DebitAccountID)
	suite.Equal(suite.taxID, captured.Lines[1].CreditAccountID)
	suite.True(captured.Lines[1].Amount.Equal(decimal.NewFromInt(10)))
}

func (suite *IntegrationServiceTestSuite) TestCreateSalesJournalEntry_ZeroTaxSkipsTaxLine() {
	ctx := context.Background()
	suite.stubAccount(services.CodeAccountsReceivable, suite.receivableID)
	suite.stubAccount(services.CodeSalesRevenue, suite.revenueID)

	var captured dto.CreateEntryRequest
	suite.mockJournalSvc.On("CreateEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), "user-1").
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(dto.CreateEntryRequest)
		}).
		Return(&domain.JournalEntry{EntryNumber: "JE-2026-0002", Status: domain.Posted}, nil).Once()

	_, err := suite.service.CreateSalesJournalEntry(ctx, "inv-101", "cust-7", decimal.NewFromInt(50), decimal.Zero, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(captured.Lines, 1)
	suite.True(captured.Lines[0].Amount.Equal(decimal.NewFromInt(50)))
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountByCode", mock.Anything, services.CodeTaxPayable)
}

func (suite *IntegrationServiceTestSuite) TestCreateSalesJournalEntry_ActorDefaultsToSystem() {
	ctx := context.Background()
	suite.stubAccount(services.CodeAccountsReceivable, suite.receivableID)
	suite.stubAccount(services.CodeSalesRevenue, suite.revenueID)

	suite.mockJournalSvc.On("CreateEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), services.SystemActorID).
		Return(&domain.JournalEntry{EntryNumber: "JE-2026-0003", Status: domain.Posted}, nil).Once()

	_, err := suite.service.CreateSalesJournalEntry(ctx, "inv-102", "cust-7", decimal.NewFromInt(25), decimal.Zero, "")

	suite.Require().NoError(err)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *IntegrationServiceTestSuite) TestCreateSalesJournalEntry_SeedAccountMissing() {
	ctx := context.Background()
	suite.mockAccountSvc.On("GetAccountByCode", mock.Anything, services.CodeAccountsReceivable).
		Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.CreateSalesJournalEntry(ctx, "inv-103", "cust-7", decimal.NewFromInt(25), decimal.Zero, "user-1")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IntegrationServiceTestSuite) TestCreatePurchaseJournalEntry_WithTax() {
	ctx := context.Background()
	suite.stubAccount(services.CodeCOGS, suite.cogsID)
	suite.stubAccount(services.CodeAccountsPayable, suite.payableID)
	suite.stubAccount(services.CodeTaxPayable, suite.taxID)

	var captured dto.CreateEntryRequest
	suite.mockJournalSvc.On("CreateEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), "user-2").
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(dto.CreateEntryRequest)
		}).
		Return(&domain.JournalEntry{EntryNumber: "JE-2026-0004", Status: domain.Posted}, nil).Once()

	_, err := suite.service.CreatePurchaseJournalEntry(ctx, "po-200", "supp-3", decimal.NewFromInt(220), decimal.NewFromInt(20), "user-2")

	suite.Require().NoError(err)
	suite.Equal(services.SourceModulePurchasing, captured.SourceModule)
	suite.Equal(services.ReferenceTypePurchaseInvoice, captured.ReferenceType)
	suite.Equal("po-200", captured.ReferenceID)

	suite.Require().Len(captured.Lines, 2)
	suite.Equal(suite.cogsID, captured.Lines[0].DebitAccountID)
	suite.Equal(suite.payableID, captured.Lines[0].CreditAccountID)
	suite.True(captured.Lines[0].Amount.Equal(decimal.NewFromInt(200)))
	suite.Equal(suite.taxID, captured.Lines[1].DebitAccountID)
	suite.Equal(suite.payableID, captured.Lines[1].CreditAccountID)
	suite.True(captured.Lines[1].Amount.Equal(decimal.NewFromInt(20)))
}

func (suite *IntegrationServiceTestSuite) TestDocumentAmountValidation() {
	ctx := context.Background()

	cases := []struct {
		name        string
		referenceID string
		total       decimal.Decimal
		tax         decimal.Decimal
	}{
		{"missing reference", "", decimal.NewFromInt(10), decimal.Zero},
		{"zero total", "inv-1", decimal.Zero, decimal.Zero},
		{"negative tax", "inv-1", decimal.NewFromInt(10), decimal.NewFromInt(-1)},
		{"tax equals total", "inv-1", decimal.NewFromInt(10), decimal.NewFromInt(10)},
		{"tax exceeds total", "inv-1", decimal.NewFromInt(10), decimal.NewFromInt(12)},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.service.CreateSalesJournalEntry(ctx, tc.referenceID, "cust-1", tc.total, tc.tax, "user-1")
			suite.Require().Error(err)
			suite.ErrorIs(err, apperrors.ErrValidation)

			_, err = suite.service.CreatePurchaseJournalEntry(ctx, tc.referenceID, "supp-1", tc.total, tc.tax, "user-1")
			suite.Require().Error(err)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountByCode", mock.Anything, mock.Anything)
}

func TestIntegrationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationServiceTestSuite))
}
