package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/core/services"
	"github.com/retailops/ledgercore/internal/dto"
	"github.com/retailops/ledgercore/internal/platform/cache"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	args := m.Called(ctx, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, includeInactive bool, accountType *domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListChildAccounts(ctx context.Context, parentID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, parentID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasLineActivity(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo, cache.NewMemoryCache(), time.Minute)
}

func testAccount(code string, accountType domain.AccountType) *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		AccountID:     uuid.NewString(),
		AccountCode:   code,
		Name:          "Account " + code,
		AccountType:   accountType,
		IsActive:      true,
		DebitBalance:  decimal.Zero,
		CreditBalance: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "tester",
			LastUpdatedAt: now,
			LastUpdatedBy: "tester",
		},
	}
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		AccountCode: "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal("1000", created.AccountCode)
	suite.Equal(domain.Asset, created.AccountType)
	suite.True(created.IsActive)
	suite.False(created.IsSystem)
	suite.True(created.DebitBalance.IsZero())
	suite.True(created.CreditBalance.IsZero())
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByCode", ctx, "1000").Return(existing, nil).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		AccountCode: "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_WithParent() {
	ctx := context.Background()
	parent := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByCode", ctx, "1100").Return(nil, apperrors.ErrNotFound).Once()
	// Fetched once as the parent and again by the level walk.
	suite.mockRepo.On("FindAccountByID", ctx, parent.AccountID).Return(parent, nil)
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		AccountCode:     "1100",
		Name:            "Accounts Receivable",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(parent.AccountID, created.ParentAccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentAtDepthCap() {
	ctx := context.Background()

	// Chain of 64 accounts, each the parent of the next; the bottom one has
	// no room left for children.
	var deepest *domain.Account
	for i := 0; i < 64; i++ {
		account := testAccount(fmt.Sprintf("10%02d", i), domain.Asset)
		if deepest != nil {
			account.ParentAccountID = deepest.AccountID
		}
		suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil)
		deepest = account
	}

	suite.mockRepo.On("FindAccountByCode", ctx, "1999").Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		AccountCode:     "1999",
		Name:            "One level too far",
		AccountType:     domain.Asset,
		ParentAccountID: &deepest.AccountID,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentNotFound() {
	ctx := context.Background()
	parentID := uuid.NewString()

	suite.mockRepo.On("FindAccountByCode", ctx, "1100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		AccountCode:     "1100",
		Name:            "Accounts Receivable",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InactiveParent() {
	ctx := context.Background()
	parent := testAccount("1000", domain.Asset)
	parent.IsActive = false

	suite.mockRepo.On("FindAccountByCode", ctx, "1100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parent.AccountID).Return(parent, nil).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		AccountCode:     "1100",
		Name:            "Accounts Receivable",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParentRejected() {
	ctx := context.Background()
	account := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, account.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: &account.AccountID,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CycleRejected() {
	ctx := context.Background()
	// a -> b (b is a's child); re-parenting a under b closes a cycle.
	a := testAccount("1000", domain.Asset)
	b := testAccount("1010", domain.Asset)
	b.ParentAccountID = a.AccountID

	suite.mockRepo.On("FindAccountByID", ctx, a.AccountID).Return(a, nil)
	suite.mockRepo.On("FindAccountByID", ctx, b.AccountID).Return(b, nil)

	updated, err := suite.service.UpdateAccount(ctx, a.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: &b.AccountID,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ReparentSuccess() {
	ctx := context.Background()
	account := testAccount("1010", domain.Asset)
	newParent := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil)
	suite.mockRepo.On("FindAccountByID", ctx, newParent.AccountID).Return(newParent, nil)
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, account.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: &newParent.AccountID,
	}, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(newParent.AccountID, updated.ParentAccountID)
	suite.Equal("user-1", updated.LastUpdatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_DetachParent() {
	ctx := context.Background()
	account := testAccount("1010", domain.Asset)
	account.ParentAccountID = uuid.NewString()
	empty := ""

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, account.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: &empty,
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal("", updated.ParentAccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_SystemProtected() {
	ctx := context.Background()
	account := testAccount("1000", domain.Asset)
	account.IsSystem = true

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	err := suite.service.DeleteAccount(ctx, account.AccountID, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasChildren() {
	ctx := context.Background()
	account := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasChildren", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, account.AccountID, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasLineActivity() {
	ctx := context.Background()
	account := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasChildren", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockRepo.On("HasLineActivity", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, account.AccountID, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasChildren", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockRepo.On("HasLineActivity", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, account.AccountID, "user-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_WithRelations() {
	ctx := context.Background()
	parent := testAccount("1000", domain.Asset)
	account := testAccount("1010", domain.Asset)
	account.ParentAccountID = parent.AccountID
	child := testAccount("1011", domain.Asset)
	child.ParentAccountID = account.AccountID

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parent.AccountID).Return(parent, nil).Once()
	suite.mockRepo.On("ListChildAccounts", ctx, account.AccountID, false).Return([]domain.Account{*child}, nil).Once()

	node, err := suite.service.GetAccountByID(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.Require().NotNil(node)
	suite.Require().NotNil(node.Parent)
	suite.Equal(parent.AccountID, node.Parent.AccountID)
	suite.Require().Len(node.Children, 1)
	suite.Equal(child.AccountID, node.Children[0].AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_CachesResult() {
	ctx := context.Background()
	account := testAccount("1000", domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("ListChildAccounts", ctx, account.AccountID, false).Return([]domain.Account{}, nil).Once()

	first, err := suite.service.GetAccountByID(ctx, account.AccountID)
	suite.Require().NoError(err)

	// Second read hits the cache; the mock allows only one call.
	second, err := suite.service.GetAccountByID(ctx, account.AccountID)
	suite.Require().NoError(err)
	suite.Equal(first.AccountID, second.AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_FiltersTypeAndActive() {
	ctx := context.Background()
	cash := testAccount("1000", domain.Asset)
	payable := testAccount("2000", domain.Liability)
	inactive := testAccount("1020", domain.Asset)
	inactive.IsActive = false

	suite.mockRepo.On("ListAccounts", ctx, true, (*domain.AccountType)(nil)).
		Return([]domain.Account{*cash, *inactive, *payable}, nil).Once()

	assetType := string(domain.Asset)
	nodes, err := suite.service.ListAccounts(ctx, dto.ListAccountsParams{AccountType: &assetType})

	suite.Require().NoError(err)
	suite.Require().Len(nodes, 1)
	suite.Equal(cash.AccountID, nodes[0].AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_UnknownTypeRejected() {
	ctx := context.Background()
	bogus := "CONTRA"

	_, err := suite.service.ListAccounts(ctx, dto.ListAccountsParams{AccountType: &bogus})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountPath_RootFirst() {
	ctx := context.Background()
	root := testAccount("1000", domain.Asset)
	root.Name = "Assets"
	mid := testAccount("1100", domain.Asset)
	mid.Name = "Current Assets"
	mid.ParentAccountID = root.AccountID
	leaf := testAccount("1110", domain.Asset)
	leaf.Name = "Cash"
	leaf.ParentAccountID = mid.AccountID

	suite.mockRepo.On("FindAccountByID", ctx, leaf.AccountID).Return(leaf, nil)
	suite.mockRepo.On("FindAccountByID", ctx, mid.AccountID).Return(mid, nil)
	suite.mockRepo.On("FindAccountByID", ctx, root.AccountID).Return(root, nil)

	path, err := suite.service.GetAccountPath(ctx, leaf.AccountID)
	suite.Require().NoError(err)
	suite.Equal([]string{"Assets", "Current Assets", "Cash"}, path)

	level, err := suite.service.GetAccountLevel(ctx, leaf.AccountID)
	suite.Require().NoError(err)
	suite.Equal(3, level)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
