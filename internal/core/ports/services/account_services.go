package services

import (
	"context"

	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts operations to handlers and to
// the other services.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string, userID string) error
	GetAccountByID(ctx context.Context, accountID string) (*domain.AccountNode, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.AccountNode, error)
	GetAccountLevel(ctx context.Context, accountID string) (int, error)
	GetAccountPath(ctx context.Context, accountID string) ([]string, error)
}
