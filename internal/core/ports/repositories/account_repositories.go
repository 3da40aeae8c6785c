package repositories

import (
	"context"

	"github.com/retailops/ledgercore/internal/core/domain"
)

// AccountRepository defines persistence operations for GL accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate if
	// the account code is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID returns the account or apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode returns the account with the given code or
	// apperrors.ErrNotFound.
	FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)

	// FindAccountsByIDs returns the accounts that exist among accountIDs,
	// keyed by ID. Missing IDs are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts ordered by account code ascending.
	// Inactive accounts are excluded unless includeInactive; accountType
	// filters to a single type when non-nil.
	ListAccounts(ctx context.Context, includeInactive bool, accountType *domain.AccountType) ([]domain.Account, error)

	// ListChildAccounts returns the immediate children of parentID ordered
	// by account code.
	ListChildAccounts(ctx context.Context, parentID string, includeInactive bool) ([]domain.Account, error)

	// UpdateAccount persists mutable fields (name, description, parent,
	// active flag) and audit fields. Returns apperrors.ErrNotFound if the
	// account does not exist.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes the account row. The service layer is
	// responsible for the children/activity/system guards.
	DeleteAccount(ctx context.Context, accountID string) error

	// HasChildren reports whether any account has accountID as its parent.
	HasChildren(ctx context.Context, accountID string) (bool, error)

	// HasLineActivity reports whether any journal line references accountID
	// on either its debit or credit side. Answered via the line account
	// indexes, not a scan.
	HasLineActivity(ctx context.Context, accountID string) (bool, error)
}
