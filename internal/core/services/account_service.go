package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/core/ports"
	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/dto"
	"github.com/retailops/ledgercore/internal/middleware"
)

var (
	ErrDuplicateAccountCode = fmt.Errorf("%w: account code already in use", apperrors.ErrDuplicate)
	ErrParentNotFound       = fmt.Errorf("%w: parent account", apperrors.ErrNotFound)
	ErrInactiveParent       = fmt.Errorf("%w: parent account is inactive", apperrors.ErrValidation)
	ErrCyclicHierarchy      = fmt.Errorf("%w: change would create a cycle in the account hierarchy", apperrors.ErrConflict)
	ErrHierarchyTooDeep     = fmt.Errorf("%w: account hierarchy exceeds maximum depth", apperrors.ErrConflict)
	ErrAccountHasChildren   = fmt.Errorf("%w: account has child accounts", apperrors.ErrConflict)
	ErrAccountHasActivity   = fmt.Errorf("%w: account is referenced by journal lines", apperrors.ErrConflict)
	ErrSystemAccount        = fmt.Errorf("%w: system accounts cannot be deleted", apperrors.ErrStateConflict)
)

// maxHierarchyDepth caps parent-chain walks so that an undetected cycle in
// stored data cannot loop forever.
const maxHierarchyDepth = 64

const accountCachePrefix = "gl:accounts:"

// accountService owns the chart-of-accounts hierarchy.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	cache       ports.Cache
	cacheTTL    time.Duration
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository, cache ports.Cache, cacheTTL time.Duration) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new GL account after validating code uniqueness and
// the parent invariants (parent exists, is active, and sits above the depth
// cap so the new account still fits under it).
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, req.AccountCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("error", err.Error()), slog.String("account_code", req.AccountCode))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAccountCode, req.AccountCode)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrParentNotFound, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrInactiveParent, parent.AccountID)
		}
		level, err := s.GetAccountLevel(ctx, parent.AccountID)
		if err != nil {
			return nil, err
		}
		if level >= maxHierarchyDepth {
			return nil, fmt.Errorf("%w: parent %s is at level %d", ErrHierarchyTooDeep, parent.AccountID, level)
		}
		parentID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		AccountCode:     req.AccountCode,
		Name:            req.Name,
		Description:     req.Description,
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		IsActive:        true,
		IsSystem:        req.IsSystem,
		DebitBalance:    decimal.Zero,
		CreditBalance:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccountCode, req.AccountCode)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_code", req.AccountCode))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.invalidateAccountCache(ctx)
	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_code", account.AccountCode))
	return &account, nil
}

// UpdateAccount applies a patch to an account. Parent changes re-run the
// cycle check against the proposed parent's ancestor chain.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.ParentAccountID != nil {
		newParentID := *req.ParentAccountID
		if newParentID == accountID {
			// Degenerate cycle, rejected before walking the chain.
			return nil, fmt.Errorf("%w: account cannot be its own parent", ErrCyclicHierarchy)
		}
		if newParentID != "" {
			parent, err := s.accountRepo.FindAccountByID(ctx, newParentID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: %s", ErrParentNotFound, newParentID)
				}
				return nil, fmt.Errorf("failed to fetch parent account: %w", err)
			}
			if !parent.IsActive && account.IsActive {
				return nil, fmt.Errorf("%w: %s", ErrInactiveParent, parent.AccountID)
			}
			if err := s.wouldCreateCycle(ctx, accountID, newParentID); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = newParentID
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.invalidateAccountCache(ctx)
	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// wouldCreateCycle walks the proposed parent's ancestor chain upward until it
// reaches a root or finds accountID itself.
func (s *accountService) wouldCreateCycle(ctx context.Context, accountID, proposedParentID string) error {
	currentID := proposedParentID
	for depth := 0; currentID != ""; depth++ {
		if depth >= maxHierarchyDepth {
			return ErrHierarchyTooDeep
		}
		if currentID == accountID {
			return ErrCyclicHierarchy
		}
		ancestor, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// Broken chain; nothing above can close a cycle.
				return nil
			}
			return fmt.Errorf("failed to walk account ancestors: %w", err)
		}
		currentID = ancestor.ParentAccountID
	}
	return nil
}

// DeleteAccount removes an account. Accounts with children, with journal-line
// activity, or flagged as system are never deleted, and never partially.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: %s", ErrSystemAccount, account.AccountCode)
	}

	hasChildren, err := s.accountRepo.HasChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: %s", ErrAccountHasChildren, account.AccountCode)
	}

	hasActivity, err := s.accountRepo.HasLineActivity(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check journal activity: %w", err)
	}
	if hasActivity {
		return fmt.Errorf("%w: %s", ErrAccountHasActivity, account.AccountCode)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.invalidateAccountCache(ctx)
	logger.Info("Account deleted", slog.String("account_id", accountID), slog.String("account_code", account.AccountCode))
	return nil
}

// GetAccountByID returns the account with its immediate parent summary and
// children, read through the cache.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.AccountNode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	cacheKey := accountCachePrefix + "id:" + accountID

	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var node domain.AccountNode
		if err := json.Unmarshal([]byte(cached), &node); err == nil {
			return &node, nil
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	node := domain.AccountNode{Account: *account, Children: []domain.AccountSummary{}}

	if account.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, account.ParentAccountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if parent != nil {
			summary := parent.Summary()
			node.Parent = &summary
		}
	}

	children, err := s.accountRepo.ListChildAccounts(ctx, accountID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child accounts: %w", err)
	}
	for i := range children {
		node.Children = append(node.Children, children[i].Summary())
	}

	s.cacheSet(ctx, cacheKey, &node)
	logger.Debug("Account retrieved", slog.String("account_id", accountID))
	return &node, nil
}

// GetAccountsByIDs returns the accounts that exist among accountIDs, keyed by
// ID. Used by the posting engine to validate line targets in one round-trip.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// GetAccountByCode returns the account with the given code.
func (s *accountService) GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, accountCode)
}

// ListAccounts returns account nodes ordered by account code, read through
// the cache. Children carried per node are active-only unless includeInactive.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.AccountNode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	typeFilter := ""
	if params.AccountType != nil {
		typeFilter = *params.AccountType
	}
	cacheKey := fmt.Sprintf("%slist:%t:%s", accountCachePrefix, params.IncludeInactive, typeFilter)

	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var nodes []domain.AccountNode
		if err := json.Unmarshal([]byte(cached), &nodes); err == nil {
			return nodes, nil
		}
	}

	var accountType *domain.AccountType
	if typeFilter != "" {
		t := domain.AccountType(typeFilter)
		if !domain.ValidAccountType(t) {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, typeFilter)
		}
		accountType = &t
	}

	// One full fetch to build the relation index, then filter.
	all, err := s.accountRepo.ListAccounts(ctx, true, nil)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	byID := make(map[string]*domain.Account, len(all))
	childrenByParent := make(map[string][]domain.AccountSummary)
	for i := range all {
		byID[all[i].AccountID] = &all[i]
	}
	for i := range all {
		if all[i].ParentAccountID == "" {
			continue
		}
		if !all[i].IsActive && !params.IncludeInactive {
			continue
		}
		childrenByParent[all[i].ParentAccountID] = append(childrenByParent[all[i].ParentAccountID], all[i].Summary())
	}

	nodes := make([]domain.AccountNode, 0, len(all))
	for i := range all {
		acc := all[i]
		if !acc.IsActive && !params.IncludeInactive {
			continue
		}
		if accountType != nil && acc.AccountType != *accountType {
			continue
		}
		node := domain.AccountNode{Account: acc, Children: childrenByParent[acc.AccountID]}
		if node.Children == nil {
			node.Children = []domain.AccountSummary{}
		}
		if acc.ParentAccountID != "" {
			if parent, ok := byID[acc.ParentAccountID]; ok {
				summary := parent.Summary()
				node.Parent = &summary
			}
		}
		nodes = append(nodes, node)
	}

	s.cacheSet(ctx, cacheKey, nodes)
	logger.Debug("Accounts listed", slog.Int("count", len(nodes)))
	return nodes, nil
}

// GetAccountLevel returns the depth of the account in the hierarchy, with
// root accounts at level 1.
func (s *accountService) GetAccountLevel(ctx context.Context, accountID string) (int, error) {
	path, err := s.GetAccountPath(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return len(path), nil
}

// GetAccountPath returns the root-first account names along the parent chain.
func (s *accountService) GetAccountPath(ctx context.Context, accountID string) ([]string, error) {
	var names []string
	currentID := accountID
	for depth := 0; currentID != ""; depth++ {
		if depth >= maxHierarchyDepth {
			return nil, ErrHierarchyTooDeep
		}
		account, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) && depth > 0 {
				// Broken chain above the requested account; stop at the break.
				break
			}
			return nil, err
		}
		names = append(names, account.Name)
		currentID = account.ParentAccountID
	}

	// Reverse to root-first order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names, nil
}

// cacheGet reads through the cache; cache failures degrade to store reads.
func (s *accountService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return "", false
	}
	return val, ok
}

func (s *accountService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (s *accountService) invalidateAccountCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := ports.InvalidatePrefix(ctx, s.cache, accountCachePrefix); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cache invalidation failed", slog.String("prefix", accountCachePrefix), slog.String("error", err.Error()))
	}
}
