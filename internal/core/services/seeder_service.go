package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/dto"
	"github.com/retailops/ledgercore/internal/middleware"
)

// SystemActorID is recorded in audit fields for writes performed by the
// platform itself rather than an authenticated user.
const SystemActorID = "system"

// Account codes of the seeded system chart. The integration entry points
// resolve their posting targets through these.
const (
	CodeCash               = "1000"
	CodeAccountsReceivable = "1100"
	CodeInventory          = "1200"
	CodeAccountsPayable    = "2000"
	CodeTaxPayable         = "2100"
	CodeOwnersEquity       = "3000"
	CodeSalesRevenue       = "4000"
	CodeCOGS               = "5000"
	CodeOperatingExpenses  = "6000"
)

type seedAccount struct {
	code        string
	name        string
	accountType domain.AccountType
	description string
}

var defaultChart = []seedAccount{
	{CodeCash, "Cash", domain.Asset, "Cash on hand and bank balances"},
	{CodeAccountsReceivable, "Accounts Receivable", domain.Asset, "Amounts owed by customers"},
	{CodeInventory, "Inventory", domain.Asset, "Goods held for resale"},
	{CodeAccountsPayable, "Accounts Payable", domain.Liability, "Amounts owed to suppliers"},
	{CodeTaxPayable, "Tax Payable", domain.Liability, "Sales and purchase tax owed to authorities"},
	{CodeOwnersEquity, "Owner's Equity", domain.Equity, "Owner capital and retained earnings"},
	{CodeSalesRevenue, "Sales Revenue", domain.Revenue, "Revenue from sales of goods"},
	{CodeCOGS, "Cost of Goods Sold", domain.Expense, "Direct cost of goods sold"},
	{CodeOperatingExpenses, "Operating Expenses", domain.Expense, "General operating expenses"},
}

// seederService creates the default system chart of accounts on bootstrap.
type seederService struct {
	accountSvc portssvc.AccountSvcFacade
}

// NewSeederService creates a new seeder service.
func NewSeederService(accountSvc portssvc.AccountSvcFacade) portssvc.SeederSvcFacade {
	return &seederService{accountSvc: accountSvc}
}

var _ portssvc.SeederSvcFacade = (*seederService)(nil)

// SeedDefaultAccounts creates each default account whose code does not exist
// yet. Existing accounts are left untouched, so repeated runs are no-ops.
func (s *seederService) SeedDefaultAccounts(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	created := 0

	for _, seed := range defaultChart {
		existing, err := s.accountSvc.GetAccountByCode(ctx, seed.code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to check account %s: %w", seed.code, err)
		}
		if existing != nil {
			continue
		}

		req := dto.CreateAccountRequest{
			AccountCode: seed.code,
			Name:        seed.name,
			Description: seed.description,
			AccountType: seed.accountType,
			IsSystem:    true,
		}
		if _, err := s.accountSvc.CreateAccount(ctx, req, SystemActorID); err != nil {
			// A concurrent bootstrap may have won the race; that still
			// satisfies the seeding goal.
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("failed to seed account %s: %w", seed.code, err)
		}
		created++
	}

	if created > 0 {
		logger.Info("Default chart of accounts seeded", slog.Int("created", created))
	}
	return nil
}
