package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/ledgercore/internal/core/domain"
	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/middleware"
	"github.com/retailops/ledgercore/internal/utils/accounting"
)

// reportingService assembles aggregate reports from posted ledger data.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetStats returns account/entry counts and per-type balance totals. Balance
// totals follow each type's natural side: assets and expenses net debit minus
// credit, liabilities, equity and revenue net credit minus debit.
func (s *reportingService) GetStats(ctx context.Context, from, to *time.Time) (*domain.AccountingStats, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountCounts, err := s.reportingRepo.CountAccounts(ctx)
	if err != nil {
		logger.Error("Failed to count accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	entryCounts, err := s.reportingRepo.CountEntries(ctx, from, to)
	if err != nil {
		logger.Error("Failed to count entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	sums, err := s.reportingRepo.SumPostedLinesByType(ctx, from, to)
	if err != nil {
		logger.Error("Failed to sum posted lines", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sum posted lines: %w", err)
	}

	balances := domain.BalanceTotals{
		TotalAssets:      netDebit(sums[domain.Asset]),
		TotalLiabilities: netCredit(sums[domain.Liability]),
		TotalEquity:      netCredit(sums[domain.Equity]),
		TotalRevenue:     netCredit(sums[domain.Revenue]),
		TotalExpenses:    netDebit(sums[domain.Expense]),
	}
	balances.NetProfit = balances.TotalRevenue.Sub(balances.TotalExpenses)

	return &domain.AccountingStats{
		Accounts: accountCounts,
		Entries:  entryCounts,
		Balances: balances,
	}, nil
}

// GetTrialBalance returns per-account posted debit/credit sums as of a date.
func (s *reportingService) GetTrialBalance(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := s.reportingRepo.TrialBalanceRows(ctx, asOf)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to build trial balance", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	return rows, nil
}

func netDebit(d accounting.Delta) decimal.Decimal  { return d.Debit.Sub(d.Credit) }
func netCredit(d accounting.Delta) decimal.Decimal { return d.Credit.Sub(d.Debit) }
