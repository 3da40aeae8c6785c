package repositories

import (
	"context"
	"time"

	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/utils/accounting"
)

// ReportingRepository defines the aggregate read queries behind stats and
// trial-balance reports. All sums consider posted entries only.
type ReportingRepository interface {
	// CountAccounts tallies accounts in total, active, and per type.
	CountAccounts(ctx context.Context) (domain.AccountCounts, error)

	// CountEntries tallies entries (total/posted/draft/system/manual),
	// restricted to the entry-date range when given.
	CountEntries(ctx context.Context, from, to *time.Time) (domain.EntryCounts, error)

	// SumPostedLinesByType sums posted line effects grouped by the account
	// type of each side, restricted to the entry-date range when given.
	SumPostedLinesByType(ctx context.Context, from, to *time.Time) (map[domain.AccountType]accounting.Delta, error)

	// TrialBalanceRows returns per-account debit/credit sums from posted
	// lines up to asOf (all time when nil), ordered by account code.
	TrialBalanceRows(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error)
}
