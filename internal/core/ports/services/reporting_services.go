package services

import (
	"context"
	"time"

	"github.com/retailops/ledgercore/internal/core/domain"
)

// ReportingSvcFacade exposes aggregate accounting reads.
type ReportingSvcFacade interface {
	GetStats(ctx context.Context, from, to *time.Time) (*domain.AccountingStats, error)
	GetTrialBalance(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error)
}
