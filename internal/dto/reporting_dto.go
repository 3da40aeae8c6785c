package dto

import (
	"time"

	"github.com/retailops/ledgercore/internal/core/domain"
)

// StatsParams defines query parameters for the accounting stats report.
type StatsParams struct {
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
}

// StatsResponse wraps the accounting statistics report.
type StatsResponse struct {
	Stats domain.AccountingStats `json:"stats"`
}

// TrialBalanceParams defines query parameters for the trial balance report.
type TrialBalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// TrialBalanceResponse wraps the trial balance rows.
type TrialBalanceResponse struct {
	Rows []domain.TrialBalanceRow `json:"rows"`
}
