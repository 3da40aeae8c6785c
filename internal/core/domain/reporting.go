package domain

import (
	"github.com/shopspring/decimal"
)

// AccountCounts groups account tallies for the stats report.
type AccountCounts struct {
	Total  int                 `json:"total"`
	Active int                 `json:"active"`
	ByType map[AccountType]int `json:"byType"`
}

// EntryCounts groups journal-entry tallies for the stats report.
type EntryCounts struct {
	Total  int `json:"total"`
	Posted int `json:"posted"`
	Draft  int `json:"draft"`
	System int `json:"system"`
	Manual int `json:"manual"`
}

// BalanceTotals holds per-type sums of posted line effects.
type BalanceTotals struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetProfit        decimal.Decimal `json:"netProfit"` // TotalRevenue - TotalExpenses
}

// AccountingStats is the point-in-time / ranged statistics report. Only
// posted entries contribute to the balance totals.
type AccountingStats struct {
	Accounts AccountCounts `json:"accounts"`
	Entries  EntryCounts   `json:"entries"`
	Balances BalanceTotals `json:"balances"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}
