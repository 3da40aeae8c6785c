package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of a GL account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a node in the chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary key (UUID)
	AccountCode     string          `json:"accountCode"`     // Unique, human-assigned code (e.g. "1000")
	Name            string          `json:"name"`            // User-defined name
	Description     string          `json:"description"`     // Nullable user description
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID string          `json:"parentAccountID"` // Nullable self-reference forming the tree
	IsActive        bool            `json:"isActive"`
	IsSystem        bool            `json:"isSystem"` // System accounts are protected from deletion
	DebitBalance    decimal.Decimal `json:"debitBalance"`
	CreditBalance   decimal.Decimal `json:"creditBalance"`
	AuditFields
}

// NetBalance returns debit balance minus credit balance. The sign convention
// depends on the account type but is exposed uniformly.
func (a *Account) NetBalance() decimal.Decimal {
	return a.DebitBalance.Sub(a.CreditBalance)
}

// AccountSummary is a thin reference to an account, used when a node carries
// its immediate parent and children without the full closure.
type AccountSummary struct {
	AccountID   string      `json:"accountID"`
	AccountCode string      `json:"accountCode"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
}

// Summary returns the account reduced to its summary form.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		AccountID:   a.AccountID,
		AccountCode: a.AccountCode,
		Name:        a.Name,
		AccountType: a.AccountType,
		IsActive:    a.IsActive,
	}
}

// AccountNode is an account together with its immediate relations.
type AccountNode struct {
	Account
	Parent   *AccountSummary  `json:"parent,omitempty"`
	Children []AccountSummary `json:"children"`
}
