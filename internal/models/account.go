package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a GL account row.
// Note: ParentAccountID uses string for the nullable self-FK; repositories
// translate to/from sql.NullString.
type Account struct {
	AccountID       string          `db:"account_id"`
	AccountCode     string          `db:"account_code"`
	Name            string          `db:"name"`
	Description     string          `db:"description"`
	AccountType     AccountType     `db:"account_type"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	IsActive        bool            `db:"is_active"`
	IsSystem        bool            `db:"is_system"`
	DebitBalance    decimal.Decimal `db:"debit_balance"`
	CreditBalance   decimal.Decimal `db:"credit_balance"`
	AuditFields
}
