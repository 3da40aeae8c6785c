package models

import "github.com/shopspring/decimal"

// JournalLine represents a journal line row. Each line debits one account and
// credits another by the same positive amount.
type JournalLine struct {
	LineID          string          `db:"line_id"`
	EntryID         string          `db:"entry_id"`
	LineNumber      int             `db:"line_number"`
	DebitAccountID  string          `db:"debit_account_id"`
	CreditAccountID string          `db:"credit_account_id"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`    // Nullable
	ReferenceType   string          `db:"reference_type"` // Nullable
	ReferenceID     string          `db:"reference_id"`   // Nullable
	AuditFields
}
