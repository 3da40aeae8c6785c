package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
)

// JournalEntry represents a journal entry row.
type JournalEntry struct {
	EntryID       string          `db:"entry_id"`
	EntryNumber   string          `db:"entry_number"`
	EntryDate     time.Time       `db:"entry_date"`
	Description   string          `db:"description"`
	SourceModule  string          `db:"source_module"`  // Nullable
	ReferenceType string          `db:"reference_type"` // Nullable
	ReferenceID   string          `db:"reference_id"`   // Nullable
	Status        EntryStatus     `db:"status"`
	IsSystem      bool            `db:"is_system"`
	TotalDebit    decimal.Decimal `db:"total_debit"`
	TotalCredit   decimal.Decimal `db:"total_credit"`
	AuditFields
}
