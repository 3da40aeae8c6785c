package domain

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

// JournalEntry represents a single, balanced financial event composed of one
// or more lines. Posted entries have had their effect applied to account
// balances; draft entries have not.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`     // Primary key (UUID)
	EntryNumber   string          `json:"entryNumber"` // Unique, human-readable (JE-<YEAR>-<SEQ>)
	EntryDate     time.Time       `json:"entryDate"`
	Description   string          `json:"description"`
	SourceModule  string          `json:"sourceModule"`  // Provenance tag, e.g. "sales"
	ReferenceType string          `json:"referenceType"` // Provenance tag, e.g. "sales_invoice"
	ReferenceID   string          `json:"referenceID"`
	Status        EntryStatus     `json:"status"`
	IsSystem      bool            `json:"isSystem"` // System entries cannot be unposted via the generic API
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // Often loaded separately
}

// IsBalanced reports whether total debits equal total credits. Each line
// contributes equally to both sides, so a false result indicates corrupted
// totals rather than a rule a caller can legitimately break.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}

// JournalLine is a single two-sided transfer within a journal entry: it
// contributes Amount to the debit side of DebitAccountID and to the credit
// side of CreditAccountID simultaneously. Lines are immutable once created.
type JournalLine struct {
	LineID          string          `json:"lineID"`     // Primary key (UUID)
	EntryID         string          `json:"entryID"`    // FK -> JournalEntry.EntryID
	LineNumber      int             `json:"lineNumber"` // 1-based, sequential within the entry
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"` // Strictly positive
	Description     string          `json:"description"`
	ReferenceType   string          `json:"referenceType"`
	ReferenceID     string          `json:"referenceID"`
	AuditFields
}
