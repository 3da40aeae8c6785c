package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/ledgercore/internal/core/domain"
)

// CreateEntryLineRequest defines one two-sided line of a new journal entry.
type CreateEntryLineRequest struct {
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	ReferenceType   string          `json:"referenceType"`
	ReferenceID     string          `json:"referenceID"`
}

// CreateEntryRequest defines the data needed to create a journal entry.
type CreateEntryRequest struct {
	EntryNumber   *string                  `json:"entryNumber"` // Optional; generated when absent
	EntryDate     time.Time                `json:"entryDate" binding:"required"`
	Description   string                   `json:"description" binding:"required"`
	SourceModule  string                   `json:"sourceModule"`
	ReferenceType string                   `json:"referenceType"`
	ReferenceID   string                   `json:"referenceID"`
	Post          bool                     `json:"post"` // Create directly posted
	Lines         []CreateEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
	// IsSystem is set by the integration entry points, never from a request body.
	IsSystem bool `json:"-"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID          string          `json:"lineID"`
	LineNumber      int             `json:"lineNumber"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ReferenceType   string          `json:"referenceType,omitempty"`
	ReferenceID     string          `json:"referenceID,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       string             `json:"entryID"`
	EntryNumber   string             `json:"entryNumber"`
	EntryDate     time.Time          `json:"entryDate"`
	Description   string             `json:"description"`
	SourceModule  string             `json:"sourceModule,omitempty"`
	ReferenceType string             `json:"referenceType,omitempty"`
	ReferenceID   string             `json:"referenceID,omitempty"`
	Status        domain.EntryStatus `json:"status"`
	IsSystem      bool               `json:"isSystem"`
	TotalDebit    decimal.Decimal    `json:"totalDebit"`
	TotalCredit   decimal.Decimal    `json:"totalCredit"`
	IsBalanced    bool               `json:"isBalanced"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	Lines         []LineResponse     `json:"lines,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to its response DTO.
func ToLineResponse(line *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:          line.LineID,
		LineNumber:      line.LineNumber,
		DebitAccountID:  line.DebitAccountID,
		CreditAccountID: line.CreditAccountID,
		Amount:          line.Amount,
		Description:     line.Description,
		ReferenceType:   line.ReferenceType,
		ReferenceID:     line.ReferenceID,
	}
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       entry.EntryID,
		EntryNumber:   entry.EntryNumber,
		EntryDate:     entry.EntryDate,
		Description:   entry.Description,
		SourceModule:  entry.SourceModule,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Status:        entry.Status,
		IsSystem:      entry.IsSystem,
		TotalDebit:    entry.TotalDebit,
		TotalCredit:   entry.TotalCredit,
		IsBalanced:    entry.IsBalanced(),
		CreatedAt:     entry.CreatedAt,
		CreatedBy:     entry.CreatedBy,
	}
	if len(entry.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(entry.Lines))
		for i := range entry.Lines {
			resp.Lines[i] = ToLineResponse(&entry.Lines[i])
		}
	}
	return resp
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit        int        `form:"limit,default=20"`
	NextToken    *string    `form:"nextToken"`
	Status       *string    `form:"status"`
	SourceModule *string    `form:"sourceModule"`
	FromDate     *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate       *time.Time `form:"toDate" time_format:"2006-01-02"`
}

// ListEntriesResponse wraps a page of journal entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
