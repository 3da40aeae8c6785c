package mapping

import (
	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/models"
)

// ToModelJournalEntry converts a domain.JournalEntry to its DB model.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		EntryNumber:   d.EntryNumber,
		EntryDate:     d.EntryDate,
		Description:   d.Description,
		SourceModule:  d.SourceModule,
		ReferenceType: d.ReferenceType,
		ReferenceID:   d.ReferenceID,
		Status:        models.EntryStatus(d.Status),
		IsSystem:      d.IsSystem,
		TotalDebit:    d.TotalDebit,
		TotalCredit:   d.TotalCredit,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a DB model entry to the domain representation.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		EntryNumber:   m.EntryNumber,
		EntryDate:     m.EntryDate,
		Description:   m.Description,
		SourceModule:  m.SourceModule,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Status:        domain.EntryStatus(m.Status),
		IsSystem:      m.IsSystem,
		TotalDebit:    m.TotalDebit,
		TotalCredit:   m.TotalCredit,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain.JournalLine to its DB model.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:          d.LineID,
		EntryID:         d.EntryID,
		LineNumber:      d.LineNumber,
		DebitAccountID:  d.DebitAccountID,
		CreditAccountID: d.CreditAccountID,
		Amount:          d.Amount,
		Description:     d.Description,
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a DB model line to the domain representation.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:          m.LineID,
		EntryID:         m.EntryID,
		LineNumber:      m.LineNumber,
		DebitAccountID:  m.DebitAccountID,
		CreditAccountID: m.CreditAccountID,
		Amount:          m.Amount,
		Description:     m.Description,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model lines.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainJournalLine(m)
	}
	return out
}
