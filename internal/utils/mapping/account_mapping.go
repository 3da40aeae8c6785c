package mapping

import (
	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/models"
)

// ToModelAccount converts a domain.Account to its DB model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		AccountCode:     d.AccountCode,
		Name:            d.Name,
		Description:     d.Description,
		AccountType:     models.AccountType(d.AccountType),
		ParentAccountID: d.ParentAccountID,
		IsActive:        d.IsActive,
		IsSystem:        d.IsSystem,
		DebitBalance:    d.DebitBalance,
		CreditBalance:   d.CreditBalance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB model account to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		AccountCode:     m.AccountCode,
		Name:            m.Name,
		Description:     m.Description,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID,
		IsActive:        m.IsActive,
		IsSystem:        m.IsSystem,
		DebitBalance:    m.DebitBalance,
		CreditBalance:   m.CreditBalance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAccount(m)
	}
	return out
}
