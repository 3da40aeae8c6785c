package services

import (
	"time"

	"github.com/retailops/ledgercore/internal/core/ports"
	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
)

// NewServiceContainer wires the concrete services together in dependency
// order and returns the container handed to the HTTP layer.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cache ports.Cache, cacheTTL time.Duration) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo, cache, cacheTTL)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, cache, cacheTTL)

	return &portssvc.ServiceContainer{
		Account:     accountSvc,
		Journal:     journalSvc,
		Reporting:   NewReportingService(repos.ReportingRepo),
		Seeder:      NewSeederService(accountSvc),
		Integration: NewIntegrationService(journalSvc, accountSvc),
	}
}
